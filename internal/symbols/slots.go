package symbols

// Slots maps dense tree ids to symbols. Zero keys and unset slots read as
// NoSymbolID, so the tree never has to carry resolver state.
type Slots[K ~uint32] struct {
	data []SymbolID
}

func (s *Slots[K]) Set(key K, sym SymbolID) {
	if int(key) >= len(s.data) {
		grown := make([]SymbolID, max(int(key)+1, 2*len(s.data)))
		copy(grown, s.data)
		s.data = grown
	}
	s.data[key] = sym
}

func (s *Slots[K]) Get(key K) SymbolID {
	if int(key) >= len(s.data) {
		return NoSymbolID
	}
	return s.data[key]
}

// Count reports how many slots hold a symbol.
func (s *Slots[K]) Count() int {
	n := 0
	for _, v := range s.data {
		if v.IsValid() {
			n++
		}
	}
	return n
}

// Each visits set slots in key order.
func (s *Slots[K]) Each(fn func(key K, sym SymbolID)) {
	for i, v := range s.data {
		if v.IsValid() {
			fn(K(i), v) //nolint:gosec // i < len(data), which was sized from a K
		}
	}
}
