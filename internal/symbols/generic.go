package symbols

import (
	"errors"
	"fmt"
	"strconv"
)

// Unbounded is the Max of a `*` cardinality.
const Unbounded = ^uint32(0)

var (
	ErrCardinalityMin    = errors.New("cardinality must be greater 0")
	ErrCardinalityRange  = errors.New("cardinality max below min")
	ErrDuplicateOffered  = errors.New("offered interface defined multiple times")
	ErrDuplicateRequired = errors.New("required interface defined multiple times")
)

// Cardinality is an inclusive multiplicity range; Max may be Unbounded.
type Cardinality struct {
	Min, Max uint32
}

// NewCardinality validates 1 <= min <= max.
func NewCardinality(minimum, maximum uint32) (Cardinality, error) {
	if minimum < 1 {
		return Cardinality{}, ErrCardinalityMin
	}
	if maximum < minimum {
		return Cardinality{}, fmt.Errorf("%w: [%d..%d]", ErrCardinalityRange, minimum, maximum)
	}
	return Cardinality{Min: minimum, Max: maximum}, nil
}

func (c Cardinality) Unlimited() bool { return c.Max == Unbounded }

func (c Cardinality) String() string {
	switch {
	case c.Unlimited():
		return "[" + strconv.FormatUint(uint64(c.Min), 10) + "..*]"
	case c.Min == c.Max:
		return "[" + strconv.FormatUint(uint64(c.Min), 10) + "]"
	}
	return "[" + strconv.FormatUint(uint64(c.Min), 10) + ".." + strconv.FormatUint(uint64(c.Max), 10) + "]"
}

// InterfaceDecl is one offered or required interface with its cardinality.
type InterfaceDecl struct {
	Iface SymbolID
	Card  Cardinality
}

// Generic is the immutable (offered, required) signature of a component or
// of a structural ANY(...) type.
type Generic struct {
	Offered  []InterfaceDecl
	Required []InterfaceDecl
}

// NewGeneric rejects an interface listed twice on the same side.
func NewGeneric(offered, required []InterfaceDecl) (*Generic, error) {
	if hasDuplicate(offered) {
		return nil, ErrDuplicateOffered
	}
	if hasDuplicate(required) {
		return nil, ErrDuplicateRequired
	}
	return &Generic{Offered: offered, Required: required}, nil
}

func hasDuplicate(decls []InterfaceDecl) bool {
	seen := make(map[SymbolID]struct{}, len(decls))
	for _, d := range decls {
		if _, ok := seen[d.Iface]; ok {
			return true
		}
		seen[d.Iface] = struct{}{}
	}
	return false
}

// IsEmpty reports a signature without offers and requires. Nil is empty.
func (g *Generic) IsEmpty() bool {
	return g == nil || (len(g.Offered) == 0 && len(g.Required) == 0)
}

// CanSubstitute reports whether a can be used wherever b is expected.
//
// Every offered (I, [min, max]) of a needs an offered (I, [min', max']) in b
// with max' >= max and min' >= min. Every required declaration of a needs a
// required one in b with max' <= max and min' <= min. The empty signature
// substitutes for and is substituted by anything.
func CanSubstitute(a, b *Generic) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return true
	}
	atLeast := func(have, want uint32) bool { return have >= want }
	atMost := func(have, want uint32) bool { return have <= want }
	return matchDecls(a.Offered, b.Offered, atLeast) && matchDecls(a.Required, b.Required, atMost)
}

func matchDecls(from, in []InterfaceDecl, cmp func(have, want uint32) bool) bool {
	for _, d := range from {
		found := false
		for _, other := range in {
			if other.Iface == d.Iface && cmp(other.Card.Max, d.Card.Max) && cmp(other.Card.Min, d.Card.Min) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ComponentSatisfies reports whether a component with signature component
// fits a slot typed by generic.
func ComponentSatisfies(component, generic *Generic) bool {
	if generic.IsEmpty() {
		return true
	}
	return CanSubstitute(component, generic)
}
