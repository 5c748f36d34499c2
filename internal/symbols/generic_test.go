package symbols

import (
	"errors"
	"testing"
)

func card(t *testing.T, minimum, maximum uint32) Cardinality {
	t.Helper()
	c, err := NewCardinality(minimum, maximum)
	if err != nil {
		t.Fatalf("cardinality [%d..%d]: %v", minimum, maximum, err)
	}
	return c
}

func TestNewCardinality(t *testing.T) {
	cases := []struct {
		minimum, maximum uint32
		want             error
		text             string
	}{
		{1, 1, nil, "[1]"},
		{2, 5, nil, "[2..5]"},
		{1, Unbounded, nil, "[1..*]"},
		{0, 1, ErrCardinalityMin, ""},
		{3, 2, ErrCardinalityRange, ""},
	}
	for _, tc := range cases {
		c, err := NewCardinality(tc.minimum, tc.maximum)
		if !errors.Is(err, tc.want) {
			t.Errorf("[%d..%d]: err = %v, want %v", tc.minimum, tc.maximum, err, tc.want)
			continue
		}
		if err == nil && c.String() != tc.text {
			t.Errorf("[%d..%d]: String() = %q, want %q", tc.minimum, tc.maximum, c.String(), tc.text)
		}
	}
}

func TestNewGenericRejectsDuplicates(t *testing.T) {
	one := Cardinality{Min: 1, Max: 1}
	if _, err := NewGeneric([]InterfaceDecl{{Iface: 1, Card: one}, {Iface: 1, Card: one}}, nil); !errors.Is(err, ErrDuplicateOffered) {
		t.Fatalf("offered duplicate: err = %v", err)
	}
	if _, err := NewGeneric(nil, []InterfaceDecl{{Iface: 2, Card: one}, {Iface: 2, Card: one}}); !errors.Is(err, ErrDuplicateRequired) {
		t.Fatalf("required duplicate: err = %v", err)
	}
	// одно и то же имя с разных сторон допустимо
	if _, err := NewGeneric([]InterfaceDecl{{Iface: 1, Card: one}}, []InterfaceDecl{{Iface: 1, Card: one}}); err != nil {
		t.Fatalf("same interface offered and required: %v", err)
	}
}

func TestCanSubstitute(t *testing.T) {
	const (
		ifaceA SymbolID = 10
		ifaceB SymbolID = 11
	)
	exact := func(n uint32) Cardinality { return card(t, n, n) }

	cases := []struct {
		name string
		a, b *Generic
		want bool
	}{
		{
			name: "reflexive exact",
			a:    &Generic{Offered: []InterfaceDecl{{ifaceA, exact(1)}}, Required: []InterfaceDecl{{ifaceB, exact(2)}}},
			b:    &Generic{Offered: []InterfaceDecl{{ifaceA, exact(1)}}, Required: []InterfaceDecl{{ifaceB, exact(2)}}},
			want: true,
		},
		{
			name: "empty substitutes for anything",
			a:    &Generic{},
			b:    &Generic{Offered: []InterfaceDecl{{ifaceA, exact(1)}}},
			want: true,
		},
		{
			name: "anything substitutes for empty",
			a:    &Generic{Offered: []InterfaceDecl{{ifaceA, exact(1)}}},
			b:    nil,
			want: true,
		},
		{
			name: "offered capacity may grow",
			a:    &Generic{Offered: []InterfaceDecl{{ifaceA, card(t, 1, 2)}}},
			b:    &Generic{Offered: []InterfaceDecl{{ifaceA, card(t, 1, Unbounded)}}},
			want: true,
		},
		{
			name: "offered capacity may not shrink",
			a:    &Generic{Offered: []InterfaceDecl{{ifaceA, card(t, 1, 4)}}},
			b:    &Generic{Offered: []InterfaceDecl{{ifaceA, card(t, 1, 2)}}},
			want: false,
		},
		{
			name: "offered min may not shrink",
			a:    &Generic{Offered: []InterfaceDecl{{ifaceA, card(t, 2, 4)}}},
			b:    &Generic{Offered: []InterfaceDecl{{ifaceA, card(t, 1, 4)}}},
			want: false,
		},
		{
			name: "required may ask for less",
			a:    &Generic{Required: []InterfaceDecl{{ifaceB, card(t, 2, 5)}}},
			b:    &Generic{Required: []InterfaceDecl{{ifaceB, card(t, 1, 3)}}},
			want: true,
		},
		{
			name: "required may not ask for more",
			a:    &Generic{Required: []InterfaceDecl{{ifaceB, card(t, 1, 3)}}},
			b:    &Generic{Required: []InterfaceDecl{{ifaceB, card(t, 1, 5)}}},
			want: false,
		},
		{
			name: "interface identity, not shape",
			a:    &Generic{Offered: []InterfaceDecl{{ifaceA, exact(1)}}},
			b:    &Generic{Offered: []InterfaceDecl{{ifaceB, exact(1)}}},
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanSubstitute(tc.a, tc.b); got != tc.want {
				t.Fatalf("CanSubstitute = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComponentSatisfies(t *testing.T) {
	comp := &Generic{Offered: []InterfaceDecl{{Iface: 1, Card: Cardinality{Min: 1, Max: 1}}}}
	if !ComponentSatisfies(comp, &Generic{}) {
		t.Fatalf("empty slot must accept any component")
	}
	if !ComponentSatisfies(comp, &Generic{Offered: []InterfaceDecl{{Iface: 1, Card: Cardinality{Min: 1, Max: Unbounded}}}}) {
		t.Fatalf("slot with wider capacity must accept component")
	}
	if ComponentSatisfies(comp, &Generic{Offered: []InterfaceDecl{{Iface: 2, Card: Cardinality{Min: 1, Max: 1}}}}) {
		t.Fatalf("slot over another interface must reject component")
	}
}
