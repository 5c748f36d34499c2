package symbols

// Builtin type names as written in source.
const (
	TypeBoolean   = "BOOLEAN"
	TypeCharacter = "CHARACTER"
	TypeText      = "TEXT"
	TypeInteger   = "INTEGER"
	TypeReal      = "REAL"
)

// builtinParam names a parameter or return type of a builtin procedure.
type builtinParam uint8

const (
	bVoid builtinParam = iota
	bBool
	bChar
	bText
	bInt
	bReal
	bAnyComponent
	bAnyRequired
)

type builtinProc struct {
	name   string
	ret    builtinParam
	params []builtinParam
}

// builtinProcs is the system procedure table; the order is the declaration
// order in the global scope.
var builtinProcs = []builtinProc{
	{"ASSERT", bVoid, []builtinParam{bBool}},
	{"ASSERT", bVoid, []builtinParam{bBool, bInt}},
	{"HALT", bVoid, []builtinParam{bInt}},
	{"INC", bVoid, []builtinParam{bInt}},
	{"INC", bVoid, []builtinParam{bInt, bInt}},
	{"DEC", bVoid, []builtinParam{bInt}},
	{"DEC", bVoid, []builtinParam{bInt, bInt}},
	{"PASSIVATE", bVoid, []builtinParam{bInt}},
	{"WRITE", bVoid, []builtinParam{bText}},
	{"WRITE", bVoid, []builtinParam{bInt}},
	{"WRITE", bVoid, []builtinParam{bReal}},
	{"WRITE", bVoid, []builtinParam{bChar}},
	{"WRITEHEX", bVoid, []builtinParam{bInt}},
	{"WRITELINE", bVoid, nil},
	// выделение и освобождение
	{"NEW", bVoid, []builtinParam{bAnyComponent}},
	{"NEW", bVoid, []builtinParam{bInt}},
	{"NEW", bVoid, []builtinParam{bInt, bInt}},
	{"NEW", bVoid, []builtinParam{bInt, bInt, bInt}},
	{"DELETE", bVoid, []builtinParam{bAnyComponent}},
	// функции
	{"COUNT", bInt, []builtinParam{bAnyRequired}},
	{"LENGTH", bInt, []builtinParam{bText}},
	{"SQRT", bReal, []builtinParam{bReal}},
	{"SIN", bReal, []builtinParam{bReal}},
	{"COS", bReal, []builtinParam{bReal}},
	{"TAN", bReal, []builtinParam{bReal}},
	{"ARCSIN", bReal, []builtinParam{bReal}},
	{"ARCCOS", bReal, []builtinParam{bReal}},
	{"ARCTAN", bReal, []builtinParam{bReal}},
	{"RANDOM", bInt, []builtinParam{bInt, bInt}},
	{"MIN", bReal, []builtinParam{bReal}},
	{"MIN", bInt, []builtinParam{bInt}},
	{"MAX", bReal, []builtinParam{bReal}},
	{"MAX", bInt, []builtinParam{bInt}},
	// conversions
	{"CHARACTER", bChar, []builtinParam{bInt}},
	{"INTEGER", bInt, []builtinParam{bReal}},
	{"INTEGER", bInt, []builtinParam{bChar}},
	{"REAL", bReal, []builtinParam{bInt}},
	{"TEXT", bText, []builtinParam{bChar}},
}

// SeedBuiltins fills the global scope: the value types, the system
// procedures, TRUE, FALSE, PI and the read-only TIME variable. Calling it
// twice is a no-op.
func (t *Table) SeedBuiltins() {
	if t.Integer.IsValid() {
		return
	}
	builtin := func(name string) SymbolID {
		return t.Declare(t.Global, Symbol{Kind: SymbolBuiltinType, Name: t.Strings.Intern(name), Flags: SymbolFlagBuiltin})
	}
	t.Boolean = builtin(TypeBoolean)
	t.Character = builtin(TypeCharacter)
	t.Text = builtin(TypeText)
	t.Integer = builtin(TypeInteger)
	t.Real = builtin(TypeReal)

	resolve := func(p builtinParam) SymbolID {
		switch p {
		case bBool:
			return t.Boolean
		case bChar:
			return t.Character
		case bText:
			return t.Text
		case bInt:
			return t.Integer
		case bReal:
			return t.Real
		case bAnyComponent:
			return t.AnyComponent
		case bAnyRequired:
			return t.AnyRequiredInterface
		}
		return t.Void
	}
	for _, bp := range builtinProcs {
		params := make([]SymbolID, 0, len(bp.params))
		for _, p := range bp.params {
			params = append(params, resolve(p))
		}
		t.Declare(t.Global, Symbol{
			Kind:   SymbolProcedure,
			Name:   t.Strings.Intern(bp.name),
			Flags:  SymbolFlagBuiltin,
			Type:   resolve(bp.ret),
			Params: params,
		})
	}

	for _, c := range []struct {
		name string
		typ  SymbolID
	}{{"TRUE", t.Boolean}, {"FALSE", t.Boolean}, {"PI", t.Real}} {
		t.Declare(t.Global, Symbol{Kind: SymbolConstant, Name: t.Strings.Intern(c.name), Flags: SymbolFlagBuiltin, Type: c.typ})
	}
	t.Declare(t.Global, Symbol{Kind: SymbolVariable, Name: t.Strings.Intern("TIME"), Flags: SymbolFlagBuiltin, Type: t.Integer})
}

// SystemProcedures lists the builtin procedures in declaration order.
func (t *Table) SystemProcedures() []SymbolID {
	return t.InScope(t.Global, SymbolProcedure)
}
