package symbols

import (
	"testing"

	"composita/internal/source"
)

type fixture struct {
	table   *Table
	program ScopeID
	comp    SymbolID
	compSc  ScopeID
	iface   SymbolID
	ifaceSc ScopeID
	impl    ScopeID
	block   ScopeID
}

// newFixture builds
//
//	INTERFACE Ping; { IN Hello(INTEGER) } END Ping;
//	COMPONENT Server OFFERS Ping;
//	  VARIABLE x: INTEGER;
//	  IMPLEMENTATION Ping; BEGIN <block> END Ping;
//	END Server;
func newFixture(t *testing.T) *fixture {
	t.Helper()
	table := NewTable(Hints{}, nil)
	table.SeedBuiltins()
	f := &fixture{table: table, program: table.Program(source.Span{})}

	f.iface = table.Declare(f.program, Symbol{Kind: SymbolInterface, Name: table.Strings.Intern("Ping")})
	f.ifaceSc = table.OpenScope(ScopeInterface, f.program, f.iface, source.Span{})
	table.Declare(f.ifaceSc, Symbol{Kind: SymbolMessage, Name: table.Strings.Intern("Hello"), Params: []SymbolID{table.Integer}})

	g, err := NewGeneric([]InterfaceDecl{{Iface: f.iface, Card: Cardinality{Min: 1, Max: 1}}}, nil)
	if err != nil {
		t.Fatalf("generic: %v", err)
	}
	f.comp = table.Declare(f.program, Symbol{Kind: SymbolComponent, Name: table.Strings.Intern("Server"), Generic: g})
	f.compSc = table.OpenScope(ScopeComponent, f.program, f.comp, source.Span{})
	table.Declare(f.compSc, Symbol{Kind: SymbolVariable, Name: table.Strings.Intern("x"), Type: table.Integer, Flags: SymbolFlagMutable})

	impl := table.Declare(f.compSc, Symbol{Kind: SymbolImplementation, Name: table.Strings.Intern("Ping"), Iface: f.iface})
	f.impl = table.OpenScope(ScopeImplementation, f.compSc, impl, source.Span{})
	f.block = table.OpenScope(ScopeBlock, f.impl, NoSymbolID, source.Span{})
	return f
}

func (f *fixture) id(name string) source.StringID { return f.table.Strings.Intern(name) }

func TestFindVariableClimbsToComponent(t *testing.T) {
	f := newFixture(t)
	got := f.table.FindVariable(f.id("x"), Search(f.block, false, true))
	if len(got) != 1 {
		t.Fatalf("x from implementation block = %v", got)
	}
	// без глобальной области TIME не виден
	if got := f.table.FindVariable(f.id("TIME"), Search(f.block, false, true)); len(got) != 0 {
		t.Fatalf("TIME must not resolve without global search, got %v", got)
	}
	if got := f.table.FindVariable(f.id("TIME"), Search(f.block, true, true)); len(got) != 1 {
		t.Fatalf("TIME with global search = %v", got)
	}
}

func TestFindShadowing(t *testing.T) {
	f := newFixture(t)
	inner := f.table.Declare(f.block, Symbol{Kind: SymbolVariable, Name: f.id("x"), Type: f.table.Real, Flags: SymbolFlagMutable})
	got := f.table.FindVariable(f.id("x"), Search(f.block, false, true))
	if len(got) != 1 || got[0] != inner {
		t.Fatalf("block variable must shadow component variable, got %v", got)
	}
}

func TestFindComponentScopeGuard(t *testing.T) {
	f := newFixture(t)
	// процедура из глобальной области: компонент без Parent прыгает в global
	writeline := f.id("WRITELINE")
	if got := f.table.FindProcedure(writeline, nil, NoSymbolID, Search(f.block, true, false)); len(got) != 1 {
		t.Fatalf("WRITELINE via global jump = %v", got)
	}
	if got := f.table.FindProcedure(writeline, nil, NoSymbolID, Search(f.block, false, false)); len(got) != 0 {
		t.Fatalf("WRITELINE without global = %v", got)
	}
	// a component-level search without Parent never reaches program-level siblings
	if got := f.table.FindInterface(f.id("Ping"), Search(f.compSc, true, false)); len(got) != 0 {
		t.Fatalf("interface reached through guarded component scope: %v", got)
	}
	if got := f.table.FindInterface(f.id("Ping"), Search(f.compSc, true, true)); len(got) != 1 {
		t.Fatalf("interface with parent search = %v", got)
	}
}

func TestFindMessage(t *testing.T) {
	f := newFixture(t)
	hello := f.id("Hello")
	opts := Search(f.ifaceSc, false, false)
	if got := f.table.FindMessage(hello, false, []SymbolID{f.table.Integer}, opts); len(got) != 1 {
		t.Fatalf("Hello(INTEGER) = %v", got)
	}
	if got := f.table.FindMessage(hello, false, []SymbolID{f.table.Text}, opts); len(got) != 0 {
		t.Fatalf("Hello(TEXT) must not match, got %v", got)
	}
	if got := f.table.FindMessage(hello, true, nil, opts); len(got) != 1 {
		t.Fatalf("Hello ignoring params = %v", got)
	}
}

func TestFindImplementationByInterfaceName(t *testing.T) {
	f := newFixture(t)
	if got := f.table.FindImplementation(f.id("Ping"), Search(f.compSc, false, false)); len(got) != 1 {
		t.Fatalf("implementation lookup = %v", got)
	}
	if got := f.table.FindImplementation(f.id("Pong"), Search(f.compSc, false, false)); len(got) != 0 {
		t.Fatalf("unexpected implementation %v", got)
	}
}

func TestAssignableComponents(t *testing.T) {
	f := newFixture(t)
	anyPing := f.table.Declare(f.compSc, Symbol{
		Kind:    SymbolGenericComponent,
		Name:    f.id("@generic"),
		Generic: &Generic{Offered: []InterfaceDecl{{Iface: f.iface, Card: Cardinality{Min: 1, Max: Unbounded}}}},
	})
	if !f.table.Assignable(anyPing, f.comp) {
		t.Fatalf("Server must fit ANY(Ping[1..*])")
	}
	if !f.table.Assignable(f.table.AnyComponent, f.comp) {
		t.Fatalf("Server must fit the any-component parameter")
	}
	if !f.table.Assignable(f.table.AnyRequiredInterface, f.iface) {
		t.Fatalf("Ping must fit the any-required-interface parameter")
	}
	if f.table.Assignable(f.table.Integer, f.table.Real) {
		t.Fatalf("REAL is not an INTEGER")
	}
	newProc := f.table.FindProcedure(f.id("NEW"), []SymbolID{f.comp}, NoSymbolID, Search(f.block, true, false))
	if len(newProc) != 1 {
		t.Fatalf("NEW(Server) overloads = %v", newProc)
	}
}

func TestProcedureParam(t *testing.T) {
	f := newFixture(t)
	proc := f.table.Declare(f.compSc, Symbol{Kind: SymbolProcedure, Name: f.id("Step"), Type: f.table.Void})
	procSc := f.table.OpenScope(ScopeProcedure, f.compSc, proc, source.Span{})
	param := f.table.Declare(procSc, Symbol{Kind: SymbolVariable, Name: f.id("n"), Type: f.table.Integer, Flags: SymbolFlagParam})
	block := f.table.OpenScope(ScopeBlock, procSc, NoSymbolID, source.Span{})

	got := f.table.ProcedureParam(f.id("n"), block)
	if len(got) != 1 || got[0] != param {
		t.Fatalf("param lookup = %v", got)
	}
	if got := f.table.ProcedureParam(f.id("n"), f.block); len(got) != 0 {
		t.Fatalf("param visible outside its procedure: %v", got)
	}
	if err := f.table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
