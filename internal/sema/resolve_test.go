package sema

import (
	"slices"
	"testing"

	"composita/internal/ast"
	"composita/internal/diag"
	"composita/internal/symbols"
)

const tokenRing = `
COMPONENT TokenRing REQUIRES SystemTime;
	CONSTANT
		N = 1000; (* nodes *)
		K = 1000; (* circulations *)
		Output = FALSE;

	INTERFACE Neighbour;
		{ IN PassToken } IN Finish
	END Neighbour;

	INTERFACE Control;
		IN InjectToken OUT ReturnToken
	END Control;

	COMPONENT Node OFFERS Neighbour, Control REQUIRES Neighbour;
		VARIABLE k: INTEGER;

		IMPLEMENTATION Control;
		BEGIN {EXCLUSIVE}
			?InjectToken; Neighbour!PassToken; INC(k);
			AWAIT(k > K);
			!ReturnToken
		END Control;

		IMPLEMENTATION Neighbour;
		BEGIN {EXCLUSIVE}
			WHILE k <= K DO
				?PassToken; Neighbour!PassToken; INC(k);
				IF Output THEN WRITE(".") END
			END;
			IF ?PassToken THEN ?PassToken END;
			Neighbour!Finish; ?Finish
		END Neighbour;

		BEGIN k := 0
	END Node;

	PROCEDURE SystemTime(): INTEGER;
	VARIABLE t: INTEGER;
	BEGIN SystemTime!GetSystemTime; SystemTime?SystemTime(t); RETURN t
	END SystemTime;

	VARIABLE
		node[number: INTEGER]: Node;
		i, start: INTEGER;
	BEGIN
		start := SystemTime();
		FOR i := 1 TO N DO NEW(node[i]) END;
		FOR i := 1 TO N DO
			CONNECT(Neighbour(node[i]), node[i MOD N + 1])
		END;
		Control(node[1])!InjectToken; Control(node[1])?ReturnToken;
		WRITE(SystemTime()-start); WRITE("ms"); WRITELINE
END TokenRing;
`

const gcTest = `
COMPONENT GCTest REQUIRES SystemTime, FileSystem;
	PROCEDURE SystemTime(): INTEGER;
		VARIABLE t: INTEGER;
		BEGIN SystemTime!GetSystemTime; SystemTime?SystemTime(t); RETURN t
	END SystemTime;

	PROCEDURE MakeInteger(VARIABLE x: INTEGER): TEXT;
		VARIABLE k, d, i: INTEGER; a[i: INTEGER]: CHARACTER; t: TEXT;
		BEGIN
			i := 0;
			IF x < 0 THEN a[i] := "-"; INC(i); x := -x END;
			k := 10; WHILE k <= x DO k := k * 10 END;
			REPEAT
				k := k DIV 10;
				d := (x DIV k) MOD 10;
				a[i] := CHARACTER(INTEGER("0") + d); INC(i)
			UNTIL k = 1;
			NEW(t, i+1);
			FOR k := 0 TO i-1 DO t[k] := a[k] END;
			t[i] := 0X;
			RETURN t
	END MakeInteger;

	CONSTANT Runs = 1000;
	VARIABLE k, startTime: INTEGER; test: TokenRing;
		time[x: INTEGER]: INTEGER;
	BEGIN
		FOR k := 1 TO Runs DO
			startTime := SystemTime();
			NEW(test); CONNECT(SystemTime(test), SystemTime);
			DELETE(test);
			time[k] := SystemTime()-startTime
		END;
		FileSystem!New("GCTest.txt"); FileSystem?Done;
		FOR k := 1 TO Runs DO
			FileSystem!WriteText(MakeInteger(time[k]));
			FileSystem!Write(CHARACTER(0DX));
			WRITE(time[k]); WRITE("ms ")
		END;
		FileSystem!Close
END GCTest;
`

const producerConsumer = `
COMPONENT ProducerConsumer;
	CONSTANT
		N = 5; M = 5; K = 1000; C = 10;
		Output = FALSE;

	COMPONENT Producer REQUIRES DataAcceptor;
		VARIABLE i: INTEGER;
		BEGIN
			FOR i := 1 TO K DO DataAcceptor!Element(i) END;
			DataAcceptor!Finished
	END Producer;

	COMPONENT Consumer REQUIRES DataSource;
		VARIABLE x: INTEGER;
		BEGIN
			WHILE DataSource?Element DO
				DataSource?Element(x);
				IF Output AND (x MOD (K DIV 10) = 0) THEN WRITE(x); WRITELINE END
			END;
			DataSource?Finished
	END Consumer;

	INTERFACE DataAcceptor;
		{ IN Element(x: INTEGER) } IN Finished
	END DataAcceptor;

	INTERFACE DataSource;
		{ OUT Element(x: INTEGER) } OUT Finished
	END DataSource;

	COMPONENT BoundedBuffer OFFERS DataAcceptor, DataSource;
		VARIABLE
			a[position: INTEGER]: INTEGER {ARRAY};
			first, last: INTEGER;
			nofProducers: INTEGER;

		IMPLEMENTATION DataAcceptor;
			BEGIN
				WHILE ?Element DO {EXCLUSIVE}
					AWAIT(last-first < C);
					?Element(a[last MOD C]); INC(last)
				END;
				?Finished;
				BEGIN {EXCLUSIVE} DEC(nofProducers) END
		END DataAcceptor;

		IMPLEMENTATION DataSource;
			VARIABLE stop: BOOLEAN;
			BEGIN
				stop := FALSE;
				REPEAT {EXCLUSIVE}
					AWAIT((first < last) OR (nofProducers = 0));
					IF first < last THEN
						!Element(a[first MOD C]); INC(first)
					ELSE stop := TRUE
					END
				UNTIL stop;
				!Finished
		END DataSource;

		BEGIN
			NEW(a, C); first := 0; last := 0; nofProducers := N
	END BoundedBuffer;

	VARIABLE
		buffer: BoundedBuffer;
		producer[number: INTEGER]: Producer;
		consumer[number: INTEGER]: Consumer;
		i: INTEGER;
	BEGIN
		NEW(buffer);
		FOR i := 1 TO N DO
			NEW(producer[i]); CONNECT(DataAcceptor(producer[i]), buffer)
		END;
		FOR i := 1 TO M DO
			NEW(consumer[i]); CONNECT(DataSource(consumer[i]), buffer)
		END;
		FOR i := 1 TO M DO DELETE(consumer[i]) END
END ProducerConsumer;
`

const library = `
COMPONENT Library;
	INTERFACE Lending;
		{ IN Borrow(book: ANY(Book)) OUT Ok | IN Return(book: ANY(Book)) }
	END Lending;

	INTERFACE Book;
		IN Title OUT Title(t: TEXT)
	END Book;

	COMPONENT Novel OFFERS Book;
		IMPLEMENTATION Book;
		BEGIN ?Title; !Title("Novel")
		END Book;
	END Novel;

	COMPONENT Service OFFERS Lending;
		VARIABLE shelf[k: INTEGER]: ANY(Book); n: INTEGER;
		IMPLEMENTATION Lending;
		BEGIN
			WHILE ?Borrow DO
				?Borrow(shelf[n]); INC(n); !Ok
			END
		END Lending;
		BEGIN n := 0
	END Service;

	VARIABLE service: Service; novel: Novel; title: TEXT;
		books[k: INTEGER]: ANY(Book);
		k: INTEGER;
	BEGIN
		NEW(service); NEW(novel);
		books[1] := novel;
		Lending(service)!Borrow(novel); Lending(service)?Ok;
		Book(novel)!Title; Book(novel)?Title(title);
		FOREACH k OF books DO WRITE(k) END
END Library;
`

func TestResolveSamplePrograms(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"variables", "COMPONENT HelloWorld; VARIABLE foo: REAL; END HelloWorld;"},
		{"arcsin", "COMPONENT HelloWorld; BEGIN WRITE(ARCSIN(0.)) END HelloWorld;"},
		{"cos pi", "COMPONENT HelloWorld; BEGIN WRITE(COS(PI)) END HelloWorld;"},
		{"token ring", tokenRing},
		{"gc test", tokenRing + gcTest},
		{"producer consumer", producerConsumer},
		{"library", library},
		{"time", "COMPONENT Clock; VARIABLE t: INTEGER; BEGIN t := TIME; WRITE(TIME) END Clock;"},
		{"text index", `COMPONENT News;
			VARIABLE news[pos: INTEGER]: TEXT; line: TEXT; c: CHARACTER;
			BEGIN
				NEW(news, 2); news[1] := "hello"; line := news[1]; c := line[0]
			END News;`},
		{"entrypoint", `COMPONENT {ENTRYPOINT} Main REQUIRES SystemTime, FileSystem; BEGIN WRITE("hi") END Main;`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolveSource(t, systemInterfaces+tc.src)
		})
	}
}

func TestResolveCharacterCodesAreIntegers(t *testing.T) {
	b, res := resolveSource(t, systemInterfaces+`COMPONENT P;
		VARIABLE c: CHARACTER; line: TEXT;
		BEGIN
			c := CHARACTER(0DX); NEW(line, 2); line[1] := 0X
		END P;`)
	table := res.Table
	want := map[int64]bool{0x0D: false, 0: false}
	table.ExprType.Each(func(id ast.ExprID, ty symbols.SymbolID) {
		if b.Exprs.Get(id).Kind != ast.ExprInt {
			return
		}
		v := b.Exprs.Literal(id).Int
		if _, ok := want[v]; !ok {
			return
		}
		if ty != table.Integer {
			t.Errorf("literal %d typed %s", v, table.Describe(ty))
		}
		want[v] = true
	})
	for v, seen := range want {
		if !seen {
			t.Errorf("literal %d was not resolved", v)
		}
	}
}

func TestResolveProceduresDifferingInReturnType(t *testing.T) {
	_, res := resolveSource(t, systemInterfaces+`COMPONENT A;
		PROCEDURE F(x: INTEGER): INTEGER; BEGIN RETURN x END F;
		PROCEDURE F(x: INTEGER): REAL; BEGIN RETURN 1.5 END F;
		END A;`)
	var returns []string
	for _, id := range res.Table.Procedures {
		if res.Table.Name(id) == "F" {
			returns = append(returns, res.Table.Describe(res.Table.Sym(id).Type))
		}
	}
	if !slices.Equal(returns, []string{"INTEGER", "REAL"}) {
		t.Fatalf("F overloads return %v", returns)
	}
}

func TestResolveBuiltinCallOverloads(t *testing.T) {
	src := systemInterfaces + `COMPONENT Writer;
		VARIABLE i: INTEGER; r: REAL;
		BEGIN
			i := 1; r := 1.5;
			WRITE(i); WRITE(r); WRITE("text"); WRITE("c"); WRITELINE
		END Writer;`
	_, res := resolveSource(t, src)
	table := res.Table

	var got []string
	table.StmtCall.Each(func(_ ast.StmtID, proc symbols.SymbolID) {
		sym := table.Sym(proc)
		desc := table.Name(proc) + "("
		for i, p := range sym.Params {
			if i > 0 {
				desc += ","
			}
			desc += table.Describe(p)
		}
		got = append(got, desc+")")
	})
	slices.Sort(got)
	want := []string{"WRITE(CHARACTER)", "WRITE(INTEGER)", "WRITE(REAL)", "WRITE(TEXT)", "WRITELINE()"}
	if !slices.Equal(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestResolveTimeIsBuiltinVariable(t *testing.T) {
	b, res := resolveSource(t, systemInterfaces+"COMPONENT Clock; VARIABLE t: INTEGER; BEGIN t := TIME END Clock;")
	table := res.Table
	found := false
	table.DesignatorSym.Each(func(id ast.ExprID, sym symbols.SymbolID) {
		if name := b.Exprs.Name(id); name != nil && table.Name(sym) == "TIME" {
			s := table.Sym(sym)
			if s.Flags&symbols.SymbolFlagBuiltin == 0 || s.Mutable() {
				t.Fatalf("TIME resolved to %v", s.Flags.Strings())
			}
			found = true
		}
	})
	if !found {
		t.Fatal("TIME designator not bound")
	}
}

func TestResolveTextVariableIsCharacterCollection(t *testing.T) {
	_, res := resolveSource(t, systemInterfaces+`COMPONENT T; VARIABLE s: TEXT; c: CHARACTER; BEGIN s := "ab"; c := s[1] END T;`)
	table := res.Table
	s := named(t, table, symbols.SymbolCollection, "s")
	if s.Flags&symbols.SymbolFlagText == 0 {
		t.Fatalf("s flags = %v, want text", s.Flags.Strings())
	}
	if len(s.Params) != 1 || s.Params[0] != table.Integer {
		t.Fatalf("s params = %v", s.Params)
	}
}

func TestResolvePatternsUseSingletons(t *testing.T) {
	src := systemInterfaces + `INTERFACE Control;
		{ IN Ping } IN Stop
	END Control;

	COMPONENT Echo OFFERS Control;
		IMPLEMENTATION Control;
		BEGIN
			WHILE ?Ping DO ?Ping END;
			IF ?ANY THEN ?Stop END;
			IF ?FINISH THEN WRITELINE END
		END Control;
	END Echo;`
	_, res := resolveSource(t, src)
	table := res.Table
	seen := map[string]bool{}
	table.PatternMsg.Each(func(_ ast.ExprID, msg symbols.SymbolID) {
		switch msg {
		case table.AnyMessage:
			seen["ANY"] = true
		case table.FinishMessage:
			seen["FINISH"] = true
		default:
			seen[table.Name(msg)] = true
		}
	})
	for _, want := range []string{"ANY", "FINISH", "Ping"} {
		if !seen[want] {
			t.Errorf("pattern %s not resolved, got %v", want, seen)
		}
	}
}

func TestResolveRepeatedMessageSharesSymbol(t *testing.T) {
	src := systemInterfaces + `COMPONENT A;
		INTERFACE Proto;
			{ IN Get OUT Value(x: INTEGER) | IN Peek OUT Value(x: INTEGER) }
		END Proto;
	END A;`
	_, res := resolveSource(t, src)
	named(t, res.Table, symbols.SymbolMessage, "Value")
}

func TestResolveForeachDeclaresImplicitVariables(t *testing.T) {
	src := systemInterfaces + `COMPONENT Grid;
		VARIABLE cell[x, y: INTEGER]: REAL;
		BEGIN
			FOREACH a, b OF cell DO WRITE(a + b) END
		END Grid;`
	_, res := resolveSource(t, src)
	for _, name := range []string{"a", "b"} {
		v := named(t, res.Table, symbols.SymbolVariable, name)
		if v.Flags&symbols.SymbolFlagImplicit == 0 || v.Type != res.Table.Integer {
			t.Fatalf("%s: flags %v type %s", name, v.Flags.Strings(), res.Table.Describe(v.Type))
		}
	}
}

func TestResolveFaults(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"duplicate component", "COMPONENT A; END A; COMPONENT A; END A;", diag.SemaDuplicate},
		{"duplicate variable", "COMPONENT A; VARIABLE x: INTEGER; x: REAL; END A;", diag.SemaDuplicate},
		{"duplicate procedure", `COMPONENT A;
			PROCEDURE P(x: INTEGER); BEGIN END P;
			PROCEDURE P(y: INTEGER); BEGIN END P;
			END A;`, diag.SemaDuplicate},
		{"unresolved", "COMPONENT A; BEGIN x := 1 END A;", diag.SemaUnresolved},
		{"unknown type", "COMPONENT A; VARIABLE x: Foo; END A;", diag.SemaUnknownType},
		{"sign on boolean", "COMPONENT A; VARIABLE b: BOOLEAN; BEGIN b := -TRUE END A;", diag.SemaOperatorType},
		{"factor mismatch", "COMPONENT A; VARIABLE x: INTEGER; BEGIN x := 1 + 2.5 END A;", diag.SemaTypeMismatch},
		{"assign component mismatch", `INTERFACE Book; IN Read END Book;
			COMPONENT A; VARIABLE b: ANY(Book); t: ANY(SystemTime); BEGIN b := t END A;`, diag.SemaTypeMismatch},
		{"assign constant", "COMPONENT A; CONSTANT N = 5; BEGIN N := 3 END A;", diag.SemaAssignImmutable},
		{"assign time", "COMPONENT A; BEGIN TIME := 3 END A;", diag.SemaAssignImmutable},
		{"no implicit interface", "COMPONENT A; BEGIN !Ping END A;", diag.SemaNoImplicitInterface},
		{"unknown message", "COMPONENT A REQUIRES SystemTime; BEGIN SystemTime!Nope END A;", diag.SemaUnknownMessage},
		{"no overload", "COMPONENT A; BEGIN WRITE(TRUE) END A;", diag.SemaNoOverload},
		{"constant called", "COMPONENT A; BEGIN WRITE(PI(1)) END A;", diag.SemaNotAConstant},
		{"constant shadowed", "COMPONENT A; VARIABLE PI: REAL; END A;", diag.SemaNotAConstant},
		{"entrypoint requires", `COMPONENT A;
			INTERFACE Custom; IN Go END Custom;
			COMPONENT {ENTRYPOINT} Main REQUIRES Custom; END Main;
			END A;`, diag.SemaEntryPointRequires},
		{"implementation not offered", `COMPONENT A;
			IMPLEMENTATION SystemTime; BEGIN END SystemTime;
			END A;`, diag.SemaNoOfferedInterface},
		{"bad cardinality", "COMPONENT A OFFERS SystemTime[3..1]; END A;", diag.SemaBadCardinality},
		{"interface listed twice", "COMPONENT A REQUIRES SystemTime, SystemTime; END A;", diag.SemaDuplicateInSignature},
		{"foreach arity", `COMPONENT A;
			VARIABLE list[i: INTEGER]: INTEGER;
			BEGIN FOREACH a, b OF list DO END
			END A;`, diag.SemaForeachArity},
		{"for over index", `COMPONENT A;
			VARIABLE list[i: INTEGER]: INTEGER;
			BEGIN FOR list[1] := 1 TO 3 DO END
			END A;`, diag.SemaUnsupportedShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := expectFault(t, systemInterfaces+tc.src, tc.code)
			if f.Msg == "" {
				t.Fatal("fault without message")
			}
		})
	}
}

func TestReportPrefixesFaults(t *testing.T) {
	b, file := parseSource(t, systemInterfaces+"COMPONENT A; BEGIN x := 1 END A;")
	_, err := Resolve(b, file, Options{})
	if err == nil {
		t.Fatal("expected fault")
	}
	bag := diag.NewBag(10)
	Report(diag.BagReporter{Bag: bag}, err, b.Files.Get(file).Span)
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(items))
	}
	if items[0].Code != diag.SemaUnresolved || items[0].Severity != diag.SevError {
		t.Fatalf("got %s/%v", items[0].Code.ID(), items[0].Severity)
	}
	if want := "failed to resolve: "; len(items[0].Message) < len(want) || items[0].Message[:len(want)] != want {
		t.Fatalf("message %q lacks prefix", items[0].Message)
	}
}
