package token

var keywords = map[string]Kind{
	"BEGIN":          KwBegin,
	"ACTIVITY":       KwActivity,
	"FINALLY":        KwFinally,
	"END":            KwEnd,
	"CONSTANT":       KwConstant,
	"VARIABLE":       KwVariable,
	"IN":             KwIn,
	"OUT":            KwOut,
	"IS":             KwIs,
	"TYPE":           KwType,
	"ANY":            KwAny,
	"FINISH":         KwFinish,
	"COMPONENT":      KwComponent,
	"INTERFACE":      KwInterface,
	"PROCEDURE":      KwProcedure,
	"IMPLEMENTATION": KwImplementation,
	"OFFERS":         KwOffers,
	"REQUIRES":       KwRequires,
	"FOR":            KwFor,
	"TO":             KwTo,
	"BY":             KwBy,
	"DO":             KwDo,
	"FOREACH":        KwForeach,
	"OF":             KwOf,
	"WHILE":          KwWhile,
	"REPEAT":         KwRepeat,
	"UNTIL":          KwUntil,
	"IF":             KwIf,
	"THEN":           KwThen,
	"ELSIF":          KwElsif,
	"ELSE":           KwElse,
	"RETURN":         KwReturn,
	"DIV":            KwDiv,
	"MOD":            KwMod,
	"AND":            KwAnd,
	"OR":             KwOr,
}

// LookupKeyword returns the keyword kind for an exact, uppercase spelling.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Identifier keywords. They lex as Ident and get their meaning from position.
const (
	IdentNew        = "NEW"
	IdentDelete     = "DELETE"
	IdentConnect    = "CONNECT"
	IdentDisconnect = "DISCONNECT"
	IdentMove       = "MOVE"
	IdentAwait      = "AWAIT"
	IdentInput      = "INPUT"
	IdentExists     = "EXISTS"
)
