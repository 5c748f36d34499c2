package token

// Kind is the category of a token.
type Kind uint8

const (
	// Invalid marks an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of input.
	EOF

	// Ident is an identifier.
	Ident
	// IntLit is a decimal integer or a hexadecimal one with an H or X
	// suffix; 0DX is the integer 13.
	IntLit
	// RealLit is a real number, optionally with an E scale factor.
	RealLit
	// TextLit is a double-quoted text literal.
	TextLit

	// KwBegin is BEGIN.
	KwBegin
	KwActivity
	KwFinally
	KwEnd
	KwConstant
	KwVariable
	KwIn
	KwOut
	KwIs
	KwType
	KwAny
	KwFinish
	KwComponent
	KwInterface
	KwProcedure
	KwImplementation
	KwOffers
	KwRequires
	KwFor
	KwTo
	KwBy
	KwDo
	KwForeach
	KwOf
	KwWhile
	KwRepeat
	KwUntil
	KwIf
	KwThen
	KwElsif
	KwElse
	KwReturn
	KwDiv
	KwMod
	KwAnd
	KwOr

	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	LParen    // (
	RParen    // )
	Semicolon // ;
	Colon     // :
	Comma     // ,
	Star      // *
	Pipe      // |
	Hash      // #
	Eq        // =
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Assign    // :=
	DotDot    // ..
	Plus      // +
	Minus     // -
	Tilde     // ~
	Slash     // /
	Bang      // !
	Question  // ?
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	IntLit:           "IntLit",
	RealLit:          "RealLit",
	TextLit:          "TextLit",
	KwBegin:          "BEGIN",
	KwActivity:       "ACTIVITY",
	KwFinally:        "FINALLY",
	KwEnd:            "END",
	KwConstant:       "CONSTANT",
	KwVariable:       "VARIABLE",
	KwIn:             "IN",
	KwOut:            "OUT",
	KwIs:             "IS",
	KwType:           "TYPE",
	KwAny:            "ANY",
	KwFinish:         "FINISH",
	KwComponent:      "COMPONENT",
	KwInterface:      "INTERFACE",
	KwProcedure:      "PROCEDURE",
	KwImplementation: "IMPLEMENTATION",
	KwOffers:         "OFFERS",
	KwRequires:       "REQUIRES",
	KwFor:            "FOR",
	KwTo:             "TO",
	KwBy:             "BY",
	KwDo:             "DO",
	KwForeach:        "FOREACH",
	KwOf:             "OF",
	KwWhile:          "WHILE",
	KwRepeat:         "REPEAT",
	KwUntil:          "UNTIL",
	KwIf:             "IF",
	KwThen:           "THEN",
	KwElsif:          "ELSIF",
	KwElse:           "ELSE",
	KwReturn:         "RETURN",
	KwDiv:            "DIV",
	KwMod:            "MOD",
	KwAnd:            "AND",
	KwOr:             "OR",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	LParen:           "(",
	RParen:           ")",
	Semicolon:        ";",
	Colon:            ":",
	Comma:            ",",
	Star:             "*",
	Pipe:             "|",
	Hash:             "#",
	Eq:               "=",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	Assign:           ":=",
	DotDot:           "..",
	Plus:             "+",
	Minus:            "-",
	Tilde:            "~",
	Slash:            "/",
	Bang:             "!",
	Question:         "?",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
