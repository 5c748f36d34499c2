package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// лексер
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedText    Code = 1002
	LexUnterminatedComment Code = 1003
	LexBadNumber           Code = 1004
	LexBadEscape           Code = 1005
	LexMissingHexSuffix    Code = 1006

	// парсер
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectSemicolon    Code = 2003
	SynNameMismatch       Code = 2004
	SynDuplicateBlock     Code = 2005
	SynBadCardinality     Code = 2006
	SynMissingDirection   Code = 2007
	SynUnknownStatement   Code = 2008
	SynUnexpectedTopLevel Code = 2009
	SynExpectExpression   Code = 2010
	SynExpectType         Code = 2011

	// семантика
	SemaInfo                 Code = 3000
	SemaDuplicate            Code = 3001
	SemaUnresolved           Code = 3002
	SemaUnknownType          Code = 3003
	SemaUnknownMessage       Code = 3004
	SemaAmbiguous            Code = 3005
	SemaNoOverload           Code = 3006
	SemaTypeMismatch         Code = 3007
	SemaOperatorType         Code = 3008
	SemaEntryPointRequires   Code = 3009
	SemaUnsupportedShape     Code = 3010
	SemaAssignImmutable      Code = 3011
	SemaNoImplicitInterface  Code = 3012
	SemaNoOfferedInterface   Code = 3013
	SemaBadCardinality       Code = 3014
	SemaDuplicateInSignature Code = 3015
	SemaForeachArity         Code = 3016
	SemaNotAConstant         Code = 3017

	// кодогенерация
	GenInfo           Code = 4000
	GenUnsupported    Code = 4001
	GenNoDescriptor   Code = 4002
	GenPartialFeature Code = 4003

	IOReadFailed  Code = 5001
	IOCacheFailed Code = 5002
	IOWriteFailed Code = 5003

	ProjManifestInvalid  Code = 6001
	ProjManifestNotFound Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedText:    "Unterminated text literal",
	LexUnterminatedComment: "Unterminated comment",
	LexBadNumber:           "Malformed number",
	LexBadEscape:           "Invalid escape sequence",
	LexMissingHexSuffix:    "Missing \"H\" or \"X\" after hex number",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectSemicolon:    "Expected ';'",
	SynNameMismatch:       "END name does not match declaration",
	SynDuplicateBlock:     "Duplicate BEGIN, ACTIVITY or FINALLY block",
	SynBadCardinality:     "Malformed cardinality",
	SynMissingDirection:   "Message declaration without IN or OUT",
	SynUnknownStatement:   "Unknown statement",
	SynUnexpectedTopLevel: "Only COMPONENT and INTERFACE allowed at top level",
	SynExpectExpression:   "Expected expression",
	SynExpectType:         "Expected type",

	SemaInfo:                 "Semantic information",
	SemaDuplicate:            "Duplicate definition",
	SemaUnresolved:           "Unresolved identifier",
	SemaUnknownType:          "Unknown type",
	SemaUnknownMessage:       "Unknown message",
	SemaAmbiguous:            "Ambiguous reference",
	SemaNoOverload:           "No matching overload",
	SemaTypeMismatch:         "Type mismatch",
	SemaOperatorType:         "Operator not applicable to type",
	SemaEntryPointRequires:   "Entry point requires non-system interface",
	SemaUnsupportedShape:     "Unsupported designator shape",
	SemaAssignImmutable:      "Assignment to immutable value",
	SemaNoImplicitInterface:  "No implicit interface in this context",
	SemaNoOfferedInterface:   "Implementation of an interface the component does not offer",
	SemaBadCardinality:       "Invalid cardinality",
	SemaDuplicateInSignature: "Interface listed twice in signature",
	SemaForeachArity:         "FOREACH designators do not match collection",
	SemaNotAConstant:         "Name refers to a constant",

	GenInfo:           "Code generation information",
	GenUnsupported:    "Construct not supported by code generator",
	GenNoDescriptor:   "Missing descriptor",
	GenPartialFeature: "Partially supported feature",

	IOReadFailed:  "Failed to read file",
	IOCacheFailed: "Cache access failed",
	IOWriteFailed: "Failed to write output",

	ProjManifestInvalid:  "Invalid composita.toml",
	ProjManifestNotFound: "composita.toml not found",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
