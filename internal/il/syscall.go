package il

import "fmt"

// SysCall names a runtime service reached through OpSystemCall.
type SysCall uint8

const (
	SysAssert SysCall = iota
	SysHalt
	SysInc
	SysDec
	SysPassivate
	SysWrite
	SysWriteHex
	SysWriteLine
	SysCount
	SysLength
	SysSqrt
	SysSin
	SysCos
	SysTan
	SysArcSin
	SysArcCos
	SysArcTan
	SysRandom
	SysMin
	SysMax
	SysToCharacter
	SysToInteger
	SysToReal
	SysToText
	// SysLoadForEachDesignators binds the next key tuple of a collection or
	// pushes FALSE when the collection is exhausted.
	SysLoadForEachDesignators
)

var sysNames = [...]string{
	SysAssert:                 "Assert",
	SysHalt:                   "Halt",
	SysInc:                    "Inc",
	SysDec:                    "Dec",
	SysPassivate:              "Passivate",
	SysWrite:                  "Write",
	SysWriteHex:               "WriteHex",
	SysWriteLine:              "WriteLine",
	SysCount:                  "Count",
	SysLength:                 "Length",
	SysSqrt:                   "Sqrt",
	SysSin:                    "Sin",
	SysCos:                    "Cos",
	SysTan:                    "Tan",
	SysArcSin:                 "ArcSin",
	SysArcCos:                 "ArcCos",
	SysArcTan:                 "ArcTan",
	SysRandom:                 "Random",
	SysMin:                    "Min",
	SysMax:                    "Max",
	SysToCharacter:            "ToCharacter",
	SysToInteger:              "ToInteger",
	SysToReal:                 "ToReal",
	SysToText:                 "ToText",
	SysLoadForEachDesignators: "LoadForEachDesignators",
}

func (s SysCall) String() string {
	if int(s) < len(sysNames) {
		return sysNames[s]
	}
	return fmt.Sprintf("syscall(%d)", s)
}

// builtinSysCalls maps the names of the global system procedures to their
// service. NEW and DELETE are statements and never reach a system call.
var builtinSysCalls = map[string]SysCall{
	"ASSERT":    SysAssert,
	"HALT":      SysHalt,
	"INC":       SysInc,
	"DEC":       SysDec,
	"PASSIVATE": SysPassivate,
	"WRITE":     SysWrite,
	"WRITEHEX":  SysWriteHex,
	"WRITELINE": SysWriteLine,
	"COUNT":     SysCount,
	"LENGTH":    SysLength,
	"SQRT":      SysSqrt,
	"SIN":       SysSin,
	"COS":       SysCos,
	"TAN":       SysTan,
	"ARCSIN":    SysArcSin,
	"ARCCOS":    SysArcCos,
	"ARCTAN":    SysArcTan,
	"RANDOM":    SysRandom,
	"MIN":       SysMin,
	"MAX":       SysMax,
	"CHARACTER": SysToCharacter,
	"INTEGER":   SysToInteger,
	"REAL":      SysToReal,
	"TEXT":      SysToText,
}

// LookupSysCall returns the service behind a builtin procedure name.
func LookupSysCall(name string) (SysCall, bool) {
	s, ok := builtinSysCalls[name]
	return s, ok
}
