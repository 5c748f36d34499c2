package il

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format selects an output encoding for a module.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatMsgpack
)

var ErrUnknownFormat = errors.New("unknown IL format")

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "text"
	}
}

// Ext is the file extension used by `build -o` defaults.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".il.json"
	case FormatMsgpack:
		return ".ilb"
	default:
		return ".il"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mp", "bin":
		return FormatMsgpack, nil
	}
	return FormatText, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes m in the given format.
func Encode(w io.Writer, m *Module, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatMsgpack:
		data, err := MarshalBinary(m)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return DumpModule(w, m)
	}
}

// MarshalBinary encodes a module with msgpack.
func MarshalBinary(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode il: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a module written by MarshalBinary.
func UnmarshalBinary(data []byte) (*Module, error) {
	var m Module
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode il: %w", err)
	}
	return &m, nil
}

// JSON spells opcodes, system calls and type kinds by name.

func (op OpCode) MarshalJSON() ([]byte, error) { return json.Marshal(op.String()) }

func (op *OpCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := ParseOpCode(s)
	if !ok {
		return fmt.Errorf("unknown opcode %q", s)
	}
	*op = v
	return nil
}

func (s SysCall) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *SysCall) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range sysNames {
		if n == name {
			*s = SysCall(i) //nolint:gosec // index of a small table
			return nil
		}
	}
	return fmt.Errorf("unknown system call %q", name)
}

func (k TypeKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *TypeKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range typeKindNames {
		if n == name {
			*k = TypeKind(i) //nolint:gosec // index of a small table
			return nil
		}
	}
	return fmt.Errorf("unknown type kind %q", name)
}
