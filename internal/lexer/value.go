package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// IntValue decodes an IntLit: decimal, or hexadecimal with the H or X suffix.
func IntValue(text string) (int64, error) {
	s, ok := strings.CutSuffix(text, "H")
	if !ok {
		s, ok = strings.CutSuffix(text, "X")
	}
	if ok {
		v, err := strconv.ParseInt(s, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("hex literal %q: %w", text, err)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer literal %q: %w", text, err)
	}
	return v, nil
}

func RealValue(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("real literal %q: %w", text, err)
	}
	return v, nil
}

// TextValue strips the quotes of a TextLit and resolves escapes.
// An unknown escape keeps its backslash.
func TextValue(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	s = strings.TrimSuffix(s, `"`)
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if b, ok := escapeByte(s[i+1]); ok {
				sb.WriteByte(b)
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
