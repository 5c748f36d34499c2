package lexer

func isLetter(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }
func isDec(b byte) bool    { return b >= '0' && b <= '9' }
func isHexLetter(b byte) bool {
	return (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	}
	return false
}

// text returns the source slice for the span.
func (lx *Lexer) text(start Mark) string {
	return string(lx.file.Content[uint32(start):lx.cursor.Off])
}
