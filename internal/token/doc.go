// Package token defines the lexical vocabulary of Composita.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     text literals, whose Text carries the unescaped value.
//   - Keywords are uppercase and case-sensitive; "begin" is an identifier.
//   - NEW, DELETE, CONNECT, DISCONNECT, MOVE, AWAIT, INPUT, EXISTS and the
//     builtin names are identifiers. The parser recognizes them by text.
//   - Comments and whitespace are leading Trivia, never tokens.
package token
