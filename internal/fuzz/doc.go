// Package fuzztests houses Go fuzz harnesses for the front end. They feed
// arbitrary bytes through the lexer, the parser and the whole compilation
// and look for panics, hangs and broken span invariants.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
