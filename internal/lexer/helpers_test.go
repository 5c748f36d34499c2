package lexer

import "composita/internal/source"

func newFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.com", []byte(content)))
}
