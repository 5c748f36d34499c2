package fuzztests

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"composita/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func addCorpusSeeds(f *testing.F) {
	names := make([]string, 0, len(testkit.Programs))
	for name := range testkit.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Add([]byte(testkit.Programs[name]))
	}
	for _, src := range testkit.Malformed {
		f.Add([]byte(src))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds picks up *.com files dropped into testdata/.
func addTestdataSeeds(f *testing.F) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.com"))
	if err != nil {
		return
	}
	for _, path := range paths {
		// #nosec G304 -- path comes from the package testdata
		src, err := os.ReadFile(path)
		if err != nil || len(src) > maxFuzzInput {
			continue
		}
		f.Add(src)
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
