package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"composita/internal/diag"
	"composita/internal/source"
	"composita/internal/trace"
)

// SourceExt is the extension of Composita source files.
const SourceExt = ".com"

// ListSources возвращает отсортированный список всех *.com файлов в директории.
// Скрытые каталоги (.git, .cache) пропускаются.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CompileFiles compiles every path independently with at most jobs files in
// flight (jobs <= 0 means GOMAXPROCS). Results keep the order of paths. A
// file that cannot be read yields a result with an IO diagnostic instead of
// failing the batch; only cancellation and internal faults are errors.
func CompileFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	batch := trace.Begin(tracer, trace.ScopeDriver, "batch", opts.Parent).WithExtra("jobs", fmt.Sprint(jobs))
	defer batch.End(fmt.Sprintf("files=%d", len(paths)))
	opts.Tracer = tracer
	opts.Parent = batch.ID()

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fset := source.NewFileSet()
			id, err := fset.Load(path)
			if err != nil {
				results[i] = loadFailure(path, err, opts.MaxDiagnostics)
				return nil
			}
			res, err := compile(gctx, fset, id, opts, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// BuildDir compiles every source file under dir.
func BuildDir(ctx context.Context, dir string, opts Options, jobs int) ([]*Result, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return CompileFiles(ctx, files, opts, jobs)
}

func loadFailure(path string, err error, maxDiagnostics int) *Result {
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(diag.IOReadFailed, source.Span{}, "failed to load file: "+err.Error()))
	return &Result{Path: path, FileSet: source.NewFileSet(), Bag: bag}
}

// CountErrors sums error diagnostics over results.
func CountErrors(results []*Result) int {
	n := 0
	for _, r := range results {
		if r != nil && r.Bag != nil {
			n += r.Bag.Errors()
		}
	}
	return n
}
