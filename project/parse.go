package project

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/springguard/java/syntax"
	"github.com/dhamidi/springguard/java/treesitter"
)

// ParseFunc turns one Java source file into its declaration model.
type ParseFunc func(ctx context.Context, path string, src []byte) (*syntax.File, error)

const (
	ParserNative     = "native"
	ParserTreeSitter = "treesitter"
)

var parsers = map[string]ParseFunc{
	ParserNative: func(_ context.Context, path string, src []byte) (*syntax.File, error) {
		return syntax.ParseFile(path, src)
	},
	ParserTreeSitter: treesitter.ParseFile,
}

// Parser returns the parse function registered under name.
func Parser(name string) (ParseFunc, error) {
	parse, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("unknown parser %q (known: %v)", name, ParserNames())
	}
	return parse, nil
}

func ParserNames() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses every Java file of the project with up to jobs files in
// flight. The files are returned in path order whatever the scheduling.
func (p *Project) Parse(ctx context.Context, parse ParseFunc, jobs int) ([]*syntax.File, error) {
	paths, err := p.JavaFiles()
	if err != nil {
		return nil, err
	}
	return ParseFiles(ctx, paths, parse, jobs)
}

func ParseFiles(ctx context.Context, paths []string, parse ParseFunc, jobs int) ([]*syntax.File, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	files := make([]*syntax.File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrLoad, err)
			}
			f, err := parse(ctx, path, src)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			for _, e := range f.Errors {
				log.Warningf("%s: syntax error: %s", e.Pos, e.Message)
			}
			log.Debugf("parsed %s in %s", path, time.Since(start))
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Model collects the classes of files into one model, in file order.
func Model(files []*syntax.File) *syntax.Model {
	model := syntax.NewModel()
	for _, f := range files {
		model.Add(f.Classes...)
	}
	return model
}
