package lsp

import (
	"context"
	"sort"
	"sync"

	"github.com/dhamidi/springguard/java/syntax"
	"github.com/dhamidi/springguard/project"
	"github.com/dhamidi/springguard/routes"
)

// Workspace keeps the analysis of every open document. Class prefixes
// never cross file boundaries, so each document is analyzed on its own.
type Workspace struct {
	mu    sync.RWMutex
	parse project.ParseFunc
	docs  map[string]*Document
}

type Document struct {
	Path    string
	Content []byte
	File    *syntax.File
	Result  *routes.Result
}

func NewWorkspace(parse project.ParseFunc) *Workspace {
	return &Workspace{
		parse: parse,
		docs:  make(map[string]*Document),
	}
}

// Update reparses path with the given content and replaces its analysis.
func (w *Workspace) Update(ctx context.Context, path string, content []byte) (*Document, error) {
	f, err := w.parse(ctx, path, content)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Path:    path,
		Content: content,
		File:    f,
		Result:  routes.Extract(syntax.NewModel(f.Classes...)),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[path] = doc
	return doc, nil
}

func (w *Workspace) Remove(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, path)
}

func (w *Workspace) Document(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Routes returns the routes of all open documents, sorted. Documents are
// merged in path order so a duplicate key resolves the same way every time.
func (w *Workspace) Routes() []routes.Route {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.docs))
	for path := range w.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	merged := routes.NewMemoryStore()
	for _, path := range paths {
		for _, r := range w.docs[path].Result.Store.All() {
			merged.Insert(r.Key(), r)
		}
	}
	return routes.Sorted(merged.All())
}
