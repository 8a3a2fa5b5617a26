package routes

import "github.com/dhamidi/springguard/java/syntax"

// Result is the outcome of one extraction run. The store holds every route
// that could be resolved, even when Diagnostics is not empty.
type Result struct {
	Store       Store
	Diagnostics Diagnostics
}

// Failed reports whether any annotation could not be resolved.
func (r *Result) Failed() bool {
	return len(r.Diagnostics) > 0
}

// Routes returns the stored routes ordered by URL and method.
func (r *Result) Routes() []Route {
	return Sorted(r.Store.All())
}

type Extractor struct {
	newStore func() Store
}

type ExtractorOption func(*Extractor)

// WithStore makes the extractor record routes in stores built by newStore.
func WithStore(newStore func() Store) ExtractorOption {
	return func(x *Extractor) {
		x.newStore = newStore
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	x := &Extractor{newStore: func() Store { return NewMemoryStore() }}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract runs a default extractor over model.
func Extract(model Facade) *Result {
	return NewExtractor().Run(model)
}

// Run visits every controller class of model in order and records its
// routes. Later routes replace earlier ones with the same key.
func (x *Extractor) Run(model Facade) *Result {
	result := &Result{Store: x.newStore()}

	for _, class := range model.ClassesWithAnyAnnotation(ControllerMarkers...) {
		prefixes, diag, ok := classPrefixes(model, class)
		if !ok {
			result.Diagnostics = append(result.Diagnostics, diag)
			continue
		}

		var composed []Route
		for _, method := range model.MethodsWithAnyAnnotation(class, RouteMarkers...) {
			routes, diags := ComposeMethod(model, method)
			composed = append(composed, routes...)
			result.Diagnostics = append(result.Diagnostics, diags...)
		}
		for _, prefix := range prefixes {
			for _, r := range composed {
				r = r.WithPrefix(prefix)
				result.Store.Insert(r.Key(), r)
			}
		}
	}

	log.Debugf("extracted %d routes, %d diagnostics", result.Store.Len(), len(result.Diagnostics))
	return result
}

func classPrefixes(model Facade, class *syntax.Class) ([]string, Diagnostic, bool) {
	mapping := model.ClassAnnotation(class, RequestMapping)
	if mapping == nil {
		return []string{""}, Diagnostic{}, true
	}
	prefixes, err := ResolveURLs(urlArgument(model, mapping))
	if err != nil {
		return nil, newDiagnostic(model.OwnerPath(mapping), mapping.Pos, err), false
	}
	if prefixes == nil {
		prefixes = []string{""}
	}
	return prefixes, Diagnostic{}, true
}
