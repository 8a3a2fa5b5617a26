package routes

import "github.com/dhamidi/springguard/java/syntax"

// Facade is the part of the declaration model the extractor queries.
// *syntax.Model implements it.
type Facade interface {
	ClassesWithAnyAnnotation(names ...string) []*syntax.Class
	ClassAnnotation(c *syntax.Class, name string) *syntax.Annotation
	MethodsWithAnyAnnotation(c *syntax.Class, names ...string) []*syntax.Method
	AnnotationsOf(d syntax.Declaration) []*syntax.Annotation
	Argument(a *syntax.Annotation, name string) syntax.Value
	OwnerPath(a *syntax.Annotation) string
}

type guards struct {
	preAuthorization  string
	postAuthorization string
	preFilter         string
	postFilter        string
}

func (g *guards) set(kind SecurityKind, expr string) {
	switch kind {
	case SecurityPreAuthorize:
		g.preAuthorization = expr
	case SecurityPostAuthorize:
		g.postAuthorization = expr
	case SecurityPreFilter:
		g.preFilter = expr
	case SecurityPostFilter:
		g.postFilter = expr
	}
}

// ComposeMethod expands the route annotations of one method into routes
// relative to the class prefix, in annotation order. A route annotation
// with an unresolvable argument contributes a Diagnostic instead of routes.
func ComposeMethod(model Facade, method *syntax.Method) ([]Route, Diagnostics) {
	annotations := model.AnnotationsOf(method)

	var g guards
	for _, a := range annotations {
		if m := Classify(a); m.Category == CategorySecurity {
			g.set(m.Security, expression(model.Argument(a, "value")))
		}
	}

	var routes []Route
	var diags Diagnostics
	for _, a := range annotations {
		m := Classify(a)
		if m.Category != CategoryRoute {
			continue
		}
		composed, err := composeAnnotation(model, a, m, g)
		if err != nil {
			diags = append(diags, newDiagnostic(model.OwnerPath(a), a.Pos, err))
			continue
		}
		for i := range composed {
			composed[i].Handler = method.Path()
		}
		routes = append(routes, composed...)
	}
	return routes, diags
}

func composeAnnotation(model Facade, a *syntax.Annotation, m Marker, g guards) ([]Route, error) {
	urls, err := ResolveURLs(urlArgument(model, a))
	if err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{""}
	}

	methods := []string{m.Method}
	if m.Method == "" {
		method, ok, err := ResolveMethod(a)
		switch {
		case err != nil:
			return nil, err
		case ok:
			methods = []string{method}
		default:
			methods = AllMethods
		}
	}

	routes := make([]Route, 0, len(urls)*len(methods))
	for _, url := range urls {
		for _, method := range methods {
			routes = append(routes, Route{
				URL:               url,
				HTTPMethod:        method,
				PreAuthorization:  g.preAuthorization,
				PostAuthorization: g.postAuthorization,
				PreFilter:         g.preFilter,
				PostFilter:        g.postFilter,
				Pos:               a.Pos,
			})
		}
	}
	return routes, nil
}
