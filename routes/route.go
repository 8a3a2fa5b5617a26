package routes

import (
	"fmt"
	"strings"

	"github.com/dhamidi/springguard/java/syntax"
)

// Route is one reachable (URL, HTTP method) pair and the guard expressions
// of the handler serving it. Routes are values; WithPrefix derives the
// copy the store receives.
type Route struct {
	URL               string `json:"url" yaml:"url"`
	HTTPMethod        string `json:"requestMethod" yaml:"requestMethod"`
	PreAuthorization  string `json:"preAuthorization" yaml:"preAuthorization"`
	PostAuthorization string `json:"postAuthorization" yaml:"postAuthorization"`
	PreFilter         string `json:"preFilter" yaml:"preFilter"`
	PostFilter        string `json:"postFilter" yaml:"postFilter"`

	// Handler is the path of the method serving the route.
	Handler string          `json:"handler" yaml:"handler"`
	Pos     syntax.Position `json:"position" yaml:"position"`
}

func (r Route) Key() string {
	return Key(r.URL, r.HTTPMethod)
}

// WithPrefix returns r with its URL joined to a class-level prefix. A
// separator is added only when the URL is non-empty and relative.
func (r Route) WithPrefix(prefix string) Route {
	r.URL = JoinURL(prefix, r.URL)
	return r
}

func JoinURL(prefix, url string) string {
	if url == "" || strings.HasPrefix(url, "/") {
		return prefix + url
	}
	return prefix + "/" + url
}

// Guarded reports whether any pre- or post-authorization or filter applies.
func (r Route) Guarded() bool {
	return r.PreAuthorization != "" || r.PostAuthorization != "" ||
		r.PreFilter != "" || r.PostFilter != ""
}

func (r Route) String() string {
	return fmt.Sprintf("Route{url='%s', requestMethod='%s', preAuthorization='%s', postAuthorization='%s', preFilter='%s', postFilter='%s', handler='%s'}",
		r.URL, r.HTTPMethod, r.PreAuthorization, r.PostAuthorization, r.PreFilter, r.PostFilter, r.Handler)
}
