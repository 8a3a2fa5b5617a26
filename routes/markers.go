// Package routes extracts HTTP routes and their access-control expressions
// from the declaration model of a Spring application.
//
// An Extractor walks every controller class, resolves the class-level
// RequestMapping prefixes, expands each route annotation on the controller's
// methods into one Route per (URL, HTTP method) pair and records the result
// in a Store keyed by "url|method". Malformed annotations produce
// Diagnostics; they never stop the run.
package routes

import (
	"sort"

	"github.com/dhamidi/springguard/java/syntax"
)

type Category int

const (
	CategoryNone Category = iota
	CategoryController
	CategoryRoute
	CategorySecurity
)

type SecurityKind int

const (
	SecurityNone SecurityKind = iota
	SecurityPreAuthorize
	SecurityPostAuthorize
	SecurityPreFilter
	SecurityPostFilter
)

// Marker is the role an annotation plays for route extraction. Method is
// the HTTP method a shorthand route annotation implies; it is empty for
// RequestMapping, whose methods come from its arguments.
type Marker struct {
	Category Category
	Method   string
	Security SecurityKind
}

const RequestMapping = "RequestMapping"

var markers = map[string]Marker{
	"Controller":     {Category: CategoryController},
	"RestController": {Category: CategoryController},

	RequestMapping:  {Category: CategoryRoute},
	"GetMapping":    {Category: CategoryRoute, Method: "GET"},
	"PostMapping":   {Category: CategoryRoute, Method: "POST"},
	"PutMapping":    {Category: CategoryRoute, Method: "PUT"},
	"DeleteMapping": {Category: CategoryRoute, Method: "DELETE"},
	"PatchMapping":  {Category: CategoryRoute, Method: "PATCH"},

	"PreAuthorize":  {Category: CategorySecurity, Security: SecurityPreAuthorize},
	"PostAuthorize": {Category: CategorySecurity, Security: SecurityPostAuthorize},
	"PreFilter":     {Category: CategorySecurity, Security: SecurityPreFilter},
	"PostFilter":    {Category: CategorySecurity, Security: SecurityPostFilter},
}

// Classify looks an annotation up by its simple name.
func Classify(a *syntax.Annotation) Marker {
	return markers[a.SimpleName()]
}

// AllMethods is the method set of a RequestMapping without a method argument.
var AllMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

var (
	ControllerMarkers = namesOf(CategoryController)
	RouteMarkers      = namesOf(CategoryRoute)
	SecurityMarkers   = namesOf(CategorySecurity)
)

func namesOf(category Category) []string {
	var names []string
	for name, m := range markers {
		if m.Category == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
