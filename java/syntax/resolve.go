package syntax

import "strings"

type Import struct {
	Name     string
	Static   bool
	Wildcard bool
}

// wellKnownTypes maps simple names of commonly used annotations to their
// packages. It lets diagnostics name the annotation type when the source
// pulls it in through a wildcard import.
var wellKnownTypes = map[string]string{
	"Controller":     "org.springframework.stereotype",
	"Component":      "org.springframework.stereotype",
	"Service":        "org.springframework.stereotype",
	"Repository":     "org.springframework.stereotype",
	"RestController": "org.springframework.web.bind.annotation",
	"RequestMapping": "org.springframework.web.bind.annotation",
	"GetMapping":     "org.springframework.web.bind.annotation",
	"PostMapping":    "org.springframework.web.bind.annotation",
	"PutMapping":     "org.springframework.web.bind.annotation",
	"DeleteMapping":  "org.springframework.web.bind.annotation",
	"PatchMapping":   "org.springframework.web.bind.annotation",
	"RequestMethod":  "org.springframework.web.bind.annotation",
	"RequestParam":   "org.springframework.web.bind.annotation",
	"PathVariable":   "org.springframework.web.bind.annotation",
	"RequestBody":    "org.springframework.web.bind.annotation",
	"ResponseBody":   "org.springframework.web.bind.annotation",
	"PreAuthorize":   "org.springframework.security.access.prepost",
	"PostAuthorize":  "org.springframework.security.access.prepost",
	"PreFilter":      "org.springframework.security.access.prepost",
	"PostFilter":     "org.springframework.security.access.prepost",
	"Secured":        "org.springframework.security.access.annotation",
	"RolesAllowed":   "jakarta.annotation.security",
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "Integer": true,
	"Long": true, "Short": true, "Byte": true, "Float": true, "Double": true,
	"Character": true, "Boolean": true, "Number": true, "Void": true,
	"Iterable": true, "Comparable": true, "CharSequence": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true,
	"FunctionalInterface": true, "SafeVarargs": true,
}

// Resolver qualifies simple type names the way a reader of one source
// file would: nested types of the file, then single-type imports, then
// wildcard imports of well-known packages, then java.lang.
type Resolver struct {
	pkg     string
	imports []Import
	nested  map[string]string
}

func NewResolver(pkg string, imports []Import) *Resolver {
	return &Resolver{pkg: pkg, imports: imports, nested: make(map[string]string)}
}

// RegisterNested makes a type declared in the file resolvable by its
// simple name. The first registration wins.
func (r *Resolver) RegisterNested(simpleName, fullName string) {
	if _, ok := r.nested[simpleName]; !ok {
		r.nested[simpleName] = fullName
	}
}

// resolve returns the qualified name of name and whether it could be
// determined from the file alone.
func (r *Resolver) resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	head, rest, qualified := strings.Cut(name, ".")
	if qualified {
		// Outer.Inner where Outer is declared in this file, or imported.
		if full, ok := r.nested[head]; ok {
			return full + "$" + strings.ReplaceAll(rest, ".", "$"), true
		}
		if full, ok := r.resolveSimple(head); ok {
			return full + "." + rest, true
		}
		return name, true
	}
	return r.resolveSimple(name)
}

func (r *Resolver) resolveSimple(name string) (string, bool) {
	if full, ok := r.nested[name]; ok {
		return full, true
	}
	for _, imp := range r.imports {
		if imp.Static || imp.Wildcard {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			return imp.Name, true
		}
	}
	if pkg, ok := wellKnownTypes[name]; ok {
		for _, imp := range r.imports {
			if imp.Wildcard && !imp.Static && imp.Name == pkg {
				return pkg + "." + name, true
			}
		}
	}
	if javaLangTypes[name] {
		return "java.lang." + name, true
	}
	return name, false
}

// AnnotationType qualifies an annotation name. Names the file cannot
// resolve fall back to the well-known table and then to the file's own
// package.
func (r *Resolver) AnnotationType(name string) string {
	if full, ok := r.resolve(name); ok {
		return full
	}
	if pkg, ok := wellKnownTypes[name]; ok {
		return pkg + "." + name
	}
	if r.pkg != "" {
		return r.pkg + "." + name
	}
	return name
}

// ParameterType qualifies a parameter type when the file says where it
// comes from and leaves it as written otherwise.
func (r *Resolver) ParameterType(name string) string {
	if primitiveTypes[name] {
		return name
	}
	full, _ := r.resolve(name)
	return full
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}
