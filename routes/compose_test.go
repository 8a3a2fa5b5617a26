package routes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/springguard/java/syntax"
)

func parseModel(t *testing.T, sources ...string) *syntax.Model {
	t.Helper()
	model := syntax.NewModel()
	for i, src := range sources {
		f, err := syntax.ParseFile(fmt.Sprintf("File%d.java", i), []byte(src))
		require.NoError(t, err)
		require.Empty(t, f.Errors)
		model.Add(f.Classes...)
	}
	return model
}

// composeOnly parses a class body and composes its first method.
func composeOnly(t *testing.T, members string) ([]Route, Diagnostics) {
	t.Helper()
	model := parseModel(t, "package p;\nimport org.springframework.web.bind.annotation.*;\nclass C {\n"+members+"\n}\n")
	class := model.Classes()[0]
	require.NotEmpty(t, class.Methods)
	return ComposeMethod(model, class.Methods[0])
}

func keysOf(routes []Route) []string {
	keys := make([]string, len(routes))
	for i, r := range routes {
		keys[i] = r.Key()
	}
	return keys
}

func TestComposeShorthandMapping(t *testing.T) {
	routes, diags := composeOnly(t, `@PostMapping("/x") void x() {}`)
	assert.Empty(t, diags)
	require.Len(t, routes, 1)
	assert.Equal(t, "/x", routes[0].URL)
	assert.Equal(t, "POST", routes[0].HTTPMethod)
	assert.Equal(t, "p.C#x()", routes[0].Handler)
	assert.False(t, routes[0].Guarded())
	assert.Equal(t, 4, routes[0].Pos.Line)
}

func TestComposeRequestMappingWithoutMethod(t *testing.T) {
	routes, diags := composeOnly(t, `@RequestMapping(value = {"/a", "/b"}) void x() {}`)
	assert.Empty(t, diags)
	assert.Equal(t, []string{
		"/a|GET", "/a|POST", "/a|PUT", "/a|DELETE", "/a|PATCH",
		"/b|GET", "/b|POST", "/b|PUT", "/b|DELETE", "/b|PATCH",
	}, keysOf(routes))
}

func TestComposeMethodVariants(t *testing.T) {
	tests := []struct {
		name    string
		members string
		want    []string
	}{
		{"no arguments", `@GetMapping void x() {}`, []string{"|GET"}},
		{"path alias", `@DeleteMapping(path = "/gone") void x() {}`, []string{"/gone|DELETE"}},
		{"value preferred over path", `@PutMapping(value = "/v", path = "/p") void x() {}`, []string{"/v|PUT"}},
		{"single method", `@RequestMapping(value = "/ping", method = RequestMethod.GET) void x() {}`, []string{"/ping|GET"}},
		{"method array", `@RequestMapping(value = "/m", method = {RequestMethod.POST, RequestMethod.GET}) void x() {}`, []string{"/m|POST"}},
		{"empty method array", `@RequestMapping(value = "/e", method = {}) void x() {}`, []string{
			"/e|GET", "/e|POST", "/e|PUT", "/e|DELETE", "/e|PATCH",
		}},
		{"empty url array", `@PatchMapping({}) void x() {}`, []string{"|PATCH"}},
		{"relative url", `@GetMapping("items") void x() {}`, []string{"items|GET"}},
		{"two route annotations", `@GetMapping("/one") @GetMapping("/two") void x() {}`, []string{"/one|GET", "/two|GET"}},
		{"mixed route annotations", `@PostMapping("/p") @RequestMapping(value = "/r", method = RequestMethod.PUT) void x() {}`, []string{"/p|POST", "/r|PUT"}},
		{"non-literal elements dropped", `@GetMapping({"/a", BASE, "/b"}) void x() {}`, []string{"/a|GET", "/b|GET"}},
		{"only non-literal elements", `@GetMapping({BASE}) void x() {}`, []string{}},
		{"security only", `@PreAuthorize("permitAll()") void x() {}`, []string{}},
		{"qualified annotation", `@org.springframework.web.bind.annotation.GetMapping("/q") void x() {}`, []string{"/q|GET"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, diags := composeOnly(t, tt.members)
			assert.Empty(t, diags)
			assert.Equal(t, tt.want, keysOf(routes))
		})
	}
}

func TestComposeSecurityExpressions(t *testing.T) {
	routes, diags := composeOnly(t, `
    @PreAuthorize("hasRole('USER')")
    @PostAuthorize("returnObject.owner == authentication.name")
    @PreFilter(value = "filterObject.visible")
    @PostFilter(Guards.OWNED)
    @PreAuthorize("hasRole('ADMIN')")
    @GetMapping({"/a", "/b"})
    void x() {}`)
	assert.Empty(t, diags)
	require.Len(t, routes, 2)
	for _, r := range routes {
		assert.Equal(t, "hasRole('ADMIN')", r.PreAuthorization)
		assert.Equal(t, "returnObject.owner == authentication.name", r.PostAuthorization)
		assert.Equal(t, "filterObject.visible", r.PreFilter)
		assert.Equal(t, "Guards.OWNED", r.PostFilter)
		assert.True(t, r.Guarded())
	}
}

func TestComposeSecurityAfterRouteAnnotation(t *testing.T) {
	routes, _ := composeOnly(t, `@GetMapping("/x") @PreAuthorize("isAuthenticated()") void x() {}`)
	require.Len(t, routes, 1)
	assert.Equal(t, "isAuthenticated()", routes[0].PreAuthorization)
}

func TestComposeSkipsMalformedAnnotation(t *testing.T) {
	routes, diags := composeOnly(t, `
    @RequestMapping(value = build())
    @GetMapping("/ok")
    @RequestMapping(value = "/bad", method = "GET")
    void x(String id) {}`)

	assert.Equal(t, []string{"/ok|GET"}, keysOf(routes))
	require.Len(t, diags, 2)

	assert.ErrorIs(t, diags[0].Err, ErrInvalidAnnotationArgument)
	assert.Equal(t, ErrInvalidAnnotationArgument, diags[0].Kind)
	assert.Equal(t, "p.C#x(java.lang.String)@org.springframework.web.bind.annotation.RequestMapping", diags[0].Path)
	assert.Equal(t, "[p.C#x(java.lang.String)@org.springframework.web.bind.annotation.RequestMapping] Error: The value passed to request mapping is invalid",
		diags[0].String())
	assert.Equal(t, 5, diags[0].Pos.Line)

	assert.ErrorIs(t, diags[1].Err, ErrUnexpectedRequestMethodValue)
	assert.Equal(t, "Unexpected request method", diags[1].Message)
}

func TestComposeConcatenatedURLIsInvalid(t *testing.T) {
	routes, diags := composeOnly(t, `@GetMapping(BASE + "/x") void x() {}`)
	assert.Empty(t, routes)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0].Err, ErrInvalidAnnotationArgument)
}
