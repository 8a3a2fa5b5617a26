package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseFile("Test.java", []byte(src))
	require.NoError(t, err)
	return f
}

func classNames(classes []*Class) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	return names
}

func TestParseFileClasses(t *testing.T) {
	f := mustParse(t, `package com.example;

@RestController
public class Outer {
    class Inner {
        enum Mode { A, B }
    }
    interface Callback {}
    record Point(int x, int y) {}
    @interface Marker {}
}

enum Top { X; void m() {} }
`)
	assert.Equal(t, "com.example", f.Package)
	assert.Empty(t, f.Errors)
	assert.Equal(t, []string{
		"com.example.Outer",
		"com.example.Outer$Inner",
		"com.example.Outer$Inner$Mode",
		"com.example.Outer$Callback",
		"com.example.Outer$Point",
		"com.example.Outer$Marker",
		"com.example.Top",
	}, classNames(f.Classes))

	kinds := make([]ClassKind, len(f.Classes))
	for i, c := range f.Classes {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []ClassKind{
		ClassKindClass, ClassKindClass, ClassKindEnum, ClassKindInterface,
		ClassKindRecord, ClassKindAnnotation, ClassKindEnum,
	}, kinds)

	assert.Equal(t, "Inner", f.Classes[1].SimpleName)
	assert.Equal(t, Position{File: "Test.java", Line: 3, Column: 1}, f.Classes[0].Pos)
	require.Len(t, f.Classes[6].Methods, 1)
	assert.Equal(t, "com.example.Top#m()", f.Classes[6].Methods[0].Path())
}

func TestParseFileDefaultPackage(t *testing.T) {
	f := mustParse(t, "class A { class B {} }")
	assert.Equal(t, "", f.Package)
	assert.Equal(t, []string{"A", "A$B"}, classNames(f.Classes))
}

func TestParseFileImports(t *testing.T) {
	f := mustParse(t, `package p;
import java.util.List;
import static java.util.Collections.emptyList;
import org.springframework.web.bind.annotation.*;
class A {}
`)
	assert.Equal(t, []Import{
		{Name: "java.util.List"},
		{Name: "java.util.Collections.emptyList", Static: true},
		{Name: "org.springframework.web.bind.annotation", Wildcard: true},
	}, f.Imports)
}

func TestParseFileAnnotationTypes(t *testing.T) {
	f := mustParse(t, `package com.example;

import org.springframework.web.bind.annotation.RestController;
import org.springframework.web.bind.annotation.*;
import com.acme.Audited;

@RestController
@RequestMapping("/a")
@Audited
@Local
@org.springframework.security.access.prepost.PreAuthorize("x")
@PreFilter("y")
@Deprecated
class A {}
`)
	types := make([]string, 0)
	for _, a := range f.Classes[0].Annotations {
		types = append(types, a.Type)
	}
	assert.Equal(t, []string{
		"org.springframework.web.bind.annotation.RestController",
		"org.springframework.web.bind.annotation.RequestMapping",
		"com.acme.Audited",
		"com.example.Local",
		"org.springframework.security.access.prepost.PreAuthorize",
		"org.springframework.security.access.prepost.PreFilter",
		"java.lang.Deprecated",
	}, types)
	assert.Equal(t, "PreAuthorize", f.Classes[0].Annotations[4].SimpleName())
}

func TestParseFileArguments(t *testing.T) {
	f := mustParse(t, `package p;
class A {
    @RequestMapping(value = "/one", path = {"/a", "/b"}, method = RequestMethod.GET)
    void one() {}

    @GetMapping("/two")
    void two() {}

    @PostMapping({})
    void three() {}

    @PutMapping(value = PREFIX + "/x", produces = MediaType.APPLICATION_JSON_VALUE)
    void four() {}

    @PatchMapping(("/five"))
    void five() {}

    @PreAuthorize(value = "hasRole('A')")
    @DeleteMapping(value = { "/six", 42, method() })
    void six() {}

    @RequestMapping(method = {RequestMethod.GET, RequestMethod.POST}, value = Paths.items)
    void seven() {}
}
`)
	require.Empty(t, f.Errors)
	methods := f.Classes[0].Methods
	require.Len(t, methods, 7)

	one := methods[0].Annotations[0]
	assert.True(t, one.Argument("value").Equal(Literal("/one")))
	assert.True(t, one.Argument("path").Equal(List(Literal("/a"), Literal("/b"))))
	assert.True(t, one.Argument("method").Equal(EnumRef("RequestMethod.GET")))
	assert.Equal(t, "RequestMethod.GET", one.Argument("method").Source)
	assert.True(t, one.Argument("params").IsAbsent())

	two := methods[1].Annotations[0]
	require.Len(t, two.Arguments, 1)
	assert.Equal(t, "value", two.Arguments[0].Name)
	assert.Equal(t, `"/two"`, two.Argument("value").Source)
	assert.Equal(t, Position{File: "Test.java", Line: 6, Column: 17}, two.Argument("value").Pos)

	three := methods[2].Annotations[0].Argument("value")
	assert.Equal(t, ValueList, three.Kind)
	assert.Empty(t, three.Elements)

	four := methods[3].Annotations[0]
	assert.Equal(t, ValueExpr, four.Argument("value").Kind)
	assert.Equal(t, `PREFIX + "/x"`, four.Argument("value").Source)
	assert.Equal(t, ValueEnumRef, four.Argument("produces").Kind)

	assert.True(t, methods[4].Annotations[0].Argument("value").Equal(Literal("/five")))

	six := methods[5].Annotations[1].Argument("value")
	require.Len(t, six.Elements, 3)
	assert.Equal(t, ValueLiteral, six.Elements[0].Kind)
	assert.Equal(t, ValueExpr, six.Elements[1].Kind)
	assert.Equal(t, "42", six.Elements[1].Source)
	assert.Equal(t, ValueExpr, six.Elements[2].Kind)
	assert.True(t, methods[5].Annotations[0].Argument("value").Equal(Literal("hasRole('A')")))

	seven := methods[6].Annotations[0]
	assert.True(t, seven.Argument("method").Equal(List(EnumRef("RequestMethod.GET"), EnumRef("RequestMethod.POST"))))
	assert.Equal(t, ValueExpr, seven.Argument("value").Kind)
	assert.Equal(t, "Paths.items", seven.Argument("value").Source)
}

func TestParseFileMethodSignatures(t *testing.T) {
	f := mustParse(t, `package com.example;

import java.util.List;
import java.util.Map;
import com.example.dto.ItemRequest;

class Api {
    void none() {}
    void prims(int a, long b, boolean c) {}
    void generic(List<String> items, Map<String, List<Integer>> map) {}
    void arrays(byte[] data, String[][] grid, int legacy[]) {}
    void varargs(final Object... rest) {}
    void imported(@Valid ItemRequest req, Unknown u) {}
    void nested(Inner inner, Api.Inner qualified) {}
    <T> T typed(Class<T> type) { return null; }
    class Inner {}
}
`)
	require.Empty(t, f.Errors)
	var sigs []string
	for _, m := range f.Classes[0].Methods {
		sigs = append(sigs, m.Signature())
	}
	assert.Equal(t, []string{
		"none()",
		"prims(int,long,boolean)",
		"generic(java.util.List,java.util.Map)",
		"arrays(byte[],java.lang.String[][],int[])",
		"varargs(java.lang.Object[])",
		"imported(com.example.dto.ItemRequest,Unknown)",
		"nested(com.example.Api$Inner,com.example.Api$Inner)",
		"typed(java.lang.Class)",
	}, sigs)
}

func TestParseFileOwnerPath(t *testing.T) {
	f := mustParse(t, `package com.example;
import org.springframework.web.bind.annotation.*;
@RestController
class ItemController {
    @GetMapping("/items")
    public String list(String filter) { return ""; }
}
`)
	class := f.Classes[0]
	assert.Equal(t, "com.example.ItemController@org.springframework.web.bind.annotation.RestController",
		OwnerPath(class.Annotations[0]))
	assert.Equal(t, "com.example.ItemController#list(java.lang.String)@org.springframework.web.bind.annotation.GetMapping",
		OwnerPath(class.Methods[0].Annotations[0]))
}

func TestParseFileKeepsGoingAfterSyntaxErrors(t *testing.T) {
	f := mustParse(t, `package p;
@RestController
class A {
    int broken = ;
    @GetMapping("/ok")
    void ok() {}
    void missing( {}
}
`)
	require.NotEmpty(t, f.Classes)
	assert.Equal(t, "p.A", f.Classes[0].Name)
	found := false
	for _, m := range f.Classes[0].Methods {
		if m.Name == "ok" {
			found = true
			assert.True(t, m.Annotations[0].Argument("value").Equal(Literal("/ok")))
		}
	}
	assert.True(t, found, "method after broken field is kept")
	assert.NotEmpty(t, f.Errors)
	for _, e := range f.Errors {
		assert.Equal(t, "Test.java", e.Pos.File)
	}
}
