package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelQueries(t *testing.T) {
	f := mustParse(t, `package com.example;
import org.springframework.web.bind.annotation.*;

@RestController
@RequestMapping("/api")
class Items {
    @GetMapping void list() {}
    void helper() {}
    @PostMapping @Deprecated void create() {}
    @Deprecated void old() {}
}

@Controller
interface Contract {
    @GetMapping void contract();
}

@Controller
enum Singleton { INSTANCE; }

@Service
class NotAController {}
`)
	m := NewModel(f.Classes...)
	require.Len(t, m.Classes(), 4)

	controllers := m.ClassesWithAnyAnnotation("Controller", "RestController")
	assert.Equal(t, []string{"com.example.Items", "com.example.Singleton"}, classNames(controllers))

	items := controllers[0]
	mapping := m.ClassAnnotation(items, "RequestMapping")
	require.NotNil(t, mapping)
	assert.True(t, m.Argument(mapping, "value").Equal(Literal("/api")))
	assert.True(t, m.Argument(mapping, "method").IsAbsent())
	assert.Nil(t, m.ClassAnnotation(items, "GetMapping"))

	var names []string
	for _, method := range m.MethodsWithAnyAnnotation(items, "GetMapping", "PostMapping") {
		names = append(names, method.Name)
	}
	assert.Equal(t, []string{"list", "create"}, names)

	create := items.Methods[2]
	annotations := m.AnnotationsOf(create)
	require.Len(t, annotations, 2)
	assert.Same(t, create, annotations[0].Owner)
	assert.Equal(t, "com.example.Items#create()@org.springframework.web.bind.annotation.PostMapping",
		m.OwnerPath(annotations[0]))
	assert.Len(t, m.AnnotationsOf(items), 2)
}

func TestAnnotationIs(t *testing.T) {
	a := &Annotation{Name: "org.springframework.web.bind.annotation.GetMapping"}
	assert.Equal(t, "GetMapping", a.SimpleName())
	assert.True(t, a.Is("PostMapping", "GetMapping"))
	assert.False(t, a.Is("Get"))
	assert.False(t, a.Is())
}

func TestPaths(t *testing.T) {
	class := &Class{Name: "a.B$C"}
	method := &Method{Name: "run", ParameterTypes: []string{"int", "java.lang.String[]"}, Owner: class}
	assert.Equal(t, "a.B$C", class.Path())
	assert.Equal(t, "run(int,java.lang.String[])", method.Signature())
	assert.Equal(t, "a.B$C#run(int,java.lang.String[])", method.Path())
	assert.Equal(t, "#run(int,java.lang.String[])", (&Method{Name: "run", ParameterTypes: method.ParameterTypes}).Path())
	assert.Equal(t, "@x.Y", OwnerPath(&Annotation{Type: "x.Y"}))
}

func TestClassKindIsConcrete(t *testing.T) {
	assert.True(t, ClassKindClass.IsConcrete())
	assert.True(t, ClassKindEnum.IsConcrete())
	assert.True(t, ClassKindRecord.IsConcrete())
	assert.False(t, ClassKindInterface.IsConcrete())
	assert.False(t, ClassKindAnnotation.IsConcrete())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:4", Position{Line: 3, Column: 4}.String())
	assert.Equal(t, "A.java:3:4", Position{File: "A.java", Line: 3, Column: 4}.String())
}
