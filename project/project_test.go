package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/springguard/java/syntax"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func javaClass(name string) string {
	return "package com.example;\n\n@RestController\nclass " + name + " {\n    @GetMapping(\"/x\") void get() {}\n}\n"
}

// multiModule lays out an aggregator with two jar modules, one of them
// keeping its sources in a non-default directory.
func multiModule(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), `<project>
  <artifactId>shop</artifactId>
  <packaging>pom</packaging>
  <modules><module>api</module><module>legacy</module></modules>
</project>`)
	writeFile(t, filepath.Join(root, "src", "main", "java", "Ignored.java"), javaClass("Ignored"))

	writeFile(t, filepath.Join(root, "api", "pom.xml"), `<project><artifactId>shop-api</artifactId></project>`)
	writeFile(t, filepath.Join(root, "api", "src", "main", "java", "com", "example", "B.java"), javaClass("B"))
	writeFile(t, filepath.Join(root, "api", "src", "main", "java", "com", "example", "A.java"), javaClass("A"))
	writeFile(t, filepath.Join(root, "api", "src", "main", "java", "com", "example", "notes.txt"), "not java")
	writeFile(t, filepath.Join(root, "api", "src", "main", "java", "generated", "G.java"), javaClass("G"))
	writeFile(t, filepath.Join(root, "api", "src", "test", "java", "com", "example", "ATest.java"), javaClass("ATest"))

	writeFile(t, filepath.Join(root, "legacy", "pom.xml"), `<project>
  <artifactId>legacy</artifactId>
  <build><sourceDirectory>${project.basedir}/java</sourceDirectory></build>
</project>`)
	writeFile(t, filepath.Join(root, "legacy", "java", "com", "example", "L.java"), javaClass("L"))
	return root
}

func rels(p *Project, paths []string) []string {
	out := make([]string, len(paths))
	for i, path := range paths {
		out[i] = filepath.ToSlash(p.Rel(path))
	}
	return out
}

func TestLoadFromMultiModule(t *testing.T) {
	root := multiModule(t)

	p, err := LoadFrom(root, Options{SkipDirs: []string{"generated"}})
	require.NoError(t, err)
	require.Len(t, p.Modules, 3)
	assert.Equal(t, "shop", p.Modules[0].Name)
	assert.Empty(t, p.Modules[0].SourceRoots, "aggregator has no sources")
	assert.Equal(t, "shop-api", p.Modules[1].Name)
	assert.NotNil(t, p.Module("legacy"))
	assert.Nil(t, p.Module("missing"))
	assert.False(t, p.Configured)

	files, err := p.JavaFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"api/src/main/java/com/example/A.java",
		"api/src/main/java/com/example/B.java",
		"legacy/java/com/example/L.java",
	}, rels(p, files))
}

func TestLoadFromIncludeTests(t *testing.T) {
	p, err := LoadFrom(multiModule(t), Options{IncludeTests: true})
	require.NoError(t, err)

	files, err := p.JavaFiles()
	require.NoError(t, err)
	assert.Contains(t, rels(p, files), "api/src/test/java/com/example/ATest.java")
	assert.Contains(t, rels(p, files), "api/src/main/java/generated/G.java")
}

func TestLoadFromConfiguredRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "C.java"), javaClass("C"))

	p, err := LoadFrom(root, Options{SourceRoots: []string{"app"}})
	require.NoError(t, err)
	assert.True(t, p.Configured)

	files, err := p.JavaFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"app/C.java"}, rels(p, files))
}

func TestLoadFromErrors(t *testing.T) {
	empty := t.TempDir()
	file := filepath.Join(empty, "file.txt")
	writeFile(t, file, "x")

	broken := t.TempDir()
	writeFile(t, filepath.Join(broken, "pom.xml"), "<project><modules>")

	missingModule := t.TempDir()
	writeFile(t, filepath.Join(missingModule, "pom.xml"), "<project><packaging>pom</packaging><modules><module>gone</module></modules></project>")

	tests := []struct {
		name string
		dir  string
		opts Options
	}{
		{"missing path", filepath.Join(empty, "nope"), Options{}},
		{"not a directory", file, Options{}},
		{"no pom and no roots", empty, Options{}},
		{"malformed pom", broken, Options{}},
		{"missing module", missingModule, Options{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.dir, tt.opts)
			assert.ErrorIs(t, err, ErrLoad)
		})
	}
}

func TestJavaFilesMissingConfiguredRoot(t *testing.T) {
	p, err := LoadFrom(t.TempDir(), Options{SourceRoots: []string{"nope"}})
	require.NoError(t, err)
	_, err = p.JavaFiles()
	assert.ErrorIs(t, err, ErrLoad)
}

func TestParseIsOrderedAndBackendIndependent(t *testing.T) {
	root := multiModule(t)
	p, err := LoadFrom(root, Options{})
	require.NoError(t, err)

	for _, name := range ParserNames() {
		t.Run(name, func(t *testing.T) {
			parse, err := Parser(name)
			require.NoError(t, err)

			files, err := p.Parse(context.Background(), parse, 2)
			require.NoError(t, err)
			require.Len(t, files, 3)

			model := Model(files)
			var names []string
			for _, c := range model.Classes() {
				names = append(names, c.Name)
			}
			assert.Equal(t, []string{"com.example.A", "com.example.B", "com.example.L"}, names)
		})
	}
}

func TestParseKeepsFilesWithSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Broken.java")
	writeFile(t, path, "package p;\nclass Broken { void x( }\n")

	parse, err := Parser(ParserNative)
	require.NoError(t, err)
	files, err := ParseFiles(context.Background(), []string{path}, parse, 0)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.NotEmpty(t, files[0].Errors)
}

func TestParseErrors(t *testing.T) {
	parse, err := Parser(ParserNative)
	require.NoError(t, err)

	_, err = ParseFiles(context.Background(), []string{filepath.Join(t.TempDir(), "Gone.java")}, parse, 1)
	assert.ErrorIs(t, err, ErrLoad)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "A.java")
	writeFile(t, path, javaClass("A"))
	_, err = ParseFiles(ctx, []string{path}, parse, 1)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Parser("javac")
	assert.Error(t, err)
}

func TestModelFromFiles(t *testing.T) {
	a := &syntax.File{Classes: []*syntax.Class{{Name: "p.A"}}}
	b := &syntax.File{Classes: []*syntax.Class{{Name: "p.B"}, {Name: "p.B$C"}}}
	assert.Len(t, Model([]*syntax.File{a, b}).Classes(), 3)
}
