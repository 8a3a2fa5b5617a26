package pom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0</version>
</project>`)

	p, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "app", p.ArtifactID)
	assert.False(t, p.IsAggregator())
	assert.Equal(t, filepath.Join(dir, "src", "main", "java"), p.SourceDirectory())
	assert.Equal(t, filepath.Join(dir, "src", "test", "java"), p.TestSourceDirectory())
	assert.Empty(t, p.ModuleDirs())
}

func TestReadInterpolatesSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `<project>
  <artifactId>app</artifactId>
  <properties>
    <src.root>${project.basedir}/${java.dir}</src.root>
    <java.dir>java</java.dir>
  </properties>
  <build>
    <sourceDirectory>${src.root}</sourceDirectory>
    <testSourceDirectory>${basedir}/tests</testSourceDirectory>
  </build>
</project>`)

	p, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "java"), p.SourceDirectory())
	assert.Equal(t, filepath.Join(dir, "tests"), p.TestSourceDirectory())
}

func TestReadRelativeSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `<project>
  <build><sourceDirectory>src</sourceDirectory></build>
</project>`)

	p, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), p.SourceDirectory())
}

func TestReadMergesLocalParent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `<project>
  <groupId>com.example</groupId>
  <artifactId>parent</artifactId>
  <version>2.0</version>
  <packaging>pom</packaging>
  <modules>
    <module>web</module>
    <module> core </module>
  </modules>
  <properties>
    <sources>generated/java</sources>
    <shared>parent</shared>
  </properties>
</project>`)
	writeFile(t, filepath.Join(root, "web", FileName), `<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>2.0</version>
  </parent>
  <artifactId>web</artifactId>
  <properties><shared>child</shared></properties>
  <build><sourceDirectory>${sources}</sourceDirectory></build>
</project>`)

	parent, err := Read(filepath.Join(root, FileName))
	require.NoError(t, err)
	assert.True(t, parent.IsAggregator())
	assert.Equal(t, []string{filepath.Join(root, "web"), filepath.Join(root, "core")}, parent.ModuleDirs())

	web, err := Read(filepath.Join(root, "web", FileName))
	require.NoError(t, err)
	assert.Equal(t, "com.example", web.GroupID)
	assert.Equal(t, "2.0", web.Version)
	shared, _ := web.Property("shared")
	assert.Equal(t, "child", shared)
	assert.Equal(t, filepath.Join(root, "web", "generated", "java"), web.SourceDirectory())
}

func TestReadIgnoresRemoteParent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `<project>
  <parent>
    <groupId>org.springframework.boot</groupId>
    <artifactId>spring-boot-starter-parent</artifactId>
    <version>3.3.0</version>
  </parent>
  <artifactId>app</artifactId>
</project>`)

	p, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Empty(t, p.GroupID)
	assert.Equal(t, filepath.Join(dir, "src", "main", "java"), p.SourceDirectory())
}

func TestReadParentCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", FileName), `<project>
  <parent><relativePath>../b</relativePath></parent>
  <artifactId>a</artifactId>
</project>`)
	writeFile(t, filepath.Join(root, "b", FileName), `<project>
  <parent><relativePath>../a/pom.xml</relativePath></parent>
  <artifactId>b</artifactId>
</project>`)

	_, err := Read(filepath.Join(root, "a", FileName))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `<project><artifactId>app</project>`)

	_, err := Read(filepath.Join(dir, FileName))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Read(filepath.Join(dir, "missing", FileName))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
