package pom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("springguard.pom")

const FileName = "pom.xml"

var ErrMalformed = errors.New("malformed pom.xml")

// maxInterpolationDepth bounds property references that expand to other
// property references.
const maxInterpolationDepth = 8

// Read parses the descriptor at path, merges in the properties of a parent
// that lives on disk and expands ${...} references in the build section.
// Parents that are not found locally are ignored.
func Read(path string) (*Project, error) {
	return read(path, map[string]bool{})
}

func read(path string, seen map[string]bool) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[abs] {
		return nil, fmt.Errorf("%w: parent cycle through %s", ErrMalformed, abs)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	project, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	project.Dir = filepath.Dir(abs)

	if err := mergeLocalParent(project, seen); err != nil {
		return nil, err
	}
	interpolateProperties(project)
	return project, nil
}

func Parse(data []byte) (*Project, error) {
	var project Project
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func parentPath(project *Project) string {
	rel := project.Parent.RelativePath
	if rel == "" {
		rel = filepath.Join("..", FileName)
	}
	path := filepath.Join(project.Dir, filepath.FromSlash(rel))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	return path
}

func mergeLocalParent(project *Project, seen map[string]bool) error {
	if project.Parent == nil {
		return nil
	}
	path := parentPath(project)
	if _, err := os.Stat(path); err != nil {
		log.Debugf("parent of %s not found at %s", project.Dir, path)
		return nil
	}
	parent, err := read(path, seen)
	if err != nil {
		return fmt.Errorf("parent of %s: %w", project.Dir, err)
	}

	if project.GroupID == "" {
		project.GroupID = parent.GroupID
	}
	if project.Version == "" {
		project.Version = parent.Version
	}
	if parent.Properties != nil {
		for k, v := range parent.Properties.Entries {
			if _, exists := project.Property(k); !exists {
				project.setProperty(k, v)
			}
		}
	}
	return nil
}

func interpolateProperties(project *Project) {
	props := make(map[string]string)
	props["project.groupId"] = project.GroupID
	props["project.artifactId"] = project.ArtifactID
	props["project.version"] = project.Version
	props["pom.groupId"] = project.GroupID
	props["pom.artifactId"] = project.ArtifactID
	props["pom.version"] = project.Version
	props["project.basedir"] = project.Dir
	props["basedir"] = project.Dir
	if project.Parent != nil {
		props["project.parent.groupId"] = project.Parent.GroupID
		props["project.parent.version"] = project.Parent.Version
	}
	if project.Properties != nil {
		for k, v := range project.Properties.Entries {
			props[k] = v
		}
	}

	interpolate := func(s string) string {
		for range maxInterpolationDepth {
			if !strings.Contains(s, "${") {
				return s
			}
			before := s
			for k, v := range props {
				s = strings.ReplaceAll(s, "${"+k+"}", v)
			}
			if s == before {
				break
			}
		}
		if strings.Contains(s, "${") {
			log.Warningf("%s: unresolved property in %q", project.Dir, s)
		}
		return s
	}

	if project.Build != nil {
		project.Build.SourceDirectory = interpolate(project.Build.SourceDirectory)
		project.Build.TestSourceDirectory = interpolate(project.Build.TestSourceDirectory)
		project.Build.Directory = interpolate(project.Build.Directory)
	}
	for i := range project.Modules {
		project.Modules[i] = interpolate(project.Modules[i])
	}
}

// SourceDirectory returns the absolute main source directory.
func (p *Project) SourceDirectory() string {
	var dir string
	if p.Build != nil {
		dir = strings.TrimSpace(p.Build.SourceDirectory)
	}
	return p.resolve(dir, DefaultSourceDirectory)
}

func (p *Project) TestSourceDirectory() string {
	var dir string
	if p.Build != nil {
		dir = strings.TrimSpace(p.Build.TestSourceDirectory)
	}
	return p.resolve(dir, DefaultTestSourceDirectory)
}

func (p *Project) resolve(dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	dir = filepath.FromSlash(dir)
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(p.Dir, dir)
}

// ModuleDirs returns the absolute directories of the declared modules, in
// declaration order.
func (p *Project) ModuleDirs() []string {
	dirs := make([]string, 0, len(p.Modules))
	for _, m := range p.Modules {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		dir := filepath.Join(p.Dir, filepath.FromSlash(m))
		// A module entry may name the descriptor itself.
		if strings.HasSuffix(dir, ".xml") {
			dir = filepath.Dir(dir)
		}
		dirs = append(dirs, dir)
	}
	return dirs
}
