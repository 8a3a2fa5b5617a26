// Package project finds the Java sources of a Maven project and parses them
// into a syntax model.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/springguard/pom"
)

var log = commonlog.GetLogger("springguard.project")

// ErrLoad is returned when a project cannot be read at all.
var ErrLoad = errors.New("cannot load project")

// Project is a Maven project with one or more modules.
type Project struct {
	RootDir string
	Modules []*Module
	// Configured is set when the source roots came from configuration
	// rather than from pom.xml.
	Configured bool
	skipDirs   []string
}

// Module is a Maven module. Aggregator modules have no source roots.
type Module struct {
	Name        string
	Dir         string
	SourceRoots []string
	POM         *pom.Project
}

type Options struct {
	// SourceRoots, relative to the project directory, replace pom.xml
	// discovery when set.
	SourceRoots  []string
	SkipDirs     []string
	IncludeTests bool
}

// LoadFrom scans rootDir for a Maven project.
func LoadFrom(rootDir string, opts Options) (*Project, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrLoad, rootDir)
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	proj := &Project{RootDir: abs, skipDirs: opts.SkipDirs}
	if len(opts.SourceRoots) > 0 {
		proj.Configured = true
		m := &Module{Name: filepath.Base(abs), Dir: abs}
		for _, root := range opts.SourceRoots {
			if !filepath.IsAbs(root) {
				root = filepath.Join(abs, filepath.FromSlash(root))
			}
			m.SourceRoots = append(m.SourceRoots, root)
		}
		proj.Modules = []*Module{m}
		return proj, nil
	}

	descriptor := filepath.Join(abs, pom.FileName)
	if _, err := os.Stat(descriptor); err != nil {
		return nil, fmt.Errorf("%w: no %s in %s and no configured source roots", ErrLoad, pom.FileName, rootDir)
	}
	if err := proj.scanModules(abs, opts.IncludeTests, map[string]bool{}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return proj, nil
}

func (p *Project) scanModules(dir string, includeTests bool, seen map[string]bool) error {
	if seen[dir] {
		return nil
	}
	seen[dir] = true

	descriptor, err := pom.Read(filepath.Join(dir, pom.FileName))
	if err != nil {
		return err
	}

	m := &Module{Name: moduleName(descriptor, dir), Dir: dir, POM: descriptor}
	if !descriptor.IsAggregator() {
		m.SourceRoots = existingDirs(descriptor.SourceDirectory())
		if includeTests {
			m.SourceRoots = append(m.SourceRoots, existingDirs(descriptor.TestSourceDirectory())...)
		}
	}
	p.Modules = append(p.Modules, m)

	for _, child := range descriptor.ModuleDirs() {
		if err := p.scanModules(child, includeTests, seen); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
	}
	return nil
}

func moduleName(descriptor *pom.Project, dir string) string {
	if descriptor.ArtifactID != "" {
		return descriptor.ArtifactID
	}
	return filepath.Base(dir)
}

func existingDirs(dirs ...string) []string {
	var found []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			found = append(found, dir)
		} else {
			log.Debugf("source root %s does not exist", dir)
		}
	}
	return found
}

// Module returns the module with the given name, or nil if not found.
func (p *Project) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// SourceRoots returns the source roots of all modules, in module order.
func (p *Project) SourceRoots() []string {
	var roots []string
	for _, m := range p.Modules {
		roots = append(roots, m.SourceRoots...)
	}
	return roots
}

// JavaFiles returns all .java files below the source roots, sorted and
// without duplicates. Directories named in the skip list are not entered.
func (p *Project) JavaFiles() ([]string, error) {
	var files []string
	for _, root := range p.SourceRoots() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && slices.Contains(p.skipDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".java") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scan java files in %s: %w", ErrLoad, root, err)
		}
	}
	sort.Strings(files)
	return slices.Compact(files), nil
}

// Rel returns path relative to the project directory when possible.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
