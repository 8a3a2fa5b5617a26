// Package pom reads the parts of a Maven project descriptor that decide where
// a project keeps its Java sources.
package pom

import "encoding/xml"

type Project struct {
	XMLName      xml.Name    `xml:"project"`
	ModelVersion string      `xml:"modelVersion"`
	GroupID      string      `xml:"groupId"`
	ArtifactID   string      `xml:"artifactId"`
	Version      string      `xml:"version"`
	Packaging    string      `xml:"packaging"`
	Name         string      `xml:"name"`
	Parent       *Parent     `xml:"parent"`
	Modules      []string    `xml:"modules>module"`
	Properties   *Properties `xml:"properties"`
	Build        *Build      `xml:"build"`

	// Dir is the directory holding the descriptor. It is the value of
	// ${project.basedir}.
	Dir string `xml:"-"`
}

type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type Properties struct {
	Entries map[string]string
}

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = value
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type Build struct {
	SourceDirectory     string `xml:"sourceDirectory"`
	TestSourceDirectory string `xml:"testSourceDirectory"`
	Directory           string `xml:"directory"`
}

const (
	DefaultSourceDirectory     = "src/main/java"
	DefaultTestSourceDirectory = "src/test/java"
)

// IsAggregator reports whether the project only groups modules and has no
// sources of its own.
func (p *Project) IsAggregator() bool {
	return p.Packaging == "pom"
}

func (p *Project) Property(name string) (string, bool) {
	if p.Properties == nil {
		return "", false
	}
	v, ok := p.Properties.Entries[name]
	return v, ok
}

func (p *Project) setProperty(name, value string) {
	if p.Properties == nil {
		p.Properties = &Properties{Entries: make(map[string]string)}
	}
	p.Properties.Entries[name] = value
}
