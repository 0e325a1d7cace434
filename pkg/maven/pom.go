package maven

import (
	"encoding/xml"
	"strings"
)

type pomProject struct {
	XMLName              xml.Name        `xml:"project"`
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Packaging            string          `xml:"packaging"`
	Name                 string          `xml:"name"`
	Description          string          `xml:"description"`
	URL                  string          `xml:"url"`
	Parent               *pomParent      `xml:"parent"`
	Properties           pomProperties   `xml:"properties"`
	Licenses             []pomLicense    `xml:"licenses>license"`
	Developers           []pomDeveloper  `xml:"developers>developer"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
}

type pomParent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

type pomLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

type pomDeveloper struct {
	ID    string `xml:"id"`
	Name  string `xml:"name"`
	Email string `xml:"email"`
}

// pomProperties collects the free-form children of <properties>.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

func (d pomDependency) toDependency() Dependency {
	dep := Dependency{
		GroupID:    strings.TrimSpace(d.GroupID),
		ArtifactID: strings.TrimSpace(d.ArtifactID),
		Version:    strings.TrimSpace(d.Version),
		Type:       strings.TrimSpace(d.Type),
		Classifier: strings.TrimSpace(d.Classifier),
		Scope:      strings.TrimSpace(d.Scope),
		Optional:   strings.TrimSpace(d.Optional) == "true",
	}
	if dep.Type == "" {
		dep.Type = ExtJAR
	}
	return dep
}
