package maven

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// dirContext resolves POMs from a directory laid out with DefaultLayout.
type dirContext string

func (d dirContext) ResolvePOM(c Coordinates) (string, bool) {
	p := filepath.Join(string(d), filepath.FromSlash(DefaultLayout{}.CoordinatesToPath(c)))
	info, err := os.Stat(p)
	return p, err == nil && info.Mode().IsRegular()
}

func writePOM(t *testing.T, root string, c Coordinates, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(DefaultLayout{}.CoordinatesToPath(c)))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func pomCoords(g, a, v string) Coordinates {
	return Coordinates{GroupID: g, ArtifactID: a, Version: v, Extension: ExtPOM}
}

func TestBuildModel_Simple(t *testing.T) {
	root := t.TempDir()
	pom := writePOM(t, root, pomCoords("com.example", "my-app", "1.0.0"), `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>my-app</artifactId>
  <version>1.0.0</version>
  <name>My App</name>
  <description>Does things</description>
  <url>https://example.com</url>
  <licenses>
    <license><name>Apache-2.0</name><url>https://www.apache.org/licenses/LICENSE-2.0</url></license>
  </licenses>
  <developers>
    <developer><id>jd</id><name>Jane Doe</name><email>jane@example.com</email></developer>
  </developers>
  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>5.3.0</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.optional</groupId>
      <artifactId>optional-dep</artifactId>
      <optional>true</optional>
    </dependency>
  </dependencies>
</project>`)

	m, err := NewModelBuilder().BuildModel(pom, dirContext(root))
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}

	if m.GroupID != "com.example" || m.ArtifactID != "my-app" || m.Version != "1.0.0" {
		t.Errorf("coordinates = %s", m.Coordinates())
	}
	if m.Packaging != "jar" {
		t.Errorf("Packaging = %q, want default jar", m.Packaging)
	}
	if m.Name != "My App" || m.Description != "Does things" || m.URL != "https://example.com" {
		t.Errorf("descriptive fields = %q / %q / %q", m.Name, m.Description, m.URL)
	}
	if len(m.Licenses) != 1 || m.Licenses[0].Name != "Apache-2.0" {
		t.Errorf("Licenses = %+v", m.Licenses)
	}
	if len(m.Developers) != 1 || m.Developers[0].Email != "jane@example.com" {
		t.Errorf("Developers = %+v", m.Developers)
	}
	if len(m.Dependencies) != 3 {
		t.Fatalf("Dependencies = %+v", m.Dependencies)
	}
	if d := m.Dependencies[1]; d.Scope != ScopeTest || d.EffectiveScope() != ScopeTest {
		t.Errorf("junit scope = %q", d.Scope)
	}
	if d := m.Dependencies[0]; d.EffectiveScope() != ScopeCompile || d.Type != "jar" {
		t.Errorf("spring-core = %+v", d)
	}
	if !m.Dependencies[2].Optional {
		t.Error("optional-dep should be optional")
	}
	if m.Parent != nil {
		t.Errorf("Parent = %+v, want nil", m.Parent)
	}
}

func TestBuildModel_ParentInheritance(t *testing.T) {
	root := t.TempDir()
	writePOM(t, root, pomCoords("org.acme", "acme-parent", "3"), `<project>
  <groupId>org.acme</groupId>
  <artifactId>acme-parent</artifactId>
  <version>3</version>
  <packaging>pom</packaging>
  <url>https://acme.org</url>
  <properties>
    <guava.version>31.0-jre</guava.version>
    <!-- comment -->
    <slf4j.version>[1.7,2.0)</slf4j.version>
  </properties>
  <licenses><license><name>MIT</name></license></licenses>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>com.google.guava</groupId>
        <artifactId>guava</artifactId>
        <version>${guava.version}</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>${slf4j.version}</version>
    </dependency>
  </dependencies>
</project>`)

	pom := writePOM(t, root, pomCoords("org.acme", "widget", "3"), `<project>
  <parent>
    <groupId>org.acme</groupId>
    <artifactId>acme-parent</artifactId>
    <version>3</version>
  </parent>
  <artifactId>widget</artifactId>
  <dependencies>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>widget-core</artifactId>
      <version>${project.version}</version>
    </dependency>
  </dependencies>
</project>`)

	m, err := NewModelBuilder().BuildModel(pom, dirContext(root))
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}

	if m.GroupID != "org.acme" || m.Version != "3" {
		t.Errorf("inherited coordinates = %s", m.Coordinates())
	}
	if m.Packaging != "jar" {
		t.Errorf("Packaging = %q, packaging must not be inherited", m.Packaging)
	}
	if m.URL != "https://acme.org" {
		t.Errorf("URL = %q", m.URL)
	}
	if len(m.Licenses) != 1 || m.Licenses[0].Name != "MIT" {
		t.Errorf("Licenses = %+v", m.Licenses)
	}
	if m.Parent == nil || m.Parent.Coordinates() != pomCoords("org.acme", "acme-parent", "3") {
		t.Errorf("Parent = %+v", m.Parent)
	}

	byGA := make(map[string]Dependency)
	for _, d := range m.Dependencies {
		byGA[d.GroupID+":"+d.ArtifactID] = d
	}
	if got := byGA["org.slf4j:slf4j-api"].Version; got != "[1.7,2.0)" {
		t.Errorf("inherited slf4j version = %q", got)
	}
	if got := byGA["com.google.guava:guava"].Version; got != "31.0-jre" {
		t.Errorf("managed guava version = %q", got)
	}
	if got := byGA["org.acme:widget-core"].Version; got != "3" {
		t.Errorf("interpolated widget-core = %+v", byGA["org.acme:widget-core"])
	}
}

func TestBuildModel_UnresolvableParent(t *testing.T) {
	root := t.TempDir()
	pom := writePOM(t, root, pomCoords("g", "a", "1.0"), `<project>
  <parent><groupId>g</groupId><artifactId>missing-parent</artifactId><version>1</version></parent>
  <artifactId>a</artifactId>
  <version>1.0</version>
</project>`)

	_, err := NewModelBuilder().BuildModel(pom, dirContext(root))
	var mbe *ModelBuildingError
	if !errors.As(err, &mbe) {
		t.Fatalf("error = %v, want *ModelBuildingError", err)
	}

	// A nil context cannot resolve parents either.
	if _, err := NewModelBuilder().BuildModel(pom, nil); !errors.As(err, &mbe) {
		t.Fatalf("nil context error = %v, want *ModelBuildingError", err)
	}
}

func TestBuildModel_ParentCycle(t *testing.T) {
	root := t.TempDir()
	writePOM(t, root, pomCoords("g", "p1", "1"), `<project>
  <parent><groupId>g</groupId><artifactId>p2</artifactId><version>1</version></parent>
  <artifactId>p1</artifactId>
</project>`)
	writePOM(t, root, pomCoords("g", "p2", "1"), `<project>
  <parent><groupId>g</groupId><artifactId>p1</artifactId><version>1</version></parent>
  <artifactId>p2</artifactId>
</project>`)
	pom := writePOM(t, root, pomCoords("g", "a", "1"), `<project>
  <parent><groupId>g</groupId><artifactId>p1</artifactId><version>1</version></parent>
  <artifactId>a</artifactId>
</project>`)

	_, err := NewModelBuilder().BuildModel(pom, dirContext(root))
	var mbe *ModelBuildingError
	if !errors.As(err, &mbe) {
		t.Fatalf("error = %v, want *ModelBuildingError", err)
	}
}

func TestBuildModel_Malformed(t *testing.T) {
	root := t.TempDir()
	tests := map[string]string{
		"broken xml":      `<project><groupId>g</groupId>`,
		"wrong root":      `<settings><groupId>g</groupId></settings>`,
		"no artifactId":   `<project><groupId>g</groupId><version>1</version></project>`,
		"no version":      `<project><groupId>g</groupId><artifactId>a</artifactId></project>`,
		"self version":    `<project><groupId>g</groupId><artifactId>a</artifactId><version>${project.version}</version></project>`,
		"partial parent":  `<project><parent><groupId>g</groupId></parent><artifactId>a</artifactId></project>`,
		"unknown version": `<project><groupId>g</groupId><artifactId>a</artifactId><version>${revision}</version></project>`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(root, name+".pom")
			if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := NewModelBuilder().BuildModel(p, dirContext(root))
			var mbe *ModelBuildingError
			if !errors.As(err, &mbe) {
				t.Errorf("error = %v, want *ModelBuildingError", err)
			}
		})
	}
}

func TestBuildModel_MissingFileIsIOError(t *testing.T) {
	_, err := NewModelBuilder().BuildModel(filepath.Join(t.TempDir(), "gone.pom"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var mbe *ModelBuildingError
	if errors.As(err, &mbe) {
		t.Errorf("missing file reported as model error: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist in chain", err)
	}
}

func TestBuildModel_Properties(t *testing.T) {
	root := t.TempDir()
	pom := writePOM(t, root, pomCoords("g", "a", "2.5"), `<project>
  <groupId>g</groupId>
  <artifactId>a</artifactId>
  <version>${revision}</version>
  <name>${project.artifactId} library</name>
  <properties>
    <revision>${major}.5</revision>
    <major>2</major>
  </properties>
</project>`)

	m, err := NewModelBuilder().BuildModel(pom, nil)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if m.Version != "2.5" {
		t.Errorf("Version = %q, want 2.5", m.Version)
	}
	if m.Name != "a library" {
		t.Errorf("Name = %q", m.Name)
	}
}

func TestIsBinaryPackaging(t *testing.T) {
	for _, p := range []string{"jar", "bundle", "maven-plugin", "ejb"} {
		if !IsBinaryPackaging(p) {
			t.Errorf("IsBinaryPackaging(%q) = false", p)
		}
	}
	for _, p := range []string{"pom", "war", ""} {
		if IsBinaryPackaging(p) {
			t.Errorf("IsBinaryPackaging(%q) = true", p)
		}
	}
}
