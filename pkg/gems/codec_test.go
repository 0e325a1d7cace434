package gems

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/gembridge/pkg/errors"
)

func sampleSpec() *Specification {
	return &Specification{
		Name:        "guava",
		Version:     "31.0.jre",
		Platform:    PlatformJava,
		Summary:     "Guava: Google Core Libraries for Java",
		Description: "Guava is a suite of core and expanded libraries.\nSecond line.",
		Homepage:    "https://github.com/google/guava",
		Authors:     []string{"Kevin Bourrillion"},
		Emails:      []string{"kevinb@google.com"},
		Licenses:    []string{"Apache-2.0"},
		Files:       []string{"lib/guava.rb", "lib/guava-31.0-jre.jar"},
		RequirePaths: []string{"lib"},
		Dependencies: []Dependency{
			{Name: "failureaccess", Type: DependencyRuntime, Requirement: Exactly("1.0.1")},
			{Name: "listenablefuture", Type: DependencyRuntime, Requirement: AnyVersion()},
			{Name: "junit", Type: DependencyDevelopment, Requirement: Exactly("4.13.2")},
		},
		Requirements: []string{"jar com.google.guava:guava, 31.0-jre"},
		Metadata: map[string]string{
			"maven_packaging":   "bundle",
			"maven_coordinates": "com.google.guava:guava:31.0-jre",
		},
		RequiredRubyVersion:     AnyVersion(),
		RequiredRubyGemsVersion: AnyVersion(),
		RubyGemsVersion:         DefaultRubyGemsVersion,
		SpecificationVersion:    DefaultSpecificationVersion,
	}
}

func TestYAMLCodec_RoundTrip(t *testing.T) {
	var codec YAMLCodec
	spec := sampleSpec()

	text, err := codec.Encode(spec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(text, []byte("--- "+TagSpecification)) {
		t.Errorf("document does not start with the specification tag:\n%s", text)
	}

	decoded, err := codec.Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, text)
	}
	if !reflect.DeepEqual(decoded, spec) {
		t.Errorf("Decode(Encode(spec)) mismatch:\n got %+v\nwant %+v", decoded, spec)
	}

	again, err := codec.Encode(decoded)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(again, text) {
		t.Errorf("Encode(Decode(text)) != text:\n%s\n---\n%s", again, text)
	}
}

func TestYAMLCodec_Deterministic(t *testing.T) {
	var codec YAMLCodec
	first, err := codec.Encode(sampleSpec())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := codec.Encode(sampleSpec())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, first) {
			t.Fatalf("encode %d differs from first encode", i)
		}
	}
}

func TestYAMLCodec_EmptyFieldsRoundTrip(t *testing.T) {
	var codec YAMLCodec
	text, err := codec.Encode(&Specification{Name: "a", Version: "1.0"})
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, text)
	}
	if decoded.Name != "a" || decoded.Version != "1.0" || decoded.Platform != PlatformRuby {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.Files) != 0 || len(decoded.Dependencies) != 0 {
		t.Errorf("expected no files or dependencies, got %+v", decoded)
	}
	again, err := codec.Encode(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, text) {
		t.Errorf("round trip changed text:\n%s\n---\n%s", again, text)
	}
}

func TestYAMLCodec_DecodeRubyGemsOutput(t *testing.T) {
	// Trimmed metadata as written by `gem build`.
	text := `--- !ruby/object:Gem::Specification
name: rake
version: !ruby/object:Gem::Version
  version: 13.0.6
platform: ruby
authors:
- Hiroshi SHIBATA
bindir: exe
cert_chain: []
date: 2021-07-09 00:00:00.000000000 Z
dependencies:
- !ruby/object:Gem::Dependency
  name: minitest
  requirement: !ruby/object:Gem::Requirement
    requirements:
    - - ">="
      - !ruby/object:Gem::Version
        version: '5'
  type: :development
  prerelease: false
  version_requirements: !ruby/object:Gem::Requirement
    requirements:
    - - ">="
      - !ruby/object:Gem::Version
        version: '5'
description: Rake is a Make-like program implemented in Ruby.
email:
- hsbt@ruby-lang.org
files:
- lib/rake.rb
homepage: https://github.com/ruby/rake
licenses:
- MIT
metadata: {}
post_install_message:
require_paths:
- lib
required_ruby_version: !ruby/object:Gem::Requirement
  requirements:
  - - ">="
    - !ruby/object:Gem::Version
      version: '2.2'
rubygems_version: 3.2.22
specification_version: 4
summary: Rake is a Make-like program implemented in Ruby
`
	spec, err := YAMLCodec{}.Decode([]byte(text))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if spec.Name != "rake" || spec.Version != "13.0.6" {
		t.Errorf("name/version = %s/%s", spec.Name, spec.Version)
	}
	if len(spec.Dependencies) != 1 {
		t.Fatalf("Dependencies = %+v", spec.Dependencies)
	}
	dep := spec.Dependencies[0]
	if dep.Name != "minitest" || dep.Type != DependencyDevelopment || dep.Requirement.String() != ">= 5" {
		t.Errorf("dependency = %+v (%s)", dep, dep.Requirement)
	}
	if got := spec.RequiredRubyVersion.String(); got != ">= 2.2" {
		t.Errorf("RequiredRubyVersion = %s", got)
	}
	if spec.SpecificationVersion != 4 {
		t.Errorf("SpecificationVersion = %d", spec.SpecificationVersion)
	}
}

func TestYAMLCodec_DecodeErrors(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":     "name: [unterminated",
		"empty":            "",
		"untagged":         "name: a\nversion: '1.0'\n",
		"wrong tag":        "--- !ruby/object:Gem::Dependency\nname: a\n",
		"scalar root":      "--- hello\n",
		"no name":          "--- !ruby/object:Gem::Specification\nversion: '1.0'\n",
		"no version":       "--- !ruby/object:Gem::Specification\nname: a\n",
		"files not a list": "--- !ruby/object:Gem::Specification\nname: a\nversion: '1'\nfiles: lib/a.rb\n",
		"bad spec version": "--- !ruby/object:Gem::Specification\nname: a\nversion: '1'\nspecification_version: four\n",
		"bad requirement":  "--- !ruby/object:Gem::Specification\nname: a\nversion: '1'\nrequired_ruby_version: '>= 0'\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := YAMLCodec{}.Decode([]byte(text))
			if !errors.Is(err, errors.ErrCodeManifestFormat) {
				t.Errorf("Decode error = %v, want MANIFEST_FORMAT", err)
			}
		})
	}
}

func TestYAMLCodec_EncodeNil(t *testing.T) {
	if _, err := (YAMLCodec{}).Encode(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Encode(nil) error = %v", err)
	}
}

func TestYAMLCodec_QuotesNumericVersions(t *testing.T) {
	text, err := YAMLCodec{}.Encode(&Specification{Name: "a", Version: "1.0"})
	if err != nil {
		t.Fatal(err)
	}
	// An unquoted 1.0 would read back as a float.
	if strings.Contains(string(text), "version: 1.0\n") {
		t.Errorf("version emitted unquoted:\n%s", text)
	}
}
