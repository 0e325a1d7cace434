package gems

import (
	"bytes"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gembridge/pkg/errors"
)

// Codec serializes specifications to and from their textual form.
type Codec interface {
	Encode(spec *Specification) ([]byte, error)
	Decode(data []byte) (*Specification, error)
}

// YAML tags RubyGems uses for its serialized objects.
const (
	TagSpecification = "!ruby/object:Gem::Specification"
	TagVersion       = "!ruby/object:Gem::Version"
	TagRequirement   = "!ruby/object:Gem::Requirement"
	TagDependency    = "!ruby/object:Gem::Dependency"
)

const documentStart = "--- "

// YAMLCodec reads and writes the YAML serialization of Gem::Specification.
//
// Encoding is canonical: fields are written in a fixed order, every field is
// present, and map keys are sorted. Encoding the result of decoding canonical
// text yields the same bytes.
type YAMLCodec struct{}

var _ Codec = YAMLCodec{}

// Encode implements Codec.
func (YAMLCodec) Encode(spec *Specification) ([]byte, error) {
	if spec == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil specification")
	}

	root := mapping(TagSpecification,
		"name", str(spec.Name),
		"version", versionNode(spec.Version),
		"platform", str(platformOrRuby(spec.Platform)),
		"authors", strSeq(spec.Authors),
		"dependencies", dependenciesNode(spec.Dependencies),
		"description", str(spec.Description),
		"email", strSeq(spec.Emails),
		"files", strSeq(spec.Files),
		"homepage", str(spec.Homepage),
		"licenses", strSeq(spec.Licenses),
		"metadata", metadataNode(spec.Metadata),
		"require_paths", strSeq(spec.RequirePaths),
		"required_ruby_version", requirementNode(spec.RequiredRubyVersion),
		"required_rubygems_version", requirementNode(spec.RequiredRubyGemsVersion),
		"requirements", strSeq(spec.Requirements),
		"rubygems_version", str(spec.RubyGemsVersion),
		"specification_version", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(spec.SpecificationVersion)},
		"summary", str(spec.Summary),
	)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	var buf bytes.Buffer
	buf.WriteString(documentStart)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestFormat, err, "encode specification %s", spec.Name)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestFormat, err, "encode specification %s", spec.Name)
	}
	return buf.Bytes(), nil
}

// Decode implements Codec. Any structural problem is reported as a
// MANIFEST_FORMAT error.
func (YAMLCodec) Decode(data []byte) (*Specification, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestFormat, err, "parse specification")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New(errors.ErrCodeManifestFormat, "specification is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || root.Tag != TagSpecification {
		return nil, errors.New(errors.ErrCodeManifestFormat, "document is not a %s (tag %q)", TagSpecification, root.Tag)
	}

	d := decoder{}
	spec := &Specification{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "name":
			spec.Name = d.scalar(key, val)
		case "version":
			spec.Version = d.version(key, val)
		case "platform":
			spec.Platform = d.scalar(key, val)
		case "authors":
			spec.Authors = d.strSeq(key, val)
		case "dependencies":
			spec.Dependencies = d.dependencies(val)
		case "description":
			spec.Description = d.scalar(key, val)
		case "email":
			spec.Emails = d.strSeq(key, val)
		case "files":
			spec.Files = d.strSeq(key, val)
		case "homepage":
			spec.Homepage = d.scalar(key, val)
		case "licenses":
			spec.Licenses = d.strSeq(key, val)
		case "metadata":
			spec.Metadata = d.metadata(val)
		case "require_paths":
			spec.RequirePaths = d.strSeq(key, val)
		case "required_ruby_version":
			spec.RequiredRubyVersion = d.requirement(key, val)
		case "required_rubygems_version":
			spec.RequiredRubyGemsVersion = d.requirement(key, val)
		case "requirements":
			spec.Requirements = d.strSeq(key, val)
		case "rubygems_version":
			spec.RubyGemsVersion = d.scalar(key, val)
		case "specification_version":
			spec.SpecificationVersion = d.integer(key, val)
		case "summary":
			spec.Summary = d.scalar(key, val)
		}
		// Unknown keys (date, bindir, cert_chain, ...) are ignored.
	}
	if d.err != nil {
		return nil, d.err
	}
	if spec.Name == "" {
		return nil, errors.New(errors.ErrCodeManifestFormat, "specification has no name")
	}
	if spec.Version == "" {
		return nil, errors.New(errors.ErrCodeManifestFormat, "specification %s has no version", spec.Name)
	}
	return spec, nil
}

func platformOrRuby(p string) string {
	if p == "" {
		return PlatformRuby
	}
	return p
}

// =============================================================================
// Encoding helpers
// =============================================================================

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func strSeq(vs []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range vs {
		n.Content = append(n.Content, str(v))
	}
	return n
}

// mapping builds a mapping node from alternating keys and values.
func mapping(tag string, kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Content = append(n.Content, str(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return n
}

func versionNode(v string) *yaml.Node {
	return mapping(TagVersion, "version", str(v))
}

func requirementNode(r Requirement) *yaml.Node {
	if len(r) == 0 {
		r = AnyVersion()
	}
	reqs := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, c := range r {
		reqs.Content = append(reqs.Content, &yaml.Node{
			Kind:    yaml.SequenceNode,
			Tag:     "!!seq",
			Content: []*yaml.Node{str(c.Op), versionNode(c.Version)},
		})
	}
	return mapping(TagRequirement, "requirements", reqs)
}

func dependenciesNode(deps []Dependency) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, d := range deps {
		n.Content = append(n.Content, mapping(TagDependency,
			"name", str(d.Name),
			"requirement", requirementNode(d.Requirement),
			"type", str(d.Type),
			"prerelease", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"},
			"version_requirements", requirementNode(d.Requirement),
		))
	}
	return n
}

func metadataNode(m map[string]string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		n.Content = append(n.Content, str(k), str(m[k]))
	}
	return n
}

// =============================================================================
// Decoding helpers
// =============================================================================

// decoder walks a parsed specification and keeps the first structural error.
type decoder struct {
	err error
}

func (d *decoder) fail(key string, n *yaml.Node, want string) {
	if d.err == nil {
		d.err = errors.New(errors.ErrCodeManifestFormat, "field %s: expected %s at line %d", key, want, n.Line)
	}
}

func (d *decoder) scalar(key string, n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		d.fail(key, n, "scalar")
		return ""
	}
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

func (d *decoder) integer(key string, n *yaml.Node) int {
	s := d.scalar(key, n)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		d.fail(key, n, "integer")
	}
	return v
}

func (d *decoder) strSeq(key string, n *yaml.Node) []string {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.fail(key, n, "sequence")
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, d.scalar(key, c))
	}
	return out
}

// version accepts both the tagged Gem::Version mapping and a bare scalar.
func (d *decoder) version(key string, n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return d.scalar(key, n)
	}
	if n.Kind != yaml.MappingNode {
		d.fail(key, n, "version")
		return ""
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "version" {
			return d.scalar(key, n.Content[i+1])
		}
	}
	d.fail(key, n, "version mapping with a version key")
	return ""
}

func (d *decoder) requirement(key string, n *yaml.Node) Requirement {
	if n.Kind != yaml.MappingNode {
		d.fail(key, n, "requirement mapping")
		return nil
	}
	var reqs *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "requirements" {
			reqs = n.Content[i+1]
		}
	}
	if reqs == nil || reqs.Kind != yaml.SequenceNode {
		d.fail(key, n, "requirements sequence")
		return nil
	}
	r := make(Requirement, 0, len(reqs.Content))
	for _, pair := range reqs.Content {
		if pair.Kind != yaml.SequenceNode || len(pair.Content) != 2 {
			d.fail(key, pair, "[operator, version] pair")
			return nil
		}
		r = append(r, Constraint{
			Op:      d.scalar(key, pair.Content[0]),
			Version: d.version(key, pair.Content[1]),
		})
	}
	return r
}

func (d *decoder) dependencies(n *yaml.Node) []Dependency {
	if n.Kind != yaml.SequenceNode {
		d.fail("dependencies", n, "sequence")
		return nil
	}
	out := make([]Dependency, 0, len(n.Content))
	for _, dn := range n.Content {
		if dn.Kind != yaml.MappingNode {
			d.fail("dependencies", dn, "dependency mapping")
			return nil
		}
		var dep Dependency
		for i := 0; i+1 < len(dn.Content); i += 2 {
			key, val := dn.Content[i].Value, dn.Content[i+1]
			switch key {
			case "name":
				dep.Name = d.scalar("dependencies.name", val)
			case "type":
				dep.Type = d.scalar("dependencies.type", val)
			case "requirement":
				dep.Requirement = d.requirement("dependencies.requirement", val)
			}
		}
		if dep.Name == "" && d.err == nil {
			d.err = errors.New(errors.ErrCodeManifestFormat, "dependency without name at line %d", dn.Line)
		}
		out = append(out, dep)
	}
	return out
}

func (d *decoder) metadata(n *yaml.Node) map[string]string {
	if n.Kind != yaml.MappingNode {
		d.fail("metadata", n, "mapping")
		return nil
	}
	m := make(map[string]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		m[n.Content[i].Value] = d.scalar("metadata", n.Content[i+1])
	}
	return m
}
