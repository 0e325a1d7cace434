package convert

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gembridge/pkg/gems"
)

// NamingPolicy decides how Maven coordinates map to gem names.
type NamingPolicy int

const (
	// NameArtifactID names gems after the artifactId ("guava").
	NameArtifactID NamingPolicy = iota
	// NameGroupQualified prefixes the groupId ("com.google.guava.guava").
	NameGroupQualified
)

// ParseNamingPolicy parses "artifact" or "group". An empty string selects
// NameArtifactID.
func ParseNamingPolicy(s string) (NamingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "artifact":
		return NameArtifactID, nil
	case "group":
		return NameGroupQualified, nil
	}
	return 0, fmt.Errorf("unknown naming policy %q (want artifact or group)", s)
}

func (p NamingPolicy) String() string {
	if p == NameGroupQualified {
		return "group"
	}
	return "artifact"
}

// GemName returns the gem name for a groupId/artifactId pair.
func (p NamingPolicy) GemName(groupID, artifactID string) string {
	if p == NameGroupQualified {
		return gems.SanitizeName(groupID + "." + artifactID)
	}
	return gems.SanitizeName(artifactID)
}
