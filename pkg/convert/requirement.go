package convert

import (
	"strings"

	"github.com/matzehuels/gembridge/pkg/gems"
	"github.com/matzehuels/gembridge/pkg/maven"
)

// NarrowRequirement translates a Maven dependency version into a gem
// requirement.
//
// Soft and pinned versions map to "= v". Ranges and comparator lists
// collapse to "= lower", where lower is the lowest lower bound across all
// ranges regardless of inclusiveness. Specs without a lower bound, missing
// versions, unparseable specs and unresolved ${...} expressions map to
// ">= 0".
func NarrowRequirement(version string) gems.Requirement {
	spec, err := maven.ParseVersionSpec(version)
	if err != nil {
		return gems.AnyVersion()
	}
	lower, ok := spec.LowerBound()
	if !ok || strings.Contains(lower, "${") {
		return gems.AnyVersion()
	}
	return gems.Exactly(gems.VersionFromMaven(lower))
}
