// Package maven models artifacts stored in a Maven 2 repository.
//
// # Overview
//
// The package covers three concerns of a filesystem-backed Maven repository:
//
//   - [Coordinates] and the [Layout] that maps them to repository paths
//   - POM parsing and effective-model building via [ModelBuilder]
//   - Dependency version specifications and their lower-bound narrowing
//
// # Layout
//
// [DefaultLayout] implements the standard Maven 2 layout:
//
//	com/google/guava/guava/31.0-jre/guava-31.0-jre.jar
//	  group          artifact version  file
//
// SNAPSHOT directories may hold timestamped files
// (guava-1.0-20240101.120000-3.jar under 1.0-SNAPSHOT/).
//
// # Model Building
//
// [DefaultModelBuilder] parses a POM, walks its parent chain through a
// [ModelContext], merges inherited sections, and interpolates ${...}
// expressions. Failures that make an artifact unusable (malformed XML,
// unresolvable parents) are reported as [*ModelBuildingError]; everything
// else is an I/O fault.
//
//	model, err := maven.NewModelBuilder().BuildModel("a-1.0.pom", ctx)
//
// # Version Specifications
//
// [ParseVersionSpec] understands soft requirements ("1.2"), Maven ranges
// ("[1.2,2.0)", "[1,2),[3,4)") and comparator lists (">=1.2,<2.0").
// [VersionSpec.LowerBound] returns the single version a range collapses to.
package maven
