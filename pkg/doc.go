// Package pkg provides the core libraries of gembridge, a bridge that serves
// artifacts of a Maven repository as RubyGems packages.
//
// # Overview
//
// A repository manager stores Maven artifacts as POM and jar files. gembridge
// resolves such an item to its coordinates, builds the effective POM, and
// writes a java-platform .gem that ships the jar. JRuby projects can then
// depend on Java libraries through Bundler.
//
// # Architecture
//
// The typical data flow through gembridge:
//
//	Repository item (.pom or .jar)
//	         ↓
//	    [repository] package (coordinates, POM/jar pair, effective POM)
//	         ↓
//	    [convert] package (gem specification, .gem archive)
//	         ↓
//	    [gems] package (gemspec YAML, metadata.gz / data.tar.gz / checksums.yaml.gz)
//
// [gateway] bundles the conversion steps behind one entry point and [scan]
// runs it over a whole repository.
//
// # Quick Start
//
// Convert one artifact:
//
//	import (
//	    "github.com/matzehuels/gembridge/pkg/gateway"
//	    "github.com/matzehuels/gembridge/pkg/repository"
//	)
//
//	repo, _ := repository.NewLocal("releases", "/srv/maven")
//	a, _ := repository.NewHelper(nil).ArtifactForItem(repo, "com/google/guava/guava/31.0-jre/guava-31.0-jre.jar")
//
//	gw := gateway.New(nil, nil)
//	if a != nil && gw.CanConvert(a) {
//	    path, _ := gw.CreateGem(a, "/srv/gems")
//	    fmt.Println(path) // /srv/gems/guava-31.0.jre-java.gem
//	}
//
// # Main Packages
//
// ## Maven
//
// [maven] - Coordinates, the Maven 2 repository layout, POM parsing, and the
// effective model builder (parent inheritance, properties, dependency
// management). Version ranges are parsed with [maven.ParseVersionSpec].
//
// [storage] - Storage kinds a repository can live on. Only filesystem-backed
// storage ([storage.Local]) can be converted from.
//
// [repository] - Resolves repository items into [convert.Artifact] values:
// [repository.Resolver], [repository.Locator], [repository.MetadataBuilder],
// chained by [repository.Helper].
//
// ## RubyGems
//
// [gems] - Gem specifications, the YAML codec, and .gem archive reading and
// writing. Archives are byte-for-byte reproducible.
//
// [convert] - Maps artifacts to specifications and writes gems. Maven version
// ranges are narrowed to a single version.
//
// ## Entry Points
//
// [gateway] - The API a repository manager calls, plus an optional package
// indexer.
//
// [scan] - Batch conversion of a whole repository with a JSON report.
//
// ## Support
//
// [errors] - Error codes shared by all packages.
//
// [io] - Atomic file writes and JSON export.
//
// [observability] - Hooks for metrics and tracing backends.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/gems/...               # Specific package
//
// [maven]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/maven
// [storage]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/storage
// [repository]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/repository
// [gems]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/gems
// [convert]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/convert
// [gateway]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/gateway
// [scan]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/scan
// [errors]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/gembridge/pkg/buildinfo
package pkg
