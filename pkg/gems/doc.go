// Package gems models RubyGems packages.
//
// It covers the three artifacts a converted Maven artifact turns into:
//
//   - [Specification]: the in-memory Gem::Specification
//   - [YAMLCodec]: the YAML form RubyGems stores in a gem's metadata.gz
//     and that gembridge writes as a standalone .gemspec file
//   - [WritePackage] / [ReadPackage]: the .gem archive itself, an
//     uncompressed tar holding metadata.gz, data.tar.gz and checksums.yaml.gz
//
// Archives are reproducible: entry order, modes and timestamps are fixed
// (see [Epoch]), so the same specification and files always produce the same
// bytes.
package gems
