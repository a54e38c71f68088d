// Package resolve turns a config.Model into a Graph: the fully resolved,
// deterministic view of a build as the build engine would see it after its
// configuration phase. Repository shorthands are expanded, output
// directories computed, evaluation order fixed, platform-managed versions
// filled in and deferred task expressions evaluated.
//
// Resolving the same model twice yields byte-identical canonical JSON, and
// therefore the same Fingerprint.
package resolve
