// Package validate checks a loaded build configuration against the rules a
// shippable Android embedding must satisfy: SDK levels, signing, dependency
// ordering, repositories, output directories, evaluation ordering,
// identifiers and language levels.
//
// Every rule carries a stable code and the reason it exists. Validation
// never modifies the model; a release signed with debug credentials, for
// example, is reported and left as declared.
package validate
