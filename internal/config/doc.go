// Package config defines the format-agnostic model of a multi-project build
// configuration: one root build coordinator and any number of application
// modules. It also declares the Loader interface implemented by concrete
// configuration formats, such as HCL.
//
// The `config.Model` is the single input of the `resolve` and `validate`
// packages. Every declared value keeps the source range it came from so that
// problems can be reported against the original file.
package config
