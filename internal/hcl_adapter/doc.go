// Package hcl_adapter loads build configuration written in HCL and
// translates it into the format-agnostic config.Model.
//
// A configuration is a set of .hcl files. The file declaring the `project`
// block is the root project; every `module` block defines a subproject whose
// directory is the directory of its file.
package hcl_adapter
