/*
Package projectpath provides a structured representation of build project
paths in the colon-separated form used by multi-project builds.

The root project is `:`. Subprojects are addressed from the root, e.g.
`:app` or `:libs:core`.
*/
package projectpath
