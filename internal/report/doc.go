// Package report renders validation reports and resolved build graphs as
// text, JSON, YAML or, for graphs, Graphviz DOT.
package report
