// Package graft implements syntax-aware source rewriting on top of an
// externally supplied concrete syntax tree: it models edits as byte-range
// splices against an immutable source buffer, and builds query-driven
// rewrites, structural transforms, and indentation-aware insertions on top
// of that model.
//
// graft never parses source itself. Every operation is expressed against
// the Node, Tree, Parser, and Query interfaces declared in this package;
// the tsnode subpackage adapts them onto github.com/smacker/go-tree-sitter,
// but any conforming binding works.
package graft
