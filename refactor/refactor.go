// Package refactor implements the Refactor Facade (spec.md §4.7):
// high-level recipes composed from queryedit and transform.
package refactor

import (
	"fmt"

	"github.com/bethropolis/graft"
	"github.com/bethropolis/graft/queryedit"
	"github.com/bethropolis/graft/transform"
)

// SymbolKind selects which grammar construct rename_symbol targets.
type SymbolKind int

const (
	KindFunction SymbolKind = iota
	KindType
	KindVariable
	KindIdentifier
)

// symbolPattern returns the query pattern binding capture "name" for kind.
// These patterns follow tree-sitter's Go grammar node names; callers
// targeting another grammar should use queryedit directly with their
// own pattern instead of RenameSymbol.
func symbolPattern(kind SymbolKind) string {
	switch kind {
	case KindFunction:
		return `[
			(function_declaration name: (identifier) @name)
			(call_expression function: (identifier) @name)
		]`
	case KindType:
		return `(type_spec name: (type_identifier) @name)`
	case KindVariable:
		return `(short_var_declaration left: (expression_list (identifier) @name))`
	default:
		return `(identifier) @name`
	}
}

// Facade composes queryedit.Rewriter and transform.Transformer against
// one source, tree, and query compiler.
type Facade struct {
	source   []byte
	root     graft.Node
	language graft.Language
	compiler graft.QueryCompiler
}

// New starts a Facade over a parsed root node.
func New(source []byte, root graft.Node, language graft.Language, compiler graft.QueryCompiler) *Facade {
	return &Facade{source: source, root: root, language: language, compiler: compiler}
}

func (f *Facade) queryRewriter() *queryedit.Rewriter {
	return queryedit.New(f.source, f.root, f.language, f.compiler)
}

// RenameSymbol replaces every @name capture of the given kind whose text
// equals from with to.
func (f *Facade) RenameSymbol(from, to string, kind SymbolKind) ([]byte, error) {
	r := f.queryRewriter().
		Query(symbolPattern(kind)).
		Where(matchesText("name", from)).
		Replace("name", queryedit.Static([]byte(to)))
	return r.Rewrite()
}

// RenameField replaces every field_declaration/selector_expression.field/bare
// field_identifier capture whose text equals from with to.
func (f *Facade) RenameField(from, to string) ([]byte, error) {
	pattern := `[
		(field_declaration name: (field_identifier) @name)
		(selector_expression field: (field_identifier) @name)
		(field_identifier) @name
	]`
	r := f.queryRewriter().
		Query(pattern).
		Where(matchesText("name", from)).
		Replace("name", queryedit.Static([]byte(to)))
	return r.Rewrite()
}

// AddAttribute inserts attribute + "\n" before every @item capture
// queryPattern binds.
func (f *Facade) AddAttribute(queryPattern, attribute string) ([]byte, error) {
	r := f.queryRewriter().
		Query(queryPattern).
		InsertBefore("item", queryedit.Static([]byte(attribute+"\n")))
	return r.Rewrite()
}

// RemoveMatching removes every node captureName binds in queryPattern.
// An empty captureName defaults to "item" (with or without the leading
// '@', per spec.md §4.6's capture-name convention).
func (f *Facade) RemoveMatching(queryPattern, captureName string) ([]byte, error) {
	if captureName == "" {
		captureName = "item"
	}
	r := f.queryRewriter().Query(queryPattern).Remove(captureName)
	return r.Rewrite()
}

// matchesText builds a Where predicate requiring the named capture's text
// to equal want.
func matchesText(captureName, want string) func(graft.Match) bool {
	return func(m graft.Match) bool {
		for _, c := range m.CapturesNamed(captureName) {
			if string(c.Node.Text()) == want {
				return true
			}
		}
		return false
	}
}

// ExtractFunction builds a call reference and a function-definition
// string from node, then uses Transformer's Extract to insert the
// definition after an explicit insertAfter target or, when insertAfter is
// nil, after node's nearest function_declaration/method_declaration
// ancestor.
func (f *Facade) ExtractFunction(node graft.Node, name string, parameters []string, insertAfter graft.Node) ([]byte, error) {
	if insertAfter == nil {
		for p := node.Parent(); p != nil; p = p.Parent() {
			if k := p.Kind(); k == "function_declaration" || k == "method_declaration" {
				insertAfter = p
				break
			}
		}
		if insertAfter == nil {
			return nil, graft.InvalidArgumentf("refactor: no enclosing function and no insertAfter target")
		}
	}
	paramList := ""
	for i, p := range parameters {
		if i > 0 {
			paramList += ", "
		}
		paramList += p
	}
	reference := fmt.Sprintf("%s(%s)", name, paramList)
	body := node.Text()
	definition := fmt.Sprintf("func %s(%s) {\n\t%s\n}", name, paramList, body)

	tr := transform.New(f.source)
	if err := tr.Extract(node, insertAfter, reference, func([]byte) []byte { return []byte(definition) }); err != nil {
		return nil, err
	}
	return tr.Rewrite()
}

// InlineVariable finds a let-declaration binding name, captures its
// value's text, and replaces every identifier usage of name whose parent
// kind is not in {let_declaration, parameter, function_item} with that
// captured text. scopePattern optionally restricts which declaration is
// used as the binding when more than one exists (empty scopePattern uses
// the default let-declaration pattern).
func (f *Facade) InlineVariable(name string, scopePattern string) ([]byte, error) {
	declPattern := scopePattern
	if declPattern == "" {
		declPattern = `(let_declaration pattern: (identifier) @name value: (_) @value)`
	}

	decls := f.queryRewriter().Query(declPattern).Where(matchesText("name", name))
	matches, err := decls.Matches()
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, graft.InvalidArgumentf("refactor: no let-declaration binds %q", name)
	}
	values := matches[0].CapturesNamed("value")
	if len(values) == 0 {
		return nil, graft.InvalidArgumentf("refactor: let-declaration for %q has no value capture", name)
	}
	valueText := values[0].Node.Text()

	excluded := map[string]bool{"let_declaration": true, "parameter": true, "function_item": true}
	usages := f.queryRewriter().
		Query(`(identifier) @usage`).
		Where(func(m graft.Match) bool {
			for _, c := range m.CapturesNamed("usage") {
				if string(c.Node.Text()) != name {
					continue
				}
				parent := c.Node.Parent()
				if parent == nil || !excluded[parent.Kind()] {
					return true
				}
			}
			return false
		}).
		Replace("usage", func(node graft.Node) []byte {
			if string(node.Text()) != name {
				return node.Text()
			}
			return valueText
		})
	return usages.Rewrite()
}
