// Package cypher compiles relationship descriptors and query specifications
// into parameterized pattern-matching queries.
//
// Compilation is pure: identical specifications always compile to identical
// query text and parameter mappings, so compiled queries can safely be used
// as cache keys. Literal values are always bound as named parameters and
// never concatenated into query text.
package cypher

import (
	"strings"

	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

// Spec is an accumulating query specification: a pattern rooted at an entity
// variant (optionally traversing a relationship), filter predicates, sort
// keys and paging. It is immutable once handed to Compile.
type Spec struct {
	// Source is the entity the pattern is rooted at.
	Source *schema.EntityDescriptor
	// Registry resolves hop targets to their descriptors.
	Registry *schema.Registry
	// Rel, when set, makes the pattern a traversal; nil compiles a bare
	// single-node match.
	Rel *edge.Descriptor
	// ParentIDs, when set, constrains the root node's identifier to the
	// given set and propagates it in the return clause. Used by batch
	// traversals covering many parents in one query.
	ParentIDs []any
	// ParentID, when set (and ParentIDs is not), constrains the root node
	// to a single parent.
	ParentID any

	Predicates []Predicate
	Sorts      []SortKey
	// Limit and Offset apply to the terminal pattern variable only,
	// never to intermediate hop variables.
	Limit  *int
	Offset *int
}

// CompiledQuery is a ready-to-execute statement: the query text and its
// out-of-band parameter mapping, plus the return-clause aliases the hydrator
// reads results by.
type CompiledQuery struct {
	Text   string
	Params map[string]any
	// NodeKey is the record key of the terminal node.
	NodeKey string
	// LabelsKey is the record key of the terminal node's label list.
	LabelsKey string
	// SrcKey is the record key of the propagated parent identifier, or ""
	// when the query is not a batch traversal.
	SrcKey string
}

// Compile assembles the complete traversal query for the specification:
// match clauses, filter clause (omitted when empty), return clause and
// order/paging clauses, in that fixed order.
func Compile(spec Spec) (CompiledQuery, error) {
	frag, err := buildFragment(spec)
	if err != nil {
		return CompiledQuery{}, err
	}
	b := newBinder()
	conds, err := conditions(spec, frag, b)
	if err != nil {
		return CompiledQuery{}, err
	}
	q := CompiledQuery{
		Params:    b.params,
		NodeKey:   frag.TerminalVar,
		LabelsKey: frag.TerminalVar + "_labels",
	}
	parts := make([]string, 0, 6)
	parts = append(parts, frag.MatchClauses...)
	if len(conds) > 0 {
		parts = append(parts, "WHERE "+strings.Join(conds, " AND "))
	}
	ret := frag.TerminalVar + ", labels(" + frag.TerminalVar + ") AS " + q.LabelsKey
	if len(spec.ParentIDs) > 0 {
		q.SrcKey = "src"
		ret = frag.JoinKey + " AS src, " + ret
	}
	parts = append(parts, "RETURN "+ret)
	order, err := orderClause(spec.Sorts, frag.TerminalVar)
	if err != nil {
		return CompiledQuery{}, err
	}
	if order != "" {
		parts = append(parts, order)
	}
	if paging := pagingClause(spec.Limit, spec.Offset); paging != "" {
		parts = append(parts, paging)
	}
	q.Text = strings.Join(parts, " ")
	return q, nil
}

// CompileCount compiles the variant returning a scalar count of terminal
// nodes instead of rows. Ordering and paging do not apply.
func CompileCount(spec Spec) (CompiledQuery, error) {
	frag, err := buildFragment(spec)
	if err != nil {
		return CompiledQuery{}, err
	}
	b := newBinder()
	conds, err := conditions(spec, frag, b)
	if err != nil {
		return CompiledQuery{}, err
	}
	parts := make([]string, 0, 3)
	parts = append(parts, frag.MatchClauses...)
	if len(conds) > 0 {
		parts = append(parts, "WHERE "+strings.Join(conds, " AND "))
	}
	parts = append(parts, "RETURN count("+frag.TerminalVar+") AS count")
	return CompiledQuery{Text: strings.Join(parts, " "), Params: b.params}, nil
}

// CompileFirst compiles the same query with the limit forced to 1.
func CompileFirst(spec Spec) (CompiledQuery, error) {
	one := 1
	spec.Limit = &one
	return Compile(spec)
}

func buildFragment(spec Spec) (Fragment, error) {
	if spec.Rel == nil {
		return buildEntity(spec.Source)
	}
	return buildRelationship(spec.Source, spec.Rel, spec.Registry)
}

// conditions binds the parent constraint (always the first parameter, so
// batch and single-parent compilations stay deterministic) followed by the
// translated predicates on the terminal variable.
func conditions(spec Spec, frag Fragment, b *binder) ([]string, error) {
	var conds []string
	switch {
	case len(spec.ParentIDs) > 0:
		conds = append(conds, frag.JoinKey+" IN "+b.bind(spec.ParentIDs))
	case spec.ParentID != nil:
		conds = append(conds, frag.JoinKey+" = "+b.bind(spec.ParentID))
	}
	translated, err := translate(spec.Predicates, frag.TerminalVar, b)
	if err != nil {
		return nil, err
	}
	return append(conds, translated...), nil
}
