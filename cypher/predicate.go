package cypher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Op is a filter predicate operator.
type Op string

// The supported operator set. Predicates combine with logical AND in
// declaration order; OR and grouping are not supported.
const (
	OpEQ   Op = "="
	OpNEQ  Op = "<>"
	OpLT   Op = "<"
	OpLTE  Op = "<="
	OpGT   Op = ">"
	OpGTE  Op = ">="
	OpLike Op = "like" // case-sensitive substring match with % wildcards
	OpIn   Op = "in"
)

// Predicate is one filter condition on a property of the target variable.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// SortDirection orders a sort key ascending or descending.
type SortDirection int

const (
	// Asc sorts ascending (the default).
	Asc SortDirection = iota
	// Desc sorts descending.
	Desc
)

// SortKey is one ordering clause. Keys apply in declaration order: the first
// key is primary, subsequent keys break ties.
type SortKey struct {
	Column    string
	Direction SortDirection
}

// validIdentifier restricts property names, labels, edge types and variable
// names that are interpolated into query text. Literal values never pass
// through it; they are always bound as parameters.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func checkIdentifier(kind, s string) error {
	if s == "" || len(s) > 128 || !validIdentifier.MatchString(s) {
		return fmt.Errorf("cypher: invalid %s %q", kind, s)
	}
	return nil
}

// binder allocates named parameters in binding order: $p1, $p2, ...
// Placeholder allocation is deterministic, which keeps compilation
// referentially transparent.
type binder struct {
	params map[string]any
	n      int
}

func newBinder() *binder {
	return &binder{params: make(map[string]any)}
}

// bind registers the value and returns its placeholder, e.g. "$p3".
func (b *binder) bind(v any) string {
	b.n++
	name := "p" + strconv.Itoa(b.n)
	b.params[name] = v
	return "$" + name
}

// translate converts the predicates into WHERE conditions on targetVar,
// binding every literal value as a named parameter.
func translate(preds []Predicate, targetVar string, b *binder) ([]string, error) {
	conds := make([]string, 0, len(preds))
	for _, p := range preds {
		if err := checkIdentifier("property", p.Column); err != nil {
			return nil, err
		}
		field := targetVar + "." + p.Column
		switch p.Op {
		case OpEQ, OpNEQ, OpLT, OpLTE, OpGT, OpGTE:
			conds = append(conds, field+" "+string(p.Op)+" "+b.bind(p.Value))
		case OpIn:
			conds = append(conds, field+" IN "+b.bind(p.Value))
		case OpLike:
			s, ok := p.Value.(string)
			if !ok {
				return nil, fmt.Errorf("cypher: like requires a string value, got %T", p.Value)
			}
			conds = append(conds, field+" =~ "+b.bind(likeToRegex(s)))
		default:
			return nil, fmt.Errorf("cypher: unsupported operator %q", p.Op)
		}
	}
	return conds, nil
}

// likeToRegex converts a %-wildcard pattern to an anchored regular
// expression. Literal segments are quoted, so the only metacharacter the
// caller controls is the wildcard itself, and the result is still bound as
// a parameter rather than inlined.
func likeToRegex(pattern string) string {
	parts := strings.Split(pattern, "%")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}

// orderClause renders the ORDER BY clause for targetVar, or "" when there
// are no sort keys. Ascending is implicit, matching the clause grammar.
func orderClause(sorts []SortKey, targetVar string) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}
	keys := make([]string, len(sorts))
	for i, s := range sorts {
		if err := checkIdentifier("property", s.Column); err != nil {
			return "", err
		}
		keys[i] = targetVar + "." + s.Column
		if s.Direction == Desc {
			keys[i] += " DESC"
		}
	}
	return "ORDER BY " + strings.Join(keys, ", "), nil
}

// pagingClause renders SKIP and LIMIT. Offset skips results post-ordering;
// limit caps the count after skipping. Counts are emitted inline: they are
// non-negative integers under the compiler's control, never caller text.
func pagingClause(limit, offset *int) string {
	var parts []string
	if offset != nil && *offset > 0 {
		parts = append(parts, "SKIP "+strconv.Itoa(*offset))
	}
	if limit != nil {
		parts = append(parts, "LIMIT "+strconv.Itoa(*limit))
	}
	return strings.Join(parts, " ")
}
