package cypher

import (
	"fmt"
	"strconv"

	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

// Fragment is a graph pattern for one relationship invocation: the match
// clauses to emit, the variable bound to the traversal's terminal node, and
// the join key expression correlating results back to the parent identity.
type Fragment struct {
	MatchClauses []string
	TerminalVar  string
	// JoinKey is the parent identifier expression, e.g. "n0.uuid". It
	// threads through every hop unchanged, which is what lets a single
	// query answer the traversal for any number of parents at once.
	JoinKey string
}

// vars hands out deterministic node and edge variable names. Fresh names are
// scoped to one Fragment; identical inputs always allocate identically.
type vars struct {
	nodes int
	edges int
}

func (v *vars) node() string {
	v.nodes++
	return "n" + strconv.Itoa(v.nodes)
}

func (v *vars) edge() string {
	v.edges++
	return "r" + strconv.Itoa(v.edges)
}

// parentVar is the variable bound to the pattern's root node.
const parentVar = "n0"

// buildEntity builds the single-node pattern for a bare entity query.
func buildEntity(desc *schema.EntityDescriptor) (Fragment, error) {
	for _, l := range desc.Labels() {
		if err := checkIdentifier("label", l); err != nil {
			return Fragment{}, err
		}
	}
	return Fragment{
		MatchClauses: []string{"MATCH (" + parentVar + MatchFragment(desc.Labels()) + ")"},
		TerminalVar:  parentVar,
		JoinKey:      parentVar + "." + desc.IDField(),
	}, nil
}

// buildRelationship builds the traversal pattern for a relationship rooted
// at the source entity: one match clause for a direct edge, one per hop for
// a through chain, each hop's node label-constrained and the parent
// identifier propagated as the join key.
func buildRelationship(src *schema.EntityDescriptor, rel *edge.Descriptor, reg *schema.Registry) (Fragment, error) {
	frag := Fragment{JoinKey: parentVar + "." + src.IDField()}
	v := &vars{}
	switch rel.Kind {
	case edge.Direct:
		hop := edge.Hop{Source: src.Name(), Target: rel.Target, Type: rel.Type, Dir: rel.Dir}
		clause, terminal, err := hopClause(parentVar, src, hop, v, reg)
		if err != nil {
			return Fragment{}, err
		}
		frag.MatchClauses = append(frag.MatchClauses, clause)
		frag.TerminalVar = terminal
	case edge.Through:
		if len(rel.Hops) < 2 {
			return Fragment{}, NewInvalidChainError(rel.Name, "a through chain needs at least two hops")
		}
		if rel.Hops[0].Source != src.Name() {
			return Fragment{}, NewInvalidChainError(rel.Name,
				fmt.Sprintf("first hop starts at %q, relationship is declared on %q", rel.Hops[0].Source, src.Name()))
		}
		from, fromDesc := parentVar, src
		for i, hop := range rel.Hops {
			if i > 0 && rel.Hops[i-1].Target != hop.Source {
				return Fragment{}, NewInvalidChainError(rel.Name,
					fmt.Sprintf("hop %d targets %q but hop %d starts at %q", i-1, rel.Hops[i-1].Target, i, hop.Source))
			}
			next, ok := reg.Entity(hop.Target)
			if !ok {
				return Fragment{}, NewInvalidChainError(rel.Name,
					fmt.Sprintf("hop %d targets unregistered entity %q", i, hop.Target))
			}
			clause, terminal, err := hopClause(from, fromDesc, hop, v, reg)
			if err != nil {
				return Fragment{}, err
			}
			frag.MatchClauses = append(frag.MatchClauses, clause)
			from, fromDesc = terminal, next
		}
		frag.TerminalVar = from
	default:
		return Fragment{}, fmt.Errorf("cypher: unknown relationship kind %d for %q", rel.Kind, rel.Name)
	}
	return frag, nil
}

// hopClause emits one match clause traversing a single edge. The source node
// carries the labels of fromDesc, the target node the labels of the hop's
// target entity.
func hopClause(fromVar string, fromDesc *schema.EntityDescriptor, hop edge.Hop, v *vars, reg *schema.Registry) (clause, terminal string, err error) {
	target, ok := reg.Entity(hop.Target)
	if !ok {
		return "", "", fmt.Errorf("cypher: relationship targets unregistered entity %q", hop.Target)
	}
	for _, labels := range [][]string{fromDesc.Labels(), target.Labels()} {
		for _, l := range labels {
			if err := checkIdentifier("label", l); err != nil {
				return "", "", err
			}
		}
	}
	edgePart := "[" + v.edge()
	if hop.Type != "" {
		if err := checkIdentifier("edge type", hop.Type); err != nil {
			return "", "", err
		}
		edgePart += ":" + hop.Type
	}
	edgePart += "]"
	terminal = v.node()
	from := "(" + fromVar + MatchFragment(fromDesc.Labels()) + ")"
	to := "(" + terminal + MatchFragment(target.Labels()) + ")"
	switch hop.Dir {
	case edge.In:
		clause = "MATCH " + from + "<-" + edgePart + "-" + to
	default:
		clause = "MATCH " + from + "-" + edgePart + "->" + to
	}
	return clause, terminal, nil
}
