package cypher

import (
	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

// CompileCreate compiles a node creation: the full declared label set is
// assigned and the node's properties are set from a single bound parameter.
func CompileCreate(desc *schema.EntityDescriptor, props map[string]any) (CompiledQuery, error) {
	for _, l := range desc.Labels() {
		if err := checkIdentifier("label", l); err != nil {
			return CompiledQuery{}, err
		}
	}
	b := newBinder()
	q := CompiledQuery{NodeKey: parentVar, LabelsKey: parentVar + "_labels"}
	q.Text = "CREATE (" + parentVar + WriteFragment(desc.Labels()) + ")" +
		" SET " + parentVar + " = " + b.bind(props) +
		" RETURN " + parentVar + ", labels(" + parentVar + ") AS " + q.LabelsKey
	q.Params = b.params
	return q, nil
}

// CompileUpdate compiles a property rewrite for an existing node. The
// declared label set is re-asserted on every update; labels attached by
// other code paths are never removed.
func CompileUpdate(desc *schema.EntityDescriptor, id any, props map[string]any) (CompiledQuery, error) {
	for _, l := range desc.Labels() {
		if err := checkIdentifier("label", l); err != nil {
			return CompiledQuery{}, err
		}
	}
	b := newBinder()
	q := CompiledQuery{NodeKey: parentVar, LabelsKey: parentVar + "_labels"}
	q.Text = "MATCH (" + parentVar + MatchFragment(desc.Labels()) + ")" +
		" WHERE " + parentVar + "." + desc.IDField() + " = " + b.bind(id) +
		" SET " + parentVar + " += " + b.bind(props) +
		" SET " + parentVar + WriteFragment(desc.Labels()) +
		" RETURN " + parentVar + ", labels(" + parentVar + ") AS " + q.LabelsKey
	q.Params = b.params
	return q, nil
}

// CompileConnect compiles edge creation between two already-persisted nodes
// for a direct relationship. Through chains are derived traversals, not
// writable edges, and are rejected.
func CompileConnect(src *schema.EntityDescriptor, rel *edge.Descriptor, srcID any, reg *schema.Registry, targetID any) (CompiledQuery, error) {
	if rel.Kind != edge.Direct {
		return CompiledQuery{}, NewInvalidChainError(rel.Name, "through relationships are derived and cannot be written")
	}
	target, ok := reg.Entity(rel.Target)
	if !ok {
		return CompiledQuery{}, NewInvalidChainError(rel.Name, "relationship targets unregistered entity "+rel.Target)
	}
	if err := checkIdentifier("edge type", rel.Type); err != nil {
		return CompiledQuery{}, err
	}
	b := newBinder()
	text := "MATCH (n0" + MatchFragment(src.Labels()) + ")" +
		" WHERE n0." + src.IDField() + " = " + b.bind(srcID) +
		" MATCH (n1" + MatchFragment(target.Labels()) + ")" +
		" WHERE n1." + target.IDField() + " = " + b.bind(targetID)
	switch rel.Dir {
	case edge.In:
		text += " MERGE (n0)<-[:" + rel.Type + "]-(n1)"
	default:
		text += " MERGE (n0)-[:" + rel.Type + "]->(n1)"
	}
	return CompiledQuery{Text: text, Params: b.params}, nil
}
