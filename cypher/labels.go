package cypher

import "strings"

// MatchFragment renders the label constraint for a node pattern: a
// colon-joined conjunction requiring the node to carry every given label.
// Duplicates collapse, keeping the first occurrence; labels the store has
// attached beyond this set are tolerated by the match.
func MatchFragment(labels []string) string {
	return labelFragment(labels)
}

// WriteFragment renders the label list assigned on node creation and
// re-asserted on update. The write path only ever adds the full declared
// set; it never diffs against what is currently stored, so labels attached
// by other code paths survive updates.
func WriteFragment(labels []string) string {
	return labelFragment(labels)
}

func labelFragment(labels []string) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		b.WriteByte(':')
		b.WriteString(l)
	}
	return b.String()
}
