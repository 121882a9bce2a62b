package proof

import "fmt"

// Describe renders p one entry per line, in wire order.
func Describe(p Proof) []string {
	membership, actual, items := parts(p)
	n := len(items)
	if actual != nil {
		n++
	}

	kind := "membership"
	if !membership {
		kind = "non-membership"
	}
	lines := make([]string, 0, n+1)
	lines = append(lines, fmt.Sprintf("%s proof, %d entries", kind, n))
	if actual != nil {
		lines = append(lines, "  "+actual.String())
	}
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("  [%d] %s", i, it))
	}
	return lines
}
