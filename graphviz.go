package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rfielding/zfsearch/wff"
)

// ProofGraphviz renders a decoded proof as a Graphviz DOT tree. Each witness
// becomes a box listing its non-proof slots; cited sub-proofs hang below it
// on edges labelled with the citing slot.
func ProofGraphviz(p *wff.ProofNode) string {
	var sb strings.Builder

	sb.WriteString("digraph Proof {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	sb.WriteString("\n")

	next := 0
	writeProofNode(&sb, p, &next)

	sb.WriteString("}\n")
	return sb.String()
}

// writeProofNode emits p as node n<id> and returns id.
func writeProofNode(sb *strings.Builder, p *wff.ProofNode, next *int) int {
	id := *next
	*next++

	lines := []string{p.Name()}
	if !p.Known {
		lines = append(lines, "unrecognized")
	}
	for _, s := range p.Slots {
		if s.Kind != wff.KindProof {
			lines = append(lines, fmt.Sprintf("%s: %s", s.Slot, s))
		}
	}
	fmt.Fprintf(sb, "  n%d [label=\"%s\"];\n", id, dotEscape(strings.Join(lines, "\n")))

	for _, s := range p.Slots {
		if s.Kind != wff.KindProof {
			continue
		}
		child := writeProofNode(sb, s.Proof, next)
		fmt.Fprintf(sb, "  n%d -> n%d [label=\"%s\"];\n", id, child, s.Slot)
	}
	return id
}

func dotEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return r.Replace(s)
}

// SaveGraphviz writes the DOT rendering of p to filename.
func SaveGraphviz(p *wff.ProofNode, filename string) error {
	if err := os.WriteFile(filename, []byte(ProofGraphviz(p)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
