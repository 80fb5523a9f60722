package wff

import (
	"fmt"
	"math/big"
	"strings"
)

// Node is a decoded formula, used for display only. Verification always
// compares the encoded integers.
type Node interface {
	String() string
}

// Atom is an integer in formula position that is not a well-formed node;
// it stands for an opaque formula metavariable.
type Atom struct {
	N *big.Int
}

func (a Atom) String() string { return "φ" + a.N.String() }

// ImpNode represents ph → ps
type ImpNode struct {
	Left, Right Node
}

func (i ImpNode) String() string { return fmt.Sprintf("(%s → %s)", i.Left, i.Right) }

// NotNode represents ¬ph
type NotNode struct {
	F Node
}

func (n NotNode) String() string { return fmt.Sprintf("¬%s", n.F) }

// AllNode represents ∀x ph
type AllNode struct {
	X *big.Int
	F Node
}

func (a AllNode) String() string { return fmt.Sprintf("∀%s %s", varName(a.X), a.F) }

// EqNode represents x = y
type EqNode struct {
	X, Y *big.Int
}

func (e EqNode) String() string { return fmt.Sprintf("(%s = %s)", varName(e.X), varName(e.Y)) }

// ElNode represents x ∈ y
type ElNode struct {
	X, Y *big.Int
}

func (e ElNode) String() string { return fmt.Sprintf("(%s ∈ %s)", varName(e.X), varName(e.Y)) }

// AndNode is the display form of ¬(ph → ¬ps).
type AndNode struct {
	Left, Right Node
}

func (a AndNode) String() string { return fmt.Sprintf("(%s ∧ %s)", a.Left, a.Right) }

// IffNode is the display form of (ph → ps) ∧ (ps → ph).
type IffNode struct {
	Left, Right Node
}

func (i IffNode) String() string { return fmt.Sprintf("(%s ↔ %s)", i.Left, i.Right) }

// ExNode is the display form of ¬∀x ¬ph.
type ExNode struct {
	X *big.Int
	F Node
}

func (e ExNode) String() string { return fmt.Sprintf("∃%s %s", varName(e.X), e.F) }

func varName(x *big.Int) string { return "v" + x.String() }

// match splits w and reports whether it is a well-formed node with opcode op.
func match(w *big.Int, op Op) (left, right *big.Int, ok bool) {
	code, l, r := Split(w)
	if code.Cmp(op.Int()) != 0 {
		return nil, nil, false
	}
	if op == OpNot && l.Cmp(r) != 0 {
		return nil, nil, false
	}
	return l, r, true
}

// Parse decodes w into a Node. Every field of a node is strictly smaller
// than the node itself, so decoding always terminates.
func Parse(w *big.Int) Node {
	if l, r, ok := match(w, OpImp); ok {
		return ImpNode{Left: Parse(l), Right: Parse(r)}
	}
	if inner, _, ok := match(w, OpNot); ok {
		return parseNot(inner)
	}
	if ph, x, ok := match(w, OpAll); ok {
		return AllNode{X: x, F: Parse(ph)}
	}
	if x, y, ok := match(w, OpEq); ok {
		return EqNode{X: x, Y: y}
	}
	if x, y, ok := match(w, OpEl); ok {
		return ElNode{X: x, Y: y}
	}
	return Atom{N: new(big.Int).Set(w)}
}

// parseNot recognises the derived connectives hiding under a negation.
func parseNot(inner *big.Int) Node {
	if ph, rhs, ok := match(inner, OpImp); ok {
		if ps, _, ok := match(rhs, OpNot); ok {
			if a, b, ok := match(ph, OpImp); ok {
				if c, d, ok := match(ps, OpImp); ok && a.Cmp(d) == 0 && b.Cmp(c) == 0 {
					return IffNode{Left: Parse(a), Right: Parse(b)}
				}
			}
			return AndNode{Left: Parse(ph), Right: Parse(ps)}
		}
	}
	if body, x, ok := match(inner, OpAll); ok {
		if ph, _, ok := match(body, OpNot); ok {
			return ExNode{X: x, F: Parse(ph)}
		}
	}
	return NotNode{F: Parse(inner)}
}

// Format renders w in the usual logical notation.
func Format(w *big.Int) string {
	return Parse(w).String()
}

// SlotValue is one decoded witness slot.
type SlotValue struct {
	Slot    SlotIndex
	Kind    SlotKind
	Raw     *big.Int
	Formula Node
	Proof   *ProofNode
}

func (s SlotValue) String() string {
	switch s.Kind {
	case KindWff:
		return s.Formula.String()
	case KindVar:
		return varName(s.Raw)
	case KindProof:
		return s.Proof.Name()
	default:
		return s.Raw.String()
	}
}

// ProofNode is a decoded proof witness.
type ProofNode struct {
	Code  *big.Int
	Rule  Rule
	Known bool
	Slots []SlotValue
}

// ParseWitness decodes w using the rule catalogue to interpret its slots.
// Sub-proofs are decoded recursively; each is strictly smaller than w.
func ParseWitness(w *big.Int) *ProofNode {
	code := RuleOf(w)
	rule, known := RuleFrom(code)
	node := &ProofNode{Code: code, Rule: rule, Known: known}
	if !known {
		return node
	}
	info, _ := rule.Info()
	raw := Slots(w)
	for s, kind := range info.Slots {
		if kind == KindUnused {
			continue
		}
		sv := SlotValue{Slot: SlotIndex(s), Kind: kind, Raw: raw[s]}
		switch kind {
		case KindWff:
			sv.Formula = Parse(raw[s])
		case KindProof:
			sv.Proof = ParseWitness(raw[s])
		}
		node.Slots = append(node.Slots, sv)
	}
	return node
}

// Name is the rule name, or "rule-<code>" for unrecognised codes.
func (p *ProofNode) Name() string {
	if p.Known {
		return p.Rule.String()
	}
	return "rule-" + p.Code.String()
}

// String prints the proof as an indented tree.
func (p *ProofNode) String() string {
	var sb strings.Builder
	p.write(&sb, 0)
	return sb.String()
}

func (p *ProofNode) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent + p.Name())
	if !p.Known {
		sb.WriteString(" (unrecognized)\n")
		return
	}
	sb.WriteString("\n")
	for _, s := range p.Slots {
		if s.Kind == KindProof {
			fmt.Fprintf(sb, "%s  %s:\n", indent, s.Slot)
			s.Proof.write(sb, depth+2)
			continue
		}
		fmt.Fprintf(sb, "%s  %s: %s\n", indent, s.Slot, s)
	}
}
