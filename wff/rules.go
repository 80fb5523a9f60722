package wff

import (
	"fmt"
	"math/big"
)

// Rule is a proof-witness rule code. Codes 1 to 22 are the closed set the
// verifier accepts; anything else is rejected.
type Rule int64

const (
	RuleMP   Rule = 1
	RuleGen  Rule = 2
	RuleAx1  Rule = 3
	RuleAx2  Rule = 4
	RuleAx3  Rule = 5
	RuleAx5  Rule = 6
	RuleAx6  Rule = 7
	RuleAx7  Rule = 8
	RuleAx8  Rule = 9
	RuleAx9  Rule = 10
	RuleAx11 Rule = 11
	RuleAx12 Rule = 12
	RuleAx13 Rule = 13
	RuleAx14 Rule = 14
	RuleAx17 Rule = 15
	RuleExt  Rule = 16
	RuleRep  Rule = 17
	RulePow  Rule = 18
	RuleUn   Rule = 19
	RuleReg  Rule = 20
	RuleInf  Rule = 21
	RuleDist Rule = 22
)

// SlotKind says how a slot of a witness is interpreted for a given rule.
type SlotKind uint8

const (
	KindUnused SlotKind = iota
	KindWff
	KindVar
	KindProof
)

func (k SlotKind) String() string {
	switch k {
	case KindWff:
		return "wff"
	case KindVar:
		return "var"
	case KindProof:
		return "proof"
	default:
		return "unused"
	}
}

// RuleInfo describes one entry of the rule catalogue.
type RuleInfo struct {
	Name      string
	Statement string
	Slots     [4]SlotKind
}

const (
	kw = KindWff
	kv = KindVar
	kp = KindProof
)

var catalogue = map[Rule]RuleInfo{
	RuleMP:   {"ax-mp", "ps, from ⊢ (ph → ps) and ⊢ ph", [4]SlotKind{kw, kw, kp, kp}},
	RuleGen:  {"ax-gen", "∀x ph, from ⊢ ph", [4]SlotKind{kw, kv, kp}},
	RuleAx1:  {"ax-1", "ph → (ps → ph)", [4]SlotKind{kw, kw}},
	RuleAx2:  {"ax-2", "(ph → (ps → ch)) → ((ph → ps) → (ph → ch))", [4]SlotKind{kw, kw, kw}},
	RuleAx3:  {"ax-3", "(¬ph → ¬ps) → (ps → ph)", [4]SlotKind{kw, kw}},
	RuleAx5:  {"ax-5", "∀x(ph → ps) → (∀x ph → ∀x ps)", [4]SlotKind{kv, kw, kw}},
	RuleAx6:  {"ax-6", "¬∀x ph → ∀x ¬∀x ph", [4]SlotKind{kv, kw}},
	RuleAx7:  {"ax-7", "∀x∀y ph → ∀y∀x ph", [4]SlotKind{kv, kv, kw}},
	RuleAx8:  {"ax-8", "x = y → (x = z → y = z)", [4]SlotKind{kv, kv, kv}},
	RuleAx9:  {"ax-9", "¬∀x ¬x = y", [4]SlotKind{kv, kv}},
	RuleAx11: {"ax-11", "x = y → (∀y ph → ∀x(x = y → ph))", [4]SlotKind{kv, kv, kw}},
	RuleAx12: {"ax-12", "¬x = y → (y = z → ∀x y = z)", [4]SlotKind{kv, kv, kv}},
	RuleAx13: {"ax-13", "x = y → (x ∈ z → y ∈ z)", [4]SlotKind{kv, kv, kv}},
	RuleAx14: {"ax-14", "x = y → (z ∈ x → z ∈ y)", [4]SlotKind{kv, kv, kv}},
	RuleAx17: {"ax-17", "ph → ∀x ph, x not in ph", [4]SlotKind{kv, kw}},
	RuleExt:  {"ax-ext", "∃x((x ∈ y ↔ x ∈ z) → y = z)", [4]SlotKind{kv, kv, kv}},
	RuleRep:  {"ax-rep", "∃x(∃y∀z(ph → z = y) → ∀z(∀y z ∈ x ↔ ∃x(∀z x ∈ y ∧ ∀y ph)))", [4]SlotKind{kv, kv, kv, kw}},
	RulePow:  {"ax-pow", "¬x = y → ∃x∀y(∀x(∃z x ∈ y → ∀y x ∈ z) → y ∈ x)", [4]SlotKind{kv, kv, kv}},
	RuleUn:   {"ax-un", "∃x∀y(∃x(y ∈ x ∧ x ∈ z) → y ∈ x)", [4]SlotKind{kv, kv, kv}},
	RuleReg:  {"ax-reg", "x ∈ y → ∃x(x ∈ y ∧ ∀z(z ∈ x → ¬z ∈ y))", [4]SlotKind{kv, kv, kv}},
	RuleInf:  {"ax-inf", "∃x(y ∈ z → (y ∈ x ∧ ∀y(y ∈ x → ∃z(y ∈ z ∧ z ∈ x))))", [4]SlotKind{kv, kv, kv}},
	RuleDist: {"ax-dist", "¬∀x x = y, x and y distinct", [4]SlotKind{kv, kv}},
}

// RuleFrom converts a raw rule code. ok is false outside 1..22.
func RuleFrom(code *big.Int) (Rule, bool) {
	if !code.IsInt64() {
		return 0, false
	}
	r := Rule(code.Int64())
	return r, r.Valid()
}

func (r Rule) Valid() bool {
	_, ok := catalogue[r]
	return ok
}

func (r Rule) Int() *big.Int { return big.NewInt(int64(r)) }

// Info returns the catalogue entry for r.
func (r Rule) Info() (RuleInfo, bool) {
	info, ok := catalogue[r]
	return info, ok
}

func (r Rule) String() string {
	if info, ok := catalogue[r]; ok {
		return info.Name
	}
	return fmt.Sprintf("rule-%d", int64(r))
}

// Rules lists every valid rule in code order.
func Rules() []Rule {
	out := make([]Rule, 0, len(catalogue))
	for r := RuleMP; r <= RuleDist; r++ {
		out = append(out, r)
	}
	return out
}
