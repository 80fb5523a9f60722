package verifier

import (
	"github.com/rfielding/zfsearch/wff"
)

// instr is one step of a reconstruction program. Programs are postfix: slot
// pushes followed by constructors that consume their operands.
type instr uint8

const (
	slotA instr = iota
	slotB
	slotC
	slotD
	opNot
	opImp
	opAll // x below ph
	opEq
	opEl
	opAnd
	opEx // x below ph
	opIff
)

type program []instr

// schemas rebuilds the conclusion of each axiom from the witness slots.
// Set variables take the first slots (x, y, z), formulas follow.
var schemas = map[wff.Rule]program{
	// ph → (ps → ph)
	wff.RuleAx1: {slotA, slotB, slotA, opImp, opImp},
	// (ph → (ps → ch)) → ((ph → ps) → (ph → ch))
	wff.RuleAx2: {
		slotA, slotB, slotC, opImp, opImp,
		slotA, slotB, opImp, slotA, slotC, opImp, opImp,
		opImp,
	},
	// (¬ph → ¬ps) → (ps → ph)
	wff.RuleAx3: {slotA, opNot, slotB, opNot, opImp, slotB, slotA, opImp, opImp},
	// ∀x(ph → ps) → (∀x ph → ∀x ps)
	wff.RuleAx5: {
		slotA, slotB, slotC, opImp, opAll,
		slotA, slotB, opAll, slotA, slotC, opAll, opImp,
		opImp,
	},
	// ¬∀x ph → ∀x ¬∀x ph
	wff.RuleAx6: {slotA, slotB, opAll, opNot, slotA, slotA, slotB, opAll, opNot, opAll, opImp},
	// ∀x∀y ph → ∀y∀x ph
	wff.RuleAx7: {slotA, slotB, slotC, opAll, opAll, slotB, slotA, slotC, opAll, opAll, opImp},
	// x = y → (x = z → y = z)
	wff.RuleAx8: {slotA, slotB, opEq, slotA, slotC, opEq, slotB, slotC, opEq, opImp, opImp},
	// ¬∀x ¬(x = y)
	wff.RuleAx9: {slotA, slotA, slotB, opEq, opNot, opAll, opNot},
	// x = y → (∀y ph → ∀x(x = y → ph))
	wff.RuleAx11: {
		slotA, slotB, opEq,
		slotB, slotC, opAll,
		slotA, slotA, slotB, opEq, slotC, opImp, opAll,
		opImp, opImp,
	},
	// ¬(x = y) → (y = z → ∀x(y = z))
	wff.RuleAx12: {
		slotA, slotB, opEq, opNot,
		slotB, slotC, opEq,
		slotA, slotB, slotC, opEq, opAll,
		opImp, opImp,
	},
	// x = y → (x ∈ z → y ∈ z)
	wff.RuleAx13: {slotA, slotB, opEq, slotA, slotC, opEl, slotB, slotC, opEl, opImp, opImp},
	// x = y → (z ∈ x → z ∈ y)
	wff.RuleAx14: {slotA, slotB, opEq, slotC, slotA, opEl, slotC, slotB, opEl, opImp, opImp},
	// ph → ∀x ph, with x not occurring in ph
	wff.RuleAx17: {slotB, slotA, slotB, opAll, opImp},
	// ∃x((x ∈ y ↔ x ∈ z) → y = z)
	wff.RuleExt: {slotA, slotA, slotB, opEl, slotA, slotC, opEl, opIff, slotB, slotC, opEq, opImp, opEx},
	// ∃x(∃y∀z(ph → z = y) → ∀z(∀y z ∈ x ↔ ∃x(∀z x ∈ y ∧ ∀y ph)))
	wff.RuleRep: {
		slotA,
		slotB, slotC, slotD, slotC, slotB, opEq, opImp, opAll, opEx,
		slotC, slotB, slotC, slotA, opEl, opAll, slotA, slotC, slotA, slotB, opEl, opAll,
		slotB, slotD, opAll, opAnd, opEx, opIff, opAll,
		opImp, opEx,
	},
	// ¬(x = y) → ∃x∀y(∀x(∃z x ∈ y → ∀y x ∈ z) → y ∈ x)
	wff.RulePow: {
		slotA, slotB, opEq, opNot,
		slotA, slotB, slotA, slotC, slotA, slotB, opEl, opEx,
		slotB, slotA, slotC, opEl, opAll, opImp, opAll,
		slotB, slotA, opEl, opImp, opAll, opEx,
		opImp,
	},
	// ∃x ∀y(∃x(y ∈ x ∧ x ∈ z) → y ∈ x)
	wff.RuleUn: {
		slotA, slotB, slotA, slotB, slotA, opEl, slotA, slotC, opEl, opAnd, opEx,
		slotB, slotA, opEl, opImp, opAll, opEx,
	},
	// x ∈ y → ∃x(x ∈ y ∧ ∀z(z ∈ x → ¬(z ∈ y)))
	wff.RuleReg: {
		slotA, slotB, opEl,
		slotA, slotA, slotB, opEl, slotC, slotC, slotA, opEl, slotC, slotB, opEl, opNot, opImp, opAll, opAnd, opEx,
		opImp,
	},
	// ∃x(y ∈ z → (y ∈ x ∧ ∀y(y ∈ x → ∃z(y ∈ z ∧ z ∈ x))))
	wff.RuleInf: {
		slotA,
		slotB, slotC, opEl,
		slotB, slotA, opEl,
		slotB, slotB, slotA, opEl, slotC, slotB, slotC, opEl, slotC, slotA, opEl, opAnd, opEx, opImp, opAll,
		opAnd,
		opImp,
		opEx,
	},
	// ¬∀x(x = y), with x and y distinct
	wff.RuleDist: {slotA, slotA, slotB, opEq, opAll, opNot},
}

// run executes p against the current witness.
func (m *Machine) run(p program) {
	for _, in := range p {
		switch in {
		case slotA:
			m.extract(wff.SlotA)
		case slotB:
			m.extract(wff.SlotB)
		case slotC:
			m.extract(wff.SlotC)
		case slotD:
			m.extract(wff.SlotD)
		case opNot:
			m.not()
		case opImp:
			m.imp()
		case opAll:
			m.all()
		case opEq:
			m.eq()
		case opEl:
			m.el()
		case opAnd:
			m.and()
		case opEx:
			m.ex()
		case opIff:
			m.iff()
		}
	}
}
