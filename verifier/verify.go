package verifier

import (
	"math/big"

	"github.com/rfielding/zfsearch/wff"
)

// Verify reports whether witness proves claimed. The Machine's previous
// state is discarded.
//
// Each step pops a witness, rebuilds the formula its rule concludes on top
// of the claim beneath it, and compares the two. Rebuilding stops growing
// once it passes the claim, which keeps schemas over small slots from
// producing astronomically large integers. Modus ponens and
// generalization then queue their cited sub-proofs as further
// (claim, witness) pairs. The pass ends when nothing is queued or the first
// rejection is recorded.
func (m *Machine) Verify(claimed, witness *big.Int) bool {
	m.reset()
	m.push(claimed)
	m.push(witness)
	m.pending = 1
	for m.pending > 0 && m.valid {
		m.pending--
		m.steps++
		m.step()
	}
	return m.valid
}

func (m *Machine) step() {
	m.proof = m.pop()
	rule, ok := wff.RuleFrom(wff.RuleOf(m.proof))
	if !ok {
		m.pop()
		m.fail(ErrUnknownRule)
		return
	}

	m.limit = m.stack.peek()
	m.oversize = false
	m.reconstruct(rule)
	m.limit = nil
	got := m.pop()
	claimed := m.pop()
	if m.oversize || got.Cmp(claimed) != 0 {
		m.fail(ErrMismatch)
		return
	}

	switch rule {
	case wff.RuleMP:
		// C proves A → B, D proves A.
		m.extract(wff.SlotA)
		m.extract(wff.SlotB)
		m.imp()
		m.extract(wff.SlotC)
		m.extract(wff.SlotA)
		m.extract(wff.SlotD)
		m.pending += 2
	case wff.RuleGen:
		// C proves A.
		m.extract(wff.SlotA)
		m.extract(wff.SlotC)
		m.pending++
	}
}

// reconstruct pushes the conclusion of the current witness under rule.
// Side conditions that fail clear the flag but still push a formula.
func (m *Machine) reconstruct(rule wff.Rule) {
	switch rule {
	case wff.RuleMP:
		m.extract(wff.SlotB)
	case wff.RuleGen:
		m.extract(wff.SlotB)
		m.extract(wff.SlotA)
		m.all()
	case wff.RuleAx17:
		m.extract(wff.SlotA)
		m.extract(wff.SlotB)
		m.scanOccurrences()
		m.run(schemas[rule])
	case wff.RuleDist:
		if wff.Slot(m.proof, wff.SlotA).Cmp(wff.Slot(m.proof, wff.SlotB)) == 0 {
			m.fail(ErrNotDistinct)
		}
		m.run(schemas[rule])
	default:
		m.run(schemas[rule])
	}
}

// Reconstruct returns the formula witness concludes according to its own
// rule, without checking any cited sub-proof. The error is the rejection of
// an unknown rule code or a failed side condition; the formula is returned
// in the latter case too.
func (m *Machine) Reconstruct(witness *big.Int) (*big.Int, error) {
	m.reset()
	m.proof = new(big.Int).Set(witness)
	m.steps = 1
	rule, ok := wff.RuleFrom(wff.RuleOf(m.proof))
	if !ok {
		m.fail(ErrUnknownRule)
		return nil, m.Err()
	}
	m.reconstruct(rule)
	return m.pop(), m.Err()
}
