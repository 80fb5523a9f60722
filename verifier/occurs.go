package verifier

import (
	"math/big"

	"github.com/rfielding/zfsearch/wff"
)

var (
	opAllBound = big.NewInt(int64(wff.OpAll))
	opAtomBase = big.NewInt(int64(wff.OpEq))
)

// scanOccurrences consumes ph from the top of the stack and x beneath it,
// and clears the validity flag if x occurs anywhere in ph. Binding
// positions count: x occurs in ∀x ps.
//
// The scan is a worklist of (x, subformula) pairs kept on the stack, with
// m.work counting the pairs still queued. It always drains the whole
// worklist so the stack below is left as it was found.
func (m *Machine) scanOccurrences() {
	m.work = 1
	for m.work > 0 {
		ph := m.pop()
		x := m.pop()
		m.work--

		op, left, right := wff.Split(ph)
		// ∀ keeps its variable on the right; = and ∈ keep one on each side.
		if op.Cmp(opAllBound) >= 0 && x.Cmp(right) == 0 {
			m.fail(ErrOccurs)
		}
		if op.Cmp(opAtomBase) >= 0 && x.Cmp(left) == 0 {
			m.fail(ErrOccurs)
		}

		code := int64(-1)
		if op.IsInt64() {
			code = op.Int64()
		}
		// Opcodes above 3 are leaves. Below that the left field is always
		// smaller than ph, except for ph = 0 which splits to (0, 0, 0).
		switch {
		case code == int64(wff.OpImp):
			m.push(x)
			m.push(left)
			m.push(x)
			m.push(right)
			m.work += 2
		case code >= 0 && code < int64(wff.OpEq) && ph.Sign() != 0:
			m.push(x)
			m.push(left)
			m.work++
		}
	}
}

// Occurs reports whether variable x occurs in formula ph, bound or free.
// It runs as its own pass and replaces the Machine's previous state.
func (m *Machine) Occurs(x, ph *big.Int) bool {
	m.reset()
	m.push(x)
	m.push(ph)
	m.scanOccurrences()
	return !m.valid
}
