// Package verifier checks proof witnesses against the rule catalogue.
//
// A Machine keeps all of its working state in one stack of integers plus a
// handful of counters. Nested structure (formula descent, cited sub-proofs)
// is handled with explicit worklists on that stack rather than recursion.
package verifier

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/rfielding/zfsearch/wff"
)

var (
	ErrUnknownRule = errors.New("unrecognized rule code")
	ErrMismatch    = errors.New("claimed formula does not match the rule")
	ErrOccurs      = errors.New("variable occurs in formula")
	ErrNotDistinct = errors.New("variables are not distinct")
)

// Rejection records why a pass failed. Only the first failure of a pass is
// kept.
type Rejection struct {
	Code   *big.Int // rule code of the witness being checked
	Step   int      // 1 for the root witness, then in queue order
	Reason error
}

func (r *Rejection) Error() string {
	name := "rule-" + r.Code.String()
	if rule, ok := wff.RuleFrom(r.Code); ok {
		name = rule.String()
	}
	return fmt.Sprintf("step %d (%s): %v", r.Step, name, r.Reason)
}

func (r *Rejection) Unwrap() error { return r.Reason }

// ReasonLabel maps a rejection to a short stable label for metrics.
func ReasonLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrUnknownRule):
		return "unknown_rule"
	case errors.Is(err, ErrMismatch):
		return "mismatch"
	case errors.Is(err, ErrOccurs):
		return "occurs"
	case errors.Is(err, ErrNotDistinct):
		return "not_distinct"
	default:
		return "other"
	}
}

// Machine is the verification state for one pass at a time. It is not safe
// for concurrent use; give each goroutine its own.
type Machine struct {
	stack worklist
	proof *big.Int // witness currently being checked
	valid bool
	err   *Rejection

	pending int // proof obligations still queued on the stack
	work    int // occurrence checks still queued on the stack
	steps   int

	// While limit is set, constructors replace any node larger than it
	// with 0 and set oversize. Every node built during a reconstruction
	// is part of the final formula, so exceeding the claim already means
	// a mismatch.
	limit    *big.Int
	oversize bool
}

// New returns a Machine ready for Verify.
func New() *Machine {
	m := &Machine{}
	m.reset()
	return m
}

func (m *Machine) reset() {
	m.stack.reset()
	m.proof = new(big.Int)
	m.valid = true
	m.err = nil
	m.pending = 0
	m.work = 0
	m.steps = 0
	m.limit = nil
	m.oversize = false
}

// Valid reports the validity flag of the last pass.
func (m *Machine) Valid() bool { return m.valid }

// Err returns the first rejection of the last pass, or nil.
func (m *Machine) Err() error {
	if m.err == nil {
		return nil
	}
	return m.err
}

// Steps is the number of witnesses examined in the last pass.
func (m *Machine) Steps() int { return m.steps }

// balanced reports whether the pass left nothing on the stack.
func (m *Machine) balanced() bool {
	return len(m.stack) == 0
}

// fail clears the validity flag. The flag never comes back within a pass.
func (m *Machine) fail(reason error) {
	if m.valid {
		m.err = &Rejection{Code: wff.RuleOf(m.proof), Step: m.steps, Reason: reason}
	}
	m.valid = false
}

func (m *Machine) push(v *big.Int) { m.stack.push(v) }

func (m *Machine) pop() *big.Int { return m.stack.pop() }

func (m *Machine) build(op wff.Op, left, right *big.Int) {
	v := wff.Build(op, left, right)
	if m.limit != nil && v.Cmp(m.limit) > 0 {
		m.oversize = true
		v = new(big.Int)
	}
	m.push(v)
}

// extract pushes one metavariable slot of the current witness.
func (m *Machine) extract(s wff.SlotIndex) {
	m.push(wff.Slot(m.proof, s))
}

// Formula constructors. Each consumes its operands from the top of the
// stack and pushes the result.

func (m *Machine) imp() {
	ps := m.pop()
	ph := m.pop()
	m.build(wff.OpImp, ph, ps)
}

// not duplicates the top so the binary builder sees two equal operands.
func (m *Machine) not() {
	m.stack.dup()
	right := m.pop()
	left := m.pop()
	m.build(wff.OpNot, left, right)
}

// all expects x below ph.
func (m *Machine) all() {
	ph := m.pop()
	x := m.pop()
	m.build(wff.OpAll, ph, x)
}

func (m *Machine) eq() {
	y := m.pop()
	x := m.pop()
	m.build(wff.OpEq, x, y)
}

func (m *Machine) el() {
	y := m.pop()
	x := m.pop()
	m.build(wff.OpEl, x, y)
}

// and builds ¬(ph → ¬ps) from ph below ps.
func (m *Machine) and() {
	m.not()
	m.imp()
	m.not()
}

// ex builds ¬∀x ¬ph from x below ph.
func (m *Machine) ex() {
	m.not()
	m.all()
	m.not()
}

// iff builds (ph → ps) ∧ (ps → ph) from ph below ps.
func (m *Machine) iff() {
	ps := m.pop()
	ph := m.pop()
	m.push(ph)
	m.push(ps)
	m.imp()
	m.push(ps)
	m.push(ph)
	m.imp()
	m.and()
}
