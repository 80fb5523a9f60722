// Package wff encodes formulas and proof witnesses as nested pairs.
//
// A formula node is Encode(op, Encode(left, right)). Opcodes 4 and 5 hold raw
// variable identifiers in both fields; opcodes 1 to 3 hold formulas on the
// left (and on the right, for implication).
package wff

import (
	"math/big"

	"github.com/rfielding/zfsearch/pairing"
)

// Op is a formula opcode.
type Op int64

const (
	OpImp Op = 1 // (ph, ps): ph → ps
	OpNot Op = 2 // (ph, ph): ¬ph
	OpAll Op = 3 // (ph, x): ∀x ph
	OpEq  Op = 4 // (x, y): x = y
	OpEl  Op = 5 // (x, y): x ∈ y
)

func (o Op) Int() *big.Int { return big.NewInt(int64(o)) }

// Build returns the node (op, left, right).
func Build(op Op, left, right *big.Int) *big.Int {
	return pairing.Encode(op.Int(), pairing.Encode(left, right))
}

// Split decomposes a node into its three fields. Any integer splits; whether
// the result is a well-formed node is up to the caller.
func Split(w *big.Int) (op, left, right *big.Int) {
	op, rest := pairing.Decode(w)
	left, right = pairing.Decode(rest)
	return op, left, right
}

// Var returns the variable identifier id.
func Var(id int64) *big.Int { return big.NewInt(id) }

func Imp(ph, ps *big.Int) *big.Int { return Build(OpImp, ph, ps) }

// Not duplicates its operand into both fields.
func Not(ph *big.Int) *big.Int { return Build(OpNot, ph, ph) }

func All(x, ph *big.Int) *big.Int { return Build(OpAll, ph, x) }

func Eq(x, y *big.Int) *big.Int { return Build(OpEq, x, y) }

func El(x, y *big.Int) *big.Int { return Build(OpEl, x, y) }

// And is ¬(ph → ¬ps).
func And(ph, ps *big.Int) *big.Int { return Not(Imp(ph, Not(ps))) }

// Ex is ¬∀x ¬ph.
func Ex(x, ph *big.Int) *big.Int { return Not(All(x, Not(ph))) }

// Iff is (ph → ps) ∧ (ps → ph).
func Iff(ph, ps *big.Int) *big.Int { return And(Imp(ph, ps), Imp(ps, ph)) }

// Target is ¬(v0 = v0), the statement the search tries to derive.
func Target() *big.Int {
	return Not(Eq(Var(0), Var(0)))
}
