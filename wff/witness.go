package wff

import (
	"math/big"

	"github.com/rfielding/zfsearch/pairing"
)

// SlotIndex names one of the four metavariable slots of a witness.
type SlotIndex int

const (
	SlotA SlotIndex = iota
	SlotB
	SlotC
	SlotD
)

func (s SlotIndex) String() string {
	return string(rune('A' + int(s)))
}

// Witness returns Encode(rule, Encode(a, Encode(b, Encode(c, d)))).
func Witness(rule Rule, a, b, c, d *big.Int) *big.Int {
	tail := pairing.Encode(c, d)
	tail = pairing.Encode(b, tail)
	tail = pairing.Encode(a, tail)
	return pairing.Encode(rule.Int(), tail)
}

// RuleOf returns the raw rule code of w.
func RuleOf(w *big.Int) *big.Int {
	return pairing.First(w)
}

// Slot extracts a metavariable: strip the rule code, take "second" once per
// preceding slot, then "first". D is the tail of the innermost pair.
func Slot(w *big.Int, s SlotIndex) *big.Int {
	v := pairing.Second(w)
	for i := SlotA; i < s; i++ {
		v = pairing.Second(v)
	}
	if s == SlotD {
		return v
	}
	return pairing.First(v)
}

// Slots returns all four slots in order.
func Slots(w *big.Int) [4]*big.Int {
	var out [4]*big.Int
	for s := SlotA; s <= SlotD; s++ {
		out[s] = Slot(w, s)
	}
	return out
}
