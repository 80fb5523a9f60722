// Package pairing implements the Cantor pairing bijection between pairs of
// non-negative integers and single non-negative integers, and the
// integer-encoded stack built on top of it.
//
// All values are *big.Int and are treated as immutable: every function
// allocates its result and never writes through its arguments.
package pairing

import "math/big"

var (
	one   = big.NewInt(1)
	eight = big.NewInt(8)
)

// Triangular returns T(n) = n(n+1)/2.
func Triangular(n *big.Int) *big.Int {
	t := new(big.Int).Add(n, one)
	t.Mul(t, n)
	return t.Rsh(t, 1)
}

// Encode returns b + T(a+b).
func Encode(a, b *big.Int) *big.Int {
	s := new(big.Int).Add(a, b)
	v := Triangular(s)
	return v.Add(v, b)
}

// EncodeInt is Encode for small operands.
func EncodeInt(a, b int64) *big.Int {
	return Encode(big.NewInt(a), big.NewInt(b))
}

// Decode inverts Encode. The bracket index n with T(n) <= v < T(n+1) is
// floor((isqrt(8v+1) - 1) / 2).
func Decode(v *big.Int) (a, b *big.Int) {
	n := new(big.Int).Mul(v, eight)
	n.Add(n, one)
	n.Sqrt(n)
	n.Sub(n, one)
	n.Rsh(n, 1)
	return split(v, n)
}

// DecodeLinear inverts Encode by walking triangular brackets upward until the
// cumulative sum first exceeds v. It is exponentially slower than Decode on
// large inputs and exists as the reference definition.
func DecodeLinear(v *big.Int) (a, b *big.Int) {
	n := new(big.Int)
	next := big.NewInt(1) // T(n+1)
	for next.Cmp(v) <= 0 {
		n.Add(n, one)
		next.Add(next, n)
		next.Add(next, one)
	}
	return split(v, n)
}

func split(v, n *big.Int) (a, b *big.Int) {
	b = new(big.Int).Sub(v, Triangular(n))
	a = new(big.Int).Sub(n, b)
	return a, b
}

// First returns the first component of Decode(v).
func First(v *big.Int) *big.Int {
	a, _ := Decode(v)
	return a
}

// Second returns the second component of Decode(v).
func Second(v *big.Int) *big.Int {
	_, b := Decode(v)
	return b
}
