package main

import (
	"math/big"

	"github.com/rfielding/zfsearch/wff"
)

// sample is a hand-built (claim, witness) pair that verifies.
type sample struct {
	Name    string
	Claim   *big.Int
	Witness *big.Int
}

var zero = new(big.Int)

// identityProof derives ph → ph in five steps:
//
//  1. ph → ((ph → ph) → ph)                                     ax-1
//  2. (ph → ((ph → ph) → ph)) → ((ph → (ph → ph)) → (ph → ph))  ax-2
//  3. (ph → (ph → ph)) → (ph → ph)                               mp 1, 2
//  4. ph → (ph → ph)                                             ax-1
//  5. ph → ph                                                    mp 4, 3
func identityProof(ph *big.Int) sample {
	phph := wff.Imp(ph, ph)
	phImp := wff.Imp(ph, phph)

	s1 := wff.Witness(wff.RuleAx1, ph, phph, zero, zero)
	f1 := wff.Imp(ph, wff.Imp(phph, ph))
	s2 := wff.Witness(wff.RuleAx2, ph, phph, ph, zero)
	s3 := wff.Witness(wff.RuleMP, f1, wff.Imp(phImp, phph), s2, s1)
	s4 := wff.Witness(wff.RuleAx1, ph, ph, zero, zero)
	s5 := wff.Witness(wff.RuleMP, phImp, phph, s3, s4)
	return sample{Name: "identity", Claim: phph, Witness: s5}
}

// generalize wraps a proof of s.Claim in gen over x.
func generalize(s sample, x *big.Int) sample {
	return sample{
		Name:    "gen " + s.Name,
		Claim:   wff.All(x, s.Claim),
		Witness: wff.Witness(wff.RuleGen, s.Claim, x, s.Witness, zero),
	}
}

func samples() []sample {
	v0, v1, v2 := wff.Var(0), wff.Var(1), wff.Var(2)
	id := identityProof(wff.Eq(v0, v1))
	el := wff.El(v0, v1)
	return []sample{
		id,
		generalize(id, v2),
		{
			Name:    "equality",
			Claim:   wff.Imp(wff.Eq(v0, v1), wff.Imp(wff.Eq(v0, v2), wff.Eq(v1, v2))),
			Witness: wff.Witness(wff.RuleAx8, v0, v1, v2, zero),
		},
		{
			Name:    "vacuous quantifier",
			Claim:   wff.Imp(el, wff.All(v2, el)),
			Witness: wff.Witness(wff.RuleAx17, v2, el, zero, zero),
		},
		{
			Name:    "distinct variables",
			Claim:   wff.Not(wff.All(v0, wff.Eq(v0, v1))),
			Witness: wff.Witness(wff.RuleDist, v0, v1, zero, zero),
		},
		// The first candidate index that proves anything at all.
		{
			Name:    "candidate 80",
			Claim:   wff.Ex(v0, wff.Eq(v0, v1)),
			Witness: big.NewInt(80),
		},
	}
}
