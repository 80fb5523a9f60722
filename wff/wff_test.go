package wff

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSplitRoundTrip(t *testing.T) {
	fields := []int64{0, 1, 2, 7, 9, 1000}
	for op := OpImp; op <= OpEl; op++ {
		for _, l := range fields {
			for _, r := range fields {
				w := Build(op, big.NewInt(l), big.NewInt(r))
				gotOp, gotL, gotR := Split(w)
				assert.Equal(t, int64(op), gotOp.Int64())
				assert.Equal(t, l, gotL.Int64())
				assert.Equal(t, r, gotR.Int64())
			}
		}
	}
}

func TestTargetValue(t *testing.T) {
	// Eq(0,0) = Encode(4, 0) = 10; Not(10) = Encode(2, Encode(10, 10)).
	assert.Equal(t, int64(10), Eq(Var(0), Var(0)).Int64())
	assert.Equal(t, int64(24973), Target().Int64())
	assert.Equal(t, "¬(v0 = v0)", Format(Target()))
}

func TestNotDuplicatesOperand(t *testing.T) {
	ph := big.NewInt(42)
	op, l, r := Split(Not(ph))
	assert.Equal(t, int64(OpNot), op.Int64())
	assert.Equal(t, 0, l.Cmp(ph))
	assert.Equal(t, 0, r.Cmp(ph))
}

func TestAllFieldOrder(t *testing.T) {
	x, ph := Var(3), big.NewInt(99)
	_, l, r := Split(All(x, ph))
	assert.Equal(t, 0, l.Cmp(ph), "formula goes left")
	assert.Equal(t, 0, r.Cmp(x), "bound variable goes right")
}

func TestDerivedConnectives(t *testing.T) {
	ph, ps := El(Var(1), Var(2)), Eq(Var(3), Var(4))
	assert.Equal(t, 0, And(ph, ps).Cmp(Not(Imp(ph, Not(ps)))))
	assert.Equal(t, 0, Ex(Var(1), ph).Cmp(Not(All(Var(1), Not(ph)))))
	assert.Equal(t, 0, Iff(ph, ps).Cmp(And(Imp(ph, ps), Imp(ps, ph))))
}

func TestFormat(t *testing.T) {
	x, y, z := Var(0), Var(1), Var(2)
	tests := []struct {
		name string
		w    *big.Int
		want string
	}{
		{"atom", big.NewInt(7), "φ7"},
		{"zero", big.NewInt(0), "φ0"},
		{"imp", Imp(big.NewInt(7), big.NewInt(9)), "(φ7 → φ9)"},
		{"forall", All(x, Eq(x, y)), "∀v0 (v0 = v1)"},
		{"membership", El(y, z), "(v1 ∈ v2)"},
		{"and", And(El(x, y), El(y, z)), "((v0 ∈ v1) ∧ (v1 ∈ v2))"},
		{"exists", Ex(x, El(x, y)), "∃v0 (v0 ∈ v1)"},
		{"iff", Iff(El(x, y), El(x, z)), "((v0 ∈ v1) ↔ (v0 ∈ v2))"},
		{"plain not", Not(All(x, Eq(x, y))), "¬∀v0 (v0 = v1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.w))
		})
	}
}

func TestWitnessSlots(t *testing.T) {
	a, b, c, d := big.NewInt(7), big.NewInt(9), big.NewInt(11), big.NewInt(13)
	w := Witness(RuleAx2, a, b, c, d)

	assert.Equal(t, int64(RuleAx2), RuleOf(w).Int64())
	slots := Slots(w)
	assert.Equal(t, int64(7), slots[SlotA].Int64())
	assert.Equal(t, int64(9), slots[SlotB].Int64())
	assert.Equal(t, int64(11), slots[SlotC].Int64())
	assert.Equal(t, int64(13), slots[SlotD].Int64())
}

func TestWitnessUnusedSlotsAreZero(t *testing.T) {
	zero := new(big.Int)
	w := Witness(RuleAx1, big.NewInt(5), big.NewInt(6), zero, zero)
	assert.Equal(t, 0, Slot(w, SlotC).Sign())
	assert.Equal(t, 0, Slot(w, SlotD).Sign())
}

func TestEveryIntegerIsAWitness(t *testing.T) {
	for i := int64(0); i < 200; i++ {
		w := big.NewInt(i)
		s := Slots(w)
		back := Witness(Rule(RuleOf(w).Int64()), s[0], s[1], s[2], s[3])
		require.Equal(t, 0, back.Cmp(w), "index %d", i)
	}
}

func TestRuleCatalogue(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 22)

	names := map[string]bool{}
	for _, r := range rules {
		assert.True(t, r.Valid())
		info, ok := r.Info()
		require.True(t, ok)
		assert.False(t, names[info.Name], "duplicate name %s", info.Name)
		names[info.Name] = true
	}

	for _, code := range []int64{0, 23, 1 << 40} {
		_, ok := RuleFrom(big.NewInt(code))
		assert.False(t, ok, "code %d", code)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	_, ok := RuleFrom(huge)
	assert.False(t, ok)
}

func TestParseWitness(t *testing.T) {
	ph := Imp(big.NewInt(7), big.NewInt(9))
	inner := Witness(RuleAx1, ph, big.NewInt(9), new(big.Int), new(big.Int))
	outer := Witness(RuleGen, ph, Var(4), inner, new(big.Int))

	node := ParseWitness(outer)
	require.True(t, node.Known)
	assert.Equal(t, RuleGen, node.Rule)
	require.Len(t, node.Slots, 3)
	assert.Equal(t, "(φ7 → φ9)", node.Slots[0].String())
	assert.Equal(t, "v4", node.Slots[1].String())
	require.NotNil(t, node.Slots[2].Proof)
	assert.Equal(t, RuleAx1, node.Slots[2].Proof.Rule)

	text := node.String()
	assert.Contains(t, text, "ax-gen\n")
	assert.Contains(t, text, "    ax-1\n")
	assert.Contains(t, text, "  B: v4\n")
}

func TestParseWitnessUnknownRule(t *testing.T) {
	node := ParseWitness(big.NewInt(0))
	assert.False(t, node.Known)
	assert.Equal(t, "rule-0", node.Name())
	assert.Equal(t, "rule-0 (unrecognized)\n", node.String())
}
