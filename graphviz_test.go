package main

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rfielding/zfsearch/wff"
)

func TestProofGraphviz(t *testing.T) {
	id := identityProof(wff.Eq(wff.Var(0), wff.Var(1)))
	dot := ProofGraphviz(wff.ParseWitness(id.Witness))

	if !strings.HasPrefix(dot, "digraph Proof {") {
		t.Error("Expected digraph declaration")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("Expected closing brace")
	}

	// mp(mp(ax-2, ax-1), ax-1), numbered depth first.
	for _, want := range []string{
		`n0 [label="ax-mp\nA: `,
		`n1 [label="ax-mp\n`,
		`n2 [label="ax-2\n`,
		`n3 [label="ax-1\nA: (v0 = v1)\nB: ((v0 = v1) → (v0 = v1))"]`,
		`n4 [label="ax-1\nA: (v0 = v1)\nB: (v0 = v1)"]`,
		`n0 -> n1 [label="C"]`,
		`n1 -> n2 [label="C"]`,
		`n1 -> n3 [label="D"]`,
		`n0 -> n4 [label="D"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("Expected %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n5") {
		t.Error("Expected exactly five witnesses")
	}
}

func TestProofGraphvizUnknownRule(t *testing.T) {
	dot := ProofGraphviz(wff.ParseWitness(big.NewInt(0)))

	if !strings.Contains(dot, `n0 [label="rule-0\nunrecognized"]`) {
		t.Errorf("Expected unrecognized node, got:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("Expected no edges")
	}
}

func TestDotEscape(t *testing.T) {
	got := dotEscape("a \"b\"\nc\\d")
	want := `a \"b\"\nc\\d`
	if got != want {
		t.Errorf("dotEscape = %q, want %q", got, want)
	}
}

func TestSaveGraphviz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.dot")
	p := wff.ParseWitness(big.NewInt(80))

	if err := SaveGraphviz(p, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != ProofGraphviz(p) {
		t.Error("Expected saved file to match rendered DOT")
	}
	if !strings.Contains(string(data), `ax-9\nA: v0\nB: v1`) {
		t.Errorf("Expected ax-9 slots in:\n%s", data)
	}
}
