package verifier

import (
	"math/big"

	"github.com/rfielding/zfsearch/pairing"
)

// worklist is the Machine's working stack. It sees the same pushes and pops,
// in the same order, as a pairing.Stack would, but a push does not re-encode
// everything beneath it.
type worklist []*big.Int

func (w *worklist) push(v *big.Int) { *w = append(*w, v) }

func (w *worklist) pop() *big.Int {
	n := len(*w)
	if n == 0 {
		panic(pairing.ErrUnderflow)
	}
	v := (*w)[n-1]
	(*w)[n-1] = nil
	*w = (*w)[:n-1]
	return v
}

func (w worklist) peek() *big.Int {
	if len(w) == 0 {
		panic(pairing.ErrUnderflow)
	}
	return w[len(w)-1]
}

// dup pushes the top again. Values are never mutated once pushed, so both
// entries share one *big.Int.
func (w *worklist) dup() { w.push(w.peek()) }

func (w *worklist) reset() {
	clear(*w)
	*w = (*w)[:0]
}
