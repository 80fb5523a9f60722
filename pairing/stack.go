package pairing

import (
	"errors"
	"math/big"
)

// ErrUnderflow is the panic value raised when popping an empty stack.
// A well-formed caller never does this, so it is not recoverable.
var ErrUnderflow = errors.New("pairing: pop from empty stack")

// Stack is a LIFO sequence of integers held as a single integer.
// The empty stack is 0; Push(v) replaces the value s with Encode(v, s).
//
// A Stack is a snapshot: copying the struct copies the stack.
type Stack struct {
	v *big.Int
}

// NewStack returns an empty stack.
func NewStack() Stack {
	return Stack{v: new(big.Int)}
}

// StackOf wraps an already-encoded stack value.
func StackOf(v *big.Int) Stack {
	return Stack{v: new(big.Int).Set(v)}
}

// Value returns the encoded stack.
func (s Stack) Value() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.v)
}

// Empty reports whether the stack holds no elements.
func (s Stack) Empty() bool {
	return s.v == nil || s.v.Sign() == 0
}

// Push puts v on top.
func (s *Stack) Push(v *big.Int) {
	s.v = Encode(v, s.Value())
}

// Pop removes and returns the top element.
func (s *Stack) Pop() *big.Int {
	if s.Empty() {
		panic(ErrUnderflow)
	}
	top, rest := Decode(s.v)
	s.v = rest
	return top
}

// Peek returns the top element without removing it.
func (s Stack) Peek() *big.Int {
	if s.Empty() {
		panic(ErrUnderflow)
	}
	return First(s.v)
}

// Dup pushes a second copy of the top element.
func (s *Stack) Dup() {
	s.Push(s.Peek())
}

// Len counts the elements by walking the chain.
func (s Stack) Len() int {
	n := 0
	for v := s.Value(); v.Sign() != 0; v = Second(v) {
		n++
	}
	return n
}
