package zkproof

import (
	"fmt"

	"github.com/go-errors/errors"
)

// Kinds of proof failures, matched with errors.Is against a *ProofError.
var (
	ErrIncomplete        = errors.New("proof is incomplete")
	ErrNotInvertible     = errors.New("proof element is not invertible")
	ErrChallengeMismatch = errors.New("challenge does not match")
)

// ProofError reports why an equality or square proof failed to verify. It never
// contains secret material.
type ProofError struct {
	// Proof names the failing proof kind, "equality" or "square".
	Proof string
	// Kind is one of ErrIncomplete, ErrNotInvertible or ErrChallengeMismatch.
	Kind error
	// Err is the underlying cause, which may be a nested *ProofError.
	Err error
}

func (e *ProofError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s proof: %v", e.Proof, e.Kind)
	}
	return fmt.Sprintf("%s proof: %v: %v", e.Proof, e.Kind, e.Err)
}

func (e *ProofError) Is(target error) bool {
	return target == e.Kind
}

func (e *ProofError) Unwrap() error {
	return e.Err
}
