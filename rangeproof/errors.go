package rangeproof

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/group"
)

var (
	ErrEmptyRange        = errors.New("range is empty")
	ErrInvalidCommitment = commitment.ErrInvalidCommitment
	ErrInvalidGroup      = group.ErrInvalidGroup

	// ErrInvalidProof matches every *VerificationError.
	ErrInvalidProof = errors.New("invalid range proof")
	ErrIncomplete   = errors.New("proof is incomplete")
)

// Check identifies a verification step of a range proof.
type Check int

const (
	// CheckComplete fails when the proof lacks fields.
	CheckComplete Check = iota
	// CheckEquality verifies that cPrime commits to b-m+1 in base c1.
	CheckEquality
	// CheckSquare verifies that cPrime1*cPrime2*cPrime3 commits to a square in base cPrime.
	CheckSquare
	// CheckDecomposition verifies that cPrime3 commits to a square.
	CheckDecomposition
	// CheckFirstIdentity verifies cPrime1^s * cPrime2 * cPrime3 = g^x * h^u.
	CheckFirstIdentity
	// CheckSecondIdentity verifies cPrime1 * cPrime2^t * cPrime3 = g^y * h^v.
	CheckSecondIdentity
	// CheckXPositive verifies x > 0.
	CheckXPositive
	// CheckYPositive verifies y > 0.
	CheckYPositive
)

var checkNames = map[Check]string{
	CheckComplete:       "complete",
	CheckEquality:       "equality",
	CheckSquare:         "square",
	CheckDecomposition:  "decomposition",
	CheckFirstIdentity:  "first identity",
	CheckSecondIdentity: "second identity",
	CheckXPositive:      "x positive",
	CheckYPositive:      "y positive",
}

func (c Check) String() string {
	if name, ok := checkNames[c]; ok {
		return name
	}
	return fmt.Sprintf("check %d", int(c))
}

// VerificationError reports which check of a range proof failed. Err holds the cause,
// a *zkproof.ProofError for the equality and square checks.
type VerificationError struct {
	Check Check
	Err   error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("range proof check %q failed", e.Check)
	}
	return fmt.Sprintf("range proof check %q failed: %v", e.Check, e.Err)
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrInvalidProof
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
