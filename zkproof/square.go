package zkproof

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/internal/common"
)

// SquareProof shows that y = g^(x^2) * h^r (mod N) commits to a square. It consists of
// an auxiliary commitment F = g^x * h^r' and an equality proof that F (in bases g, h)
// and y (in bases F, h) hide the same x.
type SquareProof struct {
	F        *big.Int      `json:"F"`
	Equality EqualityProof `json:"equality"`
}

// KeyBits bounds the bit length of commitment keys modulo n.
func KeyBits(n *big.Int) int {
	return n.BitLen() + commitment.KeySecurity
}

// ProveSquare proves that g^(x^2) * h^r (mod n) commits to a square. The public bounds
// xBits and rBits cover the bit lengths of x and r.
func ProveSquare(rnd io.Reader, n, g, h, x, r *big.Int, xBits, rBits int) (*SquareProof, error) {
	rPrime, err := commitment.GenerateKey(rnd, n)
	if err != nil {
		return nil, err
	}
	F, err := common.MultiExp([]*big.Int{g, h}, []*big.Int{x, rPrime}, n)
	if err != nil {
		return nil, errors.Errorf("failed to compute square proof commitment: %w", err)
	}

	// y = F^x * h^(r - x*r')
	r2 := new(big.Int).Mul(x, rPrime)
	r2.Sub(r, r2)
	bits := SecretBits{X: xBits, R1: KeyBits(n), R2: max(rBits, xBits+KeyBits(n)) + 1}
	el, err := ProveEquality(rnd, n, g, F, h, h, x, rPrime, r2, bits)
	if err != nil {
		return nil, err
	}
	return &SquareProof{F: F, Equality: *el}, nil
}

// VerifySquare checks a proof that y commits to a square in bases g and h.
func VerifySquare(n, g, h, y *big.Int, proof *SquareProof) error {
	if proof == nil || proof.F == nil {
		return &ProofError{Proof: "square", Kind: ErrIncomplete}
	}
	err := VerifyEquality(n, g, proof.F, h, h, proof.F, y, &proof.Equality)
	if err == nil {
		return nil
	}
	if perr, ok := err.(*ProofError); ok {
		return &ProofError{Proof: "square", Kind: perr.Kind, Err: err}
	}
	return err
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
