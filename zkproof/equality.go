package zkproof

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"
)

const (
	// K2Bits is the statistical security parameter of the blinding: randomizers exceed
	// the blinded value by this many bits (on top of the challenge size).
	K2Bits = 2048

	equalityDomain = "zkrange.equality"
)

// EqualityProof shows that y1 = g1^x * h1^r1 and y2 = g2^x * h2^r2 (mod N) commit to the
// same x, without revealing x, r1 or r2.
type EqualityProof struct {
	C  *big.Int `json:"c"`
	D  *big.Int `json:"D"`
	D1 *big.Int `json:"D1"`
	D2 *big.Int `json:"D2"`
}

// equalityStatement returns the two representations proved by an equality proof,
// sharing the secret x.
func equalityStatement() []RepresentationProofStructure {
	return []RepresentationProofStructure{
		{
			Lhs: []LhsContribution{{Base: "y1", Power: big.NewInt(1)}},
			Rhs: []RhsContribution{{Base: "g1", Secret: "x", Power: 1}, {Base: "h1", Secret: "r1", Power: 1}},
		},
		{
			Lhs: []LhsContribution{{Base: "y2", Power: big.NewInt(1)}},
			Rhs: []RhsContribution{{Base: "g2", Secret: "x", Power: 1}, {Base: "h2", Secret: "r2", Power: 1}},
		},
	}
}

func equalityChallenge(n, g1, g2, h1, h2, y1, y2 *big.Int, commitments []*big.Int) *big.Int {
	return common.HashCommit(append([]*big.Int{n, g1, h1, g2, h2, y1, y2}, commitments...), equalityDomain)
}

// SecretBits bounds the bit lengths of the secrets of an equality proof. Each blinding
// is sized by its bound, so the bounds must be computed from public values only.
type SecretBits struct {
	X, R1, R2 int
}

func (b SecretBits) of(name string) int {
	switch name {
	case "x":
		return b.X
	case "r1":
		return b.R1
	default:
		return b.R2
	}
}

// randomizer draws a blinding value for secret from [0, 2^(K2Bits + HashBits + bound)).
// A secret exceeding its bound only occurs for false statements; its own size is used then.
func randomizer(rnd io.Reader, secret *big.Int, bound int) (*big.Int, error) {
	if l := secret.BitLen(); l > bound {
		bound = l
	}
	return common.RandomBigInt(rnd, uint(K2Bits+common.HashBits+bound))
}

// ProveEquality proves that g1^x * h1^r1 and g2^x * h2^r2 (mod n) hide the same x.
// All exponents may be negative; bits bounds their absolute values.
func ProveEquality(rnd io.Reader, n, g1, g2, h1, h2, x, r1, r2 *big.Int, bits SecretBits) (*EqualityProof, error) {
	bases := BaseMap{"g1": g1, "g2": g2, "h1": h1, "h2": h2}
	y1, y2 := new(big.Int), new(big.Int)
	if err := evaluate(y1, n, bases, "g1", x, "h1", r1); err != nil {
		return nil, err
	}
	if err := evaluate(y2, n, bases, "g2", x, "h2", r2); err != nil {
		return nil, err
	}
	targets := BaseMap{"y1": y1, "y2": y2}
	lookup := NewBaseMerge(bases, targets)

	secrets := &secretMap{
		secrets:     map[string]*big.Int{"x": x, "r1": r1, "r2": r2},
		randomizers: map[string]*big.Int{},
	}
	for _, name := range []string{"x", "r1", "r2"} {
		blind, err := randomizer(rnd, secrets.Secret(name), bits.of(name))
		if err != nil {
			return nil, err
		}
		secrets.randomizers[name] = blind
	}

	var commitments []*big.Int
	var err error
	for _, s := range equalityStatement() {
		if commitments, err = s.CommitmentsFromSecrets(n, commitments, &lookup, secrets); err != nil {
			return nil, errors.Errorf("failed to compute equality proof commitments: %w", err)
		}
	}

	c := equalityChallenge(n, g1, g2, h1, h2, y1, y2, commitments)
	response := func(name string) *big.Int {
		r := new(big.Int).Mul(c, secrets.Secret(name))
		return r.Add(r, secrets.Randomizer(name))
	}
	return &EqualityProof{
		C:  c,
		D:  response("x"),
		D1: response("r1"),
		D2: response("r2"),
	}, nil
}

func evaluate(ret, n *big.Int, bases BaseLookup, g string, x *big.Int, h string, r *big.Int) error {
	var gx, hr big.Int
	if err := bases.Exp(&gx, g, x, n); err != nil {
		return err
	}
	if err := bases.Exp(&hr, h, r, n); err != nil {
		return err
	}
	ret.Mul(&gx, &hr).Mod(ret, n)
	return nil
}

// VerifyEquality checks an equality proof that y1 = g1^x * h1^r1 and y2 = g2^x * h2^r2 (mod n)
// for some common x. Failures are reported as a *ProofError.
func VerifyEquality(n, g1, g2, h1, h2, y1, y2 *big.Int, proof *EqualityProof) error {
	if proof == nil || proof.C == nil || proof.D == nil || proof.D1 == nil || proof.D2 == nil {
		return &ProofError{Proof: "equality", Kind: ErrIncomplete}
	}
	if n == nil || g1 == nil || g2 == nil || h1 == nil || h2 == nil || y1 == nil || y2 == nil {
		return &ProofError{Proof: "equality", Kind: ErrIncomplete}
	}
	if _, ok := common.ModInverse(y1, n); !ok {
		return &ProofError{Proof: "equality", Kind: ErrNotInvertible, Err: errors.New("y1")}
	}
	if _, ok := common.ModInverse(y2, n); !ok {
		return &ProofError{Proof: "equality", Kind: ErrNotInvertible, Err: errors.New("y2")}
	}

	lookup := NewBaseMerge(
		BaseMap{"g1": g1, "g2": g2, "h1": h1, "h2": h2},
		BaseMap{"y1": y1, "y2": y2},
	)
	results := proofMap{"x": proof.D, "r1": proof.D1, "r2": proof.D2}

	var commitments []*big.Int
	var err error
	for _, s := range equalityStatement() {
		if commitments, err = s.CommitmentsFromProof(n, commitments, proof.C, &lookup, results); err != nil {
			return &ProofError{Proof: "equality", Kind: ErrNotInvertible, Err: err}
		}
	}

	if equalityChallenge(n, g1, g2, h1, h2, y1, y2, commitments).Cmp(proof.C) != 0 {
		return &ProofError{Proof: "equality", Kind: ErrChallengeMismatch}
	}
	return nil
}
