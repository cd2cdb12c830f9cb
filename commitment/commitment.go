// Package commitment implements Fujisaki-Okamoto commitments g^m * h^r mod N over the
// hidden-order groups of package group.
//
// Fujisaki, E., & Okamoto, T. (1997). Statistical zero knowledge protocols to prove
// modular polynomial relations. In Advances in Cryptology, CRYPTO '97.
package commitment

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/cbor"
	"github.com/privacybydesign/zkrange/group"
	"github.com/privacybydesign/zkrange/internal/common"
)

// KeySecurity is the security parameter s: keys are drawn from [-(2^s*N-1), 2^s*N-1],
// which statistically hides the committed value.
const KeySecurity = 552

var (
	ErrInvalidCommitment = errors.New("invalid commitment")
	ErrOpeningMismatch   = errors.New("opening does not match commitment")
)

// Commitment to a secret value in a group.
type Commitment struct {
	Group *group.Group `json:"group"`
	Value *big.Int     `json:"value"`
}

// Commit computes the commitment g^m * h^r mod N. Negative m or r are allowed.
func Commit(grp *group.Group, m, r *big.Int) (*Commitment, error) {
	if err := grp.Validate(); err != nil {
		return nil, err
	}
	value, err := common.MultiExp([]*big.Int{grp.G, grp.H}, []*big.Int{m, r}, grp.N)
	if err != nil {
		return nil, errors.Errorf("failed to compute commitment: %w", err)
	}
	return &Commitment{Group: grp, Value: value}, nil
}

// GenerateKey draws a commitment key uniformly from [-(2^s*N-1), 2^s*N-1] with s = KeySecurity.
func GenerateKey(rnd io.Reader, n *big.Int) (*big.Int, error) {
	bound := new(big.Int).Lsh(n, KeySecurity)
	return common.RandomSymmetric(rnd, bound)
}

// Validate checks that the commitment has a valid group and that its value is a unit
// of that group.
func (c *Commitment) Validate() error {
	if c == nil || c.Value == nil {
		return errors.Errorf("%w: missing fields", ErrInvalidCommitment)
	}
	if err := c.Group.Validate(); err != nil {
		return errors.Errorf("%w: %v", ErrInvalidCommitment, err)
	}
	if !c.Group.IsUnit(c.Value) {
		return errors.Errorf("%w: value is not a unit modulo N", ErrInvalidCommitment)
	}
	return nil
}

// Fingerprint identifies the commitment by the multihash of its CBOR encoding.
func (c *Commitment) Fingerprint() (string, error) {
	return cbor.Fingerprint(c)
}

// Opening holds a commitment together with the secret value x and randomizer y it
// was computed from.
type Opening struct {
	Commitment *Commitment `json:"commitment"`
	Value      *big.Int    `json:"value"`
	Randomizer *big.Int    `json:"randomizer"`
}

// NewOpening commits to value in grp using a fresh key drawn from rnd.
func NewOpening(rnd io.Reader, grp *group.Group, value *big.Int) (*Opening, error) {
	if err := grp.Validate(); err != nil {
		return nil, err
	}
	key, err := GenerateKey(rnd, grp.N)
	if err != nil {
		return nil, err
	}
	c, err := Commit(grp, value, key)
	if err != nil {
		return nil, err
	}
	return &Opening{Commitment: c, Value: value, Randomizer: key}, nil
}

// Verify checks that g^x * h^y mod N equals the commitment value.
func (o *Opening) Verify() error {
	if o == nil || o.Value == nil || o.Randomizer == nil {
		return errors.Errorf("%w: missing fields", ErrOpeningMismatch)
	}
	if err := o.Commitment.Validate(); err != nil {
		return err
	}
	c, err := Commit(o.Commitment.Group, o.Value, o.Randomizer)
	if err != nil {
		return err
	}
	if c.Value.Cmp(o.Commitment.Value) != 0 {
		return ErrOpeningMismatch
	}
	return nil
}
