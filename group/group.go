// Package group implements the hidden-order groups of Fujisaki and Okamoto that the
// commitments and proofs of this module live in: the subgroup of quadratic residues
// modulo N = P*Q for safe primes P and Q, together with two generators G and H whose
// relative discrete logarithm is unknown to everyone but the generating party.
package group

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/cbor"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.StandardLogger()

var ErrInvalidGroup = errors.New("invalid group")

// Group is a hidden-order group with modulus N and generators G and H. The factorization
// of N and log_G(H) are discarded after generation.
type Group struct {
	N *big.Int `json:"n"`
	G *big.Int `json:"g"`
	H *big.Int `json:"h"`
}

// New returns the group with the given modulus and generators, after checking that they
// are well formed.
func New(n, g, h *big.Int) (*Group, error) {
	grp := &Group{N: n, G: g, H: h}
	if err := grp.Validate(); err != nil {
		return nil, err
	}
	return grp, nil
}

// Validate checks that N is an odd integer larger than one and that G and H are units
// modulo N other than 1. It cannot check that N is a product of safe primes.
func (grp *Group) Validate() error {
	if grp == nil || grp.N == nil || grp.G == nil || grp.H == nil {
		return errors.Errorf("%w: missing fields", ErrInvalidGroup)
	}
	if grp.N.Cmp(big.NewInt(3)) < 0 || grp.N.Bit(0) != 1 {
		return errors.Errorf("%w: modulus must be odd and at least 3", ErrInvalidGroup)
	}
	if !grp.IsUnit(grp.G) || grp.G.Cmp(big.NewInt(1)) == 0 {
		return errors.Errorf("%w: g is not a generator", ErrInvalidGroup)
	}
	if !grp.IsUnit(grp.H) || grp.H.Cmp(big.NewInt(1)) == 0 {
		return errors.Errorf("%w: h is not a generator", ErrInvalidGroup)
	}
	return nil
}

// IsUnit reports whether 0 < x < N and gcd(x, N) = 1.
func (grp *Group) IsUnit(x *big.Int) bool {
	if x == nil || x.Sign() <= 0 || x.Cmp(grp.N) >= 0 {
		return false
	}
	return new(big.Int).GCD(nil, nil, x, grp.N).Cmp(big.NewInt(1)) == 0
}

// Equal reports whether both groups have the same modulus and generators.
func (grp *Group) Equal(other *Group) bool {
	if grp == nil || other == nil {
		return grp == other
	}
	return grp.N.Cmp(other.N) == 0 && grp.G.Cmp(other.G) == 0 && grp.H.Cmp(other.H) == 0
}

// Fingerprint identifies the group by the multihash of its CBOR encoding.
func (grp *Group) Fingerprint() (string, error) {
	return cbor.Fingerprint(grp)
}
