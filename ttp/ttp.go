// Package ttp implements the trusted third party of the range proof scheme. The third
// party (an employer or a government, say) knows the secret value of a prover, commits
// to it and publishes a signed copy of the commitment. It hands the opening to the
// prover, who then proves statements about the committed value with package rangeproof.
package ttp

import (
	"crypto/ecdsa"
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/group"
	"github.com/privacybydesign/zkrange/signed"
)

var ErrFingerprintMismatch = errors.New("publication fingerprint does not match commitment")

// Message is sent by the third party to the prover. Its commitment is public; the
// value and randomizer are only known to the prover and the third party.
type Message struct {
	commitment.Opening
}

// NewMessage commits to secret in grp.
func NewMessage(rnd io.Reader, grp *group.Group, secret *big.Int) (*Message, error) {
	opening, err := commitment.NewOpening(rnd, grp, secret)
	if err != nil {
		return nil, err
	}
	return &Message{Opening: *opening}, nil
}

// Generate generates a fresh group with the given parameters and commits to secret in it.
func Generate(rnd io.Reader, params group.Parameters, secret *big.Int) (*Message, error) {
	gen := group.NewGenerator(params)
	gen.Rand = rnd
	grp, err := gen.Generate()
	if err != nil {
		return nil, errors.Errorf("failed to generate group: %w", err)
	}
	return NewMessage(rnd, grp, secret)
}

// Publication is the signed statement through which the third party publishes a commitment.
type Publication struct {
	Commitment  *commitment.Commitment `json:"commitment"`
	Fingerprint string                 `json:"fingerprint"`
}

// Publish signs the commitment with the key of the third party.
func Publish(rnd io.Reader, sk *ecdsa.PrivateKey, c *commitment.Commitment) (signed.Message, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	fp, err := c.Fingerprint()
	if err != nil {
		return nil, err
	}
	return signed.MarshalSign(rnd, sk, &Publication{Commitment: c, Fingerprint: fp})
}

// ReadPublication verifies a publication against the public key of the third party and
// returns the published commitment.
func ReadPublication(pk *ecdsa.PublicKey, bts signed.Message) (*Publication, error) {
	var pub Publication
	if err := signed.UnmarshalVerify(pk, bts, &pub); err != nil {
		return nil, errors.Errorf("failed to verify publication: %w", err)
	}
	if err := pub.Commitment.Validate(); err != nil {
		return nil, err
	}
	fp, err := pub.Commitment.Fingerprint()
	if err != nil {
		return nil, err
	}
	if fp != pub.Fingerprint {
		return nil, ErrFingerprintMismatch
	}
	return &pub, nil
}
