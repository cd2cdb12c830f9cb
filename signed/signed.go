// Package signed contains ECDSA signing helpers, and functions for marshaling
// structs to signed CBOR bytes and for verifying and unmarshaling them again. The
// trusted third party uses it to publish commitments.
package signed

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"encoding/asn1"
	"io"
	"math/big"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/cbor"
)

var ErrInvalidSignature = errors.New("ecdsa signature was invalid")

type (
	// Message is a signed message, created and signed by MarshalSign, and verified and parsed
	// by UnmarshalVerify.
	Message []byte

	// message-signature tuple
	tuple struct {
		Msg, Sig []byte
	}
)

// GenerateKey returns a new P-256 key pair.
func GenerateKey(rnd io.Reader) (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rnd)
}

// Sign signs the SHA-256 hash of bts, returning the ASN.1 encoded (r, s) pair.
func Sign(rnd io.Reader, sk *ecdsa.PrivateKey, bts []byte) ([]byte, error) {
	hash := sha256.Sum256(bts)
	r, s, err := ecdsa.Sign(rnd, sk, hash[:])
	if err != nil {
		return nil, err
	}
	return asn1.Marshal([]*big.Int{r, s})
}

func Verify(pk *ecdsa.PublicKey, bts []byte, signature []byte) error {
	var ints []*big.Int
	if _, err := asn1.Unmarshal(signature, &ints); err != nil {
		return errors.WrapPrefix(err, "failed to decode signature", 0)
	}
	if len(ints) != 2 {
		return errors.Errorf("%w: expected 2 integers, got %d", ErrInvalidSignature, len(ints))
	}
	hash := sha256.Sum256(bts)
	if !ecdsa.Verify(pk, hash[:], ints[0], ints[1]) {
		return ErrInvalidSignature
	}
	return nil
}

// MarshalSign marshals the message to CBOR, signs the resulting bytes, and returns
// signed message bytes suitable for verifying with UnmarshalVerify.
func MarshalSign(rnd io.Reader, sk *ecdsa.PrivateKey, message interface{}) (Message, error) {
	bts, err := cbor.Marshal(message)
	if err != nil {
		return nil, err
	}
	signature, err := Sign(rnd, sk, bts)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&tuple{bts, signature})
}

// UnmarshalVerify verifies the signature of a Message created by MarshalSign, and
// unmarshals the message bytes into dst.
func UnmarshalVerify(pk *ecdsa.PublicKey, signed Message, dst interface{}) error {
	var tmp tuple
	if err := cbor.Unmarshal(signed, &tmp); err != nil {
		return err
	}
	if err := Verify(pk, tmp.Msg, tmp.Sig); err != nil {
		return err
	}
	return cbor.Unmarshal(tmp.Msg, dst)
}
