package rangeproof

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/cbor"
	"github.com/privacybydesign/zkrange/zkproof"
)

// ProofInts is the number of integers in the flat encoding of a proof.
const ProofInts = 22

// Ints returns the proof as a flat list of integers in this field order:
//
//	0-3    cPrime, cPrime1, cPrime2, cPrime3
//	4-8    Square3: F, C, D, D1, D2
//	9-13   Square4: F, C, D, D1, D2
//	14-17  Equality: C, D, D1, D2
//	18-21  u, v, x, y
func (p *Proof) Ints() []*big.Int {
	return []*big.Int{
		p.CPrime, p.CPrime1, p.CPrime2, p.CPrime3,
		p.Square3.F, p.Square3.Equality.C, p.Square3.Equality.D, p.Square3.Equality.D1, p.Square3.Equality.D2,
		p.Square4.F, p.Square4.Equality.C, p.Square4.Equality.D, p.Square4.Equality.D1, p.Square4.Equality.D2,
		p.Equality.C, p.Equality.D, p.Equality.D1, p.Equality.D2,
		p.U, p.V, p.X, p.Y,
	}
}

// ProofFromInts is the inverse of Proof.Ints.
func ProofFromInts(ints []*big.Int) (*Proof, error) {
	if len(ints) != ProofInts {
		return nil, errors.Errorf("expected %d integers, got %d", ProofInts, len(ints))
	}
	for i, x := range ints {
		if x == nil {
			return nil, errors.Errorf("integer %d missing", i)
		}
	}
	square := func(i []*big.Int) zkproof.SquareProof {
		return zkproof.SquareProof{
			F:        i[0],
			Equality: zkproof.EqualityProof{C: i[1], D: i[2], D1: i[3], D2: i[4]},
		}
	}
	return &Proof{
		CPrime:   ints[0],
		CPrime1:  ints[1],
		CPrime2:  ints[2],
		CPrime3:  ints[3],
		Square3:  square(ints[4:9]),
		Square4:  square(ints[9:14]),
		Equality: zkproof.EqualityProof{C: ints[14], D: ints[15], D1: ints[16], D2: ints[17]},
		U:        ints[18],
		V:        ints[19],
		X:        ints[20],
		Y:        ints[21],
	}, nil
}

// Bytes returns the deterministic CBOR encoding of the proof.
func (p *Proof) Bytes() ([]byte, error) {
	return cbor.Marshal(p)
}

// ParseProof decodes a proof from its CBOR encoding.
func ParseProof(bts []byte) (*Proof, error) {
	var p Proof
	if err := cbor.Unmarshal(bts, &p); err != nil {
		return nil, errors.WrapPrefix(err, "failed to decode range proof", 0)
	}
	return &p, nil
}

// Fingerprint identifies the proof by the multihash of its CBOR encoding.
func (p *Proof) Fingerprint() (string, error) {
	return cbor.Fingerprint(p)
}
