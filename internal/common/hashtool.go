package common

import (
	"crypto/sha256"
	"encoding/asn1"

	"github.com/privacybydesign/zkrange/big"

	gobig "math/big"
)

// HashBits is the size in bits of the integers returned by HashCommit.
const HashBits = 256

// HashCommit computes the sha256 hash over the asn1 representation of a domain
// tag, the number of values and the values themselves, and returns the positive
// big integer represented by that hash. Distinct domains never collide on equal
// value lists.
func HashCommit(values []*big.Int, domain string) *big.Int {
	tmp := make([]interface{}, len(values)+2)
	tmp[0] = domain
	tmp[1] = gobig.NewInt(int64(len(values)))
	for i, v := range values {
		if v == nil {
			// a boolean never encodes like an integer
			tmp[i+2] = false
			continue
		}
		tmp[i+2] = v.Go()
	}
	r, err := asn1.Marshal(tmp)
	if err != nil {
		panic(err) // Marshal should never error, so panic if it does
	}

	sha := sha256.Sum256(r)
	return new(big.Int).SetBytes(sha[:])
}
