package zkrange

import (
	"crypto/rand"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/group"
	"github.com/privacybydesign/zkrange/rangeproof"
	"github.com/privacybydesign/zkrange/ttp"
)

// GenerateGroup generates a group using the default parameters for the given bit length,
// one of group.DefaultBitLengths.
func GenerateGroup(bitLength int) (*group.Group, error) {
	params, ok := group.DefaultParameters[bitLength]
	if !ok {
		return nil, errors.Errorf("no default parameters for bit length %d", bitLength)
	}
	return group.NewGenerator(params).Generate()
}

// NewTTPMessage commits to secret in grp.
func NewTTPMessage(grp *group.Group, secret *big.Int) (*ttp.Message, error) {
	return ttp.NewMessage(rand.Reader, grp, secret)
}

// ProveRange proves that the value committed to in msg lies in r.
func ProveRange(msg *ttp.Message, r rangeproof.ClosedRange) (*rangeproof.Proof, error) {
	if msg == nil {
		return nil, errors.Errorf("%w: no message", commitment.ErrInvalidCommitment)
	}
	return rangeproof.Prove(rand.Reader, &msg.Opening, r)
}

// VerifyRange checks that proof shows that the value committed to in c lies in r.
func VerifyRange(proof *rangeproof.Proof, c *commitment.Commitment, r rangeproof.ClosedRange) error {
	return rangeproof.Verify(proof, c, r)
}
