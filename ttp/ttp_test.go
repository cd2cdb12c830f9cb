package ttp

import (
	"crypto/rand"
	"testing"

	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/group"
	"github.com/privacybydesign/zkrange/internal/common"
	"github.com/privacybydesign/zkrange/signed"
	"github.com/stretchr/testify/require"
)

func exampleGroup(t *testing.T) *group.Group {
	n, _ := new(big.Int).SetString("123763483659823661164839153854113", 10)
	g, _ := new(big.Int).SetString("9978076495933337078596144096749", 10)
	h, _ := new(big.Int).SetString("46959937887401751832025265468109", 10)
	grp, err := group.New(n, g, h)
	require.NoError(t, err)
	return grp
}

func testRand(t *testing.T) *common.CPRNG {
	var seed [32]byte
	copy(seed[:], "ttp")
	rng, err := common.NewCPRNG(&seed)
	require.NoError(t, err)
	return rng
}

func TestNewMessage(t *testing.T) {
	grp := exampleGroup(t)
	msg, err := NewMessage(testRand(t), grp, big.NewInt(50))
	require.NoError(t, err)
	require.NoError(t, msg.Verify())
	require.Equal(t, int64(50), msg.Value.Int64())

	bound := new(big.Int).Lsh(grp.N, commitment.KeySecurity)
	require.True(t, msg.Randomizer.CmpAbs(bound) < 0)

	msg.Value = big.NewInt(51)
	require.ErrorIs(t, msg.Verify(), commitment.ErrOpeningMismatch)
}

func TestNewMessageInvalidGroup(t *testing.T) {
	_, err := NewMessage(testRand(t), &group.Group{N: big.NewInt(15)}, big.NewInt(1))
	require.ErrorIs(t, err, group.ErrInvalidGroup)
}

func TestGenerate(t *testing.T) {
	msg, err := Generate(testRand(t), group.Parameters{BitLength: 64, Certainty: 20}, big.NewInt(-7))
	require.NoError(t, err)
	require.NoError(t, msg.Verify())
	require.NoError(t, msg.Commitment.Group.Validate())
	// P and Q have 63 bits each
	require.True(t, msg.Commitment.Group.N.BitLen() >= 125)

	_, err = Generate(testRand(t), group.Parameters{BitLength: 4}, big.NewInt(1))
	require.ErrorIs(t, err, group.ErrBitLengthTooSmall)
}

func TestPublication(t *testing.T) {
	sk, err := signed.GenerateKey(rand.Reader)
	require.NoError(t, err)
	msg, err := NewMessage(testRand(t), exampleGroup(t), big.NewInt(50))
	require.NoError(t, err)

	bts, err := Publish(rand.Reader, sk, msg.Commitment)
	require.NoError(t, err)

	pub, err := ReadPublication(&sk.PublicKey, bts)
	require.NoError(t, err)
	require.True(t, pub.Commitment.Group.Equal(msg.Commitment.Group))
	require.Zero(t, pub.Commitment.Value.Cmp(msg.Commitment.Value))
	fp, err := msg.Commitment.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp, pub.Fingerprint)

	other, err := signed.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, err = ReadPublication(&other.PublicKey, bts)
	require.ErrorIs(t, err, signed.ErrInvalidSignature)
}

func TestPublicationFingerprintMismatch(t *testing.T) {
	sk, err := signed.GenerateKey(rand.Reader)
	require.NoError(t, err)
	msg, err := NewMessage(testRand(t), exampleGroup(t), big.NewInt(50))
	require.NoError(t, err)

	bts, err := signed.MarshalSign(rand.Reader, sk, &Publication{Commitment: msg.Commitment, Fingerprint: "Qm"})
	require.NoError(t, err)
	_, err = ReadPublication(&sk.PublicKey, bts)
	require.ErrorIs(t, err, ErrFingerprintMismatch)
}

func TestPublishInvalidCommitment(t *testing.T) {
	sk, err := signed.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, err = Publish(rand.Reader, sk, &commitment.Commitment{Group: exampleGroup(t), Value: big.NewInt(0)})
	require.ErrorIs(t, err, commitment.ErrInvalidCommitment)
}
