package rangeproof_test

import (
	"encoding/json"
	"testing"

	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/group"
	"github.com/privacybydesign/zkrange/internal/common"
	"github.com/privacybydesign/zkrange/rangeproof"
	"github.com/privacybydesign/zkrange/zkproof"
	"github.com/stretchr/testify/assert"
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

func seeded(t *testing.T, b byte) *common.CPRNG {
	var seed [32]byte
	seed[1] = b
	rng, err := common.NewCPRNG(&seed)
	require.NoError(t, err)
	return rng
}

func newOpening(t *testing.T, value *big.Int) *commitment.Opening {
	o, err := commitment.NewOpening(seeded(t, 0xff), exampleGroup(t), value)
	require.NoError(t, err)
	return o
}

func closedRange(t *testing.T, lo, hi string) rangeproof.ClosedRange {
	r, err := rangeproof.ParseClosedRange(lo, hi)
	require.NoError(t, err)
	return r
}

func prove(t *testing.T, o *commitment.Opening, r rangeproof.ClosedRange) *rangeproof.Proof {
	proof, err := rangeproof.Prove(seeded(t, 1), o, r)
	require.NoError(t, err)
	return proof
}

func requireCheck(t *testing.T, err error, check rangeproof.Check) {
	require.ErrorIs(t, err, rangeproof.ErrInvalidProof)
	var verr *rangeproof.VerificationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, check, verr.Check, "%v", err)
}

func TestRangeProof(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)
	require.NoError(t, rangeproof.Verify(proof, o.Commitment, r))
}

func TestRangeProofOutOfRange(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	for _, r := range []rangeproof.ClosedRange{
		closedRange(t, "51", "100"),
		closedRange(t, "10", "49"),
		closedRange(t, "60", "100"),
		closedRange(t, "-100", "-1"),
	} {
		proof := prove(t, o, r)
		requireCheck(t, rangeproof.Verify(proof, o.Commitment, r), rangeproof.CheckXPositive)
	}
}

func TestRangeProofBounds(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	for _, r := range []rangeproof.ClosedRange{
		closedRange(t, "50", "100"),
		closedRange(t, "10", "50"),
		closedRange(t, "50", "50"),
		closedRange(t, "-1000", "1000"),
	} {
		require.NoError(t, rangeproof.Verify(prove(t, o, r), o.Commitment, r), "range %s", r)
	}
}

func TestRangeProofNegativeSecret(t *testing.T) {
	o := newOpening(t, big.NewInt(-42))
	r := closedRange(t, "-50", "-40")
	require.NoError(t, rangeproof.Verify(prove(t, o, r), o.Commitment, r))

	r = closedRange(t, "-41", "0")
	requireCheck(t, rangeproof.Verify(prove(t, o, r), o.Commitment, r), rangeproof.CheckXPositive)
}

func TestRangeProofLargeSecret(t *testing.T) {
	x := new(big.Int).Lsh(big.NewInt(1), 128)
	o := newOpening(t, x)

	r := rangeproof.NewClosedRange(new(big.Int).Sub(x, big.NewInt(1024)), new(big.Int).Add(x, big.NewInt(1024)))
	require.NoError(t, rangeproof.Verify(prove(t, o, r), o.Commitment, r))

	r = rangeproof.NewClosedRange(x, x)
	require.NoError(t, rangeproof.Verify(prove(t, o, r), o.Commitment, r))

	r = rangeproof.NewClosedRange(new(big.Int).Add(x, bigOne()), new(big.Int).Lsh(x, 1))
	requireCheck(t, rangeproof.Verify(prove(t, o, r), o.Commitment, r), rangeproof.CheckXPositive)
}

func bigOne() *big.Int { return big.NewInt(1) }

func TestRangeProofResponseSizes(t *testing.T) {
	a := big.NewInt(0)
	b := new(big.Int).Lsh(big.NewInt(1), 1000)
	r := rangeproof.NewClosedRange(a, b)
	rangeBits := new(big.Int).Add(b, big.NewInt(2)).BitLen()
	dBits := zkproof.K2Bits + common.HashBits + rangeBits
	m4Bits := zkproof.K2Bits + common.HashBits + zkproof.K2Bits + rangeBits

	for _, m := range []*big.Int{
		a,
		big.NewInt(5),
		new(big.Int).Rsh(b, 1),
		new(big.Int).Sub(b, big.NewInt(3)),
		b,
	} {
		o := newOpening(t, m)
		proof := prove(t, o, r)
		require.NoError(t, rangeproof.Verify(proof, o.Commitment, r))

		// responses have the size of their blinding, which only depends on the range
		assert.GreaterOrEqual(t, proof.Equality.D.BitLen(), dBits-40, "m = %s", m)
		assert.LessOrEqual(t, proof.Equality.D.BitLen(), dBits+1, "m = %s", m)
		assert.GreaterOrEqual(t, proof.Square4.Equality.D.BitLen(), m4Bits-40, "m = %s", m)
		assert.LessOrEqual(t, proof.Square4.Equality.D.BitLen(), m4Bits+1, "m = %s", m)
	}
}

func TestRangeProofModifiedRange(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	proof := prove(t, o, closedRange(t, "10", "100"))

	for _, r := range []rangeproof.ClosedRange{
		closedRange(t, "10", "101"),
		closedRange(t, "10", "99"),
		closedRange(t, "9", "100"),
		closedRange(t, "11", "100"),
		closedRange(t, "50", "50"),
	} {
		requireCheck(t, rangeproof.Verify(proof, o.Commitment, r), rangeproof.CheckEquality)
	}
}

func TestRangeProofOtherCommitment(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)

	other, err := commitment.NewOpening(seeded(t, 2), exampleGroup(t), big.NewInt(50))
	require.NoError(t, err)
	requireCheck(t, rangeproof.Verify(proof, other.Commitment, r), rangeproof.CheckEquality)
}

func TestRangeProofTampered(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)
	require.NoError(t, rangeproof.Verify(proof, o.Commitment, r))

	ints := proof.Ints()
	require.Len(t, ints, rangeproof.ProofInts)
	for i := range ints {
		for _, value := range []*big.Int{big.NewInt(0), big.NewInt(1), o.Commitment.Value} {
			tampered := make([]*big.Int, len(ints))
			copy(tampered, ints)
			tampered[i] = value
			p, err := rangeproof.ProofFromInts(tampered)
			require.NoError(t, err)
			err = rangeproof.Verify(p, o.Commitment, r)
			require.ErrorIs(t, err, rangeproof.ErrInvalidProof, "field %d set to %s verified", i, value)
		}
	}
}

func TestRangeProofIncomplete(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)

	incomplete := *proof
	incomplete.Square4.F = nil
	requireCheck(t, rangeproof.Verify(&incomplete, o.Commitment, r), rangeproof.CheckComplete)
	requireCheck(t, rangeproof.Verify(nil, o.Commitment, r), rangeproof.CheckComplete)
	require.ErrorIs(t, rangeproof.Verify(nil, o.Commitment, r), rangeproof.ErrIncomplete)
}

func TestRangeProofNestedErrors(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)

	tampered := *proof
	tampered.Square3.Equality.D = new(big.Int).Add(proof.Square3.Equality.D, bigOne())
	err := rangeproof.Verify(&tampered, o.Commitment, r)
	requireCheck(t, err, rangeproof.CheckSquare)
	require.ErrorIs(t, err, zkproof.ErrChallengeMismatch)

	tampered = *proof
	tampered.Square4.F = new(big.Int).Add(proof.Square4.F, bigOne())
	err = rangeproof.Verify(&tampered, o.Commitment, r)
	requireCheck(t, err, rangeproof.CheckDecomposition)

	tampered = *proof
	tampered.U = new(big.Int).Add(proof.U, bigOne())
	requireCheck(t, rangeproof.Verify(&tampered, o.Commitment, r), rangeproof.CheckFirstIdentity)

	tampered = *proof
	tampered.V = new(big.Int).Add(proof.V, bigOne())
	requireCheck(t, rangeproof.Verify(&tampered, o.Commitment, r), rangeproof.CheckSecondIdentity)
}

func TestRangeProofEmptyRange(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	valid := prove(t, o, closedRange(t, "10", "100"))

	empty := closedRange(t, "101", "100")
	require.True(t, empty.IsEmpty())
	_, err := rangeproof.Prove(seeded(t, 1), o, empty)
	require.ErrorIs(t, err, rangeproof.ErrEmptyRange)
	require.ErrorIs(t, rangeproof.Verify(valid, o.Commitment, empty), rangeproof.ErrEmptyRange)

	_, err = rangeproof.Prove(seeded(t, 1), o, rangeproof.ClosedRange{})
	require.ErrorIs(t, err, rangeproof.ErrEmptyRange)
}

func TestRangeProofInvalidCommitment(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)

	bad := &commitment.Commitment{Group: o.Commitment.Group, Value: big.NewInt(0)}
	require.ErrorIs(t, rangeproof.Verify(proof, bad, r), rangeproof.ErrInvalidCommitment)
	require.ErrorIs(t, rangeproof.Verify(proof, nil, r), rangeproof.ErrInvalidCommitment)

	_, err := rangeproof.Prove(seeded(t, 1), &commitment.Opening{Commitment: bad, Value: big.NewInt(50), Randomizer: big.NewInt(1)}, r)
	require.ErrorIs(t, err, rangeproof.ErrInvalidCommitment)
	_, err = rangeproof.Prove(seeded(t, 1), nil, r)
	require.ErrorIs(t, err, rangeproof.ErrInvalidCommitment)
}

func TestRangeProofDeterministic(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	p1 := prove(t, o, r)
	p2 := prove(t, o, r)

	fp1, err := p1.Fingerprint()
	require.NoError(t, err)
	fp2, err := p2.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)

	p3, err := rangeproof.Prove(seeded(t, 2), o, r)
	require.NoError(t, err)
	fp3, err := p3.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp3)
}

func TestRangeProofEncoding(t *testing.T) {
	o := newOpening(t, big.NewInt(50))
	r := closedRange(t, "10", "100")
	proof := prove(t, o, r)

	bts, err := proof.Bytes()
	require.NoError(t, err)
	decoded, err := rangeproof.ParseProof(bts)
	require.NoError(t, err)
	require.NoError(t, rangeproof.Verify(decoded, o.Commitment, r))

	bts, err = json.Marshal(proof)
	require.NoError(t, err)
	var fromJSON rangeproof.Proof
	require.NoError(t, json.Unmarshal(bts, &fromJSON))
	require.NoError(t, rangeproof.Verify(&fromJSON, o.Commitment, r))

	fromInts, err := rangeproof.ProofFromInts(proof.Ints())
	require.NoError(t, err)
	require.NoError(t, rangeproof.Verify(fromInts, o.Commitment, r))

	_, err = rangeproof.ProofFromInts(proof.Ints()[:21])
	require.Error(t, err)
	ints := proof.Ints()
	ints[7] = nil
	_, err = rangeproof.ProofFromInts(ints)
	require.Error(t, err)

	_, err = rangeproof.ParseProof([]byte{0xff})
	require.Error(t, err)
}

func TestVerificationErrorString(t *testing.T) {
	err := &rangeproof.VerificationError{Check: rangeproof.CheckYPositive}
	assert.Equal(t, `range proof check "y positive" failed`, err.Error())
	assert.Equal(t, "check 42", rangeproof.Check(42).String())
}
