// Package rangeproof implements the efficient range proof of Peng and Bao: a prover holding
// the opening (m, r) of a commitment c = g^m h^r (mod N) in a hidden-order group convinces a
// verifier that a <= m <= b without revealing m.
//
// Peng, K., & Bao, F. (2010). An efficient range proof scheme. In IEEE Second International
// Conference on Social Computing (pp. 826-833).
//
// The prover computes
//
//	c1 = c / g^(a-1)      a commitment to m-a+1
//	c2 = g^(b+1) / c      a commitment to b-m+1
//	c' = c1^(b-m+1) h^r'  a commitment to (m-a+1)(b-m+1)
//
// and proves with an equality proof that c' hides the value hidden in c2, in base c1. It then
// blinds the product with a random square w^2, c'' = c'^(w^2) h^r'', proves that c'' hides a
// square in base c', and splits w^2(m-a+1)(b-m+1) = m1 + m2 + m3 where m3 = m4^2 is proven to
// be a square. Finally it reveals
//
//	x = s*m1 + m2 + m3
//	y = m1 + t*m2 + m3
//
// with their randomizers u and v, where s and t are derived by hashing c1 and c2.
//
// Soundness: by the binding property of the commitments, x = s*m1 + m2 + m3 and
// y = m1 + t*m2 + m3 for the values m1, m2, m3 committed to in cPrime1, cPrime2, cPrime3, and
// m3 >= 0 is a proven square. Let S = m1 + m2 + m3 and suppose S <= 0. If s = 1 then x = S <= 0.
// Otherwise x = (s-1)m1 + S > 0 forces m1 > 0, and likewise y > 0 forces m2 > 0 (or t = 1 and
// y = S), so that S >= m1 + m2 > 0. Hence x > 0 and y > 0 imply (m-a+1)(b-m+1) > 0. Both factors
// can only be negative at once if the range is empty, which is why empty ranges are rejected.
package rangeproof

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/commitment"
	"github.com/privacybydesign/zkrange/internal/common"
	"github.com/privacybydesign/zkrange/zkproof"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.StandardLogger()

const (
	K1Bits = 160
	K2Bits = zkproof.K2Bits

	challengeDomain = "zkrange.range"
)

var (
	// K1 bounds the challenges s and t.
	K1 = new(big.Int).Lsh(big.NewInt(1), K1Bits)
	// K2 bounds the blinding values r', w and r''.
	K2 = new(big.Int).Lsh(big.NewInt(1), K2Bits)
)

type Proof struct {
	// Equality proves that CPrime and c2 hide the same b-m+1, in bases c1 and g respectively.
	Equality zkproof.EqualityProof `json:"equality"`
	// Square3 proves that CPrime1*CPrime2*CPrime3 hides w^2 in base CPrime.
	Square3 zkproof.SquareProof `json:"square3"`
	// Square4 proves that CPrime3 hides m3 = m4^2.
	Square4 zkproof.SquareProof `json:"square4"`

	CPrime  *big.Int `json:"cPrime"`
	CPrime1 *big.Int `json:"cPrime1"`
	CPrime2 *big.Int `json:"cPrime2"`
	CPrime3 *big.Int `json:"cPrime3"`

	X *big.Int `json:"x"`
	Y *big.Int `json:"y"`
	U *big.Int `json:"u"`
	V *big.Int `json:"v"`
}

// rangeCommitments computes c1 = c / g^(a-1) and c2 = g^(b+1) / c.
func rangeCommitments(c *commitment.Commitment, r ClosedRange) (c1, c2 *big.Int, err error) {
	grp := c.Group
	ga, err := common.ModPow(grp.G, new(big.Int).Sub(r.Start, bigONE), grp.N)
	if err != nil {
		return nil, nil, err
	}
	if c1, err = common.ModDiv(c.Value, ga, grp.N); err != nil {
		return nil, nil, err
	}
	gb, err := common.ModPow(grp.G, new(big.Int).Add(r.End, bigONE), grp.N)
	if err != nil {
		return nil, nil, err
	}
	if c2, err = common.ModDiv(gb, c.Value, grp.N); err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

// challenges derives s = H(c1) mod K1 + 1 and t = H(c2) mod K1 + 1.
func challenges(c1, c2 *big.Int) (s, t *big.Int) {
	s = common.HashCommit([]*big.Int{c1}, challengeDomain)
	s.Mod(s, K1).Add(s, bigONE)
	t = common.HashCommit([]*big.Int{c2}, challengeDomain)
	t.Mod(t, K1).Add(t, bigONE)
	return
}

// Prove generates a proof that the value of opening lies in r. If it does not, a proof is
// still returned, which fails to verify. The range must not be empty.
func Prove(rnd io.Reader, opening *commitment.Opening, r ClosedRange) (*Proof, error) {
	if opening == nil || opening.Value == nil || opening.Randomizer == nil {
		return nil, errors.Errorf("%w: incomplete opening", ErrInvalidCommitment)
	}
	if err := opening.Commitment.Validate(); err != nil {
		return nil, err
	}
	if err := r.valid(); err != nil {
		return nil, err
	}

	grp := opening.Commitment.Group
	N, g, h := grp.N, grp.G, grp.H
	m, rr := opening.Value, opening.Randomizer

	c1, c2, err := rangeCommitments(opening.Commitment, r)
	if err != nil {
		return nil, errors.Errorf("failed to compute range commitments: %w", err)
	}

	// b-m+1 and m-a+1
	bm := new(big.Int).Sub(r.End, m)
	bm.Add(bm, bigONE)
	ma := new(big.Int).Sub(m, r.Start)
	ma.Add(ma, bigONE)

	// Bit lengths of the secrets of the sub-proofs, bounded from public values so that the
	// blinding does not depend on where m lies in r. b-m+1 and m-a+1 are below b-a+2, the
	// keys below 2^KeySecurity * N, and m4 <= w(b-a+2)/2.
	width := new(big.Int).Sub(r.End, r.Start)
	rangeBits := width.Add(width, bigTWO).BitLen()
	keyBits := zkproof.KeyBits(N)
	m4Bits := K2Bits + rangeBits
	r3Bits := 2*K2Bits + max(rangeBits+keyBits, K2Bits) + 3

	// c' = c1^(b-m+1) h^r'
	rPrime, err := big.RandInt(rnd, K2)
	if err != nil {
		return nil, err
	}
	cPrime, err := common.MultiExp([]*big.Int{c1, h}, []*big.Int{bm, rPrime}, N)
	if err != nil {
		return nil, err
	}
	// c2 = g^(b-m+1) h^-r and c' = c1^(b-m+1) h^r'
	el, err := zkproof.ProveEquality(rnd, N, g, c1, h, h, bm, new(big.Int).Neg(rr), rPrime,
		zkproof.SecretBits{X: rangeBits, R1: keyBits, R2: K2Bits})
	if err != nil {
		return nil, err
	}

	// c'' = c'^(w^2) h^r''
	w, err := common.RandomBelow(rnd, bigONE, K2)
	if err != nil {
		return nil, err
	}
	rPrimePrime, err := big.RandInt(rnd, K2)
	if err != nil {
		return nil, err
	}
	w2 := new(big.Int).Mul(w, w)
	cPrimePrime, err := common.MultiExp([]*big.Int{cPrime, h}, []*big.Int{w2, rPrimePrime}, N)
	if err != nil {
		return nil, err
	}
	sq3, err := zkproof.ProveSquare(rnd, N, cPrime, h, w, rPrimePrime, K2Bits, K2Bits)
	if err != nil {
		return nil, err
	}

	// c'' = g^S h^T with S = w^2(m-a+1)(b-m+1) and T = w^2((b-m+1)r + r') + r''
	S := new(big.Int).Mul(w2, ma)
	S.Mul(S, bm)
	T := new(big.Int).Mul(bm, rr)
	T.Add(T, rPrime).Mul(T, w2).Add(T, rPrimePrime)

	m1, m2, m4, err := SplitSquares(rnd, S)
	if err != nil {
		return nil, err
	}
	m3 := new(big.Int).Mul(m4, m4)
	r1, r2, r3, err := SplitSum(rnd, T, N)
	if err != nil {
		return nil, err
	}

	cPrime1, err := common.MultiExp([]*big.Int{g, h}, []*big.Int{m1, r1}, N)
	if err != nil {
		return nil, err
	}
	cPrime2, err := common.MultiExp([]*big.Int{g, h}, []*big.Int{m2, r2}, N)
	if err != nil {
		return nil, err
	}
	cPrime3, err := common.ModDiv(cPrimePrime, new(big.Int).Mul(cPrime1, cPrime2), N)
	if err != nil {
		return nil, err
	}
	sq4, err := zkproof.ProveSquare(rnd, N, g, h, m4, r3, m4Bits, r3Bits)
	if err != nil {
		return nil, err
	}

	s, t := challenges(c1, c2)

	x := new(big.Int).Mul(s, m1)
	x.Add(x, m2).Add(x, m3)
	y := new(big.Int).Mul(t, m2)
	y.Add(y, m1).Add(y, m3)
	u := new(big.Int).Mul(s, r1)
	u.Add(u, r2).Add(u, r3)
	v := new(big.Int).Mul(t, r2)
	v.Add(v, r1).Add(v, r3)

	proof := &Proof{
		Equality: *el,
		Square3:  *sq3,
		Square4:  *sq4,
		CPrime:   cPrime,
		CPrime1:  cPrime1,
		CPrime2:  cPrime2,
		CPrime3:  cPrime3,
		X:        x,
		Y:        y,
		U:        u,
		V:        v,
	}
	if Logger.IsLevelEnabled(logrus.DebugLevel) {
		fp, _ := proof.Fingerprint()
		Logger.WithFields(logrus.Fields{"range": r.String(), "proof": fp}).Debug("range proof generated")
	}
	return proof, nil
}

func (p *Proof) complete() bool {
	if p == nil {
		return false
	}
	for _, i := range p.Ints() {
		if i == nil {
			return false
		}
	}
	return true
}

// Verify checks that proof shows that the value committed to in c lies in r. A failing proof
// is reported as a *VerificationError naming the failed check; malformed commitments and
// empty ranges are reported with ErrInvalidCommitment and ErrEmptyRange.
func Verify(proof *Proof, c *commitment.Commitment, r ClosedRange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := r.valid(); err != nil {
		return err
	}
	err := verify(proof, c, r)
	if Logger.IsLevelEnabled(logrus.DebugLevel) {
		entry := Logger.WithField("range", r.String())
		if proof.complete() {
			fp, _ := proof.Fingerprint()
			entry = entry.WithField("proof", fp)
		}
		if err != nil {
			entry.WithError(err).Debug("range proof rejected")
		} else {
			entry.Debug("range proof verified")
		}
	}
	return err
}

func verify(proof *Proof, c *commitment.Commitment, r ClosedRange) error {
	if !proof.complete() {
		return &VerificationError{Check: CheckComplete, Err: ErrIncomplete}
	}
	grp := c.Group
	N, g, h := grp.N, grp.G, grp.H

	c1, c2, err := rangeCommitments(c, r)
	if err != nil {
		return errors.Errorf("failed to compute range commitments: %w", err)
	}
	cPrimePrime := new(big.Int).Mul(proof.CPrime1, proof.CPrime2)
	cPrimePrime.Mul(cPrimePrime, proof.CPrime3).Mod(cPrimePrime, N)
	s, t := challenges(c1, c2)

	if err = zkproof.VerifyEquality(N, g, c1, h, h, c2, proof.CPrime, &proof.Equality); err != nil {
		return &VerificationError{Check: CheckEquality, Err: err}
	}
	if err = zkproof.VerifySquare(N, proof.CPrime, h, cPrimePrime, &proof.Square3); err != nil {
		return &VerificationError{Check: CheckSquare, Err: err}
	}
	if err = zkproof.VerifySquare(N, g, h, proof.CPrime3, &proof.Square4); err != nil {
		return &VerificationError{Check: CheckDecomposition, Err: err}
	}

	if err = checkIdentity(N, g, h, proof.CPrime1, s, proof.CPrime2, bigONE, proof.CPrime3, proof.X, proof.U); err != nil {
		return &VerificationError{Check: CheckFirstIdentity, Err: err}
	}
	if err = checkIdentity(N, g, h, proof.CPrime1, bigONE, proof.CPrime2, t, proof.CPrime3, proof.Y, proof.V); err != nil {
		return &VerificationError{Check: CheckSecondIdentity, Err: err}
	}

	if proof.X.Sign() <= 0 {
		return &VerificationError{Check: CheckXPositive}
	}
	if proof.Y.Sign() <= 0 {
		return &VerificationError{Check: CheckYPositive}
	}
	return nil
}

// checkIdentity verifies c1^e1 * c2^e2 * c3 = g^x * h^u (mod n).
func checkIdentity(n, g, h, c1, e1, c2, e2, c3, x, u *big.Int) error {
	lhs, err := common.MultiExp([]*big.Int{c1, c2, c3}, []*big.Int{e1, e2, bigONE}, n)
	if err != nil {
		return err
	}
	rhs, err := common.MultiExp([]*big.Int{g, h}, []*big.Int{x, u}, n)
	if err != nil {
		return err
	}
	if lhs.Cmp(rhs) != 0 {
		return errors.New("commitments do not open to the revealed values")
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
