package rangeproof

import (
	"io"

	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"
)

var (
	bigZERO = big.NewInt(0)
	bigONE  = big.NewInt(1)
	bigTWO  = big.NewInt(2)
)

// SplitSquares randomly splits sum into m1 + m2 + m4^2. For non-negative sum all three
// parts are non-negative, with m4 uniform in [0, floor(sqrt(sum))] and m1 uniform in
// [0, sum - m4^2]. A negative sum (only arising for secrets outside the range) is split
// with m4 = 0 into non-positive m1 and m2.
func SplitSquares(rnd io.Reader, sum *big.Int) (m1, m2, m4 *big.Int, err error) {
	if sum.Sign() < 0 {
		m4 = big.NewInt(0)
		if m1, err = common.RandomInRange(rnd, sum, bigZERO); err != nil {
			return
		}
		m2 = new(big.Int).Sub(sum, m1)
		return
	}

	maxM4, err := common.FloorSqrt(sum)
	if err != nil {
		return
	}
	if m4, err = common.RandomInRange(rnd, bigZERO, maxM4); err != nil {
		return
	}
	remaining := new(big.Int).Mul(m4, m4)
	remaining.Sub(sum, remaining)
	if m1, err = common.RandomInRange(rnd, bigZERO, remaining); err != nil {
		return
	}
	m2 = new(big.Int).Sub(remaining, m1)
	return
}

// SplitSum randomly splits sum into r1 + r2 + r3 with r1 and r2 uniform in (-n, n).
func SplitSum(rnd io.Reader, sum, n *big.Int) (r1, r2, r3 *big.Int, err error) {
	if r1, err = common.RandomSymmetric(rnd, n); err != nil {
		return
	}
	if r2, err = common.RandomSymmetric(rnd, n); err != nil {
		return
	}
	r3 = new(big.Int).Sub(sum, r1)
	r3.Sub(r3, r2)
	return
}
