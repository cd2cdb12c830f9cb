// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
)

// Some utility code (mostly math stuff) useful in various places in this
// module.

// Often we need to refer to the same small constant big numbers, no point in
// creating them again and again.
var (
	bigZERO = big.NewInt(0)
	bigONE  = big.NewInt(1)
)

var (
	ErrNoModInverse  = errors.New("modular inverse does not exist")
	ErrNegativeSqrt  = errors.New("negative number does not have a square root")
	ErrEmptyInterval = errors.New("random interval is empty")
	ErrNotCoprime    = errors.New("moduli are not coprime")
)

// ModInverse returns ia, the inverse of a modulo n, and whether it exists.
// This function was taken from Go's RSA implementation.
func ModInverse(a, n *big.Int) (ia *big.Int, ok bool) {
	g := new(big.Int)
	x := new(big.Int)
	y := new(big.Int)
	g.GCD(x, y, new(big.Int).Mod(a, n), n)
	if g.Cmp(bigONE) != 0 {
		// In this case, a and n aren't coprime and we cannot calculate
		// the inverse. This happens because the values of n are nearly
		// prime (being the product of two primes) rather than truly
		// prime.
		return
	}

	if x.Cmp(bigONE) < 0 {
		// 0 is not the multiplicative inverse of any element so, if x
		// < 1, then x is negative.
		x.Add(x, n)
	}

	return x, true
}

// ModPow computes x^y mod m. The exponent (y) can be negative, in which case it
// uses the modular inverse to compute the result (in contrast to Go's Exp
// function).
func ModPow(x, y, m *big.Int) (*big.Int, error) {
	if y.Sign() == -1 {
		t, ok := ModInverse(x, m)
		if !ok {
			return nil, ErrNoModInverse
		}
		return t.Exp(t, new(big.Int).Neg(y), m), nil
	}
	return new(big.Int).Exp(x, y, m), nil
}

// ModDiv computes a/b mod n, i.e. a * b^-1 mod n.
func ModDiv(a, b, n *big.Int) (*big.Int, error) {
	ib, ok := ModInverse(b, n)
	if !ok {
		return nil, ErrNoModInverse
	}
	return ib.Mul(ib, a).Mod(ib, n), nil
}

// MultiExp computes the product of bases[i]^exps[i] modulo m, allowing negative exponents.
func MultiExp(bases, exps []*big.Int, m *big.Int) (*big.Int, error) {
	if len(bases) != len(exps) {
		return nil, errors.Errorf("MultiExp: %d bases for %d exponents", len(bases), len(exps))
	}
	r := big.NewInt(1)
	for i := range bases {
		tmp, err := ModPow(bases[i], exps[i], m)
		if err != nil {
			return nil, err
		}
		r.Mul(r, tmp).Mod(r, m)
	}
	return r, nil
}

// FloorSqrt returns the largest integer r such that r*r <= n.
func FloorSqrt(n *big.Int) (*big.Int, error) {
	if n.Sign() < 0 {
		return nil, ErrNegativeSqrt
	}
	return new(big.Int).Sqrt(n), nil
}

// Bezout returns the Bézout coefficients s, t of the positive integers a and b,
// such that s*a + t*b = gcd(a, b), together with that gcd.
func Bezout(a, b *big.Int) (s, t, gcd *big.Int) {
	s, t = new(big.Int), new(big.Int)
	gcd = new(big.Int).GCD(s, t, a, b)
	return
}

// Crt finds a number x (mod pa*pb) such that x = a (mod pa) and x = b (mod pb)
func Crt(a *big.Int, pa *big.Int, b *big.Int, pb *big.Int) (*big.Int, error) {
	s, t, z := Bezout(pa, pb)
	if z.Cmp(bigONE) != 0 {
		return nil, ErrNotCoprime
	}
	// s*pa = 1 (mod pb) and t*pb = 1 (mod pa)
	result := new(big.Int).Add(
		new(big.Int).Mul(new(big.Int).Mul(a, t), pb),
		new(big.Int).Mul(new(big.Int).Mul(b, s), pa))

	n := new(big.Int).Mul(pa, pb)
	result.Mod(result, n)
	return result, nil
}

// RandomInRange returns a uniformly random integer in the closed interval [min, max],
// reading its randomness from rnd.
func RandomInRange(rnd io.Reader, min, max *big.Int) (*big.Int, error) {
	if max.Cmp(min) < 0 {
		return nil, ErrEmptyInterval
	}
	limit := new(big.Int).Sub(max, min)
	limit.Add(limit, bigONE)
	r, err := big.RandInt(rnd, limit)
	if err != nil {
		return nil, err
	}
	return r.Add(r, min), nil
}

// RandomBelow returns a uniformly random integer in the half-open interval [min, max).
func RandomBelow(rnd io.Reader, min, max *big.Int) (*big.Int, error) {
	if max.Cmp(min) <= 0 {
		return nil, ErrEmptyInterval
	}
	return RandomInRange(rnd, min, new(big.Int).Sub(max, bigONE))
}

// RandomSymmetric returns a uniformly random integer in the open interval (-bound, bound).
func RandomSymmetric(rnd io.Reader, bound *big.Int) (*big.Int, error) {
	max := new(big.Int).Sub(bound, bigONE)
	return RandomInRange(rnd, new(big.Int).Neg(max), max)
}

// RandomBigInt returns a random big integer value in the range
// [0,(2^numBits)-1], inclusive.
func RandomBigInt(rnd io.Reader, numBits uint) (*big.Int, error) {
	t := new(big.Int).Lsh(bigONE, numBits)
	return big.RandInt(rnd, t)
}
