package group

import (
	"context"
	"io"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"
	"github.com/privacybydesign/zkrange/safeprime"
	"github.com/sirupsen/logrus"
)

var (
	ErrBitLengthTooSmall = errors.New("group bit length too small")
	ErrAttemptsExhausted = safeprime.ErrAttemptsExhausted
)

var bigONE = big.NewInt(1)
var bigTWO = big.NewInt(2)

// Generator generates hidden-order groups following the set-up procedure of
// Fujisaki and Okamoto.
type Generator struct {
	Parameters

	// Rand is the source of all randomness; common.Reader() when nil.
	Rand io.Reader
	// MaxAttempts caps every retry loop (safe prime candidates, generator candidates and
	// exponents); 0 means unbounded.
	MaxAttempts int
	// Concurrent searches safe primes on all cores. Only the sequential search is
	// reproducible from a seeded Rand.
	Concurrent bool
	// Follower receives progress reports; the package-level Follower when nil.
	Follower ProgressFollower
}

// NewGenerator returns a sequential generator for the given parameters.
func NewGenerator(params Parameters) *Generator {
	return &Generator{Parameters: params}
}

// Generate is GenerateContext with a background context.
func (gen *Generator) Generate() (*Group, error) {
	return gen.GenerateContext(context.Background())
}

// GenerateContext generates two distinct safe primes P and Q of BitLength-1 bits and
// derives a group modulo N = P*Q from them.
func (gen *Generator) GenerateContext(ctx context.Context) (*Group, error) {
	if gen.BitLength < MinBitLength {
		return nil, errors.Errorf("%w: %d < %d", ErrBitLengthTooSmall, gen.BitLength, MinBitLength)
	}

	var P, Q *big.Int
	err := common.TimeAndLog(Logger, "safe prime 1", func() (err error) {
		P, err = gen.safePrime(ctx, "Generating safe prime 1", nil)
		return
	})
	if err != nil {
		return nil, err
	}
	err = common.TimeAndLog(Logger, "safe prime 2", func() (err error) {
		Q, err = gen.safePrime(ctx, "Generating safe prime 2", P)
		return
	})
	if err != nil {
		return nil, err
	}

	var grp *Group
	follower := gen.follower()
	follower.StepStart("Finding generators", 0)
	err = common.TimeAndLog(Logger, "generators", func() (err error) {
		grp, err = FromSafePrimes(gen.rand(), P, Q, gen.MaxAttempts)
		return
	})
	follower.StepDone()
	if err != nil {
		return nil, err
	}

	if Logger.IsLevelEnabled(logrus.DebugLevel) {
		fp, _ := grp.Fingerprint()
		Logger.WithFields(logrus.Fields{
			"n":           common.ShortInt(grp.N),
			"fingerprint": fp,
		}).Debug("group generated")
	}
	return grp, nil
}

func (gen *Generator) rand() io.Reader {
	if gen.Rand == nil {
		return common.Reader()
	}
	return gen.Rand
}

func (gen *Generator) follower() ProgressFollower {
	if gen.Follower == nil {
		return Follower
	}
	return gen.Follower
}

// safePrime returns a safe prime of BitLength-1 bits distinct from other.
func (gen *Generator) safePrime(ctx context.Context, desc string, other *big.Int) (*big.Int, error) {
	follower := gen.follower()
	follower.StepStart(desc, 0)
	defer follower.StepDone()

	params := safeprime.Params{
		BitSize:     gen.BitLength - 1,
		Certainty:   gen.Certainty,
		MaxAttempts: gen.MaxAttempts,
	}

	if gen.Concurrent {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		ints, errs := safeprime.GenerateConcurrent(ctx, gen.rand(), params)
		for {
			select {
			case x := <-ints:
				if other != nil && x.Cmp(other) == 0 {
					follower.Tick()
					continue
				}
				return x, nil
			case err := <-errs:
				return nil, err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	for i := 1; ; i++ {
		x, err := safeprime.GenerateContext(ctx, gen.rand(), params, func(int) { follower.Tick() })
		if err != nil {
			return nil, err
		}
		if other == nil || x.Cmp(other) != 0 {
			return x, nil
		}
		follower.Tick()
		if gen.MaxAttempts > 0 && i >= gen.MaxAttempts {
			return nil, errors.Errorf("%w: no second safe prime of %d bits", ErrAttemptsExhausted, params.BitSize)
		}
	}
}

// FromSafePrimes derives a group modulo N = P*Q for distinct safe primes P and Q:
// it combines generators of the order p and q subgroups (p = (P-1)/2, q = (Q-1)/2) into
// a generator G of the order pq subgroup, and sets H = G^alpha for a random alpha
// that is not a multiple of p or q.
func FromSafePrimes(rnd io.Reader, P, Q *big.Int, maxAttempts int) (*Group, error) {
	if P.Cmp(Q) == 0 {
		return nil, errors.Errorf("%w: safe primes must be distinct", ErrInvalidGroup)
	}
	if !safeprime.ProbablySafePrime(P, 40) || !safeprime.ProbablySafePrime(Q, 40) {
		return nil, errors.Errorf("%w: factors must be safe primes", ErrInvalidGroup)
	}
	p := new(big.Int).Rsh(P, 1)
	q := new(big.Int).Rsh(Q, 1)
	if p.Cmp(bigTWO) <= 0 || q.Cmp(bigTWO) <= 0 {
		return nil, errors.Errorf("%w: safe primes too small", ErrInvalidGroup)
	}
	N := new(big.Int).Mul(P, Q)

	gp, err := subgroupGenerator(rnd, P, maxAttempts)
	if err != nil {
		return nil, err
	}
	gq, err := subgroupGenerator(rnd, Q, maxAttempts)
	if err != nil {
		return nil, err
	}

	// b0 = gp (mod P) and b0 = gq (mod Q), so b0 has order pq
	b0, err := common.Crt(gp, P, gq, Q)
	if err != nil {
		return nil, err
	}

	// A small alpha would make log_b0(b1) easy to find; a multiple of p or q
	// would make b1 generate a proper subgroup.
	min := p
	if q.Cmp(p) < 0 {
		min = q
	}
	pq := new(big.Int).Mul(p, q)
	var alpha *big.Int
	var tmp big.Int
	for i := 1; ; i++ {
		if alpha, err = common.RandomInRange(rnd, min, pq); err != nil {
			return nil, err
		}
		if tmp.Mod(alpha, p).Sign() != 0 && tmp.Mod(alpha, q).Sign() != 0 {
			break
		}
		if maxAttempts > 0 && i >= maxAttempts {
			return nil, errors.Errorf("%w: no suitable exponent", ErrAttemptsExhausted)
		}
	}
	b1 := new(big.Int).Exp(b0, alpha, N)

	return &Group{N: N, G: b0, H: b1}, nil
}

// subgroupGenerator finds a random generator of the subgroup of order p = (P-1)/2 of
// the units modulo the safe prime P. Elements modulo P have order 1, 2, p or 2p; a
// candidate has order p exactly when cand^p = 1 and cand^2 != 1.
func subgroupGenerator(rnd io.Reader, P *big.Int, maxAttempts int) (*big.Int, error) {
	p := new(big.Int).Rsh(P, 1)
	max := new(big.Int).Sub(P, bigTWO)
	pMinusOne := new(big.Int).Sub(p, bigONE)
	var tmp big.Int

	for i := 1; ; i++ {
		cand, err := common.RandomInRange(rnd, bigTWO, max)
		if err != nil {
			return nil, err
		}
		if tmp.Exp(cand, p, P).Cmp(bigONE) == 0 && tmp.Exp(cand, bigTWO, P).Cmp(bigONE) != 0 {
			// every power 1..p-1 of a generator of a group of prime order is a generator
			k, err := common.RandomInRange(rnd, bigONE, pMinusOne)
			if err != nil {
				return nil, err
			}
			return cand.Exp(cand, k, P), nil
		}
		if maxAttempts > 0 && i >= maxAttempts {
			return nil, errors.Errorf("%w: no subgroup generator modulo %s", ErrAttemptsExhausted, common.ShortInt(P))
		}
	}
}
