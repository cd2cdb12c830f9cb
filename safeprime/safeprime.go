// Package safeprime computes safe primes, i.e. primes of the form 2p+1 where p is also prime.
package safeprime

import (
	"context"
	"io"
	"runtime"
	"sync"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.StandardLogger()

// MinBitSize is the smallest size for which safe primes exist (5 and 7).
const MinBitSize = 3

var (
	ErrAttemptsExhausted = errors.New("safe prime search exhausted its attempts")
	ErrBitSizeTooSmall   = errors.New("safe prime size too small")
)

// Params configures a safe prime search.
type Params struct {
	// BitSize is the exact bit length of the safe prime.
	BitSize int
	// Certainty bounds the probability that a returned number is composite by 2^-Certainty.
	Certainty int
	// MaxAttempts caps the number of prime candidates drawn; 0 means unbounded.
	MaxAttempts int
}

// Rounds converts a certainty into a number of Miller-Rabin rounds for
// big.Int.ProbablyPrime, each of which has an error probability of at most 1/4.
func Rounds(certainty int) int {
	r := (certainty + 1) / 2
	if r < 1 {
		return 1
	}
	return r
}

// Generate a safe prime of exactly params.BitSize bits. It repeatedly draws a probable
// prime P from rnd and returns it once (P-1)/2 is also probably prime. If attempt is not nil
// it is called after each rejected candidate with the number of attempts so far.
func Generate(rnd io.Reader, params Params, attempt func(int)) (*big.Int, error) {
	return GenerateContext(context.Background(), rnd, params, attempt)
}

// GenerateContext is like Generate, but stops searching with ctx.Err() when ctx is done.
func GenerateContext(ctx context.Context, rnd io.Reader, params Params, attempt func(int)) (*big.Int, error) {
	p, err := generate(ctx.Done(), rnd, params, attempt)
	if p == nil && err == nil {
		return nil, ctx.Err()
	}
	return p, err
}

func generate(stop <-chan struct{}, rnd io.Reader, params Params, attempt func(int)) (*big.Int, error) {
	if params.BitSize < MinBitSize {
		return nil, errors.Errorf("%w: %d bits", ErrBitSizeTooSmall, params.BitSize)
	}
	rounds := Rounds(params.Certainty)
	half := new(big.Int)

	for i := 1; ; i++ {
		if stop != nil {
			select {
			case <-stop:
				return nil, nil
			default: // just continue with the loop
			}
		}
		if i%100 == 0 {
			Logger.WithFields(logrus.Fields{"bits": params.BitSize, "attempts": i}).Debug("safe prime search")
		}

		p, err := common.RandomProbablePrime(rnd, uint(params.BitSize), rounds)
		if err != nil {
			return nil, err
		}
		half.Rsh(p, 1)
		if half.ProbablyPrime(rounds) {
			return p, nil
		}

		if attempt != nil {
			attempt(i)
		}
		if params.MaxAttempts > 0 && i >= params.MaxAttempts {
			return nil, errors.Errorf("%w: %d attempts for %d bits", ErrAttemptsExhausted, i, params.BitSize)
		}
	}
}

// GenerateConcurrent concurrently and continuously generates safeprimes on all CPU cores,
// until ctx is cancelled; callers must cancel ctx once they have enough primes. If an error
// is encountered, generation is stopped in all goroutines, and the error is sent on the
// second return parameter. Randomness is read from rnd, which
// must be safe for concurrent use (such as crypto/rand.Reader or a common.CPRNG).
func GenerateConcurrent(ctx context.Context, rnd io.Reader, params Params) (<-chan *big.Int, <-chan error) {
	count := runtime.GOMAXPROCS(0)
	ints := make(chan *big.Int, count)
	errs := make(chan error, count)

	// Goroutines that fail cancel the others through this derived context.
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(count)
	go func() {
		wg.Wait()
		cancel()
	}()

	// Start safeprime generation goroutines
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			for {
				// Pass the done chan along; if closed, generate() returns nil, nil
				x, err := generate(ctx.Done(), rnd, params, nil)
				if err != nil {
					errs <- err
					cancel()
					return
				}
				if x == nil {
					return
				}

				// Only send result and continue generating if we have not been told to stop
				select {
				case <-ctx.Done():
					return
				case ints <- x:
					continue
				}
			}
		}()
	}

	return ints, errs
}

var two = big.NewInt(2)

// ProbablySafePrime reports whether x is probably safe prime, by calling big.Int.ProbablyPrime(n)
// on x as well as on (x-1)/2.
//
// If x is safe prime, ProbablySafePrime returns true.
// If x is chosen randomly and not safe prime, ProbablyPrime probably returns false.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 {
		return false
	}
	if !x.ProbablyPrime(n) {
		return false
	}
	y := new(big.Int).Rsh(x, 1)
	return y.ProbablyPrime(n)
}
