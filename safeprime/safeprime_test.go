package safeprime

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"

	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, b byte) *common.CPRNG {
	var seed [32]byte
	seed[0] = b
	rng, err := common.NewCPRNG(&seed)
	require.NoError(t, err)
	return rng
}

func requireSafePrime(t *testing.T, x *big.Int, bits int) {
	require.NotNil(t, x)
	require.Equal(t, bits, x.BitLen())
	require.True(t, x.ProbablyPrime(40), "Generated number was not prime")

	y := new(big.Int).Sub(x, big.NewInt(1))
	y.Div(y, big.NewInt(2))

	require.True(t, y.ProbablyPrime(40), "Generated number was not a safe prime")
}

func TestGenerate(t *testing.T) {
	x, err := Generate(seeded(t, 1), Params{BitSize: 256, Certainty: 80}, nil)
	require.NoError(t, err)
	requireSafePrime(t, x, 256)
}

func TestGenerateSmall(t *testing.T) {
	valid := map[int64]bool{167: true, 179: true, 227: true}
	for i := byte(0); i < 20; i++ {
		x, err := Generate(seeded(t, i), Params{BitSize: 8, Certainty: 40}, nil)
		require.NoError(t, err)
		require.True(t, valid[x.Int64()], "%d is not an 8-bit safe prime", x.Int64())
	}

	x, err := Generate(seeded(t, 3), Params{BitSize: 3, Certainty: 40}, nil)
	require.NoError(t, err)
	require.True(t, x.Int64() == 5 || x.Int64() == 7)
}

func TestGenerateDeterministic(t *testing.T) {
	params := Params{BitSize: 64, Certainty: 40}
	x, err := Generate(seeded(t, 9), params, nil)
	require.NoError(t, err)
	y, err := Generate(seeded(t, 9), params, nil)
	require.NoError(t, err)
	require.Zero(t, x.Cmp(y))
}

func TestGenerateAttempts(t *testing.T) {
	count := 0
	_, err := Generate(seeded(t, 2), Params{BitSize: 512, Certainty: 40, MaxAttempts: 1}, func(i int) {
		count = i
	})
	// a random 512 bit prime is a safe prime with negligible probability
	require.ErrorIs(t, err, ErrAttemptsExhausted)
	require.Equal(t, 1, count)

	_, err = Generate(seeded(t, 2), Params{BitSize: 2}, nil)
	require.ErrorIs(t, err, ErrBitSizeTooSmall)
}

func TestGenerateConcurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ints, errs := GenerateConcurrent(ctx, common.Reader(), Params{BitSize: 128, Certainty: 40})
	for i := 0; i < 2; i++ {
		select {
		case x := <-ints:
			requireSafePrime(t, x, 128)
		case err := <-errs:
			require.NoError(t, err)
		}
	}
}

func TestGenerateConcurrentStops(t *testing.T) {
	before := runtime.NumGoroutine()
	ctx, cancel := context.WithCancel(context.Background())
	ints, _ := GenerateConcurrent(ctx, common.Reader(), Params{BitSize: 128, Certainty: 40})
	requireSafePrime(t, <-ints, 128)
	cancel()

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 10*time.Second, 10*time.Millisecond)
}

func TestGenerateConcurrentAttemptsExhausted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, errs := GenerateConcurrent(ctx, common.Reader(), Params{BitSize: 512, Certainty: 40, MaxAttempts: 1})
	require.ErrorIs(t, <-errs, ErrAttemptsExhausted)
}

func TestRounds(t *testing.T) {
	require.Equal(t, 1, Rounds(0))
	require.Equal(t, 1, Rounds(1))
	require.Equal(t, 20, Rounds(40))
	require.Equal(t, 21, Rounds(41))
}

func TestProbablySafePrime(t *testing.T) {
	require.True(t, ProbablySafePrime(big.NewInt(23), 20))
	require.True(t, ProbablySafePrime(big.NewInt(5), 20))
	require.False(t, ProbablySafePrime(big.NewInt(13), 20))
	require.False(t, ProbablySafePrime(big.NewInt(2), 20))
	require.False(t, ProbablySafePrime(big.NewInt(21), 20))
}

func TestGenerateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateContext(ctx, seeded(t, 4), Params{BitSize: 2048, Certainty: 40}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
