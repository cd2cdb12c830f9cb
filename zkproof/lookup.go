package zkproof

import (
	"sort"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"
)

var ErrUnknownBase = errors.New("unknown base")

type (
	BaseLookup interface {
		Base(name string) *big.Int
		// Exp sets ret to base^exp mod n. Negative exponents are computed through the
		// modular inverse of the base.
		Exp(ret *big.Int, name string, exp, n *big.Int) error
		Names() []string
	}

	SecretLookup interface {
		Secret(name string) *big.Int
		Randomizer(name string) *big.Int
	}

	ProofLookup interface {
		ProofResult(name string) *big.Int
	}

	// BaseMap is a BaseLookup of named group elements.
	BaseMap map[string]*big.Int

	BaseMerge struct {
		parts  []BaseLookup
		inames []string
	}

	secretMap struct {
		secrets     map[string]*big.Int
		randomizers map[string]*big.Int
	}

	proofMap map[string]*big.Int
)

func (m BaseMap) Base(name string) *big.Int {
	return m[name]
}

func (m BaseMap) Exp(ret *big.Int, name string, exp, n *big.Int) error {
	base := m.Base(name)
	if base == nil {
		return errors.Errorf("%w: %s", ErrUnknownBase, name)
	}
	r, err := common.ModPow(base, exp, n)
	if err != nil {
		return err
	}
	ret.Set(r)
	return nil
}

func (m BaseMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewBaseMerge(parts ...BaseLookup) BaseMerge {
	var result BaseMerge
	result.parts = parts
	for _, part := range parts {
		result.inames = append(result.inames, part.Names()...)
	}
	return result
}

func (b *BaseMerge) Names() []string {
	return b.inames
}

func (b *BaseMerge) Base(name string) *big.Int {
	for _, part := range b.parts {
		res := part.Base(name)
		if res != nil {
			return res
		}
	}
	return nil
}

func (b *BaseMerge) Exp(ret *big.Int, name string, exp, n *big.Int) error {
	for _, part := range b.parts {
		if part.Base(name) != nil {
			return part.Exp(ret, name, exp, n)
		}
	}
	return errors.Errorf("%w: %s", ErrUnknownBase, name)
}

func (s *secretMap) Secret(name string) *big.Int {
	return s.secrets[name]
}

func (s *secretMap) Randomizer(name string) *big.Int {
	return s.randomizers[name]
}

func (p proofMap) ProofResult(name string) *big.Int {
	return p[name]
}
