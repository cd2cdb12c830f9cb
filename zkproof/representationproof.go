package zkproof

import (
	"github.com/privacybydesign/zkrange/big"
	"github.com/privacybydesign/zkrange/internal/common"
)

// A RepresentationProofStructure describes a statement of the form
//
//	prod_i Lhs[i].Base^Lhs[i].Power = prod_j Rhs[j].Base^(Rhs[j].Power * secret_j)  (mod n)
//
// over a group of hidden order. Since the order is unknown, exponents are never
// reduced: blinded secrets and responses are plain integers.
type (
	LhsContribution struct {
		Base  string
		Power *big.Int
	}

	RhsContribution struct {
		Base   string
		Secret string
		Power  int64
	}

	RepresentationProofStructure struct {
		Lhs []LhsContribution
		Rhs []RhsContribution
	}
)

// CommitmentsFromSecrets appends the prover's first message, the right hand side
// evaluated at the randomizers of the secrets, to list.
func (s *RepresentationProofStructure) CommitmentsFromSecrets(n *big.Int, list []*big.Int, bases BaseLookup, secretdata SecretLookup) ([]*big.Int, error) {
	commitment := big.NewInt(1)
	var exp, contribution big.Int

	for _, curRhs := range s.Rhs {
		exp.Mul(big.NewInt(curRhs.Power), secretdata.Randomizer(curRhs.Secret))
		if err := bases.Exp(&contribution, curRhs.Base, &exp, n); err != nil {
			return nil, err
		}
		commitment.Mul(commitment, &contribution).Mod(commitment, n)
	}

	return append(list, commitment), nil
}

// CommitmentsFromProof reconstructs the prover's first message from the responses:
// lhs^-challenge times the right hand side evaluated at the responses.
func (s *RepresentationProofStructure) CommitmentsFromProof(n *big.Int, list []*big.Int, challenge *big.Int, bases BaseLookup, proofdata ProofLookup) ([]*big.Int, error) {
	lhs, err := s.lhs(n, bases)
	if err != nil {
		return nil, err
	}
	commitment, err := common.ModPow(lhs, new(big.Int).Neg(challenge), n)
	if err != nil {
		return nil, err
	}

	var exp, contribution big.Int
	for _, curRhs := range s.Rhs {
		exp.Mul(big.NewInt(curRhs.Power), proofdata.ProofResult(curRhs.Secret))
		if err = bases.Exp(&contribution, curRhs.Base, &exp, n); err != nil {
			return nil, err
		}
		commitment.Mul(commitment, &contribution).Mod(commitment, n)
	}

	return append(list, commitment), nil
}

func (s *RepresentationProofStructure) lhs(n *big.Int, bases BaseLookup) (*big.Int, error) {
	var tmp big.Int
	lhs := big.NewInt(1)
	for _, curLhs := range s.Lhs {
		if err := bases.Exp(&tmp, curLhs.Base, curLhs.Power, n); err != nil {
			return nil, err
		}
		lhs.Mul(lhs, &tmp).Mod(lhs, n)
	}
	return lhs, nil
}
