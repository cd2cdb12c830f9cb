// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zkrange implements range proofs on committed integers following Peng and
// Bao, "An Efficient Range Proof Scheme" (2010), over groups of hidden order as set up
// by Fujisaki and Okamoto.
//
// A trusted third party generates a group (see package group), commits to a secret
// integer of the prover and publishes the commitment (see package ttp). Given the
// opening of the commitment, the prover can then convince anyone that the committed
// integer lies in a closed range [a, b] without revealing anything else about it
// (see package rangeproof):
//
//	grp, err := zkrange.GenerateGroup(2048)
//	msg, err := zkrange.NewTTPMessage(grp, big.NewInt(42))
//	r, err := rangeproof.ParseClosedRange("18", "65")
//	proof, err := zkrange.ProveRange(msg, r)
//	err = zkrange.VerifyRange(proof, msg.Commitment, r)
//
// This package wires the subpackages together with default randomness and a shared
// logger. The subpackages accept an io.Reader wherever randomness is consumed.
package zkrange
