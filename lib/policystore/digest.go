// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package policystore

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is the 32-byte BLAKE3 keyed hash of a normalized policy
// source. Equal normalized sources have equal digests regardless of
// the id or document they arrived with.
type Digest [32]byte

// policyDomainKey is the BLAKE3 key for policy digests: the ASCII
// domain name, zero-padded to 32 bytes. Changing it invalidates every
// stored digest.
var policyDomainKey = [32]byte{
	'c', 'e', 'd', 'a', 'r', 'b', 'r', 'i', 'd', 'g', 'e', '.', 'p', 'o', 'l', 'i',
	'c', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DigestSource hashes a normalized policy source.
func DigestSource(source string) Digest {
	hasher, err := blake3.NewKeyed(policyDomainKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("policystore: blake3.NewKeyed: " + err.Error())
	}
	hasher.Write([]byte(source))
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d is the zero value.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// ParseDigest parses the 64-character hex form produced by String.
func ParseDigest(text string) (Digest, error) {
	var digest Digest
	if len(text) != hex.EncodedLen(len(digest)) {
		return Digest{}, fmt.Errorf("policy digest must be %d hex characters, got %d", hex.EncodedLen(len(digest)), len(text))
	}
	if _, err := hex.Decode(digest[:], []byte(text)); err != nil {
		return Digest{}, fmt.Errorf("policy digest %q: %w", text, err)
	}
	return digest, nil
}
