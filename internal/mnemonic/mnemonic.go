// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mnemonic generates and validates the 24-word recovery phrase.
//
// A phrase encodes 256 bits of entropy plus an 8-bit checksum using the
// BIP-39 English word list. The phrase is the root secret of an account:
// the master key is derived from its seed.
package mnemonic

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	WordCount   = 24
	EntropyBits = 256

	entropyBytes = EntropyBits / 8
)

// Phrase is an ordered list of normalised recovery words.
type Phrase []string

// String joins the words with single spaces.
func (p Phrase) String() string {
	return strings.Join(p, " ")
}

// Equal compares two phrases word by word, ignoring case and surrounding
// whitespace.
func (p Phrase) Equal(other Phrase) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if normalizeWord(p[i]) != normalizeWord(other[i]) {
			return false
		}
	}
	return true
}

// Wipe overwrites the words with empty strings.
func (p Phrase) Wipe() {
	for i := range p {
		p[i] = ""
	}
}

// Seed is the 64-byte BIP-39 seed of a phrase.
type Seed []byte

// Wipe zeroes the seed.
func (s Seed) Wipe() {
	for i := range s {
		s[i] = 0
	}
}

// Generate reads 256 bits from r and encodes them as a 24-word phrase.
// Any read failure, including a short read, yields ErrEntropySourceUnavailable.
func Generate(r io.Reader) (Phrase, error) {
	entropy := make([]byte, entropyBytes)
	defer wipe(entropy)

	if _, err := io.ReadFull(r, entropy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropySourceUnavailable, err)
	}

	return FromEntropy(entropy)
}

// FromEntropy encodes exactly 32 bytes of entropy as a phrase.
func FromEntropy(entropy []byte) (Phrase, error) {
	if len(entropy) != entropyBytes {
		return nil, fmt.Errorf("entropy must be %d bytes, got %d", entropyBytes, len(entropy))
	}

	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("encode mnemonic: %w", err)
	}

	return Phrase(strings.Fields(m)), nil
}

// Validate normalises words and checks count, word list membership and
// checksum, in that order. On success it returns the phrase seed.
func Validate(words []string) (Seed, error) {
	phrase := ParseWords(words)
	if len(phrase) != WordCount {
		return nil, fmt.Errorf("%w: got %d", ErrWrongWordCount, len(phrase))
	}

	for i, w := range phrase {
		if _, ok := bip39.GetWordIndex(w); !ok {
			return nil, &UnknownWordError{Index: i, Word: w}
		}
	}

	m := phrase.String()
	entropy, err := bip39.EntropyFromMnemonic(m)
	if err != nil {
		if errors.Is(err, bip39.ErrChecksumIncorrect) {
			return nil, ErrChecksumMismatch
		}
		return nil, fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}
	wipe(entropy)

	return Seed(bip39.NewSeed(m, "")), nil
}

// ParsePasted splits a pasted phrase on any whitespace and normalises it.
func ParsePasted(raw string) Phrase {
	return normalize(strings.Fields(raw))
}

// ParseWords normalises words entered one per field. Fields may contain
// stray whitespace or, when a user pastes into one field, several words.
func ParseWords(fields []string) Phrase {
	return ParsePasted(strings.Join(fields, " "))
}

func normalize(words []string) Phrase {
	out := make(Phrase, 0, len(words))
	for _, w := range words {
		if w = normalizeWord(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
