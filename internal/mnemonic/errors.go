package mnemonic

import (
	"errors"
	"fmt"
)

var (
	ErrEntropySourceUnavailable = errors.New("entropy source unavailable")
	ErrWrongWordCount           = errors.New("recovery phrase must have 24 words")
	ErrUnknownWord              = errors.New("word is not in the recovery word list")
	ErrChecksumMismatch         = errors.New("recovery phrase checksum mismatch")
)

// UnknownWordError reports the first word that is not in the word list.
// Index is zero-based.
type UnknownWordError struct {
	Index int
	Word  string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("word %d %q is not in the recovery word list", e.Index+1, e.Word)
}

// Is makes errors.Is(err, ErrUnknownWord) match.
func (e *UnknownWordError) Is(target error) bool {
	return target == ErrUnknownWord
}
