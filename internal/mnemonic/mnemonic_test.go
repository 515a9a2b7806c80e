package mnemonic

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func zeroPhrase() []string {
	words := make([]string, 0, WordCount)
	for i := 0; i < WordCount-1; i++ {
		words = append(words, "abandon")
	}
	return append(words, "art")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestGenerate_KnownVector(t *testing.T) {
	phrase, err := Generate(bytes.NewReader(make([]byte, 32)))
	require.NoError(t, err)

	assert.Equal(t, Phrase(zeroPhrase()), phrase)
}

func TestGenerate_RoundTrip(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x7f}, 32)

	phrase, err := Generate(bytes.NewReader(entropy))
	require.NoError(t, err)
	require.Len(t, phrase, WordCount)

	seed, err := Validate(phrase)
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	// the seed is deterministic for a phrase
	again, err := Validate(ParsePasted(strings.ToUpper(phrase.String())))
	require.NoError(t, err)
	assert.Equal(t, seed, again)
}

func TestGenerate_EntropyFailure(t *testing.T) {
	_, err := Generate(failingReader{})
	assert.ErrorIs(t, err, ErrEntropySourceUnavailable)

	// short read
	_, err = Generate(bytes.NewReader(make([]byte, 10)))
	assert.ErrorIs(t, err, ErrEntropySourceUnavailable)
}

func TestValidate_SeedIsPBKDF2Length(t *testing.T) {
	seed, err := Validate(zeroPhrase())
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	other, err := Validate(ParsePasted("legal winner thank year wave sausage worth useful legal winner thank year wave sausage worth useful legal winner thank year wave sausage worth title"))
	require.NoError(t, err)
	assert.NotEqual(t, hex.EncodeToString(seed), hex.EncodeToString(other))
}

func TestValidate_WrongWordCount(t *testing.T) {
	_, err := Validate(zeroPhrase()[:12])
	assert.ErrorIs(t, err, ErrWrongWordCount)

	_, err = Validate(nil)
	assert.ErrorIs(t, err, ErrWrongWordCount)
}

func TestValidate_UnknownWord(t *testing.T) {
	words := zeroPhrase()
	words[5] = "bitcoinz"

	_, err := Validate(words)
	require.ErrorIs(t, err, ErrUnknownWord)

	var uw *UnknownWordError
	require.True(t, errors.As(err, &uw))
	assert.Equal(t, 5, uw.Index)
	assert.Equal(t, "bitcoinz", uw.Word)
	assert.Contains(t, uw.Error(), "word 6")
}

func TestValidate_ChecksumMismatch(t *testing.T) {
	words := make([]string, WordCount)
	for i := range words {
		words[i] = "abandon"
	}

	_, err := Validate(words)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

// Замена последнего слова на "ability" сохраняет энтропию,
// но меняет контрольную сумму.
func TestValidate_SingleWordSubstitution(t *testing.T) {
	words := zeroPhrase()
	words[WordCount-1] = "ability"

	_, err := Validate(words)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

// The checksum is 8 bits, so about 1 in 256 single-word substitutions still
// validates. Such a phrase decodes to a different seed; rejecting it is
// left to the account verifier.
func TestValidate_RandomSubstitutionRate(t *testing.T) {
	src := rand.NewChaCha8([32]byte{'e', '2', 'e', 'e'})
	rnd := rand.New(src)
	list := bip39.GetWordList()

	const phrases, perPhrase = 200, 25
	var accepted int
	for range phrases {
		phrase, err := Generate(src)
		require.NoError(t, err)
		seed, err := Validate(phrase)
		require.NoError(t, err)

		for range perPhrase {
			words := append(Phrase(nil), phrase...)
			i := rnd.IntN(WordCount)
			for words[i] == phrase[i] {
				words[i] = list[rnd.IntN(len(list))]
			}

			got, err := Validate(words)
			if err != nil {
				require.ErrorIs(t, err, ErrChecksumMismatch)
				continue
			}
			accepted++
			assert.False(t, bytes.Equal(seed, got), "substituted phrase must not give the same seed")
		}
	}

	total := phrases * perPhrase
	// expected ~19.5 of 5000
	assert.GreaterOrEqual(t, accepted, 3, "checksum rejects more than an 8-bit checksum can")
	assert.LessOrEqual(t, accepted, 45, "checksum accepts more than 1/256 of substitutions")
	assert.GreaterOrEqual(t, float64(total-accepted)/float64(total), 0.99)
}

func TestParse_ModesAgree(t *testing.T) {
	pasted := "  Abandon\tABANDON \n abandon  "
	fields := []string{" abandon", "Abandon ", "ABANDON"}

	assert.Equal(t, Phrase{"abandon", "abandon", "abandon"}, ParsePasted(pasted))
	assert.Equal(t, ParsePasted(pasted), ParseWords(fields))
	assert.Empty(t, ParsePasted("   "))
}

func TestParseWords_FieldWithSeveralWords(t *testing.T) {
	got := ParseWords([]string{"abandon ability", "", "able"})
	assert.Equal(t, Phrase{"abandon", "ability", "able"}, got)
}

func TestPhrase_Equal(t *testing.T) {
	a := Phrase{"Abandon", " art"}
	assert.True(t, a.Equal(Phrase{"abandon", "ART"}))
	assert.False(t, a.Equal(Phrase{"abandon"}))
	assert.False(t, a.Equal(Phrase{"abandon", "able"}))
}

func TestPhrase_Wipe(t *testing.T) {
	p := Phrase{"abandon", "art"}
	p.Wipe()
	assert.Equal(t, Phrase{"", ""}, p)

	s := Seed{1, 2, 3}
	s.Wipe()
	assert.Equal(t, Seed{0, 0, 0}, s)
}

func TestFromEntropy_BadLength(t *testing.T) {
	_, err := FromEntropy(make([]byte, 16))
	assert.Error(t, err)
}

var _ io.Reader = failingReader{}
