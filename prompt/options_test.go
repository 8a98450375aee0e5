package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseTables_Complete(t *testing.T) {
	for _, p := range Purposes() {
		phrase, err := p.Phrase()
		require.NoError(t, err, p)
		assert.Equal(t, p == PurposeOther, phrase == "", p)
		assert.NotEqual(t, string(p), p.Label())
	}
	for _, f := range Formats() {
		phrase, err := f.Phrase()
		require.NoError(t, err, f)
		assert.Equal(t, f == FormatOther, phrase == "", f)
	}
	for _, tone := range Tones() {
		phrase, err := tone.Phrase()
		require.NoError(t, err, tone)
		assert.NotEmpty(t, phrase, tone)
	}
	for _, l := range Lengths() {
		phrase, err := l.Phrase()
		require.NoError(t, err, l)
		assert.Equal(t, byte('.'), phrase[len(phrase)-1], l)
	}
	for _, a := range Audiences() {
		phrase, err := a.Phrase()
		require.NoError(t, err, a)
		assert.Equal(t, a == AudienceOther, phrase == "", a)
	}
}

func TestPhraseTables_RejectUnknown(t *testing.T) {
	_, err := Purpose("dance").Phrase()
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = Format("").Phrase()
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = Tone("Neutral").Phrase()
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = Length("short").Phrase()
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = Audience("aliens").Phrase()
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 5)

	sizes := map[Field]int{
		FieldPurpose:  10,
		FieldFormat:   10,
		FieldTone:     10,
		FieldLength:   4,
		FieldAudience: 9,
	}
	for _, v := range cat {
		assert.Len(t, v.Options, sizes[v.Field], v.Field)
		assert.Contains(t, v.Values(), v.Default, v.Field)
	}

	v, ok := Lookup(FieldLength)
	require.True(t, ok)
	assert.Equal(t, "moderate", v.Default)
	assert.Equal(t, "Provide moderate detail (3-5 paragraphs).", v.Options[1].Phrase)

	_, ok = Lookup(FieldTopic)
	assert.False(t, ok)
}
