package corpus

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gromgull/model1/core/vocab"
)

func TestLoad(t *testing.T) {
	src := "le chat\nle chien\n"
	tgt := "the cat\nthe dog\n"

	c, err := Load(strings.NewReader(src), strings.NewReader(tgt))
	require.NoError(t, err)
	require.Len(t, c.Pairs, 2)

	le := c.Source.Lookup("le")
	require.NotEqual(t, vocab.Nil, le)
	assert.Equal(t, le, c.Pairs[0].F[0])
	assert.Equal(t, le, c.Pairs[1].F[0])
	assert.Equal(t, c.Target.Lookup("dog"), c.Pairs[1].E[1])

	// source and target namespaces are independent
	assert.Equal(t, 4, c.Source.Size()) // NULL, le, chat, chien
	assert.Equal(t, 4, c.Target.Size()) // NULL, the, cat, dog
}

func TestLoadLineCountMismatch(t *testing.T) {
	src := "le chat\nle chien\n"
	tgt := "the cat\n"

	_, err := Load(strings.NewReader(src), strings.NewReader(tgt))
	require.Error(t, err)
	assert.Equal(t, ErrMalformed, errors.Cause(err))
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadEmptySentence(t *testing.T) {
	src := "le chat\n\n"
	tgt := "the cat\nthe dog\n"

	_, err := Load(strings.NewReader(src), strings.NewReader(tgt))
	require.Error(t, err)
	assert.Equal(t, ErrMalformed, errors.Cause(err))
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "line 2")

	_, err = Load(strings.NewReader("le chat\n"), strings.NewReader("  \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestLoadEmptyCorpus(t *testing.T) {
	_, err := Load(strings.NewReader(""), strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, ErrMalformed, errors.Cause(err))
}
