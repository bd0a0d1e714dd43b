package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flavor string

const (
	flavorPlain flavor = "plain"
	flavorSpicy flavor = "spicy"
)

func newFlavorNormalizer() *Normalizer[flavor] {
	return NewNormalizer(map[string]flavor{
		"plain": flavorPlain,
		"Spicy": flavorSpicy,
	}, flavorPlain)
}

func TestNormalizeWithError_CleansInput(t *testing.T) {
	n := newFlavorNormalizer()
	v, err := n.NormalizeWithError("  SPICY ")
	require.NoError(t, err)
	assert.Equal(t, flavorSpicy, v)
}

func TestNormalizeWithError(t *testing.T) {
	n := newFlavorNormalizer()

	v, err := n.NormalizeWithError("spicy")
	require.NoError(t, err)
	assert.Equal(t, flavorSpicy, v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, flavorPlain, v)

	_, err = n.NormalizeWithError("sweet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[plain spicy]")
}
