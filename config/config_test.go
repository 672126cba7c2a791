package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesOnlyNamedFields(t *testing.T) {
	opts, err := Load([]byte("minimumSimilarity: 0.9\nnumHashes: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.9, opts.MinimumSimilarity)
	assert.Equal(t, 64, opts.NumHashes)
	assert.Equal(t, 5, opts.ShingleSize) // untouched default
}

func TestMarshal_RoundTripsThroughLoad(t *testing.T) {
	original := DefaultOptions()
	original.MinimumTokens = 77

	data, err := original.Marshal()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
