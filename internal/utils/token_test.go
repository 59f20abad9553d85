package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomTokenHex(t *testing.T) {
	tok, err := RandomTokenHex(16)
	require.NoError(t, err)

	assert.Len(t, tok, 32)
	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)
}
