// SPDX-License-Identifier: MIT

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRoundtrip(t *testing.T) {
	data := encodeCallback(cbStop, "f", "o", "i", "12")
	assert.Equal(t, "st:f=o;i=12", data)
	assert.LessOrEqual(t, len(data), 64)

	cd, err := decodeCallback(data)
	require.NoError(t, err)
	assert.Equal(t, cbStop, cd.prefix)
	assert.Equal(t, "o", cd.str("f"))

	i, err := cd.num("i")
	require.NoError(t, err)
	assert.Equal(t, 12, i)
}

func TestCallbackNoArgs(t *testing.T) {
	cd, err := decodeCallback(encodeCallback(cbNoop))
	require.NoError(t, err)
	assert.Equal(t, cbNoop, cd.prefix)
	assert.Empty(t, cd.args)
}

func TestCallbackMalformed(t *testing.T) {
	for _, data := range []string{"", "rt:novalue", "rt:=x", "rt:a=b;broken"} {
		_, err := decodeCallback(data)
		assert.ErrorIs(t, err, errBadCallback, "data %q", data)
	}
}

func TestCallbackMissingNum(t *testing.T) {
	cd, err := decodeCallback("st:f=o")
	require.NoError(t, err)

	_, err = cd.num("i")
	assert.ErrorIs(t, err, errBadCallback)

	cd, err = decodeCallback("st:i=abc")
	require.NoError(t, err)
	_, err = cd.num("i")
	assert.ErrorIs(t, err, errBadCallback)
}
