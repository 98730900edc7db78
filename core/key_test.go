package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-depot/core"
)

func TestKeys(t *testing.T) {
	t.Run("int keys are 4 little-endian bytes", func(t *testing.T) {
		assert.Equal(t, []byte{0x2A, 0, 0, 0}, core.IntKey(42).Bytes())
		assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, core.IntKey(-1).Bytes())
		assert.Equal(t, core.KindInt, core.IntKey(1).Kind())
	})

	t.Run("string keys are one byte per character", func(t *testing.T) {
		k, err := core.StringKey("depot")
		require.NoError(t, err)
		assert.Equal(t, []byte("depot"), k.Bytes())
		assert.Equal(t, core.KindString, k.Kind())
	})

	t.Run("non ASCII string keys are refused", func(t *testing.T) {
		_, err := core.StringKey("dépôt")
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("equality is on raw bytes", func(t *testing.T) {
		s, err := core.StringKey("*\x00\x00\x00")
		require.NoError(t, err)
		assert.True(t, s.Equal(core.IntKey(42)))
		assert.True(t, core.BytesKey([]byte{0x2A, 0, 0, 0}).Equal(core.IntKey(42)))
		assert.False(t, core.IntKey(43).Equal(core.IntKey(42)))
	})

	t.Run("hashes", func(t *testing.T) {
		assert.Equal(t, int32(1185993536), core.IntKey(42).PrimaryHash())
		assert.Equal(t, int32(1540847051), core.IntKey(42).SecondaryHash())

		k, err := core.StringKey("depot")
		require.NoError(t, err)
		assert.Equal(t, int32(1261398979), k.PrimaryHash())
		assert.Equal(t, int32(156409765), k.SecondaryHash())
	})
}

func TestKeyString(t *testing.T) {
	abc, err := core.StringKey("abc")
	require.NoError(t, err)

	tests := []struct {
		name string
		key  core.Key
		want string
	}{
		{"int", core.IntKey(42), "42"},
		{"negative int", core.IntKey(-1), "-1"},
		{"string", abc, "abc"},
		{"bytes without zero padding", core.BytesKey([]byte{0x0A, 0xFF, 0x01}), "AFF1"},
		{"empty bytes", core.BytesKey(nil), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}
