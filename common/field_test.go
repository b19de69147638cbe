package common

import (
	"encoding/json"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldToUint64Wrapped(t *testing.T) {
	var e fr.Element
	e.Sub(&e, new(fr.Element).SetUint64(50))
	_, ok := FieldToUint64(e)
	assert.False(t, ok)

	v, ok := FieldToUint64(FieldFromUint64(2499))
	require.True(t, ok)
	assert.Equal(t, uint64(2499), v)
}

func TestFieldHexRoundTrip(t *testing.T) {
	var e fr.Element
	e.SetRandom()
	back, err := FieldFromHex(FieldHex(e))
	require.NoError(t, err)
	assert.True(t, back.Equal(&e))

	short, err := FieldFromHex("0x2a")
	require.NoError(t, err)
	assert.Equal(t, "42", FieldShort(short))
}

func TestFieldFromHexRejectsModulus(t *testing.T) {
	mod := fr.Modulus().Bytes()
	_, err := FieldFromHex(Bytes2Hex(mod))
	assert.Error(t, err)
}

func TestFieldJSON(t *testing.T) {
	in := Field(FieldFromUint64(35))
	b, err := json.Marshal(in)
	require.NoError(t, err)
	var out Field
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
