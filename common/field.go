package common

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FieldBytes is the size of a canonical big-endian field element encoding.
const FieldBytes = fr.Bytes

func FieldFromUint64(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// FieldToUint64 reports ok=false when e is not a small non-negative integer,
// which is how a wrapped subtraction (moving off the top row) shows up.
func FieldToUint64(e fr.Element) (uint64, bool) {
	if !e.IsUint64() {
		return 0, false
	}
	return e.Uint64(), true
}

func FieldHex(e fr.Element) string {
	b := e.Bytes()
	return Bytes2Hex(b[:])
}

// FieldFromHex rejects encodings that are not canonical (>= modulus).
func FieldFromHex(s string) (fr.Element, error) {
	var e fr.Element
	b, err := Hex2Bytes(s)
	if err != nil {
		return e, err
	}
	if len(b) > FieldBytes {
		return e, fmt.Errorf("field: %d bytes exceeds %d", len(b), FieldBytes)
	}
	padded := make([]byte, FieldBytes)
	copy(padded[FieldBytes-len(b):], b)
	if err := e.SetBytesCanonical(padded); err != nil {
		return e, err
	}
	return e, nil
}

// FieldShort renders small values as integers and everything else as hex.
func FieldShort(e fr.Element) string {
	if v, ok := FieldToUint64(e); ok {
		return fmt.Sprintf("%d", v)
	}
	s := FieldHex(e)
	return s[:10] + ".." + s[len(s)-4:]
}

// Field is the JSON form of a field element: 0x-prefixed 32-byte big-endian hex.
type Field fr.Element

func (f Field) Element() fr.Element { return fr.Element(f) }

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(FieldHex(fr.Element(f)))
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	e, err := FieldFromHex(s)
	if err != nil {
		return err
	}
	*f = Field(e)
	return nil
}
