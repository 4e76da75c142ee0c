package baserow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Baserow reports numeric cells as a JSON number, as a number inside a
// string ("10.00"), or as null. The Decode functions below normalize all
// three encodings; everything else is ErrInvalidNumber.

// DecodeInt decodes a signed integer cell.
func DecodeInt(data []byte) (Option[int64], error) {
	d, ok, err := decodeDecimal(data)
	if err != nil || !ok {
		return None[int64](), err
	}
	if !d.IsInteger() {
		return None[int64](), fmt.Errorf("%w: %s is not an integer", ErrInvalidNumber, d)
	}
	b := d.BigInt()
	if !b.IsInt64() {
		return None[int64](), fmt.Errorf("%w: %s overflows int64", ErrInvalidNumber, d)
	}
	return Some(b.Int64()), nil
}

// DecodeUint decodes a non-negative integer cell.
func DecodeUint(data []byte) (Option[uint64], error) {
	d, ok, err := decodeDecimal(data)
	if err != nil || !ok {
		return None[uint64](), err
	}
	if !d.IsInteger() {
		return None[uint64](), fmt.Errorf("%w: %s is not an integer", ErrInvalidNumber, d)
	}
	if d.Sign() < 0 {
		return None[uint64](), fmt.Errorf("%w: %s is negative", ErrInvalidNumber, d)
	}
	b := d.BigInt()
	if !b.IsUint64() {
		return None[uint64](), fmt.Errorf("%w: %s overflows uint64", ErrInvalidNumber, d)
	}
	return Some(b.Uint64()), nil
}

// DecodeFloat decodes a decimal or floating point cell.
func DecodeFloat(data []byte) (Option[float64], error) {
	d, ok, err := decodeDecimal(data)
	if err != nil || !ok {
		return None[float64](), err
	}
	f, _ := d.Float64()
	return Some(f), nil
}

// decodeDecimal returns ok=false for null.
func decodeDecimal(data []byte) (decimal.Decimal, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return decimal.Zero, false, fmt.Errorf("%w: empty input", ErrInvalidNumber)
	}
	if isNull(data) {
		return decimal.Zero, false, nil
	}

	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return decimal.Zero, false, fmt.Errorf("%w: %s", ErrInvalidNumber, data)
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return d, true, nil
}

// Int is an optional signed integer cell.
type Int struct{ Option[int64] }

// Uint is an optional non-negative integer cell.
type Uint struct{ Option[uint64] }

// Float is an optional floating point cell.
type Float struct{ Option[float64] }

func SomeInt(v int64) Int { return Int{Some(v)} }
func SomeUint(v uint64) Uint { return Uint{Some(v)} }
func SomeFloat(v float64) Float { return Float{Some(v)} }

func (n *Int) UnmarshalJSON(data []byte) error {
	v, err := DecodeInt(data)
	if err != nil {
		return err
	}
	n.Option = v
	return nil
}

func (n *Uint) UnmarshalJSON(data []byte) error {
	v, err := DecodeUint(data)
	if err != nil {
		return err
	}
	n.Option = v
	return nil
}

func (n *Float) UnmarshalJSON(data []byte) error {
	v, err := DecodeFloat(data)
	if err != nil {
		return err
	}
	n.Option = v
	return nil
}
