package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quantity is an exact decimal amount of stock or money.
// It encodes as a plain JSON number and as a BSON Decimal128. Parsed values
// are limited to what a Decimal128 holds: 34 significant digits and an
// exponent within [-6176, 6111].
type Quantity struct {
	value decimal.Decimal
}

// Q builds a Quantity from a float or integer literal.
func Q[T float64 | int | int64](v T) Quantity {
	switch x := any(v).(type) {
	case float64:
		return Quantity{value: decimal.NewFromFloat(x)}
	case int:
		return Quantity{value: decimal.NewFromInt(int64(x))}
	case int64:
		return Quantity{value: decimal.NewFromInt(x)}
	default:
		panic("unsupported type")
	}
}

// ParseQuantity parses a decimal string such as "12.5".
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	if _, ok := toDecimal128(d); !ok {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, ErrQuantityRange)
	}
	return Quantity{value: d}, nil
}

func (q Quantity) Add(p Quantity) Quantity { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) Mul(p Quantity) Quantity { return Quantity{value: q.value.Mul(p.value)} }
func (q Quantity) Equal(p Quantity) bool   { return q.value.Equal(p.value) }
func (q Quantity) IsNegative() bool        { return q.value.IsNegative() }
func (q Quantity) String() string          { return q.value.String() }

// Float64 returns the nearest float64 value.
func (q Quantity) Float64() float64 {
	f, _ := q.value.Float64()
	return f
}

// MarshalJSON writes the quantity as an unquoted JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted decimal strings.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	if _, ok := toDecimal128(d); !ok {
		return fmt.Errorf("quantity %s: %w", b, ErrQuantityRange)
	}
	q.value = d
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (q Quantity) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, ok := toDecimal128(q.value)
	if !ok {
		return 0, nil, fmt.Errorf("encode quantity %s: %w", q.value, ErrQuantityRange)
	}
	return bson.MarshalValue(d)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, bool) {
	return primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler. Numeric BSON types other
// than Decimal128 are accepted so that hand-edited documents still load.
func (q *Quantity) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode quantity: %w", err)
		}
		q.value = d
	case bsontype.Double:
		q.value = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		q.value = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		q.value = decimal.NewFromInt(raw.Int64())
	case bsontype.String:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return fmt.Errorf("decode quantity: %w", err)
		}
		q.value = d
	default:
		return fmt.Errorf("decode quantity: unsupported bson type %s", t)
	}
	return nil
}
