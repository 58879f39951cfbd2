// Package conversion implements the cc_type dispatch table applied to a
// channel's decoded raw value, and the cc_ref dependency resolver that
// flattens a chain of ##CC blocks (and the ##TX/##MD text they reference)
// into a file-independent tree so Apply never touches the file again.
package conversion

// ValueKind discriminates DecodedValue's active field.
type ValueKind uint8

const (
	KindUnsignedInteger ValueKind = iota
	KindSignedInteger
	KindFloat
	KindString
	KindByteArray
	KindMimeSample
	KindMimeStream
	KindUnknown
)

// DecodedValue is the tagged union produced by the record decoder and
// consumed (or passed through) by Apply.
type DecodedValue struct {
	Kind  ValueKind
	Uint  uint64
	Int   int64
	Float float64
	Str   string
	Bytes []byte
}

func Unsigned(v uint64) DecodedValue { return DecodedValue{Kind: KindUnsignedInteger, Uint: v} }
func Signed(v int64) DecodedValue    { return DecodedValue{Kind: KindSignedInteger, Int: v} }
func FloatValue(v float64) DecodedValue { return DecodedValue{Kind: KindFloat, Float: v} }
func StringValue(v string) DecodedValue { return DecodedValue{Kind: KindString, Str: v} }
func ByteArray(v []byte) DecodedValue   { return DecodedValue{Kind: KindByteArray, Bytes: v} }

// AsFloat64 returns v's numeric reading regardless of which integer/float
// field is populated. It returns false for string/byte-array/unknown kinds.
func (v DecodedValue) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindUnsignedInteger:
		return float64(v.Uint), true
	case KindSignedInteger:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}
