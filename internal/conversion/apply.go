package conversion

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/scigolib/mdf4/internal/block"
)

// Apply dispatches raw through r's cc_type. r == nil means the channel has
// no conversion: raw is returned unchanged.
func Apply(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	if r == nil {
		return raw, nil
	}

	switch r.Type {
	case block.CCIdentity:
		return raw, nil
	case block.CCLinear:
		return applyLinear(r, raw)
	case block.CCRational:
		return applyRational(r, raw)
	case block.CCAlgebraic:
		return applyAlgebraic(r, raw)
	case block.CCTableLookupInterp:
		return applyTableInterp(r, raw)
	case block.CCTableLookupNoInterp:
		return applyTableNoInterp(r, raw)
	case block.CCRangeLookup:
		return applyRangeLookup(r, raw)
	case block.CCValueToText:
		return applyValueToText(r, raw)
	case block.CCRangeToText:
		return applyRangeToText(r, raw)
	case block.CCTextToValue:
		return applyTextToValue(r, raw)
	case block.CCTextToText:
		return applyTextToText(r, raw)
	case block.CCBitfieldText:
		return applyBitfieldText(r, raw)
	default:
		return DecodedValue{}, fmt.Errorf("conversion: unknown cc_type %d", r.Type)
	}
}

func numericInput(raw DecodedValue) (float64, error) {
	x, ok := raw.AsFloat64()
	if !ok {
		return 0, fmt.Errorf("conversion: expected a numeric raw value, got kind %d", raw.Kind)
	}
	return x, nil
}

func applyLinear(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	if len(r.Val) < 2 {
		return DecodedValue{}, fmt.Errorf("conversion: linear needs 2 coefficients, got %d", len(r.Val))
	}
	return FloatValue(r.Val[0] + r.Val[1]*x), nil
}

func applyRational(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	if len(r.Val) < 6 {
		return DecodedValue{}, fmt.Errorf("conversion: rational needs 6 coefficients, got %d", len(r.Val))
	}
	c := r.Val
	num := c[0]*x*x + c[1]*x + c[2]
	den := c[3]*x*x + c[4]*x + c[5]
	if den == 0 {
		return DecodedValue{}, fmt.Errorf("conversion: rational denominator is zero at x=%v", x)
	}
	return FloatValue(num / den), nil
}

func applyAlgebraic(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	if len(r.Refs) == 0 {
		return DecodedValue{}, fmt.Errorf("conversion: algebraic needs a formula cc_ref")
	}

	program, err := expr.Compile(r.Refs[0].Text, expr.Env(map[string]float64{"X": 0}))
	if err != nil {
		return DecodedValue{}, fmt.Errorf("conversion: compile algebraic formula %q: %w", r.Refs[0].Text, err)
	}

	out, err := expr.Run(program, map[string]float64{"X": x})
	if err != nil {
		return DecodedValue{}, fmt.Errorf("conversion: evaluate algebraic formula: %w", err)
	}
	y, ok := out.(float64)
	if !ok {
		return DecodedValue{}, fmt.Errorf("conversion: algebraic formula did not evaluate to a number")
	}
	return FloatValue(y), nil
}

func applyTableInterp(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	pairs := len(r.Val) / 2
	if pairs == 0 || len(r.Val)%2 != 0 {
		return DecodedValue{}, fmt.Errorf("conversion: table interp needs an even, nonzero cc_val count, got %d", len(r.Val))
	}

	if x <= r.Val[0] {
		return FloatValue(r.Val[1]), nil
	}
	last := pairs - 1
	if x >= r.Val[2*last] {
		return FloatValue(r.Val[2*last+1]), nil
	}
	for i := 0; i < last; i++ {
		x0, y0 := r.Val[2*i], r.Val[2*i+1]
		x1, y1 := r.Val[2*(i+1)], r.Val[2*(i+1)+1]
		if x >= x0 && x <= x1 {
			if x1 == x0 {
				return FloatValue(y0), nil
			}
			t := (x - x0) / (x1 - x0)
			return FloatValue(y0 + t*(y1-y0)), nil
		}
	}
	return FloatValue(x), nil
}

func applyTableNoInterp(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	pairs := len(r.Val) / 2
	if pairs == 0 || len(r.Val)%2 != 0 {
		return DecodedValue{}, fmt.Errorf("conversion: table no-interp needs an even, nonzero cc_val count, got %d", len(r.Val))
	}

	best := -1
	for i := 0; i < pairs; i++ {
		xi := r.Val[2*i]
		if xi <= x && (best == -1 || xi > r.Val[2*best]) {
			best = i
		}
	}
	if best == -1 {
		return FloatValue(x), nil
	}
	return FloatValue(r.Val[2*best+1]), nil
}

func applyRangeLookup(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	if len(r.Val)%3 != 1 {
		return DecodedValue{}, fmt.Errorf("conversion: range lookup needs 3N+1 cc_val entries (lo, hi, y triples + default), got %d", len(r.Val))
	}
	ranges := (len(r.Val) - 1) / 3
	for i := 0; i < ranges; i++ {
		lo, hi, y := r.Val[3*i], r.Val[3*i+1], r.Val[3*i+2]
		if x >= lo && x <= hi {
			return FloatValue(y), nil
		}
	}
	return FloatValue(r.Val[len(r.Val)-1]), nil
}

func applyValueToText(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	if len(r.Refs) != len(r.Val)+1 {
		return DecodedValue{}, fmt.Errorf("conversion: value-to-text needs len(cc_ref) == len(cc_val)+1, got %d refs, %d values", len(r.Refs), len(r.Val))
	}
	for i, v := range r.Val {
		if v == x {
			return StringValue(r.Refs[i].Text), nil
		}
	}
	return StringValue(r.Refs[len(r.Refs)-1].Text), nil
}

func applyRangeToText(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	ranges := len(r.Val) / 2
	if len(r.Val)%2 != 0 || len(r.Refs) != ranges+1 {
		return DecodedValue{}, fmt.Errorf("conversion: range-to-text needs 2N cc_val and N+1 cc_ref")
	}
	for i := 0; i < ranges; i++ {
		lo, hi := r.Val[2*i], r.Val[2*i+1]
		if x >= lo && x <= hi {
			return StringValue(r.Refs[i].Text), nil
		}
	}
	return StringValue(r.Refs[len(r.Refs)-1].Text), nil
}

func applyTextToValue(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	if raw.Kind != KindString {
		return DecodedValue{}, fmt.Errorf("conversion: text-to-value needs a string raw value, got kind %d", raw.Kind)
	}
	n := len(r.Refs)
	if len(r.Val) != n+1 {
		return DecodedValue{}, fmt.Errorf("conversion: text-to-value needs len(cc_val) == len(cc_ref)+1, got %d values, %d refs", len(r.Val), n)
	}
	for i, ref := range r.Refs {
		if ref.Text == raw.Str {
			return FloatValue(r.Val[i]), nil
		}
	}
	return FloatValue(r.Val[n]), nil
}

func applyTextToText(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	if raw.Kind != KindString {
		return DecodedValue{}, fmt.Errorf("conversion: text-to-text needs a string raw value, got kind %d", raw.Kind)
	}
	if len(r.Refs) < 1 || len(r.Refs)%2 != 1 {
		return DecodedValue{}, fmt.Errorf("conversion: text-to-text needs 2N+1 cc_ref, got %d", len(r.Refs))
	}
	n := (len(r.Refs) - 1) / 2
	for i := 0; i < n; i++ {
		if r.Refs[i].Text == raw.Str {
			return StringValue(r.Refs[n+i].Text), nil
		}
	}
	return StringValue(r.Refs[len(r.Refs)-1].Text), nil
}

func applyBitfieldText(r *Resolved, raw DecodedValue) (DecodedValue, error) {
	x, err := numericInput(raw)
	if err != nil {
		return DecodedValue{}, err
	}
	bits := uint64(x)

	pairs := len(r.Val) / 2
	if pairs == 0 || len(r.Val)%2 != 0 || len(r.Refs) != pairs {
		return DecodedValue{}, fmt.Errorf("conversion: bitfield-text needs 2N cc_val and N cc_ref")
	}

	var matched []string
	for i := 0; i < pairs; i++ {
		mask := math.Float64bits(r.Val[2*i])
		cmp := math.Float64bits(r.Val[2*i+1])
		if bits&mask == cmp {
			matched = append(matched, r.Refs[i].Text)
		}
	}
	return StringValue(strings.Join(matched, "|")), nil
}
