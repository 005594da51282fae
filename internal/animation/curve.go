package animation

import "fmt"

// InterpolationKind selects how a CurveSegment eases between its endpoints.
type InterpolationKind uint8

const (
	InterpolationLinear InterpolationKind = iota
	InterpolationCubicBezier
)

// CurveInterpolation maps segment progress in [0, 1] to a blend factor.
type CurveInterpolation struct {
	Kind   InterpolationKind
	Bezier *CubicBezier
}

// Linear is the identity interpolation.
func Linear() CurveInterpolation {
	return CurveInterpolation{Kind: InterpolationLinear}
}

// Bezier eases with a cubic bezier through the given control points.
func Bezier(c1, c2 Vec2) CurveInterpolation {
	return CurveInterpolation{Kind: InterpolationCubicBezier, Bezier: NewCubicBezier(c1, c2)}
}

func (ci CurveInterpolation) Eval(t float64) float64 {
	if ci.Kind == InterpolationCubicBezier && ci.Bezier != nil {
		return ci.Bezier.YAt(t)
	}
	return t
}

func (ci CurveInterpolation) IsLinear() bool { return ci.Kind == InterpolationLinear }

// CurveSegment moves from the previous segment's end value (or the field's
// start value) to EndValue over DurationFrames.
type CurveSegment struct {
	DurationFrames uint32
	EndValue       PropertyValue
	Interpolation  CurveInterpolation
}

// AnimatedPropertyField is a piecewise curve over clip-local time.
type AnimatedPropertyField struct {
	// LocalOffsetFrames shifts the curve start relative to the clip start.
	LocalOffsetFrames int32
	StartValue        PropertyValue
	Segments          []CurveSegment
}

// DurationFrames is the total length of all segments.
func (f *AnimatedPropertyField) DurationFrames() uint32 {
	var total uint32
	for _, s := range f.Segments {
		total += s.DurationFrames
	}
	return total
}

// Type is the property type the field produces.
func (f *AnimatedPropertyField) Type() PropertyType {
	return f.StartValue.Type()
}

// Validate checks that every segment ends on a value of the start type.
func (f *AnimatedPropertyField) Validate() error {
	for i, s := range f.Segments {
		if s.EndValue.Type() != f.StartValue.Type() {
			return fmt.Errorf("segment %d: %w: end value is %s, curve is %s",
				i, ErrTypeMismatch, s.EndValue.Type(), f.StartValue.Type())
		}
	}
	return nil
}

// Sample evaluates the field at clip-local time t (in frames). Before the
// offset the start value is held; past the last segment its end value is.
func (f *AnimatedPropertyField) Sample(t float64) (PropertyValue, error) {
	local := t - float64(f.LocalOffsetFrames)
	if local < 0 {
		return f.StartValue, nil
	}

	prev := f.StartValue
	var elapsed float64
	for _, s := range f.Segments {
		end := elapsed + float64(s.DurationFrames)
		if local < end {
			if s.DurationFrames == 0 {
				return s.EndValue, nil
			}
			progress := (local - elapsed) / float64(s.DurationFrames)
			return Lerp(prev, s.EndValue, s.Interpolation.Eval(progress))
		}

		prev = s.EndValue
		elapsed = end
	}

	return prev, nil
}
