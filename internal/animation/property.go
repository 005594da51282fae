package animation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrTypeMismatch is returned when two values of different property types
	// are combined, or a value does not have the type its slot expects.
	ErrTypeMismatch = errors.New("property type mismatch")

	// ErrNotEnoughFields is returned by FromFields when the scalar source is
	// exhausted before the target type is complete.
	ErrNotEnoughFields = errors.New("not enough fields for property type")

	// ErrNoSuchProperty is returned when a (group, property) pair is outside
	// the shape of the clip it addresses.
	ErrNoSuchProperty = errors.New("no such property")
)

// PropertyType is the tag of a PropertyValue.
type PropertyType uint8

const (
	TypeFloat PropertyType = iota
	TypeVec2
	TypeVec3
	TypeVec4
	TypeRotation
	TypeRgbColor
	TypeRgbaColor
)

var propertyTypeNames = [...]string{
	TypeFloat:     "float",
	TypeVec2:      "vec2",
	TypeVec3:      "vec3",
	TypeVec4:      "vec4",
	TypeRotation:  "rotation",
	TypeRgbColor:  "rgb",
	TypeRgbaColor: "rgba",
}

func (t PropertyType) String() string {
	if int(t) < len(propertyTypeNames) {
		return propertyTypeNames[t]
	}
	return fmt.Sprintf("PropertyType(%d)", uint8(t))
}

// ParsePropertyType is the inverse of PropertyType.String.
func ParsePropertyType(s string) (PropertyType, error) {
	for i, name := range propertyTypeNames {
		if strings.EqualFold(s, name) {
			return PropertyType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property type %q", s)
}

// NumFields returns how many scalar components make up a value of this type.
func (t PropertyType) NumFields() int {
	switch t {
	case TypeFloat:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3, TypeRgbColor:
		return 3
	case TypeVec4, TypeRotation, TypeRgbaColor:
		return 4
	default:
		return 0
	}
}

// DefaultValue is the value a freshly instantiated property of this type
// holds. Colors default to magenta so unset colors stand out.
func (t PropertyType) DefaultValue() PropertyValue {
	switch t {
	case TypeRgbColor:
		return RgbValue(RgbColor{R: 1, G: 0, B: 1})
	case TypeRgbaColor:
		return RgbaValue(RgbaColor{R: 1, G: 0, B: 1, A: 1})
	case TypeRotation:
		return RotationValue(IdentityRotation)
	default:
		return PropertyValue{typ: t}
	}
}

// ValueRange returns the range an editor should offer for the components of
// this type, if it has one.
func (t PropertyType) ValueRange() (lo, hi float64, ok bool) {
	switch t {
	case TypeRgbColor, TypeRgbaColor:
		return 0, 1, true
	case TypeRotation:
		return -1, 1, true
	default:
		return 0, 0, false
	}
}

// PropertyValue is one of Float, Vec2, Vec3, Vec4, Rotation, RgbColor or
// RgbaColor. The zero value is Float(0).
type PropertyValue struct {
	typ PropertyType
	c   [4]float64
}

func FloatValue(v float64) PropertyValue {
	return PropertyValue{typ: TypeFloat, c: [4]float64{v}}
}

func Vec2Value(v Vec2) PropertyValue {
	return PropertyValue{typ: TypeVec2, c: [4]float64{v.X, v.Y}}
}

func Vec3Value(v Vec3) PropertyValue {
	return PropertyValue{typ: TypeVec3, c: [4]float64{v.X, v.Y, v.Z}}
}

func Vec4Value(v Vec4) PropertyValue {
	return PropertyValue{typ: TypeVec4, c: [4]float64{v.X, v.Y, v.Z, v.W}}
}

func RotationValue(q Quaternion) PropertyValue {
	return PropertyValue{typ: TypeRotation, c: [4]float64{q.X, q.Y, q.Z, q.W}}
}

func RgbValue(c RgbColor) PropertyValue {
	return PropertyValue{typ: TypeRgbColor, c: [4]float64{c.R, c.G, c.B}}
}

func RgbaValue(c RgbaColor) PropertyValue {
	return PropertyValue{typ: TypeRgbaColor, c: [4]float64{c.R, c.G, c.B, c.A}}
}

// Type returns the variant tag of v.
func (v PropertyValue) Type() PropertyType {
	return v.typ
}

// Float returns the payload of a Float value. It fails for every other
// variant, including single-component ones.
func (v PropertyValue) Float() (float64, bool) {
	if v.typ != TypeFloat {
		return 0, false
	}
	return v.c[0], true
}

func (v PropertyValue) Vec2() (Vec2, bool) {
	if v.typ != TypeVec2 {
		return Vec2{}, false
	}
	return Vec2{X: v.c[0], Y: v.c[1]}, true
}

func (v PropertyValue) Vec3() (Vec3, bool) {
	if v.typ != TypeVec3 {
		return Vec3{}, false
	}
	return Vec3{X: v.c[0], Y: v.c[1], Z: v.c[2]}, true
}

func (v PropertyValue) Vec4() (Vec4, bool) {
	if v.typ != TypeVec4 {
		return Vec4{}, false
	}
	return Vec4{X: v.c[0], Y: v.c[1], Z: v.c[2], W: v.c[3]}, true
}

func (v PropertyValue) Rotation() (Quaternion, bool) {
	if v.typ != TypeRotation {
		return Quaternion{}, false
	}
	return Quaternion{X: v.c[0], Y: v.c[1], Z: v.c[2], W: v.c[3]}, true
}

func (v PropertyValue) Rgb() (RgbColor, bool) {
	if v.typ != TypeRgbColor {
		return RgbColor{}, false
	}
	return RgbColor{R: v.c[0], G: v.c[1], B: v.c[2]}, true
}

func (v PropertyValue) Rgba() (RgbaColor, bool) {
	if v.typ != TypeRgbaColor {
		return RgbaColor{}, false
	}
	return RgbaColor{R: v.c[0], G: v.c[1], B: v.c[2], A: v.c[3]}, true
}

// Fields decomposes v into its scalar components in the same order FromFields
// consumes them: x, y, z, w for vectors and rotations, r, g, b, a for colors.
func (v PropertyValue) Fields() []float64 {
	n := v.typ.NumFields()
	out := make([]float64, n)
	copy(out, v.c[:n])
	return out
}

// FromFields builds a value of type t by pulling exactly t.NumFields()
// scalars from next.
func FromFields(t PropertyType, next func() (float64, bool)) (PropertyValue, error) {
	n := t.NumFields()
	if n == 0 {
		return PropertyValue{}, fmt.Errorf("%w: %s", ErrTypeMismatch, t)
	}

	v := PropertyValue{typ: t}
	for i := 0; i < n; i++ {
		f, ok := next()
		if !ok {
			return PropertyValue{}, fmt.Errorf("%w: %s needs %d, got %d", ErrNotEnoughFields, t, n, i)
		}
		v.c[i] = f
	}
	return v, nil
}

// FieldsOf returns a scalar source over values for use with FromFields.
func FieldsOf(values []float64) func() (float64, bool) {
	i := 0
	return func() (float64, bool) {
		if i >= len(values) {
			return 0, false
		}
		f := values[i]
		i++
		return f, true
	}
}

// Lerp interpolates from a to b by t. Rotations are interpolated spherically,
// everything else component-wise.
func Lerp(a, b PropertyValue, t float64) (PropertyValue, error) {
	if a.typ != b.typ {
		return PropertyValue{}, fmt.Errorf("%w: cannot lerp %s to %s", ErrTypeMismatch, a.typ, b.typ)
	}

	if a.typ == TypeRotation {
		qa, _ := a.Rotation()
		qb, _ := b.Rotation()
		return RotationValue(qa.Slerp(qb, t)), nil
	}

	out := PropertyValue{typ: a.typ}
	for i := 0; i < a.typ.NumFields(); i++ {
		out.c[i] = lerp(a.c[i], b.c[i], t)
	}
	return out, nil
}

// ApproxEqual reports whether a and b have the same type and every component
// differs by at most eps.
func ApproxEqual(a, b PropertyValue, eps float64) bool {
	if a.typ != b.typ {
		return false
	}
	for i := 0; i < a.typ.NumFields(); i++ {
		if math.Abs(a.c[i]-b.c[i]) > eps {
			return false
		}
	}
	return true
}

func (v PropertyValue) String() string {
	parts := make([]string, 0, 4)
	for _, f := range v.Fields() {
		parts = append(parts, fmt.Sprintf("%g", f))
	}
	return fmt.Sprintf("%s(%s)", v.typ, strings.Join(parts, ", "))
}
