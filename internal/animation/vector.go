package animation

import "github.com/go-gl/mathgl/mgl64"

// Vec2 is a two-component vector.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a three-component vector.
type Vec3 struct {
	X, Y, Z float64
}

// Vec4 is a four-component vector.
type Vec4 struct {
	X, Y, Z, W float64
}

// RgbColor is a color without alpha. Channels are nominally in [0, 1].
type RgbColor struct {
	R, G, B float64
}

// RgbaColor is a color with straight alpha.
type RgbaColor struct {
	R, G, B, A float64
}

// Quaternion is a rotation stored as (X, Y, Z, W) with W the real part.
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityRotation is the quaternion that applies no rotation.
var IdentityRotation = Quaternion{W: 1}

// Euler builds a rotation from angles in radians, applied in Z, Y, X order.
func Euler(x, y, z float64) Quaternion {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return fromQuat(qz.Mul(qy).Mul(qx))
}

func (q Quaternion) quat() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

func fromQuat(q mgl64.Quat) Quaternion {
	return Quaternion{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

func (v Vec3) vec() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromVec3(v mgl64.Vec3) Vec3 { return Vec3{X: v[0], Y: v[1], Z: v[2]} }

// Mul composes rotations: the result applies o first, then q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return fromQuat(q.quat().Mul(o.quat()))
}

// Rotate applies q to v. q is assumed to be normalized.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	return fromVec3(q.quat().Rotate(v.vec()))
}

// Len is the Euclidean norm of q.
func (q Quaternion) Len() float64 {
	return q.quat().Len()
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return fromVec3(v.vec().Add(o.vec()))
}

// Premultiplied scales the color channels by alpha.
func (c RgbaColor) Premultiplied() RgbaColor {
	return RgbaColor{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Slerp interpolates spherically from q to o along the shorter arc, so q and
// -q are treated as the same orientation. Nearly parallel inputs are
// lerped and normalized.
func (q Quaternion) Slerp(o Quaternion, t float64) Quaternion {
	a, b := q.quat(), o.quat()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return fromQuat(mgl64.QuatSlerp(a, b, t))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
