package generator

import (
	"math"

	"github.com/atlas-demo/atlas/internal/animation"
)

var PerspectiveCameraSchema = &animation.Schema{
	Name: "Perspective Camera",
	Groups: []animation.SchemaGroup{{
		Properties: []animation.SchemaProperty{
			{Name: "base pos", Type: animation.TypeVec3},
			{Name: "gimbal dir", Type: animation.TypeRotation},
			{Name: "arm length", Type: animation.TypeFloat},
			{Name: "head dir", Type: animation.TypeRotation},
			{Name: "fov", Type: animation.TypeFloat},
			{Name: "z range", Type: animation.TypeVec2},
		},
	}},
	NewGenerator: func() animation.Generator { return &PerspectiveCamera{} },
}

func init() {
	Register(PerspectiveCameraSchema)
}

// PerspectiveCamera orbits a base position on a gimbal arm and looks along
// the gimbal rotation combined with its head rotation.
type PerspectiveCamera struct {
	Position  animation.Vec3
	Direction animation.Quaternion
	FovRad    float64
	NearZ     float64
	FarZ      float64
}

func (g *PerspectiveCamera) Update(frame *animation.FrameContext, _ uint32, props animation.Properties) {
	base := props.Vec3(0, 0)
	gimbal := props.Rotation(0, 1)
	arm := props.Float(0, 2)
	head := props.Rotation(0, 3)
	zRange := props.Vec2(0, 5)

	g.Position = base.Add(gimbal.Rotate(animation.Vec3{Z: -arm}))
	g.Direction = gimbal.Mul(head)
	g.FovRad = props.Float(0, 4) * math.Pi / 180
	g.NearZ, g.FarZ = zRange.X, zRange.Y

	frame.Publish("camera.position", animation.Vec3Value(g.Position))
	frame.Publish("camera.direction", animation.RotationValue(g.Direction))
	frame.Publish("camera.fov", animation.FloatValue(g.FovRad))
	frame.Publish("camera.z_range", animation.Vec2Value(zRange))
}
