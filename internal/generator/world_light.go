package generator

import "github.com/atlas-demo/atlas/internal/animation"

var WorldLightSchema = &animation.Schema{
	Name: "World Light",
	Groups: []animation.SchemaGroup{{
		Properties: []animation.SchemaProperty{
			{Name: "direction", Type: animation.TypeRotation},
			{Name: "color", Type: animation.TypeRgbaColor},
			{Name: "ambient", Type: animation.TypeFloat},
		},
	}},
	NewGenerator: func() animation.Generator { return &WorldLight{} },
}

func init() {
	Register(WorldLightSchema)
}

type WorldLight struct{}

func (g *WorldLight) Update(frame *animation.FrameContext, _ uint32, props animation.Properties) {
	rot := props.Rotation(0, 0)
	dir := rot.Rotate(animation.Vec3{X: 1})

	frame.Publish("light.direction", animation.Vec3Value(dir))
	frame.Publish("light.color", animation.RgbaValue(props.Rgba(0, 1).Premultiplied()))
	frame.Publish("light.ambient", animation.FloatValue(props.Float(0, 2)))
}
