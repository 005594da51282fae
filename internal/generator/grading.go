package generator

import "github.com/atlas-demo/atlas/internal/animation"

var GradingSchema = &animation.Schema{
	Name: "Grading",
	Groups: []animation.SchemaGroup{
		{
			Name: "camera",
			Properties: []animation.SchemaProperty{
				{Name: "exposure", Type: animation.TypeFloat},
				{Name: "vignette offset", Type: animation.TypeVec2},
				{Name: "vignette strength", Type: animation.TypeFloat},
				{Name: "fade", Type: animation.TypeFloat},
			},
		},
		{
			Name: "grading",
			Properties: []animation.SchemaProperty{
				{Name: "curve", Type: animation.TypeVec3},
				{Name: "gradient a", Type: animation.TypeRgbaColor},
				{Name: "gradient b", Type: animation.TypeRgbaColor},
			},
		},
	},
	NewGenerator: func() animation.Generator { return &Grading{} },
}

func init() {
	Register(GradingSchema)
}

// Grading is a post effect; it forwards its parameters to the frame.
type Grading struct{}

func (g *Grading) Update(frame *animation.FrameContext, _ uint32, props animation.Properties) {
	frame.Publish("grading.exposure", animation.FloatValue(props.Float(0, 0)))
	frame.Publish("grading.vignette_offset", animation.Vec2Value(props.Vec2(0, 1)))
	frame.Publish("grading.vignette_strength", animation.FloatValue(props.Float(0, 2)))
	frame.Publish("grading.fade", animation.FloatValue(props.Float(0, 3)))
	frame.Publish("grading.curve", animation.Vec3Value(props.Vec3(1, 0)))
	frame.Publish("grading.gradient_a", animation.RgbaValue(props.Rgba(1, 1)))
	frame.Publish("grading.gradient_b", animation.RgbaValue(props.Rgba(1, 2)))
}
