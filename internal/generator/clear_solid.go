package generator

import "github.com/atlas-demo/atlas/internal/animation"

var ClearSolidSchema = &animation.Schema{
	Name: "Clear Solid",
	Groups: []animation.SchemaGroup{{
		Properties: []animation.SchemaProperty{
			{Name: "color", Type: animation.TypeRgbaColor},
		},
	}},
	NewGenerator: func() animation.Generator { return &ClearSolid{} },
}

func init() {
	Register(ClearSolidSchema)
}

// ClearSolid fills the frame with a single color.
type ClearSolid struct{}

func (g *ClearSolid) Update(frame *animation.FrameContext, _ uint32, props animation.Properties) {
	frame.Publish("clear.color", animation.RgbaValue(props.Rgba(0, 0)))
}
