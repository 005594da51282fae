package animation

type nopGenerator struct{}

func (nopGenerator) Update(*FrameContext, uint32, Properties) {}

var testSchema = &Schema{
	Name: "Test",
	Groups: []SchemaGroup{
		{Properties: []SchemaProperty{
			{Name: "amount", Type: TypeFloat},
			{Name: "position", Type: TypeVec3},
		}},
		{Name: "look", Properties: []SchemaProperty{
			{Name: "tint", Type: TypeRgbaColor},
		}},
	},
	NewGenerator: func() Generator { return nopGenerator{} },
}

func generatorClip(id, offset, duration uint32) *Clip {
	return testSchema.Instantiate(id, offset, duration)
}

func animationClip(id, offset, duration uint32, anim *AnimationClip) *Clip {
	return &Clip{
		ID:             id,
		Name:           "anim",
		Schema:         AnimationSchema,
		Source:         AnimationSource(anim),
		OffsetFrames:   offset,
		DurationFrames: duration,
	}
}

// constant returns a field that holds v from its start.
func constant(v PropertyValue) AnimatedPropertyField {
	return AnimatedPropertyField{StartValue: v}
}

func ref(r ClipReference) *ClipReference { return &r }
