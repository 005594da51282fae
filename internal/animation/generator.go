package animation

// Generator produces content from the resolved properties of its clip.
type Generator interface {
	Update(frame *FrameContext, localFrame uint32, props Properties)
}

// GeneratorClipMap looks up the generator behind an active clip.
type GeneratorClipMap interface {
	Generator(ref ClipReference) (Generator, bool)
}

// FrameContext is shared by every generator updated for one frame.
// Generators publish the state a renderer would consume into Outputs.
type FrameContext struct {
	Frame     uint32
	FrameRate float64
	Outputs   map[string]PropertyValue
}

func NewFrameContext(frame uint32, frameRate float64) *FrameContext {
	return &FrameContext{Frame: frame, FrameRate: frameRate, Outputs: make(map[string]PropertyValue)}
}

// Publish records a resolved output under key.
func (f *FrameContext) Publish(key string, v PropertyValue) {
	f.Outputs[key] = v
}

// Seconds converts a frame number to seconds at the context frame rate.
func (f *FrameContext) Seconds(frame uint32) float64 {
	if f.FrameRate <= 0 {
		return 0
	}
	return float64(frame) / f.FrameRate
}
