package animation

import (
	"errors"
	"testing"

	"github.com/atlas-demo/atlas/internal/logging"
)

func testCoalescer() *Coalescer {
	return NewCoalescer(logging.Discard())
}

// twoWriters builds a timeline where clip 0 is a generator and clips 1 and 2
// are animations, on later tracks, writing 1.0 and 2.0 into its amount.
func twoWriters() *Timeline {
	return &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 0, 100)}},
		{Clips: []*Clip{animationClip(1, 0, 100, &AnimationClip{
			Target: 0,
			Properties: []AnimatedProperty{
				{Group: 0, Property: 0, Target: Joined(constant(FloatValue(1)))},
			},
		})}},
		{Clips: []*Clip{animationClip(2, 0, 100, &AnimationClip{
			Target: 0,
			Properties: []AnimatedProperty{
				{Group: 0, Property: 0, Target: Joined(constant(FloatValue(2)))},
			},
		})}},
	}}
}

func amountSlot(t *testing.T, m ActiveClipMap, target ClipReference) ClipPropertyValue {
	t.Helper()
	i, ok := m.ClipIndex(target)
	if !ok {
		t.Fatalf("clip %d not active", target)
	}
	return m.ActiveClips()[i].Properties[0][0]
}

func TestCoalesce_LaterClipWins(t *testing.T) {
	tl := twoWriters()
	m := NewEditorClipMap(tl, 10)

	if errs := testCoalescer().Coalesce(tl, m); len(errs) != 0 {
		t.Fatalf("Coalesce() errors = %v", errs)
	}

	slot := amountSlot(t, m, 0)
	if got, _ := slot.Value.Float(); got != 2 {
		t.Errorf("value = %v, want 2", got)
	}
	if slot.TargetedBy == nil || *slot.TargetedBy != 2 {
		t.Errorf("targeted_by = %v, want clip 2", slot.TargetedBy)
	}
}

func TestCoalesce_OverrideBlocksValueButMarks(t *testing.T) {
	tl := twoWriters()
	gen := tl.Tracks[0].Clips[0]
	gen.PropertyGroups[0].Defaults[0] = PropertyDefault{Value: FloatValue(5), IsOverride: true}

	m := NewEditorClipMap(tl, 10)
	if errs := testCoalescer().Coalesce(tl, m); len(errs) != 0 {
		t.Fatalf("Coalesce() errors = %v", errs)
	}

	slot := amountSlot(t, m, 0)
	if got, _ := slot.Value.Float(); got != 5 {
		t.Errorf("value = %v, want authored 5", got)
	}
	if !slot.IsOverridden {
		t.Error("is_overridden cleared by coalesce")
	}
	if slot.TargetedBy == nil || *slot.TargetedBy != 2 {
		t.Errorf("targeted_by = %v, want clip 2", slot.TargetedBy)
	}
}

func TestCoalesce_InactiveTargetSkipped(t *testing.T) {
	tl := &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 0, 100)}},
		{Clips: []*Clip{animationClip(1, 0, 100, &AnimationClip{
			Target: 42,
			Properties: []AnimatedProperty{
				{Group: 0, Property: 0, Target: Joined(constant(FloatValue(9)))},
			},
		})}},
	}}

	m := NewEditorClipMap(tl, 5)
	if errs := testCoalescer().Coalesce(tl, m); len(errs) != 0 {
		t.Fatalf("Coalesce() errors = %v", errs)
	}

	slot := amountSlot(t, m, 0)
	if got, _ := slot.Value.Float(); got != 0 {
		t.Errorf("unrelated clip value = %v, want default 0", got)
	}
	if slot.TargetedBy != nil {
		t.Errorf("unrelated clip targeted_by = %v, want nil", *slot.TargetedBy)
	}
}

func TestCoalesce_TargetOutOfWindow(t *testing.T) {
	tl := &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 50, 10)}},
		{Clips: []*Clip{animationClip(1, 0, 100, &AnimationClip{
			Target: 0,
			Properties: []AnimatedProperty{
				{Group: 0, Property: 0, Target: Joined(constant(FloatValue(9)))},
			},
		})}},
	}}

	m := NewPlayerClipMap(2)
	m.Update(tl, 5)
	if errs := testCoalescer().Coalesce(tl, m); len(errs) != 0 {
		t.Fatalf("Coalesce() errors = %v", errs)
	}
	if len(m.ActiveClips()) != 1 {
		t.Fatalf("active clips = %d, want 1", len(m.ActiveClips()))
	}
}

func TestCoalesce_UsesAnimationLocalTime(t *testing.T) {
	ramp := AnimatedPropertyField{
		StartValue: FloatValue(0),
		Segments:   []CurveSegment{{DurationFrames: 10, EndValue: FloatValue(10), Interpolation: Linear()}},
	}
	tl := &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 0, 100)}},
		{Clips: []*Clip{animationClip(1, 20, 50, &AnimationClip{
			Target:     0,
			Properties: []AnimatedProperty{{Group: 0, Property: 0, Target: Joined(ramp)}},
		})}},
	}}

	m := NewEditorClipMap(tl, 24)
	testCoalescer().Coalesce(tl, m)

	if got, _ := amountSlot(t, m, 0).Value.Float(); got != 4 {
		t.Errorf("value at frame 24 = %v, want 4 (animation local time 4)", got)
	}
}

func TestCoalesce_SeparateFields(t *testing.T) {
	tl := &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 0, 100)}},
		{Clips: []*Clip{animationClip(1, 0, 100, &AnimationClip{
			Target: 0,
			Properties: []AnimatedProperty{
				{Group: 0, Property: 1, Target: Separate(
					constant(FloatValue(1)),
					constant(FloatValue(2)),
					constant(FloatValue(3)),
				)},
				{Group: 1, Property: 0, Target: Separate(
					constant(FloatValue(0.1)),
					constant(FloatValue(0.2)),
					constant(FloatValue(0.3)),
					constant(FloatValue(0.4)),
				)},
			},
		})}},
	}}

	m := NewEditorClipMap(tl, 0)
	if errs := testCoalescer().Coalesce(tl, m); len(errs) != 0 {
		t.Fatalf("Coalesce() errors = %v", errs)
	}

	props := m.ActiveClips()[0].Properties
	if got := props.Vec3(0, 1); got != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position = %+v", got)
	}
	if got := props.Rgba(1, 0); got != (RgbaColor{R: 0.1, G: 0.2, B: 0.3, A: 0.4}) {
		t.Errorf("tint = %+v", got)
	}
}

func TestCoalesce_TypeMismatchIsolated(t *testing.T) {
	tl := &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 0, 100)}},
		{Clips: []*Clip{animationClip(1, 0, 100, &AnimationClip{
			Target: 0,
			Properties: []AnimatedProperty{
				// joined curve of the wrong type
				{Group: 0, Property: 0, Target: Joined(constant(Vec2Value(Vec2{X: 1})))},
				// component curve that is not a float
				{Group: 0, Property: 1, Target: Separate(
					constant(FloatValue(1)),
					constant(Vec2Value(Vec2{})),
					constant(FloatValue(3)),
				)},
				// too few components
				{Group: 1, Property: 0, Target: Separate(constant(FloatValue(1)))},
			},
		})}},
		{Clips: []*Clip{generatorClip(2, 0, 100)}},
		{Clips: []*Clip{animationClip(3, 0, 100, &AnimationClip{
			Target:     2,
			Properties: []AnimatedProperty{{Group: 0, Property: 0, Target: Joined(constant(FloatValue(8)))}},
		})}},
	}}

	m := NewEditorClipMap(tl, 0)
	errs := testCoalescer().Coalesce(tl, m)
	if len(errs) != 3 {
		t.Fatalf("Coalesce() returned %d errors, want 3: %v", len(errs), errs)
	}
	for _, e := range errs[:2] {
		if !errors.Is(e, ErrTypeMismatch) {
			t.Errorf("error %v, want ErrTypeMismatch", e)
		}
		if e.Animation != 1 || e.Target != 0 {
			t.Errorf("error reported for %d -> %d, want 1 -> 0", e.Animation, e.Target)
		}
	}
	if !errors.Is(errs[2], ErrNotEnoughFields) {
		t.Errorf("error %v, want ErrNotEnoughFields", errs[2])
	}

	first := m.ActiveClips()[0].Properties
	if got := first.Float(0, 0); got != 0 {
		t.Errorf("mismatched property written: %v", got)
	}
	if first[0][0].TargetedBy == nil {
		t.Error("targeted_by not recorded for failed property")
	}

	i, _ := m.ClipIndex(2)
	if got := m.ActiveClips()[i].Properties.Float(0, 0); got != 8 {
		t.Errorf("other clip value = %v, want 8", got)
	}
}

func TestCoalesce_PropertyOutOfRange(t *testing.T) {
	tl := &Timeline{Tracks: []*Track{
		{Clips: []*Clip{generatorClip(0, 0, 100)}},
		{Clips: []*Clip{animationClip(1, 0, 100, &AnimationClip{
			Target:     0,
			Properties: []AnimatedProperty{{Group: 7, Property: 0, Target: Joined(constant(FloatValue(1)))}},
		})}},
	}}

	m := NewEditorClipMap(tl, 0)
	errs := NewCoalescer(nil).Coalesce(tl, m)
	if len(errs) != 1 || !errors.Is(errs[0], ErrNoSuchProperty) {
		t.Fatalf("Coalesce() errors = %v, want one ErrNoSuchProperty", errs)
	}
}

func TestCoalesce_DeletedSourceClip(t *testing.T) {
	tl := twoWriters()
	m := NewEditorClipMap(tl, 10)

	// clip 2 removed after the active set was built
	tl.Tracks[2].Clips = nil

	testCoalescer().Coalesce(tl, m)
	if got, _ := amountSlot(t, m, 0).Value.Float(); got != 1 {
		t.Errorf("value = %v, want 1 from the remaining animation", got)
	}
}

func TestCoalesce_Idempotent(t *testing.T) {
	tl := twoWriters()
	tl.Tracks[1].Clips[0].Source.Animation.Properties = append(tl.Tracks[1].Clips[0].Source.Animation.Properties,
		AnimatedProperty{Group: 0, Property: 1, Target: Joined(AnimatedPropertyField{
			StartValue: Vec3Value(Vec3{}),
			Segments: []CurveSegment{{
				DurationFrames: 40,
				EndValue:       Vec3Value(Vec3{X: 4, Y: 8, Z: 12}),
				Interpolation:  Bezier(Vec2{X: 0.42}, Vec2{X: 0.58, Y: 1}),
			}},
		})})

	m := NewEditorClipMap(tl, 17)
	c := testCoalescer()
	c.Coalesce(tl, m)
	first := snapshot(m)
	c.Coalesce(tl, m)
	second := snapshot(m)

	if len(first) != len(second) {
		t.Fatalf("snapshot sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Value != second[i].Value {
			t.Errorf("slot %d: %v then %v", i, first[i].Value, second[i].Value)
		}
		if (first[i].TargetedBy == nil) != (second[i].TargetedBy == nil) ||
			first[i].TargetedBy != nil && *first[i].TargetedBy != *second[i].TargetedBy {
			t.Errorf("slot %d: targeted_by changed", i)
		}
	}
}

func snapshot(m ActiveClipMap) []ClipPropertyValue {
	var out []ClipPropertyValue
	for _, c := range m.ActiveClips() {
		for _, g := range c.Properties {
			out = append(out, g...)
		}
	}
	return out
}

func TestPropertyError_Message(t *testing.T) {
	e := &PropertyError{Animation: 3, Target: 1, Group: 0, Property: 2, Err: ErrTypeMismatch}
	want := "animation clip 3 -> clip 1 property (0, 2): property type mismatch"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
