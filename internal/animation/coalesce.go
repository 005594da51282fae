package animation

import (
	"fmt"
	"log/slog"
)

// PropertyError describes an animated property that could not be written
// during a coalesce pass. The pass continues past it.
type PropertyError struct {
	Animation ClipReference
	Target    ClipReference
	Group     int
	Property  int
	Err       error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("animation clip %d -> clip %d property (%d, %d): %v",
		e.Animation, e.Target, e.Group, e.Property, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// Coalescer applies animation clips to the property buffers of their
// targets.
type Coalescer struct {
	logger *slog.Logger
}

// NewCoalescer returns a Coalescer. A nil logger disables diagnostics.
func NewCoalescer(logger *slog.Logger) *Coalescer {
	return &Coalescer{logger: logger}
}

// Coalesce evaluates every active animation clip at its own local time and
// writes the results into its target's slots. Clips are processed in the
// order of m.ActiveClips(), so when two animations drive the same slot the
// later one wins. Every addressed slot records the animation in TargetedBy,
// even when IsOverridden keeps its value.
//
// Animations whose target is not active are skipped. Properties that cannot
// be evaluated are left untouched and reported in the returned slice.
func (c *Coalescer) Coalesce(tl *Timeline, m ActiveClipMap) []*PropertyError {
	var errs []*PropertyError

	active := m.ActiveClips()
	for i := range active {
		source := &active[i]

		clip := tl.ClipAt(source.TrackIndex, source.ClipIndex)
		if clip == nil || clip.Reference() != source.Reference {
			// deleted or moved since the map was built
			continue
		}
		anim := clip.Source.Animation
		if anim == nil {
			continue
		}

		targetIndex, ok := m.ClipIndex(anim.Target)
		if !ok || targetIndex < 0 || targetIndex >= len(active) {
			continue
		}
		target := &active[targetIndex]

		localTime := float64(source.LocalTime)
		ref := source.Reference

		for _, ap := range anim.Properties {
			slot := target.Properties.Slot(ap.Group, ap.Property)
			if slot == nil {
				errs = c.report(errs, &PropertyError{
					Animation: ref, Target: target.Reference, Group: ap.Group, Property: ap.Property,
					Err: ErrNoSuchProperty,
				})
				continue
			}

			slot.TargetedBy = &ref
			if slot.IsOverridden {
				continue
			}

			v, err := evaluate(ap.Target, slot.Value.Type(), localTime)
			if err != nil {
				errs = c.report(errs, &PropertyError{
					Animation: ref, Target: target.Reference, Group: ap.Group, Property: ap.Property,
					Err: err,
				})
				continue
			}
			slot.Value = v
		}
	}

	return errs
}

func (c *Coalescer) report(errs []*PropertyError, e *PropertyError) []*PropertyError {
	if c.logger != nil {
		c.logger.Warn("animated property skipped",
			"animation_clip", uint32(e.Animation),
			"target_clip", uint32(e.Target),
			"group", e.Group,
			"property", e.Property,
			"error", e.Err,
		)
	}
	return append(errs, e)
}

// evaluate samples an animated property target and returns a value of type
// want.
func evaluate(t AnimatedPropertyTarget, want PropertyType, localTime float64) (PropertyValue, error) {
	if t.Joined != nil {
		v, err := t.Joined.Sample(localTime)
		if err != nil {
			return PropertyValue{}, err
		}
		if v.Type() != want {
			return PropertyValue{}, fmt.Errorf("%w: curve yields %s, slot is %s", ErrTypeMismatch, v.Type(), want)
		}
		return v, nil
	}

	scalars := make([]float64, 0, len(t.Separate))
	for i := range t.Separate {
		v, err := t.Separate[i].Sample(localTime)
		if err != nil {
			return PropertyValue{}, fmt.Errorf("component %d: %w", i, err)
		}
		f, ok := v.Float()
		if !ok {
			return PropertyValue{}, fmt.Errorf("component %d: %w: curve yields %s, want float", i, ErrTypeMismatch, v.Type())
		}
		scalars = append(scalars, f)
	}

	return FromFields(want, FieldsOf(scalars))
}
