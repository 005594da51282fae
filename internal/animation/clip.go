package animation

import (
	"errors"
	"fmt"
)

// ClipReference identifies a clip across frames. It is a lookup key only; it
// never owns the clip it names.
type ClipReference uint32

// Clip is an authored timeline entry. Clips are immutable during playback.
type Clip struct {
	ID     uint32
	Name   string
	Schema *Schema
	Source ClipSource

	// OffsetFrames is the gap between the end of the previous clip on the
	// track (or frame 0) and the start of this one.
	OffsetFrames   uint32
	DurationFrames uint32

	PropertyGroups []PropertyGroup
}

func (c *Clip) Reference() ClipReference {
	return ClipReference(c.ID)
}

// Validate checks that the property groups have exactly the shape the schema
// declares and that every default has the declared type.
func (c *Clip) Validate() error {
	if c.Schema == nil {
		return fmt.Errorf("clip %d: missing schema", c.ID)
	}
	if c.Source.Generator == nil && c.Source.Animation == nil {
		return fmt.Errorf("clip %d: missing source", c.ID)
	}
	if c.Source.Generator != nil && c.Source.Animation != nil {
		return fmt.Errorf("clip %d: source is both generator and animation", c.ID)
	}
	if len(c.PropertyGroups) != len(c.Schema.Groups) {
		return fmt.Errorf("clip %d: has %d property groups, schema %q declares %d",
			c.ID, len(c.PropertyGroups), c.Schema.Name, len(c.Schema.Groups))
	}
	for g, group := range c.Schema.Groups {
		defaults := c.PropertyGroups[g].Defaults
		if len(defaults) != len(group.Properties) {
			return fmt.Errorf("clip %d: group %d has %d properties, schema declares %d",
				c.ID, g, len(defaults), len(group.Properties))
		}
		for p, prop := range group.Properties {
			if defaults[p].Value.Type() != prop.Type {
				return fmt.Errorf("clip %d: property %s.%s: %w: default is %s, schema declares %s",
					c.ID, group.Name, prop.Name, ErrTypeMismatch, defaults[p].Value.Type(), prop.Type)
			}
		}
	}
	return nil
}

// ClipSource is exactly one of a content generator or an animation clip.
type ClipSource struct {
	Generator Generator
	Animation *AnimationClip
}

func GeneratorSource(g Generator) ClipSource { return ClipSource{Generator: g} }

func AnimationSource(a *AnimationClip) ClipSource { return ClipSource{Animation: a} }

func (s ClipSource) IsGenerator() bool { return s.Generator != nil }
func (s ClipSource) IsAnimation() bool { return s.Animation != nil }

type PropertyGroup struct {
	Defaults []PropertyDefault
}

// PropertyDefault is the authored value of a property. IsOverride freezes the
// property against animation.
type PropertyDefault struct {
	Value      PropertyValue
	IsOverride bool
}

// AnimationClip drives properties of the clip it targets.
type AnimationClip struct {
	Target     ClipReference
	Properties []AnimatedProperty
}

// AnimatedProperty animates the property at (Group, Property) of the target.
type AnimatedProperty struct {
	Group    int
	Property int
	Target   AnimatedPropertyTarget
}

// AnimatedPropertyTarget is either a single joined field producing the whole
// value, or one scalar field per component of the target property.
type AnimatedPropertyTarget struct {
	Joined   *AnimatedPropertyField
	Separate []AnimatedPropertyField
}

func Joined(field AnimatedPropertyField) AnimatedPropertyTarget {
	return AnimatedPropertyTarget{Joined: &field}
}

func Separate(fields ...AnimatedPropertyField) AnimatedPropertyTarget {
	return AnimatedPropertyTarget{Separate: fields}
}

func (t AnimatedPropertyTarget) IsJoined() bool { return t.Joined != nil }

// Track holds clips played one after another.
type Track struct {
	Clips []*Clip
}

// Span returns the absolute start frame of every clip on the track.
func (t *Track) Span() []uint32 {
	starts := make([]uint32, len(t.Clips))
	var end uint32
	for i, c := range t.Clips {
		starts[i] = end + c.OffsetFrames
		end = starts[i] + c.DurationFrames
	}
	return starts
}

// EndFrame is the frame just after the last clip on the track.
func (t *Track) EndFrame() uint32 {
	var end uint32
	for _, c := range t.Clips {
		end += c.OffsetFrames + c.DurationFrames
	}
	return end
}

type Timeline struct {
	Tracks []*Track
}

// DurationFrames is the end frame of the longest track.
func (tl *Timeline) DurationFrames() uint32 {
	var d uint32
	for _, t := range tl.Tracks {
		if e := t.EndFrame(); e > d {
			d = e
		}
	}
	return d
}

// ClipAt returns the clip at the given track and clip index, or nil if either
// is out of range.
func (tl *Timeline) ClipAt(track, clip int) *Clip {
	if track < 0 || track >= len(tl.Tracks) {
		return nil
	}
	clips := tl.Tracks[track].Clips
	if clip < 0 || clip >= len(clips) {
		return nil
	}
	return clips[clip]
}

// Clip finds a clip by reference.
func (tl *Timeline) Clip(ref ClipReference) (*Clip, bool) {
	for _, t := range tl.Tracks {
		for _, c := range t.Clips {
			if c.Reference() == ref {
				return c, true
			}
		}
	}
	return nil, false
}

// NextClipID returns an id one past the largest in use.
func (tl *Timeline) NextClipID() uint32 {
	var next uint32
	for _, t := range tl.Tracks {
		for _, c := range t.Clips {
			if c.ID >= next {
				next = c.ID + 1
			}
		}
	}
	return next
}

// Validate checks clip shapes, id uniqueness and that every animated property
// addresses a slot of matching type on its target. Animations whose target
// does not exist are allowed; they are skipped at playback.
func (tl *Timeline) Validate() error {
	seen := make(map[uint32]bool)
	var errs []error
	for _, t := range tl.Tracks {
		for _, c := range t.Clips {
			if seen[c.ID] {
				errs = append(errs, fmt.Errorf("duplicate clip id %d", c.ID))
			}
			seen[c.ID] = true
			if err := c.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, t := range tl.Tracks {
		for _, c := range t.Clips {
			if c.Source.Animation == nil {
				continue
			}
			target, ok := tl.Clip(c.Source.Animation.Target)
			if !ok {
				continue
			}
			for _, ap := range c.Source.Animation.Properties {
				if err := validateAnimatedProperty(target, ap); err != nil {
					errs = append(errs, fmt.Errorf("animation clip %d: %w", c.ID, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func validateAnimatedProperty(target *Clip, ap AnimatedProperty) error {
	if ap.Group < 0 || ap.Group >= len(target.PropertyGroups) ||
		ap.Property < 0 || ap.Property >= len(target.PropertyGroups[ap.Group].Defaults) {
		return fmt.Errorf("property (%d, %d) out of range for clip %d", ap.Group, ap.Property, target.ID)
	}
	want := target.PropertyGroups[ap.Group].Defaults[ap.Property].Value.Type()

	if ap.Target.Joined != nil {
		if err := ap.Target.Joined.Validate(); err != nil {
			return err
		}
		if got := ap.Target.Joined.Type(); got != want {
			return fmt.Errorf("property (%d, %d): %w: curve is %s, slot is %s", ap.Group, ap.Property, ErrTypeMismatch, got, want)
		}
		return nil
	}

	if len(ap.Target.Separate) != want.NumFields() {
		return fmt.Errorf("property (%d, %d): %d component curves for %s",
			ap.Group, ap.Property, len(ap.Target.Separate), want)
	}
	for i := range ap.Target.Separate {
		f := &ap.Target.Separate[i]
		if err := f.Validate(); err != nil {
			return err
		}
		if f.Type() != TypeFloat {
			return fmt.Errorf("property (%d, %d) component %d: %w: curve is %s",
				ap.Group, ap.Property, i, ErrTypeMismatch, f.Type())
		}
	}
	return nil
}
