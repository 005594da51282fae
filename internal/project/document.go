package project

import (
	"fmt"

	"github.com/atlas-demo/atlas/internal/animation"
	"github.com/atlas-demo/atlas/internal/generator"
)

// Document is the stored form of a timeline. Properties are addressed by
// their schema path ("group.property", or the bare name in an unnamed group).
type Document struct {
	Tracks []TrackDoc `json:"tracks"`
}

type TrackDoc struct {
	Clips []ClipDoc `json:"clips"`
}

type ClipDoc struct {
	ID             uint32        `json:"id"`
	Name           string        `json:"name,omitempty"`
	Schema         string        `json:"schema"`
	OffsetFrames   uint32        `json:"offset_frames"`
	DurationFrames uint32        `json:"duration_frames"`
	Properties     []PropertyDoc `json:"properties,omitempty"`
	Animation      *AnimationDoc `json:"animation,omitempty"`
}

// PropertyDoc sets the default of one property. Properties left out keep
// the type default.
type PropertyDoc struct {
	Path     string                  `json:"path"`
	Value    animation.PropertyValue `json:"value"`
	Override bool                    `json:"override,omitempty"`
}

type AnimationDoc struct {
	Target     uint32                `json:"target"`
	Properties []AnimatedPropertyDoc `json:"properties"`
}

// AnimatedPropertyDoc drives the property at Path of the target clip with
// either one joined curve or one float curve per component.
type AnimatedPropertyDoc struct {
	Path     string     `json:"path"`
	Joined   *FieldDoc  `json:"joined,omitempty"`
	Separate []FieldDoc `json:"separate,omitempty"`
}

type FieldDoc struct {
	LocalOffsetFrames int32                   `json:"local_offset_frames,omitempty"`
	Start             animation.PropertyValue `json:"start"`
	Segments          []SegmentDoc            `json:"segments,omitempty"`
}

type SegmentDoc struct {
	DurationFrames uint32                  `json:"duration_frames"`
	End            animation.PropertyValue `json:"end"`
	Bezier         *BezierDoc              `json:"bezier,omitempty"`
}

// BezierDoc holds the two free control points of an easing curve.
type BezierDoc struct {
	C1 [2]float64 `json:"c1"`
	C2 [2]float64 `json:"c2"`
}

// ClipCount returns the number of clips over all tracks.
func (d *Document) ClipCount() int {
	n := 0
	for _, t := range d.Tracks {
		n += len(t.Clips)
	}
	return n
}

// Timeline builds the animation timeline the document describes and
// validates it.
func (d *Document) Timeline() (*animation.Timeline, error) {
	tl := &animation.Timeline{Tracks: make([]*animation.Track, len(d.Tracks))}
	byID := make(map[uint32]*animation.Clip)
	pending := make(map[*animation.Clip]*AnimationDoc)

	for ti, track := range d.Tracks {
		out := &animation.Track{Clips: make([]*animation.Clip, 0, len(track.Clips))}
		for _, cd := range track.Clips {
			clip, err := cd.clip()
			if err != nil {
				return nil, fmt.Errorf("%w: track %d: %w", ErrInvalidDocument, ti, err)
			}
			if _, dup := byID[cd.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate clip id %d", ErrInvalidDocument, cd.ID)
			}
			byID[cd.ID] = clip
			if cd.Animation != nil {
				pending[clip] = cd.Animation
			}
			out.Clips = append(out.Clips, clip)
		}
		tl.Tracks[ti] = out
	}

	for clip, ad := range pending {
		target, ok := byID[ad.Target]
		if !ok {
			return nil, fmt.Errorf("%w: animation clip %d targets unknown clip %d", ErrInvalidDocument, clip.ID, ad.Target)
		}
		anim := &animation.AnimationClip{Target: target.Reference()}
		for _, pd := range ad.Properties {
			ap, err := pd.animatedProperty(target.Schema)
			if err != nil {
				return nil, fmt.Errorf("%w: animation clip %d: %w", ErrInvalidDocument, clip.ID, err)
			}
			anim.Properties = append(anim.Properties, ap)
		}
		clip.Source = animation.AnimationSource(anim)
	}

	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return tl, nil
}

func (cd ClipDoc) clip() (*animation.Clip, error) {
	schema, err := generator.Lookup(cd.Schema)
	if err != nil {
		return nil, fmt.Errorf("clip %d: %w", cd.ID, err)
	}

	clip := schema.Instantiate(cd.ID, cd.OffsetFrames, cd.DurationFrames)
	if cd.Name != "" {
		clip.Name = cd.Name
	}

	isAnimation := schema == animation.AnimationSchema
	if isAnimation != (cd.Animation != nil) {
		return nil, fmt.Errorf("clip %d: schema %q and animation block disagree", cd.ID, cd.Schema)
	}
	if isAnimation {
		// placeholder until targets are resolved
		clip.Source = animation.AnimationSource(&animation.AnimationClip{})
	}

	for _, pd := range cd.Properties {
		path, err := schema.Resolve(pd.Path)
		if err != nil {
			return nil, fmt.Errorf("clip %d: %w", cd.ID, err)
		}
		if pd.Value.Type() != path.Type {
			return nil, fmt.Errorf("clip %d: property %q: %w: got %s, want %s",
				cd.ID, pd.Path, animation.ErrTypeMismatch, pd.Value.Type(), path.Type)
		}
		clip.PropertyGroups[path.Group].Defaults[path.Property] = animation.PropertyDefault{
			Value:      pd.Value,
			IsOverride: pd.Override,
		}
	}
	return clip, nil
}

func (pd AnimatedPropertyDoc) animatedProperty(target *animation.Schema) (animation.AnimatedProperty, error) {
	path, err := target.Resolve(pd.Path)
	if err != nil {
		return animation.AnimatedProperty{}, err
	}

	ap := animation.AnimatedProperty{Group: path.Group, Property: path.Property}
	switch {
	case pd.Joined != nil && len(pd.Separate) > 0:
		return ap, fmt.Errorf("property %q: both joined and separate curves", pd.Path)
	case pd.Joined != nil:
		ap.Target = animation.Joined(pd.Joined.field())
	case len(pd.Separate) > 0:
		fields := make([]animation.AnimatedPropertyField, len(pd.Separate))
		for i, fd := range pd.Separate {
			fields[i] = fd.field()
		}
		ap.Target = animation.Separate(fields...)
	default:
		return ap, fmt.Errorf("property %q: no curves", pd.Path)
	}
	return ap, nil
}

func (fd FieldDoc) field() animation.AnimatedPropertyField {
	f := animation.AnimatedPropertyField{
		LocalOffsetFrames: fd.LocalOffsetFrames,
		StartValue:        fd.Start,
		Segments:          make([]animation.CurveSegment, len(fd.Segments)),
	}
	for i, sd := range fd.Segments {
		interp := animation.Linear()
		if sd.Bezier != nil {
			interp = animation.Bezier(
				animation.Vec2{X: sd.Bezier.C1[0], Y: sd.Bezier.C1[1]},
				animation.Vec2{X: sd.Bezier.C2[0], Y: sd.Bezier.C2[1]},
			)
		}
		f.Segments[i] = animation.CurveSegment{
			DurationFrames: sd.DurationFrames,
			EndValue:       sd.End,
			Interpolation:  interp,
		}
	}
	return f
}

// FromTimeline is the inverse of Document.Timeline. Every property default is
// written out, so the document does not depend on type defaults.
func FromTimeline(tl *animation.Timeline) (*Document, error) {
	doc := &Document{Tracks: make([]TrackDoc, len(tl.Tracks))}

	for ti, track := range tl.Tracks {
		clips := make([]ClipDoc, 0, len(track.Clips))
		for _, clip := range track.Clips {
			cd := ClipDoc{
				ID:             clip.ID,
				Name:           clip.Name,
				Schema:         clip.Schema.Name,
				OffsetFrames:   clip.OffsetFrames,
				DurationFrames: clip.DurationFrames,
			}
			if cd.Name == clip.Schema.Name {
				cd.Name = ""
			}

			for g, group := range clip.PropertyGroups {
				for p, d := range group.Defaults {
					cd.Properties = append(cd.Properties, PropertyDoc{
						Path:     clip.Schema.PathName(g, p),
						Value:    d.Value,
						Override: d.IsOverride,
					})
				}
			}

			if anim := clip.Source.Animation; anim != nil {
				ad, err := animationDoc(tl, anim)
				if err != nil {
					return nil, fmt.Errorf("clip %d: %w", clip.ID, err)
				}
				cd.Animation = ad
			}
			clips = append(clips, cd)
		}
		doc.Tracks[ti] = TrackDoc{Clips: clips}
	}
	return doc, nil
}

func animationDoc(tl *animation.Timeline, anim *animation.AnimationClip) (*AnimationDoc, error) {
	target, ok := tl.Clip(anim.Target)
	if !ok {
		return nil, fmt.Errorf("target clip %d not found", anim.Target)
	}

	ad := &AnimationDoc{Target: uint32(anim.Target)}
	for _, ap := range anim.Properties {
		pd := AnimatedPropertyDoc{Path: target.Schema.PathName(ap.Group, ap.Property)}
		if ap.Target.Joined != nil {
			fd := fieldDoc(*ap.Target.Joined)
			pd.Joined = &fd
		} else {
			for _, f := range ap.Target.Separate {
				pd.Separate = append(pd.Separate, fieldDoc(f))
			}
		}
		ad.Properties = append(ad.Properties, pd)
	}
	return ad, nil
}

func fieldDoc(f animation.AnimatedPropertyField) FieldDoc {
	fd := FieldDoc{LocalOffsetFrames: f.LocalOffsetFrames, Start: f.StartValue}
	for _, s := range f.Segments {
		sd := SegmentDoc{DurationFrames: s.DurationFrames, End: s.EndValue}
		if s.Interpolation.Kind == animation.InterpolationCubicBezier && s.Interpolation.Bezier != nil {
			c1, c2 := s.Interpolation.Bezier.C1(), s.Interpolation.Bezier.C2()
			sd.Bezier = &BezierDoc{C1: [2]float64{c1.X, c1.Y}, C2: [2]float64{c2.X, c2.Y}}
		}
		fd.Segments = append(fd.Segments, sd)
	}
	return fd
}
