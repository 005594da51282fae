package player

import "github.com/atlas-demo/atlas/internal/animation"

// Snapshot is a detached, JSON-friendly copy of a FrameResult: what a
// property editor shows for the frame.
type Snapshot struct {
	Frame       uint32                             `json:"frame"`
	Clips       []ClipSnapshot                     `json:"clips"`
	Outputs     map[string]animation.PropertyValue `json:"outputs"`
	Diagnostics []string                           `json:"diagnostics,omitempty"`
}

type ClipSnapshot struct {
	ID         uint32             `json:"id"`
	Name       string             `json:"name"`
	Schema     string             `json:"schema"`
	Track      int                `json:"track"`
	LocalFrame uint32             `json:"local_frame"`
	Properties []PropertySnapshot `json:"properties,omitempty"`
}

type PropertySnapshot struct {
	Path       string                  `json:"path"`
	Value      animation.PropertyValue `json:"value"`
	Overridden bool                    `json:"overridden,omitempty"`
	TargetedBy *uint32                 `json:"targeted_by,omitempty"`
}

// Snapshot copies the result. tl names the properties; it must be the
// timeline the result was rendered from.
func (r *FrameResult) Snapshot(tl *animation.Timeline) *Snapshot {
	s := &Snapshot{
		Frame:   r.Frame,
		Clips:   make([]ClipSnapshot, 0, len(r.Clips)),
		Outputs: make(map[string]animation.PropertyValue, len(r.Outputs)),
	}
	for k, v := range r.Outputs {
		s.Outputs[k] = v
	}

	for _, active := range r.Clips {
		cs := ClipSnapshot{
			ID:         uint32(active.Reference),
			Name:       active.Name,
			Track:      active.TrackIndex,
			LocalFrame: active.LocalTime,
		}
		clip := tl.ClipAt(active.TrackIndex, active.ClipIndex)
		if clip != nil {
			cs.Schema = clip.Schema.Name
		}

		for g, group := range active.Properties {
			for p, slot := range group {
				ps := PropertySnapshot{Value: slot.Value, Overridden: slot.IsOverridden}
				if clip != nil {
					ps.Path = clip.Schema.PathName(g, p)
				}
				if slot.TargetedBy != nil {
					id := uint32(*slot.TargetedBy)
					ps.TargetedBy = &id
				}
				cs.Properties = append(cs.Properties, ps)
			}
		}
		s.Clips = append(s.Clips, cs)
	}

	for _, e := range r.Errors {
		s.Diagnostics = append(s.Diagnostics, e.Error())
	}
	return s
}

// Clip returns the snapshot of the clip with the given id.
func (s *Snapshot) Clip(id uint32) (*ClipSnapshot, bool) {
	for i := range s.Clips {
		if s.Clips[i].ID == id {
			return &s.Clips[i], true
		}
	}
	return nil, false
}

// Property returns the property at path.
func (c *ClipSnapshot) Property(path string) (*PropertySnapshot, bool) {
	for i := range c.Properties {
		if c.Properties[i].Path == path {
			return &c.Properties[i], true
		}
	}
	return nil, false
}
