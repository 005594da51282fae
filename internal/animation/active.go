package animation

// ClipPropertyValue is the per-frame state of one property slot.
type ClipPropertyValue struct {
	Value PropertyValue

	// IsOverridden is copied from the authored default and blocks animation
	// writes. Animation never changes it.
	IsOverridden bool

	// TargetedBy is the last animation clip that addressed this slot during
	// the current frame, whether or not it wrote the value.
	TargetedBy *ClipReference
}

// Properties is the mutable property buffer of an active clip, indexed by
// group and then property.
type Properties [][]ClipPropertyValue

// Slot returns the slot at (group, property), or nil when out of range.
func (p Properties) Slot(group, property int) *ClipPropertyValue {
	if group < 0 || group >= len(p) || property < 0 || property >= len(p[group]) {
		return nil
	}
	return &p[group][property]
}

// Value returns the value at (group, property).
func (p Properties) Value(group, property int) (PropertyValue, bool) {
	s := p.Slot(group, property)
	if s == nil {
		return PropertyValue{}, false
	}
	return s.Value, true
}

// The typed getters below return the zero value when the slot is missing or
// holds another type.

func (p Properties) Float(group, property int) float64 {
	v, _ := p.Value(group, property)
	f, _ := v.Float()
	return f
}

func (p Properties) Vec2(group, property int) Vec2 {
	v, _ := p.Value(group, property)
	out, _ := v.Vec2()
	return out
}

func (p Properties) Vec3(group, property int) Vec3 {
	v, _ := p.Value(group, property)
	out, _ := v.Vec3()
	return out
}

func (p Properties) Vec4(group, property int) Vec4 {
	v, _ := p.Value(group, property)
	out, _ := v.Vec4()
	return out
}

func (p Properties) Rotation(group, property int) Quaternion {
	v, _ := p.Value(group, property)
	out, ok := v.Rotation()
	if !ok {
		return IdentityRotation
	}
	return out
}

func (p Properties) Rgb(group, property int) RgbColor {
	v, _ := p.Value(group, property)
	out, _ := v.Rgb()
	return out
}

func (p Properties) Rgba(group, property int) RgbaColor {
	v, _ := p.Value(group, property)
	out, _ := v.Rgba()
	return out
}

// ActiveClip is the runtime instance of a clip inside its time window.
type ActiveClip struct {
	Name       string
	Reference  ClipReference
	TrackIndex int
	ClipIndex  int

	// LocalTime is the frame relative to the clip start.
	LocalTime  uint32
	Properties Properties
}

// ActiveClipMap is the set of clips active at the current frame. Entries of
// ActiveClips are mutated in place by Coalesce.
type ActiveClipMap interface {
	ActiveClips() []ActiveClip
	ClipIndex(ref ClipReference) (int, bool)
}

func newActiveClip(clip *Clip, trackIndex, clipIndex int, localTime uint32) ActiveClip {
	props := make(Properties, len(clip.PropertyGroups))
	for g, group := range clip.PropertyGroups {
		slots := make([]ClipPropertyValue, len(group.Defaults))
		for p, d := range group.Defaults {
			slots[p] = ClipPropertyValue{Value: d.Value, IsOverridden: d.IsOverride}
		}
		props[g] = slots
	}

	return ActiveClip{
		Name:       clip.Name,
		Reference:  clip.Reference(),
		TrackIndex: trackIndex,
		ClipIndex:  clipIndex,
		LocalTime:  localTime,
		Properties: props,
	}
}

// collectActive appends the clip active on each track at frame, in track
// order. At most one clip per track is active.
func collectActive(dst []ActiveClip, tl *Timeline, frame uint32) []ActiveClip {
	for trackIndex, track := range tl.Tracks {
		var end uint32
		for clipIndex, clip := range track.Clips {
			start := end + clip.OffsetFrames
			end = start + clip.DurationFrames
			if frame >= start && frame < end {
				dst = append(dst, newActiveClip(clip, trackIndex, clipIndex, frame-start))
				break
			}
			if frame < start {
				break
			}
		}
	}
	return dst
}

// EditorClipMap is rebuilt from scratch every frame. Lookups go through a
// hash map, so clip ids may be sparse.
type EditorClipMap struct {
	clips []ActiveClip
	index map[ClipReference]int
}

func NewEditorClipMap(tl *Timeline, frame uint32) *EditorClipMap {
	clips := collectActive(nil, tl, frame)
	index := make(map[ClipReference]int, len(clips))
	for i, c := range clips {
		index[c.Reference] = i
	}
	return &EditorClipMap{clips: clips, index: index}
}

func (m *EditorClipMap) ActiveClips() []ActiveClip { return m.clips }

func (m *EditorClipMap) ClipIndex(ref ClipReference) (int, bool) {
	i, ok := m.index[ref]
	return i, ok
}

// maxDenseClipID bounds the id-indexed table of PlayerClipMap. Larger ids are
// kept in a map.
const maxDenseClipID = 1 << 16

// PlayerClipMap reuses its buffers across frames and indexes by clip id,
// which suits the dense ids of exported timelines. Override flags are seeded
// from the authored defaults exactly as in EditorClipMap, so both maps
// resolve a frame identically.
type PlayerClipMap struct {
	clips    []ActiveClip
	indices  []int
	overflow map[ClipReference]int
}

func NewPlayerClipMap(clipCount int) *PlayerClipMap {
	return &PlayerClipMap{
		clips:   make([]ActiveClip, 0, clipCount),
		indices: make([]int, 0, clipCount),
	}
}

// Update rebuilds the active set for frame.
func (m *PlayerClipMap) Update(tl *Timeline, frame uint32) {
	m.clips = collectActive(m.clips[:0], tl, frame)

	m.indices = m.indices[:0]
	clear(m.overflow)
	for i, c := range m.clips {
		id := int(c.Reference)
		if id >= maxDenseClipID {
			if m.overflow == nil {
				m.overflow = make(map[ClipReference]int)
			}
			m.overflow[c.Reference] = i
			continue
		}
		for len(m.indices) <= id {
			m.indices = append(m.indices, -1)
		}
		m.indices[id] = i
	}
}

func (m *PlayerClipMap) ActiveClips() []ActiveClip { return m.clips }

func (m *PlayerClipMap) ClipIndex(ref ClipReference) (int, bool) {
	id := int(ref)
	if id >= maxDenseClipID {
		i, ok := m.overflow[ref]
		return i, ok
	}
	if id >= len(m.indices) || m.indices[id] < 0 {
		return 0, false
	}
	return m.indices[id], true
}
