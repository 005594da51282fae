// Package player resolves a timeline frame by frame: it rebuilds the active
// clip set, coalesces animations into it and updates the active generators.
package player

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlas-demo/atlas/internal/animation"
	"github.com/atlas-demo/atlas/internal/logging"
)

var _ animation.GeneratorClipMap = (*Player)(nil)

// Player drives one timeline. It is not safe for concurrent use.
type Player struct {
	timeline  *animation.Timeline
	frameRate float64
	clips     *animation.PlayerClipMap
	coalescer *animation.Coalescer
	logger    *slog.Logger
}

// FrameResult is everything resolved for one frame. Clips aliases the
// player's buffers and is only valid until the next RenderFrame.
type FrameResult struct {
	Frame   uint32
	Clips   []animation.ActiveClip
	Outputs map[string]animation.PropertyValue
	Errors  []*animation.PropertyError
}

func New(tl *animation.Timeline, frameRate float64, logger *slog.Logger) *Player {
	count := 0
	for _, t := range tl.Tracks {
		count += len(t.Clips)
	}
	return &Player{
		timeline:  tl,
		frameRate: frameRate,
		clips:     animation.NewPlayerClipMap(count),
		coalescer: animation.NewCoalescer(logger),
		logger:    logger,
	}
}

func (p *Player) Timeline() *animation.Timeline { return p.timeline }

// Generator implements animation.GeneratorClipMap over the active clips.
func (p *Player) Generator(ref animation.ClipReference) (animation.Generator, bool) {
	i, ok := p.clips.ClipIndex(ref)
	if !ok {
		return nil, false
	}
	active := p.clips.ActiveClips()[i]
	clip := p.timeline.ClipAt(active.TrackIndex, active.ClipIndex)
	if clip == nil || clip.Source.Generator == nil {
		return nil, false
	}
	return clip.Source.Generator, true
}

// RenderFrame resolves frame. Frames past the end of the timeline resolve to
// an empty result. Property errors do not fail the frame; they are returned
// in FrameResult.Errors.
func (p *Player) RenderFrame(frame uint32) *FrameResult {
	p.clips.Update(p.timeline, frame)
	errs := p.coalescer.Coalesce(p.timeline, p.clips)

	ctx := animation.NewFrameContext(frame, p.frameRate)
	active := p.clips.ActiveClips()
	for i := range active {
		g, ok := p.Generator(active[i].Reference)
		if !ok {
			continue
		}
		g.Update(ctx, active[i].LocalTime, active[i].Properties)
	}

	return &FrameResult{
		Frame:   frame,
		Clips:   active,
		Outputs: ctx.Outputs,
		Errors:  errs,
	}
}

// Range resolves frames [from, to) and calls fn with a snapshot of each. It
// stops early when ctx is done or fn returns an error.
func (p *Player) Range(ctx context.Context, from, to uint32, fn func(*Snapshot) error) error {
	if to < from {
		return fmt.Errorf("invalid frame range %d..%d", from, to)
	}
	for frame := from; frame < to; frame++ {
		if err := ctx.Err(); err != nil {
			p.logStop(frame, err)
			return err
		}
		snap := p.RenderFrame(frame).Snapshot(p.timeline)
		if err := fn(snap); err != nil {
			p.logStop(frame, err)
			return err
		}
	}
	return nil
}

func (p *Player) logStop(frame uint32, err error) {
	if p.logger == nil {
		return
	}
	logging.WithFrame(p.logger, frame).Debug("frame range stopped", "error", err)
}
