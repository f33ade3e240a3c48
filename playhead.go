package animgraph

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Playhead is the current position of a timeline view. It can play at a
// fixed rate or seek smoothly to a target time, and steps between the
// instants of a TimeSet for marker navigation.
//
// There is no global clock. Callers call Update themselves once per frame.
type Playhead struct {
	Time Time
	// FPS snaps Time to whole frames after each Update. Zero disables
	// snapping.
	FPS float64
	// Rate is the playback speed in timeline seconds per second.
	Rate    float64
	Playing bool

	seek *gween.Tween
}

// NewPlayhead returns a stopped playhead at t playing at normal speed.
func NewPlayhead(t Time, fps float64) *Playhead {
	return &Playhead{Time: t, FPS: fps, Rate: 1}
}

// SeekTo animates the playhead to t over duration seconds. A non-positive
// duration jumps immediately. Seeking pauses playback.
func (p *Playhead) SeekTo(t Time, duration float32, easeFn ease.TweenFunc) {
	p.Playing = false
	if duration <= 0 {
		p.Time = t
		p.seek = nil
		return
	}
	if easeFn == nil {
		easeFn = ease.Linear
	}
	p.seek = gween.New(float32(p.Time), float32(t), duration, easeFn)
}

// Seeking reports whether a SeekTo animation is in flight.
func (p *Playhead) Seeking() bool { return p.seek != nil }

// Update advances the playhead by dt seconds of wall time and reports
// whether Time changed.
func (p *Playhead) Update(dt float32) bool {
	before := p.Time
	switch {
	case p.seek != nil:
		val, done := p.seek.Update(dt)
		p.Time = Time(val)
		if done {
			p.seek = nil
		}
	case p.Playing:
		p.Time += Time(float64(dt) * p.Rate)
	default:
		return false
	}
	p.Snap()
	return !p.Time.Equal(before)
}

// Snap rounds Time to the nearest frame.
func (p *Playhead) Snap() {
	p.Time = p.Time.Round(p.FPS)
}

// StepNext jumps to the first member of set after Time.
func (p *Playhead) StepNext(set TimeSet) bool {
	t, ok := set.Next(p.Time)
	if ok {
		p.seek = nil
		p.Time = t
	}
	return ok
}

// StepPrev jumps to the last member of set before Time.
func (p *Playhead) StepPrev(set TimeSet) bool {
	t, ok := set.Prev(p.Time)
	if ok {
		p.seek = nil
		p.Time = t
	}
	return ok
}

// Sample evaluates n at the playhead.
func (p *Playhead) Sample(n Node) (Value, error) {
	return n.Evaluate(p.Time)
}
