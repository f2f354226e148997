package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/a-bouts/nav-viewer/latlon"
)

var ErrEmptyTrack = errors.New("playback: empty track")

// Frame is the boat state shown at one step of a route
type Frame struct {
	Index    int           `json:"index"`
	Time     time.Time     `json:"time"`
	Position latlon.LatLon `json:"position"`
	Heading  float64       `json:"heading"`
	DMS      string        `json:"dms"`
}

// Player replays a route computed with a fixed time step. It is safe for
// concurrent use: a running playback can be moved by another goroutine.
type Player struct {
	lock  sync.Mutex
	track []latlon.LatLon
	start time.Time
	step  time.Duration
	index int
}

func New(track []latlon.LatLon, start time.Time, step time.Duration) (*Player, error) {
	if len(track) == 0 {
		return nil, ErrEmptyTrack
	}
	return &Player{track: track, start: start, step: step}, nil
}

func (p *Player) Len() int {
	return len(p.track)
}

func (p *Player) frame() Frame {
	pos := p.track[p.index]
	return Frame{
		Index:    p.index,
		Time:     p.start.Add(time.Duration(p.index) * p.step),
		Position: pos,
		Heading:  latlon.HeadingAt(p.track, p.index),
		DMS:      latlon.ToDMS(pos),
	}
}

func (p *Player) Frame() Frame {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.frame()
}

// Move shifts the current index by n steps. Past the end it goes back to the start,
// before the start to the last point.
func (p *Player) Move(n int) Frame {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.index += n
	if p.index >= len(p.track) {
		p.index = 0
	} else if p.index < 0 {
		p.index = len(p.track) - 1
	}
	return p.frame()
}

func (p *Player) Begin() Frame {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.index = 0
	return p.frame()
}

// Run sends the current frame to sink on every tick then steps forward. It returns
// nil once the last frame is sent, the sink error or the context error.
func (p *Player) Run(ctx context.Context, ticks <-chan time.Time, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			p.lock.Lock()
			if p.index >= len(p.track) || p.index < 0 {
				p.index = 0
			}
			f := p.frame()
			p.index++
			last := p.index >= len(p.track)
			if last {
				p.index = len(p.track) - 1
			}
			p.lock.Unlock()

			if err := sink.Send(f); err != nil {
				return err
			}
			if last {
				return nil
			}
		}
	}
}
