package animation

import (
	"sync"
	"time"
)

// Player advances a Mapper on a wall-clock ticker at the display
// frame rate. The display rate is independent of the notional capture
// rate and may be changed while running.
type Player struct {
	mapper *Mapper

	mu      sync.Mutex
	fps     int
	stop    chan struct{}
	stopped sync.WaitGroup
}

// NewPlayer returns a stopped player.
func NewPlayer(mapper *Mapper, fps int) *Player {
	if fps <= 0 {
		fps = 12
	}
	return &Player{mapper: mapper, fps: fps}
}

// Start begins playback. Starting a running player restarts it.
func (p *Player) Start() {
	p.Stop()

	p.mu.Lock()
	stop := make(chan struct{})
	p.stop = stop
	interval := time.Second / time.Duration(p.fps)
	p.mu.Unlock()

	p.stopped.Add(1)
	go func() {
		defer p.stopped.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.mapper.NextFrame()
			}
		}
	}()
}

// Stop halts playback and waits for the loop to exit. Stopping a
// stopped player is a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	p.mu.Unlock()
	p.stopped.Wait()
}

// Playing reports whether the loop is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

// SetFPS changes the display rate, restarting the loop when running.
func (p *Player) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	p.mu.Lock()
	running := p.stop != nil
	p.fps = fps
	p.mu.Unlock()

	if running {
		p.Start()
	}
}
