package animation

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eru038/Weather-BGM-Player/internal/weather"
)

// DefaultFrameInterval is roughly 30 frames per second.
const DefaultFrameInterval = 33 * time.Millisecond

// Controller owns the animation state for one surface: the current category,
// its particle batch and the single redraw loop. A Controller starts Idle;
// SetCategory transitions it to Running. Switching categories stops the old
// loop synchronously before the new one starts, so at most one loop is ever
// active per Controller.
//
// A nil Surface makes every method a silent no-op: the animation is
// decorative and its absence is never an error.
type Controller struct {
	surface  Surface
	interval time.Duration
	rng      *rand.Rand

	mu        sync.Mutex
	category  weather.Category
	running   bool
	stop      chan struct{}
	done      chan struct{}
	particles []particle

	// loops counts live loop goroutines; it exists to make the
	// "exactly one active loop" invariant observable.
	loops atomic.Int32
}

// New creates a Controller drawing on s. The surface may be nil.
func New(s Surface) *Controller {
	return &Controller{
		surface:  s,
		interval: DefaultFrameInterval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetCategory switches the animation to the given category. Setting the
// category the controller is already running is a no-op, guarding against
// restarting an identical animation. Otherwise the current loop (if any) is
// canceled before a fresh particle batch and loop are started.
func (c *Controller) SetCategory(cat weather.Category) {
	if c.surface == nil {
		return
	}

	c.mu.Lock()
	if c.running && c.category == cat {
		c.mu.Unlock()
		return
	}
	stop, done := c.stop, c.done
	wasRunning := c.running
	c.running = false
	c.mu.Unlock()

	// Stop the old loop outside the lock; the loop needs the lock to finish
	// its current frame.
	if wasRunning {
		close(stop)
		<-done
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := c.surface.Bounds()
	c.category = cat
	c.particles = spawn(c.rng, cat, w, h)
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.running = true
	go c.loop(c.stop, c.done)
}

// Stop cancels the redraw loop and returns once it has exited. Stopping an
// idle controller is a no-op.
func (c *Controller) Stop() {
	if c.surface == nil {
		return
	}

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	stop, done := c.stop, c.done
	c.running = false
	c.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether a redraw loop is active.
func (c *Controller) Running() bool {
	if c.surface == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Category returns the category the controller last entered.
func (c *Controller) Category() weather.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// loop is the redraw loop. One frame per tick until stop is closed; done is
// closed on exit so callers can wait for the handoff.
func (c *Controller) loop(stop, done chan struct{}) {
	// done must close after the loop counter drops so that a caller waiting
	// on done observes the loop as gone.
	defer close(done)
	c.loops.Add(1)
	defer c.loops.Add(-1)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.frame()
		}
	}
}

// frame draws one frame: clear, then draw and advance every particle.
// Bounds are re-read each frame so the loop tracks surface resizes.
func (c *Controller) frame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := c.surface.Bounds()
	if w <= 0 || h <= 0 {
		return
	}

	c.surface.Clear()
	for i := range c.particles {
		c.particles[i].draw(c.surface, c.category)
		c.particles[i].advance(c.rng, c.category, w, h)
	}
}
