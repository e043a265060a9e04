package animation

import (
	"math/rand"

	"github.com/eru038/Weather-BGM-Player/internal/weather"
)

// Batch sizes per category: rain is dense, snow medium, everything else a
// sparse ambient drift.
const (
	rainCount    = 120
	snowCount    = 80
	ambientCount = 60
)

// particle is a single transient animation entity. Rain particles use
// length; snow and ambient particles use radius. Particles are recycled by
// wrapping, never destroyed mid-run.
type particle struct {
	x, y    float64
	speedY  float64
	drift   float64
	length  float64
	radius  float64
	opacity float64
}

// spawn allocates a fresh particle batch for a category within the given
// bounds.
func spawn(rng *rand.Rand, cat weather.Category, w, h float64) []particle {
	switch cat {
	case weather.Rain:
		ps := make([]particle, rainCount)
		for i := range ps {
			ps[i] = particle{
				x:       rng.Float64() * w,
				y:       rng.Float64() * h,
				speedY:  4 + rng.Float64()*6,
				length:  10 + rng.Float64()*15,
				opacity: 0.2 + rng.Float64()*0.4,
			}
		}
		return ps
	case weather.Snow:
		ps := make([]particle, snowCount)
		for i := range ps {
			ps[i] = particle{
				x:       rng.Float64() * w,
				y:       rng.Float64() * h,
				radius:  1 + rng.Float64()*2,
				speedY:  0.5 + rng.Float64()*1.5,
				drift:   (rng.Float64() - 0.5) * 0.5,
				opacity: 0.5 + rng.Float64()*0.5,
			}
		}
		return ps
	default:
		// Clear, Clouds and Default share the slow upward glow.
		ps := make([]particle, ambientCount)
		for i := range ps {
			ps[i] = particle{
				x:       rng.Float64() * w,
				y:       rng.Float64() * h,
				radius:  1 + rng.Float64()*2,
				speedY:  -0.2 - rng.Float64()*0.8,
				opacity: 0.15 + rng.Float64()*0.25,
			}
		}
		return ps
	}
}

// advance moves a particle one frame and wraps it to the opposite edge when
// it leaves the bounds in its direction of travel. The orthogonal coordinate
// is re-randomized on a vertical wrap so particles don't reappear in a
// predictable line.
func (p *particle) advance(rng *rand.Rand, cat weather.Category, w, h float64) {
	p.y += p.speedY
	p.x += p.drift

	switch cat {
	case weather.Rain:
		if p.y > h {
			p.y = -p.length
			p.x = rng.Float64() * w
		}
	case weather.Snow:
		if p.y > h+5 {
			p.y = -10
			p.x = rng.Float64() * w
		}
		if p.x < -10 {
			p.x = w + 10
		} else if p.x > w+10 {
			p.x = -10
		}
	default:
		if p.y < -10 {
			p.y = h + 10
			p.x = rng.Float64() * w
		}
	}
}

// draw renders a particle in the style of its category.
func (p *particle) draw(s Surface, cat weather.Category) {
	if cat == weather.Rain {
		s.StrokeLine(p.x, p.y, p.x, p.y+p.length, p.opacity)
		return
	}
	s.FillCircle(p.x, p.y, p.radius, p.opacity)
}
