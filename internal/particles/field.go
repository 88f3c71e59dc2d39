// Package particles simulates the falling spores drawn behind the
// invitation. The server seeds a field and the canvas script animates it.
package particles

import (
	"math"
	"math/rand"
)

const (
	// areaPerParticle is the viewport area in px² that yields one particle.
	areaPerParticle = 18000
	minCount        = 18
	maxCount        = 120

	// edgeMargin is how far past an edge a particle travels before wrapping.
	edgeMargin = 12

	minDT = 0.5
	maxDT = 2
)

// Lightning flashes, in ms of animation time.
const (
	firstFlashMin  = 1200
	firstFlashSpan = 3500
	flashGapMin    = 1800
	flashGapSpan   = 5000
)

const (
	HueRed    = 355
	HuePurple = 285
	HueCold   = 205
)

type Particle struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	R       float64 `json:"r"`
	Alpha   float64 `json:"a"`
	Twinkle float64 `json:"tw"`
	Hue     int     `json:"hue"`
	Streak  float64 `json:"streak"`
}

type Field struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Intensity float64    `json:"intensity"`
	Particles []Particle `json:"particles"`
	// NextFlashAt is the animation time (ms) of the next lightning flash.
	NextFlashAt float64 `json:"nextFlashAt"`

	rng *rand.Rand
}

// TargetCount returns how many particles a w×h viewport holds.
func TargetCount(w, h, intensity float64) int {
	return int(math.Floor(clamp(w*h/areaPerParticle*intensity, minCount, maxCount)))
}

// NewField seeds a field for a w×h viewport. A nil rng uses a time-seeded one.
func NewField(w, h, intensity float64, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	f := &Field{Intensity: intensity, rng: rng}
	f.Resize(w, h)
	return f
}

// Empty returns a field with no particles, used when the visitor prefers
// reduced motion.
func Empty(w, h float64) *Field {
	return &Field{Width: w, Height: h, Particles: []Particle{}}
}

// Resize changes the viewport and reseeds every particle.
func (f *Field) Resize(w, h float64) {
	f.Width = math.Max(1, math.Floor(w))
	f.Height = math.Max(1, math.Floor(h))

	n := TargetCount(f.Width, f.Height, f.Intensity)
	f.Particles = make([]Particle, n)
	for i := range f.Particles {
		f.Particles[i] = f.spawn()
		f.Particles[i].Y = f.rng.Float64() * f.Height
	}
	f.NextFlashAt = firstFlashMin + f.rng.Float64()*firstFlashSpan
}

func (f *Field) spawn() Particle {
	hue := HueRed
	if f.rng.Float64() < 0.18 {
		hue = HueCold
	} else if f.rng.Float64() < 0.1 {
		hue = HuePurple
	}

	var streak float64
	if f.rng.Float64() >= 0.5 {
		streak = 4 + f.rng.Float64()*12
	}

	p := Particle{
		X:       f.rng.Float64() * f.Width,
		R:       0.6 + f.rng.Float64()*1.7,
		Alpha:   0.06 + f.rng.Float64()*0.16,
		Twinkle: f.rng.Float64() * math.Pi * 2,
		Hue:     hue,
		Streak:  streak,
	}
	f.respeed(&p)
	return p
}

func (f *Field) respeed(p *Particle) {
	p.VX = (f.rng.Float64() - 0.5) * 0.18
	p.VY = 0.35 + f.rng.Float64()*1.2
}

// Step advances the field by dt frames of 1/60 s. dt is clamped so a
// stalled tab does not teleport particles.
func (f *Field) Step(dt float64) {
	dt = clamp(dt, minDT, maxDT)

	for i := range f.Particles {
		p := &f.Particles[i]
		p.Twinkle += 0.02 * dt
		p.X += p.VX * dt
		p.Y += p.VY * dt

		if p.Y > f.Height+edgeMargin {
			p.Y = -edgeMargin
			p.X = f.rng.Float64() * f.Width
			f.respeed(p)
		}
		if p.X < -edgeMargin {
			p.X = f.Width + edgeMargin
		}
		if p.X > f.Width+edgeMargin {
			p.X = -edgeMargin
		}
	}
}

// Flash reports the opacity of the cold lightning wash to draw over the
// frame at time t (ms), or 0 when no flash is due. A flash schedules the
// next one 1.8 to 6.8 s later.
func (f *Field) Flash(t float64) float64 {
	if t <= f.NextFlashAt {
		return 0
	}
	alpha := 0.08 + f.rng.Float64()*0.08
	f.NextFlashAt = t + flashGapMin + f.rng.Float64()*flashGapSpan
	return alpha
}

// Opacity is the particle's alpha at time t (ms) including twinkle.
func (p Particle) Opacity(t float64) float64 {
	twinkle := 0.5 + 0.5*math.Sin(p.Twinkle+t*0.001)
	return p.Alpha * (0.6 + 0.4*twinkle)
}

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}
