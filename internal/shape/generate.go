package shape

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

const (
	goldenAngle  = 137.5 * math.Pi / 180
	saturnTilt   = 0.4
	ringFraction = 0.4
)

// Generator produces template point clouds of a fixed size. It is safe for
// concurrent use; each call fills a freshly allocated buffer.
type Generator struct {
	n   int
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator binds a generator to buffer size n and a random source.
// A nil rng gets a randomly seeded PCG.
func NewGenerator(n int, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{n: n, rng: rng}
}

// Size returns N.
func (g *Generator) Size() int { return g.n }

// Generate samples template t.
func (g *Generator) Generate(t Template) (ParticleSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Generate(t, g.n, g.rng)
}

// Generate samples n points from template t using rng.
func Generate(t Template, n int, rng *rand.Rand) (ParticleSet, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTemplate, int(t))
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: have %d, want a positive size", ErrBufferSizeMismatch, n)
	}

	ps := make(ParticleSet, n)
	for i := range ps {
		switch t {
		case TemplateHeart:
			ps[i] = heartPoint(rng)
		case TemplateFlower:
			ps[i] = flowerPoint(i, rng)
		case TemplateSaturnRings:
			ps[i] = saturnPoint(rng)
		case TemplateFireworks:
			ps[i] = fireworkPoint(rng)
		}
	}
	return ps, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// heartPoint fills the parametric heart outline into a volume; the
// outline scale and depth both grow with r = sqrt(u), which keeps the fill
// area-uniform.
func heartPoint(rng *rand.Rand) Point {
	t := uniform(rng, 0, 2*math.Pi)
	r := math.Sqrt(rng.Float64())

	s := math.Sin(t)
	hx := 16 * s * s * s
	hy := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)

	scale := 0.3 * r
	return Point{
		X: hx * scale,
		Y: hy * scale,
		Z: uniform(rng, -2, 2) * r,
	}
}

// flowerPoint lays particle i on a phyllotaxis spiral bent into a bowl.
func flowerPoint(i int, rng *rand.Rand) Point {
	angle := float64(i) * goldenAngle
	radius := 0.2 * math.Sqrt(float64(i)) * 0.15
	return Point{
		X: radius * math.Cos(angle),
		Y: radius * math.Sin(angle),
		Z: math.Sin(radius*0.5)*2 + uniform(rng, -0.5, 0.5),
	}
}

func saturnPoint(rng *rand.Rand) Point {
	var x, y, z float64
	if rng.Float64() < ringFraction {
		theta := uniform(rng, 0, 2*math.Pi)
		r := uniform(rng, 6, 10)
		x = r * math.Cos(theta)
		z = r * math.Sin(theta)
		y = uniform(rng, -0.2, 0.2)
	} else {
		r := uniform(rng, 0, 3.5)
		x, y, z = spherical(r, uniform(rng, 0, 2*math.Pi), uniform(rng, 0, math.Pi))
	}

	c, s := math.Cos(saturnTilt), math.Sin(saturnTilt)
	return Point{
		X: x*c - y*s,
		Y: x*s + y*c,
		Z: z,
	}
}

// fireworkPoint biases the radius toward the outer shell for a hollow burst.
func fireworkPoint(rng *rand.Rand) Point {
	theta := uniform(rng, 0, 2*math.Pi)
	phi := uniform(rng, 0, math.Pi)
	r := math.Pow(rng.Float64(), 0.3) * 8
	x, y, z := spherical(r, theta, phi)
	return Point{x, y, z}
}

func spherical(r, theta, phi float64) (x, y, z float64) {
	return r * math.Sin(phi) * math.Cos(theta),
		r * math.Sin(phi) * math.Sin(theta),
		r * math.Cos(phi)
}
