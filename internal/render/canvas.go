package render

import (
	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/motion"
	"particles.klederson.com/internal/shape"
)

// glow is how much of the particle color one particle adds to its pixel.
const glow = 0.45

// background is the cleared pixel color.
var background = [3]uint8{5, 5, 10}

// Canvas is an RGBA pixel buffer particles are splatted into with
// additive blending, so dense regions saturate toward white. The buffer
// is reused every frame.
type Canvas struct {
	Width, Height int
	Pix           []byte
}

// NewCanvas allocates a width x height canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// Clear fills the canvas with the background color.
func (c *Canvas) Clear() {
	for i := 0; i < len(c.Pix); i += 4 {
		c.Pix[i] = background[0]
		c.Pix[i+1] = background[1]
		c.Pix[i+2] = background[2]
		c.Pix[i+3] = 0xff
	}
}

// Add blends rgb scaled by glow into the pixel at (x, y).
func (c *Canvas) Add(x, y int, rgb config.RGB) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	i := (y*c.Width + x) * 4
	c.Pix[i] = addSat(c.Pix[i], uint8(float64(rgb.R)*glow))
	c.Pix[i+1] = addSat(c.Pix[i+1], uint8(float64(rgb.G)*glow))
	c.Pix[i+2] = addSat(c.Pix[i+2], uint8(float64(rgb.B)*glow))
}

// At returns the color of a pixel.
func (c *Canvas) At(x, y int) config.RGB {
	i := (y*c.Width + x) * 4
	return config.RGB{R: c.Pix[i], G: c.Pix[i+1], B: c.Pix[i+2]}
}

// Plot clears the canvas and draws every particle, nearer ones as a small
// cross so the depth of the field reads. It returns how many were drawn.
func (c *Canvas) Plot(live shape.ParticleSet, rot motion.Rotation, cam Camera, rgb config.RGB) int {
	c.Clear()
	drawn := 0
	for _, p := range live {
		x, y, depth, ok := cam.Project(p, rot, c.Width, c.Height)
		if !ok {
			continue
		}
		c.Add(x, y, rgb)
		if depth < cam.Distance-2 {
			c.Add(x+1, y, rgb)
			c.Add(x-1, y, rgb)
			c.Add(x, y+1, rgb)
			c.Add(x, y-1, rgb)
		}
		drawn++
	}
	return drawn
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}
