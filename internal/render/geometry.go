package render

import (
	"math"

	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/motion"
	"particles.klederson.com/internal/shape"
)

const nearPlane = 0.1

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	Distance   float64 // Eye position on the Z axis
	FOV        float64 // Vertical field of view in radians
	CellAspect float64 // Width/height of one output cell (0.5 for terminals, 1 for pixels)
}

// TerminalCamera returns the camera used for character-cell output.
func TerminalCamera() Camera {
	return Camera{
		Distance:   config.CameraDistance,
		FOV:        config.CameraFOVDeg * math.Pi / 180,
		CellAspect: config.AspectRatio,
	}
}

// PixelCamera returns the same camera for square pixels.
func PixelCamera() Camera {
	c := TerminalCamera()
	c.CellAspect = 1
	return c
}

// Rotate applies yaw about the Y axis and then pitch about the X axis.
func Rotate(p shape.Point, rot motion.Rotation) shape.Point {
	sy, cy := math.Sincos(rot.Yaw)
	x := p.X*cy + p.Z*sy
	z := -p.X*sy + p.Z*cy

	sp, cp := math.Sincos(rot.Pitch)
	y := p.Y*cp - z*sp
	z = p.Y*sp + z*cp

	return shape.Point{X: x, Y: y, Z: z}
}

// Project maps a world point onto a width x height grid of cells. It
// returns the cell, the distance from the eye, and false when the point
// is behind the camera or off screen.
func (c Camera) Project(p shape.Point, rot motion.Rotation, width, height int) (col, row int, depth float64, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, 0, false
	}
	q := Rotate(p, rot)
	depth = c.Distance - q.Z
	if depth < nearPlane {
		return 0, 0, 0, false
	}

	f := 1 / math.Tan(c.FOV/2)
	aspect := float64(width) * c.CellAspect / float64(height)
	ndcX := q.X * f / (aspect * depth)
	ndcY := q.Y * f / depth

	fx := (ndcX + 1) / 2 * float64(width)
	fy := (1 - ndcY) / 2 * float64(height)
	if fx < 0 || fy < 0 || fx >= float64(width) || fy >= float64(height) {
		return 0, 0, depth, false
	}
	return int(fx), int(fy), depth, true
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Degrees converts an angle to degrees in [0, 360).
func Degrees(a float64) float64 {
	return NormalizeAngle(a) * 180 / math.Pi
}
