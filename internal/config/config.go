package config

import "time"

const (
	// Particle field
	ParticleCount = 8000 // Particles per buffer (fixed for the process lifetime)

	// Motion integrator
	CatchUpRate         = 0.1   // Exponential smoothing toward destination, per tick
	ExpansionGain       = 2.0   // Expansion = 1 + tension*gain when a gesture is present
	BreathAmplitude     = 0.2   // Idle breathing amplitude
	BreathRate          = 0.5   // Idle breathing angular rate (rad/s)
	TurbulenceThreshold = 0.8   // Tension above which shimmer jitter kicks in
	TurbulenceAmplitude = 0.1   // Per-axis jitter bound
	SpinRate            = 0.002 // Constant yaw added every tick
	YawGain             = 0.05  // Yaw added per tick per unit of gesture centerX
	PitchGain           = 0.5   // Pitch = centerY * gain

	// Camera (matches a perspective camera at z=15 with a 45 degree fov)
	CameraDistance = 15.0
	CameraFOVDeg   = 45.0
	AspectRatio    = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	TargetFPS      = 30  // Terminal frames per second
	WindowFPS      = 60  // Window frontend ticks per second

	// Gesture handoff
	GestureTimeout   = 1500 * time.Millisecond // Snapshots older than this read as absent
	PresenceThrottle = 250 * time.Millisecond  // Minimum spacing of presence notifications
	SyntheticRate    = 33 * time.Millisecond   // Synthetic tracker cadence (~30 Hz camera)

	// Beacon gesture source
	MeasuredPower  = -59.0 // RSSI at 1 meter (dBm)
	PathLossExp    = 2.5   // Path loss exponent (N)
	SmoothingAlpha = 0.3   // EMA smoothing factor (30% new, 70% old)
	BeaconNear     = 0.3   // Meters mapped to tension 0
	BeaconFar      = 3.0   // Meters mapped to tension 1

	// Window frontend
	WindowWidth  = 1024
	WindowHeight = 640

	// Audio hum
	HumBaseFreq   = 110.0 // Hz at expansion 1
	HumSampleRate = 44100
	HumMaxVolume  = 0.25

	// HUD
	TensionHistory = 120 // Samples kept for the tension graph

	// App
	AppName    = "PARTICLES"
	AppVersion = "1.0"
	PrefsApp   = "particles_klederson"
)

// Palette is the set of uniform particle colors the UI cycles through.
var Palette = []string{
	"#FF3366", // Pink/Red
	"#33CCFF", // Cyan
	"#FFCC00", // Gold
	"#CC33FF", // Purple
	"#33FF99", // Green
	"#FFFFFF", // White
}
