package motion

import "particles.klederson.com/internal/config"

// Params are the integrator tunables. None of them are structural; the
// defaults reproduce the reference look.
type Params struct {
	CatchUpRate         float64 // Fraction of the remaining distance covered per tick
	ExpansionGain       float64 // Expansion = 1 + tension*gain while a gesture is present
	BreathAmplitude     float64 // Idle expansion = 1 + sin(t*rate)*amplitude
	BreathRate          float64
	TurbulenceThreshold float64 // Tension above which destinations get jitter
	TurbulenceAmplitude float64 // Per-axis jitter bound
	SpinRate            float64 // Yaw added every tick
	YawGain             float64 // Yaw added per tick per unit of centerX
	PitchGain           float64 // Pitch = centerY*gain
}

// DefaultParams returns the built-in tunables.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default().Motion)
}

// ParamsFromConfig copies the motion section of a loaded config.
func ParamsFromConfig(c config.MotionConfig) Params {
	return Params{
		CatchUpRate:         c.CatchUpRate,
		ExpansionGain:       c.ExpansionGain,
		BreathAmplitude:     c.BreathAmplitude,
		BreathRate:          c.BreathRate,
		TurbulenceThreshold: c.TurbulenceThreshold,
		TurbulenceAmplitude: c.TurbulenceAmplitude,
		SpinRate:            c.SpinRate,
		YawGain:             c.YawGain,
		PitchGain:           c.PitchGain,
	}
}
