package furnace

import (
	"math"

	"github.com/df07/go-scattering/pkg/core"
)

// AlbedoStats accumulates Monte Carlo estimates of f*|cos|/pdf
type AlbedoStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for the mean
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken, including failed ones
	Failed           int       // Samples where the BSDF produced no direction
}

// AddSample adds a new estimate to the statistics
func (s *AlbedoStats) AddSample(value core.Vec3) {
	s.ColorAccum = s.ColorAccum.Add(value)
	luminance := value.Luminance()
	s.LuminanceAccum += luminance
	s.LuminanceSqAccum += luminance * luminance
	s.SampleCount++
}

// AddFailure records a sample that contributed nothing
func (s *AlbedoStats) AddFailure() {
	s.SampleCount++
	s.Failed++
}

// Merge adds other's samples to s
func (s *AlbedoStats) Merge(other AlbedoStats) {
	s.ColorAccum = s.ColorAccum.Add(other.ColorAccum)
	s.LuminanceAccum += other.LuminanceAccum
	s.LuminanceSqAccum += other.LuminanceSqAccum
	s.SampleCount += other.SampleCount
	s.Failed += other.Failed
}

// Albedo returns the mean directional albedo
func (s *AlbedoStats) Albedo() core.Vec3 {
	if s.SampleCount == 0 {
		return core.Vec3{}
	}
	return s.ColorAccum.Multiply(1.0 / float64(s.SampleCount))
}

// StdErr returns the standard error of the mean luminance
func (s *AlbedoStats) StdErr() float64 {
	if s.SampleCount < 2 {
		return 0
	}
	n := float64(s.SampleCount)
	mean := s.LuminanceAccum / n
	variance := math.Max(0, (s.LuminanceSqAccum/n-mean*mean)*n/(n-1))
	return math.Sqrt(variance / n)
}
