package scene

import (
	"math"
	"math/rand/v2"

	"tabletop/internal/catalog"
)

type Rand = catalog.Rand

// MaxGazeOffset bounds how far the head may turn away from the body.
const MaxGazeOffset = math.Pi / 2

type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the process-wide generator.
func DefaultRand() Rand {
	return defaultRand{}
}

// RandomFacing picks a body yaw in [0, 2π) and a gaze offset. Half the time
// the gaze follows the body; otherwise it turns by up to MaxGazeOffset either
// way.
func RandomFacing(r Rand) (Vec3, float64) {
	yaw := 2 * math.Pi * r.Float64()
	gaze := 0.0
	if r.Float64() >= 0.5 {
		gaze = (2*r.Float64() - 1) * MaxGazeOffset
	}
	return Vec3{0, yaw, 0}, clampGaze(gaze)
}

func clampGaze(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-MaxGazeOffset, math.Min(MaxGazeOffset, v))
}
