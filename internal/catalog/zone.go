package catalog

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a point or Euler rotation: x, y (up), z.
type Vec3 [3]float64

// Zone is a directional region of the surface. ZoneNone is the neutral
// center and marshals as JSON null.
type Zone string

const (
	ZoneNone  Zone = ""
	ZoneNorth Zone = "north"
	ZoneSouth Zone = "south"
	ZoneEast  Zone = "east"
	ZoneWest  Zone = "west"
)

// Zones returns the directional zones in their fixed enumeration order. Tie
// breaks everywhere follow this order.
func Zones() []Zone {
	return []Zone{ZoneNorth, ZoneSouth, ZoneEast, ZoneWest}
}

func (z Zone) Valid() bool {
	switch z {
	case ZoneNone, ZoneNorth, ZoneSouth, ZoneEast, ZoneWest:
		return true
	}
	return false
}

func (z Zone) MarshalJSON() ([]byte, error) {
	if z == ZoneNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(z))
}

func (z *Zone) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*z = ZoneNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("zone: %w", err)
	}
	zone := Zone(s)
	if zone == ZoneNone || !zone.Valid() {
		return fmt.Errorf("zone: unknown value %q", s)
	}
	*z = zone
	return nil
}

// ZoneInfo describes the life path associated with a zone.
type ZoneInfo struct {
	Zone        Zone
	Name        string
	Description string
	Color       string
}

var zoneInfo = map[Zone]ZoneInfo{
	ZoneNorth: {Zone: ZoneNorth, Name: "Migrant (search)", Description: "Leaving the known behind in search of something else", Color: "#1D4ED8"},
	ZoneSouth: {Zone: ZoneSouth, Name: "Suffering (struggle)", Description: "Carrying hardship and fighting through it", Color: "#B91C1C"},
	ZoneEast:  {Zone: ZoneEast, Name: "Pleasure (enjoyment)", Description: "Seeking joy, ease and enjoyment", Color: "#EAB308"},
	ZoneWest:  {Zone: ZoneWest, Name: "Duty (responsibility)", Description: "Living for obligation and responsibility", Color: "#B45309"},
}

// Info returns the life path for z; ok is false for ZoneNone.
func Info(z Zone) (ZoneInfo, bool) {
	info, ok := zoneInfo[z]
	return info, ok
}

// Surface is the circular placement area centered on the origin. North is
// negative z, east is positive x.
type Surface struct {
	Radius        float64
	NeutralRadius float64
}

func DefaultSurface() Surface {
	return Surface{Radius: 7, NeutralRadius: 1}
}

// ClassifyZone is total: every input, including NaN and infinities, maps to
// exactly one zone. Positions inside the neutral square on both axes are
// ZoneNone. Otherwise the axis with the larger magnitude wins; equal
// magnitudes go to the z axis.
func (s Surface) ClassifyZone(position Vec3) Zone {
	x, z := position[0], position[2]
	ax, az := math.Abs(x), math.Abs(z)

	if ax < s.NeutralRadius && az < s.NeutralRadius {
		return ZoneNone
	}

	if ax > az {
		if x > 0 {
			return ZoneEast
		}
		return ZoneWest
	}
	if z < 0 {
		return ZoneNorth
	}
	return ZoneSouth
}

// Contains reports whether position lies on the surface (horizontal distance
// from the center within Radius).
func (s Surface) Contains(position Vec3) bool {
	return math.Hypot(position[0], position[2]) <= s.Radius
}

// Rand is the randomness source used for drops. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// RandomPoint returns a uniformly distributed point on the surface at height
// y.
func (s Surface) RandomPoint(r Rand, y float64) Vec3 {
	dist := s.Radius * math.Sqrt(r.Float64())
	angle := 2 * math.Pi * r.Float64()
	return Vec3{dist * math.Cos(angle), y, dist * math.Sin(angle)}
}
