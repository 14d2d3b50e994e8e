package geo

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance between two coordinates in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// ParseCoordinate converts a raw JSON value (number, numeric string, null) into a
// coordinate component. Mobile clients have been seen sending all three shapes for the
// same field. Returns ok=false for anything that is not a finite number; it never
// returns an error and never panics.
func ParseCoordinate(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		switch strings.ToLower(s) {
		case "null", "undefined", "nan":
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ValidateAndCorrect swaps an axis pair that looks transposed: latitude outside
// [-90,90] while the longitude value would be a plausible latitude. Some clients
// transmit the axes in the wrong order; this is a best-effort repair, so callers must
// still range-check the result with ValidLatLon.
func ValidateAndCorrect(lat, lon float64) (float64, float64, bool) {
	if math.Abs(lat) > 90 && math.Abs(lon) <= 90 {
		return lon, lat, true
	}
	return lat, lon, false
}

// ValidLatLon reports whether the pair is finite and within WGS84 ranges.
func ValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Evaluation is the result of a geofence check. It is always produced, even for
// garbage input: Invalid marks coordinates that failed validation, in which case
// DistanceMeters is +Inf and IsWithin is false.
type Evaluation struct {
	IsWithin              bool
	DistanceMeters        float64
	EffectiveRadiusMeters float64
	Invalid               bool
}

// Evaluator classifies positions against a circular site geofence. BufferMeters is
// the deployment-wide allowance for consumer GPS drift, added on top of every site
// radius; a zero-radius site therefore still accepts anything within the buffer.
type Evaluator struct {
	BufferMeters float64
}

// DefaultAccuracyBufferMeters absorbs typical consumer GPS error.
const DefaultAccuracyBufferMeters = 50

// NewEvaluator returns an Evaluator with the given GPS accuracy buffer; a
// non-positive buffer falls back to the default.
func NewEvaluator(bufferMeters float64) Evaluator {
	if bufferMeters <= 0 {
		bufferMeters = DefaultAccuracyBufferMeters
	}
	return Evaluator{BufferMeters: bufferMeters}
}

// Evaluate decides whether the reported position lies inside the site geofence.
// Both coordinate pairs run through swap correction and range validation first.
func (e Evaluator) Evaluate(lat, lon, siteLat, siteLon float64, radiusMeters int) Evaluation {
	effective := float64(radiusMeters) + e.BufferMeters

	lat, lon, _ = ValidateAndCorrect(lat, lon)
	siteLat, siteLon, _ = ValidateAndCorrect(siteLat, siteLon)

	if !ValidLatLon(lat, lon) || !ValidLatLon(siteLat, siteLon) {
		return Evaluation{
			IsWithin:              false,
			DistanceMeters:        math.Inf(1),
			EffectiveRadiusMeters: effective,
			Invalid:               true,
		}
	}

	distance := HaversineMeters(lat, lon, siteLat, siteLon)

	return Evaluation{
		IsWithin:              distance <= effective,
		DistanceMeters:        distance,
		EffectiveRadiusMeters: effective,
	}
}
