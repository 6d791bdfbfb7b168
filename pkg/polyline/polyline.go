// Package polyline provides encoding, decoding, and sampling utilities for
// Google's polyline algorithm as used by OSRM route geometries.
// The algorithm is documented at: https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"math"
)

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Decode decodes a polyline-encoded string into a slice of coordinates.
// The polyline format uses precision of 5 decimal places (standard Google/OSRM format).
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []Coordinate
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lat += latDelta

		lonDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lon += lonDelta

		coords = append(coords, Coordinate{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return coords
}

// decodeValue decodes a single value from the polyline at the given index.
// Returns the decoded delta value and the new index position.
func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	// Apply two's complement for negative values
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// Encode encodes a slice of coordinates into a polyline-encoded string.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLon := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Lat * 1e5))
		lon := int(math.Round(coord.Lon * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

// encodeValue encodes a single integer value using the polyline algorithm.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// LengthMiles calculates the total length of a polyline in miles using the
// haversine formula.
func LengthMiles(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += HaversineMiles(coords[i-1], coords[i])
	}
	return total
}

// SampleMiles returns route vertices sampled at approximately the given
// interval in miles. The walk accumulates haversine distance between
// consecutive vertices and emits the current vertex whenever the accumulator
// reaches the interval, carrying over the remainder so average spacing stays
// accurate over long routes. The first vertex is always emitted. If the last
// emitted vertex ends up more than half an interval from the route's final
// vertex, the final vertex is appended so the destination is always
// represented in the sampled series.
func SampleMiles(coords []Coordinate, intervalMiles float64) []Coordinate {
	if len(coords) == 0 {
		return nil
	}
	if len(coords) == 1 {
		return []Coordinate{coords[0]}
	}
	if intervalMiles <= 0 {
		return coords
	}

	sampled := []Coordinate{coords[0]}
	accumulated := 0.0

	for i := 1; i < len(coords); i++ {
		accumulated += HaversineMiles(coords[i-1], coords[i])
		if accumulated >= intervalMiles {
			sampled = append(sampled, coords[i])
			// Carry over the remainder instead of resetting to zero
			accumulated -= intervalMiles
		}
	}

	last := coords[len(coords)-1]
	if HaversineMiles(sampled[len(sampled)-1], last) > intervalMiles*0.5 {
		sampled = append(sampled, last)
	}

	return sampled
}

const earthRadiusMiles = 3958.8

// HaversineMiles calculates the great-circle distance between two
// coordinates in miles.
func HaversineMiles(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
