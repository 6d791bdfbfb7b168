package polyline

import (
	"math"
	"testing"
)

func TestDecode_Empty(t *testing.T) {
	if got := Decode(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestDecode_KnownPolyline(t *testing.T) {
	// Reference example from the polyline algorithm documentation.
	coords := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

	want := []Coordinate{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}

	if len(coords) != len(want) {
		t.Fatalf("expected %d coordinates, got %d", len(want), len(coords))
	}

	for i, w := range want {
		if math.Abs(coords[i].Lat-w.Lat) > 1e-5 || math.Abs(coords[i].Lon-w.Lon) > 1e-5 {
			t.Errorf("coordinate %d: expected %v, got %v", i, w, coords[i])
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	coords := []Coordinate{
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: 41.2033, Lon: -77.1945},
		{Lat: 42.8864, Lon: -78.8784},
	}

	decoded := Decode(Encode(coords))
	if len(decoded) != len(coords) {
		t.Fatalf("expected %d coordinates, got %d", len(coords), len(decoded))
	}
	for i, c := range coords {
		if math.Abs(decoded[i].Lat-c.Lat) > 1e-5 || math.Abs(decoded[i].Lon-c.Lon) > 1e-5 {
			t.Errorf("coordinate %d: expected %v, got %v", i, c, decoded[i])
		}
	}
}

func TestHaversineMiles_KnownDistance(t *testing.T) {
	nyc := Coordinate{Lat: 40.7128, Lon: -74.0060}
	buffalo := Coordinate{Lat: 42.8864, Lon: -78.8784}

	// Great-circle distance NYC to Buffalo is roughly 292 miles.
	dist := HaversineMiles(nyc, buffalo)
	if dist < 280 || dist > 305 {
		t.Errorf("expected ~292 miles, got %.1f", dist)
	}
}

func TestLengthMiles(t *testing.T) {
	if got := LengthMiles(nil); got != 0 {
		t.Errorf("expected 0 for nil input, got %f", got)
	}
	if got := LengthMiles([]Coordinate{{Lat: 1, Lon: 1}}); got != 0 {
		t.Errorf("expected 0 for single point, got %f", got)
	}

	coords := []Coordinate{
		{Lat: 40.0, Lon: -74.0},
		{Lat: 40.5, Lon: -74.0},
		{Lat: 41.0, Lon: -74.0},
	}
	total := LengthMiles(coords)
	direct := HaversineMiles(coords[0], coords[2])
	if math.Abs(total-direct) > 0.1 {
		t.Errorf("straight-line segments should sum to direct distance: total=%.3f direct=%.3f", total, direct)
	}
}

// straightLineRoute builds a north-running route with vertices roughly
// stepMiles apart (1 degree of latitude is ~69.05 miles).
func straightLineRoute(n int, stepMiles float64) []Coordinate {
	coords := make([]Coordinate, n)
	for i := range coords {
		coords[i] = Coordinate{Lat: 40.0 + float64(i)*stepMiles/69.05, Lon: -74.0}
	}
	return coords
}

func TestSampleMiles_IncludesEndpoints(t *testing.T) {
	coords := straightLineRoute(100, 1.0) // ~99 mile route, 1-mile vertices

	sampled := SampleMiles(coords, 10)

	if len(sampled) == 0 {
		t.Fatal("expected non-empty sample")
	}
	if sampled[0] != coords[0] {
		t.Errorf("first sampled point must be the route start, got %v", sampled[0])
	}
	last := sampled[len(sampled)-1]
	if HaversineMiles(last, coords[len(coords)-1]) > 5.0 {
		t.Errorf("last sampled point must be within half an interval of the destination, got %v", last)
	}
}

func TestSampleMiles_AppendsFarDestination(t *testing.T) {
	// 14 vertices 1 mile apart: last emission at ~10 miles, destination at
	// ~13 miles, which is beyond interval/2 and must be appended.
	coords := straightLineRoute(14, 1.0)

	sampled := SampleMiles(coords, 10)

	if sampled[len(sampled)-1] != coords[len(coords)-1] {
		t.Errorf("destination should have been appended, got %v", sampled[len(sampled)-1])
	}
}

func TestSampleMiles_MinimumSpacing(t *testing.T) {
	coords := straightLineRoute(200, 0.5) // ~100 mile route, half-mile vertices
	interval := 10.0

	sampled := SampleMiles(coords, interval)

	// Every consecutive pair except possibly the final appended destination
	// must be at least an interval apart (within vertex granularity).
	for i := 1; i < len(sampled)-1; i++ {
		d := HaversineMiles(sampled[i-1], sampled[i])
		if d < interval-0.6 {
			t.Errorf("points %d and %d are %.2f miles apart, expected >= %.1f", i-1, i, d, interval)
		}
	}
}

func TestSampleMiles_SinglePoint(t *testing.T) {
	coords := []Coordinate{{Lat: 40.7128, Lon: -74.0060}}

	sampled := SampleMiles(coords, 10)

	if len(sampled) != 1 || sampled[0] != coords[0] {
		t.Errorf("single-point route must sample to itself, got %v", sampled)
	}
}

func TestSampleMiles_Deterministic(t *testing.T) {
	coords := straightLineRoute(50, 2.0)

	a := SampleMiles(coords, 12)
	b := SampleMiles(coords, 12)

	if len(a) != len(b) {
		t.Fatalf("repeated sampling differs in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("repeated sampling differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
