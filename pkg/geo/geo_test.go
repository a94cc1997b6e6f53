package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		p1   Point
		p2   Point
		want float64
	}{
		{
			name: "Same Point",
			p1:   Point{Lat: 12.9716, Lng: 77.5946},
			p2:   Point{Lat: 12.9716, Lng: 77.5946},
			want: 0,
		},
		{
			name: "Equator 1 degree",
			p1:   Point{Lat: 0, Lng: 0},
			p2:   Point{Lat: 1, Lng: 0},
			want: 111.19,
		},
		{
			name: "London to Paris",
			p1:   Point{Lat: 51.5074, Lng: -0.1278},
			p2:   Point{Lat: 48.8566, Lng: 2.3522},
			want: 343.6,
		},
		{
			name: "Bengaluru center to Koramangala",
			p1:   Point{Lat: 12.9716, Lng: 77.5946},
			p2:   Point{Lat: 12.9352, Lng: 77.6245},
			want: 5.18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p1, tt.p2)
			// Allow 1% margin of error due to float precision/earth radius var
			margin := tt.want * 0.01
			if math.Abs(got-tt.want) > margin && tt.want != 0 {
				t.Errorf("Distance() = %v, want %v (+/- %v)", got, tt.want, margin)
			}
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	a := Point{Lat: 12.9716, Lng: 77.5946}
	b := Point{Lat: 19.0760, Lng: 72.8777}

	d1 := Distance(a, b)
	d2 := Distance(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistance_NaNPropagates(t *testing.T) {
	d := Distance(Point{Lat: math.NaN(), Lng: 0}, Point{Lat: 0, Lng: 0})
	if !math.IsNaN(d) {
		t.Errorf("Distance with NaN input = %v, want NaN", d)
	}
}

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"Bengaluru", Point{Lat: 12.9716, Lng: 77.5946}, true},
		{"Pole", Point{Lat: 90, Lng: 180}, true},
		{"Lat too high", Point{Lat: 90.01, Lng: 0}, false},
		{"Lng too low", Point{Lat: 0, Lng: -180.5}, false},
		{"NaN", Point{Lat: math.NaN(), Lng: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatKm(t *testing.T) {
	if got := FormatKm(5.184); got != "5.2 km" {
		t.Errorf("FormatKm(5.184) = %q, want %q", got, "5.2 km")
	}
	if got := FormatKm(0); got != "0.0 km" {
		t.Errorf("FormatKm(0) = %q, want %q", got, "0.0 km")
	}
}
