package zodiac

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-10, 350},
		{725, 5},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSignTable(t *testing.T) {
	lords := map[Sign]Planet{
		Aries: Mars, Taurus: Venus, Gemini: Mercury, Cancer: Moon,
		Leo: Sun, Virgo: Mercury, Libra: Venus, Scorpio: Mars,
		Sagittarius: Jupiter, Capricorn: Saturn, Aquarius: Saturn, Pisces: Jupiter,
	}
	for s, want := range lords {
		if got := s.Lord(); got != want {
			t.Errorf("%v.Lord() = %v, want %v", s, got, want)
		}
	}

	if Aries.Quality() != Movable || Taurus.Quality() != Fixed || Gemini.Quality() != Dual {
		t.Error("quality cycle broken")
	}
	if Aries.Element() != Fire || Taurus.Element() != Earth || Gemini.Element() != Air || Cancer.Element() != Water {
		t.Error("element cycle broken")
	}
}

func TestSignAdd(t *testing.T) {
	tests := []struct {
		s    Sign
		n    int
		want Sign
	}{
		{Aries, 0, Aries},
		{Aries, 6, Libra},
		{Pisces, 1, Aries},
		{Taurus, -2, Pisces},
		{Leo, 24, Leo},
	}
	for _, tt := range tests {
		if got := tt.s.Add(tt.n); got != tt.want {
			t.Errorf("%v.Add(%d) = %v, want %v", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestSignOf(t *testing.T) {
	if got := SignOf(0); got != Aries {
		t.Errorf("SignOf(0) = %v", got)
	}
	if got := SignOf(29.999); got != Aries {
		t.Errorf("SignOf(29.999) = %v", got)
	}
	if got := SignOf(30); got != Taurus {
		t.Errorf("SignOf(30) = %v", got)
	}
	if got := SignOf(359.99); got != Pisces {
		t.Errorf("SignOf(359.99) = %v", got)
	}
}

func TestNakshatra(t *testing.T) {
	if got := NakshatraIndex(0); got != 0 {
		t.Errorf("NakshatraIndex(0) = %d", got)
	}
	if got := NakshatraIndex(13.34); got != 1 {
		t.Errorf("NakshatraIndex(13.34) = %d", got)
	}
	if got := NakshatraIndex(359.9); got != 26 {
		t.Errorf("NakshatraIndex(359.9) = %d", got)
	}

	n := NakshatraAt(9)
	if n.Name != "Magha" || n.Lord != Ketu {
		t.Errorf("NakshatraAt(9) = %+v", n)
	}
	if NakshatraAt(26).Lord != Mercury {
		t.Error("Revati should be ruled by Mercury")
	}
}

func TestPada(t *testing.T) {
	tests := []struct {
		lon  float64
		want int
	}{
		{0, 1},
		{3.4, 2},
		{6.7, 3},
		{10.1, 4},
		{13.34, 1},
	}
	for _, tt := range tests {
		if got := Pada(tt.lon); got != tt.want {
			t.Errorf("Pada(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestDashaYearsTotal(t *testing.T) {
	total := 0.0
	for _, p := range DashaOrder {
		total += p.DashaYears()
	}
	if total != DashaCycleYears {
		t.Errorf("dasha years sum = %v, want %v", total, DashaCycleYears)
	}
}

func TestDebilitation(t *testing.T) {
	ex, ok := Sun.Exaltation()
	if !ok {
		t.Fatal("Sun has no exaltation")
	}
	if ex.Debilitation() != Libra {
		t.Errorf("Sun debilitation = %v, want Libra", ex.Debilitation())
	}
	if _, ok := Rahu.Exaltation(); ok {
		t.Error("Rahu should carry no exaltation entry")
	}
}

func TestWeekdayLord(t *testing.T) {
	if WeekdayLord(0) != Sun || WeekdayLord(6) != Saturn || WeekdayLord(7) != Sun {
		t.Error("weekday lords out of order")
	}
}
