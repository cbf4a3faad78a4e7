package yoga

import (
	"math"
	"testing"

	"github.com/matzehuels/jyotish/pkg/houses"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

func pos(p zodiac.Planet, lon float64) zodiac.Position {
	return zodiac.Position{
		Planet:       p,
		Longitude:    lon,
		Sign:         zodiac.SignOf(lon),
		DegreeInSign: math.Mod(lon, 30),
	}
}

// input builds a whole-sign chart with an Aries ascendant.
func input(positions ...zodiac.Position) Input {
	var cusps houses.Cusps
	for i := range cusps {
		cusps[i] = float64(30 * i)
	}
	placement := houses.Place(positions, cusps)
	return Input{
		Positions:   positions,
		Occupancies: houses.Occupancies(positions, cusps),
		Placement:   placement,
		Aspects:     houses.GrahaDrishti(positions, placement),
	}
}

func TestMahapurusha(t *testing.T) {
	in := input(
		pos(zodiac.Mars, 280),    // Capricorn, house 10, exalted
		pos(zodiac.Venus, 190),   // Libra, house 7, own
		pos(zodiac.Jupiter, 250), // Sagittarius, house 9
		pos(zodiac.Saturn, 310),  // Aquarius, house 11
		pos(zodiac.Mercury, 160), // Virgo, house 6
	)
	got := Mahapurusha(in)
	if len(got) != 2 {
		t.Fatalf("got %d yogas, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Ruchaka Yoga" || got[0].Strength != StrengthStrong || got[0].Houses[0] != 10 {
		t.Errorf("first = %+v, want Strong Ruchaka in house 10", got[0])
	}
	if got[1].Name != "Malavya Yoga" || got[1].Strength != StrengthMedium {
		t.Errorf("second = %+v, want Medium Malavya", got[1])
	}
	if got[0].Effects == "" {
		t.Error("missing effects text")
	}
}

func rajaChart(moon float64) Input {
	return input(
		pos(zodiac.Sun, 280),     // house 10, lord of 5
		pos(zodiac.Moon, moon),   // lord of 4
		pos(zodiac.Mars, 250),    // house 9, lord of 1
		pos(zodiac.Mercury, 200), // house 7
		pos(zodiac.Jupiter, 175), // house 6, lord of 9
		pos(zodiac.Venus, 70),    // house 3, lord of 7
		pos(zodiac.Saturn, 130),  // house 5, lord of 10
		pos(zodiac.Rahu, 20),
		pos(zodiac.Ketu, 200),
	)
}

func TestRaja(t *testing.T) {
	got := Raja(rajaChart(45))
	if len(got) != 2 {
		t.Fatalf("got %d Raja yogas, want 2: %+v", len(got), got)
	}

	aspect := got[0]
	if aspect.Type != ConnectionAspect || aspect.Strength != StrengthStrong {
		t.Errorf("first = %+v, want mutual aspect", aspect)
	}
	if aspect.Planets[0] != zodiac.Venus || aspect.Planets[1] != zodiac.Mars {
		t.Errorf("aspect planets = %v, want [Venus Mars]", aspect.Planets)
	}

	exchange := got[1]
	if exchange.Type != ConnectionParivartana || exchange.Strength != StrengthVeryStrong {
		t.Errorf("second = %+v, want Parivartana", exchange)
	}
	if exchange.Houses[0] != 10 || exchange.Houses[1] != 5 {
		t.Errorf("exchange houses = %v, want [10 5]", exchange.Houses)
	}
}

func TestRajaConjunction(t *testing.T) {
	// Moon joins the Sun in house 10: lords of 4 and 5 conjunct.
	got := Raja(rajaChart(282))
	var found bool
	for _, y := range got {
		if y.Type == ConnectionConjunction {
			found = true
			if y.Planets[0] != zodiac.Moon || y.Planets[1] != zodiac.Sun {
				t.Errorf("conjunction planets = %v", y.Planets)
			}
			if y.Strength != StrengthVeryStrong {
				t.Errorf("conjunction strength = %q", y.Strength)
			}
		}
	}
	if !found {
		t.Errorf("no conjunction in %+v", got)
	}
	if len(got) != 3 {
		t.Errorf("got %d Raja yogas, want 3", len(got))
	}
}

func TestDhana(t *testing.T) {
	// Lords of 2 (Venus) and 9 (Jupiter) share house 3.
	in := input(
		pos(zodiac.Mars, 10),
		pos(zodiac.Venus, 65),
		pos(zodiac.Jupiter, 75),
		pos(zodiac.Sun, 200),
		pos(zodiac.Saturn, 300),
	)
	got := Dhana(in)
	if len(got) != 1 {
		t.Fatalf("got %d Dhana yogas, want 1: %+v", len(got), got)
	}
	if got[0].Houses[0] != 2 || got[0].Houses[1] != 9 {
		t.Errorf("houses = %v, want [2 9]", got[0].Houses)
	}
}

func TestFromMoon(t *testing.T) {
	tests := []struct {
		moon, s zodiac.Sign
		want    int
	}{
		{zodiac.Aries, zodiac.Aries, 1},
		{zodiac.Aries, zodiac.Taurus, 2},
		{zodiac.Aries, zodiac.Pisces, 12},
		{zodiac.Pisces, zodiac.Aries, 2},
		{zodiac.Leo, zodiac.Scorpio, 4},
	}
	for _, tt := range tests {
		if got := FromMoon(tt.moon, tt.s); got != tt.want {
			t.Errorf("FromMoon(%s, %s) = %d, want %d", tt.moon, tt.s, got, tt.want)
		}
	}
}

func names(ys []Yoga) map[string]bool {
	out := make(map[string]bool, len(ys))
	for _, y := range ys {
		out[y.Name] = true
	}
	return out
}

func TestChandra(t *testing.T) {
	tests := []struct {
		name      string
		positions []zodiac.Position
		want      []string
		absent    []string
	}{
		{
			name: "flanked moon with jupiter in kendra",
			positions: []zodiac.Position{
				pos(zodiac.Moon, 5),
				pos(zodiac.Mars, 40),    // 2nd
				pos(zodiac.Venus, 350),  // 12th
				pos(zodiac.Jupiter, 95), // 4th
			},
			want:   []string{"Sunafa Yoga", "Anafa Yoga", "Durudhara Yoga", "Gaja Kesari Yoga"},
			absent: []string{"Kemadruma Yoga"},
		},
		{
			name: "sun and nodes do not count",
			positions: []zodiac.Position{
				pos(zodiac.Moon, 5),
				pos(zodiac.Sun, 40),
				pos(zodiac.Rahu, 350),
				pos(zodiac.Jupiter, 130),
				pos(zodiac.Saturn, 220),
			},
			want:   []string{"Kemadruma Yoga"},
			absent: []string{"Sunafa Yoga", "Anafa Yoga", "Gaja Kesari Yoga"},
		},
		{
			name: "jupiter with the moon",
			positions: []zodiac.Position{
				pos(zodiac.Moon, 5),
				pos(zodiac.Jupiter, 25),
				pos(zodiac.Mercury, 45),
			},
			want:   []string{"Sunafa Yoga", "Gaja Kesari Yoga"},
			absent: []string{"Durudhara Yoga", "Kemadruma Yoga"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Chandra(tt.positions))
			for _, n := range tt.want {
				if !got[n] {
					t.Errorf("missing %s", n)
				}
			}
			for _, n := range tt.absent {
				if got[n] {
					t.Errorf("unexpected %s", n)
				}
			}
		})
	}
}

func TestChandraNoMoon(t *testing.T) {
	if got := Chandra([]zodiac.Position{pos(zodiac.Sun, 10)}); got != nil {
		t.Errorf("Chandra() = %v, want nil", got)
	}
}

func TestNabhasa(t *testing.T) {
	fixed := []zodiac.Position{
		pos(zodiac.Sun, 40), pos(zodiac.Moon, 125), pos(zodiac.Mars, 220),
		pos(zodiac.Mercury, 310), pos(zodiac.Jupiter, 45), pos(zodiac.Venus, 130),
		pos(zodiac.Saturn, 225), pos(zodiac.Rahu, 0), pos(zodiac.Ketu, 180),
	}
	got := Nabhasa(fixed)
	if len(got) != 1 || got[0].Name != "Musala Yoga" {
		t.Errorf("Nabhasa() = %+v, want Musala", got)
	}

	mixed := append([]zodiac.Position{}, fixed...)
	mixed[0] = pos(zodiac.Sun, 5)
	if got := Nabhasa(mixed); len(got) != 0 {
		t.Errorf("Nabhasa(mixed) = %+v, want none", got)
	}
}

func TestDetect(t *testing.T) {
	r := Detect(rajaChart(45))
	if r.TotalCount != len(r.All()) {
		t.Errorf("TotalCount = %d, All() = %d", r.TotalCount, len(r.All()))
	}
	if len(r.Raja) != 2 {
		t.Errorf("Raja = %d, want 2", len(r.Raja))
	}
	if !r.Has("Raja Yoga") {
		t.Error("Has(Raja Yoga) = false")
	}
	var rajaLine bool
	for _, s := range r.Summary {
		if s == "Chart has 2 Raja Yoga(s) indicating power and authority" {
			rajaLine = true
		}
	}
	if !rajaLine {
		t.Errorf("summary = %v", r.Summary)
	}
}
