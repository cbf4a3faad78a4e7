package houses

import (
	"testing"

	"github.com/matzehuels/jyotish/pkg/zodiac"
)

func TestGrahaDrishti(t *testing.T) {
	positions := []zodiac.Position{
		{Planet: zodiac.Sun},
		{Planet: zodiac.Mars},
		{Planet: zodiac.Jupiter},
		{Planet: zodiac.Saturn},
		{Planet: zodiac.Rahu},
	}
	placement := Placement{
		zodiac.Sun:     1,
		zodiac.Mars:    1,
		zodiac.Jupiter: 1,
		zodiac.Saturn:  1,
		zodiac.Rahu:    1,
	}
	want := map[zodiac.Planet][]int{
		zodiac.Sun:     {7},
		zodiac.Mars:    {7, 4, 8},
		zodiac.Jupiter: {7, 5, 9},
		zodiac.Saturn:  {7, 3, 10},
		zodiac.Rahu:    {7, 5, 9},
	}

	recs := GrahaDrishti(positions, placement)
	for _, r := range recs {
		got := r.Houses()
		w := want[r.Planet]
		if len(got) != len(w) {
			t.Errorf("%s aspects %v, want %v", r.Planet, got, w)
			continue
		}
		for i := range w {
			if got[i] != w[i] {
				t.Errorf("%s aspects %v, want %v", r.Planet, got, w)
				break
			}
		}
	}

	for _, r := range recs {
		if r.Planet == zodiac.Mars && r.Aspects[1].StrengthPct != 75 {
			t.Errorf("Mars 4th aspect strength = %d, want 75", r.Aspects[1].StrengthPct)
		}
	}
}

func TestGrahaDrishtiWraps(t *testing.T) {
	recs := GrahaDrishti([]zodiac.Position{{Planet: zodiac.Saturn}}, Placement{zodiac.Saturn: 11})
	got := recs[0].Houses()
	if got[0] != 5 || got[1] != 1 || got[2] != 8 {
		t.Errorf("Saturn from 11 aspects %v, want [5 1 8]", got)
	}
}

func TestMutual(t *testing.T) {
	positions := []zodiac.Position{
		{Planet: zodiac.Sun},
		{Planet: zodiac.Moon},
		{Planet: zodiac.Mars},
		{Planet: zodiac.Venus},
	}
	placement := Placement{
		zodiac.Sun:   1,
		zodiac.Moon:  7,
		zodiac.Mars:  2,
		zodiac.Venus: 3,
	}
	pairs := Mutual(GrahaDrishti(positions, placement))
	if !MutuallyAspecting(pairs, zodiac.Sun, zodiac.Moon) {
		t.Errorf("Sun/Moon in opposition should aspect mutually: %v", pairs)
	}
	if MutuallyAspecting(pairs, zodiac.Mars, zodiac.Venus) {
		t.Error("adjacent Mars/Venus should not aspect mutually")
	}
	for _, p := range pairs {
		if p.A > p.B {
			t.Errorf("pair %v not name-sorted", p)
		}
	}
}

func TestSignAspects(t *testing.T) {
	sa := SignAspects()
	want := map[zodiac.Sign][]zodiac.Sign{
		zodiac.Aries:  {zodiac.Leo, zodiac.Scorpio, zodiac.Aquarius},
		zodiac.Taurus: {zodiac.Cancer, zodiac.Libra, zodiac.Capricorn},
		zodiac.Gemini: {zodiac.Virgo, zodiac.Sagittarius, zodiac.Pisces},
		zodiac.Pisces: {zodiac.Gemini, zodiac.Virgo, zodiac.Sagittarius},
	}
	for s, w := range want {
		got := sa[s]
		if len(got) != len(w) {
			t.Errorf("%v aspects %v, want %v", s, got, w)
			continue
		}
		for i := range w {
			if got[i] != w[i] {
				t.Errorf("%v aspects %v, want %v", s, got, w)
				break
			}
		}
	}
	for s, targets := range sa {
		if len(targets) != 3 {
			t.Errorf("%v aspects %d signs, want 3", s, len(targets))
		}
	}
}
