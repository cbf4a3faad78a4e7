package zodiac

// Planet is one of the nine grahas.
type Planet string

// The nine grahas in the conventional listing order.
const (
	Sun     Planet = "Sun"
	Moon    Planet = "Moon"
	Mars    Planet = "Mars"
	Mercury Planet = "Mercury"
	Jupiter Planet = "Jupiter"
	Venus   Planet = "Venus"
	Saturn  Planet = "Saturn"
	Rahu    Planet = "Rahu"
	Ketu    Planet = "Ketu"
)

// Planets lists all nine grahas in listing order.
var Planets = []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// Classical lists the seven visible planets, Sun through Saturn.
var Classical = []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// IsNode reports whether p is Rahu or Ketu.
func (p Planet) IsNode() bool { return p == Rahu || p == Ketu }

// IsLuminary reports whether p is the Sun or the Moon.
func (p Planet) IsLuminary() bool { return p == Sun || p == Moon }

// Valid reports whether p names one of the nine grahas.
func (p Planet) Valid() bool {
	for _, q := range Planets {
		if p == q {
			return true
		}
	}
	return false
}

// Dignity is the exaltation point of a planet.
type Dignity struct {
	Sign   Sign
	Degree float64
}

// Debilitation returns the sign opposite the exaltation sign.
func (d Dignity) Debilitation() Sign { return d.Sign.Add(6) }

// planetInfo is one row of the planet table.
type planetInfo struct {
	exaltation    Dignity
	ownSigns      []Sign
	friends       []Planet
	naturalBala   float64
	requiredBala  float64
	digHouse      int
	dayStrong     bool
	nightStrong   bool
	dashaYears    float64
	ashtakavarga  []int
	specialAspect []int
}

// planets covers Sun through Saturn in full; the nodes only carry the rows
// that apply to them.
var planets = map[Planet]planetInfo{
	Sun: {
		exaltation:   Dignity{Aries, 10},
		ownSigns:     []Sign{Leo},
		friends:      []Planet{Moon, Mars, Jupiter},
		naturalBala:  60.0,
		requiredBala: 340,
		digHouse:     10,
		dayStrong:    true,
		dashaYears:   6,
		ashtakavarga: []int{1, 2, 4, 7, 8, 9, 10, 11},
	},
	Moon: {
		exaltation:   Dignity{Taurus, 3},
		ownSigns:     []Sign{Cancer},
		friends:      []Planet{Sun, Mercury},
		naturalBala:  51.43,
		requiredBala: 360,
		digHouse:     4,
		nightStrong:  true,
		dashaYears:   10,
		ashtakavarga: []int{1, 2, 3, 5, 6, 7, 9, 11},
	},
	Mars: {
		exaltation:    Dignity{Capricorn, 28},
		ownSigns:      []Sign{Aries, Scorpio},
		friends:       []Planet{Sun, Moon, Jupiter},
		naturalBala:   17.14,
		requiredBala:  300,
		digHouse:      10,
		nightStrong:   true,
		dashaYears:    7,
		ashtakavarga:  []int{1, 3, 4, 6, 8, 10, 11, 12},
		specialAspect: []int{3, 7},
	},
	Mercury: {
		exaltation:   Dignity{Virgo, 15},
		ownSigns:     []Sign{Gemini, Virgo},
		friends:      []Planet{Sun, Venus},
		naturalBala:  25.71,
		requiredBala: 420,
		digHouse:     1,
		dashaYears:   17,
		ashtakavarga: []int{1, 2, 4, 6, 8, 10, 11, 12},
	},
	Jupiter: {
		exaltation:    Dignity{Cancer, 5},
		ownSigns:      []Sign{Sagittarius, Pisces},
		friends:       []Planet{Sun, Moon, Mars},
		naturalBala:   34.29,
		requiredBala:  390,
		digHouse:      1,
		dayStrong:     true,
		dashaYears:    16,
		ashtakavarga:  []int{1, 2, 4, 5, 7, 9, 10, 11},
		specialAspect: []int{4, 8},
	},
	Venus: {
		exaltation:   Dignity{Pisces, 27},
		ownSigns:     []Sign{Taurus, Libra},
		friends:      []Planet{Mercury, Saturn},
		naturalBala:  42.86,
		requiredBala: 330,
		digHouse:     4,
		dayStrong:    true,
		dashaYears:   20,
		ashtakavarga: []int{1, 2, 3, 4, 5, 7, 9, 10},
	},
	Saturn: {
		exaltation:    Dignity{Libra, 20},
		ownSigns:      []Sign{Capricorn, Aquarius},
		friends:       []Planet{Mercury, Venus},
		naturalBala:   8.57,
		requiredBala:  300,
		digHouse:      7,
		nightStrong:   true,
		dashaYears:    19,
		ashtakavarga:  []int{1, 2, 3, 5, 6, 7, 10, 11},
		specialAspect: []int{2, 9},
	},
	Rahu: {
		dashaYears:    18,
		ashtakavarga:  []int{1, 2, 4, 6, 8, 9, 10, 11},
		specialAspect: []int{4, 8},
	},
	Ketu: {
		dashaYears:    7,
		ashtakavarga:  []int{1, 2, 4, 6, 8, 9, 10, 11},
		specialAspect: []int{4, 8},
	},
}

// Exaltation returns the planet's exaltation point and whether it has one.
func (p Planet) Exaltation() (Dignity, bool) {
	info, ok := planets[p]
	if !ok || info.exaltation.Sign == 0 {
		return Dignity{}, false
	}
	return info.exaltation, true
}

// OwnSigns returns the signs the planet rules.
func (p Planet) OwnSigns() []Sign { return planets[p].ownSigns }

// Owns reports whether the planet rules sign s.
func (p Planet) Owns(s Sign) bool {
	for _, o := range planets[p].ownSigns {
		if o == s {
			return true
		}
	}
	return false
}

// Friends returns the planet's natural friends, in table order.
func (p Planet) Friends() []Planet { return planets[p].friends }

// NaturalStrength returns the fixed naisargika bala in virupas.
func (p Planet) NaturalStrength() float64 { return planets[p].naturalBala }

// RequiredStrength returns the minimum Shadbala total for the planet to count as strong.
func (p Planet) RequiredStrength() float64 { return planets[p].requiredBala }

// DirectionalHouse returns the house where the planet gains full dig bala.
func (p Planet) DirectionalHouse() int { return planets[p].digHouse }

// DayStrong reports whether the planet gains temporal strength in day births.
func (p Planet) DayStrong() bool { return planets[p].dayStrong }

// NightStrong reports whether the planet gains temporal strength in night births.
func (p Planet) NightStrong() bool { return planets[p].nightStrong }

// DashaYears returns the length of the planet's Vimshottari mahadasha.
func (p Planet) DashaYears() float64 { return planets[p].dashaYears }

// AshtakavargaOffsets returns the 1-based house offsets, counted from the
// planet's own sign, that receive a bindu from it.
func (p Planet) AshtakavargaOffsets() []int { return planets[p].ashtakavarga }

// SpecialAspects returns the extra graha drishti offsets (in signs ahead)
// beyond the universal seventh-house aspect.
func (p Planet) SpecialAspects() []int { return planets[p].specialAspect }

// WeekdayLord returns the planet ruling a weekday, Sunday = 0.
func WeekdayLord(weekday int) Planet {
	return weekdayLords[((weekday%7)+7)%7]
}

var weekdayLords = [7]Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// DashaOrder is the fixed Vimshottari sequence of lords.
var DashaOrder = []Planet{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

// DashaCycleYears is the length of a full Vimshottari cycle.
const DashaCycleYears = 120.0
