package zodiac

// Position is a resolved sidereal placement of one planet.
type Position struct {
	Planet         Planet  `json:"planet"`
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	Sign           Sign    `json:"sign"`
	DegreeInSign   float64 `json:"degree_in_sign"`
	NakshatraIndex int     `json:"nakshatra_index"`
	NakshatraName  string  `json:"nakshatra"`
	NakshatraLord  Planet  `json:"nakshatra_lord"`
	Pada           int     `json:"pada"`
	Retrograde     bool    `json:"retrograde"`
}

// Find returns the position of planet p in ps.
func Find(ps []Position, p Planet) (Position, bool) {
	for _, pos := range ps {
		if pos.Planet == p {
			return pos, true
		}
	}
	return Position{}, false
}
