package zodiac

import "math"

// Nakshatra describes one of the 27 lunar mansions.
type Nakshatra struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Lord   Planet `json:"lord"`
	Deity  string `json:"deity"`
	Symbol string `json:"symbol"`
	Gana   string `json:"gana"`
}

type nakshatraRow struct {
	name, deity, symbol, gana string
}

var nakshatras = [27]nakshatraRow{
	{"Ashwini", "Ashwini Kumaras", "Horse's head", "Deva"},
	{"Bharani", "Yama", "Yoni", "Manushya"},
	{"Krittika", "Agni", "Knife", "Deva"},
	{"Rohini", "Brahma", "Chariot", "Manushya"},
	{"Mrigashira", "Soma", "Antelope's head", "Deva"},
	{"Ardra", "Rudra", "Teardrop", "Deva"},
	{"Punarvasu", "Aditi", "Quiver of arrows", "Deva"},
	{"Pushya", "Brihaspati", "Cow's udder", "Deva"},
	{"Ashlesha", "Naga", "Serpent", "Rakshasa"},
	{"Magha", "Pitris", "Throne room", "Manushya"},
	{"Purva Phalguni", "Bhaga", "Front legs of bed", "Deva"},
	{"Uttara Phalguni", "Aryaman", "Back legs of bed", "Deva"},
	{"Hasta", "Savitar", "Hand", "Manushya"},
	{"Chitra", "Tvastar", "Bright jewel", "Manushya"},
	{"Swati", "Vayu", "Coral", "Deva"},
	{"Vishakha", "Indra-Agni", "Triumphal arch", "Deva"},
	{"Anuradha", "Mitra", "Lotus", "Deva"},
	{"Jyeshtha", "Indra", "Elder", "Manushya"},
	{"Mula", "Nirriti", "Root", "Rakshasa"},
	{"Purva Ashadha", "Apah", "Fan", "Deva"},
	{"Uttara Ashadha", "Vishvadevas", "Elephant tusk", "Deva"},
	{"Shravana", "Vishnu", "Ear", "Manushya"},
	{"Dhanishta", "Vasu", "Drum", "Deva"},
	{"Shatabhisha", "Varuna", "Empty circle", "Rakshasa"},
	{"Purva Bhadrapada", "Aja Ekapad", "Front legs of funeral cot", "Rakshasa"},
	{"Uttara Bhadrapada", "Ahirbudhnya", "Back legs of funeral cot", "Rakshasa"},
	{"Revati", "Pushan", "Fish", "Deva"},
}

// NakshatraAt returns the nakshatra with the given 0-based index.
// Indices outside 0..26 wrap.
func NakshatraAt(idx int) Nakshatra {
	idx = ((idx % 27) + 27) % 27
	row := nakshatras[idx]
	return Nakshatra{
		Index:  idx,
		Name:   row.name,
		Lord:   DashaOrder[idx%9],
		Deity:  row.deity,
		Symbol: row.symbol,
		Gana:   row.gana,
	}
}

// NakshatraIndex returns the 0-based nakshatra containing a sidereal longitude.
func NakshatraIndex(lon float64) int {
	idx := int(math.Floor(Normalize(lon) / NakshatraSpan))
	if idx > 26 {
		idx = 26
	}
	return idx
}

// Pada returns the quarter (1..4) of the nakshatra containing lon.
func Pada(lon float64) int {
	p := int(math.Floor(math.Mod(Normalize(lon), NakshatraSpan)/PadaSpan)) + 1
	if p > 4 {
		p = 4
	}
	return p
}

// NakshatraFraction returns the elapsed fraction [0, 1) of the nakshatra at lon.
func NakshatraFraction(lon float64) float64 {
	return math.Mod(Normalize(lon), NakshatraSpan) / NakshatraSpan
}
