package ephemeris

import (
	"context"
	"math"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/zodiac"
)

// Kepler is an analytic, data-file-free ephemeris.
//
// Planets use the JPL approximate Keplerian elements valid 1800-2050, the
// Moon a truncated ELP series, and the ayanamsa a linear precession model
// anchored at J2000. Accuracy is a few arcminutes for the planets and better
// than 0.05° for the Moon, enough for sign, nakshatra and pada placement.
type Kepler struct {
	minJD, maxJD float64
}

// NewKepler returns the analytic adapter covering the supported date range.
func NewKepler() *Kepler {
	return &Kepler{
		minJD: JulianDay(errors.MinDate) - 2,
		maxJD: JulianDay(errors.MaxDate) + 2,
	}
}

// Ensure Kepler implements Adapter.
var _ Adapter = (*Kepler)(nil)

// =============================================================================
// Orbital Elements
// =============================================================================

// elements are mean orbital elements referred to the J2000 ecliptic.
type elements struct {
	a    float64 // semi-major axis (AU)
	e    float64 // eccentricity
	i    float64 // inclination (deg)
	l    float64 // mean longitude (deg)
	peri float64 // longitude of perihelion (deg)
	node float64 // longitude of ascending node (deg)
}

type orbit struct {
	base, rate elements // rate is per Julian century
}

func (o orbit) at(t float64) elements {
	return elements{
		a:    o.base.a + o.rate.a*t,
		e:    o.base.e + o.rate.e*t,
		i:    o.base.i + o.rate.i*t,
		l:    o.base.l + o.rate.l*t,
		peri: o.base.peri + o.rate.peri*t,
		node: o.base.node + o.rate.node*t,
	}
}

var earthOrbit = orbit{
	base: elements{1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0},
	rate: elements{0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0},
}

var planetOrbits = map[Body]orbit{
	Mercury: {
		base: elements{0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593},
		rate: elements{0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081},
	},
	Venus: {
		base: elements{0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255},
		rate: elements{0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418},
	},
	Mars: {
		base: elements{1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891},
		rate: elements{0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343},
	},
	Jupiter: {
		base: elements{5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909},
		rate: elements{-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106},
	},
	Saturn: {
		base: elements{9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448},
		rate: elements{-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794},
	},
}

// precessionRate is the general precession in longitude, degrees per century.
const precessionRate = 1.3969713

// =============================================================================
// Adapter Methods
// =============================================================================

// Position returns the tropical geocentric coordinates of body at jd.
func (k *Kepler) Position(ctx context.Context, body Body, jd float64) (Coordinates, error) {
	if err := k.check(ctx, jd); err != nil {
		return Coordinates{}, err
	}
	t := centuries(jd)

	switch body {
	case Moon:
		return moonPosition(t), nil
	case MeanNode:
		return Coordinates{Longitude: zodiac.Normalize(meanNode(t))}, nil
	case TrueNode:
		return Coordinates{Longitude: zodiac.Normalize(meanNode(t) + nodeCorrection(t))}, nil
	case Sun:
		ex, ey, ez := heliocentric(earthOrbit.at(t))
		return ecliptic(-ex, -ey, -ez, t), nil
	}

	o, ok := planetOrbits[body]
	if !ok {
		return Coordinates{}, errors.New(errors.ErrCodeEphemeris, "unsupported body %v", body)
	}
	px, py, pz := heliocentric(o.at(t))
	ex, ey, ez := heliocentric(earthOrbit.at(t))
	return ecliptic(px-ex, py-ey, pz-ez, t), nil
}

// ayanamsaAtJ2000 anchors each linear model.
var ayanamsaAtJ2000 = map[AyanamsaMode]float64{
	Lahiri:       23.85306,
	Raman:        22.41028,
	KP:           23.76024,
	FaganBradley: 24.74036,
}

// Ayanamsa returns the sidereal offset for mode at jd.
func (k *Kepler) Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error) {
	if err := k.check(ctx, jd); err != nil {
		return 0, err
	}
	base, ok := ayanamsaAtJ2000[mode]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidOption, "unknown ayanamsa %q", mode)
	}
	return base + precessionRate*centuries(jd), nil
}

// HouseCusps returns tropical cusps for the given system. For whole-sign
// houses the cusps are tropical sign boundaries; sidereal whole-sign houses
// must be rebuilt from the sidereal ascendant by the caller.
func (k *Kepler) HouseCusps(ctx context.Context, jd, lat, lon float64, system HouseSystem) ([12]float64, error) {
	var cusps [12]float64
	if err := k.check(ctx, jd); err != nil {
		return cusps, err
	}
	asc, mc := angles(jd, lat, lon)

	switch system {
	case Equal:
		for i := range cusps {
			cusps[i] = zodiac.Normalize(asc + 30*float64(i))
		}
	case WholeSign:
		start := math.Floor(asc/30) * 30
		cusps[0] = asc
		for i := 1; i < 12; i++ {
			cusps[i] = zodiac.Normalize(start + 30*float64(i))
		}
	case Sripati:
		cusps = porphyry(asc, mc)
	default:
		return cusps, errors.New(errors.ErrCodeInvalidOption, "unknown house system %q", system)
	}
	return cusps, nil
}

func (k *Kepler) check(ctx context.Context, jd float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if jd < k.minJD || jd > k.maxJD {
		return errors.New(errors.ErrCodeEphemeris, "julian day %.2f outside model range", jd)
	}
	return nil
}

// =============================================================================
// Planetary Theory
// =============================================================================

func heliocentric(el elements) (x, y, z float64) {
	omega := rad(el.peri - el.node)
	node := rad(el.node)
	incl := rad(el.i)
	m := rad(zodiac.Normalize(el.l-el.peri+180) - 180)

	e := solveKepler(m, el.e)
	xp := el.a * (math.Cos(e) - el.e)
	yp := el.a * math.Sqrt(1-el.e*el.e) * math.Sin(e)

	cw, sw := math.Cos(omega), math.Sin(omega)
	cn, sn := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(incl), math.Sin(incl)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler solves E - e sin E = M by Newton iteration.
func solveKepler(m, e float64) float64 {
	E := m + e*math.Sin(m)
	for range 12 {
		d := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return E
}

// ecliptic converts a J2000 rectangular vector to coordinates of date.
func ecliptic(x, y, z, t float64) Coordinates {
	lon := deg(math.Atan2(y, x)) + precessionRate*t
	lat := deg(math.Atan2(z, math.Hypot(x, y)))
	return Coordinates{Longitude: zodiac.Normalize(lon), Latitude: lat}
}

// =============================================================================
// Lunar Theory
// =============================================================================

type lunarArgs struct {
	l, d, m, mp, f float64 // degrees
}

func lunarArguments(t float64) lunarArgs {
	return lunarArgs{
		l:  218.3164477 + 481267.88123421*t,
		d:  297.8501921 + 445267.1114034*t,
		m:  357.5291092 + 35999.0502909*t,
		mp: 134.9633964 + 477198.8675055*t,
		f:  93.2720950 + 483202.0175233*t,
	}
}

// lunarTerm is one periodic term: coefficient × sin(d·D + m·M + mp·M' + f·F).
type lunarTerm struct {
	coef        float64
	d, m, mp, f float64
}

var lunarLongitude = []lunarTerm{
	{6.288774, 0, 0, 1, 0},
	{1.274027, 2, 0, -1, 0},
	{0.658314, 2, 0, 0, 0},
	{0.213618, 0, 0, 2, 0},
	{-0.185116, 0, 1, 0, 0},
	{-0.114332, 0, 0, 0, 2},
	{0.058793, 2, 0, -2, 0},
	{0.057066, 2, -1, -1, 0},
	{0.053322, 2, 0, 1, 0},
	{0.045758, 2, -1, 0, 0},
	{-0.040923, 0, 1, -1, 0},
	{-0.034720, 1, 0, 0, 0},
	{-0.030383, 0, 1, 1, 0},
}

var lunarLatitude = []lunarTerm{
	{5.128122, 0, 0, 0, 1},
	{0.280602, 0, 0, 1, 1},
	{0.277693, 0, 0, 1, -1},
	{0.173237, 2, 0, 0, -1},
	{0.055413, 2, 0, -1, 1},
	{0.046271, 2, 0, -1, -1},
}

func sumTerms(terms []lunarTerm, a lunarArgs) float64 {
	var s float64
	for _, tm := range terms {
		s += tm.coef * math.Sin(rad(tm.d*a.d+tm.m*a.m+tm.mp*a.mp+tm.f*a.f))
	}
	return s
}

func moonPosition(t float64) Coordinates {
	a := lunarArguments(t)
	return Coordinates{
		Longitude: zodiac.Normalize(a.l + sumTerms(lunarLongitude, a)),
		Latitude:  sumTerms(lunarLatitude, a),
	}
}

func meanNode(t float64) float64 {
	return 125.0445479 - 1934.1362891*t + 0.0020754*t*t
}

// nodeCorrection is the leading periodic difference between true and mean node.
func nodeCorrection(t float64) float64 {
	a := lunarArguments(t)
	return -1.4979*math.Sin(rad(2*(a.d-a.f))) -
		0.1500*math.Sin(rad(a.m)) -
		0.1226*math.Sin(rad(2*a.d)) +
		0.1176*math.Sin(rad(2*a.f)) -
		0.0801*math.Sin(rad(2*(a.mp-a.f)))
}

// =============================================================================
// Houses
// =============================================================================

func obliquity(t float64) float64 {
	return 23.439291 - 0.0130042*t
}

// siderealTime returns local apparent sidereal time in degrees.
func siderealTime(jd, lon float64) float64 {
	t := centuries(jd)
	gmst := 280.46061837 + 360.98564736629*(jd-J2000) + 0.000387933*t*t - t*t*t/38710000
	return zodiac.Normalize(gmst + lon)
}

// angles returns the tropical ascendant and midheaven.
func angles(jd, lat, lon float64) (asc, mc float64) {
	ramc := rad(siderealTime(jd, lon))
	eps := rad(obliquity(centuries(jd)))
	phi := rad(lat)

	mc = deg(math.Atan2(math.Sin(ramc), math.Cos(ramc)*math.Cos(eps)))
	asc = deg(math.Atan2(math.Cos(ramc), -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))))
	asc, mc = zodiac.Normalize(asc), zodiac.Normalize(mc)
	// Inside the polar circles the formula can return the descending point.
	// The ascendant always lies in the half of the ecliptic east of the MC.
	if zodiac.Normalize(asc-mc) >= 180 {
		asc = zodiac.Normalize(asc + 180)
	}
	return asc, mc
}

// porphyry trisects each quadrant between the angles.
func porphyry(asc, mc float64) [12]float64 {
	ic := zodiac.Normalize(mc + 180)
	dsc := zodiac.Normalize(asc + 180)
	corners := [4]float64{asc, ic, dsc, mc}

	var cusps [12]float64
	for q := 0; q < 4; q++ {
		from := corners[q]
		arc := zodiac.Normalize(corners[(q+1)%4] - from)
		for j := 0; j < 3; j++ {
			cusps[q*3+j] = zodiac.Normalize(from + arc*float64(j)/3)
		}
	}
	return cusps
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
