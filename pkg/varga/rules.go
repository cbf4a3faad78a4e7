package varga

import "math"

// rule maps a 0-based source sign and degree within it to a 0-based target sign.
type rule func(sign int, deg float64) int

// startRule picks the sign from which a uniform division starts counting.
type startRule func(sign int) int

// rules holds one entry per chart, indexed by ChartID.
var rules = [NumCharts + 1]rule{
	D1:  identity,
	D2:  hora,
	D3:  drekkana,
	D4:  uniform(4, qualityRelative(0, 3, 6)),
	D5:  uniform(5, ownSign),
	D6:  uniform(6, ownSign),
	D7:  uniform(7, parityRelative(6)),
	D8:  uniform(8, ownSign),
	D9:  uniform(9, byElement(0, 9, 6, 3)),
	D10: uniform(10, parityRelative(8)),
	D11: uniform(11, ownSign),
	D12: uniform(12, ownSign),
	D13: uniform(13, ownSign),
	D14: uniform(14, ownSign),
	D15: uniform(15, ownSign),
	D16: uniform(16, qualityFixed(0, 4, 8)),
	D17: uniform(17, ownSign),
	D18: uniform(18, ownSign),
	D19: uniform(19, ownSign),
	D20: uniform(20, byElement(0, 8, 4, 0)),
	D21: uniform(21, ownSign),
	D22: uniform(22, ownSign),
	D23: uniform(23, ownSign),
	D24: uniform(24, parityFixed(4, 3)),
	D25: uniform(25, ownSign),
	D26: uniform(26, ownSign),
	D27: uniform(27, ownSign),
	D28: uniform(28, ownSign),
	D29: uniform(29, ownSign),
	D30: trimsamsa,
	D31: uniform(31, ownSign),
	D32: uniform(32, ownSign),
	D33: uniform(33, ownSign),
	D34: uniform(34, ownSign),
	D35: uniform(35, ownSign),
	D36: uniform(36, ownSign),
	D37: uniform(37, ownSign),
	D38: uniform(38, ownSign),
	D39: uniform(39, ownSign),
	D40: uniform(40, parityFixed(0, 6)),
	D41: uniform(41, ownSign),
	D42: uniform(42, ownSign),
	D43: uniform(43, ownSign),
	D44: uniform(44, ownSign),
	D45: uniform(45, qualityFixed(0, 4, 8)),
	D46: uniform(46, ownSign),
	D47: uniform(47, ownSign),
	D48: uniform(48, ownSign),
	D49: uniform(49, ownSign),
	D50: uniform(50, ownSign),
	D51: uniform(51, ownSign),
	D52: uniform(52, ownSign),
	D53: uniform(53, ownSign),
	D54: uniform(54, ownSign),
	D55: uniform(55, ownSign),
	D56: uniform(56, ownSign),
	D57: uniform(57, ownSign),
	D58: uniform(58, ownSign),
	D59: uniform(59, ownSign),
	D60: uniform(60, ownSign),
}

// part returns which of n equal slices of a sign deg falls in, clamped so
// floating error at 30° cannot overflow.
func part(deg float64, n int) int {
	p := int(math.Floor(deg / (30.0 / float64(n))))
	if p < 0 {
		return 0
	}
	if p >= n {
		return n - 1
	}
	return p
}

func mod12(n int) int { return ((n % 12) + 12) % 12 }

// uniform divides the sign into n parts counted forward from start.
func uniform(n int, start startRule) rule {
	return func(sign int, deg float64) int {
		return mod12(start(sign) + part(deg, n))
	}
}

// ownSign starts counting from the source sign.
func ownSign(sign int) int { return sign }

// qualityRelative offsets the start by the sign's modality: movable, fixed, dual.
func qualityRelative(movable, fixed, dual int) startRule {
	offsets := [3]int{movable, fixed, dual}
	return func(sign int) int { return sign + offsets[sign%3] }
}

// qualityFixed starts at an absolute sign chosen by modality.
func qualityFixed(movable, fixed, dual int) startRule {
	starts := [3]int{movable, fixed, dual}
	return func(sign int) int { return starts[sign%3] }
}

// parityRelative starts at the sign itself for odd signs and offset signs
// ahead for even signs. Odd signs have even 0-based indices.
func parityRelative(offset int) startRule {
	return func(sign int) int {
		if sign%2 == 0 {
			return sign
		}
		return sign + offset
	}
}

// parityFixed starts at an absolute sign chosen by odd/even.
func parityFixed(odd, even int) startRule {
	return func(sign int) int {
		if sign%2 == 0 {
			return odd
		}
		return even
	}
}

// byElement starts at an absolute sign chosen by fire, earth, air, water.
func byElement(fire, earth, air, water int) startRule {
	starts := [4]int{fire, earth, air, water}
	return func(sign int) int { return starts[sign%4] }
}

func identity(sign int, _ float64) int { return sign }

// hora gives Leo or Cancer: odd signs Leo then Cancer, even signs the reverse.
func hora(sign int, deg float64) int {
	const leo, cancer = 4, 3
	first := deg < 15
	if sign%2 == 0 {
		if first {
			return leo
		}
		return cancer
	}
	if first {
		return cancer
	}
	return leo
}

// drekkana counts the sign, its fifth and its ninth.
func drekkana(sign int, deg float64) int {
	return mod12(sign + 4*part(deg, 3))
}

type band struct {
	upto float64
	sign int
}

var (
	trimsamsaOdd  = []band{{5, 0}, {10, 10}, {18, 8}, {25, 2}, {30, 6}}
	trimsamsaEven = []band{{5, 6}, {12, 2}, {20, 8}, {25, 10}, {30, 0}}
)

// trimsamsa assigns unequal degree bands to fixed signs.
func trimsamsa(sign int, deg float64) int {
	bands := trimsamsaOdd
	if sign%2 == 1 {
		bands = trimsamsaEven
	}
	for _, b := range bands {
		if deg < b.upto {
			return b.sign
		}
	}
	return bands[len(bands)-1].sign
}
