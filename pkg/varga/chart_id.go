package varga

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/jyotish/pkg/errors"
)

// ChartID identifies a divisional chart D1 through D60. The numeric value is
// the number of divisions per sign.
type ChartID int

// Divisional chart identifiers.
const (
	D1 ChartID = iota + 1
	D2
	D3
	D4
	D5
	D6
	D7
	D8
	D9
	D10
	D11
	D12
	D13
	D14
	D15
	D16
	D17
	D18
	D19
	D20
	D21
	D22
	D23
	D24
	D25
	D26
	D27
	D28
	D29
	D30
	D31
	D32
	D33
	D34
	D35
	D36
	D37
	D38
	D39
	D40
	D41
	D42
	D43
	D44
	D45
	D46
	D47
	D48
	D49
	D50
	D51
	D52
	D53
	D54
	D55
	D56
	D57
	D58
	D59
	D60
)

// NumCharts is the number of divisional charts.
const NumCharts = 60

// Valid reports whether id is one of D1..D60.
func (id ChartID) Valid() bool { return id >= D1 && id <= D60 }

// Divisions returns the number of parts each sign is split into.
func (id ChartID) Divisions() int { return int(id) }

func (id ChartID) String() string { return "D" + strconv.Itoa(int(id)) }

// Name returns the classical name of the chart, or its id when it has none.
func (id ChartID) Name() string {
	if n, ok := chartNames[id]; ok {
		return n
	}
	return id.String()
}

// MarshalText renders the id as "D9".
func (id ChartID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid chart id %d", int(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText parses "D9" style ids.
func (id *ChartID) UnmarshalText(b []byte) error {
	parsed, err := ParseChartID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseChartID converts a string such as "D9" or "d10" into a ChartID.
func ParseChartID(s string) (ChartID, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != 'D' && s[0] != 'd') {
		return 0, errors.New(errors.ErrCodeUnknownChart, "unknown chart id %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || !ChartID(n).Valid() {
		return 0, errors.New(errors.ErrCodeUnknownChart, "unknown chart id %q", s)
	}
	return ChartID(n), nil
}

// ParseChartIDs parses a list of ids, failing on the first unknown one.
func ParseChartIDs(ss []string) ([]ChartID, error) {
	out := make([]ChartID, 0, len(ss))
	for _, s := range ss {
		id, err := ParseChartID(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// All returns D1..D60 in order.
func All() []ChartID {
	out := make([]ChartID, NumCharts)
	for i := range out {
		out[i] = ChartID(i + 1)
	}
	return out
}

var chartNames = map[ChartID]string{
	D1:  "Rasi",
	D2:  "Hora",
	D3:  "Drekkana",
	D4:  "Chaturthamsa",
	D7:  "Saptamsa",
	D9:  "Navamsa",
	D10: "Dasamsa",
	D12: "Dwadasamsa",
	D16: "Shodasamsa",
	D20: "Vimsamsa",
	D24: "Chaturvimsamsa",
	D27: "Saptavimsamsa",
	D30: "Trimsamsa",
	D40: "Khavedamsa",
	D45: "Akshavedamsa",
	D60: "Shashtiamsa",
}
