package ephemeris

import (
	"math"
	"time"
)

// unixEpochJD is the Julian day of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

// J2000 is the Julian day of the J2000.0 epoch.
const J2000 = 2451545.0

// JulianDay converts an instant to a Julian day in Universal Time.
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	return unixEpochJD + float64(u.Unix())/86400 + float64(u.Nanosecond())/86400e9
}

// TimeOf converts a Julian day back to a UTC instant.
func TimeOf(jd float64) time.Time {
	secs := (jd - unixEpochJD) * 86400
	whole := math.Floor(secs)
	return time.Unix(int64(whole), int64(math.Round((secs-whole)*1e9))).UTC()
}

// centuries returns Julian centuries since J2000.
func centuries(jd float64) float64 {
	return (jd - J2000) / 36525
}
