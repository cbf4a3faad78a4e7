package errors

import (
	"math"
	"time"
)

// Supported calendar range for birth data.
var (
	MinDate = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxDate = time.Date(2050, 12, 31, 23, 59, 59, 0, time.UTC)
)

// ValidateCoordinates checks that latitude and longitude are finite and in range.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return New(ErrCodeInvalidCoordinates, "coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidCoordinates, "latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidCoordinates, "longitude %v out of range [-180, 180]", lon)
	}
	// Quadrant house systems are undefined at the poles.
	if math.Abs(lat) > 89.999 {
		return New(ErrCodeInvalidCoordinates, "latitude %v too close to a pole", lat)
	}
	return nil
}

// LoadTimezone resolves an IANA zone name.
func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, New(ErrCodeInvalidTimezone, "timezone cannot be empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, Wrap(ErrCodeInvalidTimezone, err, "unknown timezone %q", name)
	}
	return loc, nil
}

// ValidateDateRange checks that t falls within the supported ephemeris range.
func ValidateDateRange(t time.Time) error {
	u := t.UTC()
	if u.Before(MinDate) || u.After(MaxDate) {
		return New(ErrCodeDateOutOfRange, "date %s outside supported range %s to %s",
			u.Format("2006-01-02"), MinDate.Format("2006-01-02"), MaxDate.Format("2006-01-02"))
	}
	return nil
}

// ParseBirthTime combines a date ("2006-01-02") and a clock time ("15:04" or
// "15:04:05") in the given zone.
func ParseBirthTime(date, clock string, loc *time.Location) (time.Time, error) {
	if date == "" {
		return time.Time{}, New(ErrCodeInvalidDate, "date is required")
	}
	if clock == "" {
		clock = "12:00"
	}
	layouts := []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, New(ErrCodeInvalidDate, "cannot parse date %q time %q (want YYYY-MM-DD and HH:MM)", date, clock)
}

// ValidateDepth checks a dasha nesting depth.
func ValidateDepth(depth, max int) error {
	if depth < 1 {
		return New(ErrCodeInvalidOption, "dasha depth must be at least 1, got %d", depth)
	}
	if depth > max {
		return New(ErrCodeInvalidOption, "dasha depth %d exceeds maximum %d", depth, max)
	}
	return nil
}
