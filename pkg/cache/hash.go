package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// hashKey joins a prefix with the SHA-256 of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// canonicalChartKey orders and dedupes the set-valued fields, so
// "--charts D10,D9" and "--charts D9,D10,D9" hit the same entry.
// The caller's slices are left untouched.
func canonicalChartKey(opts ChartKeyOpts) ChartKeyOpts {
	opts.Charts = sortedSet(opts.Charts)
	opts.Sections = sortedSet(opts.Sections)
	return opts
}

func sortedSet(ss []string) []string {
	if len(ss) < 2 {
		return ss
	}
	out := slices.Clone(ss)
	slices.Sort(out)
	return slices.Compact(out)
}
