package util

import "regexp"

// 2004 through 2099. Anything earlier is too likely to be a serial number.
var yearPattern = regexp.MustCompile(`20(?:0[4-9]|[1-9][0-9])`)

// ExtractYear returns the leftmost 2004-2099 year found in name.
func ExtractYear(name string) (string, bool) {
	year := yearPattern.FindString(name)
	return year, year != ""
}
