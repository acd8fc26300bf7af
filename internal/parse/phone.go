package parse

import (
	"regexp"
	"strings"
)

var phoneNoise = regexp.MustCompile(`[\s.\-()/]+`)

// NormalizePhone strips the spacing and punctuation people type into phone
// numbers ("06 12-34.56 78" -> "0612345678") so that uniqueness holds on the
// digits. A leading '+' is kept.
func NormalizePhone(raw string) string {
	return phoneNoise.ReplaceAllString(strings.TrimSpace(raw), "")
}
