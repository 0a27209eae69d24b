package domain

import "unicode/utf8"

// Column limits shared by every stored contact record.
const (
	MaxNameLength  = 200
	MaxEmailLength = 320
	MaxPhoneLength = 50
)

// ExceedsLength reports whether s has more than max characters.
func ExceedsLength(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}
