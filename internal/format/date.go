package format

const isoDateLength = 10

// Date keeps the YYYY-MM-DD prefix of an ISO timestamp. A nil or empty value
// renders as an empty cell; shorter strings are returned as is.
func Date(value *string) string {
	if value == nil {
		return ""
	}
	return DateValue(*value)
}

// DateValue keeps the first ten characters of s, counted in runes.
func DateValue(s string) string {
	n := 0
	for i := range s {
		if n == isoDateLength {
			return s[:i]
		}
		n++
	}
	return s
}
