package format

import "strings"

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Document formats a CPF as 000.000.000-00 or a CNPJ as 00.000.000/0000-00
// when its check digits are valid. Anything else is returned unchanged.
func Document(raw string) string {
	digits := OnlyDigits(raw)
	switch {
	case len(digits) == cpfLength && ValidCPF(digits):
		return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
	case len(digits) == cnpjLength && ValidCNPJ(digits):
		return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
	default:
		return raw
	}
}

// ValidDocument reports whether raw holds a valid CPF or CNPJ, punctuation
// ignored.
func ValidDocument(raw string) bool {
	digits := OnlyDigits(raw)
	switch len(digits) {
	case cpfLength:
		return ValidCPF(digits)
	case cnpjLength:
		return ValidCNPJ(digits)
	default:
		return false
	}
}

func ValidCPF(raw string) bool {
	d := toDigits(OnlyDigits(raw))
	if len(d) != cpfLength || allEqual(d) {
		return false
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != d[n] {
			return false
		}
	}
	return true
}

func ValidCNPJ(raw string) bool {
	d := toDigits(OnlyDigits(raw))
	if len(d) != cnpjLength || allEqual(d) {
		return false
	}
	for _, weights := range [][]int{cnpjFirstWeights, cnpjSecondWeights} {
		n := len(weights)
		sum := 0
		for i, w := range weights {
			sum += d[i] * w
		}
		check := 0
		if r := sum % 11; r >= 2 {
			check = 11 - r
		}
		if check != d[n] {
			return false
		}
	}
	return true
}

func OnlyDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toDigits(s string) []int {
	out := make([]int, len(s))
	for i := range s {
		out[i] = int(s[i] - '0')
	}
	return out
}

func allEqual(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}
