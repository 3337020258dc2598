// Package rut handles Chilean RUT tax identifiers.
package rut

import (
	"strconv"
	"strings"
)

// Clean strips dots, dashes and spaces and upper-cases the check digit.
// "12.345.678-k" becomes "12345678K".
func Clean(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= '0' && r <= '9', r == 'K':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns the canonical "12345678-K" form. Input that is too short
// to carry a body and a check digit is returned cleaned but without a dash.
func Normalize(s string) string {
	c := Clean(s)
	if len(c) < 2 {
		return c
	}
	return strings.TrimLeft(c[:len(c)-1], "0") + "-" + c[len(c)-1:]
}

// Valid reports whether s is a well formed RUT with a correct check digit.
func Valid(s string) bool {
	c := Clean(s)
	if len(c) < 2 || len(c) > 9 {
		return false
	}
	body, dv := c[:len(c)-1], c[len(c)-1:]
	if strings.Contains(body, "K") {
		return false
	}
	n, err := strconv.Atoi(body)
	if err != nil || n == 0 {
		return false
	}
	return CheckDigit(n) == dv
}

// CheckDigit computes the modulo 11 verifier for a RUT body.
func CheckDigit(body int) string {
	sum, factor := 0, 2
	for ; body > 0; body /= 10 {
		sum += (body % 10) * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch dv := 11 - sum%11; dv {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(dv)
	}
}
