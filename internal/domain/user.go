package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// UserInfo is the name and birth date the insight prompt is rendered from.
type UserInfo struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// Validate checks name length (2..20 characters) and the birth date layout.
func (u UserInfo) Validate() error {
	name := strings.TrimSpace(u.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 20 {
		return fmt.Errorf("%w: name must be 2-20 characters", ErrInvalidArgument)
	}
	if _, err := ParseDayKey(u.BirthDate); err != nil {
		return fmt.Errorf("%w: birth date must be YYYY-MM-DD", ErrInvalidArgument)
	}
	return nil
}

// NormalizeBirthDate converts YYMMDD, YYYYMMDD and separated forms to
// YYYY-MM-DD. Two-digit years up to 30 map to 20xx, the rest to 19xx.
// Input that cannot be converted is returned unchanged.
func NormalizeBirthDate(input string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)

	var year, month, day string
	switch len(digits) {
	case 6:
		yy, _ := strconv.Atoi(digits[:2])
		if yy <= 30 {
			year = strconv.Itoa(2000 + yy)
		} else {
			year = strconv.Itoa(1900 + yy)
		}
		month, day = digits[2:4], digits[4:6]
	case 8:
		year, month, day = digits[:4], digits[4:6], digits[6:8]
	default:
		return input
	}

	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return input
	}
	return year + "-" + month + "-" + day
}
