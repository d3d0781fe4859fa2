// Package season models NBA season identifiers such as "2023-24".
package season

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// ErrInvalidSeason is returned for identifiers that are not of the form YYYY-YY
// with YY equal to the last two digits of YYYY+1.
var ErrInvalidSeason = errors.New("invalid season")

// Season is an NBA season identifier, e.g. "2023-24".
type Season string

// FromStartYear returns the season starting in the given year.
func FromStartYear(year int) Season {
	return Season(fmt.Sprintf("%04d-%02d", year, (year+1)%100))
}

// Parse validates s and returns it as a Season.
func Parse(s string) (Season, error) {
	if len(s) != 7 || s[4] != '-' || !digits(s[:4]) || !digits(s[5:]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeason, s)
	}
	start, _ := strconv.Atoi(s[:4])
	end, _ := strconv.Atoi(s[5:])
	if (start+1)%100 != end {
		return "", fmt.Errorf("%w: %q does not span consecutive years", ErrInvalidSeason, s)
	}
	return Season(s), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// StartYear returns the calendar year the season starts in.
func (s Season) StartYear() int {
	if len(s) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(string(s[:4]))
	return y
}

func (s Season) String() string { return string(s) }

// Range returns every season whose start year lies in [first, last], newest first.
func Range(first, last int) []Season {
	if first > last {
		return nil
	}
	out := make([]Season, 0, last-first+1)
	for y := last; y >= first; y-- {
		out = append(out, FromStartYear(y))
	}
	return out
}

// Contains reports whether s is in list.
func Contains(list []Season, s Season) bool {
	return slices.Contains(list, s)
}

// Ascending returns a copy of list ordered oldest first.
func Ascending(list []Season) []Season {
	out := slices.Clone(list)
	slices.SortFunc(out, func(a, b Season) int { return a.StartYear() - b.StartYear() })
	return out
}
