package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pair is a number with an optional total, as packed into fields like
// ID3 TRCK ("3/12") or a Vorbis TRACKNUMBER written by some taggers.
type Pair struct {
	Number    uint16
	Total     uint16
	HasNumber bool
	HasTotal  bool
}

// SplitPair splits a packed "number/total" string. Each side is parsed on
// its own, so "3/abc" yields only the number and "abc" yields nothing.
func SplitPair(s string) Pair {
	p, _ := ParsePair(s)
	return p
}

// ParsePair is SplitPair that also reports which side failed to parse.
// The returned Pair holds every side that did parse.
func ParsePair(s string) (Pair, error) {
	var p Pair
	s = strings.TrimSpace(s)
	if s == "" {
		return p, nil
	}

	num, total, packed := strings.Cut(s, "/")
	var errs []error

	if num = strings.TrimSpace(num); num != "" {
		n, err := ParseUint16(num)
		if err != nil {
			errs = append(errs, fmt.Errorf("number %q: %w", num, err))
		} else {
			p.Number, p.HasNumber = n, true
		}
	}

	if packed {
		if total = strings.TrimSpace(total); total != "" {
			n, err := ParseUint16(total)
			if err != nil {
				errs = append(errs, fmt.Errorf("total %q: %w", total, err))
			} else {
				p.Total, p.HasTotal = n, true
			}
		}
	}

	return p, errors.Join(errs...)
}

// String joins the pair back into its packed form: "3/12", "3", "/12" or "".
func (p Pair) String() string {
	switch {
	case p.HasNumber && p.HasTotal:
		return strconv.FormatUint(uint64(p.Number), 10) + "/" + strconv.FormatUint(uint64(p.Total), 10)
	case p.HasNumber:
		return strconv.FormatUint(uint64(p.Number), 10)
	case p.HasTotal:
		return "/" + strconv.FormatUint(uint64(p.Total), 10)
	default:
		return ""
	}
}

// IsZero reports whether neither side is present.
func (p Pair) IsZero() bool {
	return !p.HasNumber && !p.HasTotal
}

// ParseUint16 parses decimal text into a uint16.
func ParseUint16(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrOutOfRange
		}
		return 0, ErrInvalidNumber
	}
	return uint16(n), nil
}

// ParseYear extracts the year from a date field. Full dates and timestamps
// ("2024-05-15", "2024-05-15T10:00:00") yield their leading year. A leading
// minus sign is kept, so every int SetYear accepts reads back unchanged.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, ErrInvalidNumber
	}
	if end < len(s) && s[end] != '-' && s[end] != 'T' && s[end] != ' ' && s[end] != '/' {
		return 0, ErrInvalidNumber
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, ErrOutOfRange
	}
	return year, nil
}
