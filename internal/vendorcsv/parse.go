package vendorcsv

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

// ErrEmptyValue is returned when a cell is blank.
var ErrEmptyValue = errors.New("vendorcsv: empty value")

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a vendor timestamp. Zone-less values are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	ts, err := iso8601.ParseString(value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

// ParseFloat parses a numeric cell. NaN, infinite and blank cells are errors.
func ParseFloat(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrEmptyValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, strconv.ErrSyntax
	}
	return parsed, nil
}

// ParseOptionalFloat parses a numeric cell, returning NaN when it is blank or invalid.
func ParseOptionalFloat(value string) float64 {
	parsed, err := ParseFloat(value)
	if err != nil {
		return math.NaN()
	}
	return parsed
}
