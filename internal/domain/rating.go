package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is a fixed-point average rating with two decimal places, stored as
// hundredths. The valid range is 0.00 to 9.99 (0 to 999 hundredths), matching
// the catalog's three-digit rating column. Using an integer representation
// keeps filter comparisons exact; floats would make "8.30+" include 8.2999...
type Rating int

// MaxRating is the highest representable rating (9.99).
const MaxRating Rating = 999

// ParseRating parses a decimal rating string ("8.25", "7", "9.9") into a Rating.
// At most two fractional digits are accepted.
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty rating")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")

	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q", s)
	}

	cents := 0
	if hasFrac {
		if frac == "" || len(frac) > 2 {
			return 0, fmt.Errorf("invalid rating %q: at most two decimal places", s)
		}
		// Right-pad to hundredths: "9.5" means 9.50.
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid rating %q", s)
		}
	}

	if w < 0 {
		return 0, fmt.Errorf("rating %q out of range", s)
	}

	r := Rating(w*100 + cents)
	if r > MaxRating {
		return 0, fmt.Errorf("rating %q out of range (max 9.99)", s)
	}
	return r, nil
}

// String formats the rating as a decimal with two places: 825 -> "8.25".
func (r Rating) String() string {
	return fmt.Sprintf("%d.%02d", int(r)/100, int(r)%100)
}

// Float64 returns the rating as a float for display purposes only.
// Comparisons should always use the integer representation.
func (r Rating) Float64() float64 {
	return float64(r) / 100
}

// Valid reports whether the rating is within the representable range.
func (r Rating) Valid() bool {
	return r >= 0 && r <= MaxRating
}

// MarshalJSON encodes the rating as a decimal number with two places.
func (r Rating) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalJSON decodes either a JSON number or string into a Rating.
func (r *Rating) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseRating(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
