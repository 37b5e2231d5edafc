// Package query implements the album query engine: it parses raw listing
// parameters into typed filter/sort options and compiles them into a SQL
// descriptor the store executes. Parsing fails closed - a malformed token
// aborts the whole filter chain instead of silently skipping a stage.
package query

import (
	"strconv"
	"strings"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/errors"
)

// Recognized raw parameter keys.
const (
	ParamYear          = "year"
	ParamIncludeGenres = "ingenres"
	ParamExcludeGenres = "exgenres"
	ParamRatingCount   = "rating_count"
	ParamAvgRating     = "avg_rating"
	ParamSortBy        = "sortby"
)

// Options holds the typed filter and sort options for one album listing.
// Nil/empty fields are inactive stages.
type Options struct {
	Year          *YearExpr
	IncludeGenres []string
	ExcludeGenres []string
	RatingCount   *CountBound
	AvgRating     *RatingBound
	Sort          SortKey
}

// YearKind discriminates the forms a year filter can take.
type YearKind int

// Year filter forms.
const (
	YearExact YearKind = iota // "1997"  - release year == Lo
	YearMin                   // "1997+" - release year >= Lo
	YearMax                   // "1997-" - release year <= Hi
	YearRange                 // "1990,1999" - Lo <= release year <= Hi
)

// YearExpr is a parsed release-year filter.
// For YearRange no ordering of Lo/Hi is imposed: an inverted range is legal
// and matches nothing.
type YearExpr struct {
	Kind YearKind
	Lo   int
	Hi   int
}

// CountBound is a rating-count threshold: at least (>=) or at most (<=) Value.
type CountBound struct {
	Value   int
	AtLeast bool
}

// RatingBound is an average-rating threshold in fixed-point hundredths.
type RatingBound struct {
	Value   domain.Rating
	AtLeast bool
}

// ParseOptions converts raw string-typed query parameters into typed Options.
// Unknown keys are ignored; malformed values for recognized keys return
// errors.ErrInvalidFilter. The sole permissive exception is sortby, where an
// unrecognized key falls back to the default identity order.
func ParseOptions(raw map[string]string) (Options, error) {
	var opts Options

	if v, ok := raw[ParamYear]; ok && v != "" {
		expr, err := ParseYearExpr(v)
		if err != nil {
			return Options{}, err
		}
		opts.Year = expr
	}

	if v, ok := raw[ParamIncludeGenres]; ok {
		opts.IncludeGenres = splitList(v)
	}
	if v, ok := raw[ParamExcludeGenres]; ok {
		opts.ExcludeGenres = splitList(v)
	}

	if v, ok := raw[ParamRatingCount]; ok && v != "" {
		bound, err := parseCountBound(v)
		if err != nil {
			return Options{}, err
		}
		opts.RatingCount = bound
	}

	if v, ok := raw[ParamAvgRating]; ok && v != "" {
		bound, err := parseRatingBound(v)
		if err != nil {
			return Options{}, err
		}
		opts.AvgRating = bound
	}

	opts.Sort = ParseSortKey(raw[ParamSortBy])

	return opts, nil
}

// ParseYearExpr parses a year filter token:
// "1997" (exact), "1997+" (at least), "1997-" (at most), "1990,1999" (range).
func ParseYearExpr(s string) (*YearExpr, error) {
	s = strings.TrimSpace(s)

	if lo, hi, ok := strings.Cut(s, ","); ok {
		y1, err := parseYear(lo)
		if err != nil {
			return nil, err
		}
		y2, err := parseYear(hi)
		if err != nil {
			return nil, err
		}
		return &YearExpr{Kind: YearRange, Lo: y1, Hi: y2}, nil
	}

	switch {
	case strings.HasSuffix(s, "+"):
		y, err := parseYear(strings.TrimSuffix(s, "+"))
		if err != nil {
			return nil, err
		}
		return &YearExpr{Kind: YearMin, Lo: y}, nil
	case strings.HasSuffix(s, "-"):
		y, err := parseYear(strings.TrimSuffix(s, "-"))
		if err != nil {
			return nil, err
		}
		return &YearExpr{Kind: YearMax, Hi: y}, nil
	default:
		y, err := parseYear(s)
		if err != nil {
			return nil, err
		}
		return &YearExpr{Kind: YearExact, Lo: y}, nil
	}
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 0 {
		return 0, errors.InvalidFilterf("invalid year %q", s)
	}
	return y, nil
}

// parseCountBound parses a rating-count token: "50+" or "50-".
// The suffix is mandatory; a bare number is a malformed bound.
func parseCountBound(s string) (*CountBound, error) {
	s = strings.TrimSpace(s)

	atLeast, ok := cutBoundSuffix(&s)
	if !ok {
		return nil, errors.InvalidFilterf("rating count bound %q must end in + or -", s)
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, errors.InvalidFilterf("invalid rating count %q", s)
	}
	return &CountBound{Value: n, AtLeast: atLeast}, nil
}

// parseRatingBound parses an average-rating token: "8.25+" or "8.25-".
func parseRatingBound(s string) (*RatingBound, error) {
	s = strings.TrimSpace(s)

	atLeast, ok := cutBoundSuffix(&s)
	if !ok {
		return nil, errors.InvalidFilterf("rating bound %q must end in + or -", s)
	}

	r, err := domain.ParseRating(s)
	if err != nil {
		return nil, errors.InvalidFilterf("invalid rating %q", s)
	}
	return &RatingBound{Value: r, AtLeast: atLeast}, nil
}

// cutBoundSuffix strips a trailing "+" or "-" from *s and reports its
// direction. Returns ok=false when neither suffix is present.
func cutBoundSuffix(s *string) (atLeast, ok bool) {
	switch {
	case strings.HasSuffix(*s, "+"):
		*s = strings.TrimSuffix(*s, "+")
		return true, true
	case strings.HasSuffix(*s, "-"):
		*s = strings.TrimSuffix(*s, "-")
		return false, true
	default:
		return false, false
	}
}

// splitList splits a comma-separated identifier list, dropping empty parts.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
