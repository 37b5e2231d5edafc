package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crateapp/crate-server/internal/errors"
)

func TestParseYearExpr(t *testing.T) {
	tests := []struct {
		input string
		want  YearExpr
		ok    bool
	}{
		{"1997", YearExpr{Kind: YearExact, Lo: 1997}, true},
		{"1997+", YearExpr{Kind: YearMin, Lo: 1997}, true},
		{"1997-", YearExpr{Kind: YearMax, Hi: 1997}, true},
		{"1990,1999", YearExpr{Kind: YearRange, Lo: 1990, Hi: 1999}, true},
		{"1999,1990", YearExpr{Kind: YearRange, Lo: 1999, Hi: 1990}, true},
		{" 1997 ", YearExpr{Kind: YearExact, Lo: 1997}, true},
		{"abcd", YearExpr{}, false},
		{"19x7+", YearExpr{}, false},
		{"1990,", YearExpr{}, false},
		{",1999", YearExpr{}, false},
		{"-1990", YearExpr{}, false},
		{"", YearExpr{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseYearExpr(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidFilter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseOptions(t *testing.T) {
	t.Run("full set", func(t *testing.T) {
		opts, err := ParseOptions(map[string]string{
			ParamYear:          "1990,1999",
			ParamIncludeGenres: "genre-a, genre-b",
			ParamExcludeGenres: "genre-c",
			ParamRatingCount:   "50+",
			ParamAvgRating:     "8.25-",
			ParamSortBy:        "-rating",
		})
		require.NoError(t, err)

		require.NotNil(t, opts.Year)
		assert.Equal(t, YearRange, opts.Year.Kind)
		assert.Equal(t, []string{"genre-a", "genre-b"}, opts.IncludeGenres)
		assert.Equal(t, []string{"genre-c"}, opts.ExcludeGenres)

		require.NotNil(t, opts.RatingCount)
		assert.Equal(t, 50, opts.RatingCount.Value)
		assert.True(t, opts.RatingCount.AtLeast)

		require.NotNil(t, opts.AvgRating)
		assert.Equal(t, 825, int(opts.AvgRating.Value))
		assert.False(t, opts.AvgRating.AtLeast)

		assert.Equal(t, SortRatingDesc, opts.Sort)
	})

	t.Run("empty map", func(t *testing.T) {
		opts, err := ParseOptions(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, Options{}, opts)
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		opts, err := ParseOptions(map[string]string{"page_size": "10"})
		require.NoError(t, err)
		assert.Equal(t, Options{}, opts)
	})

	t.Run("unknown sort falls back to default", func(t *testing.T) {
		opts, err := ParseOptions(map[string]string{ParamSortBy: "tracklength"})
		require.NoError(t, err)
		assert.Equal(t, SortDefault, opts.Sort)
	})

	t.Run("malformed values fail closed", func(t *testing.T) {
		for name, raw := range map[string]map[string]string{
			"bad year":           {ParamYear: "ninety"},
			"bare rating count":  {ParamRatingCount: "50"},
			"bad rating count":   {ParamRatingCount: "x+"},
			"bare avg rating":    {ParamAvgRating: "8.25"},
			"bad avg rating":     {ParamAvgRating: "8.255+"},
			"negative avg bound": {ParamAvgRating: "-1.00+"},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := ParseOptions(raw)
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidFilter))
			})
		}
	})
}

func TestCompile(t *testing.T) {
	t.Run("stage order", func(t *testing.T) {
		opts, err := ParseOptions(map[string]string{
			ParamYear:          "1997+",
			ParamIncludeGenres: "genre-a,genre-b",
			ParamExcludeGenres: "genre-c,genre-d",
			ParamRatingCount:   "10+",
			ParamAvgRating:     "7.50+",
		})
		require.NoError(t, err)

		d := opts.Compile()
		require.Len(t, d.Where, 6)

		assert.Equal(t, "release_year >= ?", d.Where[0].Expr)
		assert.Equal(t, []any{1997}, d.Where[0].Args)

		assert.Contains(t, d.Where[1].Expr, "EXISTS")
		assert.Equal(t, []any{"genre-a"}, d.Where[1].Args)
		assert.Equal(t, []any{"genre-b"}, d.Where[2].Args)

		assert.Contains(t, d.Where[3].Expr, "NOT EXISTS")
		assert.Contains(t, d.Where[3].Expr, "IN (?,?)")
		assert.Equal(t, []any{"genre-c", "genre-d"}, d.Where[3].Args)

		assert.Equal(t, "rating_count >= ?", d.Where[4].Expr)
		assert.Equal(t, "avg_rating >= ?", d.Where[5].Expr)
		assert.Equal(t, []any{750}, d.Where[5].Args)
	})

	t.Run("rating bounds use hundredths", func(t *testing.T) {
		opts, err := ParseOptions(map[string]string{ParamAvgRating: "8.25-"})
		require.NoError(t, err)

		d := opts.Compile()
		require.Len(t, d.Where, 1)
		assert.Equal(t, "avg_rating <= ?", d.Where[0].Expr)
		assert.Equal(t, []any{825}, d.Where[0].Args)
	})

	t.Run("inverted range compiles as-is", func(t *testing.T) {
		opts := Options{Year: &YearExpr{Kind: YearRange, Lo: 1999, Hi: 1990}}
		d := opts.Compile()
		require.Len(t, d.Where, 1)
		assert.Equal(t, "release_year >= ? AND release_year <= ?", d.Where[0].Expr)
		assert.Equal(t, []any{1999, 1990}, d.Where[0].Args)
	})

	t.Run("empty options", func(t *testing.T) {
		d := Options{}.Compile()
		assert.Empty(t, d.Where)
		assert.Equal(t, "id ASC", d.Order)
	})
}

func TestSortKeyOrderBy(t *testing.T) {
	tests := []struct {
		key  SortKey
		want string
	}{
		{SortDefault, "id ASC"},
		{SortYear, "release_year ASC, id ASC"},
		{SortYearDesc, "release_year DESC, id ASC"},
		{SortRating, "avg_rating ASC, id ASC"},
		{SortRatingDesc, "avg_rating DESC, id ASC"},
		{SortRatingCount, "rating_count ASC, id ASC"},
		{SortRatingCountDesc, "rating_count DESC, id ASC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.OrderBy())
	}
}
