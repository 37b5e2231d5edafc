package query

// Clause is one conjunct of a compiled WHERE expression. Expr uses ?
// placeholders matched positionally by Args.
type Clause struct {
	Expr string
	Args []any
}

// Descriptor is the compiled form of a set of Options: a conjunction of
// WHERE clauses plus an ORDER BY expression, against the albums table
// (columns id, release_year, avg_rating, rating_count) and the
// album_genres join table (album_id, genre_id, role).
type Descriptor struct {
	Where []Clause
	Order string
}

// Compile lowers the options into a Descriptor. Stages are emitted in a
// fixed order: year, genre includes, genre excludes, rating count, average
// rating. Inactive stages emit nothing.
func (o Options) Compile() Descriptor {
	var d Descriptor

	if o.Year != nil {
		d.Where = append(d.Where, o.Year.clause())
	}

	// Include semantics are conjunctive: an album must carry every listed
	// genre as a primary genre, so each genre becomes its own EXISTS.
	for _, g := range o.IncludeGenres {
		d.Where = append(d.Where, Clause{
			Expr: "EXISTS (SELECT 1 FROM album_genres ag WHERE ag.album_id = albums.id AND ag.role = 'primary' AND ag.genre_id = ?)",
			Args: []any{g},
		})
	}

	if len(o.ExcludeGenres) > 0 {
		d.Where = append(d.Where, excludeClause(o.ExcludeGenres))
	}

	if b := o.RatingCount; b != nil {
		d.Where = append(d.Where, Clause{
			Expr: "rating_count " + boundOp(b.AtLeast) + " ?",
			Args: []any{b.Value},
		})
	}

	if b := o.AvgRating; b != nil {
		d.Where = append(d.Where, Clause{
			Expr: "avg_rating " + boundOp(b.AtLeast) + " ?",
			Args: []any{int(b.Value)},
		})
	}

	d.Order = o.Sort.OrderBy()
	return d
}

func (e *YearExpr) clause() Clause {
	switch e.Kind {
	case YearMin:
		return Clause{Expr: "release_year >= ?", Args: []any{e.Lo}}
	case YearMax:
		return Clause{Expr: "release_year <= ?", Args: []any{e.Hi}}
	case YearRange:
		// An inverted range (Lo > Hi) compiles as-is and matches nothing.
		return Clause{Expr: "release_year >= ? AND release_year <= ?", Args: []any{e.Lo, e.Hi}}
	default:
		return Clause{Expr: "release_year = ?", Args: []any{e.Lo}}
	}
}

// excludeClause rejects albums carrying any of the listed genres as a
// primary genre.
func excludeClause(genres []string) Clause {
	args := make([]any, len(genres))
	placeholders := make([]byte, 0, len(genres)*2)
	for i, g := range genres {
		args[i] = g
		if i > 0 {
			placeholders = append(placeholders, ',', '?')
		} else {
			placeholders = append(placeholders, '?')
		}
	}
	return Clause{
		Expr: "NOT EXISTS (SELECT 1 FROM album_genres ag WHERE ag.album_id = albums.id AND ag.role = 'primary' AND ag.genre_id IN (" + string(placeholders) + "))",
		Args: args,
	}
}

func boundOp(atLeast bool) string {
	if atLeast {
		return ">="
	}
	return "<="
}
