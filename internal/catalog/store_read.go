package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"moviedb/internal/title"
)

// recordSelect reconstructs a denormalized record in one round trip. Each
// many-valued category is collapsed by a correlated subquery, so a title
// with zero genres, countries, or roles still reads back with an empty list
// instead of disappearing behind an inner join.
const recordSelect = `
SELECT
    t.title,
    t.year,
    t.runtime,
    t.poster,
    t.plot,
    t.awards,
    t.imdb_id,
    t.imdb_rating,
    ty.name,
    t.my_rating,
    (SELECT COALESCE(GROUP_CONCAT(g.name, ', '), '')
       FROM genres g JOIN title_genres tg ON g.genre_id = tg.genre_id
      WHERE tg.title_id = t.title_id),
    (SELECT COALESCE(GROUP_CONCAT(c.name, ', '), '')
       FROM countries c JOIN title_countries tc ON c.country_id = tc.country_id
      WHERE tc.title_id = t.title_id),
    (SELECT COALESCE(GROUP_CONCAT(p.name, ', '), '')
       FROM people p JOIN title_roles tr ON p.person_id = tr.person_id
      WHERE tr.title_id = t.title_id AND tr.role = 'director'),
    (SELECT COALESCE(GROUP_CONCAT(p.name, ', '), '')
       FROM people p JOIN title_roles tr ON p.person_id = tr.person_id
      WHERE tr.title_id = t.title_id AND tr.role = 'actor'),
    (SELECT COALESCE(GROUP_CONCAT(p.name, ', '), '')
       FROM people p JOIN title_roles tr ON p.person_id = tr.person_id
      WHERE tr.title_id = t.title_id AND tr.role IN ('writer', 'creator'))
FROM titles t
LEFT JOIN types ty ON t.type_id = ty.type_id
WHERE t.imdb_id = ?`

// GetByIMDbID fetches one record by its external identifier. A malformed
// identifier fails fast with ErrValidation before touching storage; a
// well-formed identifier with no row yields ErrNotFound.
func (s *Store) GetByIMDbID(ctx context.Context, imdbID string) (*title.Record, error) {
	if !title.ValidIMDbID(imdbID) {
		return nil, fmt.Errorf("%w: invalid IMDb ID format %q, expected 'tt' followed by 7-9 digits", ErrValidation, imdbID)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM titles WHERE imdb_id = ?", imdbID).Scan(&count); err != nil {
		return nil, fmt.Errorf("check title exists: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, imdbID)
	}

	row := s.db.QueryRowContext(ctx, recordSelect, imdbID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		// The existence check just succeeded, so the aggregate read must
		// return a row. Reaching this point means the schema invariants are
		// broken.
		return nil, fmt.Errorf("%w: title %s exists but read-back returned no rows", ErrIntegrity, imdbID)
	}
	if err != nil {
		return nil, fmt.Errorf("read title %s: %w", imdbID, err)
	}
	return rec, nil
}

// GetByName resolves a case-insensitive exact name match to an identifier
// and delegates to GetByIMDbID. When several titles share a name the lowest
// internal id wins; callers wanting all matches should use SearchByName.
func (s *Store) GetByName(ctx context.Context, name string) (*title.Record, error) {
	var imdbID string
	err := s.db.QueryRowContext(ctx,
		"SELECT imdb_id FROM titles WHERE LOWER(title) = LOWER(?) ORDER BY title_id LIMIT 1",
		name,
	).Scan(&imdbID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no title named %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("look up title by name: %w", err)
	}
	return s.GetByIMDbID(ctx, imdbID)
}

// SearchByName returns full records for every title whose name contains the
// given substring, case-insensitively. A no-match query returns an empty
// slice, not an error.
func (s *Store) SearchByName(ctx context.Context, substring string) ([]*title.Record, error) {
	return s.collectRecords(ctx,
		"SELECT imdb_id FROM titles WHERE title LIKE '%' || ? || '%' ORDER BY title_id",
		substring,
	)
}

// ListAll returns every record in the catalog in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]*title.Record, error) {
	return s.collectRecords(ctx, "SELECT imdb_id FROM titles ORDER BY title_id")
}

// TitlesByMinimumRating returns records whose stored user rating is at least
// the threshold. Titles never rated carry a NULL rating and are excluded at
// every threshold, including zero.
func (s *Store) TitlesByMinimumRating(ctx context.Context, threshold int) ([]*title.Record, error) {
	if err := validateRating(threshold); err != nil {
		return nil, err
	}
	return s.collectRecords(ctx,
		"SELECT imdb_id FROM titles WHERE my_rating >= ? ORDER BY title_id",
		threshold,
	)
}

func (s *Store) collectRecords(ctx context.Context, query string, args ...any) ([]*title.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]*title.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetByIMDbID(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func scanRecord(row *sql.Row) (*title.Record, error) {
	var (
		name       string
		year       string
		runtime    sql.NullString
		poster     sql.NullString
		plot       sql.NullString
		awards     sql.NullString
		imdbID     string
		imdbRating float64
		typeName   sql.NullString
		myRating   sql.NullInt64
		genres     string
		countries  string
		directors  string
		actors     string
		writers    string
	)

	if err := row.Scan(
		&name,
		&year,
		&runtime,
		&poster,
		&plot,
		&awards,
		&imdbID,
		&imdbRating,
		&typeName,
		&myRating,
		&genres,
		&countries,
		&directors,
		&actors,
		&writers,
	); err != nil {
		return nil, err
	}

	rec := &title.Record{
		Title:      name,
		Year:       year,
		Runtime:    runtime.String,
		Poster:     poster.String,
		Plot:       plot.String,
		Awards:     awards.String,
		IMDbID:     imdbID,
		IMDbRating: strconv.FormatFloat(imdbRating, 'f', -1, 64),
		Type:       typeName.String,
		Directors:  title.SplitList(directors),
		Writers:    title.SplitList(writers),
		Actors:     title.SplitList(actors),
		Genres:     title.SplitList(genres),
		Countries:  title.SplitList(countries),
	}
	if myRating.Valid {
		rec.MyRating = int(myRating.Int64)
		rec.Rated = true
	}
	return rec, nil
}
