package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"moviedb/internal/config"
	"moviedb/internal/title"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and ensures the
// schema is present.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// A single live connection; the persistence layer is single-threaded.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection. Safe to call once; later
// calls are no-ops.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

// CreateTitle writes a record and all of its junction rows in one
// transaction. A nil rating stores the title as not yet rated, which is
// distinct from an explicit rating of zero.
//
// The duplicate precheck, shared-entity resolution, title insert, and
// junction inserts all execute inside the same transaction; any failure
// rolls back every statement of the attempt.
func (s *Store) CreateTitle(ctx context.Context, rec *title.Record, rating *int) error {
	imdbRating, err := validateRecord(rec)
	if err != nil {
		return err
	}
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM titles WHERE imdb_id = ?", rec.IMDbID).Scan(&count); err != nil {
		return fmt.Errorf("check existing title: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, rec.IMDbID)
	}

	typeName := strings.TrimSpace(rec.Type)
	if typeName == "" {
		typeName = "movie"
	}
	typeID, err := resolveEntityID(ctx, tx, resolveTypeQuery, typeName)
	if err != nil {
		return fmt.Errorf("resolve type %q: %w", typeName, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO titles (title, year, runtime, poster, plot, awards, imdb_id, imdb_rating, type_id, my_rating)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Title,
		rec.Year,
		nullableString(rec.Runtime),
		nullableString(rec.Poster),
		nullableString(rec.Plot),
		nullableString(rec.Awards),
		rec.IMDbID,
		imdbRating,
		typeID,
		nullableRating(rating),
	)
	if err != nil {
		return fmt.Errorf("insert title: %w", err)
	}
	titleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	roles := make(map[roleRef]struct{})
	addRole := func(names []string, role Role) error {
		for _, name := range names {
			personID, err := resolveEntityID(ctx, tx, resolvePersonQuery, name)
			if err != nil {
				return fmt.Errorf("resolve person %q: %w", name, err)
			}
			roles[roleRef{personID: personID, role: role}] = struct{}{}
		}
		return nil
	}
	if err := addRole(rec.Actors, RoleActor); err != nil {
		return err
	}
	if err := addRole(rec.Directors, RoleDirector); err != nil {
		return err
	}
	if err := addRole(rec.Writers, writingRoleFor(typeName)); err != nil {
		return err
	}
	for ref := range roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO title_roles (title_id, person_id, role) VALUES (?, ?, ?)",
			titleID, ref.personID, string(ref.role),
		); err != nil {
			return fmt.Errorf("insert role %s: %w", ref.role, err)
		}
	}

	if err := insertJunction(ctx, tx, rec.Genres, resolveGenreQuery,
		"INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)", titleID); err != nil {
		return err
	}
	if err := insertJunction(ctx, tx, rec.Countries, resolveCountryQuery,
		"INSERT INTO title_countries (title_id, country_id) VALUES (?, ?)", titleID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

// UpdateRating sets the user rating of an existing title. It reports false
// when no row matched; an update touching more than one row means the
// identifier uniqueness invariant is broken and surfaces as ErrIntegrity.
func (s *Store) UpdateRating(ctx context.Context, imdbID string, rating int) (bool, error) {
	if !title.ValidIMDbID(imdbID) {
		return false, fmt.Errorf("%w: invalid IMDb ID format %q, expected 'tt' followed by 7-9 digits", ErrValidation, imdbID)
	}
	if err := validateRating(rating); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE titles SET my_rating = ? WHERE imdb_id = ?", rating, imdbID)
	if err != nil {
		return false, fmt.Errorf("update rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 1 {
		return false, fmt.Errorf("%w: rating update matched %d rows for %s", ErrIntegrity, affected, imdbID)
	}
	return affected == 1, nil
}

type roleRef struct {
	personID int64
	role     Role
}

// Shared-entity get-or-create. The conflict clause makes the lookup-or-insert
// atomic within the surrounding transaction, so equal names can never produce
// duplicate rows. Names differing only by case stay distinct.
const (
	resolveTypeQuery    = "INSERT INTO types (name) VALUES (?) ON CONFLICT (name) DO UPDATE SET name = name RETURNING type_id"
	resolvePersonQuery  = "INSERT INTO people (name) VALUES (?) ON CONFLICT (name) DO UPDATE SET name = name RETURNING person_id"
	resolveGenreQuery   = "INSERT INTO genres (name) VALUES (?) ON CONFLICT (name) DO UPDATE SET name = name RETURNING genre_id"
	resolveCountryQuery = "INSERT INTO countries (name) VALUES (?) ON CONFLICT (name) DO UPDATE SET name = name RETURNING country_id"
)

func resolveEntityID(ctx context.Context, tx *sql.Tx, query, name string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func insertJunction(ctx context.Context, tx *sql.Tx, names []string, resolveQuery, insertQuery string, titleID int64) error {
	seen := make(map[int64]struct{}, len(names))
	for _, name := range names {
		id, err := resolveEntityID(ctx, tx, resolveQuery, name)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", name, err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, err := tx.ExecContext(ctx, insertQuery, titleID, id); err != nil {
			return fmt.Errorf("link %q: %w", name, err)
		}
	}
	return nil
}

func validateRecord(rec *title.Record) (float64, error) {
	if rec == nil {
		return 0, fmt.Errorf("%w: record is nil", ErrValidation)
	}
	var problems []string
	if strings.TrimSpace(rec.Title) == "" {
		problems = append(problems, "empty title")
	}
	if strings.TrimSpace(rec.Year) == "" {
		problems = append(problems, "empty year")
	}
	if !title.ValidIMDbID(rec.IMDbID) {
		problems = append(problems, fmt.Sprintf("invalid IMDb ID %q", rec.IMDbID))
	}
	imdbRating, err := strconv.ParseFloat(strings.TrimSpace(rec.IMDbRating), 64)
	if err != nil {
		problems = append(problems, fmt.Sprintf("non-numeric IMDb rating %q", rec.IMDbRating))
	}
	if len(problems) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return imdbRating, nil
}

func validateRating(rating int) error {
	if rating < 0 || rating > 10 {
		return fmt.Errorf("%w: rating %d out of range [0,10]", ErrValidation, rating)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableRating(rating *int) any {
	if rating == nil {
		return nil
	}
	return *rating
}
