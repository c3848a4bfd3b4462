package catalog_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"moviedb/internal/catalog"
	"moviedb/internal/testsupport"
	"moviedb/internal/title"
)

func darkKnightRecord() *title.Record {
	return &title.Record{
		Title:      "The Dark Knight",
		Year:       "2008",
		Directors:  []string{"Christopher Nolan"},
		Writers:    []string{"Jonathan Nolan", "Christopher Nolan"},
		Actors:     []string{"Christian Bale", "Heath Ledger"},
		Genres:     []string{"Action", "Crime", "Drama"},
		Countries:  []string{"USA", "UK"},
		IMDbID:     "tt0468569",
		IMDbRating: "9",
		Type:       "movie",
	}
}

func breakingBadRecord() *title.Record {
	return &title.Record{
		Title:      "Breaking Bad",
		Year:       "2008–2013",
		Directors:  []string{},
		Writers:    []string{"Vince Gilligan"},
		Actors:     []string{"Bryan Cranston", "Aaron Paul"},
		Genres:     []string{"Crime", "Drama", "Thriller"},
		Countries:  []string{"USA"},
		IMDbID:     "tt0903747",
		IMDbRating: "9.5",
		Type:       "series",
	}
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := testsupport.InceptionRecord()
	testsupport.MustCreate(t, store, rec, testsupport.IntPtr(10))

	got, err := store.GetByIMDbID(ctx, "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if got.Title != rec.Title || got.Year != rec.Year || got.Type != rec.Type {
		t.Fatalf("unexpected scalar fields: %+v", got)
	}
	if got.Runtime != rec.Runtime || got.Poster != rec.Poster || got.Plot != rec.Plot || got.Awards != rec.Awards {
		t.Fatalf("unexpected optional fields: %+v", got)
	}
	if got.IMDbRating != "8.8" {
		t.Fatalf("unexpected imdb rating: %q", got.IMDbRating)
	}
	if !sameStrings(got.Directors, rec.Directors) {
		t.Fatalf("directors = %v, want %v", got.Directors, rec.Directors)
	}
	if !sameStrings(got.Writers, rec.Writers) {
		t.Fatalf("writers = %v, want %v", got.Writers, rec.Writers)
	}
	if !sameStrings(got.Actors, rec.Actors) {
		t.Fatalf("actors = %v, want %v", got.Actors, rec.Actors)
	}
	if !sameStrings(got.Genres, rec.Genres) {
		t.Fatalf("genres = %v, want %v", got.Genres, rec.Genres)
	}
	if !sameStrings(got.Countries, rec.Countries) {
		t.Fatalf("countries = %v, want %v", got.Countries, rec.Countries)
	}
	if !got.Rated || got.MyRating != 10 {
		t.Fatalf("expected rating 10, got rated=%v rating=%d", got.Rated, got.MyRating)
	}
}

func TestGetByIMDbIDValidatesFormat(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	for _, id := range []string{"", "1375666", "tt123", "TT1375666", "tt12345678901"} {
		_, err := store.GetByIMDbID(context.Background(), id)
		if !errors.Is(err, catalog.ErrValidation) {
			t.Errorf("GetByIMDbID(%q): expected ErrValidation, got %v", id, err)
		}
	}
}

func TestGetByIMDbIDNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, err := store.GetByIMDbID(context.Background(), "tt9999999")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))

	before, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	err = store.CreateTitle(ctx, testsupport.InceptionRecord(), testsupport.IntPtr(10))
	if !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	after, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	for table, count := range before {
		if after[table] != count {
			t.Errorf("%s count changed after rejected duplicate: %d -> %d", table, count, after[table])
		}
	}
	if after["titles"] != 1 {
		t.Fatalf("expected exactly one title row, got %d", after["titles"])
	}
}

func TestCreateValidatesRecordAndRating(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	bad := testsupport.InceptionRecord()
	bad.Title = ""
	bad.IMDbRating = "N/A"
	if err := store.CreateTitle(ctx, bad, testsupport.IntPtr(5)); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad record, got %v", err)
	}

	if err := store.CreateTitle(ctx, testsupport.InceptionRecord(), testsupport.IntPtr(11)); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for out-of-range rating, got %v", err)
	}

	// Neither attempt may leave partial state behind.
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	for table, count := range stats {
		if count != 0 {
			t.Errorf("expected empty %s after rejected creates, found %d rows", table, count)
		}
	}
}

func TestSharedEntitiesAreDeduplicated(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))
	testsupport.MustCreate(t, store, darkKnightRecord(), nil)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	// Christopher Nolan appears on both titles as director and writer but
	// gets exactly one people row. Inception: Nolan + 3 actors. Dark Knight
	// adds Jonathan Nolan + 2 actors.
	if stats["people"] != 7 {
		t.Fatalf("expected 7 people rows, got %d", stats["people"])
	}
	// Action is shared; Adventure, Sci-Fi, Crime, Drama are not.
	if stats["genres"] != 5 {
		t.Fatalf("expected 5 genre rows, got %d", stats["genres"])
	}
	if stats["countries"] != 2 {
		t.Fatalf("expected 2 country rows, got %d", stats["countries"])
	}

	// Both reads still resolve the shared director.
	for _, id := range []string{"tt1375666", "tt0468569"} {
		rec, err := store.GetByIMDbID(ctx, id)
		if err != nil {
			t.Fatalf("GetByIMDbID(%s) failed: %v", id, err)
		}
		found := false
		for _, director := range rec.Directors {
			if director == "Christopher Nolan" {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected Christopher Nolan among directors, got %v", id, rec.Directors)
		}
	}
}

func TestSamePersonHoldsMultipleRoles(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	// Nolan is both director and writer of Inception: one person row, two
	// role rows.
	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["people"] != 4 {
		t.Fatalf("expected 4 people rows, got %d", stats["people"])
	}
	if stats["title_roles"] != 5 {
		t.Fatalf("expected 5 role rows (3 actors + director + writer), got %d", stats["title_roles"])
	}

	rec, err := store.GetByIMDbID(ctx, "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if !sameStrings(rec.Directors, []string{"Christopher Nolan"}) || !sameStrings(rec.Writers, []string{"Christopher Nolan"}) {
		t.Fatalf("expected Nolan as director and writer, got %v / %v", rec.Directors, rec.Writers)
	}
}

func TestSeriesWritingCreditReadsBack(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, breakingBadRecord(), nil)

	rec, err := store.GetByIMDbID(ctx, "tt0903747")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if rec.Type != "series" {
		t.Fatalf("unexpected type: %s", rec.Type)
	}
	if !sameStrings(rec.Writers, []string{"Vince Gilligan"}) {
		t.Fatalf("expected creator credit to read back as writer list, got %v", rec.Writers)
	}
	if len(rec.Directors) != 0 {
		t.Fatalf("expected empty directors, got %v", rec.Directors)
	}
}

func TestTitleWithoutGenresStaysReadable(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := testsupport.InceptionRecord()
	rec.Genres = []string{}
	rec.Countries = []string{}
	testsupport.MustCreate(t, store, rec, nil)

	got, err := store.GetByIMDbID(ctx, rec.IMDbID)
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if len(got.Genres) != 0 || len(got.Countries) != 0 {
		t.Fatalf("expected empty genres/countries, got %v / %v", got.Genres, got.Countries)
	}
	if !sameStrings(got.Actors, rec.Actors) {
		t.Fatalf("actors lost: %v", got.Actors)
	}
}

func TestUpdateRating(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(5))

	if _, err := store.UpdateRating(ctx, "tt1375666", 11); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for rating 11, got %v", err)
	}
	if _, err := store.UpdateRating(ctx, "bogus", 5); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed id, got %v", err)
	}

	rec, err := store.GetByIMDbID(ctx, "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if rec.MyRating != 5 {
		t.Fatalf("rejected update must not alter rating, got %d", rec.MyRating)
	}

	ok, err := store.UpdateRating(ctx, "tt1375666", 8)
	if err != nil || !ok {
		t.Fatalf("UpdateRating failed: ok=%v err=%v", ok, err)
	}
	rec, err = store.GetByIMDbID(ctx, "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if rec.MyRating != 8 {
		t.Fatalf("expected updated rating 8, got %d", rec.MyRating)
	}

	ok, err = store.UpdateRating(ctx, "tt9999999", 8)
	if err != nil {
		t.Fatalf("UpdateRating on absent id errored: %v", err)
	}
	if ok {
		t.Fatal("expected false for zero matched rows")
	}
}

func TestGetByNameIsCaseInsensitive(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))

	rec, err := store.GetByName(ctx, "inception")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if rec.IMDbID != "tt1375666" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := store.GetByName(ctx, "No Such Title"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchByName(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))
	testsupport.MustCreate(t, store, darkKnightRecord(), nil)

	matches, err := store.SearchByName(ctx, "cEpT")
	if err != nil {
		t.Fatalf("SearchByName failed: %v", err)
	}
	if len(matches) != 1 || matches[0].IMDbID != "tt1375666" {
		t.Fatalf("unexpected matches: %v", matches)
	}

	none, err := store.SearchByName(ctx, "zzzzz")
	if err != nil {
		t.Fatalf("SearchByName on no match errored: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %v", none)
	}
}

func TestListAllPreservesInsertionOrder(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, darkKnightRecord(), nil)
	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].IMDbID != "tt0468569" || all[1].IMDbID != "tt1375666" {
		t.Fatalf("unexpected order: %s, %s", all[0].IMDbID, all[1].IMDbID)
	}
}

func TestTitlesByMinimumRating(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))
	testsupport.MustCreate(t, store, darkKnightRecord(), testsupport.IntPtr(7))
	testsupport.MustCreate(t, store, breakingBadRecord(), nil) // never rated

	if _, err := store.TitlesByMinimumRating(ctx, 11); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for threshold 11, got %v", err)
	}

	high, err := store.TitlesByMinimumRating(ctx, 8)
	if err != nil {
		t.Fatalf("TitlesByMinimumRating failed: %v", err)
	}
	if len(high) != 1 || high[0].IMDbID != "tt1375666" {
		t.Fatalf("unexpected high matches: %v", high)
	}

	// Threshold zero includes every rated title but never the unrated one:
	// NULL is "not yet rated", not zero.
	rated, err := store.TitlesByMinimumRating(ctx, 0)
	if err != nil {
		t.Fatalf("TitlesByMinimumRating failed: %v", err)
	}
	if len(rated) != 2 {
		t.Fatalf("expected 2 rated titles, got %d", len(rated))
	}
	for _, rec := range rated {
		if rec.IMDbID == "tt0903747" {
			t.Fatal("unrated title leaked into rated listing")
		}
	}
}

func TestUnratedRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), nil)

	rec, err := store.GetByIMDbID(ctx, "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if rec.Rated {
		t.Fatalf("expected unrated record, got rating %d", rec.MyRating)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := store.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestCheckHealth(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustCreate(t, store, testsupport.InceptionRecord(), testsupport.IntPtr(10))

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("unexpected health: %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables: %v", health.MissingTables)
	}
	if health.TitleCount != 1 {
		t.Fatalf("expected 1 title, got %d", health.TitleCount)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening the same database with a matching version must succeed.
	reopened, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := reopened.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
