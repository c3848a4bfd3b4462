// Package title defines the denormalized in-memory representation of one
// catalog entry and the shaping logic that builds it from the loosely-typed
// key/value payload returned by the remote lookup service.
package title

import (
	"fmt"
	"regexp"
	"strings"
)

// imdbIDPattern is the fixed lexical format of an IMDb identifier.
var imdbIDPattern = regexp.MustCompile(`^tt\d{7,9}$`)

// ValidIMDbID reports whether id matches the "tt" + 7-9 digits format.
func ValidIMDbID(id string) bool {
	return imdbIDPattern.MatchString(id)
}

// Record is a denormalized catalog entry as exchanged with the lookup
// client, the persistence layer, and the exporter.
type Record struct {
	Title      string   `json:"Title" yaml:"title"`
	Year       string   `json:"Year" yaml:"year"`
	Directors  []string `json:"Director" yaml:"directors"`
	Writers    []string `json:"Writer" yaml:"writers"`
	Actors     []string `json:"Actors" yaml:"actors"`
	Genres     []string `json:"Genre" yaml:"genres"`
	Countries  []string `json:"Country" yaml:"countries"`
	Poster     string   `json:"Poster" yaml:"poster"`
	Runtime    string   `json:"Runtime" yaml:"runtime"`
	Plot       string   `json:"Plot" yaml:"plot"`
	Awards     string   `json:"Awards" yaml:"awards"`
	IMDbID     string   `json:"imdbID" yaml:"imdb_id"`
	IMDbRating string   `json:"imdbRating" yaml:"imdb_rating"`
	Type       string   `json:"Type" yaml:"type"`
	MyRating   int      `json:"MyRating,omitempty" yaml:"my_rating,omitempty"`
	// Rated distinguishes an explicit rating of zero from "not yet rated".
	Rated bool `json:"-" yaml:"-"`
}

// requiredDataKeys are the payload keys that must be present and non-empty
// for a Record to be constructed.
var requiredDataKeys = []string{"Title", "Year", "Director", "imdbID", "imdbRating"}

// FromData builds a Record from a lookup payload. All missing required
// fields are reported in a single error, not just the first one found.
func FromData(data map[string]string) (*Record, error) {
	var missing []string
	for _, key := range requiredDataKeys {
		if strings.TrimSpace(data[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	rec := &Record{
		Title:      data["Title"],
		Year:       data["Year"],
		Directors:  SplitList(data["Director"]),
		Writers:    SplitList(data["Writer"]),
		Actors:     SplitList(data["Actors"]),
		Genres:     SplitList(data["Genre"]),
		Countries:  SplitList(data["Country"]),
		Poster:     data["Poster"],
		Runtime:    data["Runtime"],
		Plot:       data["Plot"],
		Awards:     data["Awards"],
		IMDbID:     data["imdbID"],
		IMDbRating: data["imdbRating"],
		Type:       data["Type"],
	}

	if raw, ok := data["MyRating"]; ok && strings.TrimSpace(raw) != "" {
		var rating int
		if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &rating); err != nil {
			return nil, fmt.Errorf("parse MyRating %q: %w", raw, err)
		}
		rec.MyRating = rating
		rec.Rated = true
	}

	return rec, nil
}

// SplitList splits a multi-valued field on the literal ", " separator used
// by the lookup source. An empty or "N/A" value yields an empty slice, never
// a one-element slice holding the placeholder.
func SplitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return []string{}
	}
	return strings.Split(value, ", ")
}

func (r *Record) String() string {
	return fmt.Sprintf("%q (%s)", r.Title, r.Year)
}
