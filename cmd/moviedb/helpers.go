package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"moviedb/internal/catalog"
	"moviedb/internal/title"
)

// printRecord writes a full denormalized record in a labelled block.
func printRecord(w io.Writer, rec *title.Record) {
	fmt.Fprintf(w, "%s (%s)\n", rec.Title, rec.Year)
	writeField(w, "Type", rec.Type)
	writeField(w, "IMDb ID", rec.IMDbID)
	writeField(w, "IMDb rating", rec.IMDbRating)
	if rec.Rated {
		writeField(w, "My rating", fmt.Sprintf("%d/10", rec.MyRating))
	} else {
		writeField(w, "My rating", "not rated")
	}
	writeField(w, "Runtime", rec.Runtime)
	writeField(w, "Director", strings.Join(rec.Directors, ", "))
	writeField(w, "Writer", strings.Join(rec.Writers, ", "))
	writeField(w, "Actors", strings.Join(rec.Actors, ", "))
	writeField(w, "Genre", strings.Join(rec.Genres, ", "))
	writeField(w, "Country", strings.Join(rec.Countries, ", "))
	writeField(w, "Awards", rec.Awards)
	writeField(w, "Plot", rec.Plot)
}

func writeField(w io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// resolveRecord treats the argument as an IMDb identifier when it looks like
// one and as a title name otherwise.
func resolveRecord(ctx context.Context, store *catalog.Store, arg string) (*title.Record, error) {
	if title.ValidIMDbID(arg) {
		return store.GetByIMDbID(ctx, arg)
	}
	return store.GetByName(ctx, arg)
}
