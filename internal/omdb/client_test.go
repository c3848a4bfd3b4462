package omdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviedb/internal/omdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := omdb.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestByIMDbIDSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "key" {
			t.Fatalf("expected apikey query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("i") != "tt1375666" {
			t.Fatalf("expected i parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Title": "Inception",
			"Year": "2010",
			"imdbID": "tt1375666",
			"Ratings": [{"Source": "Internet Movie Database", "Value": "8.8/10"}],
			"Response": "True"
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	data, err := client.ByIMDbID(context.Background(), "tt1375666")
	if err != nil {
		t.Fatalf("ByIMDbID returned error: %v", err)
	}
	if data["Title"] != "Inception" || data["Year"] != "2010" {
		t.Fatalf("unexpected payload: %#v", data)
	}
	if _, present := data["Ratings"]; present {
		t.Fatal("expected non-string Ratings field to be dropped")
	}
}

func TestByTitleNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.ByTitle(context.Background(), "No Such Movie")
	if !errors.Is(err, omdb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestByIMDbIDIncorrectID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.ByIMDbID(context.Background(), "tt0")
	if !errors.Is(err, omdb.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestInvalidAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("badkey", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.ByTitle(context.Background(), "Inception")
	if !errors.Is(err, omdb.ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
}

func TestSearchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") != "incep" {
			t.Fatalf("expected s parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Search": [
				{"Title":"Inception","Year":"2010","imdbID":"tt1375666","Type":"movie","Poster":"N/A"}
			],
			"totalResults": "1",
			"Response": "True"
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.Search(context.Background(), "incep")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if resp.TotalResults != 1 || len(resp.Results) != 1 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.Results[0].IMDbID != "tt1375666" {
		t.Fatalf("unexpected result row: %#v", resp.Results[0])
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, err := omdb.New("key", "https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Search(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestTransportErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.ByIMDbID(context.Background(), "tt1375666")
	if err == nil {
		t.Fatal("expected error for server failure")
	}
	if errors.Is(err, omdb.ErrNotFound) {
		t.Fatalf("transport failure must not classify as not-found: %v", err)
	}
}
