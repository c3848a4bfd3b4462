// Package omdb provides the OMDb API client used to look up title metadata.
//
// It exposes exact lookups by IMDb identifier or title name and substring
// search. OMDb reports most failures as HTTP 200 with a Response=False body;
// those are mapped to typed errors so callers can tell "not in the remote
// catalog" apart from a bad identifier, a rejected API key, or a transport
// failure. Options allow tests to supply custom HTTP clients without
// modifying production code.
package omdb
