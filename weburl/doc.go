// Package weburl parses and manipulates URLs the way web browsers do.
//
// A URL is stored as a single canonical serialization plus the offsets of
// its components, so every getter is a slice of that string:
//
//	u, err := weburl.Parse("http://example.com:8080/a/b?x=1#frag")
//	if err != nil {
//		return err
//	}
//	u.Hostname() // "example.com"
//	u.Port()     // "8080"
//	u.Search()   // "?x=1"
//
// # Setters
//
// Component setters never fail. The URL is rebuilt as a string with the new
// value and parsed again from scratch; if that does not produce a valid URL
// the assignment is dropped and the URL keeps its previous value:
//
//	u.SetHash("top")   // http://example.com:8080/a/b?x=1#top
//	u.SetPort("99999") // ignored, port out of range
//
// Reparse exposes the same engine on Canonical values and reports why a
// value was rejected.
//
// # Query Strings
//
// SearchParams is an ordered multimap over the query. The value returned by
// URL.SearchParams is bound to its URL: mutations rewrite the query, and
// SetSearch refreshes the list in place.
//
//	q := u.SearchParams()
//	q.Append("y", "2")
//	u.Search() // "?x=1&y=2"
//
// ParseQuery and StringifyQuery implement the application/x-www-form-urlencoded
// codec on their own.
//
// # Errors
//
// Parse failures are *SyntaxError values carrying the input and base. Use
// errors.Is with ErrMalformedInput or ErrInvalidBaseRelative to classify them.
package weburl
