// Package query builds and parses URL query strings from flat key/value
// mappings, with strict percent-encoding that fails instead of panicking.
//
// Basic Usage:
//
//	qs, err := query.QueryString(map[string]string{"q": "go lang", "page": "2"})
//	// qs == "?page=2&q=go%20lang"
//
//	pairs, err := query.Parse(qs)
//	// pairs["q"] == "go lang"
package query
