// Package urlpattern matches URLs against patterns made of one pattern per
// URL component.
//
//	p, err := urlpattern.Parse("https://*.example.com/users/:id", "")
//	if err != nil {
//		return err
//	}
//	r := p.Exec("https://api.example.com/users/42", "")
//	r.Pathname.Groups["id"] // "42"
//
// # Syntax
//
// Each component pattern is literal text mixed with groups:
//
//	:name      named group, matches up to the next delimiter
//	*          wildcard, matches anything
//	(regexp)   custom group, a non-capturing RE2 expression
//	{...}      grouping, gives a group a prefix and suffix
//	? * +      modifiers on the preceding group
//	\x         escaped literal
//
// Hostname groups stop at '.', and pathname groups of special-scheme
// patterns stop at '/'. A '/' directly before a pathname group becomes its
// prefix, so "/books/:id?" also matches "/books".
//
// Literal text is canonicalized the way the URL parser canonicalizes that
// component, and the getters return the normalized pattern string.
//
// # Constructing
//
// New takes an Init with each component set or left nil. Nil components
// match anything unless an Init.BaseURL supplies them. Parse splits a
// string such as "https://example.com/:id?*" into the same components;
// relative strings need a base URL.
//
// # Matching
//
// Exec and Test parse their input with weburl, so relative inputs are
// resolved against the given base and malformed inputs never match.
// ExecInit and TestInit canonicalize the components of an Init instead.
package urlpattern
