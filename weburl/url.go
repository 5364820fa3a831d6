package weburl

import "encoding/json"

// URL is a parsed URL. Getters slice the canonical serialization; setters
// reparse the whole URL and leave it untouched when the new value is
// rejected.
//
// A URL is not safe for concurrent mutation.
type URL struct {
	c      Canonical
	params *SearchParams
}

// Parse parses an absolute URL.
func Parse(input string) (*URL, error) {
	c, err := parseCanonical(input, "", false)
	if err != nil {
		return nil, err
	}
	return &URL{c: c}, nil
}

// ParseWithBase parses input relative to base.
func ParseWithBase(input, base string) (*URL, error) {
	c, err := parseCanonical(input, base, true)
	if err != nil {
		return nil, err
	}
	return &URL{c: c}, nil
}

// MustParse is like Parse but panics if the input cannot be parsed.
func MustParse(input string) *URL {
	u, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return u
}

// CanParse reports whether input, optionally resolved against base, is a
// valid URL.
func CanParse(input string, base ...string) bool {
	var err error
	if len(base) > 0 {
		_, err = parseCanonical(input, base[0], true)
	} else {
		_, err = parseCanonical(input, "", false)
	}
	return err == nil
}

// FromCanonical wraps a Canonical value, such as one returned by Reparse,
// in a URL.
func FromCanonical(c Canonical) *URL {
	return &URL{c: c}
}

// Canonical returns the serialization and component offsets.
func (u *URL) Canonical() Canonical { return u.c }

func (u *URL) Href() string     { return u.c.serialization }
func (u *URL) String() string   { return u.c.serialization }
func (u *URL) Protocol() string { return u.c.protocol() }
func (u *URL) Username() string { return u.c.username() }
func (u *URL) Password() string { return u.c.password() }
func (u *URL) Host() string     { return u.c.host() }
func (u *URL) Hostname() string { return u.c.hostname() }
func (u *URL) Port() string     { return u.c.portString() }
func (u *URL) Pathname() string { return u.c.pathname() }
func (u *URL) Search() string   { return u.c.search() }
func (u *URL) Hash() string     { return u.c.hash() }

// HasOpaquePath reports whether the path is a single opaque string, as in
// "mailto:user@example.com", rather than a list of segments.
func (u *URL) HasOpaquePath() bool { return u.c.opaquePath() }

// Origin returns the ASCII serialization of the URL's origin. Blob URLs
// take the origin of the URL they wrap; other schemes without a tuple
// origin return "null".
func (u *URL) Origin() string {
	switch u.c.scheme() {
	case "http", "https", "ftp", "ws", "wss":
		return u.c.protocol() + "//" + u.c.host()
	case "blob":
		inner, err := Parse(u.c.pathname())
		if err != nil {
			return "null"
		}
		if s := inner.c.scheme(); s == "http" || s == "https" {
			return inner.Origin()
		}
	}
	return "null"
}

// SetHref replaces the whole URL. Unlike the component setters it reports
// parse failures.
func (u *URL) SetHref(href string) error {
	c, err := parseCanonical(href, "", false)
	if err != nil {
		return err
	}
	u.c = c
	if u.params != nil {
		u.params.reset(u.c.search())
	}
	return nil
}

func (u *URL) SetProtocol(v string) { u.set(SetProtocol, v) }
func (u *URL) SetUsername(v string) { u.set(SetUsername, v) }
func (u *URL) SetPassword(v string) { u.set(SetPassword, v) }
func (u *URL) SetHost(v string)     { u.set(SetHost, v) }
func (u *URL) SetHostname(v string) { u.set(SetHostname, v) }
func (u *URL) SetPort(v string)     { u.set(SetPort, v) }
func (u *URL) SetPathname(v string) { u.set(SetPathname, v) }
func (u *URL) SetSearch(v string)   { u.set(SetSearch, v) }
func (u *URL) SetHash(v string)     { u.set(SetHash, v) }

// set applies a component setter. Rejected values leave the URL as it was.
func (u *URL) set(kind Setter, value string) {
	c, err := Reparse(u.c, kind, value)
	if err != nil {
		return
	}
	u.c = c
	if kind == SetSearch && u.params != nil {
		u.params.reset(u.c.search())
	}
}

// SearchParams returns the query view bound to this URL. The same value is
// returned on every call; mutating it rewrites the URL's query.
func (u *URL) SearchParams() *SearchParams {
	if u.params == nil {
		u.params = &SearchParams{url: u}
		u.params.reset(u.c.search())
	}
	return u.params
}

// updateSearch writes a serialized query back into the URL without
// rebuilding the bound SearchParams.
func (u *URL) updateSearch(query string) {
	if c, err := Reparse(u.c, SetSearch, query); err == nil {
		u.c = c
	}
}

func (u *URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.c.serialization)
}

func (u *URL) MarshalText() ([]byte, error) {
	return []byte(u.c.serialization), nil
}

func (u *URL) UnmarshalText(text []byte) error {
	c, err := parseCanonical(string(text), "", false)
	if err != nil {
		return err
	}
	u.c = c
	if u.params != nil {
		u.params.reset(u.c.search())
	}
	return nil
}
