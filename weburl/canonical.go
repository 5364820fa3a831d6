package weburl

import (
	"strconv"
	"strings"
)

// NoPort is the Canonical.Port value of a URL without an explicit port.
// Real ports never exceed 65535.
const NoPort = 1 << 16

// Canonical is a URL serialization together with the boundaries of its
// components. It is immutable: the parser builds a fresh value on every
// call and setters replace it wholesale.
//
// The boundaries satisfy
//
//	0 <= SchemeEnd <= UsernameEnd <= HostStart <= HostEnd <= PathStart
//	  <= query start (or len) <= fragment start (or len) <= len
type Canonical struct {
	serialization string

	schemeEnd   int
	usernameEnd int
	hostStart   int
	hostEnd     int
	port        int
	pathStart   int

	queryStart    int
	hasQuery      bool
	fragmentStart int
	hasFragment   bool
}

// String returns the serialization.
func (c Canonical) String() string { return c.serialization }

// SchemeEnd is the index of the ':' that terminates the scheme.
func (c Canonical) SchemeEnd() int { return c.schemeEnd }

// UsernameEnd is the index just past the username.
func (c Canonical) UsernameEnd() int { return c.usernameEnd }

// HostStart is the index of the first byte of the host.
func (c Canonical) HostStart() int { return c.hostStart }

// HostEnd is the index just past the host.
func (c Canonical) HostEnd() int { return c.hostEnd }

// Port is the explicit port number or NoPort.
func (c Canonical) Port() int { return c.port }

// PathStart is the index of the first byte of the path.
func (c Canonical) PathStart() int { return c.pathStart }

// QueryStart is the index of the '?' that opens the query, if any.
func (c Canonical) QueryStart() (int, bool) { return c.queryStart, c.hasQuery }

// FragmentStart is the index of the '#' that opens the fragment, if any.
func (c Canonical) FragmentStart() (int, bool) { return c.fragmentStart, c.hasFragment }

func (c Canonical) scheme() string {
	return c.serialization[:c.schemeEnd]
}

func (c Canonical) hasAuthority() bool {
	return strings.HasPrefix(c.serialization[c.schemeEnd:], "://")
}

func (c Canonical) protocol() string {
	return c.serialization[:c.schemeEnd+1]
}

func (c Canonical) username() string {
	if c.hasAuthority() && c.usernameEnd > c.schemeEnd+len("://") {
		return c.serialization[c.schemeEnd+len("://") : c.usernameEnd]
	}
	return ""
}

func (c Canonical) password() string {
	if c.hasAuthority() && c.usernameEnd < len(c.serialization) && c.serialization[c.usernameEnd] == ':' {
		return c.serialization[c.usernameEnd+1 : c.hostStart-1]
	}
	return ""
}

func (c Canonical) host() string {
	return c.serialization[c.hostStart:c.pathStart]
}

func (c Canonical) hostname() string {
	return c.serialization[c.hostStart:c.hostEnd]
}

func (c Canonical) portString() string {
	if c.port == NoPort {
		return ""
	}
	return c.serialization[c.hostEnd+1 : c.pathStart]
}

func (c Canonical) pathname() string {
	end := len(c.serialization)
	switch {
	case c.hasQuery:
		end = c.queryStart
	case c.hasFragment:
		end = c.fragmentStart
	}
	return c.serialization[c.pathStart:end]
}

func (c Canonical) search() string {
	if !c.hasQuery {
		return ""
	}
	end := len(c.serialization)
	if c.hasFragment {
		end = c.fragmentStart
	}
	return trimLone(c.serialization[c.queryStart:end])
}

func (c Canonical) hash() string {
	if !c.hasFragment {
		return ""
	}
	return trimLone(c.serialization[c.fragmentStart:])
}

// trimLone drops a bare "?" or "#" delimiter.
func trimLone(s string) string {
	if len(s) == 1 {
		return ""
	}
	return s
}

// opaquePath reports whether the URL has no authority and a path that does
// not start with '/', such as "mailto:user@example.com".
func (c Canonical) opaquePath() bool {
	return !c.hasAuthority() && !strings.HasPrefix(c.serialization[c.pathStart:], "/")
}

// serialize renders a parsed record into its canonical string and offsets.
func (u *record) serialize() Canonical {
	var (
		b strings.Builder
		c Canonical
	)

	b.WriteString(u.scheme)
	c.schemeEnd = b.Len()
	b.WriteByte(':')

	c.port = NoPort
	if u.hasHost {
		b.WriteString("//")
		if u.username != "" || u.password != "" {
			b.WriteString(u.username)
			c.usernameEnd = b.Len()
			if u.password != "" {
				b.WriteByte(':')
				b.WriteString(u.password)
			}
			b.WriteByte('@')
		} else {
			c.usernameEnd = b.Len()
		}
		c.hostStart = b.Len()
		b.WriteString(u.host)
		c.hostEnd = b.Len()
		if u.port != NoPort {
			c.port = u.port
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(u.port))
		}
	} else {
		if !u.hasOpaquePath && len(u.path) > 1 && u.path[0] == "" {
			// Keep "scheme://" from being read back as an authority.
			b.WriteString("/.")
		}
		c.usernameEnd = b.Len()
		c.hostStart = b.Len()
		c.hostEnd = b.Len()
	}

	c.pathStart = b.Len()
	if u.hasOpaquePath {
		b.WriteString(u.opaquePath)
	} else {
		for _, segment := range u.path {
			b.WriteByte('/')
			b.WriteString(segment)
		}
	}

	if u.hasQuery {
		c.queryStart = b.Len()
		c.hasQuery = true
		b.WriteByte('?')
		b.WriteString(u.query)
	}

	if u.hasFragment {
		c.fragmentStart = b.Len()
		c.hasFragment = true
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}

	c.serialization = b.String()
	return c
}
