package urlpattern

import (
	"strings"

	"github.com/vitalvas/urlkit/weburl"
)

var specialSchemes = []string{"ftp", "file", "http", "https", "ws", "wss"}

var defaultPorts = map[string]string{
	"ftp":   "21",
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

func isSpecialScheme(s string) bool {
	for _, scheme := range specialSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

var (
	opaqueDummy  = weburl.MustParse("fake://dummy.test").Canonical()
	specialDummy = weburl.MustParse("http://dummy.test").Canonical()
)

// The canonicalizers below normalize literal pattern text and match input
// the same way the URL parser would normalize that component.

func canonicalizeProtocol(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	u, err := weburl.Parse(value + "://dummy.test")
	if err != nil {
		return "", patternFailure("invalid protocol %q", value)
	}
	return strings.TrimSuffix(u.Protocol(), ":"), nil
}

func canonicalizeUsername(value string) (string, error) {
	return weburl.PercentEncode(value, weburl.UserinfoSet), nil
}

func canonicalizePassword(value string) (string, error) {
	return weburl.PercentEncode(value, weburl.UserinfoSet), nil
}

func canonicalizeHostname(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	c, err := weburl.Reparse(specialDummy, weburl.SetHostname, value)
	if err != nil {
		return "", patternFailure("invalid hostname %q", value)
	}
	return weburl.FromCanonical(c).Hostname(), nil
}

func canonicalizeIPv6Hostname(value string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '[' || c == ']' || c == ':':
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f':
		case 'A' <= c && c <= 'F':
			c += 'a' - 'A'
		default:
			return "", patternFailure("invalid IPv6 hostname %q", value)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

func canonicalizePort(value, protocol string) (string, error) {
	if value == "" {
		return "", nil
	}
	dummy := opaqueDummy
	if protocol != "" {
		u, err := weburl.Parse(protocol + "://dummy.test")
		if err != nil {
			return "", patternFailure("invalid protocol %q", protocol)
		}
		dummy = u.Canonical()
	}
	c, err := weburl.Reparse(dummy, weburl.SetPort, value)
	if err != nil {
		return "", patternFailure("invalid port %q", value)
	}
	return weburl.FromCanonical(c).Port(), nil
}

func canonicalizePathname(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	leadingSlash := value[0] == '/'
	modified := value
	if !leadingSlash {
		modified = "/-" + value
	}
	c, err := weburl.Reparse(opaqueDummy, weburl.SetPathname, modified)
	if err != nil {
		return "", patternFailure("invalid pathname %q", value)
	}
	pathname := weburl.FromCanonical(c).Pathname()
	if !leadingSlash {
		if len(pathname) < 2 {
			return "", nil
		}
		pathname = pathname[2:]
	}
	return pathname, nil
}

func canonicalizeOpaquePathname(value string) (string, error) {
	return weburl.PercentEncode(value, weburl.C0ControlSet), nil
}

func canonicalizeSearch(value string) (string, error) {
	return weburl.PercentEncode(value, weburl.QuerySet), nil
}

func canonicalizeHash(value string) (string, error) {
	return weburl.PercentEncode(value, weburl.FragmentSet), nil
}

// hostnamePatternIsIPv6 reports whether a hostname pattern starts with an
// IPv6 literal bracket, possibly escaped or grouped.
func hostnamePatternIsIPv6(pattern string) bool {
	if len(pattern) < 2 {
		return false
	}
	return pattern[0] == '[' ||
		(pattern[0] == '{' && pattern[1] == '[') ||
		(pattern[0] == '\\' && pattern[1] == '[')
}
