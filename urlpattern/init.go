package urlpattern

import (
	"fmt"
	"strings"

	"github.com/vitalvas/urlkit/weburl"
)

// Init describes a pattern, or an input to match, component by component.
// A nil field is unset and is either inherited from BaseURL or, when
// compiling, defaults to the "*" wildcard.
type Init struct {
	Protocol *string
	Username *string
	Password *string
	Hostname *string
	Port     *string
	Pathname *string
	Search   *string
	Hash     *string
	BaseURL  string
}

// Ptr returns a pointer to s, for filling Init fields.
func Ptr(s string) *string {
	return &s
}

type initType int

const (
	initPattern initType = iota
	initURL
)

// processInit resolves init against its base URL and normalizes each field.
// Pattern fields are kept as pattern syntax; URL fields are canonicalized
// the way the URL parser would.
func processInit(init Init, typ initType) (Init, error) {
	var result Init
	if typ == initURL {
		result = Init{
			Protocol: Ptr(""), Username: Ptr(""), Password: Ptr(""), Hostname: Ptr(""),
			Port: Ptr(""), Pathname: Ptr(""), Search: Ptr(""), Hash: Ptr(""),
		}
	}

	var base *weburl.URL
	if init.BaseURL != "" {
		u, err := weburl.Parse(init.BaseURL)
		if err != nil {
			return Init{}, fmt.Errorf("invalid base URL: %w", err)
		}
		base = u
		inheritBase(&result, init, base, typ)
	}

	if init.Protocol != nil {
		v, err := processProtocol(*init.Protocol, typ)
		if err != nil {
			return Init{}, err
		}
		result.Protocol = &v
	}
	if init.Username != nil {
		v := *init.Username
		if typ == initURL {
			v, _ = canonicalizeUsername(v)
		}
		result.Username = &v
	}
	if init.Password != nil {
		v := *init.Password
		if typ == initURL {
			v, _ = canonicalizePassword(v)
		}
		result.Password = &v
	}
	if init.Hostname != nil {
		v := *init.Hostname
		if typ == initURL {
			var err error
			if v, err = canonicalizeHostname(v); err != nil {
				return Init{}, err
			}
		}
		result.Hostname = &v
	}
	if init.Port != nil {
		v := *init.Port
		if typ == initURL {
			var err error
			if v, err = canonicalizePort(v, deref(result.Protocol)); err != nil {
				return Init{}, err
			}
		}
		result.Port = &v
	}
	if init.Pathname != nil {
		v := *init.Pathname
		if base != nil && !base.HasOpaquePath() && !isAbsolutePathname(v, typ) {
			basePath := processBaseURLString(base.Pathname(), typ)
			if i := strings.LastIndexByte(basePath, '/'); i >= 0 {
				v = basePath[:i+1] + v
			}
		}
		if typ == initURL {
			var err error
			if v, err = processPathname(v, deref(result.Protocol)); err != nil {
				return Init{}, err
			}
		}
		result.Pathname = &v
	}
	if init.Search != nil {
		v := strings.TrimPrefix(*init.Search, "?")
		if typ == initURL {
			v, _ = canonicalizeSearch(v)
		}
		result.Search = &v
	}
	if init.Hash != nil {
		v := strings.TrimPrefix(*init.Hash, "#")
		if typ == initURL {
			v, _ = canonicalizeHash(v)
		}
		result.Hash = &v
	}
	return result, nil
}

// inheritBase copies base URL components into result for every component
// that comes before the first one init sets.
func inheritBase(result *Init, init Init, base *weburl.URL, typ initType) {
	str := func(s string) *string {
		v := processBaseURLString(s, typ)
		return &v
	}

	if init.Protocol != nil {
		return
	}
	result.Protocol = str(strings.TrimSuffix(base.Protocol(), ":"))

	if typ != initPattern && init.Hostname == nil && init.Port == nil && init.Username == nil {
		result.Username = str(base.Username())
		if init.Password == nil {
			result.Password = str(base.Password())
		}
	}

	if init.Hostname != nil {
		return
	}
	result.Hostname = str(base.Hostname())

	if init.Port != nil {
		return
	}
	result.Port = str(base.Port())

	if init.Pathname != nil {
		return
	}
	result.Pathname = str(base.Pathname())

	if init.Search != nil {
		return
	}
	result.Search = str(strings.TrimPrefix(base.Search(), "?"))

	if init.Hash != nil {
		return
	}
	result.Hash = str(strings.TrimPrefix(base.Hash(), "#"))
}

func processProtocol(value string, typ initType) (string, error) {
	value = strings.TrimSuffix(value, ":")
	if typ == initPattern {
		return value, nil
	}
	return canonicalizeProtocol(value)
}

func processPathname(value, protocol string) (string, error) {
	if protocol == "" || isSpecialScheme(protocol) {
		return canonicalizePathname(value)
	}
	return canonicalizeOpaquePathname(value)
}

// isAbsolutePathname reports whether a pathname starts at the root, taking
// escaped and grouped slashes into account for patterns.
func isAbsolutePathname(s string, typ initType) bool {
	if s == "" {
		return false
	}
	if s[0] == '/' {
		return true
	}
	if typ == initURL || len(s) < 2 {
		return false
	}
	return strings.HasPrefix(s, `\/`) || strings.HasPrefix(s, "{/")
}

// processBaseURLString escapes base URL text when it is used as pattern
// syntax.
func processBaseURLString(s string, typ initType) string {
	if typ != initPattern {
		return s
	}
	return escapePatternString(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
