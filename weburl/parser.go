package weburl

import (
	"strconv"
	"strings"
)

// specialSchemes maps each special scheme to its default port.
var specialSchemes = map[string]int{
	"ftp":   21,
	"file":  NoPort,
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
}

func isSpecial(scheme string) bool {
	_, ok := specialSchemes[scheme]
	return ok
}

func defaultPort(scheme string) int {
	if port, ok := specialSchemes[scheme]; ok {
		return port
	}
	return NoPort
}

// record is the structured form of a URL while it is being parsed.
type record struct {
	scheme   string
	username string
	password string

	host    string
	hasHost bool
	port    int

	path          []string
	opaquePath    string
	hasOpaquePath bool

	query       string
	hasQuery    bool
	fragment    string
	hasFragment bool
}

func (u *record) clone() *record {
	c := *u
	c.path = append([]string(nil), u.path...)
	return &c
}

// parseCanonical parses input, resolving it against base when base is not
// empty, and returns the canonical form.
func parseCanonical(input, base string, hasBase bool) (Canonical, error) {
	var baseRecord *record
	if hasBase {
		var err error
		baseRecord, err = parse(base, nil)
		if err != nil {
			return Canonical{}, &SyntaxError{Input: input, Base: base, Err: ErrInvalidBaseRelative}
		}
	}

	u, err := parse(input, baseRecord)
	if err != nil {
		return Canonical{}, &SyntaxError{Input: input, Base: base, Err: err}
	}
	return u.serialize(), nil
}

// parse runs the basic URL parser. A nil base means input must be absolute.
func parse(input string, base *record) (*record, error) {
	input = removeTabAndNewline(trimControlAndSpace(input))

	scheme, rest, ok := splitScheme(input)
	if !ok {
		if base == nil {
			return nil, ErrInvalidBaseRelative
		}
		return parseRelative(input, base)
	}

	u := &record{scheme: scheme, port: NoPort}
	special := isSpecial(scheme)

	switch {
	case scheme == "file":
		return parseFile(u, rest, base)
	case special:
		if base != nil && base.scheme == scheme && !strings.HasPrefix(rest, "//") {
			return parseRelative(rest, base)
		}
		return parseAuthority(u, strings.TrimLeft(rest, `/\`))
	case strings.HasPrefix(rest, "//"):
		return parseAuthority(u, rest[2:])
	case strings.HasPrefix(rest, "/"):
		return parsePathQueryFragment(u, rest, nil)
	default:
		return parseOpaquePath(u, rest)
	}
}

func parseRelative(input string, base *record) (*record, error) {
	if base.hasOpaquePath {
		if !strings.HasPrefix(input, "#") {
			return nil, ErrInvalidBaseRelative
		}
		u := base.clone()
		u.fragment = PercentEncode(input[1:], FragmentSet)
		u.hasFragment = true
		return u, nil
	}

	special := isSpecial(base.scheme)
	u := &record{scheme: base.scheme, port: NoPort}

	if startsWithTwoSlashes(input, special) {
		switch {
		case base.scheme == "file":
			return parseFileAuthority(u, input[2:])
		case special:
			return parseAuthority(u, strings.TrimLeft(input, `/\`))
		}
		return parseAuthority(u, input[2:])
	}

	u.username = base.username
	u.password = base.password
	u.host = base.host
	u.hasHost = base.hasHost
	u.port = base.port

	switch {
	case startsWithSlash(input, special):
		return parsePathQueryFragment(u, input, nil)
	case input == "":
		u.path = append([]string(nil), base.path...)
		u.query, u.hasQuery = base.query, base.hasQuery
		return u, nil
	case input[0] == '?':
		u.path = append([]string(nil), base.path...)
		return parseQueryFragment(u, input)
	case input[0] == '#':
		u.path = append([]string(nil), base.path...)
		u.query, u.hasQuery = base.query, base.hasQuery
		return parseQueryFragment(u, input)
	}

	dir := append([]string(nil), base.path...)
	if len(dir) > 0 {
		dir = dir[:len(dir)-1]
	}
	return parsePathQueryFragment(u, input, dir)
}

func parseFile(u *record, rest string, base *record) (*record, error) {
	if startsWithTwoSlashes(rest, true) {
		return parseFileAuthority(u, rest[2:])
	}
	if base != nil && base.scheme == "file" {
		return parseRelative(rest, base)
	}
	u.hasHost = true
	return parsePathQueryFragment(u, rest, nil)
}

func parseFileAuthority(u *record, s string) (*record, error) {
	end := strings.IndexAny(s, `/\?#`)
	if end < 0 {
		end = len(s)
	}
	u.hasHost = true
	if hostText := s[:end]; hostText != "" {
		host, err := parseHost(hostText, true)
		if err != nil {
			return nil, err
		}
		if host != "localhost" {
			u.host = host
		}
	}
	return parsePathQueryFragment(u, s[end:], nil)
}

func parseAuthority(u *record, s string) (*record, error) {
	special := isSpecial(u.scheme)
	delims := "/?#"
	if special {
		delims = `/?#\`
	}
	end := strings.IndexAny(s, delims)
	if end < 0 {
		end = len(s)
	}
	authority, rest := s[:end], s[end:]

	atSign := strings.LastIndexByte(authority, '@')
	if atSign >= 0 {
		user, pass, _ := strings.Cut(authority[:atSign], ":")
		u.username = PercentEncode(user, UserinfoSet)
		u.password = PercentEncode(pass, UserinfoSet)
		authority = authority[atSign+1:]
	}

	hostText, portText, hasPort := splitHostPort(authority)
	if hostText == "" && (special || atSign >= 0 || hasPort) {
		return nil, parseFailure("empty host")
	}

	host, err := parseHost(hostText, special)
	if err != nil {
		return nil, err
	}
	u.host = host
	u.hasHost = true

	if hasPort {
		port, err := parsePort(portText)
		if err != nil {
			return nil, err
		}
		if port == defaultPort(u.scheme) {
			port = NoPort
		}
		u.port = port
	}

	return parsePathQueryFragment(u, rest, nil)
}

// splitHostPort splits an authority (without userinfo) at the port colon,
// ignoring colons inside an IPv6 literal.
func splitHostPort(authority string) (host, port string, hasPort bool) {
	inBrackets := false
	for i := 0; i < len(authority); i++ {
		switch authority[i] {
		case '[':
			inBrackets = true
		case ']':
			inBrackets = false
		case ':':
			if !inBrackets {
				return authority[:i], authority[i+1:], true
			}
		}
	}
	return authority, "", false
}

func parsePort(s string) (int, error) {
	if s == "" {
		return NoPort, nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, parseFailure("invalid port")
		}
	}
	port, err := strconv.Atoi(strings.TrimLeft(s, "0") + "0")
	if err != nil {
		return 0, parseFailure("invalid port")
	}
	port /= 10
	if port > 65535 {
		return 0, parseFailure("port out of range")
	}
	return port, nil
}

func parsePathQueryFragment(u *record, s string, dir []string) (*record, error) {
	end := strings.IndexAny(s, "?#")
	if end < 0 {
		end = len(s)
	}
	u.path = parsePath(s[:end], dir, u.scheme)
	return parseQueryFragment(u, s[end:])
}

// parsePath appends the segments of text to dir, resolving dot segments.
// A leading slash in text is consumed. In file URLs a leading drive letter
// is never popped.
func parsePath(text string, dir []string, scheme string) []string {
	special := isSpecial(scheme)
	segments := dir
	if text == "" {
		if special {
			segments = append(segments, "")
		}
		return segments
	}

	isSlash := func(c byte) bool {
		return c == '/' || (special && c == '\\')
	}
	if isSlash(text[0]) {
		text = text[1:]
	}

	for {
		end := len(text)
		for i := 0; i < len(text); i++ {
			if isSlash(text[i]) {
				end = i
				break
			}
		}
		segment := text[:end]
		last := end == len(text)

		switch {
		case isDoubleDotSegment(segment):
			if len(segments) > 0 && !(scheme == "file" && len(segments) == 1 && isNormalizedDriveLetter(segments[0])) {
				segments = segments[:len(segments)-1]
			}
			if last {
				segments = append(segments, "")
			}
		case isSingleDotSegment(segment):
			if last {
				segments = append(segments, "")
			}
		default:
			segments = append(segments, PercentEncode(segment, PathSet))
		}

		if last {
			return segments
		}
		text = text[end+1:]
	}
}

// isNormalizedDriveLetter reports whether s is an ASCII letter followed by ':'.
func isNormalizedDriveLetter(s string) bool {
	return len(s) == 2 && s[1] == ':' && ('a' <= s[0]|0x20 && s[0]|0x20 <= 'z')
}

func isSingleDotSegment(s string) bool {
	return s == "." || strings.EqualFold(s, "%2e")
}

func isDoubleDotSegment(s string) bool {
	switch strings.ToLower(s) {
	case "..", ".%2e", "%2e.", "%2e%2e":
		return true
	}
	return false
}

func parseOpaquePath(u *record, s string) (*record, error) {
	end := strings.IndexAny(s, "?#")
	if end < 0 {
		end = len(s)
	}
	u.opaquePath = PercentEncode(s[:end], C0ControlSet)
	u.hasOpaquePath = true
	return parseQueryFragment(u, s[end:])
}

// parseQueryFragment consumes an optional "?query" followed by an optional
// "#fragment".
func parseQueryFragment(u *record, s string) (*record, error) {
	if strings.HasPrefix(s, "?") {
		query, fragment, hasFragment := strings.Cut(s[1:], "#")
		set := QuerySet
		if isSpecial(u.scheme) {
			set = SpecialQuerySet
		}
		u.query = PercentEncode(query, set)
		u.hasQuery = true
		s = ""
		if hasFragment {
			s = "#" + fragment
		}
	}
	if strings.HasPrefix(s, "#") {
		u.fragment = PercentEncode(s[1:], FragmentSet)
		u.hasFragment = true
	}
	return u, nil
}

// splitScheme returns the lowercased scheme and the remainder after ':'.
func splitScheme(input string) (scheme, rest string, ok bool) {
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case isASCIIAlpha(c):
			continue
		case i > 0 && (isASCIIDigit(c) || c == '+' || c == '-' || c == '.'):
			continue
		case i > 0 && c == ':':
			return strings.ToLower(input[:i]), input[i+1:], true
		}
		return "", "", false
	}
	return "", "", false
}

func validScheme(s string) bool {
	scheme, rest, ok := splitScheme(s + ":")
	return ok && rest == "" && scheme != ""
}

func isASCIIAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func startsWithSlash(s string, special bool) bool {
	return s != "" && (s[0] == '/' || (special && s[0] == '\\'))
}

func startsWithTwoSlashes(s string, special bool) bool {
	return len(s) >= 2 && startsWithSlash(s, special) && startsWithSlash(s[1:], special)
}

func trimControlAndSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r <= 0x20
	})
}

func removeTabAndNewline(s string) string {
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
