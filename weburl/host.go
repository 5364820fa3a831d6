package weburl

import (
	"net/netip"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// idnaProfile maps hostnames the way browsers do: UTS #46 non-transitional
// processing without the STD3 ASCII restrictions and without hyphen checks.
var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
)

// parseHost parses the host portion of an authority and returns its
// serialized form. Special URLs get domain, IPv4, or IPv6 processing;
// everything else is an opaque host.
func parseHost(input string, special bool) (string, error) {
	if strings.HasPrefix(input, "[") {
		if !strings.HasSuffix(input, "]") {
			return "", parseFailure("unterminated IPv6 address")
		}
		addr, err := parseIPv6(input[1 : len(input)-1])
		if err != nil {
			return "", err
		}
		return "[" + serializeIPv6(addr) + "]", nil
	}

	if !special {
		return parseOpaqueHost(input)
	}

	domain := PercentDecode(input)
	ascii, err := domainToASCII(domain)
	if err != nil {
		return "", err
	}

	if endsInNumber(ascii) {
		v4, err := parseIPv4(ascii)
		if err != nil {
			return "", err
		}
		return serializeIPv4(v4), nil
	}

	return ascii, nil
}

func domainToASCII(domain string) (string, error) {
	var ascii string
	if isASCII(domain) && !hasPunycodeLabel(domain) {
		ascii = strings.ToLower(domain)
	} else {
		var err error
		ascii, err = idnaProfile.ToASCII(domain)
		if err != nil {
			return "", parseFailure("invalid domain: " + err.Error())
		}
	}

	if ascii == "" {
		return "", parseFailure("empty host")
	}
	for i := 0; i < len(ascii); i++ {
		if isForbiddenDomainByte(ascii[i]) {
			return "", parseFailure("forbidden domain code point")
		}
	}
	return ascii, nil
}

// DomainToUnicode converts an ASCII hostname with punycode labels back to
// its Unicode form. Hosts that fail conversion are returned unchanged.
func DomainToUnicode(host string) string {
	u, err := idnaProfile.ToUnicode(host)
	if err != nil {
		return host
	}
	return u
}

func hasPunycodeLabel(domain string) bool {
	for _, label := range strings.Split(domain, ".") {
		if len(label) >= 4 && strings.EqualFold(label[:4], "xn--") {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isForbiddenHostByte(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\r', ' ', '#', '/', ':', '<', '>', '?', '@', '[', '\\', ']', '^', '|':
		return true
	}
	return false
}

func isForbiddenDomainByte(c byte) bool {
	return isForbiddenHostByte(c) || c <= 0x1f || c == '%' || c == 0x7f
}

func parseOpaqueHost(input string) (string, error) {
	for i := 0; i < len(input); i++ {
		if isForbiddenHostByte(input[i]) {
			return "", parseFailure("forbidden host code point")
		}
	}
	return PercentEncode(input, C0ControlSet), nil
}

// endsInNumber reports whether the last non-empty label of a domain looks
// numeric, which routes the host through the IPv4 parser.
func endsInNumber(domain string) bool {
	labels := strings.Split(domain, ".")
	if labels[len(labels)-1] == "" {
		if len(labels) == 1 {
			return false
		}
		labels = labels[:len(labels)-1]
	}
	last := labels[len(labels)-1]
	if last != "" && strings.Trim(last, "0123456789") == "" {
		return true
	}
	_, ok := parseIPv4Number(last)
	return ok
}

func parseIPv4(domain string) (uint32, error) {
	parts := strings.Split(domain, ".")
	if parts[len(parts)-1] == "" && len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 4 {
		return 0, parseFailure("too many IPv4 parts")
	}

	numbers := make([]uint64, len(parts))
	for i, part := range parts {
		n, ok := parseIPv4Number(part)
		if !ok {
			return 0, parseFailure("invalid IPv4 part")
		}
		numbers[i] = n
	}

	for _, n := range numbers[:len(numbers)-1] {
		if n > 255 {
			return 0, parseFailure("IPv4 part out of range")
		}
	}
	last := numbers[len(numbers)-1]
	if last >= 1<<(8*(5-len(numbers))) {
		return 0, parseFailure("IPv4 address out of range")
	}

	v4 := last
	for i, n := range numbers[:len(numbers)-1] {
		v4 += n << (8 * (3 - i))
	}
	return uint32(v4), nil
}

func parseIPv4Number(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	base := 10
	switch {
	case len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X"):
		base = 16
		s = s[2:]
	case len(s) >= 2 && s[0] == '0':
		base = 8
		s = s[1:]
	}
	if s == "" {
		return 0, true
	}
	for i := 0; i < len(s); i++ {
		if !isDigitInBase(s[i], base) {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		// Too large for any IPv4 address; report it as numeric so the
		// range check rejects it.
		return 1 << 40, true
	}
	return n, true
}

func isDigitInBase(c byte, base int) bool {
	switch base {
	case 8:
		return '0' <= c && c <= '7'
	case 16:
		return ishex(c)
	}
	return '0' <= c && c <= '9'
}

func serializeIPv4(v4 uint32) string {
	var b strings.Builder
	for i := 3; i >= 0; i-- {
		b.WriteString(strconv.FormatUint(uint64(v4>>(8*i))&0xff, 10))
		if i > 0 {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func parseIPv6(s string) (netip.Addr, error) {
	if strings.ContainsRune(s, '%') {
		return netip.Addr{}, parseFailure("IPv6 zone identifiers are not allowed")
	}
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() {
		return netip.Addr{}, parseFailure("invalid IPv6 address")
	}
	return addr, nil
}

// serializeIPv6 writes the address as eight lowercase hex pieces with the
// first longest run of two or more zero pieces compressed to "::". Unlike
// netip.Addr.String it never uses the dotted IPv4 suffix form.
func serializeIPv6(addr netip.Addr) string {
	raw := addr.As16()
	var pieces [8]uint16
	for i := range pieces {
		pieces[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}

	compressStart, compressLen := -1, 1
	for i := 0; i < 8; {
		if pieces[i] != 0 {
			i++
			continue
		}
		j := i
		for j < 8 && pieces[j] == 0 {
			j++
		}
		if j-i > compressLen {
			compressStart, compressLen = i, j-i
		}
		i = j
	}

	var b strings.Builder
	for i := 0; i < 8; i++ {
		if i == compressStart {
			b.WriteString("::")
			i += compressLen - 1
			continue
		}
		if i > 0 && i != compressStart+compressLen {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(pieces[i]), 16))
	}
	return b.String()
}
