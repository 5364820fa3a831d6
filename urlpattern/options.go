package urlpattern

// options control how one component pattern is compiled.
type options struct {
	// delimiter ends a segment wildcard; empty means no delimiter.
	delimiter string
	// prefix is the character that is folded into a following group as its
	// prefix, such as "/" in "/:id".
	prefix     string
	ignoreCase bool
}

var (
	defaultOptions  = options{}
	hostnameOptions = options{delimiter: "."}
	pathnameOptions = options{delimiter: "/", prefix: "/"}
)

// Option configures pattern compilation.
type Option func(*config)

type config struct {
	ignoreCase bool
}

// WithIgnoreCase makes the pathname, search, and hash components match
// without regard to case.
func WithIgnoreCase() Option {
	return func(c *config) {
		c.ignoreCase = true
	}
}
