package urlpattern

import (
	"regexp"
	"sync"
)

// regexpCache holds compiled component expressions keyed by source. Many
// patterns share components such as "*" or "", so most compilations after
// the first are cache hits.
var regexpCache sync.Map

func compileRegexp(expr string) (*regexp.Regexp, error) {
	if v, ok := regexpCache.Load(expr); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	actual, _ := regexpCache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}
