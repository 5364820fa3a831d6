package weburl

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// SearchParams is an ordered list of name/value pairs that may repeat
// names. When obtained from URL.SearchParams every mutation rewrites the
// URL's query.
type SearchParams struct {
	list []Pair
	url  *URL
}

// NewSearchParams parses a query string. A single leading '?' is ignored.
func NewSearchParams(query string) *SearchParams {
	return &SearchParams{list: ParseQuery(strings.TrimPrefix(query, "?"))}
}

// NewSearchParamsFromPairs builds a list from name/value tuples. Every tuple
// must have exactly two elements.
func NewSearchParamsFromPairs(pairs [][]string) (*SearchParams, error) {
	list := make([]Pair, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: item %d has %d elements", ErrInvalidPair, i, len(pair))
		}
		list = append(list, Pair{Name: pair[0], Value: pair[1]})
	}
	return &SearchParams{list: list}, nil
}

// NewSearchParamsFromMap builds a list from a map. Go maps have no order,
// so entries are added in sorted key order.
func NewSearchParamsFromMap(m map[string]string) *SearchParams {
	list := make([]Pair, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		list = append(list, Pair{Name: name, Value: m[name]})
	}
	return &SearchParams{list: list}
}

// reset replaces the contents from a URL search string, keeping the same
// SearchParams value.
func (p *SearchParams) reset(search string) {
	p.list = ParseQuery(strings.TrimPrefix(search, "?"))
}

func (p *SearchParams) update() {
	if p.url != nil {
		p.url.updateSearch(p.String())
	}
}

// Append adds a pair at the end of the list.
func (p *SearchParams) Append(name, value string) {
	p.list = append(p.list, Pair{Name: name, Value: value})
	p.update()
}

// Delete removes every pair named name.
func (p *SearchParams) Delete(name string) {
	p.list = slices.DeleteFunc(p.list, func(pair Pair) bool {
		return pair.Name == name
	})
	p.update()
}

// Get returns the first value for name.
func (p *SearchParams) Get(name string) (string, bool) {
	for _, pair := range p.list {
		if pair.Name == name {
			return pair.Value, true
		}
	}
	return "", false
}

// GetAll returns every value for name in list order.
func (p *SearchParams) GetAll(name string) []string {
	values := []string{}
	for _, pair := range p.list {
		if pair.Name == name {
			values = append(values, pair.Value)
		}
	}
	return values
}

// Has reports whether any pair is named name.
func (p *SearchParams) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Set replaces the value of the first pair named name and removes the rest,
// or appends a new pair when there is none.
func (p *SearchParams) Set(name, value string) {
	found := false
	p.list = slices.DeleteFunc(p.list, func(pair Pair) bool {
		if pair.Name != name {
			return false
		}
		if found {
			return true
		}
		found = true
		return false
	})

	if i := slices.IndexFunc(p.list, func(pair Pair) bool { return pair.Name == name }); i >= 0 {
		p.list[i].Value = value
	} else {
		p.list = append(p.list, Pair{Name: name, Value: value})
	}
	p.update()
}

// Sort orders pairs by name in code point order. Pairs with equal names
// keep their relative order.
func (p *SearchParams) Sort() {
	slices.SortStableFunc(p.list, func(a, b Pair) int {
		return strings.Compare(a.Name, b.Name)
	})
	p.update()
}

// Len returns the number of pairs.
func (p *SearchParams) Len() int { return len(p.list) }

// Pairs returns a copy of the list.
func (p *SearchParams) Pairs() []Pair { return slices.Clone(p.list) }

// All yields name/value pairs in list order.
func (p *SearchParams) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range p.list {
			if !yield(pair.Name, pair.Value) {
				return
			}
		}
	}
}

// Keys yields names in list order.
func (p *SearchParams) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range p.list {
			if !yield(pair.Name) {
				return
			}
		}
	}
}

// Values yields values in list order.
func (p *SearchParams) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range p.list {
			if !yield(pair.Value) {
				return
			}
		}
	}
}

// String serializes the list as application/x-www-form-urlencoded.
func (p *SearchParams) String() string { return StringifyQuery(p.list) }
