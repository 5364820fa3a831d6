package mux

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vitalvas/urlkit/weburl"
)

// maxFormBytes bounds the body read by BindForm.
const maxFormBytes = 10 << 20

// BindJSON decodes the request body as JSON into v.
// By default the decoder rejects unknown fields that do not map to exported
// struct fields. Pass false to allow unknown fields.
// Exactly one JSON value must be present in the body; trailing data is an error.
func BindJSON(r *http.Request, v any, allowUnknownFields ...bool) error {
	dec := json.NewDecoder(r.Body)

	if len(allowUnknownFields) == 0 || !allowUnknownFields[0] {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data after JSON value")
	}

	return nil
}

// BindForm decodes an application/x-www-form-urlencoded request body into
// an ordered list of name/value pairs. Names may repeat.
func BindForm(r *http.Request) (*weburl.SearchParams, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxFormBytes {
		return nil, errors.New("form body too large")
	}

	pairs := weburl.ParseURLEncoded(body)
	tuples := make([][]string, len(pairs))
	for i, p := range pairs {
		tuples[i] = []string{p.Name, p.Value}
	}
	return weburl.NewSearchParamsFromPairs(tuples)
}
