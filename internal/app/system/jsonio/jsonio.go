// Package jsonio reads and writes the JSON envelopes used by the content API.
//
// Requests carry their payload under a top-level "data" key and successful
// responses answer the same way:
//
//	{ "data": { ... } }
package jsonio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies accepted by DecodeData.
const MaxBodyBytes = 1 << 20

// ErrMissingData is returned when the body has no "data" object.
var ErrMissingData = errors.New(`missing "data" payload in the request body`)

// ErrInvalidBody is returned when the body is not valid JSON.
var ErrInvalidBody = errors.New("request body is not valid JSON")

// ErrTooLarge is returned when the body exceeds MaxBodyBytes.
var ErrTooLarge = errors.New("request body is too large")

func readErr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, mbe.Limit)
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}

// Envelope is the wire shape of every single-record request and response.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// DecodeData decodes {"data": {...}} into dst.
func DecodeData(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrMissingData
		}
		return readErr(err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrMissingData
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// Decode decodes a bare JSON object (used by admin endpoints that do not wrap
// their payload, such as login).
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return readErr(err)
	}
	return nil
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes {"data": v}.
func WriteData[T any](w http.ResponseWriter, status int, v T) {
	WriteJSON(w, status, Envelope[T]{Data: v})
}

// ListEnvelope is the wire shape of collection responses.
type ListEnvelope[T any] struct {
	Data []T      `json:"data"`
	Meta ListMeta `json:"meta"`
}

// ListMeta carries the pagination block of a collection response, if any.
type ListMeta struct {
	Pagination any `json:"pagination,omitempty"`
}

// WriteList writes {"data": items, "meta": {"pagination": pagination}}.
// A nil slice is written as an empty array.
func WriteList[T any](w http.ResponseWriter, status int, items []T, pagination any) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, status, ListEnvelope[T]{Data: items, Meta: ListMeta{Pagination: pagination}})
}
