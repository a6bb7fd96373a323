// Package docid mints the stable document identifiers exposed as "documentId".
package docid

import "github.com/google/uuid"

// New returns a fresh random identifier.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s looks like an identifier minted by New.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
