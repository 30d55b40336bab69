// Package objectkey generates object keys for uploads that do not supply
// one.
package objectkey

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies.
type Generator interface {
	// GenerateKey creates an object key, optionally incorporating the
	// original filename.
	GenerateKey(filename string) string
}

// UUIDGenerator produces flat keys of the form U/{uuid}/{filename} (or
// U/{uuid} when no filename is known). The uuid keeps keys collision-free;
// the filename keeps public URLs readable.
type UUIDGenerator struct {
	Prefix string
}

// NewUUIDGenerator creates a generator with the default "U" prefix.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{Prefix: "U"}
}

func (g *UUIDGenerator) GenerateKey(filename string) string {
	if filename != "" {
		return fmt.Sprintf("%s/%s/%s", g.Prefix, uuid.New(), filename)
	}
	return fmt.Sprintf("%s/%s", g.Prefix, uuid.New())
}
