// Package ident provides document-scoped anchor generation and
// content-addressed keys for dedup decisions.
package ident

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Generator hands out opaque anchors for nodes the author left unnamed.
// Anchors are assigned exactly once per node, during the normalization
// pass; a generator is created fresh for each document conversion.
type Generator struct {
	seq    int
	newID  func() string
	issued map[string]bool
}

// NewGenerator creates a Generator backed by random UUIDs.
func NewGenerator() *Generator {
	return &Generator{
		newID:  func() string { return uuid.NewString() },
		issued: make(map[string]bool),
	}
}

// NewSequentialGenerator creates a Generator producing deterministic
// anchors (_anchor_1, _anchor_2, ...). Used by tests and by conversions
// that need reproducible output.
func NewSequentialGenerator() *Generator {
	g := &Generator{issued: make(map[string]bool)}
	g.newID = func() string { return fmt.Sprintf("anchor_%d", g.seq) }
	return g
}

// Next returns a fresh opaque anchor. Generated anchors start with an
// underscore so they can never collide with author-supplied ones, which
// the markup syntax forbids from starting with "_".
func (g *Generator) Next() string {
	g.seq++
	id := "_" + strings.ReplaceAll(g.newID(), "-", "_")
	g.issued[id] = true
	return id
}

// Issued reports whether the generator produced the given anchor.
func (g *Generator) Issued(id string) bool {
	return g.issued[id]
}

// ContentKey returns a BLAKE3 content key for dedup decisions
// (footnote bodies with identical content share a reference number).
func ContentKey(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CacheKey returns a filesystem-safe BLAKE3 key for a normalized citation
// string, used by the bibliographic cache stores.
func CacheKey(citation string) string {
	sum := blake3.Sum256([]byte(citation))
	return hex.EncodeToString(sum[:16])
}
