package refs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stddoc/stddoc/core/errors"
)

// Query identifies a document edition to a lookup backend. Year is empty for
// undated citations, which resolve to the latest edition.
type Query struct {
	Org    string
	Number string
	Part   string
	Year   string
}

// Key is the cache key material for the query, the canonical citation
// string. Dated and undated citations of the same document key separately.
func (q Query) Key() string {
	d := DocID{Org: q.Org, Number: q.Number, Part: q.Part, Year: q.Year}
	return d.String()
}

func (q Query) String() string { return q.Key() }

// Record is the structured bibliographic metadata a lookup returns. It
// round-trips through JSON for cache persistence.
type Record struct {
	Docidentifier string `json:"docidentifier"`
	Docnumber     string `json:"docnumber,omitempty"`
	Title         string `json:"title,omitempty"`
	Type          string `json:"type,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	Year          string `json:"year,omitempty"`
	URI           string `json:"uri,omitempty"`
	Abstract      string `json:"abstract,omitempty"`
}

// EncodeRecord serializes a record for cache storage.
func EncodeRecord(r *Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "encode bibliographic record")
	}
	return data, nil
}

// DecodeRecord deserializes a cached record.
func DecodeRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decode bibliographic record")
	}
	return &r, nil
}

// Lookup fetches structured metadata for a recognized standard identifier.
// A missing document returns an error satisfying errors.Is(err,
// errors.ErrNotFound); transient failures return a LookupError with
// Transient set so callers can distinguish retryable conditions.
type Lookup interface {
	Resolve(ctx context.Context, q Query) (*Record, error)
}

// Unavailable is the lookup used when fetching is disabled. Every query
// fails as transient so items fall back to their literal citation text.
type Unavailable struct{}

func (Unavailable) Resolve(_ context.Context, q Query) (*Record, error) {
	return nil, &errors.LookupError{
		Identifier: q.Key(),
		Err:        fmt.Errorf("lookup disabled"),
		Transient:  true,
	}
}
