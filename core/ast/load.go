package ast

import (
	"encoding/json"
	"io"
	"os"

	"github.com/stddoc/stddoc/core/errors"
)

// Load decodes a parser-emitted JSON document tree.
func Load(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &errors.ParseError{Format: "AST JSON", Message: err.Error(), Err: err}
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile decodes a parser-emitted JSON document tree from a file.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks that every node in the tree carries a recognized kind.
// A malformed tree from the upstream parser is a fatal input error.
func Validate(doc *Document) error {
	for _, b := range doc.Blocks {
		if err := validateBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(b *Block) error {
	if !b.Kind.IsValid() {
		return errors.NewParse("AST", string(b.Kind), "unknown block kind")
	}
	for _, in := range b.Title {
		if err := validateInline(in); err != nil {
			return err
		}
	}
	for _, in := range b.Inlines {
		if err := validateInline(in); err != nil {
			return err
		}
	}
	for _, row := range b.Rows {
		for _, cell := range row.Cells {
			for _, in := range cell.Inlines {
				if err := validateInline(in); err != nil {
					return err
				}
			}
		}
	}
	for _, e := range b.Entries {
		for _, term := range e.Terms {
			for _, in := range term {
				if err := validateInline(in); err != nil {
					return err
				}
			}
		}
		for _, c := range e.Definition {
			if err := validateBlock(c); err != nil {
				return err
			}
		}
	}
	for _, c := range b.Children {
		if err := validateBlock(c); err != nil {
			return err
		}
	}
	return nil
}

func validateInline(in *Inline) error {
	if !in.Kind.IsValid() {
		return errors.NewParse("AST", string(in.Kind), "unknown inline kind")
	}
	for _, c := range in.Children {
		if err := validateInline(c); err != nil {
			return err
		}
	}
	return nil
}
