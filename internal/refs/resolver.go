package refs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/core/errors"
	"github.com/stddoc/stddoc/internal/diag"
	"github.com/stddoc/stddoc/internal/logging"
)

// StalenessWindow is how long a cached record for an undated citation stays
// fresh. Dated citations pin an edition and never expire.
const StalenessWindow = 60 * 24 * time.Hour

// CachedRecord is a cache entry: an encoded Record plus when it was fetched.
type CachedRecord struct {
	Fetched time.Time
	Data    []byte
}

// Cache persists fetched bibliographic records between runs. Load returns
// (nil, nil) on a miss. Implementations decide tiering; the resolver only
// decides freshness.
type Cache interface {
	Load(key string) (*CachedRecord, error)
	Save(key string, rec *CachedRecord) error
}

// Resolver fills in bibliographic metadata for a converted document: fetches
// structured records for recognized standard identifiers, renumbers
// non-fetchable entries, and rewrites cross-references that point at
// bibliography anchors into citations.
type Resolver struct {
	Lookup Lookup
	Cache  Cache // nil disables caching
	Diag   *diag.Sink

	// Fetch disabled turns every item into its literal citation text.
	Fetch bool

	// Now is the clock used for staleness checks and fetched dates.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewResolver builds a resolver with fetching enabled.
func NewResolver(lookup Lookup, cache Cache, sink *diag.Sink) *Resolver {
	return &Resolver{Lookup: lookup, Cache: cache, Diag: sink, Fetch: true}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// bibEntry tracks one bibitem during a resolution pass.
type bibEntry struct {
	node   *doctree.Node
	anchor string
	citeas string // label used by eref citeas and origin
}

// Apply resolves every references container under the given roots, then
// rewrites cross-references throughout them. Roots are processed in the
// order given, which must be document order for renumbering to be stable.
func (r *Resolver) Apply(ctx context.Context, roots ...*doctree.Node) error {
	ids := map[string]bool{}
	entries := map[string]*bibEntry{}
	for _, root := range roots {
		root.WalkElements(func(n *doctree.Node) bool {
			if id := n.ID(); id != "" {
				ids[id] = true
			}
			return true
		})
	}
	for _, root := range roots {
		var refSets []*doctree.Node
		root.WalkElements(func(n *doctree.Node) bool {
			if n.Name == "references" {
				refSets = append(refSets, n)
			}
			return true
		})
		for _, set := range refSets {
			if err := r.resolveSet(ctx, set, entries); err != nil {
				return err
			}
		}
	}
	for _, root := range roots {
		r.rewriteRefs(root, ids, entries)
	}
	return nil
}

// resolveSet processes one references container. Sequential labels are
// renumbered densely within the container, so numbering restarts per
// bibliography section.
func (r *Resolver) resolveSet(ctx context.Context, set *doctree.Node, entries map[string]*bibEntry) error {
	seq := 0
	for _, item := range set.ElementChildren() {
		if item.Name != "bibitem" {
			continue
		}
		e := &bibEntry{node: item, anchor: item.ID()}
		nofetch := item.AttrValue("nofetch") == "true"
		item.RemoveAttr("nofetch")

		ident := strings.TrimSpace(docidentifierText(item))
		docid, recognized := ParseDocID(ident)
		switch {
		case recognized && !nofetch && r.Fetch:
			e.citeas = docid.String()
			if err := r.resolveItem(ctx, item, docid); err != nil {
				return err
			}
		case recognized:
			// Recognized but not fetched: the identifier itself is
			// the citation.
			e.citeas = docid.String()
		case bracketedAlpha(ident):
			// Bracketed alphabetic labels like (A) stay outside the
			// numeric sequence.
			e.citeas = ident
		default:
			// Everything else, empty identifiers and free-text titles
			// included, gets a dense sequential label. The original
			// docidentifier survives alongside the assigned one.
			seq++
			e.citeas = fmt.Sprintf("[%d]", seq)
			setMetanormaLabel(item, e.citeas)
		}
		if e.anchor != "" {
			entries[e.anchor] = e
		}
	}
	return nil
}

func docidentifierText(item *doctree.Node) string {
	if d := item.FirstElement("docidentifier"); d != nil {
		return d.InnerText()
	}
	if f := item.FirstElement("formattedref"); f != nil {
		return f.InnerText()
	}
	return ""
}

func setMetanormaLabel(item *doctree.Node, label string) {
	for _, d := range item.Elements("docidentifier") {
		if d.AttrValue("type") == "metanorma" {
			d.Detach()
		}
	}
	ident := doctree.NewElement("docidentifier")
	ident.SetAttr("type", "metanorma")
	ident.AppendText(label)
	if f := item.FirstElement("formattedref"); f != nil {
		item.InsertAfter(ident, f)
	} else {
		item.PrependChild(ident)
	}
}

// resolveItem fetches metadata for one recognized identifier, consulting the
// cache first. Lookup failures are per-item and non-fatal: the item keeps
// its literal citation text and a recoverable condition is reported.
func (r *Resolver) resolveItem(ctx context.Context, item *doctree.Node, docid *DocID) error {
	q := Query{Org: docid.Org, Number: docid.Number, Part: docid.Part, Year: docid.Year}
	key := q.Key()

	var stale *CachedRecord
	if r.Cache != nil {
		cached, err := r.Cache.Load(key)
		if err != nil {
			return errors.Wrapf(err, "cache load for %s", key)
		}
		if cached != nil {
			fresh := docid.Year != "" || r.now().Sub(cached.Fetched) <= StalenessWindow
			if fresh {
				rec, err := DecodeRecord(cached.Data)
				if err != nil {
					return err
				}
				logging.Lookup(key, true, 0)
				r.applyRecord(item, docid, rec, cached.Fetched)
				return nil
			}
			stale = cached
		}
	}

	start := time.Now()
	rec, err := r.Lookup.Resolve(ctx, q)
	if err != nil {
		if stale != nil {
			// Refetch failed; the stale copy is still better than nothing.
			r.Diag.Warn("refs", "refresh failed for %s, reusing stale cache entry: %v", key, err)
			if old, derr := DecodeRecord(stale.Data); derr == nil {
				r.applyRecord(item, docid, old, stale.Fetched)
				return nil
			}
		}
		r.Diag.Warn("refs", "could not fetch %s, keeping citation text: %v", key, err)
		return nil
	}
	logging.Lookup(key, false, time.Since(start))

	fetched := r.now()
	if r.Cache != nil {
		data, err := EncodeRecord(rec)
		if err != nil {
			return err
		}
		if err := r.Cache.Save(key, &CachedRecord{Fetched: fetched, Data: data}); err != nil {
			return errors.Wrapf(err, "cache save for %s", key)
		}
	}
	r.applyRecord(item, docid, rec, fetched)
	return nil
}

// applyRecord replaces the item's provisional content with structured
// metadata. The explicit anchor is preserved.
func (r *Resolver) applyRecord(item *doctree.Node, docid *DocID, rec *Record, fetched time.Time) {
	typ := rec.Type
	if typ == "" {
		typ = "standard"
	}
	item.SetAttr("type", typ)
	for _, c := range item.ElementChildren() {
		switch c.Name {
		case "formattedref", "docidentifier", "docnumber", "title", "fetched":
			c.Detach()
		}
	}

	var kids []*doctree.Node
	f := doctree.NewElement("fetched")
	f.AppendText(fetched.Format("2006-01-02"))
	kids = append(kids, f)
	if rec.Title != "" {
		t := doctree.NewElement("title")
		t.SetAttr("format", "text/plain")
		t.AppendText(rec.Title)
		kids = append(kids, t)
	}
	ident := rec.Docidentifier
	if ident == "" {
		ident = docid.String()
	}
	d := doctree.NewElement("docidentifier")
	d.SetAttr("type", docid.Org)
	d.AppendText(ident)
	kids = append(kids, d)
	num := rec.Docnumber
	if num == "" {
		num = docid.Number
		if docid.Part != "" {
			num += "-" + docid.Part
		}
	}
	dn := doctree.NewElement("docnumber")
	dn.AppendText(num)
	kids = append(kids, dn)
	if year := rec.Year; year != "" {
		date := doctree.NewElement("date")
		date.SetAttr("type", "published")
		on := doctree.NewElement("on")
		on.AppendText(year)
		date.AppendChild(on)
		kids = append(kids, date)
	}
	if rec.Publisher != "" {
		kids = append(kids, publisherNode(rec.Publisher))
	}
	if rec.URI != "" {
		u := doctree.NewElement("uri")
		u.AppendText(rec.URI)
		kids = append(kids, u)
	}
	if rec.Abstract != "" {
		a := doctree.NewElement("abstract")
		p := doctree.NewElement("p")
		p.AppendText(rec.Abstract)
		a.AppendChild(p)
		kids = append(kids, a)
	}
	// Metadata leads; any leftover children (notes carried from the source
	// entry) stay behind it.
	for i := len(kids) - 1; i >= 0; i-- {
		item.PrependChild(kids[i])
	}
}

func publisherNode(name string) *doctree.Node {
	contrib := doctree.NewElement("contributor")
	role := doctree.NewElement("role")
	role.SetAttr("type", "publisher")
	contrib.AppendChild(role)
	org := doctree.NewElement("organization")
	n := doctree.NewElement("name")
	n.AppendText(name)
	org.AppendChild(n)
	contrib.AppendChild(org)
	return contrib
}

// rewriteRefs turns xrefs that target bibliography anchors into erefs and
// fills in citeas on erefs and origins that lack one. Targets that exist
// nowhere in the document are flagged, not dropped.
func (r *Resolver) rewriteRefs(root *doctree.Node, ids map[string]bool, entries map[string]*bibEntry) {
	root.WalkElements(func(n *doctree.Node) bool {
		switch n.Name {
		case "xref":
			target := n.AttrValue("target")
			if e, ok := entries[target]; ok {
				n.Name = "eref"
				n.SetAttr("type", "inline")
				n.SetAttr("bibitemid", target)
				n.SetAttr("citeas", e.citeas)
				n.RemoveAttr("target")
				return true
			}
			if target != "" && !ids[target] {
				n.SetAttr("unresolved", "true")
				r.Diag.Warn("refs", "cross-reference target %q does not exist", target)
			}
		case "eref", "origin":
			id := n.AttrValue("bibitemid")
			if id == "" {
				return true
			}
			if e, ok := entries[id]; ok {
				if n.AttrValue("citeas") == "" {
					n.SetAttr("citeas", e.citeas)
				}
			} else if !ids[id] {
				n.SetAttr("unresolved", "true")
				r.Diag.Warn("refs", "citation target %q does not exist", id)
			}
		}
		return true
	})
}
