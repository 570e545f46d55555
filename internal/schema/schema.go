// Package schema runs advisory shape checks over the emitted XML. The
// checks re-parse the serialized output, so they validate what a consumer
// will actually see rather than the in-memory tree.
package schema

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/stddoc/stddoc/core/errors"
	"github.com/stddoc/stddoc/internal/diag"
)

// rule is one XPath spot check; every match reports an advisory condition.
type rule struct {
	expr    string
	message string
}

var rules = []rule{
	{"/standard-document[not(bibdata)]", "document has no bibdata block"},
	{"//term[not(preferred)]", "term entry without a preferred designation"},
	{"//fn[not(@reference)]", "footnote without a reference number"},
	{"//eref[not(@citeas)]", "citation without a citeas label"},
	{"//callout[not(@target)]", "callout without an annotation target"},
	{"//table[not(tbody)]", "table without a body"},
	{"//bibitem[not(docidentifier) and not(formattedref)]", "bibliographic item with no identifier or formatted reference"},
	{"//references[not(@normative)]", "references container without a normative marker"},
	{"//requirement[not(label)] | //recommendation[not(label)] | //permission[not(label)]",
		"requirement without a label"},
	{"//localityStack[not(locality)]", "empty locality stack"},
	{"//definitions[not(dl)]", "symbols clause without a definition list"},
}

// Check parses the serialized document and reports advisory conditions for
// every shape irregularity it finds. A document that does not parse at all
// is a fatal error.
func Check(xmlText string, sink *diag.Sink) error {
	doc, err := xmlquery.Parse(strings.NewReader(xmlText))
	if err != nil {
		return errors.NewParse("output XML", "", err.Error())
	}

	for _, r := range rules {
		nodes, err := xmlquery.QueryAll(doc, r.expr)
		if err != nil {
			return errors.Wrapf(err, "schema check %q", r.expr)
		}
		for _, n := range nodes {
			if id := n.SelectAttr("id"); id != "" {
				sink.Advise("schema", "%s (id %s)", r.message, id)
			} else {
				sink.Advise("schema", "%s", r.message)
			}
		}
	}

	reportDuplicateIDs(doc, sink)
	return nil
}

func reportDuplicateIDs(doc *xmlquery.Node, sink *diag.Sink) {
	nodes, err := xmlquery.QueryAll(doc, "//*[@id]")
	if err != nil {
		return
	}
	seen := map[string]bool{}
	for _, n := range nodes {
		id := n.SelectAttr("id")
		if seen[id] {
			sink.Advise("schema", "duplicate id %q in output", id)
			continue
		}
		seen[id] = true
	}
}
