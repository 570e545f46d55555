package convert

import (
	"testing"

	"github.com/stddoc/stddoc/core/ast"
)

func reqtBlock(style string, children ...*ast.Block) *ast.Block {
	return &ast.Block{Kind: ast.BlockExample, Style: style, Children: children}
}

func TestRequirement_Variants(t *testing.T) {
	c := newTestContext(t)
	for _, style := range []string{"requirement", "recommendation", "permission"} {
		n := c.Block(reqtBlock(style, para("body")))
		if n.Name != style {
			t.Errorf("style %q produced <%s>", style, n.Name)
		}
	}
}

func TestRequirement_LabelAndInheritAttrs(t *testing.T) {
	c := newTestContext(t)
	b := reqtBlock("requirement", para("The maximum flow rate shall not be exceeded."))
	b.Attrs = ast.Attrs{
		{Key: "label", Value: "/ogc/req/flow/1"},
		{Key: "inherit", Value: "/ss/584/2/level/1; /ss/584/2/level/2"},
	}
	n := c.Block(b)

	if n.AttrValue("label") != "" || n.AttrValue("inherit") != "" {
		t.Error("label/inherit attrs leaked onto the requirement element")
	}
	if got := n.FirstElement("label"); got == nil || got.InnerText() != "/ogc/req/flow/1" {
		t.Errorf("label child = %v; want /ogc/req/flow/1", got)
	}
	inherits := n.Elements("inherit")
	if len(inherits) != 2 {
		t.Fatalf("got %d inherit children; want 2", len(inherits))
	}
	if got := inherits[1].InnerText(); got != "/ss/584/2/level/2" {
		t.Errorf("second inherit = %q; want /ss/584/2/level/2", got)
	}
	desc := n.FirstElement("description")
	if desc == nil || desc.FirstElement("p") == nil {
		t.Fatal("prose body did not land in a description p")
	}
}

func TestRequirement_BodyInheritAndClassification(t *testing.T) {
	c := newTestContext(t)
	b := reqtBlock("requirement",
		&ast.Block{Kind: ast.BlockParagraph, Inlines: []*ast.Inline{
			{Kind: ast.InlineInherit, Text: "/ss/584/2/level/1"},
			{Kind: ast.InlineClassif, Text: "control-class:Technical; priority:P0"},
		}},
		para("Stated behaviour."),
	)
	b.Attrs = ast.Attrs{{Key: "inherit", Value: "/base"}}
	n := c.Block(b)

	inherits := n.Elements("inherit")
	if len(inherits) != 2 {
		t.Fatalf("got %d inherits; want attr + body = 2", len(inherits))
	}
	if inherits[0].InnerText() != "/base" {
		t.Errorf("attribute-declared inherit not first: %q", inherits[0].InnerText())
	}

	cls := n.Elements("classification")
	if len(cls) != 2 {
		t.Fatalf("got %d classifications; want 2", len(cls))
	}
	if tag := cls[0].FirstElement("tag"); tag == nil || tag.InnerText() != "control-class" {
		t.Errorf("classification tag = %v; want control-class", tag)
	}
	if val := cls[1].FirstElement("value"); val == nil || val.InnerText() != "P0" {
		t.Errorf("classification value = %v; want P0", val)
	}

	// The extraction-only paragraph leaves nothing behind.
	if descs := n.Elements("description"); len(descs) != 1 {
		t.Errorf("got %d descriptions; want 1", len(descs))
	}
}

func TestRequirement_TypedComponentsSplitDescription(t *testing.T) {
	c := newTestContext(t)
	spec := &ast.Block{Kind: ast.BlockOpen, Style: "specification",
		Inlines: []*ast.Inline{text("precise statement")}}
	spec.Attrs = ast.Attrs{{Key: "exclude", Value: ""}, {Key: "type", Value: "ogc-spec"}}
	b := reqtBlock("requirement",
		para("before"),
		spec,
		para("after"),
	)
	n := c.Block(b)

	var names []string
	for _, child := range n.ElementChildren() {
		names = append(names, child.Name)
	}
	if want := []string{"description", "specification", "description"}; !equalStrings(names, want) {
		t.Fatalf("children = %v; want %v", names, want)
	}

	comp := n.FirstElement("specification")
	if got := comp.AttrValue("exclude"); got != "true" {
		t.Errorf("exclude = %q; want true", got)
	}
	if got := comp.AttrValue("type"); got != "ogc-spec" {
		t.Errorf("type = %q; want ogc-spec", got)
	}
}

func TestRequirement_ComponentDefaultsAndPayload(t *testing.T) {
	c := newTestContext(t)
	table := &ast.Block{Kind: ast.BlockTable, Rows: []*ast.TableRow{
		{Cells: []*ast.TableCell{{Inlines: []*ast.Inline{text("a")}}}},
	}}
	b := reqtBlock("requirement",
		&ast.Block{Kind: ast.BlockOpen, Style: "verification", Children: []*ast.Block{table}},
	)
	n := c.Block(b)

	comp := n.FirstElement("verification")
	if comp == nil {
		t.Fatal("verification component missing")
	}
	if got := comp.AttrValue("exclude"); got != "false" {
		t.Errorf("exclude default = %q; want false", got)
	}
	if comp.FirstElement("table") == nil {
		t.Error("lone table child not taken as direct payload")
	}
	if comp.FirstElement("p") != nil {
		t.Error("payload table wrapped in prose")
	}
}
