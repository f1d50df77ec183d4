package mailbuilder

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
)

// Compiler turns a stored Structure into an MJML document. Compilation is
// pure string assembly; rendering MJML to HTML is the Renderer's job.
type Compiler struct {
	logger *zap.Logger
}

// NewCompiler constructs a compiler.
func NewCompiler(logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{logger: logger}
}

// StructureToMJML assembles the full MJML document for a structure. Unknown
// block types compile to nothing so a template with a stray block still
// renders; the skip is logged for the template author to find.
func (c *Compiler) StructureToMJML(structure *Structure) string {
	var b strings.Builder
	b.WriteString("<mjml><mj-body>")
	for i := range structure.Rows {
		c.writeRow(&b, &structure.Rows[i])
	}
	b.WriteString("</mj-body></mjml>")
	return b.String()
}

func (c *Compiler) writeRow(b *strings.Builder, row *Row) {
	attrs := newAttrs()
	attrs.add("background-color", stringProp(row.Settings, "backgroundColor", ""))
	attrs.add("padding", stringProp(row.Settings, "padding", ""))
	b.WriteString("<mj-section" + attrs.String() + ">")
	for i := range row.Columns {
		c.writeColumn(b, &row.Columns[i])
	}
	b.WriteString("</mj-section>")
}

func (c *Compiler) writeColumn(b *strings.Builder, column *Column) {
	attrs := newAttrs()
	attrs.add("width", column.Width)
	b.WriteString("<mj-column" + attrs.String() + ">")
	for i := range column.Blocks {
		b.WriteString(c.compileBlock(&column.Blocks[i]))
	}
	b.WriteString("</mj-column>")
}

func (c *Compiler) compileBlock(block *Block) string {
	switch block.Type {
	case BlockTypeHeading:
		return c.compileHeading(block)
	case BlockTypeText:
		return c.compileText(block)
	case BlockTypeButton:
		return c.compileButton(block)
	case BlockTypeImage:
		return c.compileImage(block)
	case BlockTypeDivider:
		return c.compileDivider(block)
	case BlockTypeSpacer:
		return c.compileSpacer(block)
	case BlockTypeHTML:
		return c.compileHTML(block)
	default:
		c.logger.Warn("skipping unknown block type",
			zap.String("block_id", block.ID),
			zap.String("block_type", block.Type))
		return ""
	}
}

// Block content is emitted verbatim: the editor stores rich-text markup in
// content/text properties and mj-text bodies are HTML. Only attribute values
// go through escaping.
func (c *Compiler) compileHeading(block *Block) string {
	attrs := newAttrs()
	attrs.add("font-size", stringProp(block.Styles, "fontSize", "24px"))
	attrs.add("font-weight", stringProp(block.Styles, "fontWeight", "bold"))
	attrs.add("align", stringProp(block.Styles, "align", ""))
	attrs.add("color", stringProp(block.Styles, "color", ""))
	attrs.add("padding", stringProp(block.Styles, "padding", ""))
	content := firstStringProp(block.Properties, "content", "text")
	return "<mj-text" + attrs.String() + ">" + content + "</mj-text>"
}

func (c *Compiler) compileText(block *Block) string {
	attrs := newAttrs()
	attrs.add("font-size", stringProp(block.Styles, "fontSize", ""))
	attrs.add("align", stringProp(block.Styles, "align", ""))
	attrs.add("color", stringProp(block.Styles, "color", ""))
	attrs.add("padding", stringProp(block.Styles, "padding", ""))
	attrs.add("line-height", stringProp(block.Styles, "lineHeight", ""))
	content := firstStringProp(block.Properties, "content", "text")
	return "<mj-text" + attrs.String() + ">" + content + "</mj-text>"
}

func (c *Compiler) compileButton(block *Block) string {
	href := firstStringProp(block.Properties, "href", "url")
	if href == "" {
		href = "#"
	}
	label := firstStringProp(block.Properties, "label", "text")
	if label == "" {
		label = "Click here"
	}
	attrs := newAttrs()
	attrs.add("href", href)
	attrs.add("background-color", stringProp(block.Styles, "backgroundColor", ""))
	attrs.add("color", stringProp(block.Styles, "color", ""))
	attrs.add("font-size", stringProp(block.Styles, "fontSize", ""))
	attrs.add("font-weight", stringProp(block.Styles, "fontWeight", ""))
	attrs.add("border-radius", stringProp(block.Styles, "borderRadius", ""))
	attrs.add("padding", stringProp(block.Styles, "padding", ""))
	attrs.add("align", stringProp(block.Styles, "align", ""))
	return "<mj-button" + attrs.String() + ">" + label + "</mj-button>"
}

func (c *Compiler) compileImage(block *Block) string {
	attrs := newAttrs()
	attrs.add("src", firstStringProp(block.Properties, "src", "url"))
	attrs.add("alt", stringProp(block.Properties, "alt", ""))
	attrs.add("href", stringProp(block.Properties, "href", ""))
	attrs.add("width", stringProp(block.Styles, "width", ""))
	attrs.add("align", stringProp(block.Styles, "align", ""))
	attrs.add("padding", stringProp(block.Styles, "padding", ""))
	return "<mj-image" + attrs.String() + " />"
}

func (c *Compiler) compileDivider(block *Block) string {
	attrs := newAttrs()
	attrs.add("border-color", stringProp(block.Styles, "borderColor", ""))
	attrs.add("border-width", stringProp(block.Styles, "borderWidth", ""))
	attrs.add("padding", stringProp(block.Styles, "padding", ""))
	return "<mj-divider" + attrs.String() + " />"
}

func (c *Compiler) compileSpacer(block *Block) string {
	height := stringProp(block.Properties, "height", "")
	if height == "" {
		height = stringProp(block.Styles, "height", "20px")
	}
	attrs := newAttrs()
	attrs.add("height", height)
	return "<mj-spacer" + attrs.String() + " />"
}

// compileHTML passes author-supplied markup through untouched. Templates are
// staff-authored, so raw HTML is trusted here the same way it is in the editor.
func (c *Compiler) compileHTML(block *Block) string {
	content := firstStringProp(block.Properties, "html", "content")
	return "<mj-raw>" + content + "</mj-raw>"
}

// attrList renders MJML attributes in insertion order, skipping empty values
// so absent styles produce no attribute at all.
type attrList struct {
	pairs []string
}

func newAttrs() *attrList {
	return &attrList{}
}

func (a *attrList) add(name, value string) {
	if value == "" {
		return
	}
	a.pairs = append(a.pairs, fmt.Sprintf(`%s=%q`, name, html.EscapeString(value)))
}

func (a *attrList) String() string {
	if len(a.pairs) == 0 {
		return ""
	}
	return " " + strings.Join(a.pairs, " ")
}

func stringProp(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func firstStringProp(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringProp(m, key, ""); v != "" {
			return v
		}
	}
	return ""
}
