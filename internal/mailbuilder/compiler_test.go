package mailbuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleBlockStructure(block Block) *Structure {
	return &Structure{
		Rows: []Row{{
			Columns: []Column{{Blocks: []Block{block}}},
		}},
	}
}

func TestStructureToMJMLWrapsDocument(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{})
	assert.Equal(t, "<mjml><mj-body></mj-body></mjml>", mjml)
}

func TestStructureToMJMLTextBlock(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeText,
		Properties: map[string]any{"text": "Hello there"},
		Styles:     map[string]any{"color": "#333333", "fontSize": "14px"},
	}))

	assert.Contains(t, mjml, "<mj-section><mj-column>")
	assert.Contains(t, mjml, `font-size="14px"`)
	assert.Contains(t, mjml, `color="#333333"`)
	assert.Contains(t, mjml, ">Hello there</mj-text>")
}

func TestStructureToMJMLOmitsAbsentAttributes(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeText,
		Properties: map[string]any{"text": "plain"},
	}))

	assert.Contains(t, mjml, "<mj-text>plain</mj-text>")
	assert.NotContains(t, mjml, "color=")
	assert.NotContains(t, mjml, "font-size=")
}

func TestStructureToMJMLTextContentEmittedVerbatim(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeText,
		Properties: map[string]any{"content": "<strong>Hi</strong> &amp; welcome"},
	}))

	assert.Contains(t, mjml, "<mj-text><strong>Hi</strong> &amp; welcome</mj-text>")
	assert.NotContains(t, mjml, "&lt;strong&gt;")
}

func TestStructureToMJMLContentPrecedesLegacyText(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type: BlockTypeText,
		Properties: map[string]any{
			"content": "current",
			"text":    "legacy",
		},
	}))

	assert.Contains(t, mjml, ">current</mj-text>")
	assert.NotContains(t, mjml, "legacy")
}

func TestStructureToMJMLRowSettings(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{
		Rows: []Row{{
			Settings: map[string]any{
				"backgroundColor": "#ff0000",
				"padding":         "20px 0",
			},
			Columns: []Column{{}},
		}},
	})

	assert.Contains(t, mjml, `<mj-section background-color="#ff0000" padding="20px 0">`)
}

func TestStructureToMJMLRowWithoutSettingsHasNoAttributes(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{Rows: []Row{{Columns: []Column{{}}}}})

	assert.Contains(t, mjml, "<mj-section><mj-column>")
}

func TestStructureToMJMLHeadingDefaults(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeHeading,
		Properties: map[string]any{"text": "Welcome"},
	}))

	assert.Contains(t, mjml, `font-size="24px"`)
	assert.Contains(t, mjml, `font-weight="bold"`)
	assert.Contains(t, mjml, ">Welcome</mj-text>")
}

func TestStructureToMJMLButtonFallbacks(t *testing.T) {
	compiler := NewCompiler(nil)

	mjml := compiler.StructureToMJML(singleBlockStructure(Block{Type: BlockTypeButton}))
	assert.Contains(t, mjml, `href="#"`)
	assert.Contains(t, mjml, ">Click here</mj-button>")

	mjml = compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeButton,
		Properties: map[string]any{"url": "https://example.com/t/1", "label": "View ticket"},
	}))
	assert.Contains(t, mjml, `href="https://example.com/t/1"`)
	assert.Contains(t, mjml, ">View ticket</mj-button>")
}

func TestStructureToMJMLButtonHrefPrecedesURL(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type: BlockTypeButton,
		Properties: map[string]any{
			"href": "https://example.com/primary",
			"url":  "https://example.com/secondary",
		},
	}))

	assert.Contains(t, mjml, `href="https://example.com/primary"`)
	assert.NotContains(t, mjml, "secondary")
}

func TestStructureToMJMLButtonStyleAttributes(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeButton,
		Properties: map[string]any{"href": "https://example.com", "label": "Go"},
		Styles: map[string]any{
			"fontSize":     "16px",
			"fontWeight":   "bold",
			"borderRadius": "4px",
			"padding":      "12px 24px",
		},
	}))

	assert.Contains(t, mjml, `font-size="16px"`)
	assert.Contains(t, mjml, `font-weight="bold"`)
	assert.Contains(t, mjml, `border-radius="4px"`)
	assert.Contains(t, mjml, `padding="12px 24px"`)
}

func TestStructureToMJMLImageHref(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type: BlockTypeImage,
		Properties: map[string]any{
			"src":  "https://example.com/logo.png",
			"href": "https://example.com/home",
		},
	}))

	assert.Contains(t, mjml, `src="https://example.com/logo.png"`)
	assert.Contains(t, mjml, `href="https://example.com/home"`)
}

func TestStructureToMJMLBlockPadding(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{
		Rows: []Row{{
			Columns: []Column{{Blocks: []Block{
				{Type: BlockTypeHeading, Properties: map[string]any{"content": "Hi"}, Styles: map[string]any{"padding": "10px"}},
				{Type: BlockTypeDivider, Styles: map[string]any{"padding": "5px 0"}},
			}}},
		}},
	})

	assert.Contains(t, mjml, `padding="10px"`)
	assert.Contains(t, mjml, `<mj-divider padding="5px 0" />`)
}

func TestStructureToMJMLRawHTMLNotEscaped(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(singleBlockStructure(Block{
		Type:       BlockTypeHTML,
		Properties: map[string]any{"html": `<table><tr><td>cell</td></tr></table>`},
	}))

	assert.Contains(t, mjml, "<mj-raw><table><tr><td>cell</td></tr></table></mj-raw>")
}

func TestStructureToMJMLUnknownBlockCompilesToNothing(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{
		Rows: []Row{{
			Columns: []Column{{Blocks: []Block{
				{Type: "carousel", Properties: map[string]any{"text": "ignored"}},
				{Type: BlockTypeText, Properties: map[string]any{"text": "kept"}},
			}}},
		}},
	})

	assert.NotContains(t, mjml, "ignored")
	assert.NotContains(t, mjml, "carousel")
	assert.Contains(t, mjml, ">kept</mj-text>")
}

func TestStructureToMJMLColumnWidth(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{
		Rows: []Row{{
			Columns: []Column{
				{Width: "33%"},
				{Width: "67%"},
			},
		}},
	})

	assert.Contains(t, mjml, `<mj-column width="33%">`)
	assert.Contains(t, mjml, `<mj-column width="67%">`)
}

func TestStructureToMJMLSpacerAndDivider(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{
		Rows: []Row{{
			Columns: []Column{{Blocks: []Block{
				{Type: BlockTypeSpacer},
				{Type: BlockTypeDivider, Styles: map[string]any{"borderColor": "#ccc"}},
			}}},
		}},
	})

	assert.Contains(t, mjml, `<mj-spacer height="20px" />`)
	assert.Contains(t, mjml, `<mj-divider border-color="#ccc" />`)
}

func TestStructureToMJMLRowOrderPreserved(t *testing.T) {
	compiler := NewCompiler(nil)
	mjml := compiler.StructureToMJML(&Structure{
		Rows: []Row{
			{Columns: []Column{{Blocks: []Block{{Type: BlockTypeText, Properties: map[string]any{"text": "first"}}}}}},
			{Columns: []Column{{Blocks: []Block{{Type: BlockTypeText, Properties: map[string]any{"text": "second"}}}}}},
		},
	})

	require.True(t, strings.Index(mjml, "first") < strings.Index(mjml, "second"))
}
