package mailbuilder

// Structure is the stored JSON document an email template editor produces.
// It is a grid of rows and columns whose cells hold typed content blocks.
type Structure struct {
	Rows     []Row          `json:"rows"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Row is one horizontal band of the email.
type Row struct {
	ID       string         `json:"id,omitempty"`
	Columns  []Column       `json:"columns"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Column is one cell inside a row. Width is a CSS width like "50%".
type Column struct {
	ID     string  `json:"id,omitempty"`
	Width  string  `json:"width,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Block is a typed content unit. Properties carry the content (text, url,
// src); Styles carry presentation (color, fontSize, align).
type Block struct {
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Styles     map[string]any `json:"styles,omitempty"`
}

// Block types understood by the compiler.
const (
	BlockTypeHeading = "heading"
	BlockTypeText    = "text"
	BlockTypeButton  = "button"
	BlockTypeImage   = "image"
	BlockTypeDivider = "divider"
	BlockTypeSpacer  = "spacer"
	BlockTypeHTML    = "html"
)
