package mailbuilder

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

// WithChrome returns a copy of the structure wrapped in the site's standard
// header and footer. The input is never mutated; callers keep the stored
// template intact.
func WithChrome(structure *Structure, settings *domain.SiteSettings) (*Structure, error) {
	wrapped, err := cloneStructure(structure)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return wrapped, nil
	}

	if header := headerRow(settings); header != nil {
		wrapped.Rows = append([]Row{*header}, wrapped.Rows...)
	}
	wrapped.Rows = append(wrapped.Rows, footerRows(settings)...)
	return wrapped, nil
}

func cloneStructure(structure *Structure) (*Structure, error) {
	raw, err := json.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("clone structure: %w", err)
	}
	var clone Structure
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("clone structure: %w", err)
	}
	return &clone, nil
}

func headerRow(settings *domain.SiteSettings) *Row {
	if settings.LogoPath == "" {
		return nil
	}
	src := settings.LogoPath
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		src = strings.TrimRight(settings.BaseURL, "/") + "/" + strings.TrimLeft(settings.LogoPath, "/")
	}
	return &Row{
		ID: "chrome-header",
		Columns: []Column{{
			Blocks: []Block{{
				ID:   "chrome-logo",
				Type: BlockTypeImage,
				Properties: map[string]any{
					"src": src,
					"alt": settings.CompanyName,
				},
				Styles: map[string]any{
					"width": "160px",
					"align": "center",
				},
			}},
		}},
	}
}

func footerRows(settings *domain.SiteSettings) []Row {
	blocks := []Block{{
		ID:   "chrome-footer-divider",
		Type: BlockTypeDivider,
		Styles: map[string]any{
			"borderColor": "#e0e0e0",
			"borderWidth": "1px",
		},
	}}

	var contact []string
	if settings.CompanyName != "" {
		contact = append(contact, settings.CompanyName)
	}
	if settings.ContactEmail != "" {
		contact = append(contact, settings.ContactEmail)
	}
	if settings.ContactPhone != "" {
		contact = append(contact, settings.ContactPhone)
	}
	if len(contact) > 0 {
		blocks = append(blocks, Block{
			ID:   "chrome-footer-contact",
			Type: BlockTypeText,
			Properties: map[string]any{
				"text": strings.Join(contact, " | "),
			},
			Styles: map[string]any{
				"align":    "center",
				"fontSize": "12px",
				"color":    "#888888",
			},
		})
	}

	if len(settings.SocialLinks) > 0 {
		names := make([]string, 0, len(settings.SocialLinks))
		for name := range settings.SocialLinks {
			names = append(names, name)
		}
		sort.Strings(names)
		var links []string
		for _, name := range names {
			links = append(links, fmt.Sprintf(`<a href=%q>%s</a>`, settings.SocialLinks[name], name))
		}
		blocks = append(blocks, Block{
			ID:   "chrome-footer-social",
			Type: BlockTypeHTML,
			Properties: map[string]any{
				"html": `<p style="text-align:center;font-size:12px">` + strings.Join(links, " &middot; ") + "</p>",
			},
		})
	}

	unsubscribeURL := strings.TrimRight(settings.BaseURL, "/") + "/unsubscribe?token={{unsubscribeToken}}"
	blocks = append(blocks, Block{
		ID:   "chrome-footer-unsubscribe",
		Type: BlockTypeHTML,
		Properties: map[string]any{
			"html": fmt.Sprintf(`<p style="text-align:center;font-size:11px"><a href=%q>Unsubscribe</a></p>`, unsubscribeURL),
		},
	})

	return []Row{{
		ID:      "chrome-footer",
		Columns: []Column{{Blocks: blocks}},
	}}
}
