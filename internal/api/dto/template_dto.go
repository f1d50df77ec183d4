package dto

import "github.com/spec-kit/support-desk/internal/mailbuilder"

// CompileTemplateRequest compiles a stored structure into MJML and HTML.
type CompileTemplateRequest struct {
	Structure     *mailbuilder.Structure `json:"structure"`
	IncludeChrome bool                   `json:"include_chrome"`
	Data          map[string]any         `json:"data"`
}

// PreviewTemplateRequest additionally resolves the unsubscribe placeholder
// for a concrete recipient.
type PreviewTemplateRequest struct {
	CompileTemplateRequest
	SubscriberID    string `json:"subscriber_id"`
	SubscriberEmail string `json:"subscriber_email"`
}
