package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EscalationRuleSummary is the API projection of an escalation rule.
type EscalationRuleSummary struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	IsActive        bool                  `json:"is_active"`
	SortOrder       int                   `json:"sort_order"`
	MaxApplications int                   `json:"max_applications"`
	Conditions      domain.RuleConditions `json:"conditions"`
	Actions         domain.RuleActions    `json:"actions"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// SaveEscalationRuleRequest creates or updates a rule.
type SaveEscalationRuleRequest struct {
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	IsActive        bool                  `json:"is_active"`
	SortOrder       int                   `json:"sort_order"`
	MaxApplications int                   `json:"max_applications"`
	Conditions      domain.RuleConditions `json:"conditions"`
	Actions         domain.RuleActions    `json:"actions"`
}

// FromRule maps a domain rule to its summary projection.
func FromRule(rule *domain.EscalationRule) EscalationRuleSummary {
	return EscalationRuleSummary{
		ID:              rule.ID,
		Name:            rule.Name,
		Description:     rule.Description,
		IsActive:        rule.IsActive,
		SortOrder:       rule.SortOrder,
		MaxApplications: rule.MaxApplications,
		Conditions:      rule.Conditions,
		Actions:         rule.Actions,
		CreatedAt:       rule.CreatedAt,
		UpdatedAt:       rule.UpdatedAt,
	}
}

// SiteSettingsRequest updates the site chrome settings.
type SiteSettingsRequest struct {
	BaseURL      string            `json:"base_url"`
	LogoPath     string            `json:"logo_path"`
	CompanyName  string            `json:"company_name"`
	ContactEmail string            `json:"contact_email"`
	ContactPhone string            `json:"contact_phone"`
	SocialLinks  map[string]string `json:"social_links"`
}
