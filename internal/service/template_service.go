package service

import (
	"context"

	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/mailbuilder"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/tokens"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// CompileOptions control one compilation pass.
type CompileOptions struct {
	// IncludeChrome wraps the structure in the site header and footer.
	IncludeChrome bool
	// Data binds {{identifier}} placeholders in the rendered document.
	Data map[string]any
	// SubscriberID and SubscriberEmail, when set, resolve the footer's
	// {{unsubscribeToken}} placeholder with a signed token.
	SubscriberID    string
	SubscriberEmail string
}

// CompiledEmail is the result of a compilation pass.
type CompiledEmail struct {
	MJML string `json:"mjml"`
	HTML string `json:"html"`
}

// TemplateService compiles stored email structures into HTML documents.
type TemplateService struct {
	compiler     *mailbuilder.Compiler
	renderer     mailbuilder.Renderer
	siteSettings repository.SiteSettingsRepository
	unsubscribe  *tokens.Manager
	logger       *zap.Logger
}

// TemplateDependencies bundles collaborators for the template service.
type TemplateDependencies struct {
	Compiler     *mailbuilder.Compiler
	Renderer     mailbuilder.Renderer
	SiteSettings repository.SiteSettingsRepository
	Unsubscribe  *tokens.Manager
	Logger       *zap.Logger
}

// NewTemplateService constructs the service.
func NewTemplateService(deps TemplateDependencies) *TemplateService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	compiler := deps.Compiler
	if compiler == nil {
		compiler = mailbuilder.NewCompiler(logger)
	}
	return &TemplateService{
		compiler:     compiler,
		renderer:     deps.Renderer,
		siteSettings: deps.SiteSettings,
		unsubscribe:  deps.Unsubscribe,
		logger:       logger,
	}
}

// Compile turns a structure into MJML and rendered HTML. Placeholder binding
// happens on the rendered document so bound values never pass through the
// MJML engine.
func (s *TemplateService) Compile(ctx context.Context, structure *mailbuilder.Structure, opts CompileOptions) (*CompiledEmail, error) {
	if structure == nil {
		return nil, apperrors.NewValidationError("structure is required", nil)
	}

	working := structure
	if opts.IncludeChrome {
		settings, err := s.loadSiteSettings(ctx)
		if err != nil {
			return nil, err
		}
		working, err = mailbuilder.WithChrome(structure, settings)
		if err != nil {
			return nil, apperrors.NewCompilationFailed(err)
		}
	}

	mjml := s.compiler.StructureToMJML(working)

	html := mjml
	if s.renderer != nil {
		rendered, err := s.renderer.Render(ctx, mjml)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		html = rendered
	}

	data, err := s.bindingData(opts)
	if err != nil {
		return nil, err
	}
	html = mailbuilder.Interpolate(html, data)

	return &CompiledEmail{MJML: mjml, HTML: html}, nil
}

// bindingData merges caller data with the resolved unsubscribe token.
func (s *TemplateService) bindingData(opts CompileOptions) (map[string]any, error) {
	if opts.SubscriberID == "" || s.unsubscribe == nil {
		return opts.Data, nil
	}
	token, err := s.unsubscribe.Generate(opts.SubscriberID, opts.SubscriberEmail)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	data := make(map[string]any, len(opts.Data)+1)
	for k, v := range opts.Data {
		data[k] = v
	}
	data["unsubscribeToken"] = token
	return data, nil
}

// loadSiteSettings tolerates a missing settings row: chrome degrades to the
// bare structure rather than failing the compile.
func (s *TemplateService) loadSiteSettings(ctx context.Context) (*domain.SiteSettings, error) {
	if s.siteSettings == nil {
		return nil, nil
	}
	settings, err := s.siteSettings.Get(ctx)
	if err != nil {
		mapped := apperrors.MapError(err)
		var domainErr *apperrors.DomainError
		if errors.As(mapped, &domainErr) && domainErr.Code == "NOT_FOUND" {
			s.logger.Debug("no site settings configured, skipping chrome")
			return nil, nil
		}
		return nil, mapped
	}
	return settings, nil
}
