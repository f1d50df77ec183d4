package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/mailbuilder"
	"github.com/spec-kit/support-desk/internal/tokens"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

func simpleStructure(text string) *mailbuilder.Structure {
	return &mailbuilder.Structure{
		Rows: []mailbuilder.Row{{
			Columns: []mailbuilder.Column{{
				Blocks: []mailbuilder.Block{{
					Type:       mailbuilder.BlockTypeText,
					Properties: map[string]any{"text": text},
				}},
			}},
		}},
	}
}

func TestCompileRendersStructure(t *testing.T) {
	renderer := &fakeRenderer{html: "<html>rendered</html>"}
	svc := NewTemplateService(TemplateDependencies{Renderer: renderer})

	result, err := svc.Compile(context.Background(), simpleStructure("Hello"), CompileOptions{})
	require.NoError(t, err)

	assert.Contains(t, result.MJML, ">Hello</mj-text>")
	assert.Equal(t, "<html>rendered</html>", result.HTML)
	assert.Equal(t, result.MJML, renderer.lastMJML)
}

func TestCompileNilStructureRejected(t *testing.T) {
	svc := NewTemplateService(TemplateDependencies{})
	_, err := svc.Compile(context.Background(), nil, CompileOptions{})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCompileInterpolatesRenderedDocument(t *testing.T) {
	renderer := &fakeRenderer{html: "<html>Hello {{name}}, {{missing}}</html>"}
	svc := NewTemplateService(TemplateDependencies{Renderer: renderer})

	result, err := svc.Compile(context.Background(), simpleStructure("x"), CompileOptions{
		Data: map[string]any{"name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<html>Hello Ada, {{missing}}</html>", result.HTML)
}

func TestCompileWithChromeUsesSiteSettings(t *testing.T) {
	renderer := &fakeRenderer{}
	settingsRepo := &fakeSiteSettingsRepo{settings: &domain.SiteSettings{
		BaseURL:     "https://desk.example.com",
		CompanyName: "Example Desk",
	}}
	svc := NewTemplateService(TemplateDependencies{
		Renderer:     renderer,
		SiteSettings: settingsRepo,
	})

	result, err := svc.Compile(context.Background(), simpleStructure("body"), CompileOptions{IncludeChrome: true})
	require.NoError(t, err)
	assert.Contains(t, result.MJML, "Example Desk")
	assert.Contains(t, result.MJML, "/unsubscribe?token=")
}

func TestCompileWithChromeMissingSettingsDegrades(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewTemplateService(TemplateDependencies{
		Renderer:     renderer,
		SiteSettings: &fakeSiteSettingsRepo{},
	})

	result, err := svc.Compile(context.Background(), simpleStructure("body"), CompileOptions{IncludeChrome: true})
	require.NoError(t, err)
	assert.Contains(t, result.MJML, ">body</mj-text>")
	assert.NotContains(t, result.MJML, "unsubscribe")
}

func TestCompileResolvesUnsubscribeToken(t *testing.T) {
	manager := tokens.NewManager("test-secret", time.Hour)
	renderer := &fakeRenderer{html: `<a href="https://desk.example.com/unsubscribe?token={{unsubscribeToken}}">Unsubscribe</a>`}
	svc := NewTemplateService(TemplateDependencies{
		Renderer:    renderer,
		Unsubscribe: manager,
	})

	result, err := svc.Compile(context.Background(), simpleStructure("x"), CompileOptions{
		SubscriberID:    "sub-9",
		SubscriberEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.NotContains(t, result.HTML, "{{unsubscribeToken}}")

	// The embedded token must verify and carry the subscriber.
	start := len(`<a href="https://desk.example.com/unsubscribe?token=`)
	end := len(result.HTML) - len(`">Unsubscribe</a>`)
	claims, err := manager.Parse(result.HTML[start:end])
	require.NoError(t, err)
	assert.Equal(t, "sub-9", claims.SubscriberID)
}

func TestCompileRendererFailurePropagates(t *testing.T) {
	renderer := &fakeRenderer{err: apperrors.NewCompilationFailed(errors.New("engine down"))}
	svc := NewTemplateService(TemplateDependencies{Renderer: renderer})

	_, err := svc.Compile(context.Background(), simpleStructure("x"), CompileOptions{})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "COMPILATION_FAILED", domainErr.Code)
	assert.Equal(t, 422, domainErr.HTTPStatus)
}

func TestCompileWithoutRendererReturnsMJMLAsHTML(t *testing.T) {
	svc := NewTemplateService(TemplateDependencies{})
	result, err := svc.Compile(context.Background(), simpleStructure("x"), CompileOptions{})
	require.NoError(t, err)
	assert.Equal(t, result.MJML, result.HTML)
}
