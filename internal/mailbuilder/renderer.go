package mailbuilder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// Renderer turns MJML markup into final HTML.
type Renderer interface {
	Render(ctx context.Context, mjml string) (string, error)
}

// RenderWarning is a non-fatal validation message from the MJML engine.
type RenderWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	TagName string `json:"tagName"`
}

type renderRequest struct {
	MJML            string `json:"mjml"`
	ValidationLevel string `json:"validationLevel"`
	Minify          bool   `json:"minify"`
}

type renderResponse struct {
	HTML   string          `json:"html"`
	Errors []RenderWarning `json:"errors"`
}

// HTTPRenderer calls an external MJML rendering service. Validation is soft:
// engine warnings are logged, only transport and engine failures surface as
// compilation errors.
type HTTPRenderer struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPRenderer constructs a renderer against the given endpoint.
func NewHTTPRenderer(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPRenderer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Ping renders an empty document to verify the engine is reachable. Used by
// the readiness probe.
func (r *HTTPRenderer) Ping(ctx context.Context) error {
	_, err := r.Render(ctx, "<mjml><mj-body></mj-body></mjml>")
	return err
}

// Render posts the MJML document and returns the rendered HTML.
func (r *HTTPRenderer) Render(ctx context.Context, mjml string) (string, error) {
	body, err := json.Marshal(renderRequest{
		MJML:            mjml,
		ValidationLevel: "soft",
		Minify:          false,
	})
	if err != nil {
		return "", apperrors.NewCompilationFailed(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewCompilationFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", apperrors.NewCompilationFailed(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", apperrors.NewCompilationFailed(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewCompilationFailed(fmt.Errorf("mjml renderer returned status %d", resp.StatusCode))
	}

	var result renderResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", apperrors.NewCompilationFailed(err)
	}
	if result.HTML == "" {
		return "", apperrors.NewCompilationFailed(fmt.Errorf("mjml renderer returned empty document"))
	}
	for _, warning := range result.Errors {
		r.logger.Warn("mjml validation warning",
			zap.Int("line", warning.Line),
			zap.String("tag", warning.TagName),
			zap.String("message", warning.Message))
	}
	return result.HTML, nil
}
