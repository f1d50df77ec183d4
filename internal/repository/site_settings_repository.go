package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// SiteSettingsRepository stores the single site-settings record backing
// email chrome injection.
type SiteSettingsRepository interface {
	Get(ctx context.Context) (*domain.SiteSettings, error)
	Upsert(ctx context.Context, settings *domain.SiteSettings) error
}

type siteSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSiteSettingsRepository builds repository.
func NewSiteSettingsRepository(pool *pgxpool.Pool) SiteSettingsRepository {
	return &siteSettingsRepository{pool: pool}
}

func (r *siteSettingsRepository) Get(ctx context.Context) (*domain.SiteSettings, error) {
	const query = `
        SELECT id, base_url, logo_path, company_name, contact_email, contact_phone, social_links, updated_at
        FROM site_settings ORDER BY updated_at DESC LIMIT 1`
	var settings domain.SiteSettings
	if err := r.pool.QueryRow(ctx, query).Scan(
		&settings.ID,
		&settings.BaseURL,
		&settings.LogoPath,
		&settings.CompanyName,
		&settings.ContactEmail,
		&settings.ContactPhone,
		&settings.SocialLinks,
		&settings.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *siteSettingsRepository) Upsert(ctx context.Context, settings *domain.SiteSettings) error {
	const query = `
        INSERT INTO site_settings (id, base_url, logo_path, company_name, contact_email, contact_phone, social_links)
        VALUES (COALESCE(NULLIF($1,''), gen_random_uuid()::text), $2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO UPDATE SET
            base_url=EXCLUDED.base_url, logo_path=EXCLUDED.logo_path,
            company_name=EXCLUDED.company_name, contact_email=EXCLUDED.contact_email,
            contact_phone=EXCLUDED.contact_phone, social_links=EXCLUDED.social_links,
            updated_at=NOW()
        RETURNING id, updated_at`
	links := settings.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return r.pool.QueryRow(ctx, query,
		settings.ID,
		settings.BaseURL,
		settings.LogoPath,
		settings.CompanyName,
		settings.ContactEmail,
		settings.ContactPhone,
		links,
	).Scan(&settings.ID, &settings.UpdatedAt)
}
