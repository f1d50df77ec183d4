package domain

import "time"

// SiteSettings backs email chrome injection (header logo, footer contact block).
type SiteSettings struct {
	ID           string
	BaseURL      string
	LogoPath     string
	CompanyName  string
	ContactEmail string
	ContactPhone string
	// SocialLinks maps platform name to profile URL; only configured
	// platforms render in the footer.
	SocialLinks map[string]string
	UpdatedAt   time.Time
}
