package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site holds the landing page content
type Site struct {
	Name         string   `yaml:"name"`
	Bio          []string `yaml:"bio"`
	Intro        string   `yaml:"intro"`
	ContactEmail string   `yaml:"contact_email"`
	PartnerURL   string   `yaml:"partner_url"`
	PartnerLogo  string   `yaml:"partner_logo"`
}

// DefaultSite returns the built-in profile
func DefaultSite() Site {
	return Site{
		Name: "Aleem",
		Bio: []string{
			"Aleem is an interior designer based in Dubai. With years of experience in designing " +
				"residential and commercial spaces, Aleem blends creativity with functional solutions " +
				"to bring clients' visions to life. His design philosophy balances aesthetics with " +
				"comfort, making every project both visually striking and practical.",
		},
		Intro:        "Here are some of our favorite works so far.",
		ContactEmail: "not_ayan99@gmail.com",
		PartnerURL:   "https://lumalabs.ai",
		PartnerLogo:  "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/LumaLogo%201-MA3upjPymxFHKoHJgpdAUfZMeKGq3i.png",
	}
}

// LoadSite reads a YAML site profile; fields missing from the file keep their defaults.
// An empty path returns the defaults.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return site, fmt.Errorf("failed to read site config: %w", err)
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return site, fmt.Errorf("failed to parse site config: %w", err)
	}
	if site.ContactEmail == "" {
		return site, fmt.Errorf("site config: contact_email is required")
	}
	return site, nil
}
