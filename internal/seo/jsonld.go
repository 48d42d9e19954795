package seo

import (
	"encoding/json"
	"html/template"

	"github.com/biemme2/biemme2-site/internal/content"
)

// PostalAddress is a schema.org PostalAddress.
type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

// GeoCoordinates is a schema.org GeoCoordinates.
type GeoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ContactPoint is a schema.org ContactPoint.
type ContactPoint struct {
	Type              string   `json:"@type"`
	Telephone         string   `json:"telephone"`
	ContactType       string   `json:"contactType"`
	AvailableLanguage []string `json:"availableLanguage,omitempty"`
}

// OpeningHours is a schema.org OpeningHoursSpecification.
type OpeningHours struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

// OrganizationSchema is the JSON-LD for the company.
type OrganizationSchema struct {
	Context       string          `json:"@context"`
	Type          string          `json:"@type"`
	ID            string          `json:"@id,omitempty"`
	Name          string          `json:"name"`
	AlternateName string          `json:"alternateName,omitempty"`
	URL           string          `json:"url"`
	Logo          string          `json:"logo,omitempty"`
	Image         string          `json:"image,omitempty"`
	Description   string          `json:"description,omitempty"`
	FoundingDate  string          `json:"foundingDate,omitempty"`
	Telephone     string          `json:"telephone,omitempty"`
	Email         string          `json:"email,omitempty"`
	VATID         string          `json:"vatID,omitempty"`
	Address       *PostalAddress  `json:"address,omitempty"`
	Geo           *GeoCoordinates `json:"geo,omitempty"`
	ContactPoint  *ContactPoint   `json:"contactPoint,omitempty"`
	OpeningHours  []OpeningHours  `json:"openingHoursSpecification,omitempty"`
	SameAs        []string        `json:"sameAs,omitempty"`
}

// BreadcrumbSchema represents JSON-LD BreadcrumbList structured data.
type BreadcrumbSchema struct {
	Context  string           `json:"@context"`
	Type     string           `json:"@type"`
	ItemList []BreadcrumbItem `json:"itemListElement"`
}

// BreadcrumbItem represents a single breadcrumb item.
type BreadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// ServiceSchema describes one service offered.
type ServiceSchema struct {
	Context     string              `json:"@context"`
	Type        string              `json:"@type"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Provider    *OrganizationSchema `json:"provider,omitempty"`
	AreaServed  map[string]string   `json:"areaServed,omitempty"`
}

// Company facts not carried by the footer document.
const (
	companyLegalName = "BIEMME 2 S.r.l."
	foundingYear     = "1986"
	postalCode       = "24050"
	region           = "BG"
)

// companyCoords is the yard in Morengo, used when the contact page has no
// map coordinates.
var companyCoords = content.Coordinates{Lat: 45.5352, Lng: 9.6943}

// BuildOrganizationSchema describes the company as a GeneralContractor
// from the resolved footer. coords may be nil.
func BuildOrganizationSchema(f content.Footer, coords *content.Coordinates, site SiteConfig) template.JS {
	if coords == nil || (coords.Lat == 0 && coords.Lng == 0) {
		coords = &companyCoords
	}
	social := make([]string, 0, len(f.Social))
	for _, s := range f.Social {
		if s.URL != "" {
			social = append(social, s.URL)
		}
	}
	org := OrganizationSchema{
		Context:       "https://schema.org",
		Type:          "GeneralContractor",
		ID:            site.SiteURL,
		Name:          companyLegalName,
		AlternateName: site.SiteName,
		URL:           site.SiteURL,
		Logo:          site.SiteURL + "/img/logo.png",
		Image:         makeAbsoluteURL(site.DefaultOGImage, site.SiteURL),
		Description:   f.CompanyInfo.Description,
		FoundingDate:  foundingYear,
		Telephone:     f.Contact.Phone,
		Email:         f.Contact.Email,
		VATID:         f.Contact.VATNumber,
		Address: &PostalAddress{
			Type:            "PostalAddress",
			StreetAddress:   f.Contact.Address,
			AddressLocality: cityName(f.Contact.City),
			AddressRegion:   region,
			PostalCode:      postalCode,
			AddressCountry:  "IT",
		},
		Geo: &GeoCoordinates{Type: "GeoCoordinates", Latitude: coords.Lat, Longitude: coords.Lng},
		ContactPoint: &ContactPoint{
			Type:              "ContactPoint",
			Telephone:         f.Contact.Phone,
			ContactType:       "customer service",
			AvailableLanguage: []string{"Italian"},
		},
		OpeningHours: []OpeningHours{{
			Type:      "OpeningHoursSpecification",
			DayOfWeek: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			Opens:     "08:00",
			Closes:    "18:00",
		}},
		SameAs: social,
	}
	return marshalJSONLD(org)
}

// BuildBreadcrumbSchema returns Home > name for an inner page.
func BuildBreadcrumbSchema(name, path string, site SiteConfig) template.JS {
	items := []BreadcrumbItem{{Type: "ListItem", Position: 1, Name: "Home", Item: site.SiteURL}}
	if path != "" && path != "/" {
		items = append(items, BreadcrumbItem{Type: "ListItem", Position: 2, Name: name, Item: site.SiteURL + path})
	}
	return marshalJSONLD(BreadcrumbSchema{Context: "https://schema.org", Type: "BreadcrumbList", ItemList: items})
}

// BuildServiceSchemas returns one Service object per service on the page.
func BuildServiceSchemas(services []content.Service, site SiteConfig) template.JS {
	provider := &OrganizationSchema{Type: "Organization", Name: companyLegalName, URL: site.SiteURL}
	list := make([]ServiceSchema, 0, len(services))
	for _, s := range services {
		list = append(list, ServiceSchema{
			Context:     "https://schema.org",
			Type:        "Service",
			Name:        s.Title,
			Description: s.Excerpt,
			URL:         site.SiteURL + "/servizi#" + s.Slug,
			Provider:    provider,
			AreaServed:  map[string]string{"@type": "State", "name": "Lombardia"},
		})
	}
	return marshalJSONLD(list)
}

// cityName strips the postal code and province from "24050 Morengo (BG)".
func cityName(city string) string {
	name := city
	if len(name) > 6 && name[5] == ' ' && isDigits(name[:5]) {
		name = name[6:]
	}
	if i := len(name) - 5; i > 0 && name[i] == ' ' && name[i+1] == '(' && name[len(name)-1] == ')' {
		name = name[:i]
	}
	return name
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// marshalJSONLD marshals structured data for a <script type="application/ld+json">.
func marshalJSONLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(data)
}
