// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// SEO is the per-page metadata block.
type SEO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OGImage     *MediaRef `json:"ogImage,omitempty"`
}

// Link is a label/href pair.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Hero is the heading block shared by the inner pages.
type Hero struct {
	Badge       string `json:"badge"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Card is an icon card (feature, pillar, benefit, value).
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// CTASection is the closing call-to-action band.
type CTASection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonLabel string `json:"buttonLabel"`
	ButtonHref  string `json:"buttonHref"`
	Phone       string `json:"phone,omitempty"`
}

// HomePage is the home-page global.
type HomePage struct {
	SEO               SEO               `json:"seo"`
	HeroSlider        HeroSlider        `json:"heroSlider"`
	FeaturesSection   FeaturesSection   `json:"featuresSection"`
	StatsSection      StatsSection      `json:"statsSection"`
	HighlightsSection HighlightsSection `json:"highlightsSection"`
	CTASection        CTASection        `json:"ctaSection"`
}

// HeroSlider is the rotating hero of the home page.
type HeroSlider struct {
	Badge            string      `json:"badge"`
	Slides           []HeroSlide `json:"slides"`
	SecondaryCTA     Link        `json:"secondaryCta"`
	AutoplayInterval int         `json:"autoplayInterval"` // milliseconds
}

// HeroSlide is one slide of the hero slider.
type HeroSlide struct {
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle"`
	Description    string    `json:"description,omitempty"`
	Image          *MediaRef `json:"image,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	MobileImageURL string    `json:"mobileImageUrl,omitempty"`
	CTAText        string    `json:"ctaText,omitempty"`
	CTAHref        string    `json:"ctaHref,omitempty"`
}

type FeaturesSection struct {
	Subtitle    string `json:"subtitle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Features    []Card `json:"features"`
}

type StatsSection struct {
	Stats []Stat `json:"stats"`
}

// Stat is a counter such as "40+ Anni di Esperienza".
type Stat struct {
	Value  string `json:"value"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
	Label  string `json:"label"`
}

type HighlightsSection struct {
	Highlights []Highlight `json:"highlights"`
}

type Highlight struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// ServiziPage is the servizi-page global.
type ServiziPage struct {
	SEO              SEO              `json:"seo"`
	Hero             Hero             `json:"hero"`
	ServicesSection  ServicesSection  `json:"servicesSection"`
	PillarsSection   CardsSection     `json:"pillarsSection"`
	BenefitsSection  CardsSection     `json:"benefitsSection"`
	MachinerySection MachinerySection `json:"machinerySection"`
	CTASection       CTASection       `json:"ctaSection"`
}

type ServicesSection struct {
	Services []Service `json:"services"`
}

// Service is one of the company's specializations.
type Service struct {
	Title    string           `json:"title"`
	Slug     string           `json:"slug"`
	Excerpt  string           `json:"excerpt,omitempty"`
	Icon     string           `json:"icon,omitempty"`
	Image    *MediaRef        `json:"image,omitempty"`
	Features []ServiceFeature `json:"features,omitempty"`
}

type ServiceFeature struct {
	Title string `json:"title"`
}

// CardsSection is a titled list of cards. The CMS names the list field
// per section (pillars, benefits), so the JSON carries both keys and only
// one is populated.
type CardsSection struct {
	Subtitle string `json:"subtitle"`
	Title    string `json:"title"`
	Pillars  []Card `json:"pillars,omitempty"`
	Benefits []Card `json:"benefits,omitempty"`
}

// Items returns whichever card list the section carries.
func (s CardsSection) Items() []Card {
	if len(s.Pillars) > 0 {
		return s.Pillars
	}
	return s.Benefits
}

type MachinerySection struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Machinery   []Machine `json:"machinery"`
}

type Machine struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Image       *MediaRef `json:"image,omitempty"`
}

// AziendaPage is the azienda-page global.
type AziendaPage struct {
	SEO                   SEO                   `json:"seo"`
	Hero                  Hero                  `json:"hero"`
	StoriaSection         StoriaSection         `json:"storiaSection"`
	ValoriSection         ValoriSection         `json:"valoriSection"`
	OrganigrammaSection   OrganigrammaSection   `json:"organigrammaSection"`
	TeamSection           TeamSection           `json:"teamSection"`
	CertificazioniSection CertificazioniSection `json:"certificazioniSection"`
}

type StoriaSection struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Timeline    []TimelineEntry `json:"timeline"`
}

type TimelineEntry struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type ValoriSection struct {
	Title  string `json:"title"`
	Values []Card `json:"values"`
}

type OrganigrammaSection struct {
	Title     string    `json:"title"`
	Direzione OrgUnit   `json:"direzione"`
	Aree      []OrgUnit `json:"aree"`
}

type OrgUnit struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type TeamSection struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Members     []TeamMember `json:"members"`
}

type TeamMember struct {
	Name  string    `json:"name"`
	Role  string    `json:"role"`
	Bio   string    `json:"bio,omitempty"`
	Photo *MediaRef `json:"photo,omitempty"`
}

type CertificazioniSection struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Certifications []Certification `json:"certifications"`
}

type Certification struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Image       *MediaRef `json:"image,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

// ContattiPage is the contatti-page global.
type ContattiPage struct {
	SEO         SEO         `json:"seo"`
	Hero        Hero        `json:"hero"`
	ContactInfo ContactInfo `json:"contactInfo"`
	FormSection FormSection `json:"formSection"`
	MapSection  MapSection  `json:"mapSection"`
}

type ContactInfo struct {
	SedeTitle     string `json:"sedeTitle"`
	Address       string `json:"address"`
	City          string `json:"city"`
	TelefonoTitle string `json:"telefonoTitle"`
	Phone         string `json:"phone"`
	MobilePhone   string `json:"mobilePhone"`
	EmailTitle    string `json:"emailTitle"`
	Email         string `json:"email"`
	Orari         string `json:"orari"`
}

type FormSection struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Servizi        []Option `json:"servizi"`
	SubmitLabel    string   `json:"submitLabel"`
	SuccessMessage string   `json:"successMessage"`
}

// Option is a select option of the contact form.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type MapSection struct {
	Title       string      `json:"title"`
	EmbedURL    string      `json:"embedUrl"`
	Coordinates Coordinates `json:"coordinates"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LegalHeader heads the privacy and cookie policies.
type LegalHeader struct {
	Badge      string `json:"badge"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	LastUpdate string `json:"lastUpdate"`
}

// PrivacyPage is the privacy-page global.
type PrivacyPage struct {
	SEO         SEO                `json:"seo"`
	Header      LegalHeader        `json:"header"`
	CompanyInfo PrivacyCompanyInfo `json:"companyInfo"`
	Sections    []PrivacySection   `json:"sections"`
}

type PrivacyCompanyInfo struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	VATNumber string `json:"vatNumber"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type PrivacySection struct {
	Title   string   `json:"title"`
	Content RichText `json:"content"`
}

// CookiePage is the cookie-page global.
type CookiePage struct {
	SEO                SEO                 `json:"seo"`
	Header             LegalHeader         `json:"header"`
	CompanyInfo        CookieCompanyInfo   `json:"companyInfo"`
	CookieTypes        []CookieType        `json:"cookieTypes"`
	ThirdPartyServices []ThirdPartyService `json:"thirdPartyServices"`
	BrowserLinks       []BrowserLink       `json:"browserLinks"`
}

type CookieCompanyInfo struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

type CookieType struct {
	Category        string        `json:"category"`
	Description     string        `json:"description,omitempty"`
	RequiresConsent bool          `json:"requiresConsent"`
	Cookies         []CookieEntry `json:"cookies,omitempty"`
}

type CookieEntry struct {
	Name     string `json:"name"`
	Purpose  string `json:"purpose,omitempty"`
	Duration string `json:"duration,omitempty"`
	Provider string `json:"provider,omitempty"`
}

type ThirdPartyService struct {
	Name       string `json:"name"`
	PrivacyURL string `json:"privacyUrl,omitempty"`
}

type BrowserLink struct {
	Browser string `json:"browser"`
	URL     string `json:"url"`
}

// Header is the shared site header global.
type Header struct {
	Logo       Logo      `json:"logo"`
	Navigation []NavItem `json:"navigation"`
	CTA        HeaderCTA `json:"cta"`
}

type Logo struct {
	Image *MediaRef `json:"image,omitempty"`
	Alt   string    `json:"alt"`
}

type NavItem struct {
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	Children []NavChild `json:"children,omitempty"`
}

type NavChild struct {
	Label       string `json:"label"`
	Href        string `json:"href"`
	Description string `json:"description,omitempty"`
}

type HeaderCTA struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Phone string `json:"phone"`
}

// Footer is the shared site footer global.
type Footer struct {
	CompanyInfo FooterCompany  `json:"companyInfo"`
	Contact     FooterContact  `json:"contact"`
	Columns     []FooterColumn `json:"columns"`
	Social      []SocialLink   `json:"social,omitempty"`
	Legal       FooterLegal    `json:"legal"`
}

type FooterCompany struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        *MediaRef `json:"logo,omitempty"`
}

type FooterContact struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	MobilePhone string `json:"mobilePhone"`
	Email       string `json:"email"`
	PEC         string `json:"pec,omitempty"`
	VATNumber   string `json:"vatNumber"`
}

type FooterColumn struct {
	Title string `json:"title"`
	Links []Link `json:"links"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type FooterLegal struct {
	Copyright string `json:"copyright,omitempty"`
	Links     []Link `json:"links"`
}
