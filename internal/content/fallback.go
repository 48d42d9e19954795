// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// Bundled content used when the CMS is unreachable or a document is
// incomplete. Every constructor builds a new value so callers may mutate
// the result freely.

const (
	companyName    = "BIEMME 2 S.r.l."
	companyEmail   = "info@biemme2.com"
	companyVAT     = "03002360166"
	companyStreet  = "Via Cav. Agliardi, 18"
	companyCity    = "24050 Morengo (BG)"
	companyPhone   = "+39 0363958310"
	legalUpdatedAt = "2024-12-01"
)

// FallbackHomePage returns the bundled home page.
func FallbackHomePage() HomePage {
	return HomePage{
		SEO: SEO{
			Title:       "BIEMME 2 - Costruzioni Edili dal 1986",
			Description: "Costruzioni edili e ristrutturazioni. Oltre 40 anni di esperienza nel settore edilizio in Lombardia.",
		},
		HeroSlider: HeroSlider{
			Badge: "Dal 1986",
			Slides: []HeroSlide{
				{
					Title:          "Costruzioni",
					Subtitle:       "INDUSTRIALI",
					Description:    "La nostra esperienza e la nostra competenza ci permette di realizzare progetti industriali di ogni dimensione e complessità.",
					ImageURL:       "/img/hero-1-opt.webp",
					MobileImageURL: "/img/hero-1-mobile.webp",
					CTAText:        "Scopri di più",
					CTAHref:        "/servizi#industriale",
				},
				{
					Title:          "Costruzioni",
					Subtitle:       "CIVILI",
					Description:    "Il nostro Know how ci permette di realizzare qualsiasi progetto dal disegno all'opera finita, rispettando le esigenze del committente.",
					ImageURL:       "/img/hero-2-opt.webp",
					MobileImageURL: "/img/hero-2-mobile.webp",
					CTAText:        "Scopri di più",
					CTAHref:        "/servizi#residenziale",
				},
				{
					Title:          "Ristrutturazione",
					Subtitle:       "E RESTAURO",
					Description:    "Possiamo ristrutturare e restaurare immobili, in base alle esigenze tecniche richieste.",
					ImageURL:       "/img/hero-3-opt.webp",
					MobileImageURL: "/img/hero-3-mobile.webp",
					CTAText:        "Scopri di più",
					CTAHref:        "/servizi",
				},
			},
			SecondaryCTA:     Link{Label: "Richiedi Preventivo", Href: "/contatti"},
			AutoplayInterval: 6000,
		},
		FeaturesSection: FeaturesSection{
			Subtitle:    "I NOSTRI SERVIZI",
			Title:       "Quello che ti serve",
			Description: "Soluzioni complete per ogni esigenza costruttiva.",
			Features: []Card{
				{
					Title:       "Design e Costruzione",
					Description: "Il nostro team, composto da professionisti del settore, avvalendosi di materiali di qualità e di tecniche costruttive all'avanguardia, garantisce l'esecuzione del progetto con i massimi livelli di qualità.",
					Icon:        "architecture",
				},
				{
					Title:       "Restauro Ristrutturazione",
					Description: "Nel corso degli anni sono stati numerosi i progetti di ristrutturazione e restauro realizzati su palazzi, edifici commerciali o abitazioni. Valorizzare un edificio è un compito che richiede il controllo completo delle attività operative.",
					Icon:        "home_repair_service",
				},
				{
					Title:       "Rapidità Intervento",
					Description: "In caso di necessità possiamo offrire un intervento celere di valutazione attenta e professionale della situazione in essere, al fine di concordare l'intervento migliore in accordo con il cliente.",
					Icon:        "emergency",
				},
			},
		},
		StatsSection: StatsSection{
			Stats: []Stat{
				{Value: "40", Suffix: "+", Label: "Anni di Esperienza"},
				{Value: "200", Suffix: "+", Label: "Appartamenti Realizzati"},
				{Value: "100", Suffix: "%", Label: "Soddisfazione Clienti"},
			},
		},
		HighlightsSection: HighlightsSection{
			Highlights: []Highlight{
				{Title: "Appassionati", Subtitle: "Amiamo ciò che costruiamo.", Icon: "gem"},
				{Title: "Onesti e Trasparenti", Subtitle: "Chiarezza in ogni preventivo.", Icon: "shield"},
				{Title: "Sempre Disponibili", Subtitle: "Il tuo partner di fiducia.", Icon: "users"},
			},
		},
		CTASection: CTASection{
			Title:       "Pronti a Costruire il Tuo Progetto?",
			Description: "Contattaci oggi per una consulenza gratuita e scopri come possiamo realizzare la tua visione.",
			ButtonLabel: "Contattaci Ora",
			ButtonHref:  "/contatti",
			Phone:       companyPhone,
		},
	}
}

// FallbackServiziPage returns the bundled services page.
func FallbackServiziPage() ServiziPage {
	return ServiziPage{
		SEO: SEO{
			Title:       "Servizi - BIEMME 2",
			Description: "Edilizia residenziale, industriale, scavi e specializzazione zootecnica. Scopri tutti i nostri servizi.",
		},
		Hero: Hero{
			Badge:       "Esperienza e Solidità",
			Title:       "Le Nostre Specializzazioni",
			Description: "Eccellenza tecnica e potenza operativa al servizio di ogni progetto costruttivo.",
		},
		ServicesSection: ServicesSection{
			Services: []Service{
				{
					Title:   "Edilizia Residenziale",
					Slug:    "edilizia-residenziale",
					Excerpt: "Dalla progettazione alla consegna chiavi in mano. Realizziamo complessi residenziali moderni con un focus assoluto su efficienza energetica, materiali premium e design sostenibile.",
					Icon:    "home_work",
					Features: []ServiceFeature{
						{Title: "Certificazioni energetiche Classe A"},
						{Title: "Finiture di alto pregio"},
						{Title: "Gestione completa del cantiere"},
					},
				},
				{
					Title:   "Edilizia Industriale",
					Slug:    "edilizia-industriale",
					Excerpt: "Strutture in acciaio, capannoni logistici e impianti produttivi. Garantiamo rapidità di esecuzione e massima affidabilità strutturale per supportare la crescita del tuo business.",
					Icon:    "factory",
				},
				{
					Title:   "Scavi e Movimento Terra",
					Slug:    "scavi-movimento-terra",
					Excerpt: "Preparazione del terreno, sbancamenti e fondazioni. Il nostro parco macchine avanzato ci permette di operare su qualsiasi terreno con precisione millimetrica e in totale sicurezza.",
					Icon:    "landscape",
				},
				{
					Title:   "Specializzazione in Ambito Zootecnico",
					Slug:    "zootecnico",
					Excerpt: "Negli anni ci siamo specializzati nella costruzione e ristrutturazione di stalle e di tutte le infrastrutture connesse alla vita e al funzionamento di un'azienda agricola.",
					Icon:    "agriculture",
					Features: []ServiceFeature{
						{Title: "Costruzione stalle"},
						{Title: "Ristrutturazione edifici rurali"},
						{Title: "Infrastrutture agricole"},
						{Title: "Impianti zootecnici"},
					},
				},
			},
		},
		PillarsSection: CardsSection{
			Subtitle: "Il Nostro Approccio",
			Title:    "I 4 Pilastri del Servizio",
			Pillars: []Card{
				{
					Title:       "IL RISPETTO DELLE NORME",
					Description: "Biemme 2 applica normative di sicurezza e tutela ambientale nei progetti residenziali, industriali e commerciali. Studiamo continuamente tecnologie per energie rinnovabili, impianti fotovoltaici, geotermici e soluzioni di efficienza energetica.",
					Icon:        "gavel",
				},
				{
					Title:       "PROGRAMMAZIONE",
					Description: "La qualità di una costruzione non è un obiettivo semplice, per questo occorre anche una buona programmazione. Il nostro approccio include ingegnerizzazione del progetto, analisi tecnico-economica, identificazione di criticità e piani di manutenzione programmata.",
					Icon:        "calendar_month",
				},
				{
					Title:       "SUPPORTO TECNICO",
					Description: "Biemme 2 offre assistenza prima, durante e dopo la costruzione. Ci posizioniamo come partner sincero e affidabile, fornendo autentica garanzia del buon esito del prodotto edilizio.",
					Icon:        "support_agent",
				},
				{
					Title:       "AZIONE AD AMPIO RAGGIO",
					Description: "Dall'appartamento alla villetta, dal capannone industriale alla stalla per allevamenti zootecnici, negli anni abbiamo maturato competenze diversificate e creato squadre specializzate nei diversi ambiti di costruzione.",
					Icon:        "diversity_3",
				},
			},
		},
		BenefitsSection: CardsSection{
			Subtitle: "PERCHÉ BIEMME 2",
			Title:    "I Vantaggi di Sceglierci",
			Benefits: []Card{
				{
					Title:       "Riduzione Consumi",
					Description: "Tecnologie innovative per riscaldamento, isolamento termico e acustico, domotica integrata per il massimo risparmio energetico.",
					Icon:        "bolt",
				},
				{
					Title:       "Benessere",
					Description: "Distribuzione funzionale degli spazi, architettura di qualità, coinvolgimento di professionisti territoriali per garantire il massimo comfort abitativo.",
					Icon:        "spa",
				},
				{
					Title:       "Durabilità",
					Description: "Materiali e tecnologie di qualità superiore. Tutte le certificazioni sono disponibili al cliente per garantire la massima trasparenza.",
					Icon:        "verified",
				},
			},
		},
		MachinerySection: MachinerySection{
			Title: "Il Nostro Parco Macchine",
			Machinery: []Machine{
				{
					Name:        "MANITOU MRT 2260 + MT 625 H + MT 420 H",
					Description: "Sollevatori telescopici rotativi per movimentazione carichi e lavorazioni in quota ad alta precisione.",
					Icon:        "building2",
				},
				{
					Name:        "VT 43 R",
					Description: "Autogrù per trasporto materiali e posizionamento in cantiere.",
					Icon:        "wrench",
				},
				{
					Name:        "KOMATSU PC 80",
					Description: "Escavatore compatto cingolato, ideale per scavi di fondazione e lavori in spazi ristretti.",
					Icon:        "factory",
				},
				{
					Name:        "KOMATSU PC 18 (x2)",
					Description: "Miniescavatori ultra-compatti per ristrutturazioni e interventi di precisione.",
					Icon:        "handyman",
				},
			},
		},
		CTASection: CTASection{
			Title:       "Pronto a Costruire il Futuro?",
			Description: "Contattaci per discutere il tuo progetto e ricevere un preventivo personalizzato.",
			ButtonLabel: "Richiedi Preventivo",
			ButtonHref:  "/contatti",
		},
	}
}

// FallbackAziendaPage returns the bundled company page.
func FallbackAziendaPage() AziendaPage {
	return AziendaPage{
		SEO: SEO{
			Title:       "Chi Siamo - BIEMME 2",
			Description: "Scopri la storia, i valori e il team di BIEMME 2. Oltre 40 anni di esperienza nel settore edilizio.",
		},
		Hero: Hero{
			Badge:       "La Nostra Identità",
			Title:       "Chi Siamo",
			Description: "COSTRUTTORI PER PASSIONE, PROFESSIONISTI PER SCELTA. Da oltre 40 anni trasformiamo idee in edifici solidi e duraturi.",
		},
		StoriaSection: StoriaSection{
			Title:       "La Nostra Storia",
			Description: "Un percorso di crescita costante, guidato dalla passione per l'edilizia di qualità.",
			Timeline: []TimelineEntry{
				{
					Year:        "1986",
					Title:       "Fondazione",
					Description: "Nasce Biemme 2 per volontà dei soci fondatori, tra i quali rimane tutt'oggi amministratore il sig. Giovanni Berta, con l'obiettivo di portare qualità e rigore nel settore delle costruzioni industriali nel nord Italia.",
					Icon:        "foundation",
				},
				{
					Year:        "2000",
					Title:       "Nuova Sede",
					Description: "Trasferimento nel nuovo insediamento produttivo di 4000 mq, permettendo l'acquisizione di grandi macchinari e l'espansione del team tecnico.",
					Icon:        "domain",
				},
				{
					Year:        "2024",
					Title:       "Espansione",
					Description: "Ampliamento organico e nuove tecnologie. Biemme 2 apre le porte a progetti innovativi mantenendo le radici salde nel territorio, caratterizzato da una forte cultura di professionalità nel campo dell'edilizia.",
					Icon:        "rocket_launch",
				},
			},
		},
		ValoriSection: ValoriSection{
			Title: "I Nostri Valori",
			Values: []Card{
				{
					Title:       "Passione",
					Description: "La passione per il lavoro rappresenta al meglio lo spirito che muove la proprietà e le maestranze.",
					Icon:        "shield",
				},
				{
					Title:       "Efficienza",
					Description: "Ogni progetto è una sfida che affrontiamo con dedizione e competenza, garantendo elevati standard qualitativi.",
					Icon:        "diamond",
				},
				{
					Title:       "Innovazione",
					Description: "Migliorare il nostro territorio attraverso tecniche costruttive all'avanguardia e rispetto per l'ambiente.",
					Icon:        "eco",
				},
			},
		},
		OrganigrammaSection: OrganigrammaSection{
			Title:     "Organigramma",
			Direzione: OrgUnit{Title: "Direzione Generale", Subtitle: "Strategia, Sviluppo & Controllo"},
			Aree: []OrgUnit{
				{Title: "Area Tecnica", Subtitle: "Progetti & Cantieri"},
				{Title: "Amministrazione", Subtitle: "Contabilità & Finanza"},
				{Title: "Commerciale", Subtitle: "Vendite & Clienti"},
			},
		},
		TeamSection: TeamSection{
			Title: "La Squadra",
			Members: []TeamMember{
				{
					Name:  "Geom. Paolo Pini",
					Role:  "Geometra",
					Bio:   "Direzione Lavori\npini@biemme2.com\n3478881791",
					Photo: teamPhoto("photo-1", "paolo-pini.webp"),
				},
				{
					Name:  "Ketty Pozzoni",
					Role:  "Amministrazione",
					Bio:   companyEmail,
					Photo: teamPhoto("photo-3", "ketty-pozzoni.webp"),
				},
				{
					Name:  "Giuseppe Sonzogni",
					Role:  "Geometra",
					Bio:   "Direzione lavori\nsonzogni@biemme2.com\n3486855615",
					Photo: teamPhoto("photo-4", "giuseppe-sonzogni.webp"),
				},
				{
					Name:  "Giovanni Berta",
					Role:  "Commerciale",
					Bio:   "berta@biemme2.com\n3478881790",
					Photo: teamPhoto("photo-5", "giovanni-berta.webp"),
				},
			},
		},
		CertificazioniSection: CertificazioniSection{
			Title:       "Qualità Certificata",
			Description: "Operiamo secondo i più alti standard internazionali per garantire sicurezza, affidabilità e rispetto dell'ambiente.",
			Certifications: []Certification{
				{
					Name:        "Attestazione SOA",
					Description: "OG 1 Classe IV-BIS · N. 75284/10/00 · Valida fino al 15/12/2026",
					Icon:        "workspace_premium",
					ImageURL:    "/img/cert-soa.webp",
				},
				{
					Name:        "ISO 9001:2015",
					Description: "N. 3925188 · Costruzione di edifici · Scadenza 07/11/2028",
					Icon:        "verified",
					ImageURL:    "/img/cert-iso-9001.webp",
				},
				{
					Name:        "Cassa Edile Awards 2025",
					Description: "Categorie SPRINT e FAIR PLAY · Edil Cassa Bergamo",
					Icon:        "health_and_safety",
					ImageURL:    "/img/cert-cassa-edile.webp",
				},
			},
		},
	}
}

func teamPhoto(id, filename string) *MediaRef {
	return &MediaRef{
		ID:       id,
		URL:      "/img/team/" + filename,
		Filename: filename,
		MimeType: "image/webp",
	}
}

// FallbackContattiPage returns the bundled contact page.
func FallbackContattiPage() ContattiPage {
	return ContattiPage{
		SEO: SEO{
			Title:       "Contatti - BIEMME 2",
			Description: "Contattaci per un preventivo gratuito. Siamo a Morengo (BG), disponibili per progetti in tutta la Lombardia.",
		},
		Hero: Hero{
			Badge:       "Parla con noi",
			Title:       "Resta in Contatto",
			Description: "Siamo sempre disponibili per discutere il tuo progetto. Contattaci per una consulenza gratuita.",
		},
		ContactInfo: ContactInfo{
			SedeTitle:     "Sede Principale",
			Address:       companyStreet,
			City:          companyCity,
			TelefonoTitle: "Telefono",
			Phone:         "+39 0363 958310",
			MobilePhone:   "+39 346 3157500",
			EmailTitle:    "Email",
			Email:         companyEmail,
			Orari:         "Lun-Ven, 8:00 - 18:00",
		},
		FormSection: FormSection{
			Title: "Inviaci un messaggio",
			Servizi: []Option{
				{Label: "Edilizia Residenziale", Value: "edilizia-residenziale"},
				{Label: "Edilizia Industriale", Value: "edilizia-industriale"},
				{Label: "Scavi e Movimento Terra", Value: "scavi-movimento-terra"},
				{Label: "Altro", Value: "altro"},
			},
			SubmitLabel:    "Invia Messaggio",
			SuccessMessage: "Grazie per averci contattato! Ti risponderemo al più presto.",
		},
		MapSection: MapSection{
			Title:       "Dove Siamo",
			EmbedURL:    "https://maps.google.com/maps?q=Via+Cavalier+Quarto+Agliardi+18,+24050+Morengo+BG,+Italia&t=&z=16&ie=UTF8&iwloc=&output=embed",
			Coordinates: Coordinates{Lat: 45.5426, Lng: 9.6903},
		},
	}
}

// FallbackHeader returns the bundled site header.
func FallbackHeader() Header {
	return Header{
		Logo: Logo{Alt: "BIEMME 2"},
		Navigation: []NavItem{
			{Label: "Home", Href: "/"},
			{Label: "Azienda", Href: "/azienda"},
			{Label: "Servizi", Href: "/servizi"},
			{Label: "Contatti", Href: "/contatti"},
		},
		CTA: HeaderCTA{Label: "Quotazione", Href: "/contatti#form", Phone: companyPhone},
	}
}

// FallbackFooter returns the bundled site footer.
func FallbackFooter() Footer {
	return Footer{
		CompanyInfo: FooterCompany{
			Name:        companyName,
			Description: "Costruzioni edili dal 1986. Qualità, affidabilità e passione.",
		},
		Contact: FooterContact{
			Address:     companyStreet,
			City:        companyCity,
			Phone:       companyPhone,
			MobilePhone: "+39 3463157500",
			Email:       companyEmail,
			VATNumber:   companyVAT,
		},
		Columns: []FooterColumn{
			{
				Title: "Azienda",
				Links: []Link{
					{Label: "Chi Siamo", Href: "/azienda"},
					{Label: "Contatti", Href: "/contatti"},
				},
			},
		},
		Legal: FooterLegal{
			Links: []Link{
				{Label: "Privacy Policy", Href: "/privacy"},
				{Label: "Cookie Policy", Href: "/cookie"},
			},
		},
	}
}

// FallbackPrivacyPage returns the bundled privacy policy. Its sections are
// read from the embedded legal/privacy markdown files.
func FallbackPrivacyPage() PrivacyPage {
	return PrivacyPage{
		SEO: SEO{
			Title:       "Privacy Policy | BIEMME 2 Costruzioni",
			Description: "Informativa sulla privacy di BIEMME 2 S.r.l. ai sensi del GDPR (Regolamento UE 2016/679).",
		},
		Header: LegalHeader{
			Badge:      "Informativa Legale",
			Title:      "Privacy Policy",
			Subtitle:   "Informativa sul trattamento dei dati personali ai sensi del Regolamento UE 2016/679 (GDPR)",
			LastUpdate: legalUpdatedAt,
		},
		CompanyInfo: PrivacyCompanyInfo{
			Name:      companyName,
			Address:   companyStreet + " - " + companyCity,
			VATNumber: companyVAT,
			Email:     companyEmail,
			Phone:     companyPhone,
		},
		Sections: privacySections(),
	}
}

// FallbackCookiePage returns the bundled cookie policy.
func FallbackCookiePage() CookiePage {
	return CookiePage{
		SEO: SEO{
			Title:       "Cookie Policy | BIEMME 2 Costruzioni",
			Description: "Informativa sui cookie utilizzati dal sito BIEMME 2 S.r.l. ai sensi del GDPR e della normativa italiana.",
		},
		Header: LegalHeader{
			Badge:      "Informativa Legale",
			Title:      "Cookie Policy",
			Subtitle:   "Informativa sull'utilizzo dei cookie ai sensi dell'art. 13 del Regolamento UE 2016/679 (GDPR) e del Provvedimento del Garante Privacy n. 229/2014",
			LastUpdate: legalUpdatedAt,
		},
		CompanyInfo: CookieCompanyInfo{
			Name:    companyName,
			Website: "www.biemme2.com",
			Email:   companyEmail,
		},
		CookieTypes: []CookieType{
			{
				Category:        "Cookie Tecnici (Necessari)",
				Description:     "Questi cookie sono essenziali per il corretto funzionamento del sito web. Non possono essere disattivati nei nostri sistemi.",
				RequiresConsent: false,
				Cookies: []CookieEntry{
					{Name: "session_id", Purpose: "Gestione della sessione utente", Duration: "Sessione", Provider: "Prima parte"},
					{Name: "csrf_token", Purpose: "Protezione contro attacchi CSRF", Duration: "Sessione", Provider: "Prima parte"},
					{Name: "cookie_consent", Purpose: "Memorizza le preferenze sui cookie", Duration: "12 mesi", Provider: "Prima parte"},
				},
			},
			{
				Category:        "Cookie Analitici",
				Description:     "Questi cookie ci permettono di contare le visite e le fonti di traffico per misurare e migliorare le prestazioni del nostro sito.",
				RequiresConsent: true,
				Cookies: []CookieEntry{
					{Name: "_ga", Purpose: "Distingue gli utenti (Google Analytics)", Duration: "2 anni", Provider: "Google LLC"},
					{Name: "_ga_*", Purpose: "Mantiene lo stato della sessione (GA4)", Duration: "2 anni", Provider: "Google LLC"},
					{Name: "_gid", Purpose: "Distingue gli utenti", Duration: "24 ore", Provider: "Google LLC"},
				},
			},
			{
				Category:        "Cookie di Funzionalità",
				Description:     "Questi cookie permettono al sito di fornire funzionalità avanzate e personalizzazione, come la memorizzazione delle preferenze.",
				RequiresConsent: true,
				Cookies: []CookieEntry{
					{Name: "theme_preference", Purpose: "Memorizza la preferenza tema chiaro/scuro", Duration: "1 anno", Provider: "Prima parte"},
					{Name: "language", Purpose: "Memorizza la lingua preferita", Duration: "1 anno", Provider: "Prima parte"},
				},
			},
		},
		ThirdPartyServices: []ThirdPartyService{
			{Name: "Google Analytics", PrivacyURL: "https://policies.google.com/privacy"},
			{Name: "Google Maps", PrivacyURL: "https://policies.google.com/privacy"},
		},
		BrowserLinks: []BrowserLink{
			{Browser: "Google Chrome", URL: "https://support.google.com/chrome/answer/95647"},
			{Browser: "Mozilla Firefox", URL: "https://support.mozilla.org/it/kb/Attivare%20e%20disattivare%20i%20cookie"},
			{Browser: "Apple Safari", URL: "https://support.apple.com/it-it/guide/safari/sfri11471/mac"},
			{Browser: "Microsoft Edge", URL: "https://support.microsoft.com/it-it/microsoft-edge/eliminare-i-cookie-in-microsoft-edge-63947406-40ac-c3b8-57b9-2a946a29ae09"},
		},
	}
}
