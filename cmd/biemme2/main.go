// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/biemme2/biemme2-site/internal/analytics"
	"github.com/biemme2/biemme2-site/internal/auth"
	"github.com/biemme2/biemme2-site/internal/cache"
	"github.com/biemme2/biemme2-site/internal/cms"
	"github.com/biemme2/biemme2-site/internal/config"
	"github.com/biemme2/biemme2-site/internal/consent"
	"github.com/biemme2/biemme2-site/internal/contact"
	"github.com/biemme2/biemme2-site/internal/content"
	"github.com/biemme2/biemme2-site/internal/geoip"
	"github.com/biemme2/biemme2-site/internal/handler"
	"github.com/biemme2/biemme2-site/internal/handler/api"
	"github.com/biemme2/biemme2-site/internal/logging"
	"github.com/biemme2/biemme2-site/internal/middleware"
	"github.com/biemme2/biemme2-site/internal/render"
	"github.com/biemme2/biemme2-site/internal/scheduler"
	"github.com/biemme2/biemme2-site/internal/seo"
	"github.com/biemme2/biemme2-site/internal/session"
	"github.com/biemme2/biemme2-site/internal/store"
	"github.com/biemme2/biemme2-site/internal/version"
	"github.com/biemme2/biemme2-site/web"
)

// eventRetention is how long event log rows are kept.
const eventRetention = 90 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	seedOnly := flag.Bool("seed", false, "Write the bundled documents into the database and exit")
	overwrite := flag.Bool("overwrite", false, "With -seed, replace documents that already exist")
	genToken := flag.Bool("gen-token", false, "Generate an API token and its BIEMME_API_TOKEN_HASH value")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "BIEMME 2 - company website server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIEMME_SESSION_SECRET   Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIEMME_DB_PATH          SQLite database path (default: ./data/biemme2.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIEMME_CMS_URL          Headless CMS base URL (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIEMME_REDIS_URL        Redis URL for the document cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIEMME_SMTP_HOST        SMTP relay for the contact form (optional)\n")
	}
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Println("biemme2 " + version.Get().String())
		os.Exit(0)
	}
	if *genToken {
		token, hash, err := auth.GenerateToken()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "generating token:", err)
			os.Exit(1)
		}
		_, _ = fmt.Printf("token: %s\nBIEMME_API_TOKEN_HASH=%s\n", token, hash)
		os.Exit(0)
	}

	if err := run(*seedOnly, *overwrite); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(seedOnly, overwrite bool) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath, "driver", cfg.DBDriver)
	dbCfg := store.DefaultDBConfig()
	dbCfg.Driver = cfg.DBDriver
	db, err := store.NewDBWithConfig(cfg.DBPath, dbCfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// WARN and ERROR records also go to the event log table.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if seedOnly || cfg.DoSeed {
		docs, err := content.FallbackDocuments()
		if err != nil {
			return fmt.Errorf("encoding fallback documents: %w", err)
		}
		if err := store.SeedGlobals(ctx, db, docs, overwrite); err != nil {
			return fmt.Errorf("seeding documents: %w", err)
		}
		if seedOnly {
			return nil
		}
	}

	globals := store.NewGlobals(db)
	events := store.NewEvents(db)

	// Documents come from the CMS when configured, with the local store as
	// second source, and are cached either way.
	var source content.DocumentStore = content.NewDBStore(globals)
	if cfg.UseRemoteCMS() {
		client := cms.NewClient(cfg.CMSURL,
			cms.WithAPIKey(cfg.CMSAPIKey),
			cms.WithTimeout(cfg.CMSFetchTimeout),
		)
		source = content.FirstAvailable{client, source}
		logger.Info("documents served from cms", "url", cfg.CMSURL)
	}
	backend, backendName := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = backend.Close() }()
	documents := cache.NewGlobalCache(source, backend, cfg.CacheTTLDuration(), logger)
	documents.SetFetchTimeout(2 * cfg.CMSFetchTimeout)
	logger.Info("document cache ready", "backend", backendName, "ttl", cfg.CacheTTLDuration())

	resolver := content.NewResolver(documents, logger)
	media := content.NewMediaResolver(cfg.CMSURL)

	bus := consent.NewBus(logger)
	bus.Subscribe(consent.TopicChanged, consent.AuditListener(events))

	locator := geoip.Open(cfg.GeoIPDBPath, logger)
	defer func() { _ = locator.Close() }()

	var mailer contact.Mailer = contact.LogMailer{Logger: logger}
	if cfg.MailEnabled() {
		mailer = contact.NewSMTPMailer(contact.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			User:        cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			ImplicitTLS: cfg.SMTPSecure,
		})
	} else {
		logger.Warn("BIEMME_SMTP_HOST not set, contact requests are only logged")
	}
	contactOpts := []contact.Option{
		contact.WithSubmissions(store.NewSubmissions(db)),
		contact.WithLocator(locator),
	}
	if cfg.RecaptchaEnabled() {
		contactOpts = append(contactOpts, contact.WithVerifier(
			contact.NewRecaptcha(cfg.RecaptchaSecretKey, cfg.RecaptchaMinScore, logger)))
	}
	contactService := contact.NewService(contact.Config{
		From:      mail.Address{Name: "BIEMME 2 Website", Address: cfg.SMTPFrom},
		Recipient: cfg.ContactEmail,
		SiteURL:   cfg.SiteURL,
		PerHour:   cfg.ContactRateLimit,
	}, mailer, logger, contactOpts...)

	sessionManager := session.New(db, cfg.IsDevelopment())

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates,
		Media:       media,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	recaptchaSiteKey := ""
	if cfg.RecaptchaEnabled() {
		recaptchaSiteKey = cfg.RecaptchaSiteKey
	}
	frontendHandler := handler.NewFrontendHandler(handler.FrontendDeps{
		Resolver:   resolver,
		Renderer:   renderer,
		Sessions:   sessionManager,
		Contact:    contactService,
		ConsentBus: bus,
		Trackers: analytics.New(analytics.Settings{
			GA4MeasurementID: cfg.GAMeasurementID,
			GTMContainerID:   cfg.GTMID,
			MetaPixelID:      cfg.MetaPixelID,
		}, logger),
		Site:             seo.DefaultSite(cfg.SiteURL),
		Media:            media,
		RecaptchaSiteKey: recaptchaSiteKey,
		SecureCookies:    !cfg.IsDevelopment(),
		Logger:           logger,
	})
	seoHandler := handler.NewSEOHandler(cfg.SiteURL, globals, cfg.IsDevelopment(), logger)
	healthHandler := handler.NewHealthHandler(db, backend)
	apiHandler := api.NewHandler(api.Deps{
		Resolver:      resolver,
		Documents:     globals,
		Cache:         documents,
		SecureCookies: !cfg.IsDevelopment(),
		CMSConfigured: cfg.CMSURL != "",
		Logger:        logger,
	})

	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.RevalidateJob(cfg.RevalidateCron, documents, content.AllSlugs()),
		scheduler.EventCleanupJob("@daily", events, eventRetention),
	}
	if cfg.GeoIPEnabled() {
		jobs = append(jobs, scheduler.GeoIPReloadJob(cfg.GeoIPReloadCron, locator))
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("scheduling %s: %w", job.Name, err)
		}
	}
	sched.Start()
	defer sched.Stop()

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

	r.Group(func(r chi.Router) {
		r.Use(middleware.StaticCache(7 * 24 * time.Hour))
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
		r.Handle("/img/*", http.StripPrefix("/img/", http.FileServer(http.Dir(cfg.StaticDir))))
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Get("/robots.txt", seoHandler.Robots)

	r.Get(content.PageHome.Path(), frontendHandler.Home)
	r.Get(content.PageServizi.Path(), frontendHandler.Servizi)
	r.Get(content.PageAzienda.Path(), frontendHandler.Azienda)
	r.Get(content.PageContatti.Path(), frontendHandler.Contatti)
	r.Get(content.PagePrivacy.Path(), frontendHandler.Privacy)
	r.Get(content.PageCookie.Path(), frontendHandler.Cookie)
	r.Post(content.PageContatti.Path(), frontendHandler.SubmitContact)
	r.Post("/consent", frontendHandler.SaveConsent)
	r.Post("/consent/reopen", frontendHandler.ReopenConsent)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewRateLimiter(10, 20).Middleware())
		r.Get("/pages/{page}", apiHandler.GetPage)
		r.Get("/consent", apiHandler.GetConsent)

		r.Group(func(r chi.Router) {
			r.Use(middleware.APITokenAuth(cfg.APITokenHash))
			r.Put("/globals/{slug}", apiHandler.PutGlobal)
			r.Delete("/globals/{slug}", apiHandler.DeleteGlobal)
			r.Post("/revalidate", apiHandler.Revalidate)
		})
	})

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
