// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/biemme2/biemme2-site/internal/store"
)

// Messages shown to the visitor.
const (
	MsgSuccess     = "Grazie! La tua richiesta è stata inviata. Ti contatteremo presto."
	MsgHoneypot    = "Messaggio inviato con successo!"
	MsgInvalid     = "Per favore correggi gli errori nel form"
	MsgCaptcha     = "Verifica di sicurezza fallita. Ricarica la pagina e riprova."
	MsgDelivery    = "Si è verificato un errore nell'invio. Riprova più tardi o contattaci telefonicamente."
	MsgRateLimited = "Hai inviato troppe richieste. Riprova tra qualche minuto."
)

var (
	// ErrRateLimited is returned when the sender IP exceeded its quota.
	ErrRateLimited = errors.New("too many contact requests")
	// ErrValidation is returned when the form has field errors.
	ErrValidation = errors.New("invalid contact form")
	// ErrDelivery is returned when the notification mail could not be sent.
	ErrDelivery = errors.New("contact mail delivery failed")
)

// Result is what the visitor sees after submitting.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Meta describes the request a form came with.
type Meta struct {
	IP        string
	UserAgent string
}

// SubmissionStore persists accepted requests.
type SubmissionStore interface {
	Create(ctx context.Context, sub store.Submission) error
	MarkDelivered(ctx context.Context, id string) error
}

// CountryLocator resolves an IP to a country code.
type CountryLocator interface {
	Country(ip string) string
}

// Config holds the delivery settings.
type Config struct {
	From      mail.Address
	Recipient string
	SiteURL   string
	// PerHour is the number of submissions allowed per IP per hour.
	PerHour int
}

// Service runs the submission pipeline: rate limit, honeypot, captcha,
// validation, storage and mail.
type Service struct {
	cfg         Config
	mailer      Mailer
	verifier    Verifier
	submissions SubmissionStore
	locator     CountryLocator
	limiter     *Limiter
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithVerifier enables captcha checks.
func WithVerifier(v Verifier) Option { return func(s *Service) { s.verifier = v } }

// WithSubmissions stores every accepted request.
func WithSubmissions(st SubmissionStore) Option { return func(s *Service) { s.submissions = st } }

// WithLocator adds the sender country to stored requests.
func WithLocator(l CountryLocator) Option { return func(s *Service) { s.locator = l } }

// WithServiceClock replaces time.Now.
func WithServiceClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates the contact service.
func NewService(cfg Config, mailer Mailer, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Recipient == "" {
		cfg.Recipient = "info@biemme2.com"
	}
	if cfg.From.Name == "" {
		cfg.From.Name = "BIEMME 2 Website"
	}
	s := &Service{
		cfg:     cfg,
		mailer:  mailer,
		limiter: NewLimiter(cfg.PerHour),
		logger:  logger.With("component", "contact", "category", store.EventCategoryContact),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit handles one request. The Result is always ready to show; the
// error tells the caller which check failed.
func (s *Service) Submit(ctx context.Context, f Form, meta Meta) (Result, error) {
	if !s.limiter.Allow(meta.IP) {
		s.logger.Warn("contact rate limit exceeded", "ip", meta.IP)
		return Result{Message: MsgRateLimited}, ErrRateLimited
	}

	// Bots get a success so they do not learn about the trap.
	if f.Website != "" {
		s.logger.Info("honeypot triggered", "ip", meta.IP)
		return Result{Success: true, Message: MsgHoneypot}, nil
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, f.RecaptchaToken, meta.IP); err != nil {
			s.logger.Warn("contact captcha failed", "ip", meta.IP, "error", err)
			return Result{Message: MsgCaptcha}, err
		}
	}

	if errs := f.Validate(); len(errs) > 0 {
		return Result{Message: MsgInvalid, Errors: errs}, ErrValidation
	}

	clean := f.Sanitized()
	id := s.store(ctx, clean, meta)

	msg, err := Compose(clean, s.cfg.From, s.cfg.Recipient, s.cfg.SiteURL)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Error("contact mail delivery failed", "submission_id", id, "error", err)
		return Result{Message: MsgDelivery}, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if id != "" {
		if err := s.submissions.MarkDelivered(ctx, id); err != nil {
			s.logger.Warn("marking submission delivered failed", "submission_id", id, "error", err)
		}
	}
	s.logger.Info("contact request delivered", "submission_id", id, "service", clean.Service)
	return Result{Success: true, Message: MsgSuccess}, nil
}

// store saves the request and returns its id, or "" when storage is off
// or failed. A storage failure does not stop delivery.
func (s *Service) store(ctx context.Context, f Form, meta Meta) string {
	if s.submissions == nil {
		return ""
	}
	ua := useragent.Parse(meta.UserAgent)
	device := "desktop"
	switch {
	case ua.Bot:
		device = "bot"
	case ua.Tablet:
		device = "tablet"
	case ua.Mobile:
		device = "mobile"
	}
	country := ""
	if s.locator != nil {
		country = s.locator.Country(meta.IP)
	}

	sub := store.Submission{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Company:   f.Company,
		Service:   f.Service,
		Message:   f.Message,
		IPAddress: meta.IP,
		Country:   country,
		Browser:   ua.Name,
		OS:        ua.OS,
		Device:    device,
		CreatedAt: s.now(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		s.logger.Error("storing contact submission failed", "error", err)
		return ""
	}
	return sub.ID
}
