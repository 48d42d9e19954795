// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSubmissionNotFound is returned when a submission id is unknown.
var ErrSubmissionNotFound = errors.New("contact submission not found")

// Submission is a stored contact form request.
type Submission struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	Service   string
	Message   string
	IPAddress string
	Country   string
	Browser   string
	OS        string
	Device    string
	Delivered bool
	CreatedAt time.Time
}

// Submissions is the repository for the contact_submissions table.
type Submissions struct {
	db *sql.DB
}

// NewSubmissions creates a contact submission repository.
func NewSubmissions(db *sql.DB) *Submissions {
	return &Submissions{db: db}
}

// Create stores a new submission.
func (s *Submissions) Create(ctx context.Context, sub Submission) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions
		 (id, name, email, phone, company, service, message, ip_address, country, browser, os, device, delivered, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Company, sub.Service, sub.Message,
		sub.IPAddress, sub.Country, sub.Browser, sub.OS, sub.Device, sub.Delivered, sub.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating contact submission: %w", err)
	}
	return nil
}

// MarkDelivered flags a submission as successfully mailed.
func (s *Submissions) MarkDelivered(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_submissions SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking submission %s delivered: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrSubmissionNotFound)
	}
	return nil
}

// Get returns the submission with the given id.
func (s *Submissions) Get(ctx context.Context, id string) (Submission, error) {
	var sub Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, company, service, message, ip_address, country, browser, os, device, delivered, created_at
		 FROM contact_submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Company, &sub.Service, &sub.Message,
		&sub.IPAddress, &sub.Country, &sub.Browser, &sub.OS, &sub.Device, &sub.Delivered, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, fmt.Errorf("%s: %w", id, ErrSubmissionNotFound)
	}
	if err != nil {
		return Submission{}, fmt.Errorf("querying submission %s: %w", id, err)
	}
	return sub, nil
}

// CountSince returns how many submissions were stored after t.
func (s *Submissions) CountSince(ctx context.Context, t time.Time) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_submissions WHERE created_at >= ?`, t.UTC(),
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}
