// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves the country of contact form senders from a MaxMind
// GeoLite2-Country database.
package geoip

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Local is returned for loopback and private addresses.
const Local = "LOCAL"

var localNets = mustCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"fc00::/7",
	"fe80::/10",
	"::1/128",
)

func mustCIDRs(blocks ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(blocks))
	for _, b := range blocks {
		_, n, err := net.ParseCIDR(b)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Locator maps IP addresses to ISO country codes. A Locator without a
// database answers Local for private addresses and "" otherwise.
type Locator struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	db      *maxminddb.Reader
	modTime time.Time
}

// Open creates a locator backed by the database at path. An empty path
// yields a disabled locator. A missing or broken file is logged and the
// locator starts disabled; Reload picks the file up once it appears.
func Open(path string, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Locator{path: path, logger: logger.With("component", "geoip")}
	if path == "" {
		return l
	}
	if err := l.Reload(); err != nil {
		l.logger.Warn("geoip database unavailable", "path", path, "error", err)
	}
	return l
}

// Reload reopens the database when the file changed on disk.
func (l *Locator) Reload() error {
	if l.path == "" {
		return nil
	}
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("geoip database %s not found", l.path)
		}
		return fmt.Errorf("stat geoip database: %w", err)
	}

	l.mu.RLock()
	unchanged := l.db != nil && info.ModTime().Equal(l.modTime)
	l.mu.RUnlock()
	if unchanged {
		return nil
	}

	db, err := maxminddb.Open(l.path)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}

	l.mu.Lock()
	old := l.db
	l.db = db
	l.modTime = info.ModTime()
	l.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	l.logger.Info("geoip database loaded", "path", l.path, "built", time.Unix(int64(db.Metadata.BuildEpoch), 0).UTC())
	return nil
}

// Country returns the ISO 3166 alpha-2 code for ip, Local for private
// networks, or "" when unknown.
func (l *Locator) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if isLocal(parsed) {
		return Local
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return ""
	}
	var rec countryRecord
	if err := l.db.Lookup(parsed, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (l *Locator) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Close releases the database.
func (l *Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func isLocal(ip net.IP) bool {
	for _, n := range localNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
