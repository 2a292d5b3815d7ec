// Package geoip resolves client countries from a local MaxMind database, used
// as the last fallback when no locale or country header is present.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable reports a lookup against a resolver that was never opened.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// CountryResolver resolves ISO 3166-1 country codes from IP addresses.
type CountryResolver interface {
	CountryCode(ip string) (string, error)
}

// Resolver answers country lookups from a GeoIP2 database file.
type Resolver struct {
	db *geoip2.Reader
}

// NewResolver opens the database at path. An empty path disables GeoIP
// resolution and returns a nil resolver without error, so deployments
// without the database file simply skip this fallback.
func NewResolver(path string) (CountryResolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open %s: %w", path, err)
	}
	return &Resolver{db: db}, nil
}

// CountryCode returns the ISO country code for ip, or an empty string when
// the database has no country for it.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.db == nil {
		return "", ErrUnavailable
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	country, err := r.db.Country(addr)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup %s: %w", ip, err)
	}
	if country == nil {
		return "", nil
	}
	return country.Country.IsoCode, nil
}

// Close releases the database reader.
func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
