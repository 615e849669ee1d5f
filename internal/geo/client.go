// Package geo resolves sender IPs to coarse location data via ipinfo.
package geo

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"portfolio-backend/internal/models"

	"github.com/ipinfo/go/v2/ipinfo"
)

const lookupTimeout = 15 * time.Second

// resolver is the slice of the ipinfo client the wrapper consumes,
// kept narrow so tests can stub it.
type resolver interface {
	GetIPInfo(ip net.IP) (*ipinfo.Core, error)
}

// Client wraps the ipinfo SDK. Lookup never fails the caller: every
// error path degrades to the Unknown record.
type Client struct {
	api    resolver
	logger *slog.Logger
}

// NewClient creates a geolocation client. An empty token still works,
// with the provider's lower unauthenticated limits.
func NewClient(token string, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: lookupTimeout}
	return &Client{
		api:    ipinfo.NewClient(httpClient, nil, token),
		logger: logger,
	}
}

// Lookup resolves ip to location fields. Private, loopback and
// unparsable addresses short-circuit without a network call.
func (c *Client) Lookup(ctx context.Context, ip string) models.GeoLocation {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		c.logger.Warn("geolocation skipped for unparsable ip", slog.String("ip", ip))
		return models.UnknownLocation()
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		loc := models.UnknownLocation()
		loc.City = "Local"
		loc.Org = "Private network"
		return loc
	}

	type lookupResult struct {
		core *ipinfo.Core
		err  error
	}

	// The SDK call carries no context; race it against ours so a hung
	// lookup cannot stall the email pipeline.
	resultCh := make(chan lookupResult, 1)
	go func() {
		core, err := c.api.GetIPInfo(parsed)
		resultCh <- lookupResult{core, err}
	}()

	select {
	case <-ctx.Done():
		c.logger.Warn("geolocation lookup abandoned", slog.String("ip", ip), slog.Any("error", ctx.Err()))
		return models.UnknownLocation()
	case res := <-resultCh:
		if res.err != nil {
			c.logger.Warn("geolocation lookup failed", slog.String("ip", ip), slog.Any("error", res.err))
			return models.UnknownLocation()
		}
		return coreToLocation(res.core)
	}
}

func coreToLocation(core *ipinfo.Core) models.GeoLocation {
	loc := models.UnknownLocation()
	if core == nil {
		return loc
	}
	if core.City != "" {
		loc.City = core.City
	}
	if core.Region != "" {
		loc.Region = core.Region
	}
	if core.CountryName != "" {
		loc.Country = core.CountryName
	} else if core.Country != "" {
		loc.Country = core.Country
	}
	if core.Org != "" {
		loc.Org = core.Org
	}
	if core.Timezone != "" {
		loc.Timezone = core.Timezone
	}
	if core.Location != "" {
		loc.Coordinates = core.Location
	}
	return loc
}
