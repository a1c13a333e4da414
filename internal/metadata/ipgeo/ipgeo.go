// Package ipgeo resolves the caller's approximate location from its public IP via ip-api.com.
package ipgeo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/metadata"
)

// Backend is the rate-limit key for this client.
const Backend = "ipapi"

// The free tier is HTTP only.
const defaultBaseURL = "http://ip-api.com/json/"

const fields = "status,message,country,countryCode,regionName,city,lat,lon"

// ErrLookupFailed is returned when the service answers with status "fail".
var ErrLookupFailed = errors.New("ipgeo: lookup failed")

// Client is an ip-api.com client.
type Client struct {
	http    *metadata.HTTP
	baseURL string
	now     func() time.Time
}

// New creates a client.
func New(h *metadata.HTTP) *Client {
	return &Client{http: h, baseURL: defaultBaseURL, now: time.Now}
}

// WithBaseURL points the client at another host, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Locate looks up the location of the public IP the request originates from.
func (c *Client) Locate(ctx context.Context) (*domain.DetectedLocation, error) {
	res, err := c.http.GetJSON(ctx, Backend, c.baseURL+"?fields="+fields, nil)
	if err != nil {
		return nil, metadata.WrapError(Backend, "locate", err)
	}

	if res.Get("status").String() != "success" {
		return nil, metadata.WrapError(Backend, "locate", fmt.Errorf("%w: %s", ErrLookupFailed, res.Get("message").String()))
	}

	return &domain.DetectedLocation{
		City:        res.Get("city").String(),
		Region:      res.Get("regionName").String(),
		Country:     res.Get("country").String(),
		CountryCode: res.Get("countryCode").String(),
		Lat:         res.Get("lat").Float(),
		Lon:         res.Get("lon").Float(),
		DetectedAt:  c.now(),
	}, nil
}
