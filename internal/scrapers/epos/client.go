// client.go contains the cache-backed http side of the scraper, it knows nothing
// about what the portal's pages contain.

package epos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eposfetch/internal/components/assert"
	"eposfetch/internal/components/telemetry"
	"eposfetch/lib/diskcache"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_client_fetch       = "client.fetch"
	report_client_cache_write = "client.cache-write"
	report_client_cache_read  = "client.cache-read"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var (
	tracer = otel.Tracer("eposfetch/scrapers/epos")
	meter  = otel.Meter("eposfetch/scrapers/epos")
)

type ClientOptions struct {
	Cache diskcache.Store
	// Timeout of a single request, zero means requests may block forever.
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
	// Output receives a dump of every http message when set.
	Output telemetry.MessageOutput
	// Logger receives resty's own log lines.
	Logger *slog.Logger
}

type Client struct {
	http  *resty.Client
	cache diskcache.Store
	tel   telemetry.API

	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	fetchFailures metric.Int64Counter
}

func NewClient(tel telemetry.API, opts ClientOptions) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Cache.Root())

	tel = telemetry.NewScopedAPI("epos_client", tel)

	httpClient := resty.New()
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient.SetHeader("user-agent", userAgent)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.Logger != nil {
		httpClient.SetLogger(telemetry.RestyLogger{Logger: opts.Logger})
	}
	telemetry.InstrumentResty(httpClient, tel, opts.Output)

	c := &Client{
		http:  httpClient,
		cache: opts.Cache,
		tel:   tel,
	}

	var err error
	c.cacheHits, err = meter.Int64Counter("epos.cache.hits")
	if err != nil {
		return nil, err
	}
	c.cacheMisses, err = meter.Int64Counter("epos.cache.misses")
	if err != nil {
		return nil, err
	}
	c.fetchFailures, err = meter.Int64Counter("epos.fetch.failures")
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form Form) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: %s: status %s", ErrTransport, endpoint, res.Status())
	}
	// res.String() trims whitespace, the cache stores the body verbatim
	return string(res.Body()), nil
}

// Fetch returns the body of a form POST to endpoint.
//
// The network is only used when fresh is set or nothing is cached for this exact
// request. A successful response overwrites the cache slot, a failed one is reported
// and otherwise ignored. Whatever the slot holds afterwards is returned, so a failed
// refresh silently falls back to the previous response. The result is empty when
// neither the network nor the cache had anything.
//
// Only cache i/o errors are returned.
func (c *Client) Fetch(ctx context.Context, endpoint string, form Form, fresh bool) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	key, err := diskcache.Key(endpoint, form)
	if err != nil {
		return "", fmt.Errorf("cache key for %s: %w", endpoint, err)
	}
	span.SetAttributes(attribute.String("custom.cache_key", key))
	c.tel.ReportDebug("cache slot", endpoint, c.cache.Path(key))

	if fresh || !c.cache.Exists(key) {
		c.cacheMisses.Add(ctx, 1)
		c.tel.ReportInfo("fetching from network", endpoint)

		content, err := c.post(ctx, endpoint, form)
		if err != nil {
			c.fetchFailures.Add(ctx, 1)
			span.RecordError(err)
			c.tel.ReportBroken(report_client_fetch, err, endpoint)
		} else {
			err = c.cache.Put(ctx, key, content)
			if err != nil {
				c.tel.ReportBroken(report_client_cache_write, err, c.cache.Path(key))
				return "", fmt.Errorf("write cache: %w", err)
			}
		}
	} else {
		c.cacheHits.Add(ctx, 1)
	}

	content, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.tel.ReportBroken(report_client_cache_read, err, c.cache.Path(key))
		return "", fmt.Errorf("read cache: %w", err)
	}
	if !found {
		return "", nil
	}
	return content, nil
}
