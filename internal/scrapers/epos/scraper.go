// scraper.go drives the fetch of a whole reporting period: the sales summary of
// the shop first, then the transactions of every ration card found in it.

package epos

import (
	"context"
	"fmt"
	"strconv"

	"eposfetch/internal/components/assert"
	"eposfetch/internal/components/chrono"
	"eposfetch/internal/components/telemetry"
	"eposfetch/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_scraper_sales        = "scraper.sales"
	report_scraper_card_details = "scraper.card-details"
)

const (
	DefaultSalesUrl   = "http://epos.bihar.gov.in/fps_transactions.action"
	DefaultDetailsUrl = "http://epos.bihar.gov.in/SRC_Trans_Details.jsp"

	// CardNumberColumn is the sales summary column holding the ration card number.
	CardNumberColumn = "RC No"
)

//go:generate mockgen -source=scraper.go -destination=mock_fetcher_test.go -package=epos

// ContentFetcher is the part of Client the scraper depends on.
type ContentFetcher interface {
	Fetch(ctx context.Context, endpoint string, form Form, fresh bool) (string, error)
}

type ScraperOptions struct {
	SalesUrl   string
	DetailsUrl string
	// DistCode and FpsId identify the distribution point whose sales are fetched.
	DistCode string
	FpsId    string
	// Fresh bypasses cached responses.
	Fresh bool
	Pacer chrono.Pacer
}

type Scraper struct {
	fetcher ContentFetcher
	opts    ScraperOptions
	tel     telemetry.API
}

func NewScraper(fetcher ContentFetcher, tel telemetry.API, opts ScraperOptions) Scraper {
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.DistCode)
	assert.NotEmptyStr(opts.FpsId)

	if opts.SalesUrl == "" {
		opts.SalesUrl = DefaultSalesUrl
	}
	if opts.DetailsUrl == "" {
		opts.DetailsUrl = DefaultDetailsUrl
	}
	if opts.Pacer == nil {
		opts.Pacer = chrono.NewFixedPacer(0)
	}

	return Scraper{
		fetcher: fetcher,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("epos_scraper", tel),
	}
}

func (s Scraper) salesForm(period Period) Form {
	return Form{
		"dist_code": s.opts.DistCode,
		"fps_id":    s.opts.FpsId,
		"month":     strconv.Itoa(period.Month),
		"year":      strconv.Itoa(period.Year),
	}
}

func detailsForm(cardNumber string, period Period) Form {
	return Form{
		"src_no": cardNumber,
		"month":  strconv.Itoa(period.Month),
		"year":   strconv.Itoa(period.Year),
	}
}

// Sales fetches the sales summary of the period.
func (s Scraper) Sales(ctx context.Context, period Period) ([]Record, error) {
	content, err := s.fetcher.Fetch(ctx, s.opts.SalesUrl, s.salesForm(period), s.opts.Fresh)
	if err != nil {
		return nil, err
	}
	return ExtractSummary(content)
}

// CardDetails fetches the transactions of one ration card in the period.
func (s Scraper) CardDetails(ctx context.Context, cardNumber string, period Period) ([]Record, error) {
	content, err := s.fetcher.Fetch(ctx, s.opts.DetailsUrl, detailsForm(cardNumber, period), s.opts.Fresh)
	if err != nil {
		return nil, err
	}
	return ExtractDetail(content)
}

var cardNumberMatchers = []string{textutil.NormalizeName(CardNumberColumn)}

// CardNumber returns the ration card number of a sales record, looking the
// column up loosely in case the portal changes its punctuation.
func CardNumber(record Record) (string, error) {
	if v, ok := record.Get(CardNumberColumn); ok {
		return v, nil
	}
	for _, h := range record.Headers {
		if !textutil.MatchName(h, cardNumberMatchers) {
			continue
		}
		if v, ok := record.Get(h); ok {
			return v, nil
		}
	}
	return "", ErrMissingCardNumber
}

func describe(records []Record) string {
	return textutil.Truncate(fmt.Sprint(records), 240)
}

// Run fetches the sales summary and then the details of every sales record.
//
// A period without any sales records fails with ErrNoSalesData. A sales record
// whose details cannot be fetched is reported, added to Report.Failures and
// skipped, whatever the cause. Only ctx cancellation stops the detail loop early.
func (s Scraper) Run(ctx context.Context, period Period) (Report, error) {
	ctx, span := tracer.Start(ctx, "scraper:Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("custom.month", period.Month),
		attribute.Int("custom.year", period.Year),
	)

	report := Report{Period: period}
	err := period.Validate()
	if err != nil {
		return report, err
	}

	s.tel.ReportInfo("sales data", period.String())
	sales, err := s.Sales(ctx, period)
	if err != nil {
		s.tel.ReportBroken(report_scraper_sales, err, period.String())
		span.SetStatus(codes.Error, "failed to get sales data")
		return report, fmt.Errorf("%w for %s: %w", ErrNoSalesData, period, err)
	}
	if len(sales) == 0 {
		s.tel.ReportBroken(report_scraper_sales, ErrNoSalesData, period.String())
		span.SetStatus(codes.Error, "empty sales data")
		return report, fmt.Errorf("%w for %s", ErrNoSalesData, period)
	}
	report.Sales = sales

	s.tel.ReportInfo("sales data", "first", sales[0].String(), "count", len(sales))
	s.tel.ReportDebug("sales data", describe(sales))
	s.tel.ReportCount("sales.records", int64(len(sales)))

	s.tel.ReportInfo("rc details data", period.String())
	for i, sale := range sales {
		err := s.opts.Pacer.Wait(ctx)
		if err != nil {
			return report, err
		}

		cardNumber, err := CardNumber(sale)
		if err == nil {
			var details []Record
			details, err = s.CardDetails(ctx, cardNumber, period)
			if err == nil {
				report.Details = append(report.Details, DetailSet{
					CardNumber: cardNumber,
					Records:    details,
				})
				if len(details) > 0 {
					s.tel.ReportInfo("rc details", "card", cardNumber, "first", details[0].String(), "count", len(details))
				}
				s.tel.ReportDebug("rc details", cardNumber, describe(details))
				continue
			}
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		s.tel.ReportBroken(report_scraper_card_details, err, i, cardNumber)
		report.Failures = append(report.Failures, Failure{
			Index:      i,
			CardNumber: cardNumber,
			Err:        err,
		})
	}

	s.tel.ReportCount("details.records", int64(report.DetailCount()))
	s.tel.ReportCount("details.failures", int64(len(report.Failures)))
	return report, nil
}
