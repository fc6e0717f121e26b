package epos

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingData       = errors.New("no data received")
	ErrMissingTable      = errors.New("table tag not found in html response")
	ErrEmptyTable        = errors.New("no rows in table")
	ErrMissingHeader     = errors.New("header rows not found in table")
	ErrTransport         = errors.New("request failed")
	ErrNoSalesData       = errors.New("no sales data")
	ErrMissingCardNumber = errors.New("sales record has no ration card number")
	ErrInvalidPeriod     = errors.New("invalid reporting period")
)

// Form is the form-encoded payload of a request.
type Form map[string]string

// Record is one table row keyed by the headers it was extracted with. A nil value
// means the row had no cell for that header or the cell had no text.
type Record struct {
	Headers []string
	Values  map[string]*string
}

// Get returns the text stored under header, ok is false for a missing or empty cell.
func (r Record) Get(header string) (string, bool) {
	v := r.Values[header]
	if v == nil {
		return "", false
	}
	return *v, true
}

func (r Record) String() string {
	var out strings.Builder
	out.WriteString("{")
	for i, h := range r.Headers {
		if i > 0 {
			out.WriteString(", ")
		}
		v := r.Values[h]
		if v == nil {
			fmt.Fprintf(&out, "%q: nil", h)
			continue
		}
		fmt.Fprintf(&out, "%q: %q", h, *v)
	}
	out.WriteString("}")
	return out.String()
}

type Period struct {
	Month int
	Year  int
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%02d/%04d", p.Month, p.Year)
}

// DetailSet holds the transactions of one ration card.
type DetailSet struct {
	CardNumber string
	Records    []Record
}

// Failure is a sales record whose details could not be fetched, Index is its
// position in Report.Sales.
type Failure struct {
	Index      int
	CardNumber string
	Err        error
}

type Report struct {
	Period   Period
	Sales    []Record
	Details  []DetailSet
	Failures []Failure
}

// DetailCount is the number of detail records across all cards.
func (r Report) DetailCount() int {
	n := 0
	for _, d := range r.Details {
		n += len(d.Records)
	}
	return n
}
