package epos

import (
	"fmt"
	"strings"

	"eposfetch/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// the summary table (fps_transactions.action) looks like this:
//
//	thead > tr[0]  table title, ignored
//	thead > tr[1]  primary headers, some with a colspan
//	thead > tr[2]  sub headers of the spanned primary headers, left to right
//	tbody > tr[0]  label row, ignored
//	tbody > tr[1:] data
const (
	summaryPrimaryHeaderRow = 1
	summarySubHeaderRow     = 2
	summaryFirstDataRow     = 1
)

// the detail table (SRC_Trans_Details.jsp) has no thead, rows 0 and 1 are
// titles, row 2 holds the headers and data starts right after.
const (
	detailHeaderRow    = 2
	detailFirstDataRow = 3
)

type HeaderCell struct {
	Text    string
	Colspan int
}

// BuildHeaders flattens a two row header block into one name per leaf column.
// A primary cell spanning n columns takes the next n sub headers, producing
// names like "Wheat(Qty)". When the sub header row runs out, the column
// number inside the span is used instead. Spans are clamped to htmlutil.MaxColspan.
func BuildHeaders(primary, sub []HeaderCell) []string {
	headers := []string{}
	cursor := 0
	for _, cell := range primary {
		if cell.Colspan <= 1 {
			headers = append(headers, cell.Text)
			continue
		}
		span := min(cell.Colspan, htmlutil.MaxColspan)
		for i := 0; i < span; i++ {
			if cursor < len(sub) {
				headers = append(headers, fmt.Sprintf("%s(%s)", cell.Text, sub[cursor].Text))
				cursor++
				continue
			}
			headers = append(headers, fmt.Sprintf("%s(%d)", cell.Text, i+1))
		}
	}
	return headers
}

// ZipRow pairs headers and cells by position. Missing cells become nil,
// cells past the last header are dropped.
func ZipRow(headers []string, cells []*string) Record {
	record := Record{
		Headers: headers,
		Values:  make(map[string]*string, len(headers)),
	}
	for i, h := range headers {
		if i < len(cells) {
			record.Values[h] = cells[i]
			continue
		}
		record.Values[h] = nil
	}
	return record
}

func cellText(node *html.Node) *string {
	text := htmlutil.CleanText(node)
	if text == "" {
		return nil
	}
	return &text
}

func cellTexts(sel *goquery.Selection) []*string {
	out := make([]*string, len(sel.Nodes))
	for i, n := range sel.Nodes {
		out[i] = cellText(n)
	}
	return out
}

func headerCells(row *goquery.Selection) []HeaderCell {
	ths := row.ChildrenFiltered("th")
	out := make([]HeaderCell, len(ths.Nodes))
	for i, n := range ths.Nodes {
		out[i] = HeaderCell{
			Text:    htmlutil.CleanText(n),
			Colspan: htmlutil.Colspan(n),
		}
	}
	return out
}

// tableRows returns the rows of table itself, not the rows of tables nested in its cells.
// The parser always wraps bare rows in a tbody.
func tableRows(table *goquery.Selection) *goquery.Selection {
	return table.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr")
}

func parseDocument(body string) (*goquery.Document, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrMissingData
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ExtractSummary reads the monthly sales table, the first table directly under body.
func ExtractSummary(body string) ([]Record, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	table := doc.Find("body > table").First()
	if table.Length() == 0 {
		return nil, ErrMissingTable
	}

	headerRows := table.ChildrenFiltered("thead").ChildrenFiltered("tr")
	if headerRows.Length() <= summaryPrimaryHeaderRow {
		return nil, fmt.Errorf("%w: expected at least %d thead rows, got %d",
			ErrMissingHeader, summaryPrimaryHeaderRow+1, headerRows.Length())
	}
	primary := headerCells(headerRows.Eq(summaryPrimaryHeaderRow))
	var sub []HeaderCell
	if headerRows.Length() > summarySubHeaderRow {
		sub = headerCells(headerRows.Eq(summarySubHeaderRow))
	}
	headers := BuildHeaders(primary, sub)

	records := []Record{}
	table.ChildrenFiltered("tbody").ChildrenFiltered("tr").Each(func(i int, row *goquery.Selection) {
		if i < summaryFirstDataRow {
			return
		}
		records = append(records, ZipRow(headers, cellTexts(row.Children())))
	})
	return records, nil
}

// ExtractDetail reads the per ration card transaction table, the first table in the document.
func ExtractDetail(body string) ([]Record, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrMissingTable
	}

	rows := tableRows(table)
	if rows.Length() == 0 {
		return nil, ErrEmptyTable
	}
	if rows.Length() <= detailHeaderRow {
		return nil, fmt.Errorf("%w: expected at least %d rows, got %d",
			ErrMissingHeader, detailHeaderRow+1, rows.Length())
	}

	headers := []string{}
	for _, n := range rows.Eq(detailHeaderRow).ChildrenFiltered("th").Nodes {
		headers = append(headers, htmlutil.CleanText(n))
	}

	records := []Record{}
	for i := detailFirstDataRow; i < rows.Length(); i++ {
		cells := rows.Eq(i).ChildrenFiltered("td")
		records = append(records, ZipRow(headers, cellTexts(cells)))
	}
	return records, nil
}
