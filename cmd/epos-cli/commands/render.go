package commands

import (
	"io"

	"eposfetch/internal/scrapers/epos"

	"github.com/jedib0t/go-pretty/v6/table"
)

func cell(r epos.Record, header string) any {
	v, ok := r.Get(header)
	if !ok {
		return "-"
	}
	return v
}

// renderReport prints the sales summary with the number of detail records
// fetched for every ration card, followed by the cards that failed.
func renderReport(w io.Writer, report epos.Report) {
	if len(report.Sales) == 0 {
		return
	}

	detailCounts := map[string]int{}
	for _, d := range report.Details {
		detailCounts[d.CardNumber] = len(d.Records)
	}
	failed := map[int]bool{}
	for _, f := range report.Failures {
		failed[f.Index] = true
	}

	headers := report.Sales[0].Headers
	header := table.Row{}
	for _, h := range headers {
		header = append(header, h)
	}
	header = append(header, "Transactions")

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Sales %s", report.Period)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)

	for i, r := range report.Sales {
		row := table.Row{}
		for _, h := range headers {
			row = append(row, cell(r, h))
		}
		card, _ := epos.CardNumber(r)
		switch {
		case failed[i]:
			row = append(row, "failed")
		default:
			row = append(row, detailCounts[card])
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{"Total", report.DetailCount()})
	tw.Render()

	if len(report.Failures) == 0 {
		return
	}
	fw := table.NewWriter()
	fw.SetOutputMirror(w)
	fw.SetTitle("Failures")
	fw.SetStyle(table.StyleLight)
	fw.AppendHeader(table.Row{"#", "RC No", "Error"})
	for _, f := range report.Failures {
		fw.AppendRow(table.Row{f.Index + 1, f.CardNumber, f.Err.Error()})
	}
	fw.Render()
}
