package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestCleanText(t *testing.T) {
	doc := parse(t, `<table><tr>
		<td id="a">  Wheat
			<b>(Kg)</b>&nbsp; </td>
		<td id="b"></td>
		<td id="c"><span>  </span></td>
	</tr></table>`)

	require.Equal(t, "Wheat (Kg)", CleanText(doc.Find("#a").Nodes[0]))
	require.Equal(t, "", CleanText(doc.Find("#b").Nodes[0]))
	require.Equal(t, "", CleanText(doc.Find("#c").Nodes[0]))
}

func TestColspan(t *testing.T) {
	doc := parse(t, `<table><tr>
		<th id="none">A</th>
		<th id="two" COLSPAN="2">B</th>
		<th id="bad" colspan="x">C</th>
		<th id="zero" colspan="0">D</th>
		<th id="huge" colspan="2147483647">E</th>
		<th id="overflow" colspan="99999999999999999999">F</th>
	</tr></table>`)

	testCases := []struct {
		id     string
		expect int
	}{
		{id: "#none", expect: 1},
		{id: "#two", expect: 2},
		{id: "#bad", expect: 1},
		{id: "#zero", expect: 1},
		{id: "#huge", expect: MaxColspan},
		{id: "#overflow", expect: 1},
	}
	for _, test := range testCases {
		require.Equal(t, test.expect, Colspan(doc.Find(test.id).Nodes[0]), test.id)
	}

	_, ok := Attr(doc.Find("#none").Nodes[0], "colspan")
	require.False(t, ok)
}
