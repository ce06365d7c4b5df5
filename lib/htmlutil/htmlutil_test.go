package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{input: "  Barcelona \n", expect: "Barcelona"},
		{input: "Jornada 1\t 2024-25", expect: "Jornada 1 2024-25"},
		{input: "Real\u200b Madrid", expect: "Real Madrid"},
		{input: "", expect: ""},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, CleanText(test.input))
	}
}

func TestSelectionText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><thead><tr><th>Jornada 1</th><th><span>2024-25</span></th></tr></thead></table>`,
	))
	require.NoError(t, err)

	require.Equal(t, "Jornada 12024-25", SelectionText(doc.Find("thead")))
	require.Equal(t, "2024-25", GetText(doc.Find("span").Nodes[0]))
	require.Equal(t, "", SelectionText(doc.Find("tbody")))
}
