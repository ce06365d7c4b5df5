package banks

import (
	"testing"

	"scrape-etl/lib/etl"
	"scrape-etl/lib/testutil"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/largest_banks.html
var largestBanksPage string

const syntheticPage = `<table><tbody>
<tr><td></td><td>Bank X</td><td>100.0</td></tr>
<tr><td></td><td>Bank Y</td><td>50.0</td></tr>
</tbody></table>`

const ratesCsv = "Currency,Rate\nGBP,0.8\nEUR,0.9\nINR,80\n"

func values(rs *etl.RecordSet) [][]any {
	var out [][]any
	for _, r := range rs.Records() {
		out = append(out, r.Values())
	}
	return out
}

func TestExtract(t *testing.T) {
	rs, err := Extract(largestBanksPage)
	require.NoError(t, err)
	require.Equal(t, []string{ColName, ColUSD}, rs.Schema().Names())

	expected := [][]any{
		{"JPMorgan Chase", 432.92},
		{"Bank of America", 231.52},
		{"Industrial and Commercial Bank of China", 194.56},
	}
	if diff := cmp.Diff(expected, values(rs)); diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractErrors(t *testing.T) {
	cases := []struct {
		name   string
		page   string
		expect error
	}{
		{
			name:   "no table body",
			page:   `<html><body><p>nothing here</p></body></html>`,
			expect: etl.ErrSchema,
		},
		{
			name:   "short row",
			page:   `<table><tbody><tr><td>1</td><td>Bank X</td></tr></tbody></table>`,
			expect: etl.ErrSchema,
		},
		{
			name:   "market cap is not a number",
			page:   `<table><tbody><tr><td>1</td><td>Bank X</td><td>1,000.5</td></tr></tbody></table>`,
			expect: etl.ErrParse,
		},
	}

	for _, test := range cases {
		_, err := Extract(test.page)
		require.True(t, errors.Is(err, test.expect), "%s: %v", test.name, err)
	}
}

func TestTransform(t *testing.T) {
	rs, err := Extract(syntheticPage)
	require.NoError(t, err)
	rates, err := LoadRates(testutil.WriteFile(t, "exchange_rate.csv", ratesCsv))
	require.NoError(t, err)

	require.NoError(t, Transform(rs, rates))
	require.Equal(t, []string{ColName, ColUSD, ColGBP, ColEUR, ColINR}, rs.Schema().Names())
	expected := [][]any{
		{"Bank X", 100.0, 80.0, 90.0, 8000.0},
		{"Bank Y", 50.0, 40.0, 45.0, 4000.0},
	}
	if diff := cmp.Diff(expected, values(rs)); diff != "" {
		t.Fatal(diff)
	}
}

func TestTransformRoundsTiesToEven(t *testing.T) {
	rs := etl.NewRecordSet(Schema)
	require.NoError(t, rs.Append("Bank Z", 100.5))
	rates := etl.NewLookupTable("rates", map[string]float64{"GBP": 0.25, "EUR": 0.75, "INR": 1})

	require.NoError(t, Transform(rs, rates))
	require.Equal(t, []any{"Bank Z", 100.5, 25.12, 75.38, 100.5}, rs.Record(0).Values())
}

func TestTransformMissingRate(t *testing.T) {
	rs, err := Extract(syntheticPage)
	require.NoError(t, err)
	rates, err := LoadRates(testutil.WriteFile(t, "exchange_rate.csv", "Currency,Rate\nGBP,0.8\nEUR,0.9\n"))
	require.NoError(t, err)

	err = Transform(rs, rates)
	require.True(t, errors.Is(err, etl.ErrLookupKey))
	require.ErrorContains(t, err, "INR")
	// no column is added when a rate is missing
	require.Equal(t, []string{ColName, ColUSD}, rs.Schema().Names())
}

func TestRound2(t *testing.T) {
	cases := []struct {
		input  float64
		expect float64
	}{
		{input: 346.3336, expect: 346.33},
		{input: 402.6156, expect: 402.62},
		{input: 0.125, expect: 0.12},
		{input: -0.125, expect: -0.12},
		{input: 0.375, expect: 0.38},
		{input: 25.125, expect: 25.12},
		{input: 80, expect: 80},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, Round2(test.input))
	}
}

func TestDefaultQueries(t *testing.T) {
	require.Equal(t, []string{
		"SELECT * FROM Largest_banks",
		"SELECT AVG(MC_GBP_Billion) FROM Largest_banks",
		"SELECT Name FROM Largest_banks LIMIT 5",
	}, DefaultQueries("Largest_banks"))
}
