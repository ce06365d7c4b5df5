package banks

import (
	"context"
	"math"

	"scrape-etl/lib/etl"

	"github.com/cockroachdb/errors"
)

const (
	ColName = "Name"
	ColUSD  = "MC_USD_Billion"
	ColGBP  = "MC_GBP_Billion"
	ColEUR  = "MC_EUR_Billion"
	ColINR  = "MC_INR_Billion"

	pipelineName = "banks"
)

// Schema is the shape of the extracted market-cap table.
var Schema = etl.NewSchema(
	etl.Text(ColName),
	etl.Number(ColUSD),
)

var rowLayout = etl.NewRowLayout(
	etl.Cell(ColName, 1),
	etl.Cell(ColUSD, 2),
)

// Conversion adds one market cap column in another currency.
type Conversion struct {
	Currency string
	Column   string
}

// Conversions are applied in order, so the output columns follow this order.
var Conversions = []Conversion{
	{Currency: "GBP", Column: ColGBP},
	{Currency: "EUR", Column: ColEUR},
	{Currency: "INR", Column: ColINR},
}

// Extract reads the first table body of the page. Every row with data cells
// is a bank: cell 1 is the name and cell 2 the market cap in billions of USD.
func Extract(body string) (*etl.RecordSet, error) {
	doc, err := etl.ParseDocument(body)
	if err != nil {
		return nil, err
	}

	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, errors.Mark(errors.New("page has no table body"), etl.ErrSchema)
	}

	rs := etl.NewRecordSet(Schema)
	rows := tbody.Find("tr")
	for i := range rows.Nodes {
		tds := etl.DataCells(rows.Eq(i))
		if tds.Length() == 0 {
			continue
		}

		cells, err := rowLayout.Bind(tds)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		usd, err := cells.Float(ColUSD)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		err = rs.Append(cells.Text(ColName), usd)
		if err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// LoadRates reads a currency,rate CSV file.
func LoadRates(path string) (etl.LookupTable[float64], error) {
	raw, err := etl.LoadLookupCSV(path)
	if err != nil {
		return etl.LookupTable[float64]{}, err
	}
	return etl.ParseFloatTable(raw)
}

// Round2 rounds to 2 decimal places, ties to even.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// Transform adds one converted market cap column per Conversion. Every
// currency must have a rate; a missing one fails before any column is added.
func Transform(rs *etl.RecordSet, rates etl.LookupTable[float64]) error {
	multipliers := make([]float64, len(Conversions))
	for i, c := range Conversions {
		rate, err := rates.Get(c.Currency)
		if err != nil {
			return err
		}
		multipliers[i] = rate
	}

	for i, c := range Conversions {
		rate := multipliers[i]
		err := rs.AddColumn(etl.Number(c.Column), func(r etl.Record) (any, error) {
			usd, err := r.Float(ColUSD)
			if err != nil {
				return nil, err
			}
			return Round2(usd * rate), nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DefaultQueries are the read-back checks run after loading table.
func DefaultQueries(table string) []string {
	return []string{
		"SELECT * FROM " + table,
		"SELECT AVG(" + ColGBP + ") FROM " + table,
		"SELECT " + ColName + " FROM " + table + " LIMIT 5",
	}
}

func countRecords(ctx context.Context, stage string, rs *etl.RecordSet) {
	etl.CountRecords(ctx, pipelineName, stage, rs.Len())
}
