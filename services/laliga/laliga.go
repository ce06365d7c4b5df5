package laliga

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"scrape-etl/lib/etl"
	"scrape-etl/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
)

const (
	ColDay        = "Dia"
	ColTime       = "Hora"
	ColHome       = "Local"
	ColAway       = "Visitant"
	ColSport      = "Sport"
	ColTournament = "Tournament"
	ColFixture    = "Fixture"
	ColLocation   = "Location"

	// a match whose time cell reads this has already been played
	finished = "Fin"

	pipelineName = "laliga"
	dateLayout   = "02/01/2006"
)

// Schema is the shape of the extracted matches.
var Schema = etl.NewSchema(
	etl.Text(ColDay),
	etl.Text(ColTime),
	etl.Text(ColHome),
	etl.Text(ColAway),
)

// CalendarSchema is the shape of the exported calendar.
var CalendarSchema = etl.NewSchema(
	etl.Text(ColDay),
	etl.Text(ColTime),
	etl.Text(ColSport),
	etl.Text(ColTournament),
	etl.Text(ColFixture),
	etl.Text(ColLocation),
)

var rowLayout = etl.NewRowLayout(
	etl.Cell(ColDay, 0),
	etl.Cell(ColHome, 1),
	etl.Cell(ColAway, 3),
	etl.OptionalCell(ColTime, 4),
)

// week is the context a match-week header gives every row beneath it.
type week struct {
	year int
	// headers made of a single token belong to weeks without kickoff times
	hasTimes bool
}

func parseWeekHeader(text string) (week, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return week{}, errors.Mark(errors.New("empty week header"), etl.ErrParse)
	}
	for _, tok := range tokens {
		prefix, _, _ := strings.Cut(tok, "-")
		if len(prefix) != 4 {
			continue
		}
		year, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		return week{year: year, hasTimes: len(tokens) > 1}, nil
	}
	return week{}, errors.Mark(errors.Newf("no year in week header %q", text), etl.ErrParse)
}

// matchDate builds DD/MM/YYYY from a DD/MM cell and the week's year.
func matchDate(dayMonth string, year int) (string, error) {
	parts := strings.Split(dayMonth, "/")
	if len(parts) < 2 {
		return "", errors.Mark(errors.Newf("date %q is not DD/MM", dayMonth), etl.ErrParse)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", errors.Mark(errors.Newf("day in %q is not a number", dayMonth), etl.ErrParse)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", errors.Mark(errors.Newf("month in %q is not a number", dayMonth), etl.ErrParse)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		return "", errors.Mark(errors.Newf("%q is not a date in %d", dayMonth, year), etl.ErrParse)
	}
	return date.Format(dateLayout), nil
}

// Extract reads every match-week table of the calendar page and keeps the
// upcoming home matches of the given teams.
func Extract(body string, teams []string) (*etl.RecordSet, error) {
	doc, err := etl.ParseDocument(body)
	if err != nil {
		return nil, err
	}

	rs := etl.NewRecordSet(Schema)
	tables := doc.Find("table")
	for i := range tables.Nodes {
		err := extractWeek(rs, tables.Eq(i), teams)
		if err != nil {
			return nil, errors.Wrapf(err, "table %d", i)
		}
	}
	return rs, nil
}

func extractWeek(rs *etl.RecordSet, table *goquery.Selection, teams []string) error {
	thead := table.Find("thead").First()
	if thead.Length() == 0 {
		return errors.Mark(errors.New("table has no header"), etl.ErrSchema)
	}
	wk, err := parseWeekHeader(htmlutil.SelectionText(thead))
	if err != nil {
		return err
	}

	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		return errors.Mark(errors.New("table has no body"), etl.ErrSchema)
	}

	rows := tbody.Find("tr")
	for i := range rows.Nodes {
		tds := etl.DataCells(rows.Eq(i))
		if tds.Length() == 0 {
			continue
		}

		cells, err := rowLayout.Bind(tds)
		if err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		date, err := matchDate(cells.Text(ColDay), wk.year)
		if err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		kickoff := ""
		if wk.hasTimes {
			kickoff = cells.Text(ColTime)
		}

		home := cells.Text(ColHome)
		if !slices.Contains(teams, home) || kickoff == finished {
			continue
		}
		err = rs.Append(date, kickoff, home, cells.Text(ColAway))
		if err != nil {
			return err
		}
	}
	return nil
}

// AddFixture adds the "<home abbr> v <away abbr>" label column.
func AddFixture(rs *etl.RecordSet, abbreviations etl.LookupTable[string]) error {
	return rs.AddColumn(etl.Text(ColFixture), func(r etl.Record) (any, error) {
		home, err := r.Text(ColHome)
		if err != nil {
			return nil, err
		}
		away, err := r.Text(ColAway)
		if err != nil {
			return nil, err
		}

		homeAbbr, err := abbreviations.Get(home)
		if err != nil {
			return nil, err
		}
		awayAbbr, err := abbreviations.Get(away)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%s v %s", strings.TrimSpace(homeAbbr), strings.TrimSpace(awayAbbr)), nil
	})
}

// CalendarTable projects fixtures into the exported calendar: match date and
// time, the constant sport and tournament, the fixture label and the home
// team's location.
func CalendarTable(rs *etl.RecordSet, sport, tournament string, locations etl.LookupTable[string]) (*etl.RecordSet, error) {
	err := rs.AddColumn(etl.Text(ColLocation), func(r etl.Record) (any, error) {
		home, err := r.Text(ColHome)
		if err != nil {
			return nil, err
		}
		location, err := locations.Get(home)
		if err != nil {
			return nil, err
		}
		return location, nil
	})
	if err != nil {
		return nil, err
	}

	return rs.Select(
		etl.Column{Field: etl.Text(ColDay), From: ColDay},
		etl.Column{Field: etl.Text(ColTime), From: ColTime},
		etl.Column{Field: etl.Text(ColSport), Const: sport},
		etl.Column{Field: etl.Text(ColTournament), Const: tournament},
		etl.Column{Field: etl.Text(ColFixture), From: ColFixture},
		etl.Column{Field: etl.Text(ColLocation), From: ColLocation},
	)
}
