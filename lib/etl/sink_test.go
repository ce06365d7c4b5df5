package etl

import (
	"context"
	"math"
	"path/filepath"
	"regexp"
	"testing"

	"scrape-etl/lib/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		value  any
		expect string
	}{
		{value: 100.0, expect: "100.0"},
		{value: 80.0, expect: "80.0"},
		{value: 432.92, expect: "432.92"},
		{value: 0.1, expect: "0.1"},
		{value: "Bank X", expect: "Bank X"},
		{value: int64(3), expect: "3"},
		{value: nil, expect: ""},
		{value: math.NaN(), expect: "NaN"},
		{value: math.Inf(1), expect: "+Inf"},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, FormatValue(test.value))
	}
}

func TestWriteCSV(t *testing.T) {
	rs := bankRecords(t)
	require.NoError(t, rs.Append("Bank, Ltd", 1.5))

	path := filepath.Join(t.TempDir(), "banks.csv")
	require.NoError(t, WriteCSV(path, rs, SinkOptions{Index: true}))
	expected := ",Name,MC_USD_Billion\n" +
		"0,Bank X,100.0\n" +
		"1,Bank Y,50.0\n" +
		"2,\"Bank, Ltd\",1.5\n"
	require.Equal(t, expected, testutil.ReadFile(t, path))

	// writing again overwrites the file instead of appending
	require.NoError(t, WriteCSV(path, rs, SinkOptions{}))
	expected = "Name,MC_USD_Billion\n" +
		"Bank X,100.0\n" +
		"Bank Y,50.0\n" +
		"\"Bank, Ltd\",1.5\n"
	require.Equal(t, expected, testutil.ReadFile(t, path))
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(path, NewRecordSet(bankSchema), SinkOptions{Index: true}))
	require.Equal(t, ",Name,MC_USD_Billion\n", testutil.ReadFile(t, path))
}

func TestWriteTableReplaces(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	rs := bankRecords(t)

	_, err := db.Exec(`CREATE TABLE "Largest_banks" (stale TEXT)`)
	require.NoError(t, err)

	require.NoError(t, WriteTable(ctx, db, "Largest_banks", rs, SinkOptions{Index: true}))
	require.NoError(t, WriteTable(ctx, db, "Largest_banks", rs, SinkOptions{Index: true}))

	result, err := RunQuery(ctx, db, "SELECT * FROM Largest_banks")
	require.NoError(t, err)
	require.Equal(t, []string{"index", "Name", "MC_USD_Billion"}, result.Columns)
	expected := [][]any{
		{int64(0), "Bank X", 100.0},
		{int64(1), "Bank Y", 50.0},
	}
	if diff := cmp.Diff(expected, result.Rows); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteTableRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "banks"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "banks" ("Name" TEXT, "MC_USD_Billion" REAL)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	prepared := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "banks" ("Name", "MC_USD_Billion") VALUES (?, ?)`))
	prepared.ExpectExec().
		WithArgs("Bank X", 100.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prepared.ExpectExec().
		WithArgs("Bank Y", 50.0).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = WriteTable(context.Background(), db, "banks", bankRecords(t), SinkOptions{})
	require.ErrorContains(t, err, "insert record 1 into banks")
	require.NoError(t, mock.ExpectationsWereMet())
}
