package etl

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestLookupKeyErrorHints(t *testing.T) {
	cases := []struct {
		key        string
		known      []string
		expectHint string
	}{
		{
			key:        "Barcelonna",
			known:      []string{"Barcelona", "Girona", "Espanyol"},
			expectHint: `did you mean "Barcelona"?`,
		},
		{
			key:   "Real Madrid",
			known: []string{"Barcelona", "Girona", "Espanyol"},
		},
		{
			key: "GBP",
		},
	}

	for _, test := range cases {
		err := lookupKeyError("teams", test.key, test.known)
		require.True(t, errors.Is(err, ErrLookupKey), test.key)
		require.ErrorContains(t, err, test.key)

		hints := errors.GetAllHints(err)
		if test.expectHint == "" {
			require.Empty(t, hints, test.key)
			continue
		}
		require.Equal(t, []string{test.expectHint}, hints)
	}
}

func TestErrorKindsSurviveWrapping(t *testing.T) {
	err := errors.Wrap(parseError("bad %s", "cell"), "row 3")
	require.True(t, errors.Is(err, ErrParse))
	require.False(t, errors.Is(err, ErrSchema))
	require.Equal(t, "row 3: bad cell", err.Error())
}
