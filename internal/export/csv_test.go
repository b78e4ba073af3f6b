package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfsedit/internal/types"
)

func TestWriteCSV(t *testing.T) {
	teams := []types.Team{
		{ID: 1, Name: "Arsenal", Wealth: 5000, FoundYear: 1886, Reputation: 80,
			Location: "London", LeagueID: 1, SupporterCount: 60000,
			StadiumName: "Emirates", Nickname: "Gunners"},
		{ID: 2, Name: "Team, with comma", Wealth: 10, FoundYear: 1900,
			Location: "Some \"Town\"", LeagueID: 7, SupporterCount: 5},
	}
	names := map[int64]string{1: "Premier"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, teams, names))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per team")

	assert.Equal(t, []string{
		"ID", "Name", "Wealth", "FoundedYear", "Reputation",
		"Location", "League", "Supporters", "Stadium", "Nickname",
	}, records[0])

	assert.Equal(t, []string{
		"1", "Arsenal", "5000", "1886", "80",
		"London", "Premier", "60000", "Emirates", "Gunners",
	}, records[1])

	// Quoting round-trips, and unknown leagues fall back to a placeholder.
	assert.Equal(t, "Team, with comma", records[2][1])
	assert.Equal(t, `Some "Town"`, records[2][5])
	assert.Equal(t, "league 7", records[2][6])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "empty list still writes the header")
}
