package handlers

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePayments_ReleasedRoster(t *testing.T) {
	at := time.Date(2026, 10, 20, 16, 30, 0, 0, time.UTC)
	twenty := 20.0
	zero := 0.0
	view := league.AdminView{
		RosterReleased: true,
		Players: []ledger.Player{
			{FirstName: "Dana", LastName: "Dark", Phone: "(519) 555-0001", Rating: 6, PaymentMethod: "Cash", Paid: true, PaidAmount: &twenty, Team: ledger.TeamDark, RegisteredAt: at},
			{FirstName: "Wes", LastName: "White", Phone: "(519) 555-0002", Rating: 5, Team: ledger.TeamWhite, RegisteredAt: at},
			{FirstName: "Gail", LastName: "Goalie", Phone: "(519) 555-0003", Rating: 9, IsGoalie: true, Paid: true, PaidAmount: &zero, Team: ledger.TeamWhite, RegisteredAt: at},
			{FirstName: "Late", LastName: "Add", Phone: "(519) 555-0004", Rating: 4, RegisteredAt: at},
		},
		Waitlist: []ledger.WaitlistEntry{
			{FirstName: "Next", LastName: "Up", Phone: "(519) 555-0005", Rating: 3, JoinedAt: at},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, view, time.UTC))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	teams := make([]string, 0, len(records))
	for _, rec := range records {
		teams = append(teams, rec[0])
	}
	assert.Equal(t, []string{
		"Team", "White", "White", "Dark", "Unassigned", "Waitlist #1",
		"SUMMARY", "Total Collected", "Paid Players", "Unpaid Players",
	}, teams)

	assert.Equal(t, []string{"White", "Wes", "White", "(519) 555-0002", "5", "N/A", "0", "UNPAID", "NO", "10/20/2026, 4:30:00 PM"}, records[1])
	assert.Equal(t, "YES", records[2][8])
	assert.Equal(t, []string{"20", "PAID"}, records[3][6:8])
	assert.Equal(t, []string{"N/A", "N/A"}, records[5][6:8])
	assert.Equal(t, "$20.00", records[7][1])
	assert.Equal(t, "1", records[8][1], "goalies are not counted")
	assert.Equal(t, "2", records[9][1])
}

func TestWritePayments_BeforeReleaseEveryoneIsWhite(t *testing.T) {
	view := league.AdminView{
		Players: []ledger.Player{
			{FirstName: "A", LastName: "One", Rating: 5},
			{FirstName: "B", LastName: "Two", Rating: 5},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, view, time.UTC))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "White", records[1][0])
	assert.Equal(t, "White", records[2][0])
	assert.Equal(t, "SUMMARY", records[3][0])
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    *float64
		wantErr bool
	}{
		{"null", nil, nil, false},
		{"empty", "", nil, false},
		{"number", 12.5, ptr(12.5), false},
		{"string", "15", ptr(15), false},
		{"dollar", "$17.50", ptr(17.5), false},
		{"junk", "lots", nil, true},
		{"bool", true, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledger.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func ptr(f float64) *float64 { return &f }
