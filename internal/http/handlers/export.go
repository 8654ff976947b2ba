package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

var exportHeader = []string{
	"Team", "First Name", "Last Name", "Phone", "Rating",
	"Payment Method", "Paid Amount", "Payment Status", "Goalie", "Registered At",
}

const exportTimeLayout = "1/2/2006, 3:04:05 PM"

// ExportPaymentsHandler streams the roster and waitlist as a payment sheet.
func ExportPaymentsHandler(svc *league.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := svc.AdminView()
		name := view.Date
		if name == "" {
			name = "current"
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="hockey-payments-%s.csv"`, name))
		if err := WritePayments(w, view, loc); err != nil {
			log.Error("Export failed", "error", err)
		}
	}
}

// WritePayments writes the payment sheet for view. Before release every
// unassigned player is listed under White; after release they are Unassigned.
func WritePayments(out io.Writer, view league.AdminView, loc *time.Location) error {
	cw := csv.NewWriter(out)
	row := func(team string, first, last, phone string, rating int, method, amount, status string, goalie bool, at time.Time) []string {
		if method == "" {
			method = "N/A"
		}
		return []string{
			team, first, last, phone, strconv.Itoa(rating), method, amount, status,
			yesNo(goalie), at.In(loc).Format(exportTimeLayout),
		}
	}
	player := func(team string, p ledger.Player) []string {
		amount := 0.0
		if p.PaidAmount != nil {
			amount = *p.PaidAmount
		}
		status := "UNPAID"
		if p.Paid {
			status = "PAID"
		}
		return row(team, p.FirstName, p.LastName, p.Phone, p.Rating, p.PaymentMethod,
			strconv.FormatFloat(amount, 'f', -1, 64), status, p.IsGoalie, p.RegisteredAt)
	}

	records := [][]string{exportHeader}
	groups := []struct {
		team  string
		match func(ledger.Player) bool
	}{
		{"White", func(p ledger.Player) bool {
			return p.Team == ledger.TeamWhite || (p.Team == ledger.TeamNone && !view.RosterReleased)
		}},
		{"Dark", func(p ledger.Player) bool { return p.Team == ledger.TeamDark }},
		{"Unassigned", func(p ledger.Player) bool { return p.Team == ledger.TeamNone && view.RosterReleased }},
	}
	for _, g := range groups {
		for _, p := range view.Players {
			if g.match(p) {
				records = append(records, player(g.team, p))
			}
		}
	}
	for i, e := range view.Waitlist {
		records = append(records, row(fmt.Sprintf("Waitlist #%d", i+1), e.FirstName, e.LastName, e.Phone,
			e.Rating, e.PaymentMethod, "N/A", "N/A", e.IsGoalie, e.JoinedAt))
	}

	var total float64
	paid, unpaid := 0, 0
	for _, p := range view.Players {
		if p.PaidAmount != nil {
			total += *p.PaidAmount
		}
		if p.IsGoalie {
			continue
		}
		if p.Paid {
			paid++
		} else {
			unpaid++
		}
	}
	summary := func(label, value string) []string {
		r := make([]string, len(exportHeader))
		r[0], r[1] = label, value
		return r
	}
	records = append(records,
		[]string{""},
		summary("SUMMARY", ""),
		summary("Total Collected", fmt.Sprintf("$%.2f", total)),
		summary("Paid Players", strconv.Itoa(paid)),
		summary("Unpaid Players", strconv.Itoa(unpaid)),
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write payments: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
