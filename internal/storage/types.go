package storage

import (
	"database/sql"
	"time"

	"github.com/okosoff-test/hockeytest/internal/ledger"
)

type playerRow struct {
	ID            string          `db:"id"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	Phone         string          `db:"phone"`
	PaymentMethod string          `db:"payment_method"`
	Paid          bool            `db:"paid"`
	PaidAmount    sql.NullFloat64 `db:"paid_amount"`
	Rating        int             `db:"rating"`
	IsGoalie      bool            `db:"is_goalie"`
	Team          string          `db:"team"`
	RulesAgreed   bool            `db:"rules_agreed"`
	RegisteredAt  int64           `db:"registered_at"`
}

type waitlistRow struct {
	ID            string `db:"id"`
	FirstName     string `db:"first_name"`
	LastName      string `db:"last_name"`
	Phone         string `db:"phone"`
	PaymentMethod string `db:"payment_method"`
	Rating        int    `db:"rating"`
	IsGoalie      bool   `db:"is_goalie"`
	JoinedAt      int64  `db:"joined_at"`
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

type historyRow struct {
	Year        int     `db:"year"`
	Week        int     `db:"week"`
	ReleaseDate int64   `db:"release_date"`
	Location    string  `db:"location"`
	GameTime    string  `db:"game_time"`
	GameDate    string  `db:"game_date"`
	WhiteTeam   string  `db:"white_team"`
	DarkTeam    string  `db:"dark_team"`
	WhiteAvg    float64 `db:"white_avg"`
	DarkAvg     float64 `db:"dark_avg"`
	CreatedAt   int64   `db:"created_at"`
}

func toPlayerRow(p ledger.Player) playerRow {
	row := playerRow{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		PaymentMethod: p.PaymentMethod,
		Paid:          p.Paid,
		Rating:        p.Rating,
		IsGoalie:      p.IsGoalie,
		Team:          string(p.Team),
		RulesAgreed:   p.RulesAgreed,
		RegisteredAt:  p.RegisteredAt.UnixMilli(),
	}
	if p.PaidAmount != nil {
		row.PaidAmount = sql.NullFloat64{Float64: *p.PaidAmount, Valid: true}
	}
	return row
}

func (r playerRow) player() ledger.Player {
	p := ledger.Player{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Phone:         r.Phone,
		PaymentMethod: r.PaymentMethod,
		Paid:          r.Paid,
		Rating:        r.Rating,
		IsGoalie:      r.IsGoalie,
		Team:          ledger.Team(r.Team),
		RulesAgreed:   r.RulesAgreed,
		RegisteredAt:  time.UnixMilli(r.RegisteredAt).UTC(),
	}
	if !ledger.ValidRating(p.Rating) {
		p.Rating = ledger.DefaultRating
	}
	if r.PaidAmount.Valid {
		amount := r.PaidAmount.Float64
		p.PaidAmount = &amount
	}
	return p
}

func toWaitlistRow(w ledger.WaitlistEntry) waitlistRow {
	return waitlistRow{
		ID:            w.ID,
		FirstName:     w.FirstName,
		LastName:      w.LastName,
		Phone:         w.Phone,
		PaymentMethod: w.PaymentMethod,
		Rating:        w.Rating,
		IsGoalie:      w.IsGoalie,
		JoinedAt:      w.JoinedAt.UnixMilli(),
	}
}

func (r waitlistRow) entry() ledger.WaitlistEntry {
	return ledger.WaitlistEntry{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Phone:         r.Phone,
		PaymentMethod: r.PaymentMethod,
		Rating:        r.Rating,
		IsGoalie:      r.IsGoalie,
		JoinedAt:      time.UnixMilli(r.JoinedAt).UTC(),
	}
}
