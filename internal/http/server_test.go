package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/config"
	"github.com/okosoff-test/hockeytest/internal/http/handlers"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/metrics"
	"github.com/okosoff-test/hockeytest/internal/notifier"
	"github.com/okosoff-test/hockeytest/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword           = "hunter2"
	testSlackSigningSecret = "test-signing-secret"
	testTimeZone           = "America/New_York"
)

var ny = func() *time.Location {
	loc, err := time.LoadLocation(testTimeZone)
	if err != nil {
		panic(err)
	}
	return loc
}()

var (
	// Tuesday of ISO week 43, inside the open window.
	tuesdayNoon = time.Date(2026, 10, 20, 12, 0, 0, 0, ny)
	// Saturday of the same week, inside the locked window.
	saturdayMorning = time.Date(2026, 10, 24, 10, 0, 0, 0, ny)
)

type testServer struct {
	*Server
	store *league.MockStore
	notif *notifier.Mock
	clock *clockwork.FakeClock
}

// setupTestServer builds a server around a league backed by in-memory mocks.
func setupTestServer(t *testing.T, at time.Time) *testServer {
	t.Helper()

	store := league.NewMockStore()
	notif := notifier.NewMock()
	fake := clockwork.NewFakeClockAt(at)
	n := 0
	ids := ledger.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("p%d", n)
	})
	leagueCfg := config.Profiles()[config.ProfileFriday]
	svc := league.New(leagueCfg, clock.New(fake, ny), store, notif, metrics.NewMock(), ids)
	require.NoError(t, svc.Load(context.Background()))

	cfg := config.Config{
		AdminPassword: testPassword,
		TimeZone:      testTimeZone,
		Slack:         config.SlackConfig{SigningSecret: testSlackSigningSecret},
		League:        leagueCfg,
	}
	reg := prometheus.NewRegistry()
	metrics.NewService(reg)
	server := NewServer(svc, session.New(), metrics.NewMetricsHandler(reg), nil, cfg)
	return &testServer{Server: server, store: store, notif: notif, clock: fake}
}

func (s *testServer) do(t *testing.T, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func adminHeader() http.Header {
	return http.Header{handlers.PasswordHeader: []string{testPassword}}
}

func signup(i int) map[string]any {
	return map[string]any{
		"firstName":     "Skater",
		"lastName":      fmt.Sprintf("Number%d", i),
		"phone":         fmt.Sprintf("226-555-%04d", i),
		"paymentMethod": "E-Transfer",
		"rating":        1 + i%10,
	}
}

// registerPlayers runs both registration steps for n skaters.
func registerPlayers(t *testing.T, s *testServer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		rr := s.do(t, http.MethodPost, "/api/register-init", signup(i), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		temp := decodeBody(t, rr)["tempData"]
		rr = s.do(t, http.MethodPost, "/api/register-final", map[string]any{"tempData": temp, "rulesAgreed": true}, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	rr := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestRegistrationFlow(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)

	t.Run("init returns normalised details", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/register-init", signup(1), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["proceedToRules"])
		temp := body["tempData"].(map[string]any)
		assert.Equal(t, "(226) 555-0001", temp["phone"])
		assert.Empty(t, s.store.StoredPlayers(), "init must not register anyone")
	})

	t.Run("final requires agreeing to the rules", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/register-final", map[string]any{"tempData": signup(1), "rulesAgreed": false}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "You must agree to the rules to register.", decodeBody(t, rr)["error"])
	})

	t.Run("final without details is rejected", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/register-final", map[string]any{"rulesAgreed": true}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Registration data missing.", decodeBody(t, rr)["error"])
	})

	t.Run("final registers the player", func(t *testing.T) {
		registerPlayers(t, s, 1)
		rr := s.do(t, http.MethodGet, "/api/status", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.EqualValues(t, 19, body["playerSpotsRemaining"])
		players := body["players"].([]any)
		require.Len(t, players, 1)
		p := players[0].(map[string]any)
		assert.Equal(t, "Skater", p["firstName"])
		assert.Equal(t, true, p["canCancel"])
		assert.NotContains(t, p, "phone")
		assert.NotContains(t, p, "rating")
	})

	t.Run("duplicates conflict", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/register-init", signup(0), nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "A player with this name or phone number is already registered.", decodeBody(t, rr)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		req := signup(5)
		delete(req, "paymentMethod")
		rr := s.do(t, http.MethodPost, "/api/register-init", req, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "All fields are required.", decodeBody(t, rr)["error"])
	})

	t.Run("bad phone", func(t *testing.T) {
		req := signup(6)
		req["phone"] = "555-0100"
		rr := s.do(t, http.MethodPost, "/api/register-init", req, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Please enter a valid 10-digit phone number.", decodeBody(t, rr)["error"])
	})
}

func TestRegistration_FullRosterWaitlists(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	rr := s.do(t, http.MethodPost, "/api/admin/update-spots", map[string]any{"newSpots": 0}, adminHeader())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/register-init", signup(1), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["inWaitlist"])
	assert.EqualValues(t, 1, body["waitlistPosition"])
	assert.Equal(t, "Game is full. You have been added to the waitlist.", body["message"])

	rr = s.do(t, http.MethodGet, "/api/waitlist", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	wl := decodeBody(t, rr)
	assert.EqualValues(t, 1, wl["totalWaitlist"])
	line := wl["waitlist"].([]any)[0].(map[string]any)
	assert.Equal(t, "Skater Number1", line["fullName"])
}

func TestSignupCode(t *testing.T) {
	s := setupTestServer(t, saturdayMorning)

	t.Run("wrong code", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/verify-code", map[string]any{"code": "0000"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, false, decodeBody(t, rr)["valid"])
	})

	t.Run("right code", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/verify-code", map[string]any{"code": "9855"}, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, decodeBody(t, rr)["valid"])
	})

	t.Run("registration needs the code", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/register-init", signup(1), nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid or missing signup code", decodeBody(t, rr)["error"])

		req := signup(1)
		req["signupCode"] = "9855"
		rr = s.do(t, http.MethodPost, "/api/register-init", req, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("final checks the code again", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/register-final", map[string]any{"tempData": signup(2), "rulesAgreed": true}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		rr = s.do(t, http.MethodPost, "/api/register-final", map[string]any{"tempData": signup(2), "rulesAgreed": true, "signupCode": "9855"}, nil)
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("open window accepts anything", func(t *testing.T) {
		open := setupTestServer(t, tuesdayNoon)
		rr := open.do(t, http.MethodPost, "/api/verify-code", map[string]any{"code": ""}, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["valid"])
		assert.Equal(t, "Signup is open to all", body["message"])
	})
}

func TestCancelRegistration(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	registerPlayers(t, s, 2)
	players := s.League.Players()
	require.Len(t, players, 2)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantErr  string
	}{
		{"missing phone", map[string]any{"playerId": players[0].ID}, http.StatusBadRequest, "Player ID and phone number are required."},
		{"unknown player", map[string]any{"playerId": "nope", "phone": "2265550000"}, http.StatusNotFound, "Player not found."},
		{"wrong phone", map[string]any{"playerId": players[0].ID, "phone": "5195550000"}, http.StatusUnauthorized, "Phone number does not match registration."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/cancel-registration", tt.body, nil)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantErr, decodeBody(t, rr)["error"])
		})
	}

	t.Run("matching phone cancels", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/cancel-registration",
			map[string]any{"playerId": players[0].ID, "phone": "(226) 555-0000"}, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decodeBody(t, rr)
		assert.Equal(t, "Registration cancelled successfully.", body["message"])
		assert.Nil(t, body["promotedPlayer"])
		assert.EqualValues(t, 19, body["spotsAvailable"])
	})
}

func TestAdminAuth(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)

	t.Run("no credentials", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/admin/players", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/admin/players", nil, http.Header{handlers.PasswordHeader: []string{"nope"}})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		rr = s.do(t, http.MethodPost, "/api/admin/login", map[string]any{"password": "nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, false, decodeBody(t, rr)["success"])
	})

	t.Run("password fallback", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/admin/players", nil, adminHeader())
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("session lifecycle", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/login", map[string]any{"password": testPassword}, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		token := decodeBody(t, rr)["sessionToken"].(string)
		require.NotEmpty(t, token)
		withToken := http.Header{handlers.SessionHeader: []string{token}}

		rr = s.do(t, http.MethodPost, "/api/admin/check-session", map[string]any{"sessionToken": token}, nil)
		assert.Equal(t, true, decodeBody(t, rr)["loggedIn"])

		rr = s.do(t, http.MethodGet, "/api/admin/settings", nil, withToken)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "9855", decodeBody(t, rr)["code"])

		rr = s.do(t, http.MethodPost, "/api/admin/logout", nil, withToken)
		require.Equal(t, http.StatusOK, rr.Code)
		rr = s.do(t, http.MethodPost, "/api/admin/check-session", map[string]any{"sessionToken": token}, nil)
		assert.Equal(t, false, decodeBody(t, rr)["loggedIn"])
		rr = s.do(t, http.MethodGet, "/api/admin/settings", nil, withToken)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminRosterEdits(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	registerPlayers(t, s, 1)
	id := s.League.Players()[0].ID

	t.Run("add goalie", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/add-player", map[string]any{
			"firstName": "Gord", "lastName": "Keeper", "phone": "5195550199", "rating": 6, "isGoalie": true,
		}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decodeBody(t, rr)
		assert.Equal(t, false, body["inWaitlist"])
		assert.Equal(t, true, body["player"].(map[string]any)["isGoalie"])
	})

	t.Run("add to waitlist", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/add-player", map[string]any{
			"firstName": "Wait", "lastName": "Listed", "phone": "5195550198", "rating": 4, "toWaitlist": true,
		}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, true, decodeBody(t, rr)["inWaitlist"])
	})

	t.Run("add with bad phone", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/add-player", map[string]any{
			"firstName": "Bad", "lastName": "Phone", "phone": "12", "rating": 4,
		}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid phone number format", decodeBody(t, rr)["error"])
	})

	t.Run("spots out of range", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/update-spots", map[string]any{"newSpots": 31}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid spot count (0-30 allowed)", decodeBody(t, rr)["error"])
	})

	t.Run("paid amount", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/update-paid-amount", map[string]any{"playerId": id, "amount": "20"}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["player"].(map[string]any)["paid"])
		assert.Equal(t, "20.00", body["totalPaid"])

		rr = s.do(t, http.MethodPost, "/api/admin/update-paid-amount", map[string]any{"playerId": id, "amount": ""}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, false, decodeBody(t, rr)["player"].(map[string]any)["paid"])

		rr = s.do(t, http.MethodPost, "/api/admin/update-paid-amount", map[string]any{"playerId": id, "amount": "lots"}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		for _, amount := range []string{"NaN", "Inf", "-Inf", "1e999"} {
			rr = s.do(t, http.MethodPost, "/api/admin/update-paid-amount", map[string]any{"playerId": id, "amount": amount}, adminHeader())
			assert.Equal(t, http.StatusBadRequest, rr.Code, amount)
		}
		rr = s.do(t, http.MethodGet, "/api/admin/players", nil, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "0.00", decodeBody(t, rr)["totalPaid"])
	})

	t.Run("rating", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/update-rating", map[string]any{"playerId": id, "newRating": 11}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = s.do(t, http.MethodPost, "/api/admin/update-rating", map[string]any{"playerId": id, "newRating": 8}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.EqualValues(t, 1, body["oldRating"])
		assert.EqualValues(t, 8, body["newRating"])
	})

	t.Run("promote and remove", func(t *testing.T) {
		wl := s.League.Waitlist()
		require.Len(t, wl, 1)
		rr := s.do(t, http.MethodPost, "/api/admin/promote-waitlist", map[string]any{"waitlistId": wl[0].ID}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.EqualValues(t, 18, decodeBody(t, rr)["spots"])

		rr = s.do(t, http.MethodPost, "/api/admin/remove-player", map[string]any{"playerId": "nope"}, adminHeader())
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = s.do(t, http.MethodPost, "/api/admin/remove-player", map[string]any{"playerId": wl[0].ID}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 19, decodeBody(t, rr)["spots"])

		rr = s.do(t, http.MethodPost, "/api/admin/remove-waitlist", map[string]any{"waitlistId": wl[0].ID}, adminHeader())
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("admin view counts", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/admin/players", nil, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.EqualValues(t, 2, body["totalPlayers"])
		assert.EqualValues(t, 1, body["goalieCount"])
		assert.EqualValues(t, 1, body["unpaidCount"])
		player := body["players"].([]any)[0].(map[string]any)
		assert.Contains(t, player, "phone")
		assert.Contains(t, player, "rating")
	})
}

func TestAdminSettings(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)

	t.Run("details", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/update-details", map[string]any{"location": "Rink B", "date": "2026-10-30"}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		details := decodeBody(t, rr)["details"].(map[string]any)
		assert.Equal(t, "Rink B", details["location"])
		assert.Equal(t, "Friday 9:30 PM", details["time"])
		assert.Equal(t, "Friday, October 30, 2026", details["formattedDate"])

		rr = s.do(t, http.MethodPost, "/api/admin/update-details", map[string]any{"date": "30/10/2026"}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("code", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/update-code", map[string]any{"newCode": "12a4"}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Code must be exactly 4 digits", decodeBody(t, rr)["error"])

		rr = s.do(t, http.MethodPost, "/api/admin/update-code", map[string]any{"newCode": "-123"}, adminHeader())
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = s.do(t, http.MethodPost, "/api/admin/update-code", map[string]any{"newCode": "1234"}, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "1234", decodeBody(t, rr)["code"])
	})

	t.Run("toggle and reset schedule", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/toggle-code", nil, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["requireCode"])
		assert.Equal(t, true, body["manualOverride"])

		rr = s.do(t, http.MethodGet, "/api/status", nil, nil)
		assert.Equal(t, true, decodeBody(t, rr)["requireCode"])

		rr = s.do(t, http.MethodPost, "/api/admin/reset-schedule", nil, adminHeader())
		require.Equal(t, http.StatusOK, rr.Code)
		body = decodeBody(t, rr)
		assert.Equal(t, false, body["manualOverride"])
		assert.Equal(t, false, body["requireCode"], "Tuesday noon is outside the locked window")
	})
}

func TestReleaseAndHistory(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)

	rr := s.do(t, http.MethodPost, "/api/admin/release-roster", nil, adminHeader())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No players registered yet", decodeBody(t, rr)["error"])

	rr = s.do(t, http.MethodGet, "/api/roster", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["released"])
	assert.Equal(t, "Teams released every Friday at 5:00 PM", body["releaseTime"])

	registerPlayers(t, s, 4)
	rr = s.do(t, http.MethodPost, "/api/admin/release-roster?dry_run=true", nil, adminHeader())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body = decodeBody(t, rr)
	assert.Equal(t, true, body["rosterReleased"])
	assert.Len(t, body["whiteTeam"], 2)
	assert.Len(t, body["darkTeam"], 2)
	require.Len(t, s.notif.RosterReleasedCalls, 1)
	assert.True(t, s.notif.RosterReleasedCalls[0].DryRun)

	rr = s.do(t, http.MethodGet, "/api/roster", nil, nil)
	body = decodeBody(t, rr)
	assert.Equal(t, true, body["released"])
	assert.EqualValues(t, 43, body["weekNumber"])
	assert.NotContains(t, body["whiteTeam"].([]any)[0], "phone")

	rr = s.do(t, http.MethodGet, "/api/history", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var weeks []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &weeks))
	require.Len(t, weeks, 1)
	assert.EqualValues(t, 43, weeks[0]["weekNumber"])

	rr = s.do(t, http.MethodGet, "/api/history/2026/43", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decodeBody(t, rr)
	assert.Len(t, body["whiteTeam"], 2)
	assert.NotContains(t, body["whiteTeam"].([]any)[0], "rating")

	rr = s.do(t, http.MethodGet, "/api/history/2026/99", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/admin/history/2026/43", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = s.do(t, http.MethodDelete, "/api/admin/history/2026/43", nil, adminHeader())
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/history/2026/43", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestManualReset(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	registerPlayers(t, s, 2)

	rr := s.do(t, http.MethodPost, "/api/admin/manual-reset", nil, adminHeader())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, "Manual reset completed", body["message"])
	assert.Equal(t, "9855", body["code"])
	assert.EqualValues(t, 3, body["autoAdded"])
	require.Len(t, s.notif.WeekResetCalls, 1)
	assert.False(t, s.notif.WeekResetCalls[0].DryRun)

	players := s.League.Players()
	require.Len(t, players, 3)
	for _, p := range players {
		assert.NotEqual(t, "Skater", p.FirstName)
	}
}

func TestExportPayments(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	registerPlayers(t, s, 2)
	rr := s.do(t, http.MethodPost, "/api/admin/add-player", map[string]any{
		"firstName": "Wait", "lastName": "Listed", "phone": "5195550198", "rating": 4, "toWaitlist": true,
	}, adminHeader())
	require.Equal(t, http.StatusOK, rr.Code)

	t.Run("password is not enough", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/admin/export-payments", nil, adminHeader())
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("session token in query", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/admin/login", map[string]any{"password": testPassword}, nil)
		token := decodeBody(t, rr)["sessionToken"].(string)

		rr = s.do(t, http.MethodGet, "/api/admin/export-payments?sessionToken="+url.QueryEscape(token), nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="hockey-payments-2026-10-23.csv"`, rr.Header().Get("Content-Disposition"))

		lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
		assert.Equal(t, "Team,First Name,Last Name,Phone,Rating,Payment Method,Paid Amount,Payment Status,Goalie,Registered At", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "White,Skater,Number0,(226) 555-0000,1,E-Transfer,0,UNPAID,NO,"), lines[1])
		assert.True(t, strings.HasPrefix(lines[3], "Waitlist #1,Wait,Listed,"), lines[3])
		assert.Contains(t, rr.Body.String(), "Total Collected,$0.00")
		assert.Contains(t, rr.Body.String(), "Unpaid Players,2")
	})
}

func TestCounters_Unavailable(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	rr := s.do(t, http.MethodGet, "/api/admin/counters", nil, adminHeader())
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDebugEndpoints(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)

	rr := s.do(t, http.MethodGet, "/api/debug-time", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Tuesday", body["weekday"])
	assert.Equal(t, testTimeZone, body["timeZone"])
	assert.Equal(t, "2026-10-23", body["nextGameDate"])

	rr = s.do(t, http.MethodGet, "/api/force-check", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeBody(t, rr)["success"])
}

// createSlackCommandRequest builds a signed slash command request.
func createSlackCommandRequest(t *testing.T, form url.Values, signingSecret string) *http.Request {
	t.Helper()
	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, "/slack/command/hockey", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func TestHockeyCommand(t *testing.T) {
	s := setupTestServer(t, tuesdayNoon)
	registerPlayers(t, s, 1)

	t.Run("unsigned request is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/slack/command/hockey", strings.NewReader("text=status"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		req := createSlackCommandRequest(t, url.Values{"text": {"status"}}, "wrong-secret")
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	tests := []struct {
		text string
		want string
	}{
		{"", "Spots left: *19*"},
		{"status", "Week 43 signup"},
		{"roster", "Roster has not been released yet"},
		{"waitlist", "The waitlist is empty."},
		{"bogus", "Unknown option `bogus`"},
	}
	for _, tt := range tests {
		t.Run("text "+tt.text, func(t *testing.T) {
			req := createSlackCommandRequest(t, url.Values{"command": {"/hockey"}, "text": {tt.text}}, testSlackSigningSecret)
			rr := httptest.NewRecorder()
			s.ServeHTTP(rr, req)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}
