package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/testutil"
)

// fakeISS serves the securities and bondization endpoints for one bond.
func fakeISS(t *testing.T) *httptest.Server {
	t.Helper()

	security := testutil.MockSecurity{
		SecID: "RU000A105TJ2", ShortName: "Флоатер", FaceValue: 1000, FaceUnit: "SUR",
		CouponValue: 50, CouponPeriod: 182, SecType: "6", Last: testutil.Float(100),
	}
	coupons := []testutil.Payment{{Date: "2024-03-15", Value: 50}, {Date: "2024-09-13", Value: 50}}
	amortizations := []testutil.Payment{{Date: "2024-03-15", Value: 200}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/securities.json"):
			_ = json.NewEncoder(w).Encode(testutil.SecuritiesResponse(security))
		case strings.Contains(r.URL.Path, "/bondization/"):
			_, _ = w.Write(testutil.BondizationPayload(security.SecID, coupons, amortizations))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBondsCommand(t *testing.T) {
	server := fakeISS(t)

	out, err := run(t, "bonds", "--moex-url", server.URL, "--moex-rps", "0", "ru000a105tj2")

	require.NoError(t, err)
	var bonds []model.BondResponse
	require.NoError(t, json.Unmarshal([]byte(out), &bonds))
	require.Len(t, bonds, 1)
	assert.Equal(t, "RU000A105TJ2", bonds[0].SecID)
	assert.Equal(t, model.BondTypeCorporate, bonds[0].Type)
	assert.Empty(t, bonds[0].CouponDates)
}

func TestCalendarCommand(t *testing.T) {
	server := fakeISS(t)

	out, err := run(t, "calendar", "--moex-url", server.URL, "--moex-rps", "0",
		"--month", "2024-03", "RU000A105TJ2=2", "ru000a105tj2")

	require.NoError(t, err)
	var calendar model.CashFlowCalendar
	require.NoError(t, json.Unmarshal([]byte(out), &calendar))
	assert.Equal(t, "2024-03-01", calendar.Start)
	assert.Equal(t, "2024-03-31", calendar.End)
	assert.Equal(t, 750.0, calendar.Totals["SUR"], "(50 + 200) * 3")
}

func TestCalendarCommand_InvalidRange(t *testing.T) {
	_, err := run(t, "calendar", "--moex-url", "http://127.0.0.1:0", "--date", "2024-03-15", "--month", "2024-03", "RU000A105TJ2")

	assert.Error(t, err)
}

func TestRatesCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<ValCurs Date="15.10.2026" name="Foreign Currency Market">
<Valute ID="R01235"><NumCode>840</NumCode><CharCode>USD</CharCode><Nominal>1</Nominal><Name>Доллар США</Name><Value>92,5</Value></Valute>
</ValCurs>`))
	}))
	defer server.Close()

	out, err := run(t, "rates", "--cbr-url", server.URL)

	require.NoError(t, err)
	var snapshot model.RateSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, 92.5, snapshot.Rates["USD"].Rate)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "bondctl "))
}

func TestParseHoldings(t *testing.T) {
	t.Run("quantities default to one and add up", func(t *testing.T) {
		holdings, err := parseHoldings([]string{"SU26238RMFS4=10", "su26238rmfs4", "RU000A105TJ2=0"})

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"SU26238RMFS4": 11, "RU000A105TJ2": 0}, holdings)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, arg := range []string{"SU26238RMFS4=-1", "SU26238RMFS4=ten", "SU 26238", "=5"} {
			_, err := parseHoldings([]string{arg})
			assert.Error(t, err, arg)
		}
	})
}
