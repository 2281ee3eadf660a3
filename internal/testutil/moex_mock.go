package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/moex"
)

// MockMoexClient is a mock implementation of moex.Client for testing.
// It serves securities from an in-memory list instead of calling the exchange.
// Safe for the concurrent schedule requests MarketService makes.
type MockMoexClient struct {
	mu sync.Mutex

	// Securities are returned by QuerySecurities, filtered to the requested SECIDs
	Securities []MockSecurity
	// Schedules maps a SECID to the raw bondization payload QueryBondization returns
	Schedules map[string][]byte
	// MockError is returned from every query method when set
	MockError error
	// ScheduleErrors maps a SECID to an error returned by QueryBondization
	ScheduleErrors map[string]error

	securityQueries int
	scheduleQueries int
}

// MockSecurity is one row of the securities, marketdata and marketdata_yields tables.
type MockSecurity struct {
	SecID         string
	ShortName     string
	FaceValue     float64
	FaceUnit      string
	CouponValue   float64
	CouponPeriod  float64
	AccruedInt    float64
	SecType       string
	Last          *float64
	PrevPrice     *float64
	Coupons       []Payment
	Amortizations []Payment
}

// NewMockMoexClient creates a mock exchange listing the given securities.
// Securities with coupons also get a bondization payload.
func NewMockMoexClient(securities ...MockSecurity) *MockMoexClient {
	m := &MockMoexClient{
		Schedules:      make(map[string][]byte),
		ScheduleErrors: make(map[string]error),
	}
	for _, s := range securities {
		m.Add(s)
	}
	return m
}

// Add lists a security and, when it has coupons, its schedule.
func (m *MockMoexClient) Add(s MockSecurity) *MockMoexClient {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Securities = append(m.Securities, s)
	if len(s.Coupons) > 0 {
		m.Schedules[s.SecID] = BondizationPayload(s.SecID, s.Coupons, s.Amortizations)
	}
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockMoexClient) WithError(err error) *MockMoexClient {
	m.MockError = err
	return m
}

// QuerySecurities returns the configured securities whose SECID was requested,
// in listing order, shaped like the ISS response.
func (m *MockMoexClient) QuerySecurities(_ context.Context, secIDs []string) (moex.SecuritiesResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.securityQueries++
	if m.MockError != nil {
		return moex.SecuritiesResponse{}, m.MockError
	}

	wanted := make(map[string]bool, len(secIDs))
	for _, id := range secIDs {
		wanted[id] = true
	}

	var matched []MockSecurity
	for _, s := range m.Securities {
		if wanted[s.SecID] {
			matched = append(matched, s)
		}
	}

	return SecuritiesResponse(matched...), nil
}

// QueryBondization returns the configured payload for secID, or an empty
// coupons block when none was configured.
func (m *MockMoexClient) QueryBondization(_ context.Context, secID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scheduleQueries++
	if m.MockError != nil {
		return nil, m.MockError
	}
	if err, ok := m.ScheduleErrors[secID]; ok {
		return nil, err
	}
	if payload, ok := m.Schedules[secID]; ok {
		return payload, nil
	}
	return BondizationPayload(secID, nil, nil), nil
}

// SecurityQueries returns how many times QuerySecurities was called.
func (m *MockMoexClient) SecurityQueries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.securityQueries
}

// ScheduleQueries returns how many times QueryBondization was called.
func (m *MockMoexClient) ScheduleQueries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduleQueries
}

// SecuritiesResponse builds an ISS-shaped response from securities.
// Nil prices become JSON nulls as the exchange sends them.
func SecuritiesResponse(securities ...MockSecurity) moex.SecuritiesResponse {
	resp := moex.SecuritiesResponse{
		Securities: moex.RawTable{Columns: []string{
			"SECID", "SHORTNAME", "FACEVALUE", "FACEUNIT", "COUPONVALUE",
			"COUPONPERIOD", "ACCRUEDINT", "SECTYPE", "PREVPRICE",
		}},
		MarketData:       moex.RawTable{Columns: []string{"SECID", "LAST", "DURATION"}},
		MarketDataYields: moex.RawTable{Columns: []string{"SECID", "EFFECTIVEYIELD", "DURATIONWAPRICE"}},
	}

	for _, s := range securities {
		resp.Securities.Data = append(resp.Securities.Data, []any{
			s.SecID, s.ShortName, s.FaceValue, s.FaceUnit, s.CouponValue,
			s.CouponPeriod, s.AccruedInt, s.SecType, nullable(s.PrevPrice),
		})
		resp.MarketData.Data = append(resp.MarketData.Data, []any{s.SecID, nullable(s.Last), nil})
		resp.MarketDataYields.Data = append(resp.MarketDataYields.Data, []any{s.SecID, nil, nil})
	}

	return resp
}

// BondizationPayload builds an extended-JSON bondization payload.
func BondizationPayload(secID string, coupons, amortizations []Payment) []byte {
	couponRows := make([]map[string]any, 0, len(coupons))
	for _, c := range coupons {
		couponRows = append(couponRows, map[string]any{
			"secid":      secID,
			"coupondate": c.Date,
			"value":      c.Value,
		})
	}

	amortRows := make([]map[string]any, 0, len(amortizations))
	for _, a := range amortizations {
		amortRows = append(amortRows, map[string]any{
			"secid":     secID,
			"amortdate": a.Date,
			"value":     a.Value,
			"valueprc":  nil,
		})
	}

	payload, err := json.Marshal([]any{
		map[string]any{"charsetinfo": map[string]string{"name": "utf-8"}},
		map[string]any{"coupons": couponRows, "amortizations": amortRows},
	})
	if err != nil {
		panic(fmt.Sprintf("marshal bondization payload: %v", err))
	}
	return payload
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
