package moex

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// DateLayout is the date format used by the ISS API.
const DateLayout = "2006-01-02"

// ParseCouponSchedule decodes an extended-JSON bondization payload shaped as
// `[metadata, {coupons: [...], amortizations: [...]}]` into a CouponSchedule.
//
// The SECID is taken from the first coupon. Both sequences keep the order the
// exchange returned them in. An empty amortizations block is valid; an empty
// coupons block is a *apperrors.DataError because the bond cannot be scheduled.
func ParseCouponSchedule(payload []byte) (model.CouponSchedule, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(payload, &parts); err != nil {
		return model.CouponSchedule{}, fmt.Errorf("failed to decode bondization payload: %w", err)
	}
	if len(parts) < 2 {
		return model.CouponSchedule{}, apperrors.NewDataError("", apperrors.ErrNoCoupons)
	}

	var body bondizationBody
	if err := json.Unmarshal(parts[1], &body); err != nil {
		return model.CouponSchedule{}, fmt.Errorf("failed to decode bondization body: %w", err)
	}
	if len(body.Coupons) == 0 {
		return model.CouponSchedule{}, apperrors.NewDataError("", apperrors.ErrNoCoupons)
	}

	secID := body.Coupons[0].SecID
	schedule := model.CouponSchedule{
		SecID:              secID,
		CouponDates:        make([]time.Time, len(body.Coupons)),
		CouponValues:       make([]float64, len(body.Coupons)),
		AmortizationDates:  make([]time.Time, len(body.Amortizations)),
		AmortizationValues: make([]model.Amortization, len(body.Amortizations)),
	}

	for i, c := range body.Coupons {
		date, err := parseDate(c.CouponDate)
		if err != nil {
			return model.CouponSchedule{}, fmt.Errorf("coupon %d of %s: %w", i, secID, err)
		}
		schedule.CouponDates[i] = date
		if c.Value != nil {
			schedule.CouponValues[i] = *c.Value
		}
	}

	for i, a := range body.Amortizations {
		date, err := parseDate(a.AmortDate)
		if err != nil {
			return model.CouponSchedule{}, fmt.Errorf("amortization %d of %s: %w", i, secID, err)
		}
		schedule.AmortizationDates[i] = date
		amortization := model.Amortization{ValuePercent: a.ValuePrc.String()}
		if a.Value != nil {
			amortization.Value = *a.Value
		}
		schedule.AmortizationValues[i] = amortization
	}

	return schedule, nil
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return date.UTC(), nil
}
