package moex

import (
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// Column names read from the ISS securities, marketdata and marketdata_yields tables.
const (
	colSecID           = "SECID"
	colSecName         = "SECNAME"
	colShortName       = "SHORTNAME"
	colISIN            = "ISIN"
	colFaceValue       = "FACEVALUE"
	colNextCoupon      = "NEXTCOUPON"
	colCouponValue     = "COUPONVALUE"
	colCouponPeriod    = "COUPONPERIOD"
	colMatDate         = "MATDATE"
	colAccruedInt      = "ACCRUEDINT"
	colFaceUnit        = "FACEUNIT"
	colCouponPercent   = "COUPONPERCENT"
	colPrevPrice       = "PREVPRICE"
	colSecType         = "SECTYPE"
	colLast            = "LAST"
	colDuration        = "DURATION"
	colEffectiveYield  = "EFFECTIVEYIELD"
	colDurationWAPrice = "DURATIONWAPRICE"
)

// Normalize assembles one Bond per row of the securities table, joining the
// market data and yield tables on SECID and deriving TYPE, CURRENTPRICE and
// CURRENTYIELD.
//
// A security without a market or yield row still produces a record; its
// market fields are left nil.
//
// Returns a *apperrors.DataError when the securities table is empty or its
// first cell is not a security identifier, which means the exchange query
// matched nothing.
func Normalize(securities, market, yields RawTable) ([]model.Bond, error) {
	if !hasIdentifier(securities) {
		return nil, apperrors.NewDataError("", apperrors.ErrNoSecuritiesData)
	}

	secCols := MapColumns(securities.Columns)
	marketCols := MapColumns(market.Columns)
	yieldCols := MapColumns(yields.Columns)

	marketBySecID := indexRows(market.Data, marketCols.Position(colSecID))
	yieldBySecID := indexRows(yields.Data, yieldCols.Position(colSecID))

	bonds := make([]model.Bond, 0, len(securities.Data))
	for _, row := range securities.Data {
		secID := StringAt(row, secCols.Position(colSecID))
		marketRow := marketBySecID[secID]
		yieldRow := yieldBySecID[secID]

		bond := model.Bond{
			SecID:           secID,
			ISIN:            StringAt(row, secCols.Position(colISIN)),
			ShortName:       StringAt(row, secCols.Position(colShortName)),
			Name:            StringAt(row, secCols.Position(colSecName)),
			FaceValue:       NumberAt(row, secCols.Position(colFaceValue)),
			FaceUnit:        StringAt(row, secCols.Position(colFaceUnit)),
			CouponPercent:   NumberAt(row, secCols.Position(colCouponPercent)),
			CouponValue:     NumberAt(row, secCols.Position(colCouponValue)),
			CouponFrequency: NumberAt(row, secCols.Position(colCouponPeriod)),
			MatDate:         StringAt(row, secCols.Position(colMatDate)),
			NextCoupon:      StringAt(row, secCols.Position(colNextCoupon)),
			AccruedInt:      NumberAt(row, secCols.Position(colAccruedInt)),
			SecType:         StringAt(row, secCols.Position(colSecType)),
			PrevPrice:       OptionalNumberAt(row, secCols.Position(colPrevPrice)),

			Last:     OptionalNumberAt(marketRow, marketCols.Position(colLast)),
			Duration: OptionalNumberAt(marketRow, marketCols.Position(colDuration)),

			EffectiveYield:  OptionalNumberAt(yieldRow, yieldCols.Position(colEffectiveYield)),
			DurationWAPrice: OptionalNumberAt(yieldRow, yieldCols.Position(colDurationWAPrice)),
		}
		bond.Recompute()

		bonds = append(bonds, bond)
	}

	return bonds, nil
}

// hasIdentifier reports whether the table has at least one row whose first
// cell is a non-empty string.
func hasIdentifier(table RawTable) bool {
	if len(table.Data) == 0 || len(table.Data[0]) == 0 {
		return false
	}
	id, ok := table.Data[0][0].(string)
	return ok && id != ""
}

// indexRows maps the key column of each row to the row. The first row wins
// for duplicate keys, as a linear scan would.
func indexRows(rows [][]any, keyIndex int) map[string][]any {
	index := make(map[string][]any, len(rows))
	if keyIndex < 0 {
		return index
	}
	for _, row := range rows {
		key := StringAt(row, keyIndex)
		if key == "" {
			continue
		}
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = row
	}
	return index
}
