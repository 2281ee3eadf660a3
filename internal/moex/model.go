package moex

import "encoding/json"

// SecuritiesResponse is the raw ISS response for a batch of bonds, requested
// with iss.only=securities,marketdata,marketdata_yields.
type SecuritiesResponse struct {
	Securities       RawTable `json:"securities"`
	MarketData       RawTable `json:"marketdata"`
	MarketDataYields RawTable `json:"marketdata_yields"`
}

// bondizationBody is the second element of the extended-JSON bondization
// payload `[metadata, {coupons, amortizations}]`.
type bondizationBody struct {
	Coupons       []couponEntry       `json:"coupons"`
	Amortizations []amortizationEntry `json:"amortizations"`
}

// couponEntry is one row of the coupons block. Value is null for coupons
// whose rate has not been announced yet.
type couponEntry struct {
	SecID      string   `json:"secid"`
	ISIN       string   `json:"isin"`
	CouponDate string   `json:"coupondate"`
	Value      *float64 `json:"value"`
	ValuePrc   *float64 `json:"valueprc"`
	FaceValue  float64  `json:"facevalue"`
	FaceUnit   string   `json:"faceunit"`
}

// amortizationEntry is one row of the amortizations block.
type amortizationEntry struct {
	SecID      string      `json:"secid"`
	ISIN       string      `json:"isin"`
	AmortDate  string      `json:"amortdate"`
	Value      *float64    `json:"value"`
	ValuePrc   json.Number `json:"valueprc"`
	FaceValue  float64     `json:"facevalue"`
	FaceUnit   string      `json:"faceunit"`
	DataSource string      `json:"data_source"`
}
