package moex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Moscow Exchange ISS endpoint.
const DefaultBaseURL = "https://iss.moex.com"

// Columns requested per table. Keeping the list short keeps batch responses small.
var (
	securitiesColumns = []string{
		colSecID, colSecName, colShortName, colISIN, colFaceValue, colNextCoupon,
		colCouponValue, colCouponPeriod, colMatDate, colAccruedInt, colFaceUnit,
		colCouponPercent, colPrevPrice, colSecType,
	}
	marketColumns = []string{colSecID, colLast, colDuration}
	yieldColumns  = []string{colSecID, colEffectiveYield, colDurationWAPrice}
)

// Client defines the interface for fetching bond data from the exchange.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	QuerySecurities(ctx context.Context, secIDs []string) (SecuritiesResponse, error)
	QueryBondization(ctx context.Context, secID string) ([]byte, error)
}

// ISSClient provides methods for fetching bond data from the Moscow Exchange ISS API.
// Outgoing requests share a token-bucket limiter so batch schedule fetches stay
// within the exchange's request budget.
type ISSClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewISSClient creates a new ISS client.
//
// Parameters:
//   - baseURL: ISS root URL, DefaultBaseURL when empty
//   - requestsPerSecond: sustained request rate; values <= 0 disable limiting
//
// Returns:
//   - *ISSClient: A new client instance ready for use
func NewISSClient(baseURL string, requestsPerSecond float64) *ISSClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = max(1, int(requestsPerSecond))
	}
	return &ISSClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// QuerySecurities fetches the securities, marketdata and marketdata_yields
// tables for a batch of SECIDs in a single request.
//
// Parameters:
//   - ctx: request context
//   - secIDs: exchange identifiers, at least one
//
// Returns:
//   - SecuritiesResponse: Raw tables, to be passed to Normalize
//   - error: If no SECID is given, the request fails, or the body is not valid JSON
func (c *ISSClient) QuerySecurities(ctx context.Context, secIDs []string) (SecuritiesResponse, error) {
	if len(secIDs) == 0 {
		return SecuritiesResponse{}, fmt.Errorf("no securities requested")
	}

	query := url.Values{}
	query.Set("iss.meta", "off")
	query.Set("iss.only", "securities,marketdata,marketdata_yields")
	query.Set("securities", strings.Join(secIDs, ","))
	query.Set("securities.columns", strings.Join(securitiesColumns, ","))
	query.Set("marketdata.columns", strings.Join(marketColumns, ","))
	query.Set("marketdata_yields.columns", strings.Join(yieldColumns, ","))

	data, err := c.get(ctx, "/iss/engines/stock/markets/bonds/securities.json", query)
	if err != nil {
		return SecuritiesResponse{}, err
	}

	var response SecuritiesResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return SecuritiesResponse{}, fmt.Errorf("failed to decode securities response: %w", err)
	}
	return response, nil
}

// QueryBondization fetches the raw extended-JSON coupon and amortization
// payload for one security. The payload is returned undecoded so that
// ParseCouponSchedule owns its validation.
func (c *ISSClient) QueryBondization(ctx context.Context, secID string) ([]byte, error) {
	if secID == "" {
		return nil, fmt.Errorf("empty SECID")
	}

	query := url.Values{}
	query.Set("iss.meta", "off")
	query.Set("iss.json", "extended")
	query.Set("iss.only", "coupons,amortizations")
	query.Set("limit", "unlimited")

	return c.get(ctx, "/iss/statistics/engines/stock/markets/bonds/bondization/"+url.PathEscape(secID)+".json", query)
}

// get is an internal helper that executes rate-limited GET requests against the ISS API
// and returns the response body.
func (c *ISSClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moex error: %s", resp.Status)
	}

	return data, nil
}
