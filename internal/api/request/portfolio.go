package request

// CreatePortfolioRequest represents the request body for creating a portfolio.
// Bonds optionally seeds the portfolio with positions in the same transaction.
type CreatePortfolioRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Bonds       []PositionRequest `json:"bonds,omitempty"`
}

// PositionRequest represents the request body for adding a bond to a portfolio.
// PurchasePrice is percent of face value; omit it when unknown.
type PositionRequest struct {
	SecID         string   `json:"secid"`
	Quantity      int      `json:"quantity"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
}

// UpdatePositionRequest represents the request body for changing a held bond.
type UpdatePositionRequest struct {
	Quantity      int      `json:"quantity"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
}
