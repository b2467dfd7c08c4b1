package model

// Fundamentals holds the formatted quote-summary fields for one ticker.
type Fundamentals struct {
	Status            string `json:"status"`
	Ticker            string `json:"ticker"`
	Name              string `json:"name"`
	FloatShares       string `json:"floatShares"`
	MarketCap         string `json:"marketCap"`
	SharesOutstanding string `json:"sharesOutstanding"`
	AvgVolume10D      string `json:"avgVolume10D"`
	Note              string `json:"note,omitempty"`
}
