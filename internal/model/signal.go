package model

// Status values of a TickerResult.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Divergence classifications produced by the divergence engine.
const (
	BullishDivergence   = "BULLISH DIVERGENCE"
	HiddenBullish       = "HIDDEN BULLISH"
	BullishContinuation = "BULLISH CONTINUATION"
	BearishDivergence   = "BEARISH DIVERGENCE"
	BearishContinuation = "BEARISH CONTINUATION"
	NoSignal            = "-"
)

// ScreenedBullish is the label of a ticker passing the composite divergence screen.
const ScreenedBullish = "Bullish Divergence"

// Check is one named rule of the composite screen.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// TickerResult is the per-ticker report of one analysis run.
type TickerResult struct {
	Ticker      string `json:"ticker"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Interval    string `json:"interval,omitempty"`
	SubInterval string `json:"subInterval,omitempty"`

	VolSpikeRatio   float64 `json:"volSpikeRatio"`
	AvgVol          float64 `json:"avgVol"`
	VolatilityRatio float64 `json:"volatilityRatio"`
	LRS             float64 `json:"lrs"`
	GapValue        float64 `json:"gapValue"`
	MinClose        float64 `json:"minClose"`

	CurrentDeltaOBV float64 `json:"currentDeltaOBV"`
	CurrentNetOBV   float64 `json:"currentNetOBV"`
	AvgNetOBV       float64 `json:"avgNetOBV"`
	StrengthNetOBV  float64 `json:"strengthNetOBV"`
	ClassicOBV      float64 `json:"classicOBV"`

	DivergenceTrend string  `json:"divergenceTrend"`
	Divergence      string  `json:"divergence"`
	Checks          []Check `json:"checks,omitempty"`

	LastData  *AnalyzedCandle `json:"lastData,omitempty"`
	LocalTime string          `json:"localTime,omitempty"`
}

// OK reports whether the analysis succeeded.
func (r TickerResult) OK() bool { return r.Status == StatusOK }

// Signalled reports whether the composite screen fired.
func (r TickerResult) Signalled() bool { return r.Divergence == ScreenedBullish }
