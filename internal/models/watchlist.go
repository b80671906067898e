package models

// ManagementMetrics holds return-on-capital figures for a watchlist entry.
type ManagementMetrics struct {
	ROIC string `json:"roic"`
	ROA  string `json:"roa"`
	ROE  string `json:"roe"`
}

// GrowthTrends holds projected and historical growth rates.
type GrowthTrends struct {
	CurrentQtr  string `json:"currentQtr"`
	NextQtr     string `json:"nextQtr"`
	CurrentYear string `json:"currentYear"`
	NextYear    string `json:"nextYear"`
	Next5Years  string `json:"next5Years"`
	Past5Years  string `json:"past5Years"`
	IndustryAvg string `json:"industryAvg"`
}

// StockFundamentalAnalysis is a watchlist entry: the fundamental worksheet a
// student fills in before step 1 of a trading plan. All figures are free text
// on purpose; the worksheet records what the student read, it does not compute.
type StockFundamentalAnalysis struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	DateAdded string `json:"dateAdded"`

	Overview               string `json:"overview"`
	AvgVolume              string `json:"avgVolume"`
	InstitutionalOwnership string `json:"institutionalOwnership"`
	EarningsDate           string `json:"earningsDate"`
	Range52Week            string `json:"range52Week"`

	DebtToEquity       string `json:"debtToEquity"`
	PERatio            string `json:"peRatio"`
	Dividend           string `json:"dividend"`
	IntrinsicValue     string `json:"intrinsicValue"`
	AnalystTargetPrice string `json:"analystTargetPrice"`

	Management ManagementMetrics `json:"management"`
	Growth     GrowthTrends      `json:"growth"`

	Notes string `json:"notes"`
}
