package models

// FundamentalMetrics holds optional valuation and quality metrics.
// A nil field means the provider had no value; it never scores as neutral.
//
// Units: valuation multiples are plain ratios (PERatio 18.5). Margins,
// returns, growth rates and DividendYield are fractions (0.22 means 22%).
// DebtToEquity is a plain ratio (0.3), not a percentage.
type FundamentalMetrics struct {
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PEGRatio        *float64 `json:"peg_ratio,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	PriceToSales    *float64 `json:"price_to_sales,omitempty"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	EPS             *float64 `json:"eps,omitempty"`
	ForwardEPS      *float64 `json:"forward_eps,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
	Week52High      *float64 `json:"week52_high,omitempty"`
	Week52Low       *float64 `json:"week52_low,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets  *float64 `json:"return_on_assets,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	QuickRatio      *float64 `json:"quick_ratio,omitempty"`
	FreeCashflow    *float64 `json:"free_cashflow,omitempty"`
	TotalCash       *float64 `json:"total_cash,omitempty"`
	TotalDebt       *float64 `json:"total_debt,omitempty"`
	TargetMeanPrice *float64 `json:"target_mean_price,omitempty"`
	TargetHighPrice *float64 `json:"target_high_price,omitempty"`
	TargetLowPrice  *float64 `json:"target_low_price,omitempty"`

	RecommendationKey string `json:"recommendation_key,omitempty"`
	AnalystCount      *int   `json:"analyst_count,omitempty"`
}
