package models

import "time"

// Role identifies which agent produced a piece of output.
type Role string

const (
	RoleFundamentalsAnalyst Role = "fundamentals_analyst"
	RoleTechnicalAnalyst    Role = "technical_analyst"
	RoleSentimentAnalyst    Role = "sentiment_analyst"
	RoleMacroNewsAnalyst    Role = "macro_news_analyst"
	RoleNewsNLPAnalyst      Role = "news_nlp_analyst"
	RoleGenerativeAnalyst   Role = "generative_analyst"
	RoleBullResearcher      Role = "bull_researcher"
	RoleBearResearcher      Role = "bear_researcher"
	RoleStrategist          Role = "strategist"
	RoleEquityTrader        Role = "equity_trader"
	RoleRiskManager         Role = "risk_manager"
	RolePortfolioManager    Role = "portfolio_manager"
	RoleReflectiveAgent     Role = "reflective_agent"
)

// Sentiment is a coarse directional view.
type Sentiment string

const (
	SentimentVeryBearish Sentiment = "very_bearish"
	SentimentBearish     Sentiment = "bearish"
	SentimentNeutral     Sentiment = "neutral"
	SentimentBullish     Sentiment = "bullish"
	SentimentVeryBullish Sentiment = "very_bullish"
)

// TrendDirection classifies price action.
type TrendDirection string

const (
	TrendStrongDown TrendDirection = "strong_downtrend"
	TrendDown       TrendDirection = "downtrend"
	TrendSideways   TrendDirection = "sideways"
	TrendUp         TrendDirection = "uptrend"
	TrendStrongUp   TrendDirection = "strong_uptrend"
)

// AgentReport is the common envelope every analyst produces. Exactly one of
// the detail pointers is set, matching the analyst that produced it; the set
// of variants is closed.
type AgentReport struct {
	Role       Role           `json:"role"`
	Symbol     string         `json:"symbol"`
	Summary    string         `json:"summary"`
	Confidence float64        `json:"confidence"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`

	Fundamentals *FundamentalsDetails `json:"fundamentals,omitempty"`
	Technical    *TechnicalDetails    `json:"technical,omitempty"`
	Sentiment    *SentimentDetails    `json:"sentiment,omitempty"`
	MacroNews    *MacroNewsDetails    `json:"macro_news,omitempty"`
	NewsNLP      *NewsNLPDetails      `json:"news_nlp,omitempty"`
	Generative   *GenerativeDetails   `json:"generative,omitempty"`
}

type FundamentalsDetails struct {
	PERatio        float64   `json:"pe_ratio,omitempty"`
	PBRatio        float64   `json:"pb_ratio,omitempty"`
	DebtToEquity   float64   `json:"debt_to_equity,omitempty"`
	IntrinsicValue float64   `json:"intrinsic_value,omitempty"`
	CurrentPrice   float64   `json:"current_price,omitempty"`
	Thesis         Sentiment `json:"thesis"`
	KeyPoints      []string  `json:"key_points,omitempty"`
}

type TechnicalDetails struct {
	Trend            TrendDirection `json:"trend"`
	SupportLevels    []float64      `json:"support_levels,omitempty"`
	ResistanceLevels []float64      `json:"resistance_levels,omitempty"`
	ChartPatterns    []string       `json:"chart_patterns,omitempty"`
	Volatility       float64        `json:"volatility,omitempty"`
}

type SentimentDetails struct {
	Social         Sentiment `json:"social"`
	Score          float64   `json:"score"`
	TrendingTopics []string  `json:"trending_topics,omitempty"`
}

type MacroNewsDetails struct {
	MarketSentiment Sentiment `json:"market_sentiment"`
	KeyEvents       []string  `json:"key_events,omitempty"`
	MacroThemes     []string  `json:"macro_themes,omitempty"`
}

type NewsNLPDetails struct {
	Sentiment     Sentiment `json:"sentiment"`
	Score         float64   `json:"score"`
	PositiveHits  int       `json:"positive_hits"`
	NegativeHits  int       `json:"negative_hits"`
	TextsAnalyzed int       `json:"texts_analyzed"`
}

type GenerativeDetails struct {
	KeyInsights   []string `json:"key_insights,omitempty"`
	Risks         []string `json:"risks,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
}

// ClampConfidence bounds a confidence value to [0, 1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
