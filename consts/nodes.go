package consts

// Phase node names used by the decision graph.
const (
	PhaseAnalysis          = "analysis"
	PhaseDebate            = "debate"
	PhaseStrategy          = "strategy"
	PhaseExecutionPlanning = "execution_planning"
	PhaseRiskAssessment    = "risk_assessment"
	PhasePortfolioDecision = "portfolio_decision"
	PhaseExecution         = "execution"
	PhaseLearning          = "learning"
)

// Analyst slot keys. Reports are keyed by these, never by completion order.
const (
	AnalystFundamentals = "fundamentals"
	AnalystTechnical    = "technical"
	AnalystSentiment    = "sentiment"
	AnalystMacroNews    = "macro_news"
	AnalystNewsNLP      = "news_nlp"
	AnalystGenerative   = "generative"
)
