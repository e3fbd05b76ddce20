package reports

import "time"

// Type identifies one of the supported report blueprints.
type Type string

const (
	TypeRiskAssessment           Type = "risk_assessment"
	TypeCostOptimization         Type = "cost_optimization"
	TypeStrategicRecommendations Type = "strategic_recommendations"
	TypePerformanceAnalytics     Type = "performance_analytics"
	TypeInvestmentPortfolio      Type = "investment_portfolio"
)

var titles = map[Type]string{
	TypeRiskAssessment:           "Risk Assessment Report",
	TypeCostOptimization:         "Cost Optimization Report",
	TypeStrategicRecommendations: "Strategic Recommendations Report",
	TypePerformanceAnalytics:     "Performance Analytics Report",
	TypeInvestmentPortfolio:      "Investment & Portfolio Report",
}

// ParseType validates a raw report type string.
func ParseType(raw string) (Type, error) {
	t := Type(raw)
	if _, ok := titles[t]; !ok {
		return "", &UnknownTypeError{Raw: raw}
	}
	return t, nil
}

// Title returns the human-readable report title.
func (t Type) Title() string {
	return titles[t]
}

// Types lists all supported report types.
func Types() []Type {
	return []Type{
		TypeRiskAssessment,
		TypeCostOptimization,
		TypeStrategicRecommendations,
		TypePerformanceAnalytics,
		TypeInvestmentPortfolio,
	}
}

// Report is a generated analytical report for one uploaded file.
type Report struct {
	Type        Type      `json:"report_type"`
	Title       string    `json:"title"`
	FileID      string    `json:"fileId"`
	FileName    string    `json:"file_name"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}
