package models

type EvaluationGrade string

const (
	GradeExcellent EvaluationGrade = "EXCELLENT"
	GradePotential EvaluationGrade = "POTENTIAL"
	GradeTrash     EvaluationGrade = "TRASH"
)

// Grade thresholds on the 0-100 total score.
const (
	ExcellentThreshold = 80
	PotentialThreshold = 40
)

// GradeFor classifies a total score. It is the only source of truth for a
// result's grade.
func GradeFor(totalScore int) EvaluationGrade {
	switch {
	case totalScore >= ExcellentThreshold:
		return GradeExcellent
	case totalScore >= PotentialThreshold:
		return GradePotential
	default:
		return GradeTrash
	}
}

type DimensionScore struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

type StructuredIdea struct {
	TargetUser    string `json:"targetUser"`
	PainPoints    string `json:"painPoints"`
	Solution      string `json:"solution"`
	BusinessModel string `json:"businessModel"`
}

type ResearchData struct {
	MarketSize  string   `json:"marketSize"`
	Competitors []string `json:"competitors"`
	Trends      string   `json:"trends"`
	Risks       string   `json:"risks"`
}

type EvaluationResult struct {
	StructuredIdea     StructuredIdea   `json:"structuredIdea"`
	Research           ResearchData     `json:"research"`
	Dimensions         []DimensionScore `json:"dimensions"`
	TotalScore         int              `json:"totalScore"`
	Grade              EvaluationGrade  `json:"grade"`
	Summary            string           `json:"summary"`
	OptimizationAdvice []string         `json:"optimizationAdvice"`
}
