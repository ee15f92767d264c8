package render

import (
	"github.com/BerylCAtieno/idea-validator/internal/analysis"
	"github.com/BerylCAtieno/idea-validator/internal/models"
)

func GradeLabel(g models.EvaluationGrade) string {
	switch g {
	case models.GradeExcellent:
		return "🦄 牛逼 (优质项目)"
	case models.GradePotential:
		return "🚀 潜力股 (需打磨)"
	case models.GradeTrash:
		return "🗑️ 垃圾 (风险极高)"
	}
	return "未知等级"
}

// GradeClass is the CSS modifier for the grade badge.
func GradeClass(g models.EvaluationGrade) string {
	switch g {
	case models.GradeExcellent:
		return "grade-excellent"
	case models.GradePotential:
		return "grade-potential"
	case models.GradeTrash:
		return "grade-trash"
	}
	return "grade-unknown"
}

func StatusText(s analysis.Status) string {
	switch s {
	case analysis.StatusAnalyzing:
		return "正在解构点子..."
	case analysis.StatusResearching:
		return "正在进行市场调研..."
	case analysis.StatusScoring:
		return "正在多维度评分..."
	case analysis.StatusComplete:
		return "完成"
	case analysis.StatusError:
		return "错误"
	}
	return "处理中..."
}

// BarColor colors a dimension's score bar.
func BarColor(score int) string {
	switch {
	case score > 70:
		return "#22c55e"
	case score > 40:
		return "#eab308"
	default:
		return "#ef4444"
	}
}
