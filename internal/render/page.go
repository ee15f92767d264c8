package render

import (
	"embed"
	"html/template"

	"github.com/BerylCAtieno/idea-validator/internal/analysis"
	"github.com/BerylCAtieno/idea-validator/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the name the page is registered under.
const PageTemplate = "page.html"

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type DimensionRow struct {
	Name     string
	Score    int
	Reason   string
	BarColor string
}

type PageData struct {
	Status     analysis.Status
	StatusText string
	Idea       string
	Busy       bool
	CanSubmit  bool
	Error      string

	Result       *models.EvaluationResult
	Gauge        Gauge
	Radar        Radar
	GradeLabel   string
	GradeClass   string
	Dimensions   []DimensionRow
	IdeaCard     *Card
	ResearchCard *Card
	ScoreCard    *Card
	AdviceCard   *Card
}

// NewPageData builds the view for a snapshot. The results panel is only
// populated in complete and the error banner only in error.
func NewPageData(snap analysis.Snapshot) PageData {
	data := PageData{
		Status:     snap.Status,
		StatusText: StatusText(snap.Status),
		Idea:       snap.Idea,
		Busy:       snap.Status.InFlight(),
		CanSubmit:  snap.CanSubmit,
	}

	if snap.Status == analysis.StatusError {
		data.Error = snap.Error
	}

	if snap.Status == analysis.StatusComplete && snap.Result != nil {
		r := snap.Result
		data.Result = r
		data.Gauge = NewGauge(float64(r.TotalScore), "综合得分")
		data.Radar = NewRadar(r.Dimensions)
		data.GradeLabel = GradeLabel(r.Grade)
		data.GradeClass = GradeClass(r.Grade)
		for _, d := range r.Dimensions {
			data.Dimensions = append(data.Dimensions, DimensionRow{
				Name:     d.Name,
				Score:    d.Score,
				Reason:   d.Reason,
				BarColor: BarColor(d.Score),
			})
		}
		data.IdeaCard = NewCard("idea", "核心要素拆解", "💡")
		data.ResearchCard = NewCard("research", "市场调研与数据", "🔍")
		data.ScoreCard = NewCard("scores", "维度评分详情", "📊")
		data.AdviceCard = NewCard("advice", "优化建议", "🛡️")
	}
	return data
}
