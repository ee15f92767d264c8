package evaluator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/BerylCAtieno/idea-validator/internal/models"
)

const resultSchema = `{
  "type": "object",
  "required": ["structuredIdea", "research", "dimensions", "totalScore", "summary", "optimizationAdvice"],
  "properties": {
    "structuredIdea": {
      "type": "object",
      "properties": {
        "targetUser": {"type": "string"},
        "painPoints": {"type": "string"},
        "solution": {"type": "string"},
        "businessModel": {"type": "string"}
      }
    },
    "research": {
      "type": "object",
      "properties": {
        "marketSize": {"type": "string"},
        "competitors": {"type": "array", "items": {"type": "string"}},
        "trends": {"type": "string"},
        "risks": {"type": "string"}
      }
    },
    "dimensions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "score"],
        "properties": {
          "name": {"type": "string"},
          "score": {"type": "number", "minimum": 0, "maximum": 100},
          "reason": {"type": "string"}
        }
      }
    },
    "totalScore": {"type": "number", "minimum": 0, "maximum": 100},
    "grade": {"type": "string"},
    "summary": {"type": "string"},
    "optimizationAdvice": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledSchema = mustCompileSchema(resultSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("evaluator: invalid result schema: %v", err))
	}
	return schema
}

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

// StripCodeFences removes markdown fence markers the model sometimes emits
// even when asked for raw JSON.
func StripCodeFences(text string) string {
	return strings.TrimSpace(fenceReplacer.Replace(text))
}

type wireDimension struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type wireResult struct {
	StructuredIdea     models.StructuredIdea `json:"structuredIdea"`
	Research           models.ResearchData   `json:"research"`
	Dimensions         []wireDimension       `json:"dimensions"`
	TotalScore         float64               `json:"totalScore"`
	Grade              string                `json:"grade"`
	Summary            string                `json:"summary"`
	OptimizationAdvice []string              `json:"optimizationAdvice"`
}

// ParseResult turns raw model text into a validated result with a
// recomputed grade.
func ParseResult(text string) (*models.EvaluationResult, error) {
	cleaned := StripCodeFences(text)

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	validation, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !validation.Valid() {
		errs := make([]string, len(validation.Errors()))
		for i, desc := range validation.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("response does not match expected shape: %s", strings.Join(errs, "; "))
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &models.EvaluationResult{
		StructuredIdea:     wire.StructuredIdea,
		Research:           wire.Research,
		Dimensions:         make([]models.DimensionScore, 0, len(wire.Dimensions)),
		TotalScore:         roundScore(wire.TotalScore),
		Grade:              models.EvaluationGrade(wire.Grade),
		Summary:            wire.Summary,
		OptimizationAdvice: wire.OptimizationAdvice,
	}
	for _, d := range wire.Dimensions {
		result.Dimensions = append(result.Dimensions, models.DimensionScore{
			Name:   d.Name,
			Score:  roundScore(d.Score),
			Reason: d.Reason,
		})
	}
	if result.Research.Competitors == nil {
		result.Research.Competitors = []string{}
	}
	if result.OptimizationAdvice == nil {
		result.OptimizationAdvice = []string{}
	}

	NormalizeGrade(result)
	return result, nil
}

// NormalizeGrade overwrites the grade with the one derived from TotalScore.
// Whatever the model put there is discarded.
func NormalizeGrade(result *models.EvaluationResult) {
	result.Grade = models.GradeFor(result.TotalScore)
}

func roundScore(v float64) int {
	return int(math.Round(v))
}
