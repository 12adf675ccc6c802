// Package testkit generates synthetic survey data with planted effects, for
// tests and for demonstrating the report on data whose answer is known.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"autostat/domain/dataset"
)

// SurveyGeneratorConfig configures the survey generator
type SurveyGeneratorConfig struct {
	Respondents int `json:"respondents"`
	// GroupEffect shifts satisfaction of treated respondents, in SD units
	GroupEffect float64 `json:"group_effect"`
	// Correlation between satisfaction and weekly hours of use
	Correlation float64 `json:"correlation"`
	// PlanLift raises the chance that a treated respondent is on the premium plan
	PlanLift float64 `json:"plan_lift"`
	// MissingRate blanks this share of satisfaction, hours and region cells
	MissingRate float64 `json:"missing_rate"`
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig returns a sample with clear effects and no gaps
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 200,
		GroupEffect: 1.0,
		Correlation: 0.6,
		PlanLift:    0.3,
		MissingRate: 0,
		Seed:        42,
	}
}

var regions = []string{"North", "South", "East", "West"}

// SurveyGenerator produces deterministic datasets for a seed
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a new survey generator
func NewSurveyGenerator(config SurveyGeneratorConfig) *SurveyGenerator {
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Annotations declares the generated columns in pairing order
func (g *SurveyGenerator) Annotations() dataset.Annotations {
	return dataset.Annotations{
		{Column: "satisfaction", Type: "continuous"},
		{Column: "hours", Type: "continuous"},
		{Column: "treated", Type: "binary"},
		{Column: "plan", Type: "categorical"},
		{Column: "region", Type: "nominal"},
		{Column: "level", Type: "ordinal"},
	}
}

// Generate builds the dataset
func (g *SurveyGenerator) Generate() (*dataset.Dataset, error) {
	n := g.config.Respondents
	if n < 1 {
		return nil, fmt.Errorf("respondents must be positive, got %d", n)
	}
	if math.Abs(g.config.Correlation) > 1 {
		return nil, fmt.Errorf("correlation must lie in [-1, 1], got %g", g.config.Correlation)
	}

	satisfaction := make([]dataset.Value, n)
	hours := make([]dataset.Value, n)
	treated := make([]dataset.Value, n)
	plan := make([]dataset.Value, n)
	region := make([]dataset.Value, n)
	level := make([]dataset.Value, n)

	rho := g.config.Correlation
	for i := 0; i < n; i++ {
		isTreated := g.rng.Float64() < 0.5
		z := g.rng.NormFloat64()
		if isTreated {
			z += g.config.GroupEffect
		}
		sat := 50 + 10*z
		// hours shares rho of its variance with satisfaction
		h := 10 + 3*(rho*z+math.Sqrt(1-rho*rho)*g.rng.NormFloat64())

		premium := 0.3
		if isTreated {
			premium += g.config.PlanLift
		}

		satisfaction[i] = g.maybeMissing(dataset.Number(math.Round(sat*10) / 10))
		hours[i] = g.maybeMissing(dataset.Number(math.Round(h*10) / 10))
		treated[i] = dataset.Number(boolToFloat(isTreated))
		plan[i] = dataset.Text(pick(g.rng.Float64() < premium, "premium", "basic"))
		region[i] = g.maybeMissing(dataset.Text(regions[g.rng.Intn(len(regions))]))
		level[i] = dataset.Number(float64(likert(sat)))
	}

	return dataset.New(
		dataset.Column{Name: "satisfaction", Values: satisfaction},
		dataset.Column{Name: "hours", Values: hours},
		dataset.Column{Name: "treated", Values: treated},
		dataset.Column{Name: "plan", Values: plan},
		dataset.Column{Name: "region", Values: region},
		dataset.Column{Name: "level", Values: level},
	)
}

func (g *SurveyGenerator) maybeMissing(v dataset.Value) dataset.Value {
	if g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
		return dataset.Missing()
	}
	return v
}

// likert bins a satisfaction score onto a 1..5 scale
func likert(sat float64) int {
	l := int(math.Floor((sat-26)/12)) + 1
	if l < 1 {
		return 1
	}
	if l > 5 {
		return 5
	}
	return l
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
