package model

import (
	"context"
)

// Analyzer is the interface an assistant backend implements to turn raw
// detector output into an analyst-facing assessment.
type Analyzer interface {
	// AnalyzeFindings receives report text and returns the model's assessment.
	AnalyzeFindings(ctx context.Context, input string) (string, error)
}
