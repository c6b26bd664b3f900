package model

import (
	"fmt"
	"time"
)

// Algorithm identifies a grade-prediction algorithm.
type Algorithm string

const (
	AlgorithmBasicStatistics Algorithm = "basic-statistics"
	AlgorithmRandomForest    Algorithm = "random-forest"
	AlgorithmNeuralNetwork   Algorithm = "neural-network"
	AlgorithmDeepLearning    Algorithm = "deep-learning"
	AlgorithmEnsemble        Algorithm = "ensemble"
)

// ValidAlgorithms are the algorithms the prediction function accepts.
var ValidAlgorithms = map[Algorithm]bool{
	AlgorithmBasicStatistics: true,
	AlgorithmRandomForest:    true,
	AlgorithmNeuralNetwork:   true,
	AlgorithmDeepLearning:    true,
	AlgorithmEnsemble:        true,
}

// ConfidenceThreshold is a named minimum confidence level.
type ConfidenceThreshold string

const (
	ConfidenceHigh   ConfidenceThreshold = "high"
	ConfidenceMedium ConfidenceThreshold = "medium"
	ConfidenceLow    ConfidenceThreshold = "low"
)

// ValidThresholds maps each threshold to its percentage.
var ValidThresholds = map[ConfidenceThreshold]int{
	ConfidenceHigh:   95,
	ConfidenceMedium: 80,
	ConfidenceLow:    65,
}

// Percent returns the threshold as a percentage, or 0 if unknown.
func (c ConfidenceThreshold) Percent() int {
	return ValidThresholds[c]
}

// ParseAlgorithm validates s as an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(s)
	if !ValidAlgorithms[a] {
		return "", fmt.Errorf("unknown algorithm %q (valid: basic-statistics, random-forest, neural-network, deep-learning, ensemble)", s)
	}
	return a, nil
}

// ParseConfidenceThreshold validates s as a ConfidenceThreshold.
func ParseConfidenceThreshold(s string) (ConfidenceThreshold, error) {
	c := ConfidenceThreshold(s)
	if _, ok := ValidThresholds[c]; !ok {
		return "", fmt.Errorf("unknown confidence threshold %q (valid: high, medium, low)", s)
	}
	return c, nil
}

// PredictionRequest is the payload sent to the prediction function.
type PredictionRequest struct {
	CourseID            string    `json:"courseId"`
	Algorithm           Algorithm `json:"algorithm"`
	ConfidenceThreshold int       `json:"confidenceThreshold"`
}

// Factor is a named contributor to a prediction.
type Factor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// PredictionResult is the structured output of the prediction function.
type PredictionResult struct {
	GradeDistribution []int    `json:"gradeDistribution"`
	Confidence        float64  `json:"confidence"`
	SuccessRate       float64  `json:"successRate"`
	AtRiskRate        float64  `json:"atRiskRate"`
	InterventionRate  float64  `json:"interventionRate"`
	Factors           []Factor `json:"factors"`
}

// PredictionRun is a prediction recorded in the local workspace.
type PredictionRun struct {
	ID        string              `json:"id"`
	CourseID  string              `json:"course_id"`
	Algorithm Algorithm           `json:"algorithm"`
	Threshold ConfidenceThreshold `json:"threshold"`
	Sample    bool                `json:"sample,omitempty"`
	Result    PredictionResult    `json:"result"`
	CreatedAt time.Time           `json:"created_at"`
}
