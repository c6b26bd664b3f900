// Package sample holds the fixed demonstration data shown when no
// prediction backend is configured.
package sample

import "github.com/rcliao/student-analytics/internal/model"

var predictions = map[model.Algorithm]model.PredictionResult{
	model.AlgorithmBasicStatistics: {
		GradeDistribution: []int{5, 11, 14, 6, 2},
		Confidence:        0.72,
		SuccessRate:       0.70,
		AtRiskRate:        0.18,
		InterventionRate:  0.12,
		Factors: []model.Factor{
			{Name: "Commit frequency", Weight: 0.35},
			{Name: "Assignment completion", Weight: 0.30},
			{Name: "Code review participation", Weight: 0.20},
			{Name: "Branch hygiene", Weight: 0.15},
		},
	},
	model.AlgorithmRandomForest: {
		GradeDistribution: []int{7, 13, 12, 5, 1},
		Confidence:        0.84,
		SuccessRate:       0.76,
		AtRiskRate:        0.15,
		InterventionRate:  0.09,
		Factors: []model.Factor{
			{Name: "Commit frequency", Weight: 0.31},
			{Name: "Merge request quality", Weight: 0.27},
			{Name: "Assignment completion", Weight: 0.24},
			{Name: "Collaboration", Weight: 0.18},
		},
	},
	model.AlgorithmNeuralNetwork: {
		GradeDistribution: []int{8, 12, 13, 4, 1},
		Confidence:        0.88,
		SuccessRate:       0.79,
		AtRiskRate:        0.13,
		InterventionRate:  0.08,
		Factors: []model.Factor{
			{Name: "Code quality", Weight: 0.33},
			{Name: "Commit frequency", Weight: 0.26},
			{Name: "Collaboration", Weight: 0.22},
			{Name: "Test coverage", Weight: 0.19},
		},
	},
	model.AlgorithmDeepLearning: {
		GradeDistribution: []int{9, 13, 11, 4, 1},
		Confidence:        0.91,
		SuccessRate:       0.81,
		AtRiskRate:        0.12,
		InterventionRate:  0.07,
		Factors: []model.Factor{
			{Name: "Code quality", Weight: 0.30},
			{Name: "Activity consistency", Weight: 0.28},
			{Name: "Merge request quality", Weight: 0.24},
			{Name: "Test coverage", Weight: 0.18},
		},
	},
	model.AlgorithmEnsemble: {
		GradeDistribution: []int{9, 14, 11, 3, 1},
		Confidence:        0.93,
		SuccessRate:       0.83,
		AtRiskRate:        0.11,
		InterventionRate:  0.06,
		Factors: []model.Factor{
			{Name: "Commit frequency", Weight: 0.28},
			{Name: "Code quality", Weight: 0.27},
			{Name: "Collaboration", Weight: 0.25},
			{Name: "Assignment completion", Weight: 0.20},
		},
	},
}

// Prediction returns the sample result for algorithm. ok is false for an
// unknown algorithm. The returned value shares no memory with the table.
func Prediction(algorithm model.Algorithm) (result model.PredictionResult, ok bool) {
	p, ok := predictions[algorithm]
	if !ok {
		return model.PredictionResult{}, false
	}
	p.GradeDistribution = append([]int(nil), p.GradeDistribution...)
	p.Factors = append([]model.Factor(nil), p.Factors...)
	return p, true
}
