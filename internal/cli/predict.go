package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/student-analytics/internal/model"
	"github.com/rcliao/student-analytics/internal/sample"
	"github.com/rcliao/student-analytics/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Generate a grade prediction for a course",
		Long: "Invoke the remote predict-grades function and record the result. " +
			"With --sample, show built-in sample data instead of calling the backend.",
		Run: runPredict,
	}

	cmd.Flags().StringP("course", "c", "", "Course ID (required)")
	cmd.Flags().StringP("algorithm", "a", string(model.AlgorithmEnsemble), "Algorithm: basic-statistics, random-forest, neural-network, deep-learning, ensemble")
	cmd.Flags().String("confidence", string(model.ConfidenceMedium), "Confidence threshold: high (95), medium (80), low (65)")
	cmd.Flags().Bool("sample", false, "Use built-in sample data")
	cmd.Flags().Bool("no-record", false, "Do not record the run in the workspace")

	cmd.MarkFlagRequired("course")

	predictionsCmd := &cobra.Command{
		Use:   "predictions",
		Short: "Prediction history",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded prediction runs",
		Run:   runPredictionsList,
	}
	listCmd.Flags().StringP("course", "c", "", "Filter by course")
	listCmd.Flags().StringP("algorithm", "a", "", "Filter by algorithm")
	listCmd.Flags().IntP("limit", "l", 20, "Max results")
	predictionsCmd.AddCommand(listCmd)

	RootCmd.AddCommand(cmd, predictionsCmd)
}

func runPredict(cmd *cobra.Command, args []string) {
	course, _ := cmd.Flags().GetString("course")
	algoStr, _ := cmd.Flags().GetString("algorithm")
	confStr, _ := cmd.Flags().GetString("confidence")
	useSample, _ := cmd.Flags().GetBool("sample")
	noRecord, _ := cmd.Flags().GetBool("no-record")

	algorithm, err := model.ParseAlgorithm(algoStr)
	if err != nil {
		exitErr("predict", err)
	}
	threshold, err := model.ParseConfidenceThreshold(confStr)
	if err != nil {
		exitErr("predict", err)
	}

	var result model.PredictionResult
	if useSample {
		p, ok := sample.Prediction(algorithm)
		if !ok {
			exitErr("predict", fmt.Errorf("no sample data for %s", algorithm))
		}
		result = p
	} else {
		p, err := newPredictionClient().GeneratePrediction(cmd.Context(), course, algorithm, threshold)
		if err != nil {
			exitErr("predict", err)
		}
		result = *p
	}

	if noRecord {
		printJSON(cmd.OutOrStdout(), result)
		return
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.RecordPrediction(cmd.Context(), store.RecordParams{
		CourseID:  course,
		Algorithm: algorithm,
		Threshold: threshold,
		Sample:    useSample,
		Result:    result,
	})
	if err != nil {
		exitErr("record prediction", err)
	}
	printJSON(cmd.OutOrStdout(), run)
}

func runPredictionsList(cmd *cobra.Command, args []string) {
	course, _ := cmd.Flags().GetString("course")
	algorithm, _ := cmd.Flags().GetString("algorithm")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.ListPredictions(cmd.Context(), store.PredictionListParams{
		CourseID:  course,
		Algorithm: model.Algorithm(algorithm),
		Limit:     limit,
	})
	if err != nil {
		exitErr("list predictions", err)
	}
	render(cmd.OutOrStdout(), runs, func(w io.Writer) { writeRuns(w, runs) })
}
