// Package cli implements the student-analytics CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/student-analytics/internal/config"
	"github.com/rcliao/student-analytics/internal/gitlab"
	"github.com/rcliao/student-analytics/internal/notify"
	"github.com/rcliao/student-analytics/internal/prediction"
	"github.com/rcliao/student-analytics/internal/store"
)

var (
	dbPath     string
	logLevel   string
	formatFlag string
	cfg        *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "student-analytics",
	Short: "Repository activity and grade predictions for student projects",
	Long: "Reads project activity from a GitLab-compatible hosting API, requests grade predictions " +
		"from a remote function, and guards interactive sessions with an idle timeout.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		if logLevel != "" {
			if c.LogLevel, err = config.ParseLevel(logLevel); err != nil {
				return err
			}
		}
		if formatFlag != "json" && formatFlag != "text" {
			return fmt.Errorf("invalid --format %q (want json or text)", formatFlag)
		}
		cfg = c
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: c.LogLevel})))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $STUDENT_ANALYTICS_DB or ~/.student-analytics/analytics.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL or warn)")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

func newGitLabClient(cmd *cobra.Command) *gitlab.Client {
	return gitlab.NewClient(cfg.GitLab.BaseURL,
		gitlab.WithNotifier(notify.NewWriter(cmd.ErrOrStderr())),
		gitlab.WithRateLimit(cfg.GitLab.RateLimit, 1),
		gitlab.WithLogger(slog.Default().With("component", "gitlab")),
	)
}

func newPredictionClient() *prediction.Client {
	return prediction.NewClient(cfg.Prediction.FunctionsURL, cfg.Prediction.APIKey,
		prediction.WithLogger(slog.Default().With("component", "prediction")),
	)
}

// tokenFlag returns --token, falling back to $GITLAB_TOKEN.
func tokenFlag(cmd *cobra.Command) string {
	if t, _ := cmd.Flags().GetString("token"); t != "" {
		return t
	}
	return cfg.GitLab.Token
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// render prints v as JSON, or through text when --format=text.
func render(w io.Writer, v any, text func(io.Writer)) {
	if formatFlag == "text" {
		text(w)
		return
	}
	printJSON(w, v)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
