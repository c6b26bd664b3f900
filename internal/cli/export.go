package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the workspace as JSON",
		Long:  "Export tracked repositories and prediction history as a single JSON document.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exported, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	printJSON(cmd.OutOrStdout(), exported)
}
