package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/student-analytics/internal/store"
)

func init() {
	repoCmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage repositories tracked in the workspace",
	}

	trackCmd := &cobra.Command{
		Use:   "track [project-url]",
		Short: "Fetch a project and track it",
		Args:  cobra.ExactArgs(1),
		Run:   runRepoTrack,
	}
	trackCmd.Flags().String("token", "", "Access token (default: $GITLAB_TOKEN)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked repositories",
		Run:   runRepoList,
	}
	listCmd.Flags().IntP("limit", "l", 50, "Max results")

	rmCmd := &cobra.Command{
		Use:   "rm [project-url]",
		Short: "Stop tracking a repository",
		Args:  cobra.ExactArgs(1),
		Run:   runRepoRm,
	}

	repoCmd.AddCommand(trackCmd, listCmd, rmCmd)
	RootCmd.AddCommand(repoCmd)
}

func runRepoTrack(cmd *cobra.Command, args []string) {
	info := newGitLabClient(cmd).FetchProjectInfo(cmd.Context(), args[0], tokenFlag(cmd))
	if info == nil {
		os.Exit(1)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	repo, err := s.TrackRepository(cmd.Context(), store.TrackParams{URL: args[0], Info: *info})
	if err != nil {
		exitErr("track", err)
	}
	printJSON(cmd.OutOrStdout(), repo)
}

func runRepoList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	repos, err := s.ListRepositories(cmd.Context(), store.ListParams{Limit: limit})
	if err != nil {
		exitErr("list", err)
	}
	render(cmd.OutOrStdout(), repos, func(w io.Writer) { writeRepos(w, repos) })
}

func runRepoRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.UntrackRepository(cmd.Context(), args[0]); err != nil {
		exitErr("rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"url":%q}`+"\n", args[0])
}
