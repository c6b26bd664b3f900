package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/student-analytics/internal/gitlab"
)

func init() {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Read project metadata and activity from the hosting API",
	}
	projectCmd.PersistentFlags().String("token", "", "Access token (default: $GITLAB_TOKEN)")

	infoCmd := &cobra.Command{
		Use:   "info [project-url]",
		Short: "Show a project's identity",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectInfo,
	}

	membersCmd := &cobra.Command{
		Use:   "members [project-id]",
		Short: "List a project's members",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectMembers,
	}

	activityCmd := &cobra.Command{
		Use:   "activity [project-id]",
		Short: "Summarize commits, branches and merge requests",
		Args:  cobra.ExactArgs(1),
		Run:   runProjectActivity,
	}

	projectCmd.AddCommand(infoCmd, membersCmd, activityCmd)
	RootCmd.AddCommand(projectCmd)
}

func runProjectInfo(cmd *cobra.Command, args []string) {
	info := newGitLabClient(cmd).FetchProjectInfo(cmd.Context(), args[0], tokenFlag(cmd))
	if info == nil {
		// The gateway already told the user why.
		os.Exit(1)
	}
	printJSON(cmd.OutOrStdout(), info)
}

func runProjectMembers(cmd *cobra.Command, args []string) {
	id, err := parseProjectID(args[0])
	if err != nil {
		exitErr("members", err)
	}
	members := newGitLabClient(cmd).FetchProjectMembers(cmd.Context(), id, tokenFlag(cmd))
	render(cmd.OutOrStdout(), members, func(w io.Writer) { writeMembers(w, members) })
}

func runProjectActivity(cmd *cobra.Command, args []string) {
	id, err := parseProjectID(args[0])
	if err != nil {
		exitErr("activity", err)
	}
	client := newGitLabClient(cmd)
	token := tokenFlag(cmd)
	ctx := cmd.Context()

	summary := gitlab.Summarize(
		client.FetchCommits(ctx, id, token),
		client.FetchBranches(ctx, id, token),
		client.FetchMergeRequests(ctx, id, token),
	)
	printJSON(cmd.OutOrStdout(), summary)
}

func parseProjectID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}
