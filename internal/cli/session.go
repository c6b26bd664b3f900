package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/student-analytics/internal/guard"
	"github.com/rcliao/student-analytics/internal/notify"
)

func init() {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Interactive session tools",
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Hold a session open until it goes idle",
		Long: "Arm the idle-timeout guard and treat every line on stdin as a key press. " +
			"The command exits once no input arrives for the timeout.",
		RunE: runSessionWatch,
	}
	watchCmd.Flags().Duration("timeout", 0, "Idle timeout (default: $SESSION_IDLE_TIMEOUT or 5m)")

	sessionCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(sessionCmd)
}

func runSessionWatch(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.IdleTimeout
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	started := time.Now()
	reason, err := watchSession(ctx, cmd.InOrStdin(), timeout)
	if err != nil {
		return err
	}
	if reason == "idle" {
		notify.NewWriter(cmd.ErrOrStderr()).Notify(notify.Notification{
			Level:   notify.LevelInfo,
			Title:   "Signed out",
			Message: fmt.Sprintf("No activity for %s.", timeout),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"reason":%q,"duration":%q}`+"\n",
		reason, time.Since(started).Round(time.Millisecond).String())
	return nil
}

// watchSession blocks until the session idles out or ctx ends. Each line
// read from in counts as a key press. in is closed on return when it is an
// io.Closer.
func watchSession(ctx context.Context, in io.Reader, timeout time.Duration) (string, error) {
	bus := guard.NewBus()
	g := guard.New(bus, guard.WithLogger(slog.Default().With("component", "guard")))
	defer g.Close()

	idle := make(chan struct{})
	g.Arm(guard.Config{
		Active:     true,
		Timeout:    timeout,
		OnInactive: func() { close(idle) },
	})

	// The reader goroutine exits at EOF. Closing in unblocks a pending
	// read; a reader that cannot be closed keeps it alive until EOF.
	if c, ok := in.(io.Closer); ok {
		defer c.Close()
	}
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			bus.Emit(guard.KeyPress)
		}
	}()

	select {
	case <-idle:
		return "idle", nil
	case <-ctx.Done():
		if ctx.Err() == context.Canceled {
			return "interrupted", nil
		}
		return "", ctx.Err()
	}
}
