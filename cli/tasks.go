package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
	"github.com/jrsteele09/go-portal-client/tasks"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Follow and control background tasks",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(a.tasksWatchCmd(), a.tasksCancelCmd(), a.tasksResultCmd())
	return cmd
}

func (a *app) tasksWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <task-id>...",
		Short: "Poll one or more tasks until they finish",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := a.authedClient()
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.cfg.GetPollInterval()
			}

			var mu sync.Mutex
			progress := cmd.ErrOrStderr()
			if a.output == outputText {
				progress = cmd.OutOrStdout()
			}
			onUpdate := func(s tasks.State) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintln(progress, formatState(s))
			}

			states, err := watchAll(cmd.Context(), client.Tasks, args, interval, a.logger, onUpdate)
			if err != nil {
				return err
			}

			failed := 0
			for _, s := range states {
				if s.Status != api.TaskSuccess {
					failed++
				}
			}
			if err := a.print(cmd, states, func(w io.Writer) {}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tasks did not succeed", failed, len(states))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default from PORTAL_POLL_INTERVAL)")
	return cmd
}

// watchAll polls every id concurrently and returns their final states in order.
func watchAll(ctx context.Context, client tasks.StatusClient, ids []string, interval time.Duration, logger zerolog.Logger, onUpdate func(tasks.State)) ([]tasks.State, error) {
	g, ctx := errgroup.WithContext(ctx)
	states := make([]tasks.State, len(ids))

	for i, id := range ids {
		g.Go(func() error {
			p := tasks.NewPoller(client,
				tasks.WithInterval(interval),
				tasks.WithLogger(logger.With().Str("task_id", id).Logger()),
				tasks.WithOnUpdate(onUpdate),
			)
			h, err := p.Start(ctx, id)
			if err != nil {
				return err
			}
			state, err := h.Wait(ctx)
			states[i] = state
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return states, err
	}
	return states, nil
}

func formatState(s tasks.State) string {
	line := fmt.Sprintf("%-12s %s", s.TaskID, statusColor(s.Status))
	if s.Progress != nil {
		line += fmt.Sprintf(" %5.1f%%", s.Progress.Percent())
		if s.Progress.Message != nil {
			line += " " + *s.Progress.Message
		}
	}
	if s.Error != "" {
		line += " " + red(s.Error)
	}
	return line
}

func (a *app) tasksCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Revoke a running task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := a.authedClient()
			if err != nil {
				return err
			}
			if err := client.Tasks.Cancel(cmd.Context(), args[0]); err != nil {
				return a.userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], statusColor(api.TaskRevoked))
			return nil
		},
	}
}

func (a *app) tasksResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <task-id>",
		Short: "Print the result of a finished task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := a.authedClient()
			if err != nil {
				return err
			}
			result, err := client.Tasks.Result(cmd.Context(), args[0])
			if err != nil {
				return a.userError(err)
			}
			return a.print(cmd, result, func(w io.Writer) {
				var pretty any
				if json.Unmarshal(result, &pretty) == nil {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					_ = enc.Encode(pretty)
					return
				}
				fmt.Fprintln(w, string(result))
			})
		},
	}
}

