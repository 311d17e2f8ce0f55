package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"duetoday/internal/countdown"
	"duetoday/internal/logger"
	"duetoday/internal/model"
	"duetoday/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print today's tasks without starting the UI",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("filter", "all", "Which tasks to show: all, pending or completed")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	switch filter {
	case "all", "pending", "completed":
	default:
		return fmt.Errorf("unknown filter %q", filter)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON, os.Stderr)

	medium, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}
	defer medium.Close()

	tasks := storage.NewStore(medium, nil).Load()
	logger.Debug("listing tasks", "backend", cfg.Backend, "count", len(tasks), "filter", filter)
	printTasks(cmd.OutOrStdout(), tasks, filter, time.Now())
	return nil
}

// printTasks writes one line per task matching filter, with the countdown
// as it would read at now.
func printTasks(w io.Writer, tasks []model.Task, filter string, now time.Time) {
	shown := 0
	for _, t := range tasks {
		if (filter == "pending" && t.Completed) || (filter == "completed" && !t.Completed) {
			continue
		}
		shown++

		mark := "[ ]"
		status := ""
		if t.Completed {
			mark = "[x]"
		} else if deadline, err := t.DeadlineOn(now); err == nil {
			status = countdown.Evaluate(now, t.CreatedAt, deadline).String()
		}
		fmt.Fprintf(w, "  %s %-5s  %-30s  %s\n", mark, t.Deadline, t.Text, status)
	}

	if shown == 0 {
		fmt.Fprintln(w, "No tasks found.")
	}
}
