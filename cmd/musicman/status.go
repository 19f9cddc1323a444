package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	statusLimit  int
	statusFailed bool
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [TRANSFER_ID]",
		Short: "Display transfer history",
		Long: `Display recent transfers with their outcome. Pass a transfer ID to show
the per-file outcomes recorded for that transfer, including files that
failed to copy or verify.`,
		Example: `  musicman status
  musicman status --limit 5
  musicman status --failed
  musicman status 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: statusRun,
	}

	cmd.Flags().IntVar(&statusLimit, "limit", 20, "number of transfers to show")
	cmd.Flags().BoolVar(&statusFailed, "failed", false, "show only failed transfers")

	return cmd
}

func statusRun(cmd *cobra.Command, args []string) error {
	if globalStore == nil {
		return fmt.Errorf("store not initialized")
	}

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transfer id %q", args[0])
		}
		return statusShowFiles(id)
	}

	transfers, err := globalStore.ListTransfers(statusLimit)
	if err != nil {
		return fmt.Errorf("failed to list transfers: %w", err)
	}

	if len(transfers) == 0 {
		fmt.Println("No transfers recorded")
		return nil
	}

	fmt.Println("Transfer History")
	fmt.Println("================")
	fmt.Println("")
	fmt.Printf("%-5s %-8s %-10s %8s %10s %-18s %s\n",
		"ID", "Method", "Status", "Files", "Size", "Started", "Target")
	fmt.Println(strings.Repeat("-", 90))

	shown := 0
	for _, t := range transfers {
		if statusFailed && t.Status != "failed" {
			continue
		}
		shown++

		fmt.Printf("%-5d %-8s %-10s %8d %10s %-18s %s\n",
			t.ID,
			t.Method,
			t.Status,
			t.FileCount,
			formatBytes(t.TotalSize),
			t.StartTime.Format("2006-01-02 15:04"),
			t.TargetPath,
		)
		if t.ErrorMessage != "" {
			fmt.Printf("      error: %s\n", firstLine(t.ErrorMessage))
		}
	}

	if shown == 0 {
		fmt.Println("No transfers matching criteria")
	}
	fmt.Println("")

	return nil
}

func statusShowFiles(id int64) error {
	t, err := globalStore.GetTransfer(id)
	if err != nil {
		return fmt.Errorf("failed to load transfer %d: %w", id, err)
	}

	fmt.Printf("Transfer %d: %s -> %s (%s, %s)\n", t.ID, t.SourcePath, t.TargetPath, t.Method, t.Status)

	files, err := globalStore.ListTransferFiles(id)
	if err != nil {
		return fmt.Errorf("failed to list transfer files: %w", err)
	}

	if len(files) == 0 {
		fmt.Println("No per-file records")
		return nil
	}

	fmt.Println("")
	fmt.Printf("%-10s %s\n", "Status", "Path")
	fmt.Println(strings.Repeat("-", 60))
	for _, f := range files {
		fmt.Printf("%-10s %s\n", f.Status, f.Path)
	}
	fmt.Println("")

	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
