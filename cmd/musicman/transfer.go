package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Kadajett/musicManager/internal/transfer"
)

var (
	transferArchive  bool
	transferVerify   bool
	transferNoVerify bool
	transferExcludes []string
)

func newTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer SOURCE TARGET",
		Short: "Transfer a directory tree to another location or device",
		Long: `Transfer a directory tree from SOURCE into TARGET. The default
transport copies files one by one; --archive packs the tree into a
compressed tar archive, moves the single archive, and extracts it at the
target, which is usually faster for trees with many small files.

With verification enabled (the default unless disabled in config or with
--no-verify), checksums of every source file are captured before the
transfer and each transferred file is re-hashed at the target afterwards.
Any missing or corrupted file fails the transfer.`,
		Example: `  musicman transfer ~/Music /mnt/usb/Music
  musicman transfer ~/Music /mnt/usb/Music --archive
  musicman transfer ~/Music /mnt/usb/Music --no-verify
  musicman transfer ~/Music /mnt/usb/Music --exclude '**/.DS_Store' --exclude '**/*.tmp'`,
		Args: cobra.ExactArgs(2),
		RunE: transferRun,
	}

	cmd.Flags().BoolVar(&transferArchive, "archive", false, "transfer via a compressed tar archive")
	cmd.Flags().BoolVar(&transferVerify, "verify", false, "verify checksums after transfer")
	cmd.Flags().BoolVar(&transferNoVerify, "no-verify", false, "skip checksum verification")
	cmd.Flags().StringArrayVar(&transferExcludes, "exclude", nil, "glob pattern to exclude (repeatable)")

	return cmd
}

func transferRun(cmd *cobra.Command, args []string) error {
	if globalEngine == nil {
		return fmt.Errorf("engine not initialized")
	}

	source := args[0]
	target := args[1]

	verify := globalCfg.Transfer.VerifyByDefault
	if transferVerify {
		verify = true
	}
	if transferNoVerify {
		verify = false
	}

	archive := transferArchive || globalCfg.Transfer.ArchiveByDefault

	excludes := append([]string{}, globalCfg.Transfer.Excludes...)
	excludes = append(excludes, transferExcludes...)

	method := "copy"
	if archive {
		method = "archive"
	}

	if !quiet {
		fmt.Printf("Transferring %s -> %s\n", source, target)
		fmt.Printf("  Method: %s\n", method)
		fmt.Printf("  Verify: %v\n", verify)
		fmt.Println()
	}

	reporter := transfer.Reporter(nil)
	if !quiet {
		var lastStatus string
		reporter = func(p transfer.Progress) {
			if p.CurrentFile != "" {
				fmt.Printf("  %s\n", p.CurrentFile)
				return
			}
			if p.Status != lastStatus {
				lastStatus = p.Status
				fmt.Println(p.Status)
			}
		}
	}

	start := time.Now()
	result, err := globalEngine.Transfer(cmd.Context(), transfer.Options{
		SourcePath:     source,
		TargetPath:     target,
		CreateArchive:  archive,
		VerifyTransfer: verify,
		Excludes:       excludes,
	}, reporter)
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}

	fmt.Println()
	if !result.Success {
		fmt.Println(result.Message)
		return fmt.Errorf("transfer verification failed")
	}

	fmt.Printf("Transfer complete:\n")
	fmt.Printf("  Files: %d\n", result.TransferredFiles)
	fmt.Printf("  Total size: %s\n", formatBytes(result.TotalSize))
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Second))

	return nil
}

// formatBytes formats a byte count into human-readable format
func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
