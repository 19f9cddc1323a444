package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	checksumOutput   string
	checksumJSON     bool
	checksumExcludes []string
)

func newChecksumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checksum PATH",
		Short: "Capture a checksum manifest of a directory tree",
		Long: `Walk a directory tree and record a SHA-256 checksum for every regular
file, producing a manifest that can be saved and later checked against a
transferred copy with the verify command.

Files that cannot be read are skipped and reported; they do not abort the
capture.`,
		Example: `  musicman checksum ~/Music
  musicman checksum ~/Music --output manifest.json
  musicman checksum ~/Music --json
  musicman checksum ~/Music --exclude '**/.DS_Store'`,
		Args: cobra.ExactArgs(1),
		RunE: checksumRun,
	}

	cmd.Flags().StringVar(&checksumOutput, "output", "", "write the manifest as JSON to this file")
	cmd.Flags().BoolVar(&checksumJSON, "json", false, "print the manifest as JSON to stdout")
	cmd.Flags().StringArrayVar(&checksumExcludes, "exclude", nil, "glob pattern to exclude (repeatable)")

	return cmd
}

func checksumRun(cmd *cobra.Command, args []string) error {
	if globalEngine == nil {
		return fmt.Errorf("engine not initialized")
	}

	excludes := append([]string{}, globalCfg.Transfer.Excludes...)
	excludes = append(excludes, checksumExcludes...)

	report, err := globalEngine.CalculateManifest(args[0], excludes)
	if err != nil {
		return fmt.Errorf("checksum capture failed: %w", err)
	}
	manifest := report.Manifest

	if checksumOutput != "" {
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %w", err)
		}
		if err := os.WriteFile(checksumOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
	}

	if checksumJSON {
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Manifest captured:\n")
	fmt.Printf("  Files: %d\n", manifest.FileCount)
	fmt.Printf("  Total size: %s\n", formatBytes(manifest.TotalSize))
	if report.SkippedFiles() > 0 {
		fmt.Printf("  Skipped: %d\n", report.SkippedFiles())
		for _, skipped := range report.Skipped {
			fmt.Printf("    - %s: %s\n", skipped.Path, skipped.Error)
		}
	}
	if checksumOutput != "" {
		fmt.Printf("  Written to: %s\n", checksumOutput)
	}

	return nil
}
