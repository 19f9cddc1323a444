package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kadajett/musicManager/internal/transfer"
)

var verifyManifestPath string

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify TARGET",
		Short: "Verify a directory tree against a saved checksum manifest",
		Long: `Re-hash every file listed in a manifest under TARGET and compare the
digests. Files absent from the target are reported as missing; files whose
content differs are reported as mismatched. The command exits non-zero if
any file fails.`,
		Example: `  musicman verify /mnt/usb/Music --manifest manifest.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    verifyRun,
	}

	cmd.Flags().StringVar(&verifyManifestPath, "manifest", "", "path to the manifest JSON file (required)")

	if err := cmd.MarkFlagRequired("manifest"); err != nil {
		panic(err)
	}

	return cmd
}

func verifyRun(cmd *cobra.Command, args []string) error {
	if globalEngine == nil {
		return fmt.Errorf("engine not initialized")
	}

	data, err := os.ReadFile(verifyManifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest transfer.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	report, err := globalEngine.VerifyTransfer(args[0], &manifest)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if !report.Result.Success {
		fmt.Println(report.Result.Message)
		return fmt.Errorf("verification failed")
	}

	fmt.Printf("Verification passed:\n")
	fmt.Printf("  Files: %d\n", report.VerifiedFiles)
	fmt.Printf("  Total size: %s\n", formatBytes(report.VerifiedSize))

	return nil
}
