package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kadajett/musicManager/internal/device"
)

var devicesJSON bool

func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List mounted storage devices",
		Long: `List the currently mounted storage devices usable as transfer sources
or targets. Removable devices such as USB drives are flagged.`,
		Example: `  musicman devices
  musicman devices --json`,
		RunE: devicesRun,
	}

	cmd.Flags().BoolVar(&devicesJSON, "json", false, "print devices as JSON")

	return cmd
}

func devicesRun(cmd *cobra.Command, args []string) error {
	devices, err := device.List()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if devicesJSON {
		data, err := json.MarshalIndent(devices, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal devices: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(devices) == 0 {
		fmt.Println("No devices found")
		return nil
	}

	fmt.Printf("%-24s %-12s %-9s %s\n", "Name", "Type", "Removable", "Path")
	for _, d := range devices {
		removable := "no"
		if d.Removable {
			removable = "yes"
		}
		fmt.Printf("%-24s %-12s %-9s %s\n", d.Name, d.Type, removable, d.Path)
	}

	return nil
}
