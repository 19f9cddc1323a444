//go:build darwin

package device

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// List enumerates mounted devices via diskutil.
func List() ([]Device, error) {
	out, err := exec.Command("diskutil", "list").Output()
	if err != nil {
		return nil, fmt.Errorf("executing diskutil: %w", err)
	}

	var devices []Device
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "/dev/disk") {
			continue
		}
		deviceID := strings.Fields(line)[0]

		info, err := exec.Command("diskutil", "info", deviceID).Output()
		if err != nil {
			continue
		}

		if d, ok := parseDiskutilInfo(string(info)); ok {
			devices = append(devices, d)
		}
	}

	return devices, nil
}

// parseDiskutilInfo extracts a Device from `diskutil info` output. The
// second return is false when the disk has no mount point.
func parseDiskutilInfo(info string) (Device, bool) {
	removable := strings.Contains(info, "Removable Media: Yes")

	var mountPoint string
	for _, line := range strings.Split(info, "\n") {
		if !strings.Contains(line, "Mount Point:") {
			continue
		}
		if _, after, ok := strings.Cut(line, ":"); ok {
			mountPoint = strings.TrimSpace(after)
		}
		break
	}
	if mountPoint == "" {
		return Device{}, false
	}

	devType := "fixed"
	if removable {
		devType = "removable"
	}

	return Device{
		Name:      filepath.Base(mountPoint),
		Path:      mountPoint,
		Type:      devType,
		Removable: removable,
	}, true
}
