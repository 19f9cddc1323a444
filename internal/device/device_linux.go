//go:build linux

package device

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// List enumerates mounted devices by parsing /proc/mounts, filtering out
// system mounts.
func List() ([]Device, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil, fmt.Errorf("reading mounts: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return parseMounts(f), nil
}

// parseMounts extracts devices from /proc/mounts content.
func parseMounts(r io.Reader) []Device {
	var devices []Device

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		devicePath := fields[0]
		mountPoint := fields[1]

		if isSystemMount(mountPoint) {
			continue
		}

		removable := isRemovable(devicePath)
		devType := "fixed"
		if removable {
			devType = "removable"
		}

		name := mountPoint
		if base := filepath.Base(mountPoint); base != "" && base != "/" {
			name = base
		}

		devices = append(devices, Device{
			Name:      name,
			Path:      mountPoint,
			Type:      devType,
			Removable: removable,
		})
	}

	return devices
}

func isSystemMount(mountPoint string) bool {
	for _, prefix := range []string{"/dev", "/sys", "/proc"} {
		if strings.HasPrefix(mountPoint, prefix) {
			return true
		}
	}
	return false
}

// isRemovable checks the kernel's removable flag for the backing block
// device, falling back to a "usb" substring heuristic.
func isRemovable(devicePath string) bool {
	if strings.Contains(devicePath, "usb") {
		return true
	}

	block := filepath.Base(devicePath)
	data, err := os.ReadFile(filepath.Join("/sys/block", block, "removable"))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}
