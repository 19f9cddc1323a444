//go:build darwin

package device

import "testing"

func TestParseDiskutilInfo(t *testing.T) {
	const mounted = `   Device Identifier:        disk2s1
   Removable Media:          Yes
   Mount Point:              /Volumes/MUSIC
`
	d, ok := parseDiskutilInfo(mounted)
	if !ok {
		t.Fatal("mounted disk not parsed")
	}
	if d.Path != "/Volumes/MUSIC" || d.Name != "MUSIC" {
		t.Errorf("device = %+v", d)
	}
	if !d.Removable || d.Type != "removable" {
		t.Errorf("device = %+v, want removable", d)
	}

	const unmounted = `   Device Identifier:        disk3
   Removable Media:          No
   Mount Point:
`
	if _, ok := parseDiskutilInfo(unmounted); ok {
		t.Error("disk without mount point parsed as device")
	}
}
