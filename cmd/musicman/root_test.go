package main

import "testing"

func TestRootCmdSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"transfer", "checksum", "verify", "devices", "status", "serve", "config"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{-5, "0 B"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("one\ntwo"); got != "one" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q", got)
	}
}

func TestShouldSkipComponentInit(t *testing.T) {
	for _, name := range []string{"help", "version", "config", "devices"} {
		if !shouldSkipComponentInit(name) {
			t.Errorf("shouldSkipComponentInit(%q) = false", name)
		}
	}
	for _, name := range []string{"transfer", "serve", "status"} {
		if shouldSkipComponentInit(name) {
			t.Errorf("shouldSkipComponentInit(%q) = true", name)
		}
	}
}
