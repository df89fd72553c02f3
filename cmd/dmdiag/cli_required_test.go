package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRequiredFlagsErrors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func() *cobra.Command
		args    []string
		wantErr string
	}{
		{
			name:    "query missing command",
			cmd:     newQueryCmd,
			args:    nil,
			wantErr: "required argument <command> not set",
		},
		{
			name:    "poll missing command",
			cmd:     newPollCmd,
			args:    nil,
			wantErr: "required argument <command> not set",
		},
		{
			name:    "build missing command",
			cmd:     newBuildCmd,
			args:    nil,
			wantErr: "required argument <command> not set",
		},
		{
			name:    "decode missing hex",
			cmd:     newDecodeCmd,
			args:    nil,
			wantErr: "required flag --hex not set",
		},
		{
			name:    "pcap missing input",
			cmd:     newPcapCmd,
			args:    nil,
			wantErr: "required flag --input not set",
		},
		{
			name:    "config init missing path",
			cmd:     newConfigInitCmd,
			args:    nil,
			wantErr: "required argument <path> not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBuildCmdOutput(t *testing.T) {
	cmd := newBuildCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version-info"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out.String()) != "0078f07e" {
		t.Errorf("output = %q", out.String())
	}
}

func TestDecodeCmdPositionalHex(t *testing.T) {
	cmd := newDecodeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--unframed", "--output", "json", "01", "01020304"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), `"esn": "04030201"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestConfigInitAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmdiag.yaml")

	initCmd := newConfigInitCmd()
	initCmd.SetOut(io.Discard)
	initCmd.SetArgs([]string{path})
	if err := initCmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	again := newConfigInitCmd()
	again.SetOut(io.Discard)
	again.SetArgs([]string{path})
	if err := again.Execute(); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v", err)
	}

	check := newConfigCheckCmd()
	var out bytes.Buffer
	check.SetOut(&out)
	check.SetArgs([]string{path})
	if err := check.Execute(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out.String(), "baud 115200") {
		t.Errorf("check output = %q", out.String())
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, name := range []string{"query", "decode", "pcap", "commands"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help missing %s:\n%s", name, out.String())
		}
	}
}

func TestMissingCommandPointsAtList(t *testing.T) {
	cmd := newQueryCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(nil)
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "dmdiag commands") {
		t.Fatalf("error = %v, want a pointer to 'dmdiag commands'", err)
	}
}

func TestHelpArgPrintsUsage(t *testing.T) {
	for _, arg := range []string{"help", "HELP", "?"} {
		cmd := newQueryCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{arg})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%s: %v", arg, err)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Errorf("%s: usage not printed:\n%s", arg, out.String())
		}
	}
}
