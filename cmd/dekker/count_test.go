// count_test.go tests the 'dekker count' and 'dekker version' commands.
package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strconv"
	"strings"
	"testing"
)

// TestParseCountArgs_Defaults tests the flag defaults.
func TestParseCountArgs_Defaults(t *testing.T) {
	t.Setenv(auditEnv, "")

	config, err := parseCountArgs(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseCountArgs() error: %v", err)
	}

	want := countConfig{iterations: 1000, runs: 1}
	if *config != want {
		t.Errorf("config = %+v, want %+v", *config, want)
	}
}

// TestParseCountArgs_Flags tests every flag.
func TestParseCountArgs_Flags(t *testing.T) {
	t.Setenv(auditEnv, "")

	config, err := parseCountArgs([]string{"-n", "50", "-runs", "3", "-audit", "-yield"}, io.Discard)
	if err != nil {
		t.Fatalf("parseCountArgs() error: %v", err)
	}

	want := countConfig{iterations: 50, runs: 3, audit: true, yield: true}
	if *config != want {
		t.Errorf("config = %+v, want %+v", *config, want)
	}
}

// TestParseCountArgs_AuditEnv tests the environment default for -audit.
func TestParseCountArgs_AuditEnv(t *testing.T) {
	t.Setenv(auditEnv, "1")

	config, err := parseCountArgs(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseCountArgs() error: %v", err)
	}
	if !config.audit {
		t.Error("expected audit to default to true")
	}

	config, err = parseCountArgs([]string{"-audit=false"}, io.Discard)
	if err != nil {
		t.Fatalf("parseCountArgs() error: %v", err)
	}
	if config.audit {
		t.Error("expected -audit=false to override the environment")
	}
}

// TestParseCountArgs_Invalid tests rejected arguments.
func TestParseCountArgs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative n", []string{"-n", "-1"}},
		{"zero runs", []string{"-runs", "0"}},
		{"unknown flag", []string{"-x"}},
		{"not a number", []string{"-n", "many"}},
		{"positional", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCountArgs(tt.args, io.Discard); err == nil {
				t.Errorf("parseCountArgs(%q) succeeded, want error", tt.args)
			}
		})
	}
}

// TestParseCountArgs_AuditLimit tests that -audit rejects runs whose clocks
// would overflow an epoch.
func TestParseCountArgs_AuditLimit(t *testing.T) {
	t.Setenv(auditEnv, "")

	limit := strconv.Itoa(maxAuditIterations)
	over := strconv.Itoa(maxAuditIterations + 1)

	if _, err := parseCountArgs([]string{"-audit", "-n", limit}, io.Discard); err != nil {
		t.Errorf("-audit -n %s: unexpected error: %v", limit, err)
	}
	if _, err := parseCountArgs([]string{"-audit", "-n", over}, io.Discard); err == nil {
		t.Errorf("-audit -n %s succeeded, want error", over)
	}
	if _, err := parseCountArgs([]string{"-n", over}, io.Discard); err != nil {
		t.Errorf("-n %s without -audit: unexpected error: %v", over, err)
	}

	t.Setenv(auditEnv, "1")
	if _, err := parseCountArgs([]string{"-n", over}, io.Discard); err == nil {
		t.Errorf("-n %s with %s=1 succeeded, want error", over, auditEnv)
	}
}

// TestParseCountArgs_Help tests that -h reports flag.ErrHelp.
func TestParseCountArgs_Help(t *testing.T) {
	var out bytes.Buffer
	_, err := parseCountArgs([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), "-runs") {
		t.Errorf("usage does not list -runs:\n%s", out.String())
	}
}

// TestRunCount tests complete runs, with and without the detector.
func TestRunCount(t *testing.T) {
	tests := []struct {
		name  string
		audit bool
	}{
		{"plain", false},
		{"audited", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &countConfig{iterations: 500, runs: 3, audit: tt.audit, yield: true}
			var stdout, stderr bytes.Buffer

			if err := runCount(config, &stdout, &stderr); err != nil {
				t.Fatalf("runCount() error: %v\nstderr:\n%s", err, stderr.String())
			}

			out := stdout.String()
			for _, want := range []string{
				"run 1: counter=1000 ",
				"run 3: counter=1000 ",
				"ok: 3 run(s), 500 increments per participant",
			} {
				if !strings.Contains(out, want) {
					t.Errorf("stdout missing %q:\n%s", want, out)
				}
			}
			if stderr.Len() != 0 {
				t.Errorf("unexpected stderr:\n%s", stderr.String())
			}
		})
	}
}

// TestRunCount_Zero tests a run with no increments.
func TestRunCount_Zero(t *testing.T) {
	var stdout bytes.Buffer
	config := &countConfig{iterations: 0, runs: 1}
	if err := runCount(config, &stdout, io.Discard); err != nil {
		t.Fatalf("runCount() error: %v", err)
	}
	if !strings.Contains(stdout.String(), "run 1: counter=0 ") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

// TestLostUpdateError tests the error message and errors.As.
func TestLostUpdateError(t *testing.T) {
	var err error = &LostUpdateError{Run: 2, Want: 2000, Got: 1997}

	want := "run 2: counter is 1997, want 2000 (3 updates lost)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var lost *LostUpdateError
	if !errors.As(err, &lost) || lost.Got != 1997 {
		t.Errorf("errors.As failed: %v", err)
	}
}

// TestPrintVersion tests the version line and -require.
func TestPrintVersion(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"plain", nil, false},
		{"compatible", []string{"-require", "v0.1.0"}, false},
		{"newer patch", []string{"-require", "v0.1.1"}, true},
		{"other minor", []string{"-require", "v0.2.0"}, true},
		{"invalid", []string{"-require", "latest"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := printVersion(tt.args, &stdout, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Errorf("printVersion(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if want := "dekker version v0.1.0 (Dekker (1965), 2 participants)\n"; stdout.String() != want {
				t.Errorf("stdout = %q, want %q", stdout.String(), want)
			}
		})
	}
}
