// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c4dt/arti/dirmgr"
	"github.com/c4dt/arti/retry"
)

// writeConfigFile writes contents to a config file in a temporary directory
// and returns its path.
func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netdirsim.conf")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("unable to write config file: %v", err)
	}
	return path
}

// TestLoadConfig ensures options are taken from the defaults, the config file,
// and the command line in increasing order of precedence.
func TestLoadConfig(t *testing.T) {
	configFile := writeConfigFile(t, "[Application Options]\n"+
		"relays=250\n"+
		"failpct=20\n"+
		"retrymicrodescs=5,2s\n"+
		"exitport=80\n")

	cfg, _, err := loadConfig("netdirsim", []string{
		"--configfile=" + configFile,
		"--nofilelogging",
		"--debuglevel=off",
		"--failpct=30",
	})
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	sched := dirmgr.DefaultDownloadScheduleConfig()
	if cfg.NumRelays != 250 {
		t.Errorf("relays: got %d, want 250", cfg.NumRelays)
	}
	if cfg.FailPct != 30 {
		t.Errorf("failpct: got %d, want 30", cfg.FailPct)
	}
	if cfg.ExitPort != 80 {
		t.Errorf("exitport: got %d, want 80", cfg.ExitPort)
	}
	if want := retry.NewConfig(5, 2*time.Second); cfg.RetryMicrodescs != want {
		t.Errorf("retrymicrodescs: got %v, want %v", cfg.RetryMicrodescs,
			want)
	}
	if cfg.RetryConsensus != sched.RetryConsensus {
		t.Errorf("retryconsensus: got %v, want %v", cfg.RetryConsensus,
			sched.RetryConsensus)
	}
	if cfg.MeasuredPct != defaultMeasuredPct {
		t.Errorf("measuredpct: got %d, want %d", cfg.MeasuredPct,
			defaultMeasuredPct)
	}

	got := cfg.schedule()
	if got.RetryMicrodescs != cfg.RetryMicrodescs ||
		got.MicrodescParallelism != sched.MicrodescParallelism ||
		got.MaxMicrodescsPerRequest != sched.MaxMicrodescsPerRequest {

		t.Errorf("unexpected schedule %v", got)
	}
}

// TestLoadConfigInvalid ensures invalid options are rejected.
func TestLoadConfigInvalid(t *testing.T) {
	configFile := writeConfigFile(t, "[Application Options]\n")

	tests := []struct {
		name string
		args []string
	}{{
		name: "zero relays",
		args: []string{"--relays=0"},
	}, {
		name: "too many relays",
		args: []string{"--relays=1000000"},
	}, {
		name: "measured over 100 percent",
		args: []string{"--measuredpct=101"},
	}, {
		name: "every request fails",
		args: []string{"--failpct=100"},
	}, {
		name: "zero per request",
		args: []string{"--maxperrequest=0"},
	}, {
		name: "fraction over one",
		args: []string{"--minusable=1.5"},
	}, {
		name: "zero attempts",
		args: []string{"--retryconsensus=0"},
	}, {
		name: "bad delay",
		args: []string{"--retrycerts=3,soon"},
	}, {
		name: "microdesc delay over an hour",
		args: []string{"--retrymicrodescs=3,2h"},
	}, {
		name: "unknown subsystem",
		args: []string{"--debuglevel=XXXX=debug"},
	}, {
		name: "unknown option",
		args: []string{"--nosuchoption"},
	}}

	for _, test := range tests {
		args := append([]string{"--configfile=" + configFile,
			"--nofilelogging"}, test.args...)
		if _, _, err := loadConfig("netdirsim", args); err == nil {
			t.Errorf("%q: did not receive expected error", test.name)
		}
	}
}

// TestParseAndSetDebugLevels ensures debug level strings are validated.
func TestParseAndSetDebugLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "single level", level: "debug"},
		{name: "subsystem pairs", level: "DMGR=trace,NDIR=warn"},
		{name: "invalid level", level: "loud", wantErr: true},
		{name: "invalid pair", level: "DMGR=debug,trace", wantErr: true},
		{name: "invalid subsystem", level: "XXXX=info", wantErr: true},
		{name: "invalid pair level", level: "SIMU=loud", wantErr: true},
	}

	for _, test := range tests {
		err := parseAndSetDebugLevels(test.level)
		if gotErr := err != nil; gotErr != test.wantErr {
			t.Errorf("%q: unexpected error state -- got %v, want error %v",
				test.name, err, test.wantErr)
		}
	}
	setLogLevels("off")
}
