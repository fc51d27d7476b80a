package timesvc

import (
	"testing"
	"time"

	"github.com/praxis-ledger/praxis/common"
)

func TestConfig_CanBeSerializedAndRestored(t *testing.T) {
	var a, b common.PublicKey
	a[0], b[0] = 1, 2
	cfg := Config{Validators: []common.PublicKey{a, b}}

	restored, err := ConfigFromBytes(cfg.ToBytes())
	if err != nil {
		t.Fatalf("failed to restore config; %s", err)
	}
	if len(restored.Validators) != 2 || restored.Validators[0] != a || restored.Validators[1] != b {
		t.Errorf("config was not restored, got %v", restored.Validators)
	}
}

func TestConfig_MalformedEncodingsAreRejected(t *testing.T) {
	tests := map[string][]byte{
		"empty input":       nil,
		"unknown version":   {1, 0, 0},
		"truncated key set": append(Config{Validators: make([]common.PublicKey, 2)}.ToBytes()[:10], 0),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ConfigFromBytes(data); err == nil {
				t.Errorf("malformed config was not rejected")
			}
		})
	}
}

func TestConfig_FaultToleranceIsDerivedFromTheSetSize(t *testing.T) {
	tests := []struct {
		validators int
		maxFaulty  int
	}{
		{0, 0},
		{1, 0},
		{3, 0},
		{4, 1},
		{6, 1},
		{7, 2},
		{10, 3},
	}
	for _, test := range tests {
		cfg := Config{Validators: make([]common.PublicKey, test.validators)}
		if got := cfg.MaxFaulty(); got != test.maxFaulty {
			t.Errorf("unexpected fault tolerance for %d validators, wanted %d, got %d",
				test.validators, test.maxFaulty, got)
		}
	}
}

func TestTxReport_CanBeSerializedAndRestored(t *testing.T) {
	var author common.PublicKey
	author[0] = 7
	report := TxReport{
		Time:   time.Date(2024, 5, 17, 10, 30, 0, 123456789, time.UTC),
		Author: author,
	}

	restored, err := TxReportFromBytes(report.ToBytes())
	if err != nil {
		t.Fatalf("failed to restore report; %s", err)
	}
	if !restored.Time.Equal(report.Time) {
		t.Errorf("time was not restored, wanted %v, got %v", report.Time, restored.Time)
	}
	if restored.Author != author {
		t.Errorf("author was not restored, got %x", restored.Author)
	}
}

func TestTxReport_MalformedEncodingsAreRejected(t *testing.T) {
	report := TxReport{Time: time.Unix(0, 42)}
	data := report.ToBytes()
	for _, truncated := range [][]byte{nil, data[:5], data[:len(data)-1], append(data, 0)} {
		if _, err := TxReportFromBytes(truncated); err == nil {
			t.Errorf("malformed report of %d bytes was not rejected", len(truncated))
		}
	}
}
