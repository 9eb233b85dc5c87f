package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hat-tools/upshat/pkg/utils/ptr"
)

func TestFileDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	if got := f.LowVoltageThresholdMillivolts(); got != 13600 {
		t.Errorf("LowVoltageThresholdMillivolts() = %d, want 13600", got)
	}
	if got := f.MaxReadAttempts(); got != 3 {
		t.Errorf("MaxReadAttempts() = %d, want 3", got)
	}
	if got := f.LostThreshold(); got != 3 {
		t.Errorf("LostThreshold() = %d, want 3", got)
	}
	if got := f.PollInterval(); got != 30*time.Second {
		t.Errorf("PollInterval() = %v, want 30s", got)
	}
	if f.PowerOffOnLowBattery() {
		t.Error("PowerOffOnLowBattery() = true, want false by default")
	}
	if got := f.I2CDevicePath(); got != "/dev/i2c-1" {
		t.Errorf("I2CDevicePath() = %q, want /dev/i2c-1", got)
	}
	if got := f.I2CAddress(); got != 0x2d {
		t.Errorf("I2CAddress() = 0x%02x, want 0x2d", got)
	}
}

func TestFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upshat.json")
	content := `{"lowVoltageThresholdMillivolts": 14000, "pollIntervalSeconds": 5, "powerOffOnLowBattery": true}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	if got := f.LowVoltageThresholdMillivolts(); got != 14000 {
		t.Errorf("LowVoltageThresholdMillivolts() = %d, want 14000", got)
	}
	if got := f.PollInterval(); got != 5*time.Second {
		t.Errorf("PollInterval() = %v, want 5s", got)
	}
	if !f.PowerOffOnLowBattery() {
		t.Error("PowerOffOnLowBattery() = false, want true")
	}
	// Keys not in the file keep their defaults.
	if got := f.MaxReadAttempts(); got != 3 {
		t.Errorf("MaxReadAttempts() = %d, want default 3", got)
	}
}

func TestFileSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upshat.json")

	f := NewFileFromConfig(&RawFileConfig{
		LostThreshold:       ptr.To(5),
		PollIntervalSeconds: ptr.To(10),
	}, path)
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	g, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if got := g.LostThreshold(); got != 5 {
		t.Errorf("LostThreshold() = %d, want 5", got)
	}
	if got := g.PollInterval(); got != 10*time.Second {
		t.Errorf("PollInterval() = %v, want 10s", got)
	}
}

func TestFileLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upshat.json")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if got := f.MaxReadAttempts(); got != 3 {
		t.Errorf("MaxReadAttempts() = %d, want default 3", got)
	}
}
