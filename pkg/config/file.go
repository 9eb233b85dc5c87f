package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hat-tools/upshat/pkg/utils/ptr"
)

var defaultFileConfig = &RawFileConfig{
	LowVoltageThresholdMillivolts: ptr.To(13600),
	MaxReadAttempts:               ptr.To(3),
	DegradedReadAttempts:          ptr.To(0),
	LostThreshold:                 ptr.To(3),
	PollIntervalSeconds:           ptr.To(30),
	PowerOffOnLowBattery:          ptr.To(false),
	AllowNonRootAccess:            ptr.To(false),
	I2CDevicePath:                 ptr.To("/dev/i2c-1"),
	I2CAddress:                    ptr.To(0x2d),
}

var _ Config = &File{}

// File is a Config backed by a JSON file. Absent keys fall back to defaults,
// so an empty or missing file is a fully working configuration.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

// RawFileConfig is the on-disk shape. Pointer fields distinguish "absent"
// from zero.
type RawFileConfig struct {
	LowVoltageThresholdMillivolts *int    `json:"lowVoltageThresholdMillivolts,omitempty"`
	MaxReadAttempts               *int    `json:"maxReadAttempts,omitempty"`
	DegradedReadAttempts          *int    `json:"degradedReadAttempts,omitempty"`
	LostThreshold                 *int    `json:"lostThreshold,omitempty"`
	PollIntervalSeconds           *int    `json:"pollIntervalSeconds,omitempty"`
	PowerOffOnLowBattery          *bool   `json:"powerOffOnLowBattery,omitempty"`
	AllowNonRootAccess            *bool   `json:"allowNonRootAccess,omitempty"`
	I2CDevicePath                 *string `json:"i2cDevicePath,omitempty"`
	I2CAddress                    *int    `json:"i2cAddress,omitempty"`
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	if err := f.Load(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFileFromConfig wraps an already-parsed raw config, mainly for tests and
// for rendering a daemon-returned config client-side.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}
	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

func intOrDefault(v, def *int) int {
	if v != nil {
		return *v
	}
	return *def
}

func (f *File) LowVoltageThresholdMillivolts() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intOrDefault(f.c.LowVoltageThresholdMillivolts, defaultFileConfig.LowVoltageThresholdMillivolts)
}

func (f *File) MaxReadAttempts() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intOrDefault(f.c.MaxReadAttempts, defaultFileConfig.MaxReadAttempts)
}

func (f *File) DegradedReadAttempts() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intOrDefault(f.c.DegradedReadAttempts, defaultFileConfig.DegradedReadAttempts)
}

func (f *File) LostThreshold() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return intOrDefault(f.c.LostThreshold, defaultFileConfig.LostThreshold)
}

func (f *File) PollInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return time.Duration(intOrDefault(f.c.PollIntervalSeconds, defaultFileConfig.PollIntervalSeconds)) * time.Second
}

func (f *File) PowerOffOnLowBattery() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.c.PowerOffOnLowBattery != nil {
		return *f.c.PowerOffOnLowBattery
	}
	return *defaultFileConfig.PowerOffOnLowBattery
}

func (f *File) AllowNonRootAccess() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) I2CDevicePath() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.c.I2CDevicePath != nil {
		return *f.c.I2CDevicePath
	}
	return *defaultFileConfig.I2CDevicePath
}

func (f *File) I2CAddress() uint8 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint8(intOrDefault(f.c.I2CAddress, defaultFileConfig.I2CAddress))
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing file means all defaults. Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func() {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}()

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if err := json.Unmarshal(b, &conf); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func() {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}()

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f.c); err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"lowVoltageThresholdMillivolts": f.LowVoltageThresholdMillivolts(),
		"maxReadAttempts":               f.MaxReadAttempts(),
		"degradedReadAttempts":          f.DegradedReadAttempts(),
		"lostThreshold":                 f.LostThreshold(),
		"pollInterval":                  f.PollInterval().String(),
		"powerOffOnLowBattery":          f.PowerOffOnLowBattery(),
		"allowNonRootAccess":            f.AllowNonRootAccess(),
		"i2cDevicePath":                 f.I2CDevicePath(),
		"i2cAddress":                    f.I2CAddress(),
	}
}
