package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/ir2hid/internal/event"
)

// Source kinds
const (
	SourceLIRC   = "lirc"
	SourceReplay = "replay"
)

// HID backends
const (
	BackendGadget = "gadget"
	BackendBridge = "bridge"
	BackendNone   = "none"
)

type Config struct {
	Table    TableConfig    `yaml:"table"`
	Source   SourceConfig   `yaml:"source"`
	HID      HIDConfig      `yaml:"hid"`
	Debounce DebounceConfig `yaml:"debounce"`
	Queue    QueueConfig    `yaml:"queue"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

type TableConfig struct {
	// Path is resolved relative to the config file.
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

type SourceConfig struct {
	Kind       string `yaml:"kind"`
	Device     string `yaml:"device"`
	ReplayPath string `yaml:"replay_path,omitempty"`
}

type HIDConfig struct {
	Backend string `yaml:"backend"`

	GadgetPath string `yaml:"gadget_path"`
	UDCState   string `yaml:"udc_state,omitempty"`
	// HostPollMs is how often the gadget checks whether a host is attached
	HostPollMs int `yaml:"host_poll_ms"`

	VendorID       uint16   `yaml:"vendor_id"`
	ProductID      uint16   `yaml:"product_id"`
	PollIntervalMs int      `yaml:"poll_interval_ms"`
	Buttons        []Button `yaml:"buttons,omitempty"`
	MirrorDisplay  bool     `yaml:"mirror_display"`

	LongPressThresholdMs int `yaml:"long_press_threshold_ms"`
	RepeatIntervalMs     int `yaml:"repeat_interval_ms"`
}

// Button maps a bridge board button to a navigation key
type Button struct {
	Index int    `yaml:"index"`
	Key   string `yaml:"key"`
}

type DebounceConfig struct {
	CooldownMs int `yaml:"cooldown_ms"`
}

type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

type DisplayConfig struct {
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
	RefreshMs        int `yaml:"refresh_ms"`
	UpdateIntervalMs int `yaml:"update_interval_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	if !filepath.IsAbs(cfg.Table.Path) {
		cfg.Table.Path = filepath.Join(filepath.Dir(path), cfg.Table.Path)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Source.Kind {
	case "", SourceLIRC:
	case SourceReplay:
		if c.Source.ReplayPath == "" {
			return fmt.Errorf("source.replay_path is required for replay source")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}

	switch c.HID.Backend {
	case "", BackendGadget, BackendNone:
	case BackendBridge:
		if c.HID.VendorID == 0 {
			return fmt.Errorf("hid.vendor_id is required")
		}
		if c.HID.ProductID == 0 {
			return fmt.Errorf("hid.product_id is required")
		}
	default:
		return fmt.Errorf("unknown hid.backend %q", c.HID.Backend)
	}

	// Validate button indices are unique
	seen := make(map[int]bool)
	for _, btn := range c.HID.Buttons {
		if seen[btn.Index] {
			return fmt.Errorf("duplicate button index: %d", btn.Index)
		}
		seen[btn.Index] = true
		if _, ok := event.KeyByName(btn.Key); !ok {
			return fmt.Errorf("button %d: unknown key %q", btn.Index, btn.Key)
		}
	}

	if c.Debounce.CooldownMs < 0 {
		return fmt.Errorf("debounce.cooldown_ms must not be negative")
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue.capacity must not be negative")
	}
	for name, ms := range map[string]int{
		"hid.host_poll_ms":           c.HID.HostPollMs,
		"hid.poll_interval_ms":       c.HID.PollIntervalMs,
		"display.refresh_ms":         c.Display.RefreshMs,
		"display.update_interval_ms": c.Display.UpdateIntervalMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	if c.Log.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Table.Path == "" {
		c.Table.Path = "lut.csv"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceLIRC
	}
	if c.Source.Device == "" {
		c.Source.Device = "/dev/lirc0"
	}
	if c.HID.Backend == "" {
		c.HID.Backend = BackendGadget
	}
	if c.HID.GadgetPath == "" {
		c.HID.GadgetPath = "/dev/hidg0"
	}
	if c.HID.HostPollMs == 0 {
		c.HID.HostPollMs = 500
	}
	if c.HID.PollIntervalMs == 0 {
		c.HID.PollIntervalMs = 10
	}
	if c.HID.LongPressThresholdMs == 0 {
		c.HID.LongPressThresholdMs = 500
	}
	if c.HID.RepeatIntervalMs == 0 {
		c.HID.RepeatIntervalMs = 150
	}
	if c.HID.Buttons == nil {
		c.HID.Buttons = []Button{{Index: 0, Key: "back"}, {Index: 1, Key: "ok"}}
	}
	if c.Debounce.CooldownMs == 0 {
		c.Debounce.CooldownMs = 5
	}
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = 8
	}
	if c.Display.Width == 0 {
		c.Display.Width = 128
	}
	if c.Display.Height == 0 {
		c.Display.Height = 64
	}
	if c.Display.RefreshMs == 0 {
		c.Display.RefreshMs = 1000
	}
	if c.Display.UpdateIntervalMs == 0 {
		c.Display.UpdateIntervalMs = 100
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Cooldown returns the debounce window
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Debounce.CooldownMs) * time.Millisecond
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() slog.Level {
	var l slog.Level
	// validated in Load
	_ = l.UnmarshalText([]byte(c.Log.Level))
	return l
}

// ButtonKeys returns the navigation key for each mapped bridge button
func (c *Config) ButtonKeys() map[int]event.Key {
	keys := make(map[int]event.Key, len(c.HID.Buttons))
	for _, btn := range c.HID.Buttons {
		k, _ := event.KeyByName(btn.Key)
		keys[btn.Index] = k
	}
	return keys
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	// Update vendor_id (YAML format: vendor_id: 0x1234 or vendor_id: 1234)
	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	// Update product_id
	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	// Point the HID backend at the bridge that was just selected
	backendRegex := regexp.MustCompile(`(?m)^(\s*backend:\s*)\S+`)
	content = backendRegex.ReplaceAllString(content, "${1}"+BackendBridge)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values. When
// vendorID is non-zero the bridge backend is selected for that device,
// otherwise the USB gadget keyboard is used.
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	backend := BackendGadget
	if vendorID != 0 {
		backend = BackendBridge
	}

	content := fmt.Sprintf(`# IR to HID configuration

table:
  # CSV mapping file, relative to this config
  path: lut.csv
  watch: true

source:
  kind: lirc
  device: /dev/lirc0

hid:
  backend: %s
  gadget_path: /dev/hidg0
  host_poll_ms: 500
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 10
  mirror_display: true
  long_press_threshold_ms: 500
  repeat_interval_ms: 150
  buttons:
    - index: 0
      key: back
    - index: 1
      key: ok

debounce:
  cooldown_ms: 5

queue:
  capacity: 8

display:
  width: 128
  height: 64
  refresh_ms: 1000
  update_interval_ms: 100

log:
  level: info
`, backend, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
