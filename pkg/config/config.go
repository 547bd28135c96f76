// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/vidbanner/pkg/adapters/filepublisher"
	"github.com/user/vidbanner/pkg/adapters/keyinput"
	"github.com/user/vidbanner/pkg/adapters/subcues"
	"github.com/user/vidbanner/pkg/control"
	"github.com/user/vidbanner/pkg/pacer"
)

// Config represents the full configuration for vidbanner.
type Config struct {
	// Input/Output
	VideoPath        string `yaml:"video"`
	SubtitlePath     string `yaml:"subtitles"`
	SubtitleEncoding string `yaml:"subtitle_encoding"`
	OutputPath       string `yaml:"output"`

	// Frame source
	Backend    string `yaml:"backend"`
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Output image
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fit        string `yaml:"fit"`
	Background string `yaml:"background"`

	// Pacing
	IntervalMs     int `yaml:"interval_ms"`
	IdleMs         int `yaml:"idle_ms"`
	RetryBackoffMs int `yaml:"retry_backoff_ms"`
	JPEGQuality    int `yaml:"jpeg_quality"`

	Keys   KeysConfig   `yaml:"keys"`
	Output OutputConfig `yaml:"output_channel"`

	LogLevel string `yaml:"log_level"`
}

// KeysConfig holds the global hotkeys.
type KeysConfig struct {
	Toggle string `yaml:"toggle"`
	Reset  string `yaml:"reset"`
}

// OutputConfig holds the keystroke sequences sent to the consumer.
type OutputConfig struct {
	Token          string `yaml:"token"`
	ChatKey        string `yaml:"chat_key"`
	TextKey        string `yaml:"text_key"`
	PasteKey       string `yaml:"paste_key"`
	PasteModifier  string `yaml:"paste_modifier"`
	EnterKey       string `yaml:"enter_key"`
	TriggerDelayMs int    `yaml:"trigger_delay_ms"`
	CueDelayMs     int    `yaml:"cue_delay_ms"`
	CharDelayMs    int    `yaml:"char_delay_ms"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	keys := control.DefaultKeys()
	out := keyinput.DefaultOptions()

	return Config{
		SubtitleEncoding: subcues.DefaultEncoding,
		OutputPath:       "vid.png",

		Backend: "auto",

		Width:      64,
		Height:     64,
		Fit:        string(pacer.FitStretch),
		Background: "#000000",

		IntervalMs:     50,
		IdleMs:         100,
		RetryBackoffMs: 100,
		JPEGQuality:    90,

		Keys: KeysConfig{Toggle: keys.Toggle, Reset: keys.Reset},
		Output: OutputConfig{
			Token:          out.Token,
			ChatKey:        out.ChatKey,
			TextKey:        out.TextKey,
			PasteKey:       out.PasteKey,
			PasteModifier:  out.PasteModifier,
			EnterKey:       out.EnterKey,
			TriggerDelayMs: int(out.TriggerDelay / time.Millisecond),
			CueDelayMs:     int(out.CueDelay / time.Millisecond),
			CharDelayMs:    int(out.CharDelay / time.Millisecond),
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the settings a play run depends on.
func (c Config) Validate() error {
	var errs []error
	if c.VideoPath == "" {
		errs = append(errs, errors.New("video path is required"))
	}
	if c.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("interval_ms must be positive, got %d", c.IntervalMs))
	}
	if c.IdleMs <= 0 {
		errs = append(errs, fmt.Errorf("idle_ms must be positive, got %d", c.IdleMs))
	}
	if c.RetryBackoffMs <= 0 {
		errs = append(errs, fmt.Errorf("retry_backoff_ms must be positive, got %d", c.RetryBackoffMs))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be in 1..100, got %d", c.JPEGQuality))
	}
	switch c.Backend {
	case "", "auto", "opencv", "ffmpeg":
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	if err := c.ToPacerConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.ToKeys().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.ToKeyInputOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color. The leading '#' is optional.
func ParseColor(hex string) (color.Color, error) {
	s := hex
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid color %q", hex)
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexValue(s[2*i])
		lo, ok2 := hexValue(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid color %q", hex)
		}
		rgb[i] = hi<<4 | lo
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// ToPacerConfig converts Config to pacer.Config. An unparsable background
// falls back to black; Validate reports it.
func (c Config) ToPacerConfig() pacer.Config {
	bg, err := ParseColor(c.Background)
	if err != nil {
		bg = color.Black
	}
	return pacer.Config{
		Destination:  c.OutputPath,
		Width:        c.Width,
		Height:       c.Height,
		Interval:     ms(c.IntervalMs),
		IdleInterval: ms(c.IdleMs),
		Fit:          pacer.Fit(c.Fit),
		Background:   bg,
	}
}

// ToKeys converts the hotkey section to control.Keys.
func (c Config) ToKeys() control.Keys {
	return control.Keys{Toggle: c.Keys.Toggle, Reset: c.Keys.Reset}
}

// ToKeyInputOptions converts the output channel section to keyinput.Options.
func (c Config) ToKeyInputOptions() keyinput.Options {
	return keyinput.Options{
		Token:         c.Output.Token,
		ChatKey:       c.Output.ChatKey,
		TextKey:       c.Output.TextKey,
		PasteKey:      c.Output.PasteKey,
		PasteModifier: c.Output.PasteModifier,
		EnterKey:      c.Output.EnterKey,
		TriggerDelay:  ms(c.Output.TriggerDelayMs),
		CueDelay:      ms(c.Output.CueDelayMs),
		CharDelay:     ms(c.Output.CharDelayMs),
	}
}

// ToPublisherOptions converts Config to filepublisher.Options.
func (c Config) ToPublisherOptions() filepublisher.Options {
	return filepublisher.Options{
		RetryBackoff: ms(c.RetryBackoffMs),
		JPEGQuality:  c.JPEGQuality,
	}
}
