package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
)

const (
	ConfigSubdir     = "sare"
	SettingsFileName = "settings.json"

	DefaultScrollbackLines = 10000
	DefaultMaxAtlasSize    = 2048
	DefaultMaxMemoryUsage  = 64 << 20
	DefaultMinPaneWidth    = 20
	DefaultMinPaneHeight   = 10
	DefaultSpacing         = 1
)

// TerminalSettings controls scrollback and screen behavior.
type TerminalSettings struct {
	ScrollbackLines int `json:"scrollback_lines"`
}

// RendererSettings mirrors the renderer's configuration keys:
// unicode/bidi/ligature support, GPU acceleration, atlasing, pooling,
// and their associated limits.
type RendererSettings struct {
	UnicodeSupport       bool `json:"unicode_support"`
	BidirectionalText    bool `json:"bidirectional_text"`
	LigatureSupport      bool `json:"ligature_support"`
	GPUAcceleration      bool `json:"gpu_acceleration"`
	TextureAtlasing      bool `json:"texture_atlasing"`
	MemoryPooling        bool `json:"memory_pooling"`
	MaxAtlasSize         int  `json:"max_atlas_size"`
	MaxMemoryUsage       int  `json:"max_memory_usage"`
	LineWrappingWidth    int  `json:"line_wrapping_width"`
	SubpixelAntialiasing bool `json:"subpixel_antialiasing"`
}

// LayoutSettings tunes the pane-splitting algorithm's defaults.
type LayoutSettings struct {
	DefaultAlgorithm string `json:"default_algorithm"` // "binary_tree", "grid", "manual"
	MinPaneWidth     int    `json:"min_pane_width"`
	MinPaneHeight    int    `json:"min_pane_height"`
	Spacing          int    `json:"spacing"`
}

// Settings holds all sare-specific configuration.
type Settings struct {
	Terminal TerminalSettings `json:"terminal"`
	Renderer RendererSettings `json:"renderer"`
	Layout   LayoutSettings   `json:"layout"`
}

// GlobalSettings is the process-wide loaded settings instance.
var GlobalSettings *Settings

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Terminal: TerminalSettings{
			ScrollbackLines: DefaultScrollbackLines,
		},
		Renderer: RendererSettings{
			UnicodeSupport:    true,
			BidirectionalText: true,
			LigatureSupport:   true,
			GPUAcceleration:   true,
			TextureAtlasing:   true,
			MemoryPooling:     true,
			MaxAtlasSize:      DefaultMaxAtlasSize,
			MaxMemoryUsage:    DefaultMaxMemoryUsage,
		},
		Layout: LayoutSettings{
			DefaultAlgorithm: "binary_tree",
			MinPaneWidth:     DefaultMinPaneWidth,
			MinPaneHeight:    DefaultMinPaneHeight,
			Spacing:          DefaultSpacing,
		},
	}
}

func getBaseConfigDir() string {
	if dir := os.Getenv("SARE_CONFIG_HOME"); dir != "" {
		return dir
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sare")
	}
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "sare")
}

// GetConfigDir returns the settings config directory path.
func GetConfigDir() string {
	return getBaseConfigDir()
}

// GetSettingsFilePath returns the path to the settings file.
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), SettingsFileName)
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(GetConfigDir(), 0755)
}

// EnsureSettingsFile creates the settings file with defaults if missing.
func EnsureSettingsFile() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	filePath := GetSettingsFilePath()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return SaveSettings(DefaultSettings())
	}
	return nil
}

// LoadSettings loads settings from disk, falling back to defaults for any
// missing or invalid field.
func LoadSettings() *Settings {
	settings := DefaultSettings()

	data, err := os.ReadFile(GetSettingsFilePath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: failed to read settings.json: %v", err)
		}
		GlobalSettings = settings
		return settings
	}

	if err := json.Unmarshal(data, settings); err != nil {
		log.Printf("config: failed to parse settings.json: %v", err)
		GlobalSettings = DefaultSettings()
		return GlobalSettings
	}

	applyDefaults(settings)
	GlobalSettings = settings
	return settings
}

func applyDefaults(s *Settings) {
	if s.Terminal.ScrollbackLines <= 0 {
		s.Terminal.ScrollbackLines = DefaultScrollbackLines
	}
	if s.Renderer.MaxAtlasSize <= 0 {
		s.Renderer.MaxAtlasSize = DefaultMaxAtlasSize
	}
	if s.Renderer.MaxMemoryUsage <= 0 {
		s.Renderer.MaxMemoryUsage = DefaultMaxMemoryUsage
	}
	if s.Layout.DefaultAlgorithm == "" {
		s.Layout.DefaultAlgorithm = "binary_tree"
	}
	if s.Layout.MinPaneWidth <= 0 {
		s.Layout.MinPaneWidth = DefaultMinPaneWidth
	}
	if s.Layout.MinPaneHeight <= 0 {
		s.Layout.MinPaneHeight = DefaultMinPaneHeight
	}
}

// SaveSettings persists settings to disk as indented JSON.
func SaveSettings(settings *Settings) error {
	if err := EnsureConfigDir(); err != nil {
		log.Printf("config: failed to create config dir: %v", err)
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal settings: %w", err)
	}

	if err := os.WriteFile(GetSettingsFilePath(), data, 0644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}

	GlobalSettings = settings
	return nil
}

// ValidationError describes a single invalid settings field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSettingsJSON parses and validates settings JSON, returning the
// parsed struct alongside any validation errors (parse errors return nil).
func ValidateSettingsJSON(data []byte) (*Settings, []ValidationError) {
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, []ValidationError{{Field: "json", Message: "invalid JSON: " + err.Error()}}
	}
	return &settings, validateSettings(&settings)
}

func validateSettings(s *Settings) []ValidationError {
	var errs []ValidationError

	if s.Terminal.ScrollbackLines < 0 {
		errs = append(errs, ValidationError{"terminal.scrollback_lines", "must be non-negative"})
	} else if s.Terminal.ScrollbackLines > 1000000 {
		errs = append(errs, ValidationError{"terminal.scrollback_lines", "must be <= 1000000"})
	}

	if s.Renderer.MaxAtlasSize < 0 {
		errs = append(errs, ValidationError{"renderer.max_atlas_size", "must be non-negative"})
	}
	if s.Renderer.MaxMemoryUsage < 0 {
		errs = append(errs, ValidationError{"renderer.max_memory_usage", "must be non-negative"})
	}

	switch strings.ToLower(s.Layout.DefaultAlgorithm) {
	case "", "binary_tree", "grid", "manual":
	default:
		errs = append(errs, ValidationError{"layout.default_algorithm", "must be one of binary_tree, grid, manual"})
	}
	if s.Layout.MinPaneWidth < 0 || s.Layout.MinPaneHeight < 0 {
		errs = append(errs, ValidationError{"layout.min_pane_width/height", "must be non-negative"})
	}

	return errs
}

// ReloadSettings reloads settings from disk and returns validation errors,
// if any, without discarding the previously loaded settings on failure.
func ReloadSettings() []ValidationError {
	data, err := os.ReadFile(GetSettingsFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			GlobalSettings = DefaultSettings()
			return nil
		}
		return []ValidationError{{Field: "file", Message: "failed to read settings file: " + err.Error()}}
	}

	settings, errs := ValidateSettingsJSON(data)
	if len(errs) > 0 {
		return errs
	}

	applyDefaults(settings)
	GlobalSettings = settings
	log.Printf("config: reloaded settings successfully")
	return nil
}

// WatchSettings watches the settings file's directory and calls onChange
// with the freshly reloaded Settings every time the file is written or
// created and the reload passes validation; a rejected reload is logged
// and onChange is not called.
// Watching the directory rather than the file survives editors that save
// via rename-into-place, which swaps the inode fsnotify would otherwise
// lose track of. The caller owns the returned watcher and must Close it.
func WatchSettings(onChange func(*Settings)) (*fsnotify.Watcher, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	if err := watcher.Add(GetConfigDir()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: watch config dir: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !IsSettingsFile(event.Name) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if errs := ReloadSettings(); len(errs) > 0 {
					for _, e := range errs {
						log.Printf("config: reload rejected: %v", e)
					}
					continue
				}
				onChange(GlobalSettings)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			}
		}
	}()

	return watcher, nil
}

// IsSettingsFile reports whether path refers to the settings file.
func IsSettingsFile(path string) bool {
	settingsPath := GetSettingsFilePath()
	absPath, err1 := filepath.Abs(path)
	absSettings, err2 := filepath.Abs(settingsPath)
	if err1 != nil || err2 != nil {
		return path == settingsPath
	}
	return absPath == absSettings
}
