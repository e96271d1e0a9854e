package gizmo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Settings is the persisted configuration of a TransformControls. Snap values of zero
// disable snapping; RotationSnap is in degrees.
type Settings struct {
	Mode            Mode    `json:"mode" yaml:"mode"`
	Space           Space   `json:"space" yaml:"space"`
	TranslationSnap float32 `json:"translation_snap,omitempty" yaml:"translation_snap,omitempty"`
	RotationSnap    float32 `json:"rotation_snap,omitempty" yaml:"rotation_snap,omitempty"`
	ScaleSnap       float32 `json:"scale_snap,omitempty" yaml:"scale_snap,omitempty"`
	Size            float32 `json:"size" yaml:"size"`
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	ShowX           bool    `json:"show_x" yaml:"show_x"`
	ShowY           bool    `json:"show_y" yaml:"show_y"`
	ShowZ           bool    `json:"show_z" yaml:"show_z"`
	Fade            bool    `json:"fade,omitempty" yaml:"fade,omitempty"`
	FadeFPS         int     `json:"fade_fps,omitempty" yaml:"fade_fps,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:    ModeTranslate,
		Space:   SpaceWorld,
		Size:    1,
		Enabled: true,
		ShowX:   true,
		ShowY:   true,
		ShowZ:   true,
		FadeFPS: 60,
	}
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// LoadSettings reads a JSON or YAML settings file, chosen by extension. Missing fields keep
// their defaults.
func LoadSettings(filename string) (Settings, error) {
	s := DefaultSettings()
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return s, fmt.Errorf("load settings: %w", err)
	}
	if isYAML(filename) {
		err = yaml.Unmarshal(bytes, &s)
	} else {
		err = json.Unmarshal(bytes, &s)
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("load settings %s: %w", filename, err)
	}
	return s, nil
}

func SaveSettings(s Settings, filename string) error {
	var (
		bytes []byte
		err   error
	)
	if isYAML(filename) {
		bytes, err = yaml.Marshal(s)
	} else {
		bytes, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Settings captures the current configuration.
func (c *TransformControls) Settings() Settings {
	return Settings{
		Mode:            c.mode,
		Space:           c.space,
		TranslationSnap: c.translationSnap,
		RotationSnap:    mgl32.RadToDeg(c.rotationSnap),
		ScaleSnap:       c.scaleSnap,
		Size:            c.size,
		Enabled:         c.enabled,
		ShowX:           c.showX,
		ShowY:           c.showY,
		ShowZ:           c.showZ,
		Fade:            c.fade,
		FadeFPS:         c.fadeFPS,
	}
}

// ApplySettings replaces the configuration and notifies listeners for every changed field.
func (c *TransformControls) ApplySettings(s Settings) error {
	if !s.Mode.valid() {
		return fmt.Errorf("apply settings: %w: %d", ErrUnknownMode, int(s.Mode))
	}
	if s.Space != SpaceWorld && s.Space != SpaceLocal {
		return fmt.Errorf("apply settings: %w: %d", ErrUnknownSpace, int(s.Space))
	}
	prev := c.Settings()
	c.applySettings(s)
	c.notifySettings(prev, c.Settings())
	return nil
}

func (c *TransformControls) applySettings(s Settings) {
	if s.Mode.valid() {
		c.mode = s.Mode
	}
	if s.Space == SpaceWorld || s.Space == SpaceLocal {
		c.space = s.Space
	}
	c.translationSnap = s.TranslationSnap
	c.rotationSnap = mgl32.DegToRad(s.RotationSnap)
	c.scaleSnap = s.ScaleSnap
	c.size = s.Size
	c.enabled = s.Enabled
	c.showX, c.showY, c.showZ = s.ShowX, s.ShowY, s.ShowZ
	c.fade = s.Fade
	if s.FadeFPS > 0 {
		c.fadeFPS = s.FadeFPS
	}
}

func (c *TransformControls) notifySettings(prev, next Settings) {
	fields := []struct {
		name    string
		changed bool
		value   any
	}{
		{PropMode, prev.Mode != next.Mode, next.Mode},
		{PropSpace, prev.Space != next.Space, next.Space},
		{PropTranslationSnap, prev.TranslationSnap != next.TranslationSnap, c.translationSnap},
		{PropRotationSnap, prev.RotationSnap != next.RotationSnap, c.rotationSnap},
		{PropScaleSnap, prev.ScaleSnap != next.ScaleSnap, c.scaleSnap},
		{PropSize, prev.Size != next.Size, next.Size},
		{PropEnabled, prev.Enabled != next.Enabled, next.Enabled},
		{PropShowX, prev.ShowX != next.ShowX, next.ShowX},
		{PropShowY, prev.ShowY != next.ShowY, next.ShowY},
		{PropShowZ, prev.ShowZ != next.ShowZ, next.ShowZ},
	}
	for _, f := range fields {
		if f.changed {
			c.changed(f.name, f.value)
		}
	}
}
