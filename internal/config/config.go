// Package config loads gosolid options from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/solidify"
)

const (
	maxFileSize = 1 * 1024 * 1024 // 1MB

	// DefaultWatchDebounce is the quiet period after a write before a
	// watched file is processed again
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Options mirrors the command line flags. Fields left out of the file
// fall back to the defaults through the Get* methods.
type Options struct {
	Offset            *[3]float64 `json:"offset,omitempty"`
	Axis              *string     `json:"axis,omitempty"`
	AutoDepth         *bool       `json:"auto_depth,omitempty"`
	Simplify          *bool       `json:"simplify,omitempty"`
	NormalThreshold   *float64    `json:"normal_threshold,omitempty"`
	AngleLimitDegrees *float64    `json:"angle_limit_degrees,omitempty"`
	Watch             *bool       `json:"watch,omitempty"`
	WatchDebounce     *string     `json:"watch_debounce,omitempty"` // duration string like "500ms"
}

// Load reads options from a .json file no larger than 1MB
func Load(path string) (*Options, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates options from JSON
func Parse(data []byte) (*Options, error) {
	cfg := &Options{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set
func (c *Options) Validate() error {
	if c.Offset != nil && *c.Offset == [3]float64{} && !c.GetAutoDepth() {
		return fmt.Errorf("offset must not be zero")
	}
	if c.Axis != nil {
		if _, err := geometry.ParseAxis(*c.Axis); err != nil {
			return err
		}
	}
	if c.NormalThreshold != nil && (*c.NormalThreshold < -1 || *c.NormalThreshold > 1) {
		return fmt.Errorf("normal_threshold must be between -1 and 1, got %f", *c.NormalThreshold)
	}
	if c.AngleLimitDegrees != nil && (*c.AngleLimitDegrees < 0 || *c.AngleLimitDegrees > 180) {
		return fmt.Errorf("angle_limit_degrees must be between 0 and 180, got %f", *c.AngleLimitDegrees)
	}
	if c.WatchDebounce != nil && *c.WatchDebounce != "" {
		d, err := time.ParseDuration(*c.WatchDebounce)
		if err != nil {
			return fmt.Errorf("invalid watch_debounce '%s': %w", *c.WatchDebounce, err)
		}
		if d < 0 {
			return fmt.Errorf("watch_debounce must be non-negative, got %s", d)
		}
	}
	return nil
}

// GetOffset returns the extrusion offset or (0, 0, -5000)
func (c *Options) GetOffset() geometry.Vector3 {
	if c.Offset == nil {
		return geometry.NewVector3(0, 0, -solidify.DefaultDepth)
	}
	return geometry.NewVector3(c.Offset[0], c.Offset[1], c.Offset[2])
}

// GetAxis returns the flatten axis or Z
func (c *Options) GetAxis() geometry.Axis {
	if c.Axis == nil {
		return geometry.AxisZ
	}
	axis, err := geometry.ParseAxis(*c.Axis)
	if err != nil {
		return geometry.AxisZ
	}
	return axis
}

// GetAutoDepth returns the auto_depth value or false
func (c *Options) GetAutoDepth() bool {
	return c.AutoDepth != nil && *c.AutoDepth
}

// GetSimplify returns the simplify value or false
func (c *Options) GetSimplify() bool {
	return c.Simplify != nil && *c.Simplify
}

// GetNormalThreshold returns the normal_threshold value or 0.5
func (c *Options) GetNormalThreshold() float64 {
	if c.NormalThreshold == nil {
		return solidify.DefaultNormalThreshold
	}
	return *c.NormalThreshold
}

// GetAngleLimitDegrees returns the angle_limit_degrees value or 1.7
func (c *Options) GetAngleLimitDegrees() float64 {
	if c.AngleLimitDegrees == nil {
		return solidify.DefaultAngleLimitDegrees
	}
	return *c.AngleLimitDegrees
}

// GetWatch returns the watch value or false
func (c *Options) GetWatch() bool {
	return c.Watch != nil && *c.Watch
}

// GetWatchDebounce returns the watch_debounce duration or 500ms
func (c *Options) GetWatchDebounce() time.Duration {
	if c.WatchDebounce == nil || *c.WatchDebounce == "" {
		return DefaultWatchDebounce
	}
	d, err := time.ParseDuration(*c.WatchDebounce)
	if err != nil {
		return DefaultWatchDebounce
	}
	return d
}

// PipelineOptions converts the file options into pipeline options
func (c *Options) PipelineOptions() solidify.Options {
	return solidify.Options{
		Offset:    c.GetOffset(),
		Axis:      c.GetAxis(),
		AutoDepth: c.GetAutoDepth(),
		Simplify:  c.GetSimplify(),
		SimplifyOptions: solidify.SimplifyOptions{
			NormalThreshold: c.GetNormalThreshold(),
			AngleLimit:      c.GetAngleLimitDegrees() * math.Pi / 180,
		},
	}
}

// Ptr returns a pointer to v, for filling Options from flags
func Ptr[T any](v T) *T { return &v }
