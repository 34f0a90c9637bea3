package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// Tuning holds the calibration parameters of the path-boundary pipeline.
// All fields are optional pointers so a partial JSON file only overrides
// the values it names; the Get* methods supply defaults for the rest.
type Tuning struct {
	// Sampling params
	StationResolution *float64 `json:"station_resolution,omitempty"` // meters between boundary samples
	Horizon           *float64 `json:"horizon,omitempty"`            // planning horizon along the station axis (m)

	// Vehicle geometry
	VehicleWidth    *float64 `json:"vehicle_width,omitempty"`      // meters
	WheelBase       *float64 `json:"wheel_base,omitempty"`         // rear axle to front axle (m)
	RearAxleRefPose *bool    `json:"rear_axle_ref_pose,omitempty"` // pose reference is the rear-axle center

	// Lateral buffers
	ADCEdgeBuffer       *float64 `json:"adc_edge_buffer,omitempty"`       // margin beyond the vehicle half-width (m)
	ObstacleLBuffer     *float64 `json:"obstacle_l_buffer,omitempty"`     // extra clearance around obstacle footprints (m)
	DefaultLaneWidth    *float64 `json:"default_lane_width,omitempty"`    // fallback when the reference line has no width data (m)
	ObstacleLatScope    *float64 `json:"obstacle_lat_scope,omitempty"`    // obstacles farther laterally than this are ignored (m)
	RelaxSpan           *float64 `json:"relax_span,omitempty"`            // station span widened by the final relaxation (m)
	CenterLineBlend     *float64 `json:"center_line_blend,omitempty"`     // smoothing factor for the running center line (0..1]
	FallbackBufferScale *float64 `json:"fallback_buffer_scale,omitempty"` // buffer multiplier for fallback lane changes
}

// Load reads a Tuning from a JSON file. Fields omitted from the file keep
// their defaults, so partial configs are safe.
func Load(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Tuning{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the set fields are in range.
func (c *Tuning) Validate() error {
	if c.StationResolution != nil && *c.StationResolution <= 0 {
		return fmt.Errorf("station_resolution must be positive, got %f", *c.StationResolution)
	}
	if c.Horizon != nil && *c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %f", *c.Horizon)
	}
	if c.VehicleWidth != nil && *c.VehicleWidth <= 0 {
		return fmt.Errorf("vehicle_width must be positive, got %f", *c.VehicleWidth)
	}
	if c.WheelBase != nil && *c.WheelBase <= 0 {
		return fmt.Errorf("wheel_base must be positive, got %f", *c.WheelBase)
	}
	if c.ADCEdgeBuffer != nil && *c.ADCEdgeBuffer < 0 {
		return fmt.Errorf("adc_edge_buffer must be non-negative, got %f", *c.ADCEdgeBuffer)
	}
	if c.ObstacleLBuffer != nil && *c.ObstacleLBuffer < 0 {
		return fmt.Errorf("obstacle_l_buffer must be non-negative, got %f", *c.ObstacleLBuffer)
	}
	if c.CenterLineBlend != nil && (*c.CenterLineBlend <= 0 || *c.CenterLineBlend > 1) {
		return fmt.Errorf("center_line_blend must be in (0, 1], got %f", *c.CenterLineBlend)
	}
	if c.FallbackBufferScale != nil && (*c.FallbackBufferScale < 0 || *c.FallbackBufferScale > 1) {
		return fmt.Errorf("fallback_buffer_scale must be in [0, 1], got %f", *c.FallbackBufferScale)
	}
	return nil
}

// GetStationResolution returns the station_resolution value or the default.
func (c *Tuning) GetStationResolution() float64 {
	if c.StationResolution == nil {
		return 0.5 // default
	}
	return *c.StationResolution
}

// GetHorizon returns the horizon value or the default.
func (c *Tuning) GetHorizon() float64 {
	if c.Horizon == nil {
		return 100.0 // default
	}
	return *c.Horizon
}

// GetVehicleWidth returns the vehicle_width value or the default.
func (c *Tuning) GetVehicleWidth() float64 {
	if c.VehicleWidth == nil {
		return 2.11 // default
	}
	return *c.VehicleWidth
}

// GetWheelBase returns the wheel_base value or the default.
func (c *Tuning) GetWheelBase() float64 {
	if c.WheelBase == nil {
		return 2.84 // default
	}
	return *c.WheelBase
}

// GetRearAxleRefPose reports whether the supplied pose references the
// rear-axle center rather than the geometric center.
func (c *Tuning) GetRearAxleRefPose() bool {
	if c.RearAxleRefPose == nil {
		return true // default: poses come from rear-axle localization
	}
	return *c.RearAxleRefPose
}

// GetADCEdgeBuffer returns the adc_edge_buffer value or the default.
func (c *Tuning) GetADCEdgeBuffer() float64 {
	if c.ADCEdgeBuffer == nil {
		return 0.5 // default
	}
	return *c.ADCEdgeBuffer
}

// GetObstacleLBuffer returns the obstacle_l_buffer value or the default.
func (c *Tuning) GetObstacleLBuffer() float64 {
	if c.ObstacleLBuffer == nil {
		return 0.4 // default
	}
	return *c.ObstacleLBuffer
}

// GetDefaultLaneWidth returns the default_lane_width value or the default.
func (c *Tuning) GetDefaultLaneWidth() float64 {
	if c.DefaultLaneWidth == nil {
		return 3.6 // default
	}
	return *c.DefaultLaneWidth
}

// GetObstacleLatScope returns the obstacle_lat_scope value or the default.
func (c *Tuning) GetObstacleLatScope() float64 {
	if c.ObstacleLatScope == nil {
		return 20.0 // default
	}
	return *c.ObstacleLatScope
}

// GetRelaxSpan returns the relax_span value or the default.
func (c *Tuning) GetRelaxSpan() float64 {
	if c.RelaxSpan == nil {
		return 10.0 // default
	}
	return *c.RelaxSpan
}

// GetCenterLineBlend returns the center_line_blend value or the default.
func (c *Tuning) GetCenterLineBlend() float64 {
	if c.CenterLineBlend == nil {
		return 0.5 // default
	}
	return *c.CenterLineBlend
}

// GetFallbackBufferScale returns the fallback_buffer_scale value or the default.
func (c *Tuning) GetFallbackBufferScale() float64 {
	if c.FallbackBufferScale == nil {
		return 0.5 // default
	}
	return *c.FallbackBufferScale
}
