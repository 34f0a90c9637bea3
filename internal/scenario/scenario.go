// Package scenario loads planning-cycle inputs from JSON files: a reference
// centerline, the vehicle's start pose, and the obstacle set. Scenario files
// are the replay format used by the CLI and by regression captures.
package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/twpayne/go-polyline"

	"github.com/banshee-data/corridor/internal/corridor"
	"github.com/banshee-data/corridor/internal/frenet"
	"github.com/banshee-data/corridor/internal/obstacle"
)

// Scenario is one replayable planning cycle.
type Scenario struct {
	Name      string         `json:"name"`
	Reference ReferenceSpec  `json:"reference_line"`
	Start     StartSpec      `json:"start"`
	Obstacles []ObstacleSpec `json:"obstacles,omitempty"`

	// Mode is "lanes" (default), "self_lane" or "road".
	Mode string `json:"mode,omitempty"`
	// Borrow is "" (default), "left" or "right". Only meaningful in
	// "lanes" mode.
	Borrow    string `json:"borrow,omitempty"`
	ExtendADC bool   `json:"extend_adc,omitempty"`
	Fallback  bool   `json:"fallback_lane_change,omitempty"`
}

// ReferenceSpec describes the centerline geometry. The centerline is either
// an encoded polyline of (x, y) meter pairs or an explicit point list; when
// both are present the explicit points win. Width fields apply uniformly
// unless a point overrides them.
type ReferenceSpec struct {
	EncodedCenterline string      `json:"encoded_centerline,omitempty"`
	Points            []PointSpec `json:"points,omitempty"`

	LaneLeftWidth      float64 `json:"lane_left_width,omitempty"`
	LaneRightWidth     float64 `json:"lane_right_width,omitempty"`
	RoadLeftWidth      float64 `json:"road_left_width,omitempty"`
	RoadRightWidth     float64 `json:"road_right_width,omitempty"`
	AdjLeftLaneWidth   float64 `json:"adj_left_lane_width,omitempty"`
	AdjRightLaneWidth  float64 `json:"adj_right_lane_width,omitempty"`
	OffsetToLaneCenter float64 `json:"offset_to_lane_center,omitempty"`
}

// PointSpec is one explicit centerline point. Zero widths fall back to the
// ReferenceSpec uniform values.
type PointSpec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	LaneLeftWidth  float64 `json:"lane_left_width,omitempty"`
	LaneRightWidth float64 `json:"lane_right_width,omitempty"`
	RoadLeftWidth  float64 `json:"road_left_width,omitempty"`
	RoadRightWidth float64 `json:"road_right_width,omitempty"`
}

// StartSpec is the vehicle's Cartesian planning start state.
type StartSpec struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Kappa   float64 `json:"kappa,omitempty"`
	V       float64 `json:"v,omitempty"`
	A       float64 `json:"a,omitempty"`
}

// ObstacleSpec is one obstacle footprint in Cartesian coordinates.
type ObstacleSpec struct {
	ID      string      `json:"id"`
	Polygon [][]float64 `json:"polygon"` // [x, y] pairs
	Static  bool        `json:"static"`
	Virtual bool        `json:"virtual,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("scenario file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc := &Scenario{}
	if err := json.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return sc, nil
}

// Validate checks structural constraints before any geometry is built.
func (s *Scenario) Validate() error {
	if len(s.Reference.Points) == 0 && s.Reference.EncodedCenterline == "" {
		return fmt.Errorf("reference_line needs points or an encoded_centerline")
	}
	switch s.Mode {
	case "", "lanes", "self_lane", "road":
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	switch s.Borrow {
	case "", "left", "right":
	default:
		return fmt.Errorf("unknown borrow direction %q", s.Borrow)
	}
	for i, o := range s.Obstacles {
		if o.ID == "" {
			return fmt.Errorf("obstacle %d has no id", i)
		}
		if len(o.Polygon) < 3 {
			return fmt.Errorf("obstacle %q polygon needs at least 3 vertices, got %d", o.ID, len(o.Polygon))
		}
		for _, v := range o.Polygon {
			if len(v) != 2 {
				return fmt.Errorf("obstacle %q has a vertex with %d coordinates", o.ID, len(v))
			}
		}
	}
	return nil
}

// centerlineXY returns the scenario's centerline as (x, y) pairs.
func (s *Scenario) centerlineXY() ([][2]float64, error) {
	if len(s.Reference.Points) > 0 {
		out := make([][2]float64, len(s.Reference.Points))
		for i, p := range s.Reference.Points {
			out[i] = [2]float64{p.X, p.Y}
		}
		return out, nil
	}
	coords, rest, err := polyline.DecodeCoords([]byte(s.Reference.EncodedCenterline))
	if err != nil {
		return nil, fmt.Errorf("decode centerline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode centerline: %d trailing bytes", len(rest))
	}
	out := make([][2]float64, len(coords))
	for i, c := range coords {
		out[i] = [2]float64{c[0], c[1]}
	}
	return out, nil
}

// EncodeCenterline converts (x, y) meter pairs into the scenario file's
// polyline format.
func EncodeCenterline(points [][2]float64) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p[0], p[1]}
	}
	return string(polyline.EncodeCoords(coords))
}

// BuildReferenceLine converts the reference spec into pipeline geometry,
// deriving station, heading and curvature from the centerline shape.
func (s *Scenario) BuildReferenceLine() (*frenet.ReferenceLine, error) {
	xy, err := s.centerlineXY()
	if err != nil {
		return nil, err
	}
	if len(xy) < 2 {
		return nil, fmt.Errorf("centerline needs at least 2 points, got %d", len(xy))
	}

	ref := s.Reference
	pts := make([]frenet.ReferencePoint, len(xy))
	station := 0.0
	for i, p := range xy {
		if i > 0 {
			station += math.Hypot(p[0]-xy[i-1][0], p[1]-xy[i-1][1])
		}
		pts[i] = frenet.ReferencePoint{
			S: station, X: p[0], Y: p[1],
			LaneLeftWidth:      ref.LaneLeftWidth,
			LaneRightWidth:     ref.LaneRightWidth,
			RoadLeftWidth:      ref.RoadLeftWidth,
			RoadRightWidth:     ref.RoadRightWidth,
			AdjLeftLaneWidth:   ref.AdjLeftLaneWidth,
			AdjRightLaneWidth:  ref.AdjRightLaneWidth,
			OffsetToLaneCenter: ref.OffsetToLaneCenter,
		}
		if i < len(s.Reference.Points) {
			applyPointWidths(&pts[i], s.Reference.Points[i])
		}
	}

	// headings from segment direction, curvature from heading change
	for i := range pts {
		j := i
		if j == len(pts)-1 {
			j = len(pts) - 2
		}
		pts[i].Heading = math.Atan2(pts[j+1].Y-pts[j].Y, pts[j+1].X-pts[j].X)
	}
	for i := 1; i < len(pts)-1; i++ {
		ds := pts[i+1].S - pts[i-1].S
		if ds > 0 {
			pts[i].Kappa = frenet.NormalizeAngle(pts[i+1].Heading-pts[i-1].Heading) / ds
		}
	}

	return frenet.NewReferenceLine(pts)
}

func applyPointWidths(rp *frenet.ReferencePoint, ps PointSpec) {
	if ps.LaneLeftWidth > 0 {
		rp.LaneLeftWidth = ps.LaneLeftWidth
	}
	if ps.LaneRightWidth > 0 {
		rp.LaneRightWidth = ps.LaneRightWidth
	}
	if ps.RoadLeftWidth > 0 {
		rp.RoadLeftWidth = ps.RoadLeftWidth
	}
	if ps.RoadRightWidth > 0 {
		rp.RoadRightWidth = ps.RoadRightWidth
	}
}

// BuildObstacles converts the obstacle specs into the pipeline's set type.
func (s *Scenario) BuildObstacles() *obstacle.Set {
	set := obstacle.NewSet()
	for _, spec := range s.Obstacles {
		obs := &obstacle.Obstacle{
			ID:        spec.ID,
			IsStatic:  spec.Static,
			IsVirtual: spec.Virtual,
		}
		for _, v := range spec.Polygon {
			obs.Polygon = append(obs.Polygon, obstacle.Point{X: v[0], Y: v[1]})
		}
		set.Add(obs.ID, obs)
	}
	return set
}

// BuildRequest assembles the full planning-cycle request.
func (s *Scenario) BuildRequest() (corridor.Request, error) {
	ref, err := s.BuildReferenceLine()
	if err != nil {
		return corridor.Request{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	req := corridor.Request{
		Ref:       ref,
		Obstacles: s.BuildObstacles(),
		Start: frenet.TrajectoryPoint{
			X: s.Start.X, Y: s.Start.Y,
			Heading: s.Start.Heading,
			Kappa:   s.Start.Kappa,
			V:       s.Start.V,
			A:       s.Start.A,
		},
		ExtendADC:          s.ExtendADC,
		FallbackLaneChange: s.Fallback,
	}
	switch s.Mode {
	case "self_lane":
		req.Mode = corridor.ModeSelfLane
	case "road":
		req.Mode = corridor.ModeRoad
	}
	switch s.Borrow {
	case "left":
		req.Borrow = corridor.LeftBorrow
	case "right":
		req.Borrow = corridor.RightBorrow
	}
	return req, nil
}
