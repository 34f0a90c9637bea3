package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/corridor/internal/corridor"
)

// Cycle is one persisted planning cycle.
type Cycle struct {
	CycleID            string          `json:"cycle_id"`
	Scenario           string          `json:"scenario"`
	Mode               string          `json:"mode"`
	BorrowLaneType     string          `json:"borrow_lane_type,omitempty"`
	StartS             float64         `json:"start_s"`
	StartL             float64         `json:"start_l"`
	EndS               float64         `json:"end_s"`
	PointCount         int             `json:"point_count"`
	NarrowestWidth     float64         `json:"narrowest_width"`
	BlockingObstacleID string          `json:"blocking_obstacle_id,omitempty"`
	BoundaryJSON       json.RawMessage `json:"boundary_json,omitempty"`
	CreatedAt          int64           `json:"created_at"`
}

// Boundary decodes the persisted point list.
func (c *Cycle) Boundary() ([]corridor.PathBoundPoint, error) {
	if len(c.BoundaryJSON) == 0 {
		return nil, nil
	}
	var pts []corridor.PathBoundPoint
	if err := json.Unmarshal(c.BoundaryJSON, &pts); err != nil {
		return nil, fmt.Errorf("decode boundary points: %w", err)
	}
	return pts, nil
}

// NewCycle captures a planning result for persistence.
func NewCycle(scenarioName, mode string, res *corridor.Result) (*Cycle, error) {
	boundaryJSON, err := json.Marshal(res.Boundary.Points)
	if err != nil {
		return nil, fmt.Errorf("encode boundary points: %w", err)
	}
	return &Cycle{
		Scenario:           scenarioName,
		Mode:               mode,
		BorrowLaneType:     res.BorrowLaneType,
		StartS:             res.InitSL.S[0],
		StartL:             res.InitSL.L[0],
		EndS:               res.Boundary.EndS(),
		PointCount:         res.Boundary.Len(),
		NarrowestWidth:     res.Boundary.NarrowestWidth,
		BlockingObstacleID: res.Boundary.BlockingObstacleID,
		BoundaryJSON:       boundaryJSON,
	}, nil
}

// CycleStore provides persistence for planning cycles.
type CycleStore struct {
	db *sql.DB
}

// NewCycleStore creates a new CycleStore.
func NewCycleStore(db *sql.DB) *CycleStore {
	return &CycleStore{db: db}
}

// Insert persists a cycle. If CycleID is empty, a UUID is generated.
func (s *CycleStore) Insert(c *Cycle) error {
	if c.CycleID == "" {
		c.CycleID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().UnixNano()
	}

	var boundaryStr interface{}
	if len(c.BoundaryJSON) > 0 {
		boundaryStr = string(c.BoundaryJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO cycles (
				cycle_id, scenario, mode, borrow_lane_type,
				start_s, start_l, end_s, point_count,
				narrowest_width, blocking_obstacle_id, boundary_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CycleID, c.Scenario, c.Mode, c.BorrowLaneType,
			c.StartS, c.StartL, c.EndS, c.PointCount,
			c.NarrowestWidth, c.BlockingObstacleID, boundaryStr, c.CreatedAt,
		)
		return err
	})
}

// Get returns a single cycle by ID.
func (s *CycleStore) Get(cycleID string) (*Cycle, error) {
	row := s.db.QueryRow(`
		SELECT cycle_id, scenario, mode, borrow_lane_type,
		       start_s, start_l, end_s, point_count,
		       narrowest_width, blocking_obstacle_id, boundary_json, created_at
		FROM cycles
		WHERE cycle_id = ?`, cycleID)
	c, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cycle %s not found", cycleID)
	}
	return c, err
}

// ListByScenario returns cycles for a scenario, newest first.
func (s *CycleStore) ListByScenario(scenario string, limit int) ([]*Cycle, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT cycle_id, scenario, mode, borrow_lane_type,
		       start_s, start_l, end_s, point_count,
		       narrowest_width, blocking_obstacle_id, boundary_json, created_at
		FROM cycles
		WHERE scenario = ?
		ORDER BY created_at DESC
		LIMIT ?`, scenario, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// ListBlocked returns cycles whose corridor was truncated by an obstacle,
// newest first.
func (s *CycleStore) ListBlocked(limit int) ([]*Cycle, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT cycle_id, scenario, mode, borrow_lane_type,
		       start_s, start_l, end_s, point_count,
		       narrowest_width, blocking_obstacle_id, boundary_json, created_at
		FROM cycles
		WHERE blocking_obstacle_id != ''
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query blocked cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// Delete removes a cycle.
func (s *CycleStore) Delete(cycleID string) error {
	return retryOnBusy(func() error {
		res, err := s.db.Exec(`DELETE FROM cycles WHERE cycle_id = ?`, cycleID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("cycle %s not found", cycleID)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCycle(row rowScanner) (*Cycle, error) {
	var c Cycle
	var boundaryStr sql.NullString
	err := row.Scan(
		&c.CycleID, &c.Scenario, &c.Mode, &c.BorrowLaneType,
		&c.StartS, &c.StartL, &c.EndS, &c.PointCount,
		&c.NarrowestWidth, &c.BlockingObstacleID, &boundaryStr, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan cycle: %w", err)
	}
	if boundaryStr.Valid {
		c.BoundaryJSON = json.RawMessage(boundaryStr.String)
	}
	return &c, nil
}
