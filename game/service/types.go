package service

import (
	"time"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/session"
)

// MaxBulkMoves caps the moves executed by one BulkMove call.
const MaxBulkMoves = 50

// Stop reasons reported by BulkMove.
const (
	StopBlockedEdge      = "blocked_edge"
	StopBlockedObstacle  = "blocked_obstacle"
	StopInvalidDirection = "invalid_direction"
	StopWon              = "won"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	MapName        string              `json:"map_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	State          *session.State      `json:"state"`
	Diagnostics    []config.Diagnostic `json:"diagnostics,omitempty"`
}

// MoveResult contains the result of a move or menu selection
type MoveResult struct {
	*session.Result
	State *session.State `json:"state"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	RequestedMoves int               `json:"requested_moves"`
	MovesExecuted  int               `json:"moves_executed"`
	Success        bool              `json:"success"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"`
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	StartPos       engine.Position   `json:"start_pos"`
	EndPos         engine.Position   `json:"end_pos"`
	Picked         []string          `json:"picked,omitempty"`
	Steps          []*session.Result `json:"steps"`
	Won            bool              `json:"won"`
	State          *session.State    `json:"state"`
}

// CellInfo describes one cell as the player sees it.
type CellInfo struct {
	X         int             `json:"x"`
	Y         int             `json:"y"`
	Kind      string          `json:"kind"`
	Item      string          `json:"item,omitempty"`
	Requires  []string        `json:"requires,omitempty"`
	Missing   []string        `json:"missing,omitempty"`
	Enterable bool            `json:"enterable"`
	Distance  int             `json:"distance"`
	Player    engine.Position `json:"player"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []session.Event `json:"events"`
	TotalEvents int             `json:"total_events"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
	HasNext     bool            `json:"has_next"`
	HasPrevious bool            `json:"has_previous"`
}
