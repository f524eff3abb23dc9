package service

import (
	"context"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, mapName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)
	SelectMenu(ctx context.Context, sessionID, extension string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*session.State, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*session.State, error)
	DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)
	GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Maps
	ListMaps(ctx context.Context) ([]*config.Info, error)
	LoadMap(ctx context.Context, mapName string) (*config.GameConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, cfg *config.GameConfig) (*session.Session, error)
	Get(id string) (*session.Session, error)
	List() []*session.Session
	Delete(id string) error
}

// ConfigManager handles map loading
type ConfigManager interface {
	LoadConfig(name string) (*config.GameConfig, error)
	ListConfigs() ([]*config.Info, error)
	GetDefault() *config.GameConfig
}
