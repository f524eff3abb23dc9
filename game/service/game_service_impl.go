package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/session"
	"github.com/wricardo/gridquest/logging"
)

var ErrCellOutOfBounds = errors.New("cell out of bounds")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	log      logrus.FieldLogger
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, log logrus.FieldLogger) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      logging.Or(log).WithField("component", "service"),
	}
}

// CreateSession starts a game on the named map, or on the default map when
// mapName is empty. A map whose grid has no cells cannot be played.
func (s *gameServiceImpl) CreateSession(ctx context.Context, mapName string) (*SessionInfo, error) {
	errb := oops.In("service").With("map", mapName)

	var cfg *config.GameConfig
	if mapName == "" {
		cfg = s.configs.GetDefault()
	} else {
		var err error
		cfg, err = s.configs.LoadConfig(mapName)
		if errors.Is(err, config.ErrMapNotFound) {
			return nil, errb.Hint("available maps: " + strings.Join(s.mapIDs(), ", ")).
				Wrapf(err, "map %q", mapName)
		}
		if err != nil {
			return nil, errb.Wrapf(err, "load map %s", mapName)
		}
	}
	if cfg == nil {
		return nil, errb.Wrap(config.ErrMapNotFound)
	}

	sess, err := s.sessions.Create("", cfg)
	if err != nil {
		return nil, errb.Wrapf(err, "create session")
	}
	s.log.WithFields(logrus.Fields{"session": sess.ID, "map": cfg.Name}).Debug("session started")
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return oops.In("service").With("session", sessionID).Wrapf(err, "delete session")
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	res, err := sess.Move(direction)
	if err != nil {
		return nil, oops.In("service").With("session", sessionID, "direction", direction).Wrapf(err, "move")
	}
	return &MoveResult{Result: res, State: sess.State()}, nil
}

// BulkMove executes moves in order until one is blocked, the goal is
// reached or MaxBulkMoves have been made.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Success:        true,
		Steps:          []*session.Result{},
		StartPos:       sess.State().Player,
	}
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, oops.In("service").With("session", sessionID).Wrapf(err, "bulk move")
		}
		if sess.Won() {
			result.StopReasonCode = StopWon
			result.StoppedOnMove = i + 1
			break
		}

		res, err := sess.Move(move)
		if errors.Is(err, session.ErrInvalidDirection) {
			result.Success = false
			result.StopReasonCode = StopInvalidDirection
			result.StoppedOnMove = i + 1
			break
		}
		if err != nil {
			return nil, oops.In("service").With("session", sessionID, "move", i+1).Wrapf(err, "bulk move")
		}

		result.Steps = append(result.Steps, res)
		if !res.Moved {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StopReasonCode = StopBlockedEdge
			if len(res.Missing) > 0 {
				result.StopReasonCode = StopBlockedObstacle
			}
			break
		}
		result.MovesExecuted++
		if res.Picked != "" {
			result.Picked = append(result.Picked, res.Picked)
		}
	}

	result.State = sess.State()
	result.EndPos = result.State.Player
	result.Won = result.State.Won
	if result.Won && result.StopReasonCode == "" {
		result.StopReasonCode = StopWon
	}
	return result, nil
}

// SelectMenu passes a menu choice to the session's extensions.
func (s *gameServiceImpl) SelectMenu(ctx context.Context, sessionID, extension string) (*MoveResult, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	res, err := sess.SelectMenu(extension)
	if err != nil {
		return nil, oops.In("service").With("session", sessionID, "extension", extension).Wrapf(err, "select menu")
	}
	return &MoveResult{Result: res, State: sess.State()}, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*session.State, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(); err != nil {
		return nil, oops.In("service").With("session", sessionID).Wrapf(err, "reset")
	}
	return sess.State(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*session.State, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.State(), nil
}

// DescribeCell reports what the player knows about one cell.
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	cell, ok := sess.Describe(x, y)
	if !ok {
		return nil, oops.In("service").With("session", sessionID, "x", x, "y", y).Wrap(ErrCellOutOfBounds)
	}

	state := sess.State()
	info := &CellInfo{
		X:        x,
		Y:        y,
		Kind:     cell.Kind,
		Item:     cell.Item,
		Requires: cell.Requires,
		Player:   state.Player,
		Distance: engine.ManhattanDistance(state.Player, engine.Position{X: x, Y: y}),
	}
	for _, r := range cell.Requires {
		if state.Inventory[r] < 1 {
			info.Missing = append(info.Missing, r)
		}
	}
	info.Enterable = cell.Kind != engine.Fog && len(info.Missing) == 0
	return info, nil
}

// GetEventHistory returns paginated session events
func (s *gameServiceImpl) GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Events()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}
	if opts.Order == "desc" {
		slices.Reverse(history)
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	// Pages past the end are empty; the multiplication is only done for
	// pages that exist so a huge page number cannot overflow.
	start := total
	if opts.Page-1 < totalPages {
		start = min((opts.Page-1)*opts.Limit, total)
	}
	end := min(start+opts.Limit, total)

	return &HistoryResponse{
		Events:      append([]session.Event{}, history[start:end]...),
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListMaps returns the available maps
func (s *gameServiceImpl) ListMaps(ctx context.Context) ([]*config.Info, error) {
	infos, err := s.configs.ListConfigs()
	if err != nil {
		return nil, oops.In("service").Wrapf(err, "list maps")
	}
	return infos, nil
}

// LoadMap loads one map
func (s *gameServiceImpl) LoadMap(ctx context.Context, mapName string) (*config.GameConfig, error) {
	cfg, err := s.configs.LoadConfig(mapName)
	if err != nil {
		return nil, oops.In("service").With("map", mapName).Wrapf(err, "load map")
	}
	return cfg, nil
}

func (s *gameServiceImpl) get(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, oops.In("service").With("session", sessionID).Wrapf(err, "get session")
	}
	return sess, nil
}

func (s *gameServiceImpl) info(sess *session.Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		MapName:        sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		State:          sess.State(),
		Diagnostics:    sess.Config.Diagnostics,
	}
}

func (s *gameServiceImpl) mapIDs() []string {
	infos, err := s.configs.ListConfigs()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.MapID)
	}
	return ids
}
