package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mcoot/gomoku-go/internal/dependencies/clock"
	"github.com/mcoot/gomoku-go/internal/dependencies/random"
	"github.com/mcoot/gomoku-go/internal/model"
	"github.com/mcoot/gomoku-go/internal/services/evalcache"
	"github.com/mcoot/gomoku-go/internal/services/evaluation"
	"github.com/mcoot/gomoku-go/internal/services/search"
	"github.com/mcoot/gomoku-go/internal/services/stats"
	"github.com/mcoot/gomoku-go/internal/storage"
)

// Config holds configuration for the match controller
type Config struct {
	// EngineCacheSize is how many live engines (one per engine-controlled side) are kept
	EngineCacheSize int
	// EvalCache sizes the evaluation cache owned by each engine
	EvalCache evalcache.Config
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		EngineCacheSize: 128,
		EvalCache:       evalcache.DefaultConfig(),
	}
}

// MatchOptions describes a match to create
type MatchOptions struct {
	Mode      model.MatchMode
	BoardSize int // 0 selects model.DefaultBoardSize

	// vs_ai: the owner's colour (Empty selects Black) and the engine's difficulty
	HumanSide  model.Stone
	Difficulty model.Difficulty

	// ai_battle: per-colour difficulties
	BlackDifficulty model.Difficulty
	WhiteDifficulty model.Difficulty
}

type engineKey struct {
	match model.MatchID
	side  model.Stone
}

// Controller runs matches: it validates and applies moves, drives the engines and
// records finished matches. Work on a single match is serialized.
type Controller struct {
	storage   storage.Storage
	stats     *stats.Service
	evaluator *evaluation.Evaluator
	publisher Publisher
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
	cfg       Config

	engines *lru.Cache[engineKey, *search.Engine]
	locks   *matchLocks
}

// NewController creates a new match Controller
func NewController(
	store storage.Storage,
	statsService *stats.Service,
	evaluator *evaluation.Evaluator,
	publisher Publisher,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) (*Controller, error) {
	if cfg.EngineCacheSize <= 0 {
		cfg.EngineCacheSize = DefaultConfig().EngineCacheSize
	}
	if cfg.EvalCache.Size <= 0 {
		cfg.EvalCache = evalcache.DefaultConfig()
	}
	engines, err := lru.New[engineKey, *search.Engine](cfg.EngineCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create engine registry: %w", err)
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &Controller{
		storage:   store,
		stats:     statsService,
		evaluator: evaluator,
		publisher: publisher,
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "match-controller")),
		cfg:       cfg,
		engines:   engines,
		locks:     newMatchLocks(),
	}, nil
}

// CreateMatch validates opts and starts a new match owned by owner.
// When the engine plays Black in a vs_ai match it opens immediately.
func (c *Controller) CreateMatch(ctx context.Context, owner model.PlayerID, opts MatchOptions) (*model.Match, error) {
	if opts.BoardSize == 0 {
		opts.BoardSize = model.DefaultBoardSize
	}
	if err := model.ValidateBoardSize(opts.BoardSize); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	m := &model.Match{
		ID:        model.MatchID(uuid.NewString()),
		OwnerID:   owner,
		Mode:      opts.Mode,
		BoardSize: opts.BoardSize,
		Moves:     []model.Move{},
		Outcome:   model.OutcomeInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch opts.Mode {
	case model.ModeTwoPlayer:
	case model.ModeVsAI:
		human := opts.HumanSide
		if human == model.Empty {
			human = model.Black
		}
		if !human.IsPlayer() {
			return nil, fmt.Errorf("%w: %d", model.ErrInvalidSide, human)
		}
		if !opts.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: %d", model.ErrUnknownDifficulty, opts.Difficulty)
		}
		m.SetSide(human.Opponent(), model.SideConfig{Engine: true, Difficulty: opts.Difficulty})
	case model.ModeAIBattle:
		if !opts.BlackDifficulty.Valid() || !opts.WhiteDifficulty.Valid() {
			return nil, model.ErrUnknownDifficulty
		}
		m.Black = model.SideConfig{Engine: true, Difficulty: opts.BlackDifficulty}
		m.White = model.SideConfig{Engine: true, Difficulty: opts.WhiteDifficulty}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMode, opts.Mode)
	}

	unlock := c.locks.lock(m.ID)
	defer unlock()

	var events []model.Event
	if m.Mode == model.ModeVsAI && m.IsEngine(model.Black) {
		board := model.NewBoard(m.BoardSize)
		ev, err := c.playEngineMove(m, board)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := c.commit(ctx, m, events); err != nil {
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(m.ID)),
		slog.String("player_id", string(owner)),
		slog.String("mode", string(m.Mode)),
		slog.Int("board_size", m.BoardSize),
	)
	return m, nil
}

// GetMatch retrieves a match by ID
func (c *Controller) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, id)
}

// PlaceStone plays a human move at pos. In vs_ai matches the engine replies within the same call.
func (c *Controller) PlaceStone(ctx context.Context, id model.MatchID, player model.PlayerID, pos model.Position) (*model.Match, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	m, err := c.loadPlayable(ctx, id, player)
	if err != nil {
		return nil, err
	}

	if m.IsEngine(m.NextPlayer()) {
		return nil, model.ErrNotYourTurn
	}

	board, err := m.Board()
	if err != nil {
		return nil, err
	}
	if !board.IsValidPosition(pos) {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidPosition, pos)
	}
	if !board.IsEmpty(pos) {
		return nil, fmt.Errorf("%w: %s", model.ErrCellOccupied, pos)
	}

	events := []model.Event{c.applyMove(m, board, pos, false, search.Stats{})}

	if !m.IsFinished() && m.Mode == model.ModeVsAI && m.IsEngine(board.CurrentPlayer()) {
		ev, err := c.playEngineMove(m, board)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := c.commit(ctx, m, events); err != nil {
		return nil, err
	}
	return m, nil
}

// PlayAIMove advances the match by one engine move for the engine-controlled side to move
func (c *Controller) PlayAIMove(ctx context.Context, id model.MatchID, player model.PlayerID) (*model.Match, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	m, err := c.loadPlayable(ctx, id, player)
	if err != nil {
		return nil, err
	}
	if !m.IsEngine(m.NextPlayer()) {
		return nil, model.ErrNoAIPlayer
	}

	board, err := m.Board()
	if err != nil {
		return nil, err
	}
	ev, err := c.playEngineMove(m, board)
	if err != nil {
		return nil, err
	}

	if err := c.commit(ctx, m, []model.Event{ev}); err != nil {
		return nil, err
	}
	return m, nil
}

// SuggestMove returns the move a strong engine would play for the side to move, without playing it
func (c *Controller) SuggestMove(ctx context.Context, id model.MatchID, player model.PlayerID) (model.Position, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	m, err := c.loadPlayable(ctx, id, player)
	if err != nil {
		return model.Position{}, err
	}
	board, err := m.Board()
	if err != nil {
		return model.Position{}, err
	}

	advisor := search.NewEngine(board.CurrentPlayer(), model.DifficultyExpert, c.evaluator, nil, c.clock, c.random, c.logger)
	profile := model.DifficultyExpert.Profile()
	profile.RandomFactor = 0
	advisor.SetProfile(profile)

	pos, ok := advisor.ChooseMove(board)
	if !ok {
		return model.Position{}, model.ErrNoMovesAvailable
	}
	return pos, nil
}

// SetDifficulty changes the difficulty of an engine-controlled side
func (c *Controller) SetDifficulty(ctx context.Context, id model.MatchID, player model.PlayerID, side model.Stone, d model.Difficulty) (*model.Match, error) {
	if !side.IsPlayer() {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidSide, side)
	}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownDifficulty, d)
	}

	unlock := c.locks.lock(id)
	defer unlock()

	m, err := c.loadPlayable(ctx, id, player)
	if err != nil {
		return nil, err
	}
	if !m.IsEngine(side) {
		return nil, model.ErrNoAIPlayer
	}

	m.SetSide(side, model.SideConfig{Engine: true, Difficulty: d})
	m.UpdatedAt = c.clock.Now()
	if engine, ok := c.engines.Peek(engineKey{match: id, side: side}); ok {
		engine.SetDifficulty(d)
	}

	ev := c.event(m, model.EventDifficultyChanged, model.DifficultyChangedPayload{Side: side, Difficulty: d})
	if err := c.commit(ctx, m, []model.Event{ev}); err != nil {
		return nil, err
	}

	c.logger.Info("difficulty changed",
		slog.String("match_id", string(id)),
		slog.String("side", side.String()),
		slog.String("difficulty", d.String()),
	)
	return m, nil
}

// Resign ends the match in the opponent's favour. In vs_ai matches the owner's colour resigns;
// otherwise the side to move does.
func (c *Controller) Resign(ctx context.Context, id model.MatchID, player model.PlayerID) (*model.Match, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	m, err := c.loadPlayable(ctx, id, player)
	if err != nil {
		return nil, err
	}

	loser := m.NextPlayer()
	if m.Mode == model.ModeVsAI {
		loser = m.HumanSide()
	}

	now := c.clock.Now()
	m.Outcome = model.OutcomeWon
	m.Winner = loser.Opponent()
	m.Resigned = true
	m.UpdatedAt = now
	m.FinishedAt = &now

	if err := c.commit(ctx, m, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// LastSearch returns the statistics of the most recent move by the engine playing side
func (c *Controller) LastSearch(id model.MatchID, side model.Stone) (search.Stats, bool) {
	engine, ok := c.engines.Peek(engineKey{match: id, side: side})
	if !ok {
		return search.Stats{}, false
	}
	return engine.LastSearch(), true
}

// loadPlayable fetches a match the player owns and that is still in progress
func (c *Controller) loadPlayable(ctx context.Context, id model.MatchID, player model.PlayerID) (*model.Match, error) {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != player {
		return nil, model.ErrNotMatchOwner
	}
	if m.IsFinished() {
		return nil, model.ErrMatchFinished
	}
	return m, nil
}

// applyMove places the side-to-move's stone on board and records it in m
func (c *Controller) applyMove(m *model.Match, board *model.Board, pos model.Position, byEngine bool, think search.Stats) model.Event {
	now := c.clock.Now()
	mv := model.Move{
		Number:   len(m.Moves) + 1,
		Player:   board.CurrentPlayer(),
		Position: pos,
		PlayedAt: now,
		ByEngine: byEngine,
	}
	if byEngine {
		mv.ThinkTime = think.Duration
	}
	board.Place(pos.Row, pos.Col)
	m.Moves = append(m.Moves, mv)
	m.UpdatedAt = now

	next := board.CurrentPlayer()
	if over, winner := board.Status(); over {
		m.Outcome = board.Outcome()
		m.Winner = winner
		m.FinishedAt = &now
		next = model.Empty
	}
	return c.event(m, model.EventMovePlayed, model.MovePlayedPayload{Move: mv, NextPlayer: next})
}

// playEngineMove lets the engine for the side to move choose and play a move
func (c *Controller) playEngineMove(m *model.Match, board *model.Board) (model.Event, error) {
	side := board.CurrentPlayer()
	engine := c.engine(m.ID, side, m.Side(side).Difficulty)

	pos, ok := engine.ChooseMove(board)
	if !ok {
		return model.Event{}, model.ErrNoMovesAvailable
	}
	last := engine.LastSearch()

	c.logger.Debug("engine moved",
		slog.String("match_id", string(m.ID)),
		slog.String("side", side.String()),
		slog.String("difficulty", engine.Difficulty().String()),
		slog.String("mode", string(last.Mode)),
		slog.Int("nodes", last.Nodes),
		slog.Duration("duration", last.Duration),
	)
	return c.applyMove(m, board, pos, true, last), nil
}

// engine returns the live engine for one side of a match, creating it on first use
func (c *Controller) engine(id model.MatchID, side model.Stone, d model.Difficulty) *search.Engine {
	key := engineKey{match: id, side: side}
	if engine, ok := c.engines.Get(key); ok {
		if engine.Difficulty() != d {
			engine.SetDifficulty(d)
		}
		return engine
	}

	cache, err := evalcache.New(c.cfg.EvalCache)
	if err != nil {
		// Only reachable with a non-positive size, which NewController rules out
		c.logger.Error("evaluation cache disabled", slog.Any("error", err))
		cache = nil
	}
	engine := search.NewEngine(side, d, c.evaluator, cache, c.clock, c.random, c.logger)
	c.engines.Add(key, engine)
	return engine
}

// commit persists m, records finished matches and then publishes events
func (c *Controller) commit(ctx context.Context, m *model.Match, events []model.Event) error {
	if err := c.storage.SaveMatch(ctx, m); err != nil {
		c.logger.Error("failed to save match",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	if m.IsFinished() {
		events = append(events, c.event(m, model.EventMatchFinished, model.MatchFinishedPayload{
			Outcome:  m.Outcome,
			Winner:   m.Winner,
			Resigned: m.Resigned,
			Moves:    len(m.Moves),
		}))
		c.engines.Remove(engineKey{match: m.ID, side: model.Black})
		c.engines.Remove(engineKey{match: m.ID, side: model.White})

		if err := c.stats.Record(ctx, m); err != nil {
			c.logger.Error("failed to record stats",
				slog.String("match_id", string(m.ID)),
				slog.String("error", err.Error()),
			)
		}

		c.logger.Info("match finished",
			slog.String("match_id", string(m.ID)),
			slog.String("outcome", string(m.Outcome)),
			slog.String("winner", m.Winner.String()),
			slog.Bool("resigned", m.Resigned),
			slog.Int("moves", len(m.Moves)),
		)
	}

	for _, ev := range events {
		c.publisher.Publish(ev)
	}
	return nil
}

func (c *Controller) event(m *model.Match, t model.EventType, payload any) model.Event {
	return model.Event{
		Type:      t,
		MatchID:   m.ID,
		Timestamp: c.clock.Now(),
		Payload:   payload,
	}
}

// ControllerInterface is the match operations surface used by the API
type ControllerInterface interface {
	CreateMatch(ctx context.Context, owner model.PlayerID, opts MatchOptions) (*model.Match, error)
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	PlaceStone(ctx context.Context, id model.MatchID, player model.PlayerID, pos model.Position) (*model.Match, error)
	PlayAIMove(ctx context.Context, id model.MatchID, player model.PlayerID) (*model.Match, error)
	SuggestMove(ctx context.Context, id model.MatchID, player model.PlayerID) (model.Position, error)
	SetDifficulty(ctx context.Context, id model.MatchID, player model.PlayerID, side model.Stone, d model.Difficulty) (*model.Match, error)
	Resign(ctx context.Context, id model.MatchID, player model.PlayerID) (*model.Match, error)
}

var _ ControllerInterface = (*Controller)(nil)
