package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"checkers/internal/domain/checkers"
	"checkers/internal/domain/game"
	errs "checkers/internal/errors"
)

type GameStore interface {
	GenerateGameKey(ctx context.Context) (string, error)
	PutGame(ctx context.Context, gameData game.Game) error
	GetGameByKey(ctx context.Context, gameKey string) (game.Game, error)
	SetPlayer(ctx context.Context, gameKey string, color checkers.Color, playerID string, startedAt time.Time) (game.Game, error)
	AppendMove(ctx context.Context, gameKey string, move game.Move, board [][]string) error
	SaveBoard(ctx context.Context, gameKey string, board *checkers.Board) error
	LoadBoard(ctx context.Context, gameKey string) (*checkers.Board, error)
}

type SelectionStore interface {
	SaveSelection(ctx context.Context, gameKey, playerID string, sq checkers.Square) error
	LoadSelection(ctx context.Context, gameKey, playerID string) (checkers.Square, bool, error)
	ClearSelection(ctx context.Context, gameKey, playerID string) error
}

const ReasonNotOwnPiece = "not_own_piece"

var reasonMessages = map[checkers.Reason]string{
	checkers.FromEmpty:       "There is no piece on that cell.",
	checkers.ToOccupied:      "The target cell is already occupied.",
	checkers.InvalidDistance: "This piece cannot move that far or in that direction.",
	checkers.InvalidVictim:   "You cannot jump over your own piece.",
}

// ReasonMessage is the user-facing text for a rejected move.
func ReasonMessage(r checkers.Reason) string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return "This move is not allowed."
}

type GameUseCase struct {
	store      GameStore
	selections SelectionStore
	log        *zap.SugaredLogger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameUseCase(store GameStore, selections SelectionStore, log *zap.SugaredLogger) *GameUseCase {
	return &GameUseCase{
		store:      store,
		selections: selections,
		log:        log,
		now:        time.Now,
		locks:      make(map[string]*gameLock),
	}
}

// lock serializes board mutations of a single game within this process.
// The entry is dropped once no caller holds or waits for it.
func (g *GameUseCase) lock(gameKey string) func() {
	g.mu.Lock()
	l, ok := g.locks[gameKey]
	if !ok {
		l = &gameLock{}
		g.locks[gameKey] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, gameKey)
		}
		g.mu.Unlock()
	}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.GameCreateResponse, error) {
	if req.PlayerID == "" {
		return game.GameCreateResponse{}, fmt.Errorf("%w: player_id is required", errs.ErrCreateGameFailed)
	}
	color := checkers.White
	if req.Color != "" {
		c, err := checkers.ParseColor(req.Color)
		if err != nil {
			return game.GameCreateResponse{}, fmt.Errorf("%w: %v", errs.ErrCreateGameFailed, err)
		}
		color = c
	}

	gameKey, err := g.store.GenerateGameKey(ctx)
	if err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("generate game key: %w", err)
	}

	board := checkers.NewBoard()
	newGame := game.Game{
		GameKey:   gameKey,
		Status:    game.StatusWaitOpponent,
		CreatedAt: g.now(),
		Board:     board.Labels(),
		Moves:     []game.Move{},
	}
	if color == checkers.White {
		newGame.PlayerWhite = req.PlayerID
	} else {
		newGame.PlayerBlack = req.PlayerID
	}

	if err := g.store.PutGame(ctx, newGame); err != nil {
		return game.GameCreateResponse{}, err
	}
	if err := g.store.SaveBoard(ctx, newGame.GameKey, board); err != nil {
		return game.GameCreateResponse{}, fmt.Errorf("save board: %w", err)
	}

	g.log.Infof("game %s created by %s playing %s", newGame.GameKey, req.PlayerID, color)
	return game.GameCreateResponse{GameKey: newGame.GameKey, Color: color.String()}, nil
}

func (g *GameUseCase) JoinGame(ctx context.Context, gameKey string, req game.GameJoinRequest) (game.Game, error) {
	if req.PlayerID == "" {
		return game.Game{}, fmt.Errorf("%w: player_id is required", errs.ErrJoinGameFailed)
	}
	play, err := g.store.GetGameByKey(ctx, gameKey)
	if err != nil {
		return game.Game{}, err
	}
	if _, ok := play.ColorOf(req.PlayerID); ok {
		return play, nil
	}

	var color checkers.Color
	switch {
	case play.PlayerWhite == "":
		color = checkers.White
	case play.PlayerBlack == "":
		color = checkers.Black
	default:
		return game.Game{}, errs.ErrGameFull
	}

	return g.store.SetPlayer(ctx, gameKey, color, req.PlayerID, g.now())
}

// GetGame returns the game with its current board.
func (g *GameUseCase) GetGame(ctx context.Context, gameKey string) (game.Game, error) {
	play, err := g.store.GetGameByKey(ctx, gameKey)
	if err != nil {
		return game.Game{}, err
	}
	board, err := g.loadBoard(ctx, play)
	if err != nil {
		return game.Game{}, err
	}
	play.Board = board.Labels()
	return play, nil
}

// GetBoard returns the current board of a game.
func (g *GameUseCase) GetBoard(ctx context.Context, gameKey string) (*checkers.Board, error) {
	play, err := g.store.GetGameByKey(ctx, gameKey)
	if err != nil {
		return nil, err
	}
	return g.loadBoard(ctx, play)
}

// loadBoard reads the live board, falling back to the snapshot on the game
// document when the live copy is gone.
func (g *GameUseCase) loadBoard(ctx context.Context, play game.Game) (*checkers.Board, error) {
	board, err := g.store.LoadBoard(ctx, play.GameKey)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, errs.ErrBoardNotFound) {
		return nil, err
	}

	g.log.Infof("restoring board of game %s from snapshot", play.GameKey)
	if play.Board == nil {
		board = checkers.NewBoard()
	} else if board, err = checkers.DecodeBoard(play.Board); err != nil {
		return nil, fmt.Errorf("game %s: %w", play.GameKey, err)
	}
	if err = g.store.SaveBoard(ctx, play.GameKey, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (g *GameUseCase) activeGame(ctx context.Context, gameKey, playerID string) (game.Game, checkers.Color, error) {
	play, err := g.store.GetGameByKey(ctx, gameKey)
	if err != nil {
		return game.Game{}, checkers.White, err
	}
	color, ok := play.ColorOf(playerID)
	if !ok {
		return game.Game{}, checkers.White, errs.ErrNotInGame
	}
	if play.Status != game.StatusActive {
		return game.Game{}, checkers.White, errs.ErrGameNotStarted
	}
	return play, color, nil
}

// MakeMove validates a single hop and applies it. Rejected moves are reported
// in the result; errors are reserved for bad coordinates and storage failures.
func (g *GameUseCase) MakeMove(ctx context.Context, gameKey string, req game.MoveRequest) (game.MoveResult, error) {
	unlock := g.lock(gameKey)
	defer unlock()

	play, color, err := g.activeGame(ctx, gameKey, req.PlayerID)
	if err != nil {
		return game.MoveResult{}, err
	}
	board, err := g.loadBoard(ctx, play)
	if err != nil {
		return game.MoveResult{}, err
	}

	from := checkers.Square{Row: req.FromRow, Col: req.FromCol}
	to := checkers.Square{Row: req.ToRow, Col: req.ToCol}
	return g.applyMove(ctx, play, color, req.PlayerID, board, from, to)
}

func (g *GameUseCase) applyMove(ctx context.Context, play game.Game, color checkers.Color, playerID string, board *checkers.Board, from, to checkers.Square) (game.MoveResult, error) {
	piece, err := board.Piece(from.Row, from.Col)
	if err != nil {
		return game.MoveResult{}, err
	}
	if !piece.IsEmpty() && !piece.IsOwnPiece(color) {
		return game.MoveResult{
			Reason:  ReasonNotOwnPiece,
			Message: "You can only move your own pieces.",
			Board:   board.Labels(),
		}, nil
	}

	info, err := board.MoveInfo(from.Row, from.Col, to.Row, to.Col)
	if err != nil {
		return game.MoveResult{}, err
	}
	if !info.IsValid() {
		return game.MoveResult{
			Reason:  info.Reason.String(),
			Message: ReasonMessage(info.Reason),
			Board:   board.Labels(),
		}, nil
	}

	before := board.Clone()
	if err = board.Apply(from.Row, from.Col, to.Row, to.Col, info); err != nil {
		return game.MoveResult{}, err
	}

	move := game.Move{
		PlayerID: playerID,
		From:     from,
		To:       to,
		Kind:     info.Kind.String(),
		At:       g.now(),
	}
	if info.Kind == checkers.Capture {
		victim := info.Victim
		move.Victim = &victim
	}
	if !piece.IsCrowned() && to.Row == promotionRow(color) {
		if err = board.SetPiece(to.Row, to.Col, piece.Crowned()); err != nil {
			return game.MoveResult{}, err
		}
		move.Promoted = true
	}

	labels := board.Labels()
	if err = g.store.SaveBoard(ctx, play.GameKey, board); err != nil {
		return game.MoveResult{}, fmt.Errorf("save board: %w", err)
	}
	if err = g.store.AppendMove(ctx, play.GameKey, move, labels); err != nil {
		// the live board must not run ahead of the recorded moves
		if restoreErr := g.store.SaveBoard(ctx, play.GameKey, before); restoreErr != nil {
			g.log.Errorf("game %s: failed to restore board: %v", play.GameKey, restoreErr)
		}
		return game.MoveResult{}, fmt.Errorf("record move: %w", err)
	}

	g.log.Infof("game %s: %s %s (%d,%d)->(%d,%d)", play.GameKey, playerID, move.Kind, from.Row, from.Col, to.Row, to.Col)
	return game.MoveResult{Applied: true, Move: &move, Board: labels}, nil
}

// promotionRow is the far row where an uncrowned piece of color c is crowned.
func promotionRow(c checkers.Color) int {
	if c == checkers.White {
		return 0
	}
	return checkers.Size - 1
}

// Select handles a tap on a cell: the first tap picks one of the player's
// pieces, the next tap on an empty cell tries to move it there. Tapping the
// selected piece again clears the selection; tapping another own piece
// selects that one instead.
func (g *GameUseCase) Select(ctx context.Context, gameKey string, req game.SelectRequest) (game.SelectResult, error) {
	unlock := g.lock(gameKey)
	defer unlock()

	play, color, err := g.activeGame(ctx, gameKey, req.PlayerID)
	if err != nil {
		return game.SelectResult{}, err
	}
	board, err := g.loadBoard(ctx, play)
	if err != nil {
		return game.SelectResult{}, err
	}

	tapped := checkers.Square{Row: req.Row, Col: req.Col}
	piece, err := board.Piece(tapped.Row, tapped.Col)
	if err != nil {
		return game.SelectResult{}, err
	}

	selected, ok, err := g.selections.LoadSelection(ctx, gameKey, req.PlayerID)
	if err != nil {
		return game.SelectResult{}, err
	}

	switch {
	case ok && selected == tapped:
		if err = g.selections.ClearSelection(ctx, gameKey, req.PlayerID); err != nil {
			return game.SelectResult{}, err
		}
		return game.SelectResult{Message: "Selection cleared."}, nil

	case piece.IsOwnPiece(color):
		if err = g.selections.SaveSelection(ctx, gameKey, req.PlayerID, tapped); err != nil {
			return game.SelectResult{}, err
		}
		return game.SelectResult{Selected: &tapped, Message: "Piece selected, now choose where to move it."}, nil

	case !ok:
		return game.SelectResult{Message: "Select one of your pieces first."}, nil
	}

	if err = g.selections.ClearSelection(ctx, gameKey, req.PlayerID); err != nil {
		return game.SelectResult{}, err
	}
	result, err := g.applyMove(ctx, play, color, req.PlayerID, board, selected, tapped)
	if err != nil {
		return game.SelectResult{}, err
	}
	return game.SelectResult{Message: result.Message, Move: &result}, nil
}
