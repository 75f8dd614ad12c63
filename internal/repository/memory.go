package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"checkers/internal/domain/checkers"
	"checkers/internal/domain/game"
	errs "checkers/internal/errors"
)

// MemoryGameStorage is an in-process game and selection store, used with
// STORE_DRIVER=memory and in tests. Selections do not expire.
type MemoryGameStorage struct {
	mu         sync.RWMutex
	games      map[string]game.Game
	boards     map[string]*checkers.Board
	selections map[string]checkers.Square
}

func NewMemoryGameStorage() *MemoryGameStorage {
	return &MemoryGameStorage{
		games:      make(map[string]game.Game),
		boards:     make(map[string]*checkers.Board),
		selections: make(map[string]checkers.Square),
	}
}

func (m *MemoryGameStorage) GenerateGameKey(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key := uuid.NewString()
		if _, ok := m.games[key]; !ok {
			return key, nil
		}
	}
}

func (m *MemoryGameStorage) PutGame(ctx context.Context, gameData game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[gameData.GameKey]; ok {
		return errs.ErrCreateGameFailed
	}
	m.games[gameData.GameKey] = gameData
	return nil
}

func (m *MemoryGameStorage) GetGameByKey(ctx context.Context, gameKey string) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	play, ok := m.games[gameKey]
	if !ok {
		return game.Game{}, errs.ErrGameNotFound
	}
	play.Moves = append([]game.Move(nil), play.Moves...)
	return play, nil
}

func (m *MemoryGameStorage) SetPlayer(ctx context.Context, gameKey string, color checkers.Color, playerID string, startedAt time.Time) (game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	play, ok := m.games[gameKey]
	if !ok {
		return game.Game{}, errs.ErrGameNotFound
	}

	slot := &play.PlayerWhite
	if color == checkers.Black {
		slot = &play.PlayerBlack
	}
	if *slot != "" {
		return game.Game{}, errs.ErrGameFull
	}
	*slot = playerID
	play.Status = game.StatusActive
	play.StartedAt = &startedAt

	m.games[gameKey] = play
	return play, nil
}

func (m *MemoryGameStorage) AppendMove(ctx context.Context, gameKey string, move game.Move, board [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	play, ok := m.games[gameKey]
	if !ok {
		return errs.ErrGameNotFound
	}
	play.Moves = append(play.Moves, move)
	play.Board = board
	m.games[gameKey] = play
	return nil
}

func (m *MemoryGameStorage) SaveBoard(ctx context.Context, gameKey string, board *checkers.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[gameKey] = board.Clone()
	return nil
}

func (m *MemoryGameStorage) LoadBoard(ctx context.Context, gameKey string) (*checkers.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	board, ok := m.boards[gameKey]
	if !ok {
		return nil, errs.ErrBoardNotFound
	}
	return board.Clone(), nil
}

// DropBoard forgets the live board, as an expired cache entry would.
func (m *MemoryGameStorage) DropBoard(gameKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boards, gameKey)
}

func (m *MemoryGameStorage) SaveSelection(ctx context.Context, gameKey, playerID string, sq checkers.Square) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[selectionKey(gameKey, playerID)] = sq
	return nil
}

func (m *MemoryGameStorage) LoadSelection(ctx context.Context, gameKey, playerID string) (checkers.Square, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sq, ok := m.selections[selectionKey(gameKey, playerID)]
	return sq, ok, nil
}

func (m *MemoryGameStorage) ClearSelection(ctx context.Context, gameKey, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selections, selectionKey(gameKey, playerID))
	return nil
}
