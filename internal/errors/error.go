package errors

import "errors"

var (
	ErrParse            = errors.New("unrecognized piece label")
	ErrCellOutOfRange   = errors.New("cell out of range")
	ErrGameNotFound     = errors.New("game not found")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrJoinGameFailed   = errors.New("join game failed")
	ErrGameFull         = errors.New("game already has two players")
	ErrBoardNotFound    = errors.New("board state not found")
	ErrInvalidMove      = errors.New("invalid move")
	ErrInternal         = errors.New("internal error")
)

var (
	ErrNotInGame      = errors.New("player is not in this game")
	ErrGameNotStarted = errors.New("game has not started yet")
)
