package game

import (
	"bytes"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"checkers/internal/domain/checkers"
	"checkers/internal/domain/game"
	errs "checkers/internal/errors"
	"checkers/internal/httpresponse"
	"checkers/internal/render"
	gameuc "checkers/internal/usecase/game"
	"checkers/internal/utils"
)

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
	hub    *hub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		log:    log,
		gameUC: gameUC,
		hub:    newHub(log),
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", g.HandleNewGame)
		r.Route("/{gameKey}", func(r chi.Router) {
			r.Get("/", g.HandleGetGame)
			r.Post("/join", g.HandleJoinGame)
			r.Post("/moves", g.HandleMove)
			r.Post("/select", g.HandleSelect)
			r.Get("/board.txt", g.HandleBoardText)
			r.Get("/board.pdf", g.HandleBoardPDF)
			r.Get("/ws", g.HandleWatchGame)
		})
	})
}

// writeError maps usecase errors to HTTP statuses.
func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrNotInGame):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrGameFull), errors.Is(err, errs.ErrGameNotStarted):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrCellOutOfRange),
		errors.Is(err, errs.ErrCreateGameFailed),
		errors.Is(err, errs.ErrJoinGameFailed):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		g.log.Errorf("internal error: %v", err)
		httpresponse.WriteErrorResponse(w, status, errs.ErrInternal.Error())
		return
	}
	g.log.Infof("request rejected: %v", err)
	httpresponse.WriteErrorResponse(w, status, err.Error())
}

func (g *GameHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSONRequest(r, dst); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return false
	}
	return true
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if !g.decode(w, r, &req) {
		return
	}

	resp, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.log.Info("New Game Created with key: " + resp.GameKey)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req game.GameJoinRequest
	if !g.decode(w, r, &req) {
		return
	}

	play, err := g.gameUC.JoinGame(r.Context(), chi.URLParam(r, "gameKey"), req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, play)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	play, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "gameKey"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, play)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req game.MoveRequest
	if !g.decode(w, r, &req) {
		return
	}

	gameKey := chi.URLParam(r, "gameKey")
	result, err := g.gameUC.MakeMove(r.Context(), gameKey, req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.writeMoveResult(w, gameKey, result)
}

func (g *GameHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req game.SelectRequest
	if !g.decode(w, r, &req) {
		return
	}

	gameKey := chi.URLParam(r, "gameKey")
	result, err := g.gameUC.Select(r.Context(), gameKey, req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	if result.Move != nil && result.Move.Applied {
		g.hub.broadcast(gameKey, game.BoardUpdate{GameKey: gameKey, Move: *result.Move.Move, Board: result.Move.Board})
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

func (g *GameHandler) writeMoveResult(w http.ResponseWriter, gameKey string, result game.MoveResult) {
	if !result.Applied {
		httpresponse.WriteResponseWithStatus(w, http.StatusUnprocessableEntity, result)
		return
	}
	g.hub.broadcast(gameKey, game.BoardUpdate{GameKey: gameKey, Move: *result.Move, Board: result.Board})
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

func (g *GameHandler) loadBoard(w http.ResponseWriter, r *http.Request) (*checkers.Board, bool) {
	board, err := g.gameUC.GetBoard(r.Context(), chi.URLParam(r, "gameKey"))
	if err != nil {
		g.writeError(w, err)
		return nil, false
	}
	return board, true
}

func (g *GameHandler) HandleBoardText(w http.ResponseWriter, r *http.Request) {
	board, ok := g.loadBoard(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.Text(board)))
}

func (g *GameHandler) HandleBoardPDF(w http.ResponseWriter, r *http.Request) {
	board, ok := g.loadBoard(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.PDF(&buf, board, "Game "+chi.URLParam(r, "gameKey")); err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(buf.Bytes())
}

// HandleWatchGame streams a BoardUpdate for every move applied to the game.
// The current board is sent first.
func (g *GameHandler) HandleWatchGame(w http.ResponseWriter, r *http.Request) {
	gameKey := chi.URLParam(r, "gameKey")
	play, err := g.gameUC.GetGame(r.Context(), gameKey)
	if err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error: ", err)
		return
	}

	sub := g.hub.subscribe(gameKey, conn)
	defer g.hub.unsubscribe(gameKey, sub)

	if err = sub.write(game.BoardUpdate{GameKey: gameKey, Board: play.Board}); err != nil {
		g.log.Error("write error: ", err)
		return
	}

	// watchers only listen; reading detects the close
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			return
		}
	}
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

type hub struct {
	log  *zap.SugaredLogger
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func newHub(log *zap.SugaredLogger) *hub {
	return &hub{log: log, subs: make(map[string]map[*subscriber]struct{})}
}

func (h *hub) subscribe(gameKey string, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameKey] == nil {
		h.subs[gameKey] = make(map[*subscriber]struct{})
	}
	h.subs[gameKey][sub] = struct{}{}
	return sub
}

func (h *hub) unsubscribe(gameKey string, sub *subscriber) {
	h.mu.Lock()
	delete(h.subs[gameKey], sub)
	if len(h.subs[gameKey]) == 0 {
		delete(h.subs, gameKey)
	}
	h.mu.Unlock()
	_ = sub.conn.Close()
}

func (h *hub) broadcast(gameKey string, update game.BoardUpdate) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs[gameKey]))
	for sub := range h.subs[gameKey] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.write(update); err != nil {
			h.log.Error("write to watcher error: ", err)
			_ = sub.conn.Close()
		}
	}
}
