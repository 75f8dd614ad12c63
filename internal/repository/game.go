package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"checkers/internal/bootstrap"
	"checkers/internal/domain/checkers"
	"checkers/internal/domain/game"
	errs "checkers/internal/errors"
)

const gamesCollection = "games"

// GameRepository keeps game documents in MongoDB and the live board of every
// game in Redis.
type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func boardKey(gameKey string) string {
	return "board:" + gameKey
}

func (g *GameRepository) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := g.cfg.QueryTimeout
	if d <= 0 {
		d = 5 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// maxKeyAttempts bounds key generation when every candidate collides.
const maxKeyAttempts = 8

func (g *GameRepository) GenerateGameKey(ctx context.Context) (string, error) {
	for i := 0; i < maxKeyAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key := uuid.NewString()
		uniq, err := g.checkGameKeyIsUniq(ctx, key)
		if err != nil {
			g.log.Errorf("failed to check game key: %v", err)
			return "", fmt.Errorf("check game key: %w", err)
		}
		if uniq {
			return key, nil
		}
	}
	return "", fmt.Errorf("no free game key after %d attempts", maxKeyAttempts)
}

func (g *GameRepository) checkGameKeyIsUniq(ctx context.Context, gameKey string) (bool, error) {
	ctx, cancel := g.timeout(ctx)
	defer cancel()
	err := g.mongo.Collection(gamesCollection).FindOne(ctx, bson.M{"game_key": gameKey}).Err()
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return true, nil
	default:
		return false, err
	}
}

func (g *GameRepository) PutGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	_, err := g.mongo.Collection(gamesCollection).InsertOne(ctx, gameData)
	if err != nil {
		g.log.Errorf("failed to insert game to database: %v", err)
		return fmt.Errorf("%w: %v", errs.ErrCreateGameFailed, err)
	}

	g.log.Infof("game inserted successfully with key: %s", gameData.GameKey)
	return nil
}

func (g *GameRepository) GetGameByKey(ctx context.Context, gameKey string) (game.Game, error) {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	var result game.Game
	err := g.mongo.Collection(gamesCollection).FindOne(ctx, bson.M{"game_key": gameKey}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errs.ErrGameNotFound
	}
	if err != nil {
		g.log.Errorf("failed to load game %s: %v", gameKey, err)
		return game.Game{}, err
	}
	return result, nil
}

// SetPlayer seats playerID on the free side and starts the game.
func (g *GameRepository) SetPlayer(ctx context.Context, gameKey string, color checkers.Color, playerID string, startedAt time.Time) (game.Game, error) {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	field := "player_white"
	if color == checkers.Black {
		field = "player_black"
	}

	filter := bson.M{"game_key": gameKey, field: ""}
	update := bson.M{
		"$set": bson.M{
			field:        playerID,
			"status":     game.StatusActive,
			"started_at": startedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated game.Game
	err := g.mongo.Collection(gamesCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errs.ErrGameFull
	}
	if err != nil {
		g.log.Errorf("failed to update game %s: %v", gameKey, err)
		return game.Game{}, fmt.Errorf("%w: %v", errs.ErrJoinGameFailed, err)
	}

	g.log.Infof("player %s (%s) joined game %s", playerID, color, gameKey)
	return updated, nil
}

// AppendMove records the move and the resulting board snapshot.
func (g *GameRepository) AppendMove(ctx context.Context, gameKey string, move game.Move, board [][]string) error {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"moves": move},
		"$set":  bson.M{"board": board},
	}
	res, err := g.mongo.Collection(gamesCollection).UpdateOne(ctx, bson.M{"game_key": gameKey}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrGameNotFound
	}
	return nil
}

func (g *GameRepository) SaveBoard(ctx context.Context, gameKey string, board *checkers.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return g.redis.Set(ctx, boardKey(gameKey), data, 0).Err()
}

func (g *GameRepository) LoadBoard(ctx context.Context, gameKey string) (*checkers.Board, error) {
	data, err := g.redis.Get(ctx, boardKey(gameKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}

	board := &checkers.Board{}
	if err = json.Unmarshal(data, board); err != nil {
		return nil, fmt.Errorf("corrupt board state for game %s: %w", gameKey, err)
	}
	return board, nil
}
