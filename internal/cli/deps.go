package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"quiz-arena/internal/app"
	"quiz-arena/internal/config"
	"quiz-arena/internal/infra/file"
	"quiz-arena/internal/infra/memory"
	pgstore "quiz-arena/internal/infra/postgres"
	redisstore "quiz-arena/internal/infra/redis"
	"quiz-arena/internal/infra/schema"
)

// loadConfig reads the config file. A missing file at the default location
// falls back to the built-in defaults so the game runs out of the box.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
		return cfg, nil
	}
	return cfg, err
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// deps holds the backends a command opened; close releases them.
type deps struct {
	cfg    config.Config
	log    *slog.Logger
	redis  *redis.Client
	pool   *pgxpool.Pool
	source app.QuestionSource
}

func (d *deps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// openDeps connects the backends the config asks for. Redis is opened when
// an address is set, Postgres when a URL is set. Questions are loaded
// separately by the commands that play.
func openDeps(ctx context.Context, cfg config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{cfg: cfg, log: log}
	var err error
	if cfg.Redis.Addr != "" {
		d.redis, err = redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Postgres.URL != "" {
		d.pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	}
	return d, nil
}

// loadQuestions sets up the question source: Postgres when configured, the
// YAML bank otherwise, behind a Redis or in-process cache.
func (d *deps) loadQuestions() error {
	source, err := d.questionSource()
	if err != nil {
		return err
	}
	d.source = source
	return nil
}

func (d *deps) questionSource() (app.QuestionSource, error) {
	var loader memory.QuestionLoader
	if d.pool != nil {
		loader = pgstore.NewQuestionLoader(d.pool)
	} else {
		validator, err := schema.New()
		if err != nil {
			return nil, err
		}
		sets, err := file.LoadQuestionBank(d.cfg.Questions.Bank, validator, d.log)
		if err != nil {
			return nil, err
		}
		loader = memory.NewStaticQuestionLoader(sets)
	}

	ttl := config.Duration(d.cfg.Questions.TTL, defaultTTL)
	if d.redis != nil {
		return redisstore.NewQuestionRepository(d.redis, loader, ttl, d.log), nil
	}
	return memory.NewQuestionRepository(loader, ttl), nil
}

// openPrefs opens the prefs of one profile in the configured store engine.
func (d *deps) openPrefs(ctx context.Context, profileID string) (app.PrefsStore, error) {
	switch d.cfg.Store.Engine {
	case config.EngineRedis:
		prefs := redisstore.NewPrefsStore(d.redis, profileID)
		if err := prefs.Load(ctx); err != nil {
			return nil, err
		}
		return prefs, nil
	case config.EngineFile:
		if err := os.MkdirAll(d.cfg.Store.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return file.OpenPrefsStore(file.ProfilePath(d.cfg.Store.Dir, profileID))
	default:
		return memory.NewPrefsStore(), nil
	}
}

func (d *deps) builder() app.ProfileBuilder {
	return app.ProfileBuilder{
		Rules:           d.cfg.Rules(),
		Source:          d.source,
		HistoryCapacity: d.cfg.Game.HistoryCapacity,
		Logger:          d.log,
	}
}

// profiles returns the profile repository the server hands out games from.
func (d *deps) profiles(ctx context.Context) app.ProfileRepository {
	if d.cfg.Store.Engine == config.EngineRedis {
		return redisstore.NewProfileStore(d.redis, d.builder(), config.Duration(d.cfg.Redis.TTL, defaultTTL))
	}
	if d.cfg.Store.Engine == config.EngineMemory {
		return memory.NewProfileStore(d.builder(), nil)
	}
	return memory.NewProfileStore(d.builder(), func(id string) (app.PrefsStore, error) {
		return d.openPrefs(ctx, id)
	})
}

// game builds a standalone game for one profile, for commands that run
// outside the server.
func (d *deps) game(ctx context.Context, profileID string) (*app.Game, error) {
	prefs, err := d.openPrefs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	log := d.log.With("profile", profileID)
	history := app.NewHistoryStore(prefs, d.cfg.Game.HistoryCapacity, log)
	return app.NewGame(d.cfg.Rules(), d.source, prefs, history, app.WithLogger(log)), nil
}
