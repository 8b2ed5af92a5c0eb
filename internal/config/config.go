package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"quiz-arena/internal/app"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		Bank string `yaml:"bank"`
		TTL  string `yaml:"ttl"`
	} `yaml:"questions"`
	Store struct {
		Engine  string `yaml:"engine"`
		Dir     string `yaml:"dir"`
		Profile string `yaml:"profile"`
	} `yaml:"store"`
	Game Game `yaml:"game"`
}

// Game holds the tunables of every mode.
type Game struct {
	AnswerDelay     string   `yaml:"answer_delay"`
	TickInterval    string   `yaml:"tick_interval"`
	HistoryCapacity int      `yaml:"history_capacity"`
	Classic         Tier     `yaml:"classic"`
	TimeAttack      Tier     `yaml:"time_attack"`
	BossRush        BossRush `yaml:"boss_rush"`
}

type Tier struct {
	PointsPerCorrect int    `yaml:"points_per_correct"`
	PenaltyPerWrong  int    `yaml:"penalty_per_wrong"`
	PassThreshold    int    `yaml:"pass_threshold"`
	PlayerHealth     int    `yaml:"player_health"`
	TimeLimit        string `yaml:"time_limit"`
	TimeUpEndsRun    bool   `yaml:"time_up_ends_run"`
}

type BossRush struct {
	PointsPerCorrect int     `yaml:"points_per_correct"`
	PenaltyPerWrong  int     `yaml:"penalty_per_wrong"`
	Stages           []Stage `yaml:"stages"`
}

type Stage struct {
	PlayerHealth int `yaml:"player_health"`
	EnemyHealth  int `yaml:"enemy_health"`
}

// Store engines.
const (
	EngineMemory = "memory"
	EngineFile   = "file"
	EngineRedis  = "redis"
)

// Defaults returns a config that plays exactly like the shipped game.
func Defaults() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Redis.TTL = "10m"
	cfg.Questions.Bank = "config/questions.yaml"
	cfg.Questions.TTL = "10m"
	cfg.Store.Engine = EngineFile
	cfg.Store.Dir = ".quiz-arena"
	cfg.Store.Profile = "default"

	rules := app.DefaultRules()
	cfg.Game = Game{
		AnswerDelay:     rules.AnswerDelay.String(),
		TickInterval:    rules.TickInterval.String(),
		HistoryCapacity: app.DefaultHistoryCapacity,
		Classic:         tierFromRules(rules.Classic),
		TimeAttack:      tierFromRules(rules.TimeAttack),
		BossRush: BossRush{
			PointsPerCorrect: rules.BossRush.PointsPerCorrect,
			PenaltyPerWrong:  rules.BossRush.PenaltyPerWrong,
		},
	}
	for _, s := range rules.BossRush.Stages {
		cfg.Game.BossRush.Stages = append(cfg.Game.BossRush.Stages, Stage{PlayerHealth: s.PlayerHealth, EnemyHealth: s.EnemyHealth})
	}
	return cfg
}

// Load reads YAML config from path on top of Defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports values the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Engine {
	case EngineMemory, EngineFile:
	case EngineRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("store.engine redis needs redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.engine %q", c.Store.Engine))
	}
	for _, raw := range []string{c.Game.AnswerDelay, c.Game.TickInterval, c.Game.Classic.TimeLimit, c.Game.TimeAttack.TimeLimit, c.Redis.TTL, c.Questions.TTL} {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("invalid duration %q", raw))
		}
	}
	if c.Game.HistoryCapacity < 0 {
		errs = append(errs, errors.New("game.history_capacity must not be negative"))
	}
	if len(c.Game.BossRush.Stages) == 0 {
		errs = append(errs, errors.New("game.boss_rush.stages must list at least one stage"))
	}
	for i, s := range c.Game.BossRush.Stages {
		if s.PlayerHealth <= 0 || s.EnemyHealth <= 0 {
			errs = append(errs, fmt.Errorf("boss rush stage %d needs positive health, got %d/%d", i+1, s.PlayerHealth, s.EnemyHealth))
		}
	}
	for name, t := range map[string]Tier{"classic": c.Game.Classic, "time_attack": c.Game.TimeAttack} {
		if t.PointsPerCorrect < 0 || t.PenaltyPerWrong < 0 || t.PlayerHealth < 0 {
			errs = append(errs, fmt.Errorf("game.%s values must not be negative", name))
		}
	}
	return errors.Join(errs...)
}

// Rules converts the game section into engine rules.
func (c Config) Rules() app.GameRules {
	def := app.DefaultRules()
	g := c.Game
	rules := app.GameRules{
		AnswerDelay:  Duration(g.AnswerDelay, def.AnswerDelay),
		TickInterval: Duration(g.TickInterval, def.TickInterval),
		Classic:      g.Classic.rules(def.Classic),
		TimeAttack:   g.TimeAttack.rules(def.TimeAttack),
		BossRush: app.BossRushRules{
			PointsPerCorrect: g.BossRush.PointsPerCorrect,
			PenaltyPerWrong:  g.BossRush.PenaltyPerWrong,
		},
	}
	for _, s := range g.BossRush.Stages {
		rules.BossRush.Stages = append(rules.BossRush.Stages, app.StageRules{PlayerHealth: s.PlayerHealth, EnemyHealth: s.EnemyHealth})
	}
	if len(rules.BossRush.Stages) == 0 {
		rules.BossRush.Stages = def.BossRush.Stages
	}
	return rules
}

func (t Tier) rules(def app.TierRules) app.TierRules {
	return app.TierRules{
		PointsPerCorrect: t.PointsPerCorrect,
		PenaltyPerWrong:  t.PenaltyPerWrong,
		PassThreshold:    t.PassThreshold,
		PlayerHealth:     t.PlayerHealth,
		TimeLimit:        Duration(t.TimeLimit, def.TimeLimit),
		TimeUpEndsRun:    t.TimeUpEndsRun,
	}
}

func tierFromRules(r app.TierRules) Tier {
	t := Tier{
		PointsPerCorrect: r.PointsPerCorrect,
		PenaltyPerWrong:  r.PenaltyPerWrong,
		PassThreshold:    r.PassThreshold,
		PlayerHealth:     r.PlayerHealth,
		TimeUpEndsRun:    r.TimeUpEndsRun,
	}
	if r.TimeLimit > 0 {
		t.TimeLimit = r.TimeLimit.String()
	}
	return t
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
