package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
	pgstore "quiz-arena/internal/infra/postgres"
	infraredis "quiz-arena/internal/infra/redis"
)

func TestClassicRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL := startPostgres(t, ctx)
	redisAddr := startRedis(t, ctx)

	if _, err := pgstore.Migrate(ctx, pgURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewQuestionLoader(pool)
	if err := loader.SaveQuestionSet(ctx, sampleSet("classic-easy")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ids, err := loader.ListQuestionSetIDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "classic-easy" {
		t.Fatalf("expected one stored set, got %v (%v)", ids, err)
	}

	client, err := infraredis.Connect(ctx, redisAddr, "", 0)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer client.Close()

	builder := app.ProfileBuilder{
		Rules:  app.DefaultRules(),
		Source: infraredis.NewQuestionRepository(client, loader, 5*time.Minute, nil),
	}
	profiles := infraredis.NewProfileStore(client, builder, 5*time.Minute)
	profile, err := profiles.GetOrCreate("alice")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	do := func(fn func(g *app.Game) ([]domain.Command, error)) app.Update {
		t.Helper()
		u, err := profile.Do(fn)
		if err != nil {
			t.Fatalf("action: %v", err)
		}
		return u
	}
	do(func(g *app.Game) ([]domain.Command, error) {
		return g.Play(ctx, domain.ModeClassic, domain.Easy)
	})
	for {
		var q domain.Question
		var ok bool
		profile.View(func(g *app.Game) { q, ok = g.CurrentQuestion() })
		if !ok {
			break
		}
		do(func(g *app.Game) ([]domain.Command, error) { return g.Submit(q.CorrectIndex), nil })
		do(func(g *app.Game) ([]domain.Command, error) { return g.Advance(3 * time.Second), nil })
	}

	u := do(func(g *app.Game) ([]domain.Command, error) { return nil, nil })
	if u.Snapshot.State != app.RoundWon.String() || u.Snapshot.Score != 30 {
		t.Fatalf("expected a won round worth 30, got %+v", u.Snapshot)
	}

	score, err := client.HGet(ctx, "quiz:prefs:alice", app.KeyPlayerScore).Result()
	if err != nil || score != "30" {
		t.Fatalf("expected persisted score 30, got %q (%v)", score, err)
	}

	// a fresh store on the same Redis sees the persisted history
	reloaded, err := infraredis.NewProfileStore(client, builder, time.Minute).GetOrCreate("alice")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	reloaded.View(func(g *app.Game) {
		results := g.History().Query(domain.ModeClassic, "Easy")
		if len(results) != 1 || results[0].CorrectAnswers != 3 || results[0].Score != 30 {
			t.Fatalf("expected the run in persisted history, got %+v", results)
		}
	})

	if _, err := pgstore.Rollback(ctx, pgURL); err != nil {
		t.Fatalf("rollback: %v", err)
	}
}

// startContainer runs image and returns host:port of its exposed port.
func startContainer(t *testing.T, ctx context.Context, image, port string, env map[string]string) string {
	t.Helper()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        image,
			Env:          env,
			ExposedPorts: []string{port},
			WaitingFor:   wait.ForListeningPort(nat.Port(port)).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start %s: %v", image, err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("%s host: %v", image, err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("%s port: %v", image, err)
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

func startPostgres(t *testing.T, ctx context.Context) string {
	addr := startContainer(t, ctx, "postgres:15-alpine", "5432/tcp", map[string]string{
		"POSTGRES_USER":     "quiz",
		"POSTGRES_PASSWORD": "quizpass",
		"POSTGRES_DB":       "quizdb",
	})
	return fmt.Sprintf("postgres://quiz:quizpass@%s/quizdb?sslmode=disable", addr)
}

func startRedis(t *testing.T, ctx context.Context) string {
	return startContainer(t, ctx, "redis:7-alpine", "6379/tcp", nil)
}

func sampleSet(id string) domain.QuestionSet {
	return domain.QuestionSet{
		ID:    id,
		Title: "Arithmetic",
		Questions: []domain.Question{
			{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
			{Prompt: "What is 3 × 3?", Options: []string{"9", "6", "12", "8"}, CorrectIndex: 0},
			{Prompt: "What is 10 - 7?", Options: []string{"2", "4", "5", "3"}, CorrectIndex: 3},
		},
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
