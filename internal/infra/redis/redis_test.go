package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr := startRedis(t)
	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string]domain.QuestionSet{
			"classic-easy": sampleSet(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute, nil)

	got, err := repo.GetQuestionSet(context.Background(), "classic-easy")
	if err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:questions:classic-easy") {
		t.Fatalf("expected set cached in redis")
	}
	if ttl := mr.TTL("quiz:questions:classic-easy"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with at most 10%% jitter, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.GetQuestionSet(context.Background(), "classic-easy")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[0].Prompt != got.Questions[0].Prompt || cached.Questions[0].CorrectIndex != 1 {
		t.Fatalf("cached set differs: %+v", cached)
	}

	if err := repo.Invalidate(context.Background(), "classic-easy"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetQuestionSet(context.Background(), "classic-easy")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryIgnoresCorruptCache(t *testing.T) {
	mr := startRedis(t)
	_ = mr.Set("quiz:questions:classic-easy", "{not json")

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string]domain.QuestionSet{
			"classic-easy": sampleSet(),
		}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute, nil)
	if _, err := repo.GetQuestionSet(context.Background(), "classic-easy"); err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected fallback to the loader, calls=%d", loader.calls)
	}
}

func TestPrefsStoreRoundTrip(t *testing.T) {
	mr := startRedis(t)
	client := newClient(mr)

	prefs := NewPrefsStore(client, "p1")
	if err := prefs.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	prefs.Set(app.KeyMasterVolume, "0.5")
	prefs.Set(app.KeyPlayerScore, "120")
	if mr.Exists("quiz:prefs:p1") {
		t.Fatalf("set must not write before save")
	}
	if err := prefs.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := mr.HGet("quiz:prefs:p1", app.KeyPlayerScore); got != "120" {
		t.Fatalf("expected score in hash, got %q", got)
	}

	again := NewPrefsStore(client, "p1")
	if err := again.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := again.Get(app.KeyMasterVolume, "1"); got != "0.5" {
		t.Fatalf("expected volume 0.5, got %q", got)
	}
	if got := again.Get("missing", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestPrefsStoreSaveFailureKeepsChanges(t *testing.T) {
	mr := startRedis(t)
	prefs := NewPrefsStore(newClient(mr), "p1")
	prefs.Set(app.KeyPlayerScore, "10")

	mr.SetError("READONLY")
	if err := prefs.Save(); err == nil {
		t.Fatalf("expected save error")
	}
	mr.SetError("")
	if err := prefs.Save(); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	if got := mr.HGet("quiz:prefs:p1", app.KeyPlayerScore); got != "10" {
		t.Fatalf("expected the retried write, got %q", got)
	}
}

func TestProfileStoreSetsAndClearsKeys(t *testing.T) {
	mr := startRedis(t)
	client := newClient(mr)
	mr.HSet("quiz:prefs:p1", "ClassicEasy", "Classic,Easy,70,7,10,2024-11-22 09:30,1|")

	store := NewProfileStore(client, app.ProfileBuilder{Rules: app.DefaultRules()}, time.Minute)
	t.Cleanup(store.Close)
	profile, err := store.GetOrCreate("p1")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if !mr.Exists("quiz:profile:p1") {
		t.Fatalf("expected redis key to be set")
	}

	var history []domain.GameResult
	profile.View(func(g *app.Game) {
		history = g.History().Query(domain.ModeClassic, "Easy")
	})
	if len(history) != 1 || history[0].Score != 70 {
		t.Fatalf("expected history loaded from redis, got %+v", history)
	}

	store.DeleteIfEmpty("p1")
	if mr.Exists("quiz:profile:p1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestProfileStoreRefreshesLivenessKey(t *testing.T) {
	mr := startRedis(t)
	ttl := 200 * time.Millisecond
	store := NewProfileStore(newClient(mr), app.ProfileBuilder{Rules: app.DefaultRules()}, ttl)
	t.Cleanup(store.Close)

	_, _, cancel, err := store.Acquire("p1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(150 * time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for mr.TTL("quiz:profile:p1") != ttl {
		if time.Now().After(deadline) {
			t.Fatalf("expected the liveness key refreshed, ttl %v", mr.TTL("quiz:profile:p1"))
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	store.DeleteIfEmpty("p1")
	if mr.Exists("quiz:profile:p1") {
		t.Fatalf("expected redis key to be removed")
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestionSet(ctx, setID)
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID: "classic-easy",
		Questions: []domain.Question{
			{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
		},
	}
}

func startRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
