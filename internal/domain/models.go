package domain

import (
	"fmt"
	"strings"
)

// Mode identifies one of the three play modes.
type Mode string

const (
	ModeClassic    Mode = "Classic"
	ModeTimeAttack Mode = "TimeAttack"
	ModeBossRush   Mode = "BossRush"
)

// Modes lists every supported mode in menu order.
var Modes = []Mode{ModeClassic, ModeTimeAttack, ModeBossRush}

// ParseMode accepts the canonical names plus lower-case and dashed spellings
// ("classic", "time-attack", "boss_rush").
func ParseMode(raw string) (Mode, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	for _, m := range Modes {
		if strings.ToLower(string(m)) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

// Difficulty is the tier of a Classic or Time Attack run.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the tiers from easiest to hardest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty is case-insensitive.
func ParseDifficulty(raw string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(string(d), strings.TrimSpace(raw)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
}

// Next returns the following tier, or false when d is the hardest.
func (d Difficulty) Next() (Difficulty, bool) {
	for i, cur := range Difficulties {
		if cur == d && i+1 < len(Difficulties) {
			return Difficulties[i+1], true
		}
	}
	return "", false
}

// StageLabel is the difficulty label Boss Rush results are stored under.
func StageLabel(stage int) string {
	return fmt.Sprintf("Stage %d", stage)
}

// StageKind distinguishes the last Boss Rush stage from the ones before it.
type StageKind int

const (
	StageIntermediate StageKind = iota
	StageFinal
)

func (k StageKind) String() string {
	if k == StageFinal {
		return "final"
	}
	return "intermediate"
}

// OptionCount is the number of answers every question carries.
const OptionCount = 4

// Question models a multiple-choice question with exactly one correct option.
type Question struct {
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correct_index"`
	TimeLimit    float64  `json:"timeLimit,omitempty" yaml:"time_limit,omitempty"` // seconds, Time Attack only
}

// Valid reports whether the question can be shown to a player.
func (q Question) Valid() bool {
	return len(q.Options) == OptionCount && q.CorrectIndex >= 0 && q.CorrectIndex < OptionCount
}

// QuestionSet is the question pool for one difficulty or one Boss Rush stage.
type QuestionSet struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// QuestionSetID names the set used by a mode at a difficulty or stage.
// Boss Rush ignores the difficulty, the tiered modes ignore the stage.
func QuestionSetID(mode Mode, difficulty Difficulty, stage int) string {
	switch mode {
	case ModeBossRush:
		return fmt.Sprintf("bossrush-stage-%d", stage)
	default:
		return strings.ToLower(string(mode)) + "-" + strings.ToLower(string(difficulty))
	}
}

// GameResult is one finished (or abandoned) run as it appears in history.
type GameResult struct {
	Mode           Mode   `json:"mode"`
	Difficulty     string `json:"difficulty"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	Timestamp      string `json:"timestamp"`
	Stage          int    `json:"stage"`
}

// TimestampLayout is how GameResult.Timestamp is written.
const TimestampLayout = "2006-01-02 15:04"
