package app

import (
	"strconv"
	"strings"

	"quiz-arena/internal/domain"
)

const (
	recordSep = "|"
	fieldSep  = ","
	// minFields is the number of comma-separated fields a stored entry needs.
	minFields = 7
)

var delimiterScrub = strings.NewReplacer(recordSep, " ", fieldSep, " ")

// EncodeResults writes results in the stored history format: one entry per
// result, each terminated by "|", fields separated by ",".
func EncodeResults(results []domain.GameResult) string {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(delimiterScrub.Replace(string(r.Mode)))
		b.WriteString(fieldSep)
		b.WriteString(delimiterScrub.Replace(r.Difficulty))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(r.Score))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(r.CorrectAnswers))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(r.TotalQuestions))
		b.WriteString(fieldSep)
		b.WriteString(delimiterScrub.Replace(r.Timestamp))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(r.Stage))
		b.WriteString(recordSep)
	}
	return b.String()
}

// DecodeResults parses the stored history format. Empty input yields no
// results; entries with too few fields or non-numeric counters are skipped.
func DecodeResults(raw string) []domain.GameResult {
	results := []domain.GameResult{}
	if raw == "" {
		return results
	}
	for _, entry := range strings.Split(raw, recordSep) {
		if entry == "" {
			continue
		}
		if r, ok := decodeResult(entry); ok {
			results = append(results, r)
		}
	}
	return results
}

func decodeResult(entry string) (domain.GameResult, bool) {
	parts := strings.Split(entry, fieldSep)
	if len(parts) < minFields {
		return domain.GameResult{}, false
	}
	var nums [4]int
	for i, idx := range [4]int{2, 3, 4, 6} {
		n, err := strconv.Atoi(strings.TrimSpace(parts[idx]))
		if err != nil {
			return domain.GameResult{}, false
		}
		nums[i] = n
	}
	return domain.GameResult{
		Mode:           domain.Mode(parts[0]),
		Difficulty:     parts[1],
		Score:          nums[0],
		CorrectAnswers: nums[1],
		TotalQuestions: nums[2],
		Timestamp:      parts[5],
		Stage:          nums[3],
	}, true
}
