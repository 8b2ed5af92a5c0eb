package file

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/infra/schema"
)

// bankFile is the on-disk layout of a question bank:
//
//	sets:
//	  - id: classic-easy
//	    questions:
//	      - prompt: ...
//	        options: [a, b, c, d]
//	        correct_index: 1
type bankFile struct {
	Sets []domain.QuestionSet `yaml:"sets"`
}

// LoadQuestionBank reads every set from path, a YAML file or a directory of
// them. Sets failing schema validation are logged and still returned; the
// deck drops the individual questions it cannot show.
func LoadQuestionBank(path string, validator *schema.Validator, log *slog.Logger) (map[string]domain.QuestionSet, error) {
	if log == nil {
		log = slog.Default()
	}
	files, err := bankFiles(path)
	if err != nil {
		return nil, err
	}

	sets := make(map[string]domain.QuestionSet)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read question bank: %w", err)
		}
		var bank bankFile
		if err := yaml.Unmarshal(data, &bank); err != nil {
			return nil, fmt.Errorf("parse question bank %s: %w", f, err)
		}
		for _, set := range bank.Sets {
			if set.ID == "" {
				log.Warn("skipping question set without id", "file", f)
				continue
			}
			if validator != nil {
				if err := validator.Validate(set); err != nil {
					log.Warn("question set failed validation", "file", f, "set", set.ID, "error", err)
				}
			}
			if _, dup := sets[set.ID]; dup {
				log.Warn("question set defined twice, keeping the later one", "file", f, "set", set.ID)
			}
			sets[set.ID] = set
		}
	}
	log.Info("question bank loaded", "path", path, "sets", len(sets))
	return sets, nil
}

// ValidateQuestionBank is LoadQuestionBank in strict mode: any schema
// violation fails the load.
func ValidateQuestionBank(path string, validator *schema.Validator) (map[string]domain.QuestionSet, error) {
	sets, err := LoadQuestionBank(path, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := validator.Validate(sets[id]); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

func bankFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("question bank: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk question bank: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
