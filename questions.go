/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// maxQuestions keeps 2^rounds inside the score arithmetic's range.
const maxQuestions = 100

//go:embed quiz/questions.yaml
var defaultQuestions []byte

// Question is one round of the quiz. Questions are loaded once and never mutated.
type Question struct {
	Index  int
	Prompt string
	Answer int64
}

type questionEntry struct {
	Prompt string `mapstructure:"prompt"`
	Answer int64  `mapstructure:"answer"`
}

// loadQuestions reads the question set from path, or the embedded default
// set when path is empty. Any format viper understands is accepted.
func loadQuestions(path string) ([]Question, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(defaultQuestions)); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading questions from %s: %w", path, err)
		}
	}

	var entries []questionEntry
	if err := v.UnmarshalKey("questions", &entries); err != nil {
		return nil, fmt.Errorf("parsing questions: %w", err)
	}

	return buildQuestions(entries)
}

func buildQuestions(entries []questionEntry) ([]Question, error) {
	switch {
	case len(entries) == 0:
		return nil, errors.New("question set is empty")
	case len(entries) > maxQuestions:
		return nil, fmt.Errorf("question set has %d questions (maximum %d)", len(entries), maxQuestions)
	}

	questions := make([]Question, 0, len(entries))
	for i, e := range entries {
		prompt := strings.TrimSpace(e.Prompt)
		if prompt == "" {
			return nil, fmt.Errorf("question %d has no prompt", i)
		}

		questions = append(questions, Question{
			Index:  i,
			Prompt: prompt,
			Answer: e.Answer,
		})
	}

	return questions, nil
}
