/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return path
}

func TestLoadQuestions_Default(t *testing.T) {
	questions, err := loadQuestions("")
	require.NoError(t, err)
	require.Len(t, questions, 10)

	for i, q := range questions {
		require.Equal(t, i, q.Index)
		require.NotEmpty(t, q.Prompt)
	}

	require.Equal(t, int64(155), questions[0].Answer)
}

func TestLoadQuestions_YAMLAndJSON(t *testing.T) {
	yamlPath := writeFile(t, "questions.yaml", `questions:
  - prompt: "  Dogs in the park?  "
    answer: 38
  - prompt: Cats on the roof?
    answer: 9
`)

	questions, err := loadQuestions(yamlPath)
	require.NoError(t, err)
	require.Equal(t, []Question{
		{Index: 0, Prompt: "Dogs in the park?", Answer: 38},
		{Index: 1, Prompt: "Cats on the roof?", Answer: 9},
	}, questions)

	jsonPath := writeFile(t, "questions.json", `{"questions": [{"prompt": "Shark attacks?", "answer": 73}]}`)

	questions, err = loadQuestions(jsonPath)
	require.NoError(t, err)
	require.Equal(t, []Question{{Index: 0, Prompt: "Shark attacks?", Answer: 73}}, questions)
}

func TestLoadQuestions_Invalid(t *testing.T) {
	_, err := loadQuestions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = loadQuestions(writeFile(t, "empty.yaml", "questions: []\n"))
	require.ErrorContains(t, err, "empty")

	_, err = loadQuestions(writeFile(t, "blank.yaml", "questions:\n  - prompt: \"\"\n    answer: 1\n"))
	require.ErrorContains(t, err, "no prompt")

	var b strings.Builder
	b.WriteString("questions:\n")
	for i := range maxQuestions + 1 {
		fmt.Fprintf(&b, "  - prompt: q%d\n    answer: %d\n", i, i)
	}

	_, err = loadQuestions(writeFile(t, "many.yaml", b.String()))
	require.ErrorContains(t, err, "maximum")
}
