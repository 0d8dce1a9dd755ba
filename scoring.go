/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// baseScore is what every player starts with before any round is scored.
const baseScore = 10

// Answer is one interval submission, kept exactly as the player typed it.
type Answer struct {
	Lower string `json:"lower"`
	Upper string `json:"upper"`
}

func (a Answer) String() string {
	return "[" + a.Lower + ", " + a.Upper + "]"
}

// bounds parses both ends of the interval. Any failure, including overflow,
// reports ok=false and the answer is simply wrong.
func (a Answer) bounds() (lower, upper int64, ok bool) {
	lower, err := strconv.ParseInt(strings.TrimSpace(a.Lower), 10, 64)
	if err != nil {
		return 0, 0, false
	}

	upper, err = strconv.ParseInt(strings.TrimSpace(a.Upper), 10, 64)
	if err != nil {
		return 0, 0, false
	}

	return lower, upper, true
}

// IsCorrect reports whether truth lies inside the closed interval.
// Reversed intervals are never correct.
func IsCorrect(a Answer, truth int64) bool {
	lower, upper, ok := a.bounds()
	if !ok {
		return false
	}

	return lower <= truth && truth <= upper
}

// QuestionScoreDelta is upper floor-divided by lower. It is not a true
// ceiling: [50, 210] scores 4. A zero lower bound divides by one.
// Calling it for an incorrect answer is a programming error.
func QuestionScoreDelta(a Answer, truth int64) int64 {
	if !IsCorrect(a, truth) {
		panic("fermi: scoring an incorrect answer " + a.String())
	}

	lower, upper, _ := a.bounds()
	if lower == 0 {
		lower = 1
	}

	return floorDiv(upper, lower)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

// AggregateScore scores answers against the rounds played so far.
// Rounds with no answer count as incorrect. Lower totals are better.
func AggregateScore(answers []Answer, questions []Question) (int, sdkmath.Int) {
	correct := 0
	sum := sdkmath.NewInt(baseScore)

	for i, q := range questions {
		if i >= len(answers) || !IsCorrect(answers[i], q.Answer) {
			continue
		}

		correct++
		sum = sum.Add(sdkmath.NewInt(QuestionScoreDelta(answers[i], q.Answer)).SubRaw(1))
	}

	total := sum
	for range len(questions) - correct {
		total = total.MulRaw(2)
	}

	return correct, total
}
