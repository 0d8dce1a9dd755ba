/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
)

// buildResults scores every player over the completed rounds. Answers for
// the round still in progress are neither shown nor scored.
func buildResults(s Snapshot, questions []Question) ResultsMessage {
	played := questions[:s.Round]

	columns := make([]string, 0, 2+len(played))
	columns = append(columns, "Player", "Score")
	for i := len(played) - 1; i >= 0; i-- {
		columns = append(columns, "Question "+strconv.Itoa(played[i].Index))
	}

	rows := make([]ResultRow, 0, len(s.Players))

	var (
		best    sdkmath.Int
		winners []string
	)

	for _, p := range s.Players {
		answers := p.Answers
		if len(answers) > len(played) {
			answers = answers[:len(played)]
		}

		correct, score := AggregateScore(answers, played)

		intervals := make([]string, 0, len(answers))
		for i := len(answers) - 1; i >= 0; i-- {
			intervals = append(intervals, answers[i].String())
		}

		rows = append(rows, ResultRow{
			Player:  p.Name,
			Correct: correct,
			Score:   score,
			Answers: intervals,
		})

		switch {
		case len(winners) == 0 || score.LT(best):
			best = score
			winners = []string{p.Name}
		case score.Equal(best):
			winners = append(winners, p.Name)
		}
	}

	msg := ResultsMessage{
		Type:     "results",
		Columns:  columns,
		Rows:     rows,
		Finished: s.Finished(),
	}

	if msg.Finished {
		msg.Winners = winners
	}

	return msg
}
