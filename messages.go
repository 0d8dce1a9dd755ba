/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import sdkmath "cosmossdk.io/math"

// Messages coming from clients
type ClientMessage struct {
	Type  string `json:"type"`            // "join", "answer", "help"
	Name  string `json:"name,omitempty"`  // join
	Round int    `json:"round"`           // answer
	Lower string `json:"lower,omitempty"` // answer
	Upper string `json:"upper,omitempty"` // answer
}

// Display receives every view rendered for one player.
type Display func(msg any)

// SessionInfoMessage is sent on connect so the client knows whether its
// cookie already belongs to a joined player.
type SessionInfoMessage struct {
	Type         string `json:"type"` // "session_info"
	Name         string `json:"name,omitempty"`
	TotalPlayers int    `json:"total_players"`
	Questions    int    `json:"questions"`
}

type WaitingForPlayersMessage struct {
	Type      string `json:"type"` // "waiting_for_players"
	Remaining int    `json:"remaining"`
}

type QuestionPromptMessage struct {
	Type     string `json:"type"` // "question_prompt"
	Round    int    `json:"round"`
	Player   string `json:"player"`
	Question string `json:"question"`
}

type WaitingForAnswersMessage struct {
	Type      string `json:"type"` // "waiting_for_answers"
	Remaining int    `json:"remaining"`
}

type WaitingForAdvanceMessage struct {
	Type string `json:"type"` // "waiting_for_advance"
}

type GameFinishedMessage struct {
	Type string `json:"type"` // "game_finished"
}

// ResultRow is one player's line in the results table. Answers are the
// completed rounds, most recent first.
type ResultRow struct {
	Player  string      `json:"player"`
	Correct int         `json:"correct"`
	Score   sdkmath.Int `json:"score"`
	Answers []string    `json:"answers"`
}

type ResultsMessage struct {
	Type     string      `json:"type"` // "results"
	Columns  []string    `json:"columns"`
	Rows     []ResultRow `json:"rows"`
	Winners  []string    `json:"winners,omitempty"`
	Finished bool        `json:"finished"`
}

type HelpMessage struct {
	Type     string `json:"type"` // "help"
	Markdown string `json:"markdown"`
}

// NoticeMessage tells a single client why its request was ignored.
type NoticeMessage struct {
	Type    string `json:"type"` // "notice"
	Message string `json:"message"`
}

func waitingForPlayers(remaining int) WaitingForPlayersMessage {
	return WaitingForPlayersMessage{Type: "waiting_for_players", Remaining: remaining}
}

func waitingForAnswers(remaining int) WaitingForAnswersMessage {
	return WaitingForAnswersMessage{Type: "waiting_for_answers", Remaining: remaining}
}

func waitingForAdvance() WaitingForAdvanceMessage {
	return WaitingForAdvanceMessage{Type: "waiting_for_advance"}
}

func gameFinished() GameFinishedMessage {
	return GameFinishedMessage{Type: "game_finished"}
}

func questionPrompt(q Question, player string) QuestionPromptMessage {
	return QuestionPromptMessage{
		Type:     "question_prompt",
		Round:    q.Index,
		Player:   player,
		Question: q.Prompt,
	}
}

func notice(err error) NoticeMessage {
	return NoticeMessage{Type: "notice", Message: err.Error()}
}

const rulesMarkdown = `# Fermi estimation

## Format
- Every question has a single whole-number answer.
- Answer with a closed interval [a, b], where a and b are integers and a ≤ b.
- No calculators, phones, or other references.
- The next question appears once every player has answered.

## Scoring
- Everyone starts with a score of 10.
- An interval is correct when it contains the answer.
- A correct interval adds b / a - 1, rounded down, to your score.
- A wrong interval, or no interval at all, doubles your score.
- The lowest score after the last question wins.

## Example
The answer is 155.

- [50, 210] is correct and adds 3.
- [150, 200] is correct and adds 0.
- [1, 100] is wrong and doubles the score.
- [100, 500000] is correct but adds 4999, which is worse than being wrong.
`

func help() HelpMessage {
	return HelpMessage{Type: "help", Markdown: rulesMarkdown}
}
