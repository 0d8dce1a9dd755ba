/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"sync"
	"time"
)

// PlayerInfo holds one answer per round, indexed by question.
type PlayerInfo struct {
	answers []Answer
}

// Game is the single shared quiz session. Every mutation happens under mu
// and is followed by notifyLocked, which wakes all waiting handlers.
type Game struct {
	cfg       *Config
	questions []Question

	mu sync.Mutex

	totalPlayers int
	players      map[string]*PlayerInfo
	order        []string // join order

	round    int // index of the question being answered
	answered int // players who submitted this round
	advanced int // players who have observed the round transition

	roundStarted time.Time
	changed      chan struct{}

	forfeits  []string
	onForfeit func(name string) // called once the forfeited round has reset
}

func newGame(cfg *Config, questions []Question) *Game {
	return &Game{
		cfg:          cfg,
		questions:    questions,
		totalPlayers: cfg.players,
		players:      make(map[string]*PlayerInfo),
		changed:      make(chan struct{}),
	}
}

// notifyLocked wakes every handler blocked in wait.
func (g *Game) notifyLocked() {
	close(g.changed)
	g.changed = make(chan struct{})
}

func (g *Game) initializedLocked() bool {
	return len(g.players) == g.totalPlayers
}

func (g *Game) finishedLocked() bool {
	return g.round == len(g.questions)
}

// Join registers name. Joining twice, or after the quota is met, changes
// nothing and reports why.
func (g *Game) Join(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players[name]; ok {
		return ErrNameTaken
	}
	if g.initializedLocked() {
		return ErrGameFull
	}

	g.players[name] = &PlayerInfo{}
	g.order = append(g.order, name)
	logf(g.cfg, "GAMES: Player %q joined (%d/%d)", name, len(g.players), g.totalPlayers)

	if g.initializedLocked() {
		g.roundStarted = time.Now()
		logf(g.cfg, "GAMES: All %d players joined, starting with %d questions", g.totalPlayers, len(g.questions))
	}

	g.notifyLocked()

	return nil
}

// RecordAnswer appends an answer to name's history for the current round.
// It does not touch the round counters; Submit is the barrier-aware entry point.
func (g *Game) RecordAnswer(name string, lower, upper string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.recordAnswerLocked(name, Answer{Lower: lower, Upper: upper})
}

func (g *Game) recordAnswerLocked(name string, answer Answer) error {
	p, ok := g.players[name]
	switch {
	case !ok:
		return ErrUnknownPlayer
	case !g.initializedLocked():
		return ErrNotStarted
	case g.finishedLocked():
		return ErrFinished
	case len(p.answers) > g.round:
		return ErrAlreadyAnswered
	}

	p.answers = append(p.answers, answer)

	return nil
}

// PlayerSnapshot is a copy of one player's history.
type PlayerSnapshot struct {
	Name    string
	Answers []Answer
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Round          int
	TotalQuestions int
	TotalPlayers   int
	Answered       int
	Advanced       int
	Players        []PlayerSnapshot
}

func (s Snapshot) Initialized() bool {
	return len(s.Players) == s.TotalPlayers
}

func (s Snapshot) Finished() bool {
	return s.Round == s.TotalQuestions
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{
		Round:          g.round,
		TotalQuestions: len(g.questions),
		TotalPlayers:   g.totalPlayers,
		Answered:       g.answered,
		Advanced:       g.advanced,
		Players:        make([]PlayerSnapshot, 0, len(g.order)),
	}

	for _, name := range g.order {
		answers := make([]Answer, len(g.players[name].answers))
		copy(answers, g.players[name].answers)

		s.Players = append(s.Players, PlayerSnapshot{Name: name, Answers: answers})
	}

	return s
}

// Results renders the results table for the current state.
func (g *Game) Results() ResultsMessage {
	return buildResults(g.Snapshot(), g.questions)
}

// Screen is the full view name should currently be looking at.
func (g *Game) Screen(name string) []any {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.screenLocked(name)
}

func (g *Game) screenLocked(name string) []any {
	if !g.initializedLocked() {
		return []any{waitingForPlayers(g.totalPlayers - len(g.players))}
	}

	results := buildResults(g.snapshotLocked(), g.questions)

	if g.finishedLocked() {
		return []any{gameFinished(), results}
	}

	if p, ok := g.players[name]; ok && len(p.answers) > g.round {
		return []any{waitingForAnswers(g.totalPlayers - g.answered), results}
	}

	return []any{questionPrompt(g.questions[g.round], name), results}
}
