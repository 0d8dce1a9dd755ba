/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"time"
)

var errRoundTimeout = errors.New("answer timeout elapsed")

// wait blocks until ready holds, showing the waiting view each time it
// changes. It must be called with g.mu held and returns with g.mu held.
// A nil deadline never fires.
func (g *Game) wait(ctx context.Context, show Display, ready func() bool, view func() any, deadline <-chan time.Time) error {
	var last any

	for !ready() {
		msg := view()
		changed := g.changed
		g.mu.Unlock()

		if msg != last {
			show(msg)
			last = msg
		}

		var err error
		select {
		case <-changed:
		case <-deadline:
			err = errRoundTimeout
		case <-ctx.Done():
			err = ctx.Err()
		}

		g.mu.Lock()

		if err != nil && !ready() {
			return err
		}
	}

	return nil
}

func (g *Game) deadlineLocked() <-chan time.Time {
	if g.cfg.answerTimeout <= 0 {
		return nil
	}

	return time.After(time.Until(g.roundStarted.Add(g.cfg.answerTimeout)))
}

// Submit records name's interval for question round and blocks until
// every player has answered and the round has moved on, then returns the
// view for the next question or the final results.
//
// The last player to answer advances the round and waits for all the
// others to observe it before resetting the per-round counters. ctx should
// outlive the client connection: a submitter that stops waiting early
// never acknowledges the transition and stalls everyone else.
//
// An answer for any round other than the open one is rejected with
// ErrStaleRound, so a reply that arrives after its round was forfeited is
// never scored against the next question.
func (g *Game) Submit(ctx context.Context, name string, round int, lower, upper string, show Display) ([]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players[name]; !ok {
		return nil, ErrUnknownPlayer
	}

	// The previous round may still be collecting acknowledgements.
	err := g.wait(ctx, show,
		func() bool { return g.answered < g.totalPlayers },
		func() any { return waitingForAdvance() },
		nil)
	if err != nil {
		return nil, err
	}

	if round != g.round && g.initializedLocked() && !g.finishedLocked() {
		logf(g.cfg, "GAMES: Player %q answered question %d while question %d is open", name, round, g.round)
		return nil, ErrStaleRound
	}

	if err := g.recordAnswerLocked(name, Answer{Lower: lower, Upper: upper}); err != nil {
		return nil, err
	}

	g.answered++
	logf(g.cfg, "GAMES: Player %q answered question %d (%d/%d)", name, round, g.answered, g.totalPlayers)

	if g.answered == g.totalPlayers {
		return g.releaseLocked(ctx, name, show, 1)
	}

	g.notifyLocked()

	err = g.wait(ctx, show,
		func() bool { return g.round > round },
		func() any { return waitingForAnswers(g.totalPlayers - g.answered) },
		g.deadlineLocked())
	switch {
	case errors.Is(err, errRoundTimeout):
		return g.releaseLocked(ctx, name, show, 1+g.forfeitLocked(round))
	case err != nil:
		return nil, err
	}

	g.advanced++
	g.notifyLocked()

	return g.screenLocked(name), nil
}

// releaseLocked moves to the next round with acks players already counted
// as having seen it, waits for the rest, then resets the counters.
func (g *Game) releaseLocked(ctx context.Context, name string, show Display, acks int) ([]any, error) {
	g.round++
	g.advanced += acks
	logf(g.cfg, "GAMES: Question %d closed by %q", g.round-1, name)
	g.notifyLocked()

	err := g.wait(ctx, show,
		func() bool { return g.advanced == g.totalPlayers },
		func() any { return waitingForAdvance() },
		nil)
	if err != nil {
		return nil, err
	}

	g.answered = 0
	g.advanced = 0
	g.roundStarted = time.Now()
	g.notifyLocked()

	if g.finishedLocked() {
		res := buildResults(g.snapshotLocked(), g.questions)
		logf(g.cfg, "GAMES: Game finished, winners: %v", res.Winners)
	}

	for _, p := range g.forfeits {
		if g.onForfeit != nil {
			go g.onForfeit(p)
		}
	}
	g.forfeits = nil

	return g.screenLocked(name), nil
}

// forfeitLocked gives every player who has not answered round an empty,
// and therefore incorrect, answer. It returns how many were forfeited.
func (g *Game) forfeitLocked(round int) int {
	n := 0

	for _, name := range g.order {
		p := g.players[name]
		if len(p.answers) > round {
			continue
		}

		p.answers = append(p.answers, Answer{})
		g.answered++
		g.forfeits = append(g.forfeits, name)
		n++

		logf(g.cfg, "GAMES: Player %q forfeited question %d", name, round)
	}

	return n
}
