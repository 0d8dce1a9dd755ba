/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"strings"
)

// AwaitPlayers blocks until every player has joined, showing how many are
// still missing, and then returns name's first question.
func (g *Game) AwaitPlayers(ctx context.Context, name string, show Display) ([]any, error) {
	name = strings.TrimSpace(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players[name]; !ok {
		return nil, ErrUnknownPlayer
	}

	err := g.wait(ctx, show,
		g.initializedLocked,
		func() any { return waitingForPlayers(g.totalPlayers - len(g.players)) },
		nil)
	if err != nil {
		return nil, err
	}

	return g.screenLocked(name), nil
}

// Admit joins name and waits for the rest of the players. bound, if set,
// runs as soon as the join is accepted and before any waiting.
func (g *Game) Admit(ctx context.Context, name string, show Display, bound func(name string)) ([]any, error) {
	name = strings.TrimSpace(name)

	if err := g.Join(name); err != nil {
		return nil, err
	}

	if bound != nil {
		bound(name)
	}

	return g.AwaitPlayers(ctx, name, show)
}
