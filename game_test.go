/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testQuestions = []Question{
	{Index: 0, Prompt: "How many tons does a blue whale weigh?", Answer: 155},
	{Index: 1, Prompt: "How many bones are in the adult human body?", Answer: 206},
	{Index: 2, Prompt: "How many keys are on a piano?", Answer: 88},
}

func newTestGame(t *testing.T, players int, questions ...Question) *Game {
	t.Helper()

	if len(questions) == 0 {
		questions = testQuestions
	}

	return newGame(&Config{players: players}, questions)
}

// recorder is a Display that keeps everything it was shown.
type recorder struct {
	mu   sync.Mutex
	msgs []any
}

func (r *recorder) show(msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, msg)
}

func (r *recorder) seen(msg any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.msgs {
		if m == msg {
			return true
		}
	}

	return false
}

func discard(any) {}

func TestJoin_SecondJoinWithSameNameIsNoOp(t *testing.T) {
	g := newTestGame(t, 3)

	require.NoError(t, g.Join("alice"))
	require.ErrorIs(t, g.Join("alice"), ErrNameTaken)
	require.ErrorIs(t, g.Join("  alice "), ErrNameTaken)

	s := g.Snapshot()
	require.Len(t, s.Players, 1)
	require.False(t, s.Initialized())
}

func TestJoin_RejectsWhenFullOrBlank(t *testing.T) {
	g := newTestGame(t, 2)

	require.ErrorIs(t, g.Join("   "), ErrInvalidName)
	require.NoError(t, g.Join("alice"))
	require.NoError(t, g.Join("bob"))
	require.ErrorIs(t, g.Join("carol"), ErrGameFull)

	s := g.Snapshot()
	require.True(t, s.Initialized())
	require.Len(t, s.Players, 2)
	require.Equal(t, "alice", s.Players[0].Name)
	require.Equal(t, "bob", s.Players[1].Name)
}

func TestRecordAnswer_Errors(t *testing.T) {
	g := newTestGame(t, 2)

	require.ErrorIs(t, g.RecordAnswer("alice", "1", "2"), ErrUnknownPlayer)

	require.NoError(t, g.Join("alice"))
	require.ErrorIs(t, g.RecordAnswer("alice", "1", "2"), ErrNotStarted)

	require.NoError(t, g.Join("bob"))
	require.NoError(t, g.RecordAnswer("alice", "50", "210"))
	require.ErrorIs(t, g.RecordAnswer("alice", "1", "2"), ErrAlreadyAnswered)

	s := g.Snapshot()
	require.Equal(t, []Answer{{Lower: "50", Upper: "210"}}, s.Players[0].Answers)
	require.Empty(t, s.Players[1].Answers)

	// RecordAnswer leaves the barrier alone.
	require.Zero(t, s.Answered)
	require.Zero(t, s.Round)
}

func TestSnapshot_IsACopy(t *testing.T) {
	g := newTestGame(t, 1)
	require.NoError(t, g.Join("alice"))
	require.NoError(t, g.RecordAnswer("alice", "1", "2"))

	s := g.Snapshot()
	s.Players[0].Answers[0].Lower = "999"

	require.Equal(t, "1", g.Snapshot().Players[0].Answers[0].Lower)
}

func TestScreen(t *testing.T) {
	g := newTestGame(t, 2)
	require.NoError(t, g.Join("alice"))

	require.Equal(t, []any{waitingForPlayers(1)}, g.Screen("alice"))

	require.NoError(t, g.Join("bob"))

	views := g.Screen("alice")
	require.Len(t, views, 2)
	require.Equal(t, questionPrompt(testQuestions[0], "alice"), views[0])
	require.IsType(t, ResultsMessage{}, views[1])

	go func() {
		_, _ = g.Submit(context.Background(), "alice", 0, "50", "210", discard)
	}()

	require.Eventually(t, func() bool {
		return g.Snapshot().Answered == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, waitingForAnswers(1), g.Screen("alice")[0])
	require.Equal(t, questionPrompt(testQuestions[0], "bob"), g.Screen("bob")[0])
}

func TestAwaitPlayers_BlocksUntilQuotaMet(t *testing.T) {
	g := newTestGame(t, 2)
	require.NoError(t, g.Join("alice"))

	rec := &recorder{}
	done := make(chan []any, 1)

	go func() {
		views, err := g.AwaitPlayers(context.Background(), "alice", rec.show)
		if err == nil {
			done <- views
		}
	}()

	require.Eventually(t, func() bool {
		return rec.seen(waitingForPlayers(1))
	}, time.Second, 5*time.Millisecond)

	select {
	case <-done:
		t.Fatalf("AwaitPlayers returned before the game was full")
	default:
	}

	require.NoError(t, g.Join("bob"))

	select {
	case views := <-done:
		require.Equal(t, questionPrompt(testQuestions[0], "alice"), views[0])
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for AwaitPlayers")
	}
}

func TestAwaitPlayers_Cancelled(t *testing.T) {
	g := newTestGame(t, 2)
	require.NoError(t, g.Join("alice"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.AwaitPlayers(ctx, "alice", discard)
	require.ErrorIs(t, err, context.Canceled)

	_, err = g.AwaitPlayers(context.Background(), "nobody", discard)
	require.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestAdmit_BindsBeforeWaiting(t *testing.T) {
	g := newTestGame(t, 2)

	bound := make(chan string, 1)
	done := make(chan error, 1)

	go func() {
		_, err := g.Admit(context.Background(), " alice ", discard, func(name string) {
			bound <- name
		})
		done <- err
	}()

	select {
	case name := <-bound:
		require.Equal(t, "alice", name)
	case <-time.After(time.Second):
		t.Fatalf("bound was not called")
	}

	_, err := g.Admit(context.Background(), "alice", discard, nil)
	require.ErrorIs(t, err, ErrNameTaken)

	require.NoError(t, g.Join("bob"))
	require.NoError(t, <-done)
}
