/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var (
	ErrInvalidName     = errors.New("player name must not be empty")
	ErrNameTaken       = errors.New("player name is already taken")
	ErrGameFull        = errors.New("game already has all of its players")
	ErrUnknownPlayer   = errors.New("player has not joined the game")
	ErrNotStarted      = errors.New("game has not started yet")
	ErrFinished        = errors.New("game is already finished")
	ErrAlreadyAnswered = errors.New("player already answered this round")
	ErrStaleRound      = errors.New("answer is for a question that is no longer open")
	ErrJoinInProgress  = errors.New("this session is already joining the game")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
