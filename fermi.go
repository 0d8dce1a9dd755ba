/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Fermi estimation quiz
//
// Players join under a name of their choosing and wait until the configured
// number of players is present. Every round shows the same question to all
// players, each answers with a closed interval [lower, upper], and nobody
// sees the next question until everyone has answered. Scores are shown
// live; the lowest score after the last question wins.
//
// Routes, relative to --prefix:
//   - /fermi          → HTML client
//   - /fermi/ws       → WebSocket for the game
//   - /fermi/qr       → PNG QR code for the game URL
//   - /fermi/results  → current results table as JSON
//   - /fermi/help     → rules as markdown

package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type clientRequest struct {
	client *Client
	msg    ClientMessage
}

// Hub connects browser sessions to the single Game. Players are identified
// by cookie, so a reconnecting browser resumes where it left off.
type Hub struct {
	cfg  *Config
	game *Game

	clients map[*Client]bool
	names   map[string]string // playerID -> joined player name
	joining map[string]bool   // playerIDs with a join not yet bound

	register chan *Client
	unreg    chan *Client
	requests chan clientRequest
	done     <-chan struct{}

	mu sync.Mutex
}

func newHub(ctx context.Context, cfg *Config, game *Game) *Hub {
	h := &Hub{
		cfg:      cfg,
		game:     game,
		clients:  make(map[*Client]bool),
		names:    make(map[string]string),
		joining:  make(map[string]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		requests: make(chan clientRequest),
		done:     ctx.Done(),
	}

	game.onForfeit = h.refresh

	return h
}

// run serialises connection bookkeeping. Requests that may wait on other
// players are handed off to their own goroutine.
func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			name := h.names[c.playerID]
			h.sendLocked(c, SessionInfoMessage{
				Type:         "session_info",
				Name:         name,
				TotalPlayers: h.game.totalPlayers,
				Questions:    len(h.game.questions),
			})
			h.mu.Unlock()

			if name != "" {
				go h.resume(ctx, c.playerID, name)
			}

		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case req := <-h.requests:
			h.handleRequest(ctx, req)
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context, req clientRequest) {
	c := req.client
	msg := req.msg
	show := h.display(c.playerID)

	switch msg.Type {
	case "help":
		h.mu.Lock()
		h.sendLocked(c, help())
		h.mu.Unlock()

	case "join":
		name, claimed := h.claimJoin(c.playerID)
		switch {
		case name != "":
			go h.resume(ctx, c.playerID, name)
			return
		case !claimed:
			h.reject(c, ErrJoinInProgress)
			return
		}

		go func() {
			views, err := h.game.Admit(ctx, msg.Name, show, func(name string) {
				h.bind(c.playerID, name)
			})
			if err != nil {
				h.releaseJoin(c.playerID)
				h.reject(c, err)
				return
			}
			for _, v := range views {
				show(v)
			}
		}()

	case "answer":
		name := h.nameOf(c.playerID)
		if name == "" {
			h.reject(c, ErrUnknownPlayer)
			return
		}

		// Submitters wait on the server context so that a closed tab
		// still acknowledges the round transition.
		go func() {
			views, err := h.game.Submit(ctx, name, msg.Round, msg.Lower, msg.Upper, show)
			if err != nil {
				h.reject(c, err)
				return
			}
			for _, v := range views {
				show(v)
			}
		}()
	}
}

// resume re-sends the current screen to a player whose browser reconnected.
func (h *Hub) resume(ctx context.Context, playerID, name string) {
	show := h.display(playerID)

	views, err := h.game.AwaitPlayers(ctx, name, show)
	if err != nil {
		return
	}

	for _, v := range views {
		show(v)
	}
}

// refresh pushes the current screen to every connection of name.
func (h *Hub) refresh(name string) {
	views := h.game.Screen(name)

	h.mu.Lock()
	defer h.mu.Unlock()

	for pid, n := range h.names {
		if n != name {
			continue
		}
		for _, v := range views {
			h.showLocked(pid, v)
		}
	}
}

func (h *Hub) bind(playerID, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.names[playerID] = name
	delete(h.joining, playerID)
	logf(h.cfg, "GAMES: Session %s bound to player %q", playerID, name)
}

// claimJoin returns the player already bound to playerID, or marks a join
// as pending for it. claimed is false while an earlier join is unresolved.
func (h *Hub) claimJoin(playerID string) (name string, claimed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := h.names[playerID]; n != "" {
		return n, false
	}

	if h.joining[playerID] {
		return "", false
	}

	h.joining[playerID] = true

	return "", true
}

func (h *Hub) releaseJoin(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.joining, playerID)
}

func (h *Hub) nameOf(playerID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.names[playerID]
}

func (h *Hub) reject(c *Client, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sendLocked(c, notice(err))
}

// display returns a Display that reaches every open connection of playerID.
func (h *Hub) display(playerID string) Display {
	return func(msg any) {
		h.mu.Lock()
		defer h.mu.Unlock()

		h.showLocked(playerID, msg)
	}
}

func (h *Hub) showLocked(playerID string, msg any) {
	for c := range h.clients {
		if c.playerID == playerID {
			h.sendLocked(c, msg)
		}
	}
}

// sendLocked drops clients that cannot keep up. h.mu must be held.
func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "fermi_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func serveWS(h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		playerID := getOrSetPlayerID(w, r)

		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			playerID: playerID,
		}

		select {
		case h.register <- client:
		case <-h.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(h)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "join", "answer", "help":
			select {
			case h.requests <- clientRequest{client: c, msg: msg}:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func serveResults(cfg *Config, game *Game, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(game.Results()); err != nil {
			errs <- err
		}
	}
}

func serveHelp(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		securityHeaders(cfg, w)

		if _, err := w.Write([]byte(rulesMarkdown)); err != nil {
			errs <- err
		}
	}
}

// ---- Static file paths ----

//go:embed quiz/index.html
var indexHTML []byte

//go:embed quiz/app.css
var fermiCSS []byte

//go:embed quiz/app.js
var fermiJS []byte

func staticHandler(cfg *Config, contentType string, data []byte, withCookie bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		if withCookie {
			_ = getOrSetPlayerID(w, r)
		}

		_, _ = w.Write(data)
	}
}

// registerFermiGame sets up the quiz routes under path and starts the hub.
func registerFermiGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, game *Game, errs chan<- error) *Hub {
	h := newHub(ctx, cfg, game)
	go h.run(ctx)

	mux.GET(cfg.prefix+path, staticHandler(cfg, "text/html; charset=utf-8", indexHTML, true))

	mux.GET(cfg.prefix+"/assets/fermi/app.css", staticHandler(cfg, "text/css; charset=utf-8", fermiCSS, false))
	mux.GET(cfg.prefix+"/assets/fermi/app.js", staticHandler(cfg, "application/javascript; charset=utf-8", fermiJS, false))

	mux.GET(cfg.prefix+path+"/ws", serveWS(h))
	mux.GET(cfg.prefix+path+"/qr", qrHandler)
	mux.GET(cfg.prefix+path+"/results", serveResults(cfg, game, errs))
	mux.GET(cfg.prefix+path+"/help", serveHelp(cfg, errs))

	return h
}
