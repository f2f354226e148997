package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-viewer/api/model"
	"github.com/a-bouts/nav-viewer/playback"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var errNoPlayer = errors.New("playback: send an init command first")

// playback replays a route over a websocket. The client sends commands, the server
// answers with frames, one every interval while playing.
func (s *server) playback(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		requestLogger(r, "playback").WithError(err).Error("Error upgrading to websocket")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws := &playback.WebSocket{Conn: conn}
	sink := playback.Sinks{ws}
	if s.mqtt != nil {
		sink = append(sink, s.mqtt)
	}

	var player *playback.Player
	stop := func() {}

	for {
		var cmd model.PlaybackCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("Playback read error")
			}
			break
		}

		var err error
		if cmd.Action != "init" && player == nil {
			if err := ws.WriteJSON(model.Error{Error: errNoPlayer.Error()}); err != nil {
				log.WithError(err).Warn("Playback send error")
			}
			continue
		}

		switch cmd.Action {
		case "init":
			stop()
			p, perr := playback.New(cmd.Track, cmd.Start, time.Duration(cmd.Step)*time.Second)
			if perr != nil {
				if err := ws.WriteJSON(model.Error{Error: perr.Error()}); err != nil {
					log.WithError(err).Warn("Playback send error")
				}
				continue
			}
			player = p
			err = sink.Send(player.Frame())
		case "begin":
			err = sink.Send(player.Begin())
		case "move":
			err = sink.Send(player.Move(cmd.N))
		case "play":
			stop()
			var playCtx context.Context
			playCtx, stop = context.WithCancel(ctx)
			go func(p *playback.Player) {
				ticker := time.NewTicker(s.interval)
				defer ticker.Stop()
				if err := p.Run(playCtx, ticker.C, sink); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Warn("Playback stopped")
				}
			}(player)
		case "stop":
			stop()
		default:
			err = ws.WriteJSON(model.Error{Error: "unknown action " + cmd.Action})
		}
		if err != nil {
			log.WithError(err).Warn("Playback send error")
		}
	}
	stop()
}
