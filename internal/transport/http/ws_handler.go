package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/metrics"
	"github.com/roomcast/roomcast-server/internal/proto"
	"github.com/roomcast/roomcast-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub     *core.Hub
	log     *zerolog.Logger
	origins []string
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, logger *zerolog.Logger, origins []string) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger, origins: origins}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	opts := &websocket.AcceptOptions{}
	if len(h.origins) == 0 {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originPatterns(h.origins)
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(utils.NewConnID())
	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()
	defer h.hub.Disconnect(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop dispatches inbound frames in arrival order, so each
// connection's operations are handled FIFO. A store stall inside a hub
// call blocks only this connection's loop.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		reply := h.dispatch(ctx, client, inbound)
		if reply == nil {
			continue
		}
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch maps one inbound frame to a hub call and decides what, if
// anything, goes back to this client. Relay failures surface here as
// error frames instead of being swallowed.
func (h *WSHandler) dispatch(ctx context.Context, client *core.Client, inbound proto.Inbound) *proto.Outbound {
	action, protoErr := inboundToAction(inbound)
	if protoErr != nil {
		return &proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr}
	}

	switch action.kind {
	case actionIdentify:
		rooms, err := h.hub.Identify(ctx, client, action.userID)
		if err != nil {
			return errorFrame(err)
		}
		return &proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventIdentified,
			Data:  proto.IdentifiedData{UserID: action.userID, Rooms: rooms},
		}
	case actionJoin:
		if err := h.hub.JoinRoom(client, action.room); err != nil {
			return errorFrame(err)
		}
		return nil
	case actionSend:
		if err := h.hub.SendMessage(ctx, client, action.room, action.payload); err != nil {
			return errorFrame(err)
		}
		return nil
	default:
		return &proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "invalid_message", Msg: "unknown message type"},
		}
	}
}

func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		patterns = append(patterns, trimScheme(o))
	}
	return patterns
}

func trimScheme(origin string) string {
	origin = strings.TrimPrefix(origin, "https://")
	return strings.TrimPrefix(origin, "http://")
}
