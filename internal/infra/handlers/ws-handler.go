package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"emotional-analysis/internal/domain/dto"
	"emotional-analysis/internal/infra/logger"
	"emotional-analysis/internal/infra/realtime"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSHandlers upgrades observer connections and feeds their audio frames into
// the broadcast coordinator.
type WSHandlers struct {
	Logger        *logger.Logger
	Registry      *realtime.Registry
	Coordinator   *realtime.Coordinator
	AllowedOrigin string
	upgrader      websocket.Upgrader
}

func NewWSHandlers(logger *logger.Logger, registry *realtime.Registry, coordinator *realtime.Coordinator, allowedOrigin string) *WSHandlers {
	h := &WSHandlers{
		Logger:        logger,
		Registry:      registry,
		Coordinator:   coordinator,
		AllowedOrigin: allowedOrigin,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if h.AllowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == h.AllowedOrigin
		},
	}
	return h
}

// HandleWS upgrades the request, registers the session, pushes the most
// recent call record, and then reads frames until the observer disconnects.
func (th *WSHandlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := th.upgrader.Upgrade(w, r, nil)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("websocket upgrade failed: %v", err))
		return
	}

	session := th.Registry.Register(conn)
	th.Coordinator.SendInitial(r.Context(), session)

	defer th.Registry.Unregister(session.ID())

	for {
		var msg dto.InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				th.Logger.Warn("websocket read failed", logrus.Fields{
					"session_id": session.ID(),
					"error":      err.Error(),
				})
			}
			return
		}

		switch msg.Type {
		case dto.TypeAudioData:
			req, err := decodeAudioMessage(msg)
			if err != nil {
				session.Send(dto.ErrorEvent(err.Error()))
				continue
			}
			// Each submission is an independent unit of work; the read loop
			// keeps going while the pipeline runs.
			go th.Coordinator.HandleAudio(context.Background(), session, req)
		default:
			session.Send(dto.ErrorEvent(fmt.Sprintf("unknown message type %q", msg.Type)))
		}
	}
}

func decodeAudioMessage(msg dto.InboundMessage) (dto.AudioRequest, error) {
	if msg.Audio == "" {
		return dto.AudioRequest{}, fmt.Errorf("audio payload is empty")
	}
	payload, err := base64.StdEncoding.DecodeString(msg.Audio)
	if err != nil {
		return dto.AudioRequest{}, fmt.Errorf("audio payload is not valid base64")
	}
	if msg.Duration < 0 {
		return dto.AudioRequest{}, fmt.Errorf("duration must be non-negative")
	}
	return dto.AudioRequest{
		Payload:     payload,
		CallerID:    msg.CallerID,
		PhoneNumber: msg.PhoneNumber,
		Latitude:    msg.Latitude,
		Longitude:   msg.Longitude,
		Duration:    msg.Duration,
	}, nil
}
