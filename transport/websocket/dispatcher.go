package websocket

import (
	"context"
	"encoding/json"
	"log"

	"jawla/game/service"
)

// Dispatcher routes inbound frames to the game service and unicasts
// operation errors back to the sender. Errors are participant-local by
// design: they never reach the rest of the session.
type Dispatcher struct {
	service service.GameService
	hub     *Hub
}

// NewDispatcher wires the router in front of the game service.
func NewDispatcher(svc service.GameService, hub *Hub) *Dispatcher {
	return &Dispatcher{service: svc, hub: hub}
}

type findGamePayload struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	PlayerCount int    `json:"player_count"`
}

type joinRoomPayload struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type playCardPayload struct {
	CardID int `json:"card_id"`
}

type ackPayload struct {
	Version uint64 `json:"version"`
}

type pingPayload struct {
	ClientTime int64 `json:"client_time"`
}

// Route decodes and executes one inbound frame.
func (d *Dispatcher) Route(ctx context.Context, playerID string, msg Message) {
	switch msg.Type {
	case "find-game":
		var p findGamePayload
		if !d.decode(playerID, msg, &p) {
			return
		}
		profile := service.Profile{Name: p.Name, Icon: p.Icon, Color: p.Color}
		d.reply(playerID, d.service.FindGame(ctx, playerID, profile, p.PlayerCount))

	case "cancel-search":
		d.service.CancelSearch(ctx, playerID)

	case "create-room":
		var p joinRoomPayload
		if !d.decode(playerID, msg, &p) {
			return
		}
		profile := service.Profile{Name: p.Name, Icon: p.Icon, Color: p.Color}
		view, err := d.service.CreateRoom(ctx, playerID, profile)
		if err != nil {
			d.sendError(playerID, err)
			return
		}
		d.hub.ToPlayer(playerID, service.EventRoomCreated, view)

	case "join-room":
		var p joinRoomPayload
		if !d.decode(playerID, msg, &p) {
			return
		}
		profile := service.Profile{Name: p.Name, Icon: p.Icon, Color: p.Color}
		view, err := d.service.JoinRoom(ctx, playerID, p.Code, profile)
		if err != nil {
			d.sendError(playerID, err)
			return
		}
		d.hub.ToPlayer(playerID, service.EventRoomJoined, view)

	case "toggle-ready":
		d.reply(playerID, d.service.ToggleReady(ctx, playerID))

	case "start-game":
		d.reply(playerID, d.service.StartGame(ctx, playerID))

	case "play-card":
		var p playCardPayload
		if !d.decode(playerID, msg, &p) {
			return
		}
		d.reply(playerID, d.service.PlayCard(ctx, playerID, p.CardID))

	case "draw-card":
		d.reply(playerID, d.service.DrawCard(ctx, playerID))

	case "announce-uno":
		d.reply(playerID, d.service.AnnounceUno(ctx, playerID))

	case "request-full-sync":
		view, err := d.service.FullSync(ctx, playerID)
		if err != nil {
			d.hub.ToPlayer(playerID, "no-active-game", map[string]string{"message": err.Error()})
			return
		}
		d.hub.ToPlayer(playerID, service.EventFullStateSync, view)

	case "ack-version":
		var p ackPayload
		if !d.decode(playerID, msg, &p) {
			return
		}
		d.service.AckVersion(ctx, playerID, p.Version)

	case "ping":
		var p pingPayload
		if !d.decode(playerID, msg, &p) {
			return
		}
		d.hub.ToPlayer(playerID, service.EventPong, d.service.Ping(ctx, playerID, p.ClientTime))

	case "leave-room":
		d.service.LeaveRoom(ctx, playerID)

	default:
		log.Printf("Unknown message type %q from %s", msg.Type, playerID)
		d.hub.ToPlayer(playerID, "error", map[string]string{"message": "unknown message type: " + msg.Type})
	}
}

// Disconnected forwards a transport drop to the service.
func (d *Dispatcher) Disconnected(ctx context.Context, playerID string) {
	d.service.HandleDisconnect(ctx, playerID)
}

func (d *Dispatcher) decode(playerID string, msg Message, v interface{}) bool {
	if len(msg.Data) == 0 {
		d.hub.ToPlayer(playerID, "error", map[string]string{"message": "missing payload for " + msg.Type})
		return false
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		log.Printf("Bad %q payload from %s: %v", msg.Type, playerID, err)
		d.hub.ToPlayer(playerID, "error", map[string]string{"message": "bad payload for " + msg.Type})
		return false
	}
	return true
}

func (d *Dispatcher) reply(playerID string, err error) {
	if err != nil {
		d.sendError(playerID, err)
	}
}

func (d *Dispatcher) sendError(playerID string, err error) {
	d.hub.ToPlayer(playerID, "error", map[string]string{"message": err.Error()})
}
