package http

import (
	"encoding/json"
	"errors"

	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/proto"
)

type actionKind int

const (
	actionUnknown actionKind = iota
	actionIdentify
	actionJoin
	actionSend
)

// action is a decoded inbound frame ready for the hub.
type action struct {
	kind    actionKind
	userID  string
	room    string
	payload json.RawMessage
}

func inboundToAction(inbound proto.Inbound) (action, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeIdentify:
		var data proto.IdentifyData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed identify payload"}
		}
		if data.UserID == "" {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user_id is required"}
		}
		return action{kind: actionIdentify, userID: data.UserID}, nil
	case proto.InboundTypeJoin:
		var data proto.JoinData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed join payload"}
		}
		if data.Room == "" {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
		}
		return action{kind: actionJoin, room: data.Room}, nil
	case proto.InboundTypeSend:
		var data proto.SendData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed send payload"}
		}
		if data.Room == "" {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
		}
		if len(data.Message) == 0 {
			return action{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message is required"}
		}
		return action{kind: actionSend, room: data.Room, payload: data.Message}, nil
	default:
		return action{kind: actionUnknown}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventMessage,
		Data: proto.MessageData{
			Room:    event.Room,
			Sender:  event.Sender,
			Message: event.Payload,
		},
	}
}

func errorFrame(err error) *proto.Outbound {
	var coreErr *core.CoreError
	if errors.As(err, &coreErr) {
		return &proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: coreErr.Code, Msg: coreErr.Message},
		}
	}
	return &proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: "internal", Msg: "internal error"},
	}
}
