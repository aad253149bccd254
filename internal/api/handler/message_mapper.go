package handler

import (
	"github.com/msgbox/messaging-service/internal/core/ports"
)

// --- Request → Service input ---

func toSendInput(req sendMessageRequest, sender, idempotencyKey string) ports.SendMessageInput {
	return ports.SendMessageInput{
		Sender:         sender,
		Title:          deref(req.Title),
		Body:           deref(req.Body),
		Recipient:      deref(req.Recipient),
		IdempotencyKey: idempotencyKey,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- Domain → Response ---

func toMessageResponse(v ports.MessageView) messageResponse {
	return messageResponse{
		ID:      v.Message.ID.String(),
		Sender:  v.SenderName,
		Title:   v.Message.Title,
		Message: v.Message.Body,
		Status:  v.Message.Status.String(),
	}
}

func toMessageResponses(views []ports.MessageView) []messageResponse {
	out := make([]messageResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toMessageResponse(v))
	}
	return out
}
