package service

import (
	"context"
	"net/http"

	"github.com/target/crms-console/internal/domain/model"
)

// MessageService wraps the /messages endpoints. Messaging is request/response only.
type MessageService struct {
	gateway Gateway
}

// NewMessageService constructs a MessageService.
func NewMessageService(gw Gateway) *MessageService { return &MessageService{gateway: gw} }

func (s *MessageService) List(ctx context.Context) ([]model.Message, error) {
	return fetch[[]model.Message](ctx, s.gateway, "/messages", "list messages", "Failed to fetch messages")
}

func (s *MessageService) Get(ctx context.Context, id int64) (model.Message, error) {
	return fetch[model.Message](ctx, s.gateway, resourcePath("messages", id), "get message", "Failed to fetch message")
}

func (s *MessageService) Create(ctx context.Context, in model.MessageInput) (model.Message, error) {
	if in.Subject == "" {
		in.Subject = model.DefaultSubject
	}
	return call[model.Message](ctx, s.gateway, http.MethodPost, "/messages", in,
		"create message", "Failed to create message")
}

func (s *MessageService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.gateway, resourcePath("messages", id), "delete message", "Failed to delete message")
}

func (s *MessageService) ListBySender(ctx context.Context, userID int64) ([]model.Message, error) {
	return fetch[[]model.Message](ctx, s.gateway, resourcePath("messages", "sender", userID),
		"list messages by sender", "Failed to fetch messages by sender")
}

func (s *MessageService) ListByReceiver(ctx context.Context, userID int64) ([]model.Message, error) {
	return fetch[[]model.Message](ctx, s.gateway, resourcePath("messages", "receiver", userID),
		"list messages by receiver", "Failed to fetch messages by receiver")
}

// Conversation lists messages exchanged between two users.
func (s *MessageService) Conversation(ctx context.Context, a, b int64) ([]model.Message, error) {
	return fetch[[]model.Message](ctx, s.gateway, resourcePath("messages", "conversation", a, b),
		"conversation", "Failed to fetch conversation")
}

func (s *MessageService) ListUnread(ctx context.Context, userID int64) ([]model.Message, error) {
	return fetch[[]model.Message](ctx, s.gateway, resourcePath("messages", "unread", userID),
		"list unread messages", "Failed to fetch unread messages")
}

func (s *MessageService) MarkRead(ctx context.Context, id int64) (model.Message, error) {
	return call[model.Message](ctx, s.gateway, http.MethodPut, resourcePath("messages", id, "read"), nil,
		"mark message read", "Failed to mark message as read")
}
