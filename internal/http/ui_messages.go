package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/target/crms-console/internal/domain/model"
	"github.com/target/crms-console/internal/service"
)

func messagesMeta() PageMeta { return PageMeta{Title: "Messaging", CurrentPage: PageMessages} }

// errUnknownUser is returned when the session's username is not in the active user list.
var errUnknownUser = &service.Error{
	Op:      "resolve current user",
	Message: "Your account was not found among active users",
	Err:     errors.New("current user not found"),
}

// Contact is a user in the messaging sidebar with the number of unread messages from them.
type Contact struct {
	User   model.User
	Unread int
}

// resolveMe finds the session's user record. Messaging needs the numeric id.
func resolveMe(ctx context.Context, r *http.Request) (model.User, []model.User, error) {
	sess, _ := SessionFrom(ctx)
	users, err := services(r).Users.ListActive(ctx)
	if err != nil {
		return model.User{}, nil, err
	}
	me, ok := model.FindUserByUsername(users, sess.Username)
	if !ok {
		return model.User{}, users, errUnknownUser
	}
	return me, users, nil
}

// Messages shows the inbox and, with ?with=<userID>, the conversation with that user.
// GET /messages.
func (h *UIHandlers) Messages(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: messagesMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			me, users, err := resolveMe(ctx, r)
			if err != nil {
				return err
			}
			inbox, err := services(r).Messages.ListByReceiver(ctx, me.ID)
			if err != nil {
				return err
			}

			contacts := make([]Contact, 0, len(users))
			for _, u := range users {
				if u.ID == me.ID {
					continue
				}
				contacts = append(contacts, Contact{User: u, Unread: service.CountUnreadFrom(inbox, me.ID, u.ID)})
			}
			data["Me"] = me
			data["Contacts"] = contacts
			data["Inbox"] = inbox
			data["UnreadCount"] = service.CountUnread(inbox, me.ID)
			data["WithID"] = int64(0)

			if with, convErr := strconv.ParseInt(r.URL.Query().Get("with"), 10, 64); convErr == nil && with > 0 {
				conversation, err := services(r).Messages.Conversation(ctx, me.ID, with)
				if err != nil {
					return err
				}
				data["WithID"] = with
				data["Conversation"] = conversation
			}
			return nil
		},
	})
}

// SendMessage posts a message from the current user.
// POST /messages.
func (h *UIHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	in, errs := parseMessageForm(r)
	redirect := "/messages"
	if in.ReceiverID > 0 {
		redirect = "/messages?with=" + strconv.FormatInt(in.ReceiverID, 10)
	}
	h.submitForm(w, r, FormSubmission{
		Meta:   messagesMeta(),
		Mode:   FormModeCreate,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			me, _, err := resolveMe(ctx, r)
			if err != nil {
				return err
			}
			in.SenderID = me.ID
			_, err = services(r).Messages.Create(ctx, in)
			return err
		},
		Redirect: redirect,
	})
}

// MarkMessageRead marks one message as read.
// POST /messages/{id}/read.
func (h *UIHandlers) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.runRowAction(w, r, RowAction{
		Meta: messagesMeta(),
		Run: func(ctx context.Context) error {
			_, err := services(r).Messages.MarkRead(ctx, id)
			return err
		},
		Redirect: "/messages",
	})
}

// DeleteMessage removes a message.
// POST /messages/{id}/delete.
func (h *UIHandlers) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.runRowAction(w, r, RowAction{
		Meta: messagesMeta(),
		Run: func(ctx context.Context) error {
			return services(r).Messages.Delete(ctx, id)
		},
		Redirect: "/messages",
	})
}

// UnreadCount renders the navigation badge; the layout polls it every 30s.
// GET /messages/unread-count.
func (h *UIHandlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count := 0
	me, _, err := resolveMe(ctx, r)
	switch {
	case errors.Is(err, errUnknownUser):
		// Accounts missing from the active list have no inbox; show no badge.
	case err != nil:
		h.presentError(w, r, err, messagesMeta())
		return
	default:
		unread, err := services(r).Messages.ListUnread(ctx, me.ID)
		if err != nil {
			h.presentError(w, r, err, messagesMeta())
			return
		}
		count = len(unread)
	}
	if err := h.T.RenderNamed(w, "unread-badge", map[string]any{"UnreadCount": count}); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
