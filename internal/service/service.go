package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/crms-console/internal/gateway"
)

// Gateway is the outbound API path the services depend on; *gateway.Client satisfies it.
type Gateway interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// Error is a resource-scoped failure. Message is the text shown to the operator;
// Err is the gateway kind (ErrUnauthorized, *RequestFailedError, ErrNetworkUnavailable).
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the operator-facing text of err.
func UserMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	if err == nil {
		return ""
	}
	return "Something went wrong"
}

func wrap(op, message string, err error) error {
	return &Error{Op: op, Message: message, Err: err}
}

// resourcePath joins escaped segments into an API path: resourcePath("cases", 7, "close") = "/cases/7/close".
func resourcePath(segments ...any) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		switch v := s.(type) {
		case string:
			b.WriteString(url.PathEscape(v))
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case int:
			b.WriteString(strconv.Itoa(v))
		default:
			b.WriteString(url.PathEscape(fmt.Sprint(v)))
		}
	}
	return b.String()
}

// call issues one authenticated request and decodes into T.
func call[T any](ctx context.Context, gw Gateway, method, path string, body any, op, message string) (T, error) {
	var out T
	req := gateway.Request{Method: method, Path: path, Body: body, RequiresAuth: true}
	if err := gw.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, wrap(op, message, err)
	}
	return out, nil
}

func fetch[T any](ctx context.Context, gw Gateway, path, op, message string) (T, error) {
	return call[T](ctx, gw, http.MethodGet, path, nil, op, message)
}

func remove(ctx context.Context, gw Gateway, path, op, message string) error {
	req := gateway.Request{Method: http.MethodDelete, Path: path, RequiresAuth: true}
	if err := gw.Do(ctx, req, nil); err != nil {
		return wrap(op, message, err)
	}
	return nil
}

// Set bundles the resource services bound to one gateway and session.
type Set struct {
	Auth      *AuthService
	Users     *UserService
	Reports   *ReportService
	Cases     *CaseService
	Messages  *MessageService
	Analytics *AnalyticsService
}

// SetOptions groups dependencies for NewSet.
type SetOptions struct {
	Gateway  Gateway      // Required
	Sessions SessionStore // Required for Auth
	Logger   *slog.Logger // Optional
}

// NewSet constructs every service over the same gateway.
func NewSet(opts SetOptions) *Set {
	if opts.Gateway == nil {
		panic("Gateway is required")
	}
	return &Set{
		Auth:      NewAuthService(AuthServiceOptions{Gateway: opts.Gateway, Sessions: opts.Sessions, Logger: opts.Logger}),
		Users:     NewUserService(opts.Gateway),
		Reports:   NewReportService(opts.Gateway),
		Cases:     NewCaseService(opts.Gateway),
		Messages:  NewMessageService(opts.Gateway),
		Analytics: NewAnalyticsService(opts.Gateway),
	}
}
