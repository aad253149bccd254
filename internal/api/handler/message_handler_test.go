package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

type stubMessageService struct {
	listFn         func(ctx context.Context, username string) ([]ports.MessageView, error)
	listByStatusFn func(ctx context.Context, username string, status domain.MessageStatus) ([]ports.MessageView, error)
	sendFn         func(ctx context.Context, input ports.SendMessageInput) error
	acknowledgeFn  func(ctx context.Context, username, messageID string) error
}

func (s *stubMessageService) List(ctx context.Context, username string) ([]ports.MessageView, error) {
	return s.listFn(ctx, username)
}

func (s *stubMessageService) ListByStatus(ctx context.Context, username string, status domain.MessageStatus) ([]ports.MessageView, error) {
	return s.listByStatusFn(ctx, username, status)
}

func (s *stubMessageService) Send(ctx context.Context, input ports.SendMessageInput) error {
	return s.sendFn(ctx, input)
}

func (s *stubMessageService) Acknowledge(ctx context.Context, username, messageID string) error {
	return s.acknowledgeFn(ctx, username, messageID)
}

func newContext(method, target, body, username string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if username != "" {
		c.Set(ContextUsername, username)
	}
	return c, rec
}

func TestMessageHandler_List_Success(t *testing.T) {
	id := uuid.New()
	stub := &stubMessageService{
		listFn: func(_ context.Context, username string) ([]ports.MessageView, error) {
			if username != "bob" {
				t.Fatalf("unexpected username %q", username)
			}
			return []ports.MessageView{{
				Message:    &domain.Message{ID: id, Title: "Hi", Body: "Hello", Status: domain.StatusNew},
				SenderName: "alice",
			}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/messages/all", "", "bob")

	if err := NewMessageHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp))
	}
	want := map[string]string{"id": id.String(), "sender": "alice", "title": "Hi", "message": "Hello", "status": "New"}
	for k, v := range want {
		if resp[0][k] != v {
			t.Errorf("%s = %q, want %q", k, resp[0][k], v)
		}
	}
}

func TestMessageHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubMessageService{
		listFn: func(context.Context, string) ([]ports.MessageView, error) { return nil, nil },
	}
	c, rec := newContext(http.MethodGet, "/messages/all", "", "bob")

	if err := NewMessageHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestMessageHandler_List_RequiresUsername(t *testing.T) {
	stub := &stubMessageService{
		listFn: func(context.Context, string) ([]ports.MessageView, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodGet, "/messages/all", "", "")

	err := NewMessageHandler(stub).List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestMessageHandler_Filter(t *testing.T) {
	var gotStatus domain.MessageStatus
	stub := &stubMessageService{
		listByStatusFn: func(_ context.Context, _ string, status domain.MessageStatus) ([]ports.MessageView, error) {
			gotStatus = status
			return []ports.MessageView{}, nil
		},
	}
	h := NewMessageHandler(stub)

	c, rec := newContext(http.MethodGet, "/messages/filter/Received", "", "bob")
	c.SetParamNames("status")
	c.SetParamValues("Received")
	if err := h.Filter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotStatus != domain.StatusReceived {
		t.Fatalf("code=%d status=%q", rec.Code, gotStatus)
	}
}

func TestMessageHandler_Filter_RejectsUnknownStatus(t *testing.T) {
	stub := &stubMessageService{
		listByStatusFn: func(context.Context, string, domain.MessageStatus) ([]ports.MessageView, error) {
			t.Fatal("store must not be reached")
			return nil, nil
		},
	}
	h := NewMessageHandler(stub)

	for _, raw := range []string{"Bogus", "received", "Read", "Deleted"} {
		c, _ := newContext(http.MethodGet, "/messages/filter/"+raw, "", "bob")
		c.SetParamNames("status")
		c.SetParamValues(raw)
		if err := h.Filter(c); !errors.Is(err, domain.ErrInvalidStatus) {
			t.Errorf("%s: expected ErrInvalidStatus, got %v", raw, err)
		}
	}
}

func TestMessageHandler_Send_Success(t *testing.T) {
	stub := &stubMessageService{
		sendFn: func(_ context.Context, in ports.SendMessageInput) error {
			want := ports.SendMessageInput{Sender: "alice", Title: "Hi", Body: "Hello Bob", Recipient: "bob", IdempotencyKey: "k-1"}
			if in != want {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/messages/new", `{"title":"Hi","body":"Hello Bob","recipient":"bob"}`, "alice")
	c.Request().Header.Set("Idempotency-Key", "k-1")

	if err := NewMessageHandler(stub).Send(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestMessageHandler_Send_InvalidPayload(t *testing.T) {
	stub := &stubMessageService{
		sendFn: func(context.Context, ports.SendMessageInput) error {
			t.Fatal("should not be called")
			return nil
		},
	}
	h := NewMessageHandler(stub)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing recipient", `{"title":"Hi","body":"x"}`},
		{"null title", `{"title":null,"body":"x","recipient":"bob"}`},
		{"title not a string", `{"title":7,"body":"x","recipient":"bob"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/messages/new", tt.body, "alice")
			err := h.Send(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestMessageHandler_Send_AcceptsAnyStringValues(t *testing.T) {
	long := strings.Repeat("a", 300)
	tests := []struct {
		name string
		body string
		want ports.SendMessageInput
	}{
		{"empty title and body", `{"title":"","body":"","recipient":"bob"}`, ports.SendMessageInput{Sender: "alice", Recipient: "bob"}},
		{"long title", `{"title":"` + long + `","body":"x","recipient":"bob"}`, ports.SendMessageInput{Sender: "alice", Title: long, Body: "x", Recipient: "bob"}},
		{"empty recipient", `{"title":"t","body":"b","recipient":""}`, ports.SendMessageInput{Sender: "alice", Title: "t", Body: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ports.SendMessageInput
			stub := &stubMessageService{
				sendFn: func(_ context.Context, in ports.SendMessageInput) error {
					got = in
					return nil
				},
			}
			c, rec := newContext(http.MethodPost, "/messages/new", tt.body, "alice")

			if err := NewMessageHandler(stub).Send(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", rec.Code)
			}
			if got != tt.want {
				t.Fatalf("input = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMessageHandler_Send_PropagatesDomainError(t *testing.T) {
	stub := &stubMessageService{
		sendFn: func(context.Context, ports.SendMessageInput) error { return domain.ErrRecipientNotFound },
	}
	c, _ := newContext(http.MethodPost, "/messages/new", `{"title":"Hi","body":"x","recipient":"ghost"}`, "alice")

	if err := NewMessageHandler(stub).Send(c); !errors.Is(err, domain.ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}

func TestMessageHandler_Acknowledge(t *testing.T) {
	id := uuid.NewString()
	stub := &stubMessageService{
		acknowledgeFn: func(_ context.Context, username, messageID string) error {
			if username != "bob" || messageID != id {
				t.Fatalf("unexpected args: %s %s", username, messageID)
			}
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/messages/ack/received/"+id, "", "bob")
	c.SetParamNames("message_id")
	c.SetParamValues(id)

	if err := NewMessageHandler(stub).Acknowledge(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMessageHandler_Acknowledge_NotFound(t *testing.T) {
	stub := &stubMessageService{
		acknowledgeFn: func(context.Context, string, string) error { return domain.ErrMessageNotFound },
	}
	c, _ := newContext(http.MethodPost, "/messages/ack/received/x", "", "bob")
	c.SetParamNames("message_id")
	c.SetParamValues(uuid.NewString())

	if err := NewMessageHandler(stub).Acknowledge(c); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
