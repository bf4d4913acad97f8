package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Remote talks to the PropConnect REST API over HTTP with JSON bodies and a
// bearer token on authenticated calls.
type Remote struct {
	baseURL string
	client  *http.Client
	token   string
}

type RemoteConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

func NewRemote(cfg RemoteConfig) *Remote {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Remote{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		token:   cfg.Token,
	}
}

// SetToken replaces the bearer token, typically after login.
func (r *Remote) SetToken(token string) {
	r.token = token
}

func (r *Remote) ListTickets(ctx context.Context) ([]Ticket, error) {
	var out []Ticket
	if err := r.do(ctx, http.MethodGet, "/maintenance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Remote) CreateTicket(ctx context.Context, in TicketInput) (Ticket, error) {
	var out Ticket
	if err := r.do(ctx, http.MethodPost, "/maintenance", in, &out); err != nil {
		return Ticket{}, err
	}
	return out, nil
}

func (r *Remote) UpdateTicket(ctx context.Context, id string, in TicketInput) (Ticket, error) {
	var out Ticket
	if err := r.do(ctx, http.MethodPut, "/maintenance/"+url.PathEscape(id), in, &out); err != nil {
		return Ticket{}, err
	}
	return out, nil
}

func (r *Remote) DeleteTicket(ctx context.Context, id string) error {
	// The delete endpoint answers {success, message} rather than the usual
	// data envelope; the status code alone decides the outcome.
	return r.do(ctx, http.MethodDelete, "/maintenance/"+url.PathEscape(id), nil, nil)
}

func (r *Remote) ListContacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := r.do(ctx, http.MethodGet, "/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Remote) ListMessages(ctx context.Context, contactID string) ([]Message, error) {
	var out []Message
	if err := r.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID)+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Remote) SendMessage(ctx context.Context, contactID, text string) (Message, error) {
	var out Message
	body := map[string]string{"text": text}
	if err := r.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(contactID)+"/messages", body, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}

func (r *Remote) MarkRead(ctx context.Context, contactID string) error {
	return r.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(contactID)+"/read", nil, nil)
}

func (r *Remote) Login(ctx context.Context, creds Credentials) (Session, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	var out Session
	if err := r.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return Session{}, err
	}
	r.token = out.Token
	return out, nil
}

func (r *Remote) Register(ctx context.Context, reg Registration) (Session, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	var out Session
	if err := r.do(ctx, http.MethodPost, "/auth/register", reg, &out); err != nil {
		return Session{}, err
	}
	r.token = out.Token
	return out, nil
}

// do performs one round trip, unwrapping the {"data": ...} envelope into out.
func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return r.statusError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (r *Remote) statusError(status int, raw []byte) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	switch status {
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("server returned %d: %s", status, msg)
}
