// Package api implements the HTTP client for the Legal Aid Assistant backend
// and its authentication service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ritankar/legalaid/internal/model/chat"
	"github.com/ritankar/legalaid/internal/model/document"
	"github.com/ritankar/legalaid/internal/model/user"
)

// generateQuery is the fixed query the client sends with document requests.
const generateQuery = "Generate document based on inputs"

// Client talks to the Legal Aid Assistant API. All methods issue exactly one
// request; retry policy is left to the user resending manually.
type Client struct {
	baseURL string
	authURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the given chat and auth base URLs.
func NewClient(baseURL, authURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		authURL: strings.TrimRight(authURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Chat sends one user query and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, userID, query string) (string, error) {
	payload := map[string]string{"user_query": query, "user_id": userID}
	body, err := c.post(ctx, c.baseURL+"/chat", payload)
	if err != nil {
		return "", err
	}
	return replyText(body), nil
}

// replyText extracts the assistant reply, preferring the response field, then
// message, then the raw body.
func replyText(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"response", "message"} {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			var text string
			if err := json.Unmarshal(raw, &text); err == nil && text != "" {
				return text
			}
		}
	}
	return string(body)
}

// Templates fetches the document templates currently offered by the backend.
// A payload without a templates field is an empty catalog, not an error.
func (c *Client) Templates(ctx context.Context) ([]document.Template, error) {
	body, err := c.get(ctx, c.baseURL+"/templates")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Templates []document.Template `json:"templates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return payload.Templates, nil
}

// GenerateDocument asks the backend to render one document from a template
// and a snapshot of field values, returning the artifact URL.
func (c *Client) GenerateDocument(ctx context.Context, templateID string, inputs map[string]string) (string, error) {
	if inputs == nil {
		inputs = map[string]string{}
	}
	payload := map[string]any{
		"template_name": templateID,
		"user_inputs":   inputs,
		"user_query":    generateQuery,
	}
	body, err := c.post(ctx, c.baseURL+"/document/generate", payload)
	if err != nil {
		return "", err
	}
	var resp struct {
		PDFURL string `json:"pdf_url"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if resp.PDFURL == "" {
		return "", fmt.Errorf("generate response missing pdf_url")
	}
	return resp.PDFURL, nil
}

// Login authenticates the account and returns its profile. The auth service
// answers 200 with an error field on bad credentials, so that case is checked
// explicitly.
func (c *Client) Login(ctx context.Context, email, password string) (user.Profile, error) {
	payload := map[string]string{"email": email, "password": password}
	body, err := c.post(ctx, c.authURL+"/login", payload)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Detail() != "" {
			return user.Profile{}, fmt.Errorf("login rejected: %s", statusErr.Detail())
		}
		return user.Profile{}, err
	}

	var resp struct {
		Message   string `json:"message"`
		Error     string `json:"error"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return user.Profile{}, fmt.Errorf("decode login response: %w", err)
	}
	if resp.Error != "" {
		return user.Profile{}, fmt.Errorf("login rejected: %s", resp.Error)
	}

	first := resp.FirstName
	if first == "" {
		first = "User"
	}
	return user.Profile{Email: email, FirstName: first, LastName: resp.LastName}, nil
}

// Signup registers a new account. The caller logs in separately afterwards.
func (c *Client) Signup(ctx context.Context, email, password, firstName, lastName string) error {
	payload := map[string]string{
		"email":     email,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}
	body, err := c.post(ctx, c.authURL+"/signup", payload)
	if err != nil {
		return err
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode signup response: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("signup rejected: %s", resp.Error)
	}
	return nil
}

// SessionSummary describes one saved conversation for the dashboard.
type SessionSummary struct {
	ID        string `json:"session_id"`
	Timestamp string `json:"timestamp"`
	Preview   string `json:"preview"`
}

// RecentSessions lists the account's latest saved conversations.
func (c *Client) RecentSessions(ctx context.Context, userID string) ([]SessionSummary, error) {
	endpoint := c.baseURL + "/chat/history?user_id=" + url.QueryEscape(userID)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Sessions []SessionSummary `json:"sessions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return payload.Sessions, nil
}

// SessionMessages fetches the full transcript of a saved conversation.
func (c *Client) SessionMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	body, err := c.get(ctx, c.baseURL+"/chat/session/"+url.PathEscape(sessionID))
	if err != nil {
		return nil, err
	}
	var payload struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return payload.Messages, nil
}

// SaveSession persists the backend's current conversation memory and returns
// the new session id. Passing a prior id replaces that saved session.
func (c *Client) SaveSession(ctx context.Context, userID, priorSessionID string) (string, error) {
	payload := map[string]string{"user_id": userID}
	if priorSessionID != "" {
		payload["session_id"] = priorSessionID
	}
	body, err := c.post(ctx, c.baseURL+"/chat/save", payload)
	if err != nil {
		return "", err
	}
	var resp struct {
		Status    string `json:"status"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode save response: %w", err)
	}
	return resp.SessionID, nil
}

// NewChat clears the backend's conversation memory for the user.
func (c *Client) NewChat(ctx context.Context, userID string) error {
	_, err := c.post(ctx, c.baseURL+"/chat/new", map[string]string{"user_id": userID})
	return err
}

// RestoreChat loads a saved transcript back into the backend's memory so the
// conversation can continue where it left off.
func (c *Client) RestoreChat(ctx context.Context, userID string, messages []chat.Message) error {
	payload := map[string]any{"user_id": userID, "messages": messages}
	_, err := c.post(ctx, c.baseURL+"/chat/restore", payload)
	return err
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("backend rejected request",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}
