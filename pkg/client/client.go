// Package client speaks the classroom messaging REST API: feed reads,
// message sends, contact listing and the unread counter.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"classechat/pkg/httpx"
	"classechat/pkg/models"
)

// Config configures a Client. Zero values fall back to sane defaults.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:3000/api".
	BaseURL string
	// Doer is the transport adapter; nil means net/http with the default
	// timeout.
	Doer httpx.Doer
	// APIKey, when set, is sent as the Authorization bearer token.
	APIKey string
	// RPS and Burst bound outgoing requests across all operations.
	RPS   float64
	Burst int
}

// Client is safe for concurrent use.
type Client struct {
	base    string
	doer    httpx.Doer
	apiKey  string
	limiter *rate.Limiter
}

func New(cfg Config) *Client {
	doer := cfg.Doer
	if doer == nil {
		doer = httpx.NewNetHTTP(httpx.DefaultTimeout)
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		doer:    doer,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// ClassFeed returns the public feed of a class, ordered as the server
// returns it (newest first).
func (c *Client) ClassFeed(ctx context.Context, classID int64) ([]models.Message, error) {
	var out []models.Message
	if err := c.get(ctx, fmt.Sprintf("/messages/classe/%d", classID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Conversation returns the private feed between two users. Argument order
// does not matter to the server.
func (c *Client) Conversation(ctx context.Context, userA, userB int64) ([]models.Message, error) {
	var out []models.Message
	if err := c.get(ctx, fmt.Sprintf("/messages/conversation/%d/%d", userA, userB), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchFeed dispatches on the key's scope. The session supplies the current
// user for private keys.
func (c *Client) FetchFeed(ctx context.Context, sess models.Session, key models.ConversationKey) ([]models.Message, error) {
	if !key.Valid() {
		return nil, ErrMissingTarget
	}
	if key.Scope == models.ScopePublic {
		return c.ClassFeed(ctx, key.ClassID)
	}
	peer := key.Peer(sess.UserID)
	if peer == 0 {
		return nil, ErrMissingTarget
	}
	return c.Conversation(ctx, sess.UserID, peer)
}

type sendRequest struct {
	SenderID    int64        `json:"expediteur_id"`
	Body        string       `json:"contenu"`
	Scope       models.Scope `json:"type_message"`
	ClassID     int64        `json:"classe_id,omitempty"`
	RecipientID int64        `json:"destinataire_id,omitempty"`
}

type sendResponse struct {
	Data models.Message `json:"data"`
}

// Send posts one message to the conversation addressed by key and returns
// the persisted message with its server-assigned id and timestamp. The body
// is trimmed; an empty result is rejected before any request goes out.
func (c *Client) Send(ctx context.Context, sess models.Session, key models.ConversationKey, body string) (models.Message, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return models.Message{}, ErrEmptyBody
	}
	if !key.Valid() {
		return models.Message{}, ErrMissingTarget
	}
	req := sendRequest{SenderID: sess.UserID, Body: trimmed, Scope: key.Scope}
	if key.Scope == models.ScopePublic {
		req.ClassID = key.ClassID
	} else {
		req.RecipientID = key.Peer(sess.UserID)
		if req.RecipientID == 0 {
			return models.Message{}, ErrMissingTarget
		}
	}
	var out sendResponse
	if err := c.post(ctx, "/messages", req, &out); err != nil {
		return models.Message{}, err
	}
	return out.Data, nil
}

// Contacts returns the users the given user has exchanged private messages
// with, in server order.
func (c *Client) Contacts(ctx context.Context, userID int64) ([]models.Contact, error) {
	var out []models.Contact
	if err := c.get(ctx, fmt.Sprintf("/messages/contacts/%d", userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns the number of unread private messages for the user.
func (c *Client) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, fmt.Sprintf("/messages/non-lus/%d", userID), &out); err != nil {
		return 0, err
	}
	if out.Count < 0 {
		return 0, fmt.Errorf("negative unread count %d", out.Count)
	}
	return out.Count, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	header := make(http.Header)
	header.Set("Accept", "application/json")
	if len(body) > 0 {
		header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}
	res, err := c.doer.Do(ctx, method, c.base+path, header, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if res.Status < 200 || res.Status >= 300 {
		return &APIError{Status: res.Status, Message: errorMessage(res.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return &APIError{Status: res.Status, Message: "malformed response body"}
	}
	return nil
}

// errorMessage best-effort extracts a server-provided message from an error
// body. A missing or unparseable body yields the empty string.
func errorMessage(body []byte) string {
	var m struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	if m.Error != "" {
		return m.Error
	}
	return m.Message
}
