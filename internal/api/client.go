package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
)

// ErrNoToken is returned when an authenticated endpoint is called
// without a bearer token in the session.
var ErrNoToken = errors.New("api: no access token")

const requestTimeout = 15 * time.Second

// Client talks to the Connectly REST API. The realtime socket is
// handled elsewhere; this covers login, the people directory and chat
// history.
type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Session
	logger  *zap.Logger
}

func New(baseURL string, sess *session.Session, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		sess:    sess,
		logger:  logger,
	}
}

type loginResponse struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Login obtains a token pair and then the user's profile, returning a
// complete session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/login/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var lr loginResponse
	if err := c.do(req, &lr); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &session.Session{
		FullName:     lr.FullName,
		Email:        lr.Email,
		AccessToken:  lr.Access,
		RefreshToken: lr.Refresh,
	}

	// The login response carries no user id; the profile endpoint does.
	profile, err := c.profile(ctx, sess.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	sess.UserID = profile.ID
	if sess.FullName == "" {
		sess.FullName = profile.FullName
	}

	return sess, nil
}

func (c *Client) profile(ctx context.Context, token string) (*domain.Peer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/profile/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var p domain.Peer
	if err := c.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPeople returns every other user, for the conversation sidebar.
func (c *Client) FindPeople(ctx context.Context) ([]domain.Peer, error) {
	if c.sess == nil || c.sess.AccessToken == "" {
		return nil, ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/find-people/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.sess.AccessToken)

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("find people: %w", err)
	}

	var peers []domain.Peer
	if err := decodeList(raw, &peers); err != nil {
		return nil, fmt.Errorf("find people: %w", err)
	}
	return peers, nil
}

// wireMessage is one history entry as the backend serializes it.
type wireMessage struct {
	ID        int64     `json:"id"`
	Sender    int64     `json:"sender"`
	Receiver  int64     `json:"receiver"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History fetches the ordered message log with peerID. Fetched messages
// are materialized as Delivered; a later read event upgrades the
// outgoing ones.
func (c *Client) History(ctx context.Context, peerID int64) ([]domain.Message, error) {
	if c.sess == nil || c.sess.AccessToken == "" {
		return nil, ErrNoToken
	}

	url := fmt.Sprintf("%s/api/chat/%d/", c.baseURL, peerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.sess.AccessToken)

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	var wire []wireMessage
	if err := decodeList(raw, &wire); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	msgs := make([]domain.Message, 0, len(wire))
	for _, w := range wire {
		msgs = append(msgs, domain.Message{
			LocalID:   strconv.FormatInt(w.ID, 10),
			PeerID:    peerID,
			SenderID:  w.Sender,
			Content:   w.Content,
			Timestamp: w.Timestamp,
			Status:    domain.StatusDelivered,
			Out:       w.Sender == c.sess.UserID,
		})
	}
	return msgs, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("request failed",
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s: status %d: %s", req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeList accepts either a bare JSON array or a paginated envelope
// with a "results" field, which the backend switches between depending
// on its pagination settings.
func decodeList(raw json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	if envelope.Results == nil {
		return errors.New("response is neither an array nor a paginated envelope")
	}
	return json.Unmarshal(envelope.Results, out)
}
