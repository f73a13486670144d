// Package client talks to a daygrid server over HTTP and keeps the
// login session on disk.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
)

// Session holds the persisted login state
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// APIError is an error response from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// Client is the daygrid API client
type Client struct {
	session     *Session
	sessionPath string
	httpClient  *http.Client
}

// NewClient creates a client with the session stored under ~/.daygrid
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return newClientAt(filepath.Join(home, ".daygrid", "session.json")), nil
}

func newClientAt(sessionPath string) *Client {
	c := &Client{
		sessionPath: sessionPath,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	c.loadSession()
	return c
}

func (c *Client) loadSession() {
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		c.session = &Session{
			ServerURL: "http://localhost:8080",
		}
		return
	}

	c.session = &Session{}
	json.Unmarshal(data, c.session)
}

func (c *Client) saveSession() error {
	dir := filepath.Dir(c.sessionPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.sessionPath, data, 0600)
}

// SetServer sets the server URL
func (c *Client) SetServer(url string) error {
	c.session.ServerURL = url
	return c.saveSession()
}

// ServerURL returns the configured server URL
func (c *Client) ServerURL() string {
	return c.session.ServerURL
}

// IsLoggedIn returns true if a token is stored
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// Username returns the logged-in username
func (c *Client) Username() string {
	return c.session.Username
}

// do sends an authenticated request with an optional JSON body.
func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	url := c.session.ServerURL + path
	logger.Debug("HTTP request", logger.F("method", method), logger.F("url", url))

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed", logger.F("error", err), logger.F("url", url))
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return resp, nil
}

// apiError drains the response body and returns it as an APIError.
func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// decode reads a JSON response into out, or returns the server error.
func decode(resp *http.Response, want int, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return apiError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Register creates a new account on the server. It does not log in.
func (c *Client) Register(username, email, password string) (*model.User, error) {
	resp, err := c.do("POST", "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decode(resp, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the session token.
func (c *Client) Login(email, password string) error {
	resp, err := c.do("POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return err
	}

	c.session.Token = result.Token

	// Record who we are for status display.
	user, err := c.Profile()
	if err != nil {
		c.session.Token = ""
		return err
	}
	c.session.UserID = user.ID
	c.session.Username = user.Username
	c.session.Email = user.Email

	return c.saveSession()
}

// Logout clears the stored session
func (c *Client) Logout() error {
	c.session.Token = ""
	c.session.UserID = 0
	c.session.Username = ""
	c.session.Email = ""
	return c.saveSession()
}

// Profile fetches the logged-in user's profile
func (c *Client) Profile() (*model.User, error) {
	resp, err := c.do("GET", "/api/auth/profile", nil)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decode(resp, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate names the profile fields to change. Nil fields are
// left untouched on the server.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// UpdateProfile changes username and/or email.
func (c *Client) UpdateProfile(update ProfileUpdate) (*model.User, error) {
	resp, err := c.do("PUT", "/api/auth/profile", update)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decode(resp, http.StatusOK, &user); err != nil {
		return nil, err
	}

	c.session.Username = user.Username
	c.session.Email = user.Email
	if err := c.saveSession(); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the account password.
func (c *Client) ChangePassword(oldPassword, newPassword string) error {
	resp, err := c.do("PUT", "/api/auth/change-password", map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	})
	if err != nil {
		return err
	}
	return decode(resp, http.StatusOK, nil)
}

// DeleteAccount deletes the account and clears the session.
func (c *Client) DeleteAccount() error {
	resp, err := c.do("DELETE", "/api/auth/delete", nil)
	if err != nil {
		return err
	}
	if err := decode(resp, http.StatusOK, nil); err != nil {
		return err
	}
	return c.Logout()
}
