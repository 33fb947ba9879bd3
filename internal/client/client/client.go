package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/anniv/internal/cryptox"
)

// Account is the account projection returned by registration.
type Account struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	InviterID string `json:"inviter_id"`
}

// SiteInfo is the body of GET /api/info.
type SiteInfo struct {
	SiteName        string   `json:"site_name"`
	Description     string   `json:"description"`
	ProtocolVersion string   `json:"protocol_version"`
	Features        []string `json:"features"`
}

// RegisterParams describes a new account. Password is the raw password;
// only its digest is sent. Empty optional fields are omitted from the
// request.
type RegisterParams struct {
	Username        string
	Email           string
	Nickname        string
	Avatar          string
	Password        []byte
	TwoFactorSecret string
	InviteCode      string
}

type envelope struct {
	Status  uint32          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the API rooted at serverURL.
func New(serverURL string, timeout time.Duration) (*Client, error) {
	if _, err := url.ParseRequestURI(serverURL); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *Client) Info(ctx context.Context) (*SiteInfo, error) {
	var info SiteInfo
	if err := c.do(ctx, http.MethodGet, "/api/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Register(ctx context.Context, p RegisterParams) (*Account, error) {
	body := struct {
		Username        string  `json:"username"`
		Password        string  `json:"password"`
		Email           string  `json:"email"`
		Nickname        string  `json:"nickname"`
		Avatar          string  `json:"avatar"`
		TwoFactorSecret *string `json:"2fa_secret,omitempty"`
		InviteCode      *string `json:"invite_code,omitempty"`
	}{
		Username:        p.Username,
		Password:        cryptox.PasswordDigest(p.Password),
		Email:           p.Email,
		Nickname:        p.Nickname,
		Avatar:          p.Avatar,
		TwoFactorSecret: optional(p.TwoFactorSecret),
		InviteCode:      optional(p.InviteCode),
	}

	var account Account
	if err := c.do(ctx, http.MethodPost, "/api/user/register", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CheckAvailability asks whether email and username are still free. Empty
// values are not checked.
func (c *Client) CheckAvailability(ctx context.Context, email, username string) error {
	body := struct {
		Email    *string `json:"email,omitempty"`
		Username *string `json:"username,omitempty"`
	}{optional(email), optional(username)}
	return c.do(ctx, http.MethodPost, "/api/user/register/check", body, nil)
}

// Login opens a session. code is the current TOTP code, empty when the
// account has no second factor.
func (c *Client) Login(ctx context.Context, email string, password []byte, code string) error {
	body := struct {
		Email         string  `json:"email"`
		Password      string  `json:"password"`
		TwoFactorCode *string `json:"2fa_code,omitempty"`
	}{email, cryptox.PasswordDigest(password), optional(code)}
	return c.do(ctx, http.MethodPost, "/api/user/login", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/user/logout", nil, nil)
}

func (c *Client) Revoke(ctx context.Context, id string) error {
	body := struct {
		ID string `json:"id"`
	}{id}
	return c.do(ctx, http.MethodPost, "/api/user/revoke", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusOK:
	default:
		return fmt.Errorf("unexpected response: %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Status != 0 {
		return &StatusError{Status: env.Status, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
