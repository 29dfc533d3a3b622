package api

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mmcdole/cookie/internal/domain"
	"golang.org/x/term"
)

// Login exchanges email and password for a session
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	root, err := parseEnvelope(body)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		AccessToken:  firstString(root, "response.accessToken", "response.token", "accessToken"),
		RefreshToken: firstString(root, "response.refreshToken", "refreshToken"),
		Nickname:     firstString(root, "response.nickname", "nickname"),
		Admin: strings.EqualFold(firstString(root, "response.role", "role"), "ADMIN") ||
			root.Get("response.admin").Bool(),
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response has no access token", domain.ErrMalformedResponse)
	}
	return session, nil
}

// LoginFlow prompts on the terminal for credentials and logs in
type LoginFlow struct {
	auth domain.Authenticator
	in   io.Reader
	out  io.Writer

	// readPassword reads a line without echo; replaced in tests
	readPassword func() (string, error)
}

// NewLoginFlow creates a terminal login flow reading from stdin
func NewLoginFlow(auth domain.Authenticator) *LoginFlow {
	return &LoginFlow{
		auth: auth,
		in:   os.Stdin,
		out:  os.Stdout,
		readPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
	}
}

// Run prompts for email and password and returns the new session
func (f *LoginFlow) Run(ctx context.Context) (*domain.Session, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Cookie Login")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━")

	reader := bufio.NewReader(f.in)
	fmt.Fprint(f.out, "Email: ")
	email, err := reader.ReadString('\n')
	if err != nil && email == "" {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
	}

	fmt.Fprint(f.out, "Password: ")
	password, err := f.readPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(f.out)

	session, err := f.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(f.out)
	if session.Nickname != "" {
		fmt.Fprintf(f.out, "Logged in as %s\n", session.Nickname)
	} else {
		fmt.Fprintln(f.out, "Login successful!")
	}
	return session, nil
}
