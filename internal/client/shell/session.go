package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/GophDate/internal/models"
)

// Mode selects how a session starts.
type Mode string

const (
	// Guest calculates without history.
	Guest Mode = "guest"
	// Login authenticates an existing account.
	Login Mode = "login"
	// Register creates an account and logs into it.
	Register Mode = "register"
)

// ErrLoginFailed is returned for an unknown user or a wrong password.
var ErrLoginFailed = errors.New("invalid username or password")

// Accounts registers and authenticates users.
type Accounts interface {
	RegisterUser(ctx context.Context, username, password, email string) error
	LoginUser(ctx context.Context, username, password string) (*models.User, error)
}

// StartSession opens the session in mode. For Login and Register the
// password is read from the shell input.
func (s *Shell) StartSession(ctx context.Context, accounts Accounts, mode Mode, username, email string) error {
	switch mode {
	case Guest, "":
		s.user = models.User{ID: models.GuestID, Username: "guest"}
		fmt.Fprintln(s.out, "Guest mode: calculations are not saved.")
		return nil
	case Login, Register:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if strings.TrimSpace(username) == "" {
		return errors.New("username is required")
	}
	password, err := s.prompt("Password: ")
	if err != nil {
		return err
	}

	if mode == Register {
		if err := accounts.RegisterUser(ctx, username, password, email); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Fprintln(s.out, "User registered.")
	}

	u, err := accounts.LoginUser(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return ErrLoginFailed
	}
	s.user = *u
	fmt.Fprintf(s.out, "Welcome, %s!\n", u.Username)
	return nil
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input")
	}
	return strings.TrimSpace(s.in.Text()), nil
}
