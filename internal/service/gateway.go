// Package service provides the persistence gateway: user registration and
// login plus the per-user calculation history, delegating storage to a
// Backend chosen once at startup.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/atinyakov/GophDate/internal/models"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 4

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// ErrInvalidInput is returned for an empty username or an unacceptable password.
var ErrInvalidInput = errors.New("invalid input")

// Backend defines the storage operations required by the Gateway.
// Both the relational and the file backend implement it.
type Backend interface {
	// CreateUser stores u and sets u.ID. A taken username yields models.ErrDuplicateUser.
	CreateUser(ctx context.Context, u *models.User) error
	// UserExists reports whether username is registered.
	UserExists(ctx context.Context, username string) (bool, error)
	// UserByUsername returns the user or models.ErrUserNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// AppendCalculation adds calc to the history of userID, applying retention.
	AppendCalculation(ctx context.Context, userID int64, calc models.Calculation) error
	// RecentCalculations returns at most limit entries of userID, newest first.
	RecentCalculations(ctx context.Context, userID int64, limit int) ([]models.Calculation, error)
}

// Gateway implements registration, login and history on top of a Backend.
type Gateway struct {
	backend    Backend
	maxRecords int
	hashCost   int
	now        func() time.Time
	log        *zap.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithClock replaces time.Now for calculation timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithHashCost sets the bcrypt cost of new password hashes.
func WithHashCost(cost int) Option {
	return func(g *Gateway) { g.hashCost = cost }
}

// NewGateway constructs a Gateway over backend keeping maxRecords calculations per user.
func NewGateway(backend Backend, maxRecords int, log *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		backend:    backend,
		maxRecords: maxRecords,
		hashCost:   DefaultHashCost,
		now:        time.Now,
		log:        log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RegisterUser creates an account with a hashed password.
// It returns models.ErrDuplicateUser if the username is taken.
func (g *Gateway) RegisterUser(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must not exceed %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	exists, err := g.backend.UserExists(ctx, username)
	if err != nil {
		g.log.Error("failed to look up user", zap.String("username", username), zap.Error(err))
		return err
	}
	if exists {
		return models.ErrDuplicateUser
	}

	hash, err := HashPassword(password, g.hashCost)
	if err != nil {
		return err
	}
	u := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(email),
		CreatedAt:    g.now().UTC(),
	}
	if err := g.backend.CreateUser(ctx, u); err != nil {
		if !errors.Is(err, models.ErrDuplicateUser) {
			g.log.Error("failed to create user", zap.String("username", username), zap.Error(err))
		}
		return err
	}
	g.log.Info("user registered", zap.String("username", username), zap.Int64("id", u.ID))
	return nil
}

// LoginUser returns the user when username and password match.
//
// An unknown username and a wrong password both yield (nil, nil); callers
// cannot tell them apart. A non-nil error means storage failed.
func (g *Gateway) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	u, err := g.backend.UserByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		g.log.Error("failed to look up user", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, nil
	}
	return &models.User{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}, nil
}

// SaveCalculation appends a calculation to the history of userID.
// Calculations of the guest are dropped without touching storage.
func (g *Gateway) SaveCalculation(ctx context.Context, userID int64, calcType, input, result string) error {
	if userID == models.GuestID {
		return nil
	}
	calc := models.Calculation{
		Type:      calcType,
		Input:     input,
		Result:    result,
		CreatedAt: g.now().UTC(),
	}
	if err := g.backend.AppendCalculation(ctx, userID, calc); err != nil {
		g.log.Error("failed to save calculation", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// GetUserCalculations returns the history of userID, newest first.
// The guest always has an empty history.
func (g *Gateway) GetUserCalculations(ctx context.Context, userID int64) ([]models.Calculation, error) {
	if userID == models.GuestID {
		return []models.Calculation{}, nil
	}
	calcs, err := g.backend.RecentCalculations(ctx, userID, g.maxRecords)
	if err != nil {
		g.log.Error("failed to load calculations", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	if calcs == nil {
		calcs = []models.Calculation{}
	}
	return calcs, nil
}

// ImportCalculations appends calcs to the history of userID oldest first,
// whatever their order in calcs, so the newest ones survive retention.
// Entries without a timestamp go last, stamped with the current time.
// It returns the number of stored entries.
func (g *Gateway) ImportCalculations(ctx context.Context, userID int64, calcs []models.Calculation) (int, error) {
	if userID == models.GuestID {
		return 0, nil
	}
	ordered := slices.Clone(calcs)
	slices.SortStableFunc(ordered, oldestFirst)
	for i, c := range ordered {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = g.now().UTC()
		}
		if err := g.backend.AppendCalculation(ctx, userID, c); err != nil {
			g.log.Error("failed to import calculation", zap.Int64("user_id", userID), zap.Error(err))
			return i, err
		}
	}
	return len(calcs), nil
}

// oldestFirst orders calculations by creation time with undated ones last.
func oldestFirst(a, b models.Calculation) int {
	az, bz := a.CreatedAt.IsZero(), b.CreatedAt.IsZero()
	switch {
	case az && bz:
		return 0
	case az:
		return 1
	case bz:
		return -1
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
