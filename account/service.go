// Package account is the mock authentication and usage-metering layer.
// All state lives in a Store under two fixed keys.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/complytime/prompt-generator-mcp-server/internal/latency"
)

const (
	UserKey         = "promptgen_user"
	LastUsedDateKey = "promptgen_last_used_date"

	dateLayout        = "2006-01-02"
	minPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("no user logged in")
	ErrDailyLimitReached  = errors.New("daily prompt limit reached")
)

type Options struct {
	// DailyLimit is the prompt allowance for new free users.
	DailyLimit int
	// AuthDelay simulates the login/signup round trip.
	AuthDelay time.Duration
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int

	Now   func() time.Time
	NewID func() string
}

// Service implements login, signup, logout and usage metering. Every
// read-modify-write against the store runs under one mutex.
type Service struct {
	store Store
	log   *slog.Logger
	opts  Options

	mu sync.Mutex
}

func NewService(store Store, baseLog *slog.Logger, opts Options) *Service {
	if opts.DailyLimit <= 0 {
		opts.DailyLimit = 5
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Service{
		store: store,
		log:   baseLog.With("component", "account"),
		opts:  opts,
	}
}

func (s *Service) now() time.Time { return s.opts.Now() }

// Login returns the stored user when the email matches, otherwise it
// creates a fresh free account for the email.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if err := latency.Wait(ctx, s.opts.AuthDelay); err != nil {
		return User{}, err
	}
	if !validCredentials(email, password) {
		return User{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok, err := s.load(ctx)
	if err != nil {
		return User{}, err
	}
	if ok && rec.Email == email {
		if rec.PasswordHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
				s.log.Info("login rejected", "email", email)
				return User{}, ErrInvalidCredentials
			}
		}
		if err := s.resetIfNewDay(ctx, &rec); err != nil {
			return User{}, err
		}
		s.log.Info("user logged in", "email", email, "tier", rec.Tier)
		return rec.User, nil
	}

	rec, err = s.create(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	s.log.Info("created user on login", "email", email, "id", rec.ID)
	return rec.User, nil
}

// Signup always creates a fresh free account, replacing any stored one.
// Credentials are checked the same way Login checks them.
func (s *Service) Signup(ctx context.Context, email, password string) (User, error) {
	if err := latency.Wait(ctx, s.opts.AuthDelay); err != nil {
		return User{}, err
	}
	if !validCredentials(email, password) {
		return User{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.create(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	s.log.Info("user signed up", "email", email, "id", rec.ID)
	return rec.User, nil
}

func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, UserKey); err != nil {
		return err
	}
	s.log.Info("user logged out")
	return nil
}

// Current returns the logged-in user, resetting the daily counter when the
// calendar date has changed since it was last used.
func (s *Service) Current(ctx context.Context) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.current(ctx)
	if err != nil {
		return User{}, err
	}
	return rec.User, nil
}

// Update applies fn to the logged-in user and persists the result.
func (s *Service) Update(ctx context.Context, fn func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.current(ctx)
	if err != nil {
		return User{}, err
	}
	fn(&rec.User)
	if err := s.save(ctx, rec); err != nil {
		return User{}, err
	}
	return rec.User, nil
}

// IncrementUsage consumes one prompt from today's allowance. Premium users
// are never limited. At the limit it returns the user unchanged together
// with ErrDailyLimitReached.
func (s *Service) IncrementUsage(ctx context.Context) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.current(ctx)
	if err != nil {
		return User{}, err
	}
	if rec.IsPremium() {
		return rec.User, nil
	}
	if rec.PromptsUsedToday >= rec.PromptsLimit {
		s.log.Info("daily limit reached", "email", rec.Email, "limit", rec.PromptsLimit)
		return rec.User, fmt.Errorf("%w: %d of %d prompts used today", ErrDailyLimitReached, rec.PromptsUsedToday, rec.PromptsLimit)
	}
	rec.PromptsUsedToday++
	if err := s.save(ctx, rec); err != nil {
		return User{}, err
	}
	return rec.User, nil
}

// RefundUsage gives back one prompt consumed by IncrementUsage when the send
// it paid for did not complete.
func (s *Service) RefundUsage(ctx context.Context) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.current(ctx)
	if err != nil {
		return User{}, err
	}
	if rec.IsPremium() || rec.PromptsUsedToday == 0 {
		return rec.User, nil
	}
	rec.PromptsUsedToday--
	if err := s.save(ctx, rec); err != nil {
		return User{}, err
	}
	return rec.User, nil
}

func (s *Service) current(ctx context.Context) (record, error) {
	rec, ok, err := s.load(ctx)
	if err != nil {
		return record{}, err
	}
	if !ok {
		return record{}, ErrNotLoggedIn
	}
	if err := s.resetIfNewDay(ctx, &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

func (s *Service) create(ctx context.Context, email, password string) (record, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.HashCost)
	if err != nil {
		return record{}, fmt.Errorf("failed to hash password: %w", err)
	}
	rec := record{
		User: User{
			ID:           s.opts.NewID(),
			Email:        email,
			Tier:         TierFree,
			PromptsLimit: s.opts.DailyLimit,
		},
		PasswordHash: string(hash),
	}
	if err := s.save(ctx, rec); err != nil {
		return record{}, err
	}
	if err := s.store.Set(ctx, LastUsedDateKey, s.today()); err != nil {
		return record{}, err
	}
	return rec, nil
}

func (s *Service) resetIfNewDay(ctx context.Context, rec *record) error {
	last, _, err := s.store.Get(ctx, LastUsedDateKey)
	if err != nil {
		return err
	}
	today := s.today()
	if last == today {
		return nil
	}
	s.log.Debug("resetting daily usage", "email", rec.Email, "last_used", last, "today", today)
	rec.PromptsUsedToday = 0
	if err := s.save(ctx, *rec); err != nil {
		return err
	}
	return s.store.Set(ctx, LastUsedDateKey, today)
}

func (s *Service) load(ctx context.Context) (record, bool, error) {
	raw, ok, err := s.store.Get(ctx, UserKey)
	if err != nil || !ok {
		return record{}, false, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, false, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return rec, true, nil
}

func (s *Service) save(ctx context.Context, rec record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.store.Set(ctx, UserKey, string(raw))
}

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}

func validCredentials(email, password string) bool {
	return strings.Contains(email, "@") && len(password) >= minPasswordLength
}
