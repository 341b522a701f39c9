// Package session manages the single local account: signup, login, profile
// edits and logout.
//
// Only one account exists per store. Logging out wipes the account together
// with the budget and the expense ledger.
package session

import (
	"context"
	"fmt"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
	"budgetapp/internal/store"
)

// Observer is notified of session outcomes; metrics hook in here.
type Observer interface {
	SessionEvent(op string, err error)
}

type Service struct {
	persist  *store.Persister
	hasher   Hasher
	logger   *log.Logger
	observer Observer
}

type Option func(*Service)

// WithHasher overrides the default bcrypt cost.
func WithHasher(h Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

// WithObserver registers an observer for session events.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func NewService(p *store.Persister, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.Default(log.ComponentSession)
	}
	s := &Service{
		persist: p,
		hasher:  NewHasher(0),
		logger:  logger.WithComponent(log.ComponentSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates the account. It fails with ErrDuplicateAccount when an
// account is already stored, whatever its email.
func (s *Service) SignUp(ctx context.Context, in core.Credentials) (user core.User, err error) {
	defer func() { s.notify(log.OpSignUp, err) }()

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}

	s.persist.Lock()
	defer s.persist.Unlock()

	var existing core.User
	if s.persist.Load(ctx, store.KeyUser, &existing) && existing.Email != "" {
		s.logger.WarnContext(ctx, "Signup rejected, account exists",
			log.FieldOperation, log.OpSignUp, log.FieldErrorType, log.ErrorTypeConflict)
		return core.User{}, core.ErrDuplicateAccount
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return core.User{}, err
	}
	user = core.User{Email: in.Email, PasswordHash: hash}
	if err := s.persist.Save(ctx, store.KeyUser, user); err != nil {
		return core.User{}, fmt.Errorf("save user: %w", err)
	}

	s.logger.InfoContext(ctx, "Account created", log.FieldOperation, log.OpSignUp)
	return user, nil
}

// Login checks the credentials against the stored account. Email comparison
// is exact and case-sensitive.
func (s *Service) Login(ctx context.Context, in core.Credentials) (user core.User, err error) {
	defer func() { s.notify(log.OpLogin, err) }()

	in = in.Normalize()
	s.persist.Lock()
	defer s.persist.Unlock()

	if !s.persist.Load(ctx, store.KeyUser, &user) || user.Email == "" {
		return core.User{}, core.ErrInvalidCredentials
	}
	if user.Email != in.Email || !s.hasher.Matches(user.PasswordHash, in.Password) {
		s.logger.WarnContext(ctx, "Login rejected",
			log.FieldOperation, log.OpLogin, log.FieldErrorType, log.ErrorTypeAuth)
		return core.User{}, core.ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "Login succeeded", log.FieldOperation, log.OpLogin)
	return user, nil
}

// Current returns the stored account or ErrNoSession.
func (s *Service) Current(ctx context.Context) (core.User, error) {
	s.persist.Lock()
	defer s.persist.Unlock()
	return s.current(ctx)
}

func (s *Service) current(ctx context.Context) (core.User, error) {
	var user core.User
	if !s.persist.Load(ctx, store.KeyUser, &user) || user.Email == "" {
		return core.User{}, core.ErrNoSession
	}
	return user, nil
}

// UpdateProfile merges non-empty name and pseudo into the profile and
// replaces the password only when a new one is given.
func (s *Service) UpdateProfile(ctx context.Context, in core.ProfileInput) (user core.User, err error) {
	defer func() { s.notify(log.OpUpdate, err) }()

	if err := in.Validate(); err != nil {
		return core.User{}, err
	}

	s.persist.Lock()
	defer s.persist.Unlock()

	user, err = s.current(ctx)
	if err != nil {
		return core.User{}, err
	}
	user.Profile = in.Apply(user.Profile)
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return core.User{}, err
		}
		user.PasswordHash = hash
	}
	if err := s.persist.Save(ctx, store.KeyUser, user); err != nil {
		return core.User{}, fmt.Errorf("save user: %w", err)
	}

	s.logger.InfoContext(ctx, "Profile updated",
		log.FieldOperation, log.OpUpdate, "password_changed", in.Password != "")
	return user, nil
}

// Logout wipes the account, the budget and the ledger.
func (s *Service) Logout(ctx context.Context) (err error) {
	defer func() { s.notify(log.OpLogout, err) }()

	s.persist.Lock()
	defer s.persist.Unlock()

	if err := s.persist.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.InfoContext(ctx, "Logged out, local data cleared", log.FieldOperation, log.OpLogout)
	return nil
}

func (s *Service) notify(op string, err error) {
	if s.observer != nil {
		s.observer.SessionEvent(op, err)
	}
}
