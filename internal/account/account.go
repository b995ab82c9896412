package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/quizdesk/internal/apperr"
	"github.com/mind-engage/quizdesk/internal/validator"
)

const DefaultRole = "author"

var (
	ErrUserNotFound = apperr.E(apperr.NotFound, "User not found")
	ErrEmailTaken   = apperr.E(apperr.Conflict, "Email already exists")
	ErrBadPassword  = apperr.E(apperr.Unauthorized, "Invalid credentials")
)

// User is the stored record. PasswordHash never leaves this package's callers
// through Identity.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Identity() Identity { return Identity{ID: u.ID, Name: u.Name, Email: u.Email} }

type Session struct {
	Identity
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserStore interface {
	Create(ctx context.Context, u User) error // ErrEmailTaken on duplicate email
	ByEmail(ctx context.Context, email string) (User, error)
	ByID(ctx context.Context, id string) (User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
}

type TokenIssuer interface {
	IssueJWT(sub, email, role string) (string, error)
}

type Service struct {
	Users    UserStore
	Tokens   TokenIssuer
	Cost     int           // bcrypt cost; 0 means bcrypt.DefaultCost
	TokenTTL time.Duration // reported as Session.ExpiresAt
	NewID    func() string
	Now      func() time.Time
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (Identity, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return Identity{}, apperr.E(apperr.Validation, "All fields are required")
	}
	if !validator.ValidEmail(in.Email) {
		return Identity{}, apperr.E(apperr.InvalidFormat, "Invalid email format")
	}
	email := validator.NormalizeEmail(in.Email)
	// a taken address reports Conflict even when the password is also weak
	switch _, err := s.Users.ByEmail(ctx, email); {
	case err == nil:
		return Identity{}, ErrEmailTaken
	case !apperr.Is(err, apperr.NotFound):
		return Identity{}, err
	}
	if !validator.StrongPassword(in.Password) {
		return Identity{}, apperr.E(apperr.WeakPassword, "Password must be at least 6 characters long")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Internal, "hash password", err)
	}
	u := User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         DefaultRole,
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return Identity{}, err
	}
	return u.Identity(), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return Session{}, apperr.E(apperr.Validation, "Email and password are required")
	}
	if !validator.ValidEmail(in.Email) {
		return Session{}, apperr.E(apperr.InvalidFormat, "Invalid email format")
	}
	u, err := s.Users.ByEmail(ctx, validator.NormalizeEmail(in.Email))
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Session{}, ErrBadPassword
		}
		return Session{}, apperr.Wrap(apperr.Internal, "compare password", err)
	}
	role := u.Role
	if role == "" {
		role = DefaultRole
	}
	tok, err := s.Tokens.IssueJWT(u.ID, u.Email, role)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.Internal, "issue token", err)
	}
	return Session{Identity: u.Identity(), AccessToken: tok, ExpiresAt: s.now().Add(s.TokenTTL)}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (Identity, error) {
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	return u.Identity(), nil
}

// ChangePassword replaces the stored hash after verifying the current password.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperr.E(apperr.Validation, "new password required")
	}
	if !validator.StrongPassword(newPassword) {
		return apperr.E(apperr.WeakPassword, "Password must be at least 6 characters long")
	}
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return apperr.E(apperr.Forbidden, "incorrect old password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost())
	if err != nil {
		return apperr.Wrap(apperr.Internal, "hash password", err)
	}
	return s.Users.SetPasswordHash(ctx, userID, string(hash))
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
