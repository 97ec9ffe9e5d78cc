package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-nutrition-platform/internal/platform/token"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("el correo ya está registrado")
	ErrEmailUnknown = errors.New("correo no registrado")
	ErrInactive     = errors.New("la cuenta no está activa")
	ErrBadPassword  = errors.New("contraseña incorrecta")
	ErrRoleUnset    = errors.New("no se ha asignado un rol al usuario")
	ErrNotFound     = errors.New("cuenta no encontrada")
)

type Service struct {
	repo   Repository
	tokens *token.Manager
	now    func() time.Time
}

func NewService(repo Repository, tokens *token.Manager) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string

	Phone string
	Bio   string
}

// Register crea una cuenta con rol cliente y devuelve cuenta + token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, string, error) {
	return s.register(ctx, in, RoleCliente)
}

// RegisterNutricionista crea una cuenta con rol especialista.
func (s *Service) RegisterNutricionista(ctx context.Context, in RegisterInput) (Account, string, error) {
	return s.register(ctx, in, RoleNutricionista)
}

func (s *Service) register(ctx context.Context, in RegisterInput, roleID int) (Account, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return Account{}, "", ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Account{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, "", err
	}

	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		RoleID:       roleID,
		Status:       StatusActive,
		Phone:        strings.TrimSpace(in.Phone),
		Bio:          strings.TrimSpace(in.Bio),
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, "", err
	}

	tok, err := s.tokens.Generate(a.ID, a.RoleID)
	if err != nil {
		return Account{}, "", err
	}
	return a, tok, nil
}

// Login verifica credenciales y emite un token.
// Los errores distinguen correo desconocido / cuenta inactiva / password
// incorrecto, igual que el backend histórico.
func (s *Service) Login(ctx context.Context, email, password string) (Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Account{}, "", ErrInvalidInput
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Account{}, "", ErrEmailUnknown
	}
	if a.Status != StatusActive {
		return Account{}, "", ErrInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Account{}, "", ErrBadPassword
	}
	if a.RoleID == 0 {
		return Account{}, "", ErrRoleUnset
	}

	tok, err := s.tokens.Generate(a.ID, a.RoleID)
	if err != nil {
		return Account{}, "", err
	}

	now := s.now()
	a.LastAccess = &now
	_ = s.repo.Update(ctx, a) // best effort: último acceso no bloquea el login

	return a, tok, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	return a, nil
}
