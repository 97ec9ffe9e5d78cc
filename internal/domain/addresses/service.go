package addresses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	ClientID  string
	Name      string
	Latitude  float64
	Longitude float64
	Reference string
	Primary   bool
}

// Create registra la dirección. Si viene marcada como principal, el
// servidor desmarca las demás: la exclusividad se garantiza aquí, no
// en el cliente.
func (s *Service) Create(ctx context.Context, in CreateInput) (Address, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.ClientID == "" || in.Name == "" {
		return Address{}, ErrInvalidInput
	}

	existing, err := s.repo.ListByClient(ctx, in.ClientID)
	if err != nil {
		return Address{}, err
	}
	// La primera dirección del cliente siempre queda como principal.
	if len(existing) == 0 {
		in.Primary = true
	}
	if in.Primary {
		if err := s.repo.UnmarkPrimary(ctx, in.ClientID); err != nil {
			return Address{}, err
		}
	}

	a := Address{
		ID:        uuid.NewString(),
		ClientID:  in.ClientID,
		Name:      in.Name,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Reference: strings.TrimSpace(in.Reference),
		Primary:   in.Primary,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Address, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) GetByID(ctx context.Context, id string) (Address, error) {
	return s.repo.GetByID(ctx, id)
}

// PrimaryFor devuelve la dirección principal del cliente si existe.
func (s *Service) PrimaryFor(ctx context.Context, clientID string) (Address, bool, error) {
	items, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return Address{}, false, err
	}
	for _, a := range items {
		if a.Primary {
			return a, true, nil
		}
	}
	return Address{}, false, nil
}

type UpdateInput struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
	Reference *string
	Primary   *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Address{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Address{}, ErrInvalidInput
		}
		a.Name = name
	}
	if in.Latitude != nil {
		a.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		a.Longitude = *in.Longitude
	}
	if in.Reference != nil {
		a.Reference = strings.TrimSpace(*in.Reference)
	}
	if in.Primary != nil && *in.Primary && !a.Primary {
		if err := s.repo.UnmarkPrimary(ctx, a.ClientID); err != nil {
			return Address{}, err
		}
		a.Primary = true
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
