package nutrition

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/catalog"
	"pet-nutrition-platform/internal/domain/pets"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNotOwner        = errors.New("pet does not belong to client")
	ErrAlreadyReviewed = errors.New("request already reviewed")
)

// PetRecords es la vista del módulo de mascotas que necesita nutrición:
// validar pertenencia y anotar la ficha clínica. La implementa
// *pets.Service.
type PetRecords interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
	Detail(ctx context.Context, petID string) (pets.Detail, error)
	AddAllergyNote(ctx context.Context, petID, description string) (pets.AllergyNote, error)
	AddHealthCondition(ctx context.Context, petID, name string) (pets.HealthCondition, error)
	AddFoodPreference(ctx context.Context, petID, name, description string) (pets.FoodPreference, error)
	AddPrescription(ctx context.Context, petID, requestID, filePath string) (pets.Prescription, error)
}

// Dishes es la vista del catálogo: crear platos ocultos (mixes) y
// buscar ingredientes. La implementa *catalog.Service.
type Dishes interface {
	CreateDish(ctx context.Context, in catalog.CreateDishInput) (catalog.Dish, error)
	GetDish(ctx context.Context, id string) (catalog.Dish, error)
	Search(ctx context.Context, q string) ([]catalog.Dish, error)
}

type Service struct {
	repo   Repository
	pets   PetRecords
	dishes Dishes
	now    func() time.Time
}

func NewService(repo Repository, petRecords PetRecords, dishes Dishes) *Service {
	return &Service{repo: repo, pets: petRecords, dishes: dishes, now: time.Now}
}

// HasActiveRequests se inyecta en el servicio de mascotas para decidir
// entre borrado lógico y borrado real.
func (s *Service) HasActiveRequests(ctx context.Context, petID string) (bool, error) {
	reqs, err := s.repo.ListRequestsByPet(ctx, petID)
	if err != nil {
		return false, err
	}
	for _, r := range reqs {
		if r.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

type SubmitAllergy struct {
	Description string
}

type SubmitCondition struct {
	Name string
}

type SubmitPreference struct {
	Name        string
	Description string
}

type SubmitInput struct {
	ClientID  string
	PetID     string
	Objective string

	Allergies   []SubmitAllergy
	Conditions  []SubmitCondition
	Preferences []SubmitPreference

	RecetaPath    string
	ExtraFilePath string
}

// SubmitRequest registra la solicitud y vuelca las declaraciones del
// formulario a la ficha de la mascota. La receta queda ligada a la
// solicitud para que el nutricionista la vea en el detalle.
func (s *Service) SubmitRequest(ctx context.Context, in SubmitInput) (Request, error) {
	in.Objective = strings.TrimSpace(in.Objective)
	if in.ClientID == "" || in.PetID == "" || in.Objective == "" {
		return Request{}, ErrInvalidInput
	}

	owner, err := s.pets.OwnerOf(ctx, in.PetID)
	if err != nil {
		return Request{}, ErrNotFound
	}
	if owner != in.ClientID {
		return Request{}, ErrNotOwner
	}

	req := Request{
		ID:            uuid.NewString(),
		ClientID:      in.ClientID,
		PetID:         in.PetID,
		Objective:     in.Objective,
		RecetaPath:    in.RecetaPath,
		ExtraFilePath: in.ExtraFilePath,
		Status:        StatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return Request{}, err
	}

	// Las anotaciones a la ficha son best-effort: la solicitud ya
	// existe y es lo que el nutricionista atiende.
	for _, a := range in.Allergies {
		_, _ = s.pets.AddAllergyNote(ctx, in.PetID, a.Description)
	}
	for _, c := range in.Conditions {
		_, _ = s.pets.AddHealthCondition(ctx, in.PetID, c.Name)
	}
	for _, p := range in.Preferences {
		_, _ = s.pets.AddFoodPreference(ctx, in.PetID, p.Name, p.Description)
	}
	if in.RecetaPath != "" {
		_, _ = s.pets.AddPrescription(ctx, in.PetID, req.ID, in.RecetaPath)
	}

	return req, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Request, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListRequestsByClient(ctx, clientID)
}

// PendingRequests es la bandeja de entrada del nutricionista.
func (s *Service) PendingRequests(ctx context.Context) ([]Request, error) {
	return s.repo.ListRequestsByStatus(ctx, StatusPending)
}

// RequestDetail agrupa la solicitud con la ficha completa de la mascota
// y, si ya fue revisada, su consulta.
type RequestDetail struct {
	Request      Request
	Pet          pets.Detail
	Consultation *Consultation
}

func (s *Service) Detail(ctx context.Context, requestID string) (RequestDetail, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return RequestDetail{}, err
	}
	petDetail, err := s.pets.Detail(ctx, req.PetID)
	if err != nil {
		return RequestDetail{}, err
	}
	out := RequestDetail{Request: req, Pet: petDetail}
	if c, ok, err := s.repo.FindConsultationByRequest(ctx, requestID); err != nil {
		return RequestDetail{}, err
	} else if ok {
		out.Consultation = &c
	}
	return out, nil
}

type ReviewInput struct {
	NutricionistaID string
	Diagnosis       string
	Recommendations string
	Observations    string
	Approve         bool // true: atendido, false: observado
}

// Review cierra la solicitud con una consulta. Los tres campos de texto
// son obligatorios; una solicitud se revisa una sola vez.
func (s *Service) Review(ctx context.Context, requestID string, in ReviewInput) (Consultation, error) {
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)
	in.Recommendations = strings.TrimSpace(in.Recommendations)
	in.Observations = strings.TrimSpace(in.Observations)
	if in.NutricionistaID == "" || in.Diagnosis == "" || in.Recommendations == "" || in.Observations == "" {
		return Consultation{}, ErrInvalidInput
	}

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return Consultation{}, err
	}
	if req.Status != StatusPending {
		return Consultation{}, ErrAlreadyReviewed
	}

	c := Consultation{
		ID:              uuid.NewString(),
		RequestID:       requestID,
		NutricionistaID: in.NutricionistaID,
		Diagnosis:       in.Diagnosis,
		Recommendations: in.Recommendations,
		Observations:    in.Observations,
		CreatedAt:       s.now(),
	}
	if err := s.repo.CreateConsultation(ctx, c); err != nil {
		return Consultation{}, err
	}

	now := s.now()
	if in.Approve {
		req.Status = StatusAttended
	} else {
		req.Status = StatusObserved
	}
	req.ReviewedAt = &now
	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return Consultation{}, err
	}

	title := "Solicitud atendida"
	body := "Tu solicitud especializada fue atendida por el nutricionista."
	if !in.Approve {
		title = "Solicitud observada"
		body = "Tu solicitud tiene observaciones. Revisa los comentarios del nutricionista."
	}
	_ = s.notify(ctx, req.ClientID, title, body)

	return c, nil
}

func (s *Service) ConsultationHistory(ctx context.Context, nutricionistaID string) ([]Consultation, error) {
	if nutricionistaID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListConsultationsByNutricionista(ctx, nutricionistaID)
}

type MixComponent struct {
	DishID   string
	Quantity int
}

type MixInput struct {
	NutricionistaID string
	ClientID        string
	PetIDs          []string
	Name            string
	Description     string
	Components      []MixComponent
	Total           decimal.Decimal
}

// CreateMix arma un plato oculto a partir de ingredientes del catálogo,
// lo vincula a cada mascota y avisa al cliente. El plato no aparece en
// el catálogo público.
func (s *Service) CreateMix(ctx context.Context, in MixInput) (catalog.Dish, []PersonalDish, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.NutricionistaID == "" || in.ClientID == "" || in.Name == "" ||
		len(in.PetIDs) == 0 || len(in.Components) == 0 {
		return catalog.Dish{}, nil, ErrInvalidInput
	}

	for _, petID := range in.PetIDs {
		owner, err := s.pets.OwnerOf(ctx, petID)
		if err != nil {
			return catalog.Dish{}, nil, ErrNotFound
		}
		if owner != in.ClientID {
			return catalog.Dish{}, nil, ErrNotOwner
		}
	}

	// Se verifica que los componentes existan; el total viene armado
	// por el panel del nutricionista y se respeta tal cual.
	for _, comp := range in.Components {
		if comp.Quantity <= 0 {
			return catalog.Dish{}, nil, ErrInvalidInput
		}
		if _, err := s.dishes.GetDish(ctx, comp.DishID); err != nil {
			return catalog.Dish{}, nil, ErrNotFound
		}
	}

	dish, err := s.dishes.CreateDish(ctx, catalog.CreateDishInput{
		Name:                   in.Name,
		Description:            in.Description,
		Price:                  in.Total,
		Published:              false,
		CreatedByNutricionista: true,
	})
	if err != nil {
		return catalog.Dish{}, nil, err
	}

	links := make([]PersonalDish, 0, len(in.PetIDs))
	for _, petID := range in.PetIDs {
		pd := PersonalDish{
			ID:              uuid.NewString(),
			PetID:           petID,
			ClientID:        in.ClientID,
			DishID:          dish.ID,
			NutricionistaID: in.NutricionistaID,
			Total:           in.Total,
			CreatedAt:       s.now(),
		}
		if err := s.repo.CreatePersonalDish(ctx, pd); err != nil {
			return catalog.Dish{}, nil, err
		}
		links = append(links, pd)
	}

	_ = s.notify(ctx, in.ClientID, "¡Dieta Lista!", "El nutricionista preparó un plato personalizado para tu mascota.")

	return dish, links, nil
}

// PersonalDishView junta el vínculo con los datos del plato.
type PersonalDishView struct {
	Link PersonalDish
	Dish catalog.Dish
}

func (s *Service) PersonalDishesByPet(ctx context.Context, petID string) ([]PersonalDishView, error) {
	links, err := s.repo.ListPersonalDishesByPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	return s.expandDishes(ctx, links)
}

func (s *Service) PersonalDishesByClient(ctx context.Context, clientID string) ([]PersonalDishView, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	links, err := s.repo.ListPersonalDishesByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.expandDishes(ctx, links)
}

func (s *Service) expandDishes(ctx context.Context, links []PersonalDish) ([]PersonalDishView, error) {
	out := make([]PersonalDishView, 0, len(links))
	for _, l := range links {
		d, err := s.dishes.GetDish(ctx, l.DishID)
		if err != nil {
			continue // plato eliminado: se omite el vínculo
		}
		out = append(out, PersonalDishView{Link: l, Dish: d})
	}
	return out, nil
}

func (s *Service) SearchItems(ctx context.Context, q string) ([]catalog.Dish, error) {
	return s.dishes.Search(ctx, q)
}

func (s *Service) Notifications(ctx context.Context, clientID string) ([]Notification, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListNotificationsByClient(ctx, clientID)
}

func (s *Service) UnreadCount(ctx context.Context, clientID string) (int, error) {
	if clientID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.CountUnread(ctx, clientID)
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.repo.MarkNotificationRead(ctx, id)
}

func (s *Service) notify(ctx context.Context, clientID, title, body string) error {
	return s.repo.CreateNotification(ctx, Notification{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Title:     title,
		Body:      body,
		CreatedAt: s.now(),
	})
}
