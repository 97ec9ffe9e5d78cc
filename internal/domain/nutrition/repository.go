package nutrition

import "context"

type Repository interface {
	CreateRequest(ctx context.Context, r Request) error
	GetRequest(ctx context.Context, id string) (Request, error)
	ListRequestsByClient(ctx context.Context, clientID string) ([]Request, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]Request, error)
	ListRequestsByPet(ctx context.Context, petID string) ([]Request, error)
	UpdateRequest(ctx context.Context, r Request) error

	CreateConsultation(ctx context.Context, c Consultation) error
	FindConsultationByRequest(ctx context.Context, requestID string) (Consultation, bool, error)
	ListConsultationsByNutricionista(ctx context.Context, nutricionistaID string) ([]Consultation, error)

	CreatePersonalDish(ctx context.Context, pd PersonalDish) error
	ListPersonalDishesByPet(ctx context.Context, petID string) ([]PersonalDish, error)
	ListPersonalDishesByClient(ctx context.Context, clientID string) ([]PersonalDish, error)

	CreateNotification(ctx context.Context, n Notification) error
	ListNotificationsByClient(ctx context.Context, clientID string) ([]Notification, error)
	CountUnread(ctx context.Context, clientID string) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
