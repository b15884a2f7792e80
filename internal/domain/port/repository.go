package port

import (
	"context"

	"glulam-ndt/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// UpdateState обновляет состояние пользователя
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}

// InspectionRepository интерфейс хранилища текущих проверок
type InspectionRepository interface {
	// Get возвращает текущую проверку пользователя или entity.ErrNoInspection
	Get(ctx context.Context, userID int64) (*entity.Inspection, error)

	// Save заменяет текущую проверку пользователя
	Save(ctx context.Context, userID int64, inspection *entity.Inspection) error

	// Delete удаляет проверку пользователя
	Delete(ctx context.Context, userID int64) error
}
