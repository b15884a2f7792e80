package port

import (
	"context"

	"glulam-ndt/internal/domain/entity"
)

// ReportRenderer интерфейс отрисовки результатов проверки
type ReportRenderer interface {
	// Render создаёт вложение (график, схему или страницу) по результатам проверки
	Render(ctx context.Context, inspection *entity.Inspection) (*entity.Attachment, error)
}
