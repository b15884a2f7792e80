package storage

import (
	"context"
	"sync"

	"glulam-ndt/internal/domain/entity"
	"glulam-ndt/internal/domain/port"
)

// MemoryInspectionRepository хранит незавершённые проверки в памяти процесса.
// Проверки не переживают перезапуск бота.
type MemoryInspectionRepository struct {
	mu          sync.RWMutex
	inspections map[int64]*entity.Inspection
}

// NewMemoryInspectionRepository создаёт пустое хранилище
func NewMemoryInspectionRepository() *MemoryInspectionRepository {
	return &MemoryInspectionRepository{
		inspections: make(map[int64]*entity.Inspection),
	}
}

// Get возвращает копию текущей проверки пользователя
func (r *MemoryInspectionRepository) Get(ctx context.Context, userID int64) (*entity.Inspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inspection, ok := r.inspections[userID]
	if !ok {
		return nil, entity.ErrNoInspection
	}
	return inspection.Clone(), nil
}

// Save заменяет текущую проверку пользователя
func (r *MemoryInspectionRepository) Save(ctx context.Context, userID int64, inspection *entity.Inspection) error {
	r.mu.Lock()
	r.inspections[userID] = inspection.Clone()
	r.mu.Unlock()

	return nil
}

// Delete удаляет проверку пользователя
func (r *MemoryInspectionRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	delete(r.inspections, userID)
	r.mu.Unlock()

	return nil
}

var _ port.InspectionRepository = (*MemoryInspectionRepository)(nil)
