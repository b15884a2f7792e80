package container

import (
	"time"

	app "glulam-ndt/internal/application"
	"glulam-ndt/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

// Deps внешние зависимости сервисов. Metrics и Renderers необязательны.
type Deps struct {
	Users         port.UserRepository
	Inspections   port.InspectionRepository
	Analyzer      port.DelaminationAnalyzer
	Metrics       port.AnalysisMetrics
	RenderTimeout time.Duration
	Renderers     []port.ReportRenderer
}

func New(deps Deps) *Container {
	userService := app.NewUserService(deps.Users)
	inspectionService := app.NewInspectionService(
		userService,
		deps.Analyzer,
		deps.Inspections,
		deps.Metrics,
		deps.RenderTimeout,
		deps.Renderers...,
	)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
