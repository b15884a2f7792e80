package entity

import "errors"

// Ошибки проверки входных данных анализа. Все восстановимы: пользователь добавляет измерения.
var (
	ErrInsufficientData         = errors.New("insufficient thickness measurements")
	ErrInsufficientInteriorData = errors.New("insufficient interior measurements")
	ErrInsufficientLayerData    = errors.New("insufficient layer measurements")
)

// Ошибки сценария проверки.
var (
	ErrNoInspection      = errors.New("inspection is not started")
	ErrNoZones           = errors.New("no zones to select")
	ErrZoneOutOfRange    = errors.New("zone number is out of range")
	ErrInvalidLayerInput = errors.New("invalid layer input")
	ErrZoneNotSelected   = errors.New("zone is not selected")
	ErrSampleOutOfRange  = errors.New("measurement number is out of range")
)
