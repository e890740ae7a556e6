package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrMalformedRecord  = errors.New("registro de catálogo mal formado")
	ErrNegativeQuantity = errors.New("cantidad negativa")
	ErrNoAPIKey         = errors.New("API key del servicio de IA no configurada")
)
