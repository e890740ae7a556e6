package ports

import "time"

// AllocationMetrics puerto de métricas de ejecución del asignador.
type AllocationMetrics interface {
	ObserveRun(duration time.Duration, records int, allocatedUnits, missingUnits float64)
}
