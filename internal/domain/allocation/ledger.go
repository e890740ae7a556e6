package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-allocator/internal/domain/entity"
)

// StockLedger saldo disponible por (almacén, producto, talla). Es el único estado mutable
// del asignador: lo crea y lo posee una sola llamada a Allocate, nunca se comparte.
type StockLedger struct {
	remaining map[entity.StockKey]decimal.Decimal
}

// NewStockLedger siembra el libro desde las líneas de stock, sumando claves repetidas.
func NewStockLedger(lines []entity.StockLine) *StockLedger {
	l := &StockLedger{remaining: make(map[entity.StockKey]decimal.Decimal, len(lines))}
	for _, line := range lines {
		key := line.Key()
		l.remaining[key] = l.remaining[key].Add(line.Quantity)
	}
	return l
}

// Available devuelve el saldo restante de la clave (cero si no existe).
func (l *StockLedger) Available(key entity.StockKey) decimal.Decimal {
	return l.remaining[key]
}

// Take descuenta min(want, disponible) y devuelve lo descontado.
// Devuelve cero si no hay saldo positivo o want no es positivo.
func (l *StockLedger) Take(key entity.StockKey, want decimal.Decimal) decimal.Decimal {
	avail, ok := l.remaining[key]
	if !ok || !avail.IsPositive() || !want.IsPositive() {
		return decimal.Zero
	}
	qty := decimal.Min(avail, want)
	l.remaining[key] = avail.Sub(qty)
	return qty
}

// Len número de claves en el libro.
func (l *StockLedger) Len() int {
	return len(l.remaining)
}
