package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

func day(n int) time.Time {
	return time.Date(2026, time.August, n, 0, 0, 0, 0, time.UTC)
}

func purchaseLine(date time.Time, seq int, qty, price string) repository.LedgerLine {
	return repository.LedgerLine{Date: date, CreatedAt: date.Add(time.Duration(seq) * time.Minute), Quantity: d(qty), UnitPrice: d(price)}
}

func saleLine(date time.Time, seq int, qty string) repository.LedgerLine {
	return repository.LedgerLine{Date: date, CreatedAt: date.Add(time.Duration(seq) * time.Minute), Quantity: d(qty)}
}

// El replay mezcla compras y ventas en orden cronológico: las compras mueven
// stock y promedio, las ventas solo stock.
func TestReplayLedger_MezclaCronologica(t *testing.T) {
	purchases := []repository.LedgerLine{
		purchaseLine(day(1), 0, "100", "40"),
		purchaseLine(day(10), 0, "50", "46"),
	}
	sales := []repository.LedgerLine{
		saleLine(day(5), 0, "30"),
	}

	stock, avg := replayLedger(purchases, sales)
	// 1/8: +100@40 → stock 100, avg 40
	// 5/8: -30     → stock 70, avg 40
	// 10/8: +50@46 → stock 120, avg (70*40+50*46)/120 = 42.5
	assert.True(t, d("120").Equal(stock), "stock: %s", stock)
	assert.True(t, d("42.5").Equal(avg), "promedio: %s", avg)
}

// A igual fecha decide el orden de creación.
func TestReplayLedger_DesempataPorCreacion(t *testing.T) {
	purchases := []repository.LedgerLine{purchaseLine(day(1), 0, "10", "40")}
	sales := []repository.LedgerLine{saleLine(day(1), 1, "4")}

	stock, avg := replayLedger(purchases, sales)
	assert.True(t, d("6").Equal(stock))
	assert.True(t, d("40").Equal(avg))
}

// Historial vacío: todo en cero.
func TestReplayLedger_SinHistorial(t *testing.T) {
	stock, avg := replayLedger(nil, nil)
	assert.True(t, stock.IsZero())
	assert.True(t, avg.IsZero())
}

// Una venta que excede lo comprado deja el stock en negativo; el caller decide
// rechazar el borrado en ese caso.
func TestReplayLedger_StockNegativo(t *testing.T) {
	sales := []repository.LedgerLine{saleLine(day(5), 0, "30")}
	stock, _ := replayLedger(nil, sales)
	assert.True(t, stock.IsNegative())
}
