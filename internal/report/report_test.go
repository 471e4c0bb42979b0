package report_test

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/text/language"

	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/report"
)

func TestFormatting(t *testing.T) {
	c := qt.New(t)
	f := report.NewFormatter(language.Und)

	c.Assert(f.Money(1234.5), qt.Equals, "R$ 1.234,50")
	c.Assert(f.Money(0), qt.Equals, "R$ 0,00")
	c.Assert(f.Money(-10), qt.Equals, "-R$ 10,00")
	c.Assert(f.Int(1234567), qt.Equals, "1.234.567")
	c.Assert(f.Date(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)), qt.Equals, "09/03/2025")
}

func TestFinancialTable(t *testing.T) {
	c := qt.New(t)
	f := report.NewFormatter(language.BrazilianPortuguese)

	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	records := []models.FinancialRecord{
		{Timestamp: day1, Sales: 1500, Expenses: 200, Profit: 1300, TotalMoney: 10000, TotalCustomers: 40, NewCustomers: 4},
		{Timestamp: day2, Sales: 500, Expenses: 100, Profit: 400, TotalMoney: 10400, TotalCustomers: 41, NewCustomers: 1},
	}
	sum := &models.FinancialSummary{Records: 2, Sales: 2000, Expenses: 300, Profit: 1700, TotalMoney: 10400, TotalCustomers: 41, NewCustomers: 5, From: &day1, To: &day2}

	var b strings.Builder
	c.Assert(f.Financial(&b, records, sum), qt.IsNil)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	c.Assert(lines, qt.HasLen, 4)
	c.Assert(lines[1], qt.Contains, "01/01/2025")
	c.Assert(lines[1], qt.Contains, "R$ 1.500,00")
	c.Assert(lines[3], qt.Contains, "Total (01/01/2025 a 02/01/2025)")
	c.Assert(lines[3], qt.Contains, "R$ 10.400,00")

	b.Reset()
	c.Assert(f.Financial(&b, nil, &models.FinancialSummary{}), qt.IsNil)
	c.Assert(b.String(), qt.Contains, "sem registros")
}

func TestInventoryAndDashboard(t *testing.T) {
	c := qt.New(t)
	f := report.NewFormatter(language.Und)
	items := []models.InventoryItem{
		{ID: 1, Item: "Caneta", Quantity: 1000, Preco: 1.5},
		{ID: 2, Item: "Caderno", Quantity: 10, Preco: 12},
	}

	var b strings.Builder
	c.Assert(f.Inventory(&b, items), qt.IsNil)
	c.Assert(b.String(), qt.Contains, "R$ 1.500,00")
	c.Assert(b.String(), qt.Contains, "R$ 1.620,00")

	b.Reset()
	c.Assert(f.Dashboard(&b, &models.FinancialSummary{Sales: 99.9, TotalCustomers: 3, NewCustomers: 1}, items), qt.IsNil)
	c.Assert(b.String(), qt.Equals, "Período: sem registros\nVendas: R$ 99,90\nLucro: R$ 0,00\nCaixa: R$ 0,00\nClientes: 3 (1 novos)\nEstoque: 2 itens, 1.010 unidades\n")
}
