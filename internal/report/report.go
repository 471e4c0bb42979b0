// Package report renders financial and inventory data as plain-text
// tables with Brazilian number formatting.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

const dateLayout = "02/01/2006"

type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for tag. The zero tag means pt-BR.
func NewFormatter(tag language.Tag) *Formatter {
	if tag == language.Und {
		tag = language.BrazilianPortuguese
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

// Money formats v as reais, e.g. "R$ 1.234,50".
func (f *Formatter) Money(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", math.Abs(v)
	}
	return sign + "R$ " + f.p.Sprintf("%.2f", v)
}

func (f *Formatter) Int(n int) string {
	return f.p.Sprintf("%d", n)
}

func (f *Formatter) Date(t time.Time) string {
	return t.Format(dateLayout)
}

// Financial writes one row per record followed by the range totals.
func (f *Formatter) Financial(w io.Writer, records []models.FinancialRecord, sum *models.FinancialSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Data\tVendas\tDespesas\tLucro\tCaixa\tClientes\tNovos\t")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			f.Date(r.Timestamp), f.Money(r.Sales), f.Money(r.Expenses), f.Money(r.Profit),
			f.Money(r.TotalMoney), f.Int(r.TotalCustomers), f.Int(r.NewCustomers))
	}
	if sum != nil {
		fmt.Fprintf(tw, "Total (%s)\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			f.period(sum), f.Money(sum.Sales), f.Money(sum.Expenses), f.Money(sum.Profit),
			f.Money(sum.TotalMoney), f.Int(sum.TotalCustomers), f.Int(sum.NewCustomers))
	}
	return tw.Flush()
}

func (f *Formatter) period(sum *models.FinancialSummary) string {
	if sum.From == nil || sum.To == nil {
		return "sem registros"
	}
	return f.Date(*sum.From) + " a " + f.Date(*sum.To)
}

// Inventory writes the stock table with the value of each line.
func (f *Formatter) Inventory(w io.Writer, items []models.InventoryItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tItem\tQtd\tPreço\tValor")
	var total float64
	for _, it := range items {
		value := float64(it.Quantity) * it.Preco
		total += value
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", it.ID, it.Item, f.Int(it.Quantity), f.Money(it.Preco), f.Money(value))
	}
	fmt.Fprintf(tw, "\t\t\t\t%s\n", f.Money(total))
	return tw.Flush()
}

// Dashboard is the summary block shown by the dashboard command.
func (f *Formatter) Dashboard(w io.Writer, sum *models.FinancialSummary, items []models.InventoryItem) error {
	units := 0
	for _, it := range items {
		units += it.Quantity
	}
	_, err := fmt.Fprintf(w, "Período: %s\nVendas: %s\nLucro: %s\nCaixa: %s\nClientes: %s (%s novos)\nEstoque: %s itens, %s unidades\n",
		f.period(sum), f.Money(sum.Sales), f.Money(sum.Profit), f.Money(sum.TotalMoney),
		f.Int(sum.TotalCustomers), f.Int(sum.NewCustomers), f.Int(len(items)), f.Int(units))
	return err
}
