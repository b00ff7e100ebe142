package dashboard

import (
	"fmt"
	"strconv"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	salesFailure = "Error loading sales data."
	tableHeight  = 10
)

// PageChangeFunc is notified with the page the user asked for.
type PageChangeFunc func(page int) tea.Cmd

var (
	prevPageKey = key.NewBinding(key.WithKeys("left", "h", "pgup"))
	nextPageKey = key.NewBinding(key.WithKeys("right", "l", "pgdown"))
)

// salesTable renders orders for the page it is given. It keeps no page of its
// own: page moves are reported through the notifier and come back as props.
type salesTable struct {
	table table.Model
}

func newSalesTable() salesTable {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Order ID", Width: 10},
			{Title: "Customer Name", Width: 24},
			{Title: "Total Amount", Width: 14},
			{Title: "Order Date", Width: 12},
		}),
		table.WithHeight(tableHeight),
	)

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.Bold(true).Foreground(ColorPrimary)
	tableStyles.Selected = tableStyles.Selected.Foreground(lipgloss.Color("#ffffff")).Background(ColorPrimary)
	t.SetStyles(tableStyles)

	return salesTable{table: t}
}

func (t salesTable) focus() salesTable {
	t.table.Focus()
	return t
}

func (t salesTable) blur() salesTable {
	t.table.Blur()
	return t
}

// update handles a key press while the table is focused. Row movement stays
// local; page moves go to onPageChange.
func (t salesTable) update(msg tea.KeyMsg, page int, totalPages int, onPageChange PageChangeFunc) (salesTable, tea.Cmd) {
	switch {
	case key.Matches(msg, prevPageKey):
		if page > 1 && onPageChange != nil {
			return t, onPageChange(page - 1)
		}
		return t, nil
	case key.Matches(msg, nextPageKey):
		if page < totalPages && onPageChange != nil {
			return t, onPageChange(page + 1)
		}
		return t, nil
	}

	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return t, cmd
}

// setRows loads the orders of data into the table. The cursor is kept when
// it still points at a row.
func (t salesTable) setRows(data domain.SalesData) salesTable {
	rows := make([]table.Row, 0, len(data.Orders))
	for _, order := range data.Orders {
		rows = append(rows, table.Row{
			strconv.FormatInt(order.ID, 10),
			order.CustomerName,
			order.Total.StringFixed(2),
			order.CreatedAt,
		})
	}

	t.table.SetRows(rows)
	t.table.SetCursor(t.table.Cursor())
	return t
}

func (t salesTable) cursor() int {
	return t.table.Cursor()
}

func (t salesTable) view(data domain.SalesData, f frame) string {
	if len(data.Orders) == 0 {
		return f.styles.hint.Render("No orders for the selected customers.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, t.table.View(), renderPager(data.Page(), data.Pages(), f))
}

func renderPager(page int, totalPages int, f frame) string {
	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = lipgloss.NewStyle().Foreground(ColorSecondary).Render("•")
	pager.InactiveDot = f.styles.axis.Render("•")
	pager.TotalPages = totalPages
	pager.Page = page - 1

	return fmt.Sprintf("%s  %s  %s",
		pager.View(),
		f.styles.label.Render(fmt.Sprintf("Page %d/%d", page, totalPages)),
		f.styles.hint.Render("←/→ change page"),
	)
}
