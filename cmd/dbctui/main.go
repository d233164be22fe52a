package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brightwood/dbcdata/internal/dbcschemas"
	"github.com/brightwood/dbcdata/pkg/dbc"
	"github.com/brightwood/dbcdata/pkg/dbcconfig"
	"github.com/brightwood/dbcdata/pkg/dbcsource"
	"github.com/brightwood/dbcdata/pkg/stream"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// row is the tool's own flattened view of one decoded record: its key
// plus its fields rendered as a slice of cell strings, so the browser
// works the same way regardless of which builtin schema produced it.
type row struct {
	key   uint32
	cells []string
}

func main() {
	path := flag.String("file", "", "table file path")
	schemaName := flag.String("schema", "creature", "builtin schema: creature or item")
	mmapFlag := flag.Bool("mmap", false, "open with memory-mapped I/O")
	configPath := flag.String("config", "", "optional YAML config file (see pkg/dbcconfig)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: dbctui -file <path> [-schema creature|item] [-mmap] [-config path]")
		os.Exit(1)
	}

	opts := dbc.DefaultOptions()
	if *configPath != "" {
		cfg, err := dbcconfig.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts.Strict = cfg.Strict
	}

	columns, rows, err := loadRows(*path, *schemaName, *mmapFlag, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(*path, columns, rows), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRows(path, schemaName string, useMmap bool, opts dbc.Options) ([]table.Column, []row, error) {
	var src stream.Source
	var err error
	if useMmap {
		src, err = dbcsource.FromMapped(path)
	} else {
		src, err = dbcsource.FromFile(path)
	}
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	switch schemaName {
	case "creature":
		f, err := dbc.Open[dbcschemas.CreatureRow](src, opts)
		if err != nil {
			return nil, nil, err
		}
		it := f.Records()
		cols := []table.Column{
			{Title: "ID", Width: 10}, {Title: "Name", Width: 24}, {Title: "Level", Width: 6},
			{Title: "Health", Width: 10}, {Title: "Mana", Width: 10}, {Title: "Faction", Width: 8},
		}
		var rows []row
		for it.Next() {
			r := it.Record()
			rows = append(rows, row{key: r.ID, cells: []string{
				strconv.FormatUint(uint64(r.ID), 10), r.Name, strconv.Itoa(int(r.Level)),
				strconv.Itoa(int(r.HealthBase)), strconv.Itoa(int(r.ManaBase)),
				strconv.FormatUint(uint64(r.Faction), 10),
			}})
		}
		return cols, rows, it.Err()
	case "item":
		f, err := dbc.Open[dbcschemas.ItemSparseRow](src, opts)
		if err != nil {
			return nil, nil, err
		}
		it := f.Records()
		cols := []table.Column{
			{Title: "ID", Width: 10}, {Title: "Name", Width: 24}, {Title: "Quality", Width: 8},
			{Title: "ItemLvl", Width: 8}, {Title: "ReqLvl", Width: 8},
		}
		var rows []row
		for it.Next() {
			r := it.Record()
			rows = append(rows, row{key: r.ID, cells: []string{
				strconv.FormatUint(uint64(r.ID), 10), r.Name,
				strconv.Itoa(int(r.Quality)), strconv.Itoa(int(r.ItemLevel)), strconv.Itoa(int(r.RequiredLvl)),
			}})
		}
		return cols, rows, it.Err()
	default:
		return nil, nil, fmt.Errorf("unknown schema %q (want creature or item)", schemaName)
	}
}

type model struct {
	path      string
	allRows   []row
	tbl       table.Model
	filter    textinput.Model
	filtering bool
	errMsg    string
}

func initialModel(path string, columns []table.Column, rows []row) model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(toTableRows(rows)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#00FFFF")).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#0000FF"))
	t.SetStyles(s)

	fi := textinput.New()
	fi.Placeholder = "filter by id"
	fi.CharLimit = 10
	fi.Width = 20

	return model{path: path, allRows: rows, tbl: t, filter: fi}
}

func toTableRows(rows []row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r.cells)
	}
	return out
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.applyFilter()
				return m, nil
			case "esc":
				m.filtering = false
				m.filter.SetValue("")
				m.tbl.SetRows(toTableRows(m.allRows))
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		}
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *model) applyFilter() {
	want := strings.TrimSpace(m.filter.Value())
	if want == "" {
		m.tbl.SetRows(toTableRows(m.allRows))
		return
	}
	id, err := strconv.ParseUint(want, 10, 32)
	if err != nil {
		m.errMsg = fmt.Sprintf("invalid id %q", want)
		return
	}
	m.errMsg = ""
	var filtered []row
	for _, r := range m.allRows {
		if r.key == uint32(id) {
			filtered = append(filtered, r)
		}
	}
	m.tbl.SetRows(toTableRows(filtered))
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("dbctui — %s (%d rows)", m.path, len(m.allRows))))
	b.WriteString("\n")
	b.WriteString(m.tbl.View())
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View())
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString(helpStyle.Render("/ filter by id · enter apply · esc clear · q quit"))
	return b.String()
}
