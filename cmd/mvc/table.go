package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right aligned;
// a positive wrap soft-wraps cells wider than that many runes.
type column struct {
	title   string
	numeric bool
	wrap    int
}

func textCol(title string) column           { return column{title: title} }
func numCol(title string) column            { return column{title: title, numeric: true} }
func wrapCol(title string, width int) column { return column{title: title, wrap: width} }

// grid accumulates rows for a fixed set of columns and renders them with
// go-pretty. Short rows are padded and long rows truncated to the column count.
type grid struct {
	columns []column
	rows    []table.Row
	footer  table.Row
}

func newGrid(columns ...column) *grid {
	return &grid{columns: columns}
}

func (g *grid) row(cells ...string) {
	g.rows = append(g.rows, g.fit(cells))
}

// total sets a footer row, typically batch totals.
func (g *grid) total(cells ...string) {
	g.footer = g.fit(cells)
}

func (g *grid) fit(cells []string) table.Row {
	out := make(table.Row, len(g.columns))
	for i := range out {
		out[i] = ""
		if i < len(cells) {
			out[i] = cells[i]
		}
	}
	return out
}

func (g *grid) String() string {
	if len(g.columns) == 0 {
		return ""
	}
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, len(g.columns))
	configs := make([]table.ColumnConfig, len(g.columns))
	for i, col := range g.columns {
		header[i] = col.title
		cfg := table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.numeric {
			cfg.Align = text.AlignRight
			cfg.AlignFooter = text.AlignRight
		}
		if col.wrap > 0 {
			cfg.WidthMax = col.wrap
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs[i] = cfg
	}
	tw.AppendHeader(header)
	tw.AppendRows(g.rows)
	if g.footer != nil {
		tw.AppendFooter(g.footer)
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
