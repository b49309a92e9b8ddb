package main

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/shapespec"
	"github.com/gomlx/shapespec/internal/xslices"
	"strconv"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				s = headerRowStyle
				return
			}
			switch {
			case row%2 == 0:
				// Even row style.
				s = oddRowStyle
			default:
				// Odd row style
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// printTable renders one table per spec, one row per dimension expression,
// followed by the resolved shape.
func printTable(memo shapespec.Memo, results []result) {
	printMemo(memo)
	for _, r := range results {
		fmt.Println(titleStyle.Render(r.spec.String()))
		table := newPlainTable(true)
		table.Row("Axis", "Kind", "Expression", "Value")
		for i, dim := range r.spec.Dims {
			table.Row(strconv.Itoa(i), dimKind(dim), dim.String(), dimValue(dim, memo))
		}
		fmt.Println(table.Render())
		if r.err != nil {
			fmt.Printf("error: %v\n", r.err)
			continue
		}
		fmt.Printf("shape: %v (%s elements)\n", r.dims, humanize.Comma(int64(xslices.Prod(r.dims))))
	}
}

// dimKind names the dimension form for the table's Kind column.
func dimKind(dim shapespec.DimExpr) string {
	switch d := dim.(type) {
	case *shapespec.IntDim:
		if d.Broadcastable {
			return "broadcastable int"
		}
		return "int"
	case *shapespec.SingleDim:
		switch {
		case d.Anonymous:
			return "anonymous"
		case d.Broadcastable:
			return "broadcastable"
		default:
			return "single"
		}
	case *shapespec.VariadicDim:
		switch {
		case d.Anonymous:
			return "anonymous variadic"
		case d.Broadcastable:
			return "broadcastable variadic"
		default:
			return "variadic"
		}
	case *shapespec.FuncDim:
		return "function"
	default:
		return "expression"
	}
}

// dimValue resolves one dimension for display. Dimensions that cannot be
// evaluated against the memo (anonymous, broadcastable, unbound) show as "-".
func dimValue(dim shapespec.DimExpr, memo shapespec.Memo) string {
	values, err := shapespec.EvalDim(dim, memo)
	if err != nil {
		return "-"
	}
	if len(values) == 1 {
		return strconv.Itoa(values[0])
	}
	return fmt.Sprintf("%v", values)
}
