// Package export renders an estimate as an Excel workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/wrapworks/estimator/internal/aggregate"
	"github.com/wrapworks/estimator/internal/estimate"
)

const (
	ItemsSheet     = "Line Items"
	ProposalsSheet = "Proposals"
)

var itemHeaders = []string{
	"Item", "Type", "Optional", "Material", "Sqft", "Material Cost", "Labor",
	"Design", "COGS", "Sale Price", "Gross Profit", "Margin %", "Quality",
}

type styles struct {
	title, header, row, label, total int
}

// Workbook builds the estimate workbook: every line item with the required
// totals, then one block per proposal.
func Workbook(e *estimate.Estimate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ItemsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(ProposalsSheet); err != nil {
		return nil, fmt.Errorf("create proposals sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	for _, sheet := range []string{ItemsSheet, ProposalsSheet} {
		if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
			return nil, fmt.Errorf("set col width: %w", err)
		}
		if err := f.SetColWidth(sheet, "B", "M", 13); err != nil {
			return nil, fmt.Errorf("set col width: %w", err)
		}
	}

	views := e.Views()
	byID := make(map[string]estimate.ItemView, len(views))
	for _, v := range views {
		byID[v.Item.ID] = v
	}

	// Line items
	title := e.Name
	if title == "" {
		title = "Estimate"
	}
	if err := setRow(f, ItemsSheet, 1, st.title, sanitizeExcelCell(title)); err != nil {
		return nil, err
	}
	if err := setHeader(f, ItemsSheet, 3, st.header); err != nil {
		return nil, err
	}
	row := 4
	for _, v := range views {
		if err := setRow(f, ItemsSheet, row, st.row, itemCells(v)...); err != nil {
			return nil, err
		}
		row++
	}
	row++
	if err := setTotals(f, ItemsSheet, row, st, "Required Total", e.Totals()); err != nil {
		return nil, err
	}

	// Proposals
	row = 1
	for _, p := range e.Proposals().List() {
		if err := setRow(f, ProposalsSheet, row, st.title, sanitizeExcelCell(p.Label)); err != nil {
			return nil, err
		}
		if err := setHeader(f, ProposalsSheet, row+1, st.header); err != nil {
			return nil, err
		}
		row += 2
		for _, id := range p.Members {
			v, ok := byID[id]
			if !ok {
				continue
			}
			if err := setRow(f, ProposalsSheet, row, st.row, itemCells(v)...); err != nil {
				return nil, err
			}
			row++
		}
		totals, err := e.ProposalTotals(p.ID)
		if err != nil {
			return nil, err
		}
		if err := setTotals(f, ProposalsSheet, row, st, p.Label+" Total", totals); err != nil {
			return nil, err
		}
		row += 2
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func itemCells(v estimate.ItemView) []any {
	optional := ""
	if v.Item.Optional {
		optional = "yes"
	}
	quality := string(v.Quality)
	if v.Calc.Unpriceable {
		quality = "unpriceable"
	}
	c := v.Calc
	return []any{
		sanitizeExcelCell(v.Item.Name),
		string(v.Item.ProductType()),
		optional,
		sanitizeExcelCell(v.Item.Material),
		c.Quantity,
		cents(c.MaterialCost),
		cents(c.LaborCost),
		cents(c.DesignCost),
		cents(c.COGS),
		cents(c.SalePrice),
		cents(c.GrossProfit),
		cents(c.GrossMarginPercent),
		quality,
	}
}

func setTotals(f *excelize.File, sheet string, row int, st styles, label string, t aggregate.Totals) error {
	cells := []any{
		sanitizeExcelCell(label), "", "", "", "",
		cents(t.MaterialCost),
		cents(t.LaborCost),
		cents(t.DesignCost),
		cents(t.COGS),
		cents(t.Revenue),
		cents(t.GrossProfit),
		cents(t.BlendedMarginPercent),
		"",
	}
	if t.Unpriceable > 0 {
		cells[len(cells)-1] = fmt.Sprintf("%d unpriceable", t.Unpriceable)
	}
	if err := setRow(f, sheet, row, st.total, cells...); err != nil {
		return err
	}
	return styleCell(f, sheet, 1, row, st.label)
}

func setHeader(f *excelize.File, sheet string, row, style int) error {
	cells := make([]any, len(itemHeaders))
	for i, h := range itemHeaders {
		cells[i] = h
	}
	return setRow(f, sheet, row, style, cells...)
}

func setRow(f *excelize.File, sheet string, row, style int, cells ...any) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(max(len(cells), 1), row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return fmt.Errorf("style %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("style %s %s: %w", sheet, cell, err)
	}
	return nil
}

// cents rounds half away from zero to two places.
func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return st, fmt.Errorf("create title style: %w", err)
	}

	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create header style: %w", err)
	}

	if st.row, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create row style: %w", err)
	}

	if st.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return st, fmt.Errorf("create label style: %w", err)
	}

	if st.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	}); err != nil {
		return st, fmt.Errorf("create total style: %w", err)
	}

	return st, nil
}

// sanitizeExcelCell keeps user text from being read as a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
