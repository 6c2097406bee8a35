package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelOptions configures the freight curve workbook.
type ExcelOptions struct {
	SheetName      string `json:"sheet_name"`
	FreezeHeader   bool   `json:"freeze_header"`
	NumberFormat   string `json:"number_format"`
	CurrencyFormat string `json:"currency_format"`
	HeaderFill     string `json:"header_fill"`
	HeaderFont     string `json:"header_font"`
}

// DefaultExcelOptions returns default workbook options.
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:      "Freight Curve",
		FreezeHeader:   true,
		NumberFormat:   "#,##0.00",
		CurrencyFormat: "$#,##0.00",
		HeaderFill:     "4472C4",
		HeaderFont:     "FFFFFF",
	}
}

// CurveSummary is the flattened calculation a workbook or PDF is built from.
type CurveSummary struct {
	Route       string
	Fuel        string
	Size        float64
	Duration    float64
	TargetMonth string
	FreightRate float64
	// CurveMonths and CurveRates are parallel, in forward order starting the
	// month after the target month. Empty when no curve was requested.
	CurveMonths []string
	CurveRates  []float64
	GeneratedAt time.Time
}

// ExcelExporter renders a freight curve workbook.
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions
}

// NewExcelExporter creates a workbook with a single named sheet.
func NewExcelExporter(options ExcelOptions) *ExcelExporter {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", options.SheetName)

	return &ExcelExporter{
		file:    file,
		options: options,
	}
}

// WriteCurve lays out the calculation summary block followed by the forward
// curve table.
func (e *ExcelExporter) WriteCurve(summary *CurveSummary) error {
	sheet := e.options.SheetName

	summaryRows := [][]any{
		{"Route", summary.Route},
		{"Fuel", summary.Fuel},
		{"Cargo Size", summary.Size},
		{"Duration (days)", summary.Duration},
		{"Target Month", summary.TargetMonth},
		{"Freight Rate", summary.FreightRate},
		{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04")},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := e.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if len(summary.CurveMonths) == 0 {
		return nil
	}

	headerRow := len(summaryRows) + 2
	headerStyle, err := e.headerStyle()
	if err != nil {
		return err
	}
	rateStyle, err := e.rateStyle()
	if err != nil {
		return err
	}

	header := []any{"Month", "Freight Rate"}
	cell, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := e.file.SetSheetRow(sheet, cell, &header); err != nil {
		return fmt.Errorf("failed to write curve header: %w", err)
	}
	start, _ := excelize.CoordinatesToCellName(1, headerRow)
	end, _ := excelize.CoordinatesToCellName(2, headerRow)
	e.file.SetCellStyle(sheet, start, end, headerStyle)

	for i, month := range summary.CurveMonths {
		row := []any{month, summary.CurveRates[i]}
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := e.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write curve row: %w", err)
		}
		rateCell, _ := excelize.CoordinatesToCellName(2, headerRow+1+i)
		e.file.SetCellStyle(sheet, rateCell, rateCell, rateStyle)
	}

	if e.options.FreezeHeader {
		topLeft, _ := excelize.CoordinatesToCellName(1, headerRow+1)
		e.file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		})
	}

	e.file.SetColWidth(sheet, "A", "A", 18)
	e.file.SetColWidth(sheet, "B", "B", 16)

	return nil
}

// WriteTo writes the workbook to a writer.
func (e *ExcelExporter) WriteTo(w io.Writer) error {
	return e.file.Write(w)
}

// Close closes the workbook.
func (e *ExcelExporter) Close() error {
	return e.file.Close()
}

func (e *ExcelExporter) headerStyle() (int, error) {
	style, err := e.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: e.options.HeaderFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.options.HeaderFill}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

func (e *ExcelExporter) rateStyle() (int, error) {
	style, err := e.file.NewStyle(&excelize.Style{
		CustomNumFmt: &e.options.CurrencyFormat,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create rate style: %w", err)
	}
	return style, nil
}
