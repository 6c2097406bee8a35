package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions configures the one-page calculation summary.
type PDFOptions struct {
	Title       string   `json:"title"`
	FontFamily  string   `json:"font_family"`
	FontSize    float64  `json:"font_size"`
	HeaderColor PDFColor `json:"header_color"`
	AltRowColor PDFColor `json:"alt_row_color"`
}

// PDFColor represents an RGB color
type PDFColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DefaultPDFOptions returns default PDF options.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Title:       "Freight Rate Calculation",
		FontFamily:  "Arial",
		FontSize:    10,
		HeaderColor: PDFColor{R: 68, G: 114, B: 196},
		AltRowColor: PDFColor{R: 242, G: 242, B: 242},
	}
}

// PDFGenerator renders a calculation summary with its forward curve table.
type PDFGenerator struct {
	pdf     *gofpdf.Fpdf
	options PDFOptions
}

// NewPDFGenerator creates a portrait A4 generator.
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)

	return &PDFGenerator{
		pdf:     pdf,
		options: options,
	}
}

// GenerateCurveReport lays out the summary block and the curve table.
func (g *PDFGenerator) GenerateCurveReport(summary *CurveSummary) error {
	g.pdf.AddPage()

	g.pdf.SetFont(g.options.FontFamily, "B", 16)
	g.pdf.CellFormat(0, 10, g.options.Title, "", 1, "C", false, 0, "")

	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize-1)
	g.pdf.SetTextColor(128, 128, 128)
	g.pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "R", false, 0, "")
	g.pdf.Ln(4)

	g.pdf.SetTextColor(0, 0, 0)
	g.writeSummaryLine("Route", summary.Route)
	g.writeSummaryLine("Fuel", summary.Fuel)
	g.writeSummaryLine("Cargo Size", fmt.Sprintf("%.0f", summary.Size))
	g.writeSummaryLine("Duration (days)", fmt.Sprintf("%.0f", summary.Duration))
	g.writeSummaryLine("Target Month", summary.TargetMonth)
	g.writeSummaryLine("Freight Rate", fmt.Sprintf("%.4f", summary.FreightRate))
	g.pdf.Ln(6)

	if len(summary.CurveMonths) > 0 {
		g.writeCurveTable(summary)
	}

	return g.pdf.Error()
}

// Output writes the finished document.
func (g *PDFGenerator) Output(w io.Writer) error {
	return g.pdf.Output(w)
}

func (g *PDFGenerator) writeSummaryLine(label, value string) {
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize)
	g.pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	g.pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func (g *PDFGenerator) writeCurveTable(summary *CurveSummary) {
	const colMonth, colRate = 45.0, 45.0

	g.pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize+1)
	g.pdf.SetFillColor(g.options.HeaderColor.R, g.options.HeaderColor.G, g.options.HeaderColor.B)
	g.pdf.SetTextColor(255, 255, 255)
	g.pdf.CellFormat(colMonth, 8, "Month", "1", 0, "C", true, 0, "")
	g.pdf.CellFormat(colRate, 8, "Freight Rate", "1", 1, "C", true, 0, "")

	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	g.pdf.SetTextColor(0, 0, 0)
	for i, month := range summary.CurveMonths {
		fill := i%2 == 1
		if fill {
			g.pdf.SetFillColor(g.options.AltRowColor.R, g.options.AltRowColor.G, g.options.AltRowColor.B)
		}
		g.pdf.CellFormat(colMonth, 7, month, "1", 0, "L", fill, 0, "")
		g.pdf.CellFormat(colRate, 7, fmt.Sprintf("%.4f", summary.CurveRates[i]), "1", 1, "R", fill, 0, "")
	}
}
