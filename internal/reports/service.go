package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"charterdesk/broker-portal/broker-portal-backend/internal/calculation"
	"charterdesk/broker-portal/broker-portal-backend/internal/reports/export"
)

// ErrNotExportable marks requests that the engine rejected as incomplete; the
// handler reports these to the caller rather than treating them as faults.
var ErrNotExportable = errors.New("calculation is not exportable")

// Service renders freight curve exports. It runs the engine itself so an
// export always reflects the same calculation the dashboard would show, then
// optionally archives the document.
type Service struct {
	engine   *calculation.Engine
	uploader Uploader
	logger   *zap.Logger
}

// NewService creates an export service. uploader may be nil when archival is
// not configured.
func NewService(engine *calculation.Engine, uploader Uploader, logger *zap.Logger) *Service {
	return &Service{
		engine:   engine,
		uploader: uploader,
		logger:   logger,
	}
}

// ExportFreightCurve computes the full forward curve for the request and
// renders it in the requested format.
func (s *Service) ExportFreightCurve(ctx context.Context, req *calculation.CalculationRequest, format string) (*Export, error) {
	// The export always carries the curve, whether or not the caller's
	// dashboard view requested one.
	curveReq := *req
	curveReq.ShowFreightRates = true

	result, err := s.engine.Calculate(ctx, &curveReq)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotExportable, result.Error)
	}

	summary := s.buildSummary(req, result)

	var exp *Export
	switch format {
	case FormatExcel:
		exp, err = renderExcel(summary)
	case FormatPDF:
		exp, err = renderPDF(summary)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrNotExportable, format)
	}
	if err != nil {
		return nil, err
	}

	if s.uploader != nil {
		key, err := s.uploader.Upload(ctx, exp.FileName, exp.ContentType, bytes.NewReader(exp.Data))
		if err != nil {
			// Archival is best effort; the download still succeeds.
			s.logger.Error("failed to archive export", zap.String("file", exp.FileName), zap.Error(err))
		} else {
			exp.StorageKey = key
		}
	}

	return exp, nil
}

func (s *Service) buildSummary(req *calculation.CalculationRequest, result *calculation.CalculationResult) *export.CurveSummary {
	targetMonth := req.TargetMonth(time.Now())

	summary := &export.CurveSummary{
		Route:       req.Route,
		Fuel:        req.Fuel,
		Size:        req.Intake,
		Duration:    req.Duration,
		TargetMonth: calculation.MonthLabel(targetMonth),
		FreightRate: result.FreightRate,
		GeneratedAt: time.Now(),
	}
	if summary.Size == 0 {
		summary.Size = req.StemSize
	}

	summary.CurveMonths = calculation.CurveMonthLabels(targetMonth)
	summary.CurveRates = make([]float64, len(summary.CurveMonths))
	for i := range summary.CurveRates {
		summary.CurveRates[i] = result.FreightRates[fmt.Sprintf("rate%d", i)]
	}
	return summary
}

func renderExcel(summary *export.CurveSummary) (*Export, error) {
	exporter := export.NewExcelExporter(export.DefaultExcelOptions())
	defer exporter.Close()

	if err := exporter.WriteCurve(summary); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	var buf bytes.Buffer
	if err := exporter.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &Export{
		FileName:    exportFileName(summary, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func renderPDF(summary *export.CurveSummary) (*Export, error) {
	generator := export.NewPDFGenerator(export.DefaultPDFOptions())
	if err := generator.GenerateCurveReport(summary); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := generator.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return &Export{
		FileName:    exportFileName(summary, "pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func exportFileName(summary *export.CurveSummary, ext string) string {
	return fmt.Sprintf("freight-curve-%s-%s.%s",
		summary.Route, summary.GeneratedAt.Format("20060102-150405"), ext)
}
