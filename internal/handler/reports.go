package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/skoushik/storefront-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type ReportService interface {
	BillWiseReport(ctx context.Context) (string, error)
	ProductWiseReport(ctx context.Context) (string, error)
	MonthWiseReport(ctx context.Context) (string, error)
	YearWiseReport(ctx context.Context) (string, error)
}

type ReportsHandler struct {
	logger *slog.Logger
	svc    ReportService
}

func NewReportsHandler(logger *slog.Logger, svc ReportService) *ReportsHandler {
	return &ReportsHandler{
		logger: logger.With(slog.String("handler", "reports")),
		svc:    svc,
	}
}

func (h *ReportsHandler) Init(r chi.Router) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/bill-wise", h.report("bill-wise", h.svc.BillWiseReport))
		r.Get("/product-wise", h.report("product-wise", h.svc.ProductWiseReport))
		r.Get("/month-wise", h.report("month-wise", h.svc.MonthWiseReport))
		r.Get("/year-wise", h.report("year-wise", h.svc.YearWiseReport))
	})
}

// report wraps one aggregation variant into a CSV download handler.
//
// @Summary      Sales report download
// @Description  Generates one of the bill-wise, product-wise, month-wise or year-wise CSV reports
// @Tags         reports
// @Produce      text/csv
// @Success      200  {string}  string  "CSV body"
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /reports/{variant} [get]
func (h *ReportsHandler) report(variant string, generate func(ctx context.Context) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		csv, err := generate(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to generate report",
				slog.String("variant", variant), slog.Any("error", err))
			utils.WriteError(w, "failed to generate "+variant+" report", http.StatusInternalServerError)
			return
		}

		reportsGenerated.WithLabelValues(variant).Inc()

		filename := fmt.Sprintf("%s-report-%d.csv", variant, time.Now().UnixMilli())
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(csv))
	}
}
