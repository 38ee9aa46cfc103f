// Package http exposes the daemon-mode HTTP surface with echo: health,
// Prometheus metrics, the reconciliation backlog, single-order lookups and an
// on-demand run trigger.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/application/usecases/queries"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/jobs"
	"reconciler/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	PendingOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.GetPendingOrdersQueryResponse, error)
	}

	OrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	RunTrigger interface {
		RunOnce(ctx context.Context) (commands.Report, error)
	}

	// HealthCheck reports whether the order store is reachable.
	HealthCheck func(ctx context.Context) error
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type PendingOrders struct {
	DeliveryMethod string `json:"deliveryMethod"`
	Pending        int64  `json:"pending"`
	CashOnDelivery int64  `json:"cashOnDelivery"`
}

type Order struct {
	ID             int64   `json:"id"`
	TrackingCode   string  `json:"trackingCode"`
	DeliveryMethod string  `json:"deliveryMethod"`
	PaymentMethod  string  `json:"paymentMethod"`
	Status         string  `json:"status"`
	PaymentStatus  string  `json:"paymentStatus"`
	DeliveryDate   *string `json:"deliveryDate,omitempty"`
	Consignee      *string `json:"consignee,omitempty"`
	Tracked        bool    `json:"tracked"`
	Eligible       bool    `json:"eligible"`
	Resolved       bool    `json:"resolved"`
}

type ProviderRun struct {
	Provider              string `json:"provider"`
	Eligible              int    `json:"eligible"`
	Updated               int    `json:"updated"`
	Unavailable           int    `json:"unavailable"`
	Unchanged             int    `json:"unchanged"`
	NotMatched            int    `json:"notMatched"`
	Failed                int    `json:"failed"`
	Skipped               int    `json:"skipped"`
	CODConfirmed          int    `json:"codConfirmed"`
	EligibleReadFailed    bool   `json:"eligibleReadFailed"`
	SettlementFetchFailed bool   `json:"settlementFetchFailed"`
}

type Run struct {
	RunID     string        `json:"runId"`
	Cancelled bool          `json:"cancelled"`
	Providers []ProviderRun `json:"providers"`
}

// Server handles HTTP requests by delegating to the application use cases.
type Server struct {
	pendingOrdersHandler PendingOrdersHandler
	orderHandler         OrderHandler
	runTrigger           RunTrigger
	healthCheck          HealthCheck
	metricsHandler       http.Handler
}

func NewServer(
	pendingOrdersHandler PendingOrdersHandler,
	orderHandler OrderHandler,
	runTrigger RunTrigger,
	healthCheck HealthCheck,
	metricsHandler http.Handler,
) *Server {
	return &Server{
		pendingOrdersHandler: pendingOrdersHandler,
		orderHandler:         orderHandler,
		runTrigger:           runTrigger,
		healthCheck:          healthCheck,
		metricsHandler:       metricsHandler,
	}
}

// Register mounts all routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(s.metricsHandler))

	api := e.Group("/api/v1")
	api.GET("/orders/pending", s.GetPendingOrders)
	api.GET("/orders/:trackingCode", s.GetOrder)
	api.POST("/reconciliations", s.TriggerReconciliation)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	if err := s.healthCheck(ctx.Request().Context()); err != nil {
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Order store unreachable",
		})
	}
	return ctx.String(http.StatusOK, "Healthy")
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	backlog, err := s.pendingOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve pending orders",
		})
	}

	response := make([]PendingOrders, len(backlog))
	for i, row := range backlog {
		response[i] = PendingOrders{
			DeliveryMethod: row.DeliveryMethod.String(),
			Pending:        row.Count,
			CashOnDelivery: row.CashOnDelivery,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:trackingCode.
func (s *Server) GetOrder(ctx echo.Context) error {
	code, err := kernel.NewTrackingCode(ctx.Param("trackingCode"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid tracking code",
		})
	}

	query, err := queries.NewGetOrderQuery(code)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	o, err := s.orderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	response := Order{
		ID:             o.ID,
		TrackingCode:   o.TrackingCode,
		DeliveryMethod: o.DeliveryMethod.String(),
		PaymentMethod:  o.PaymentMethod.String(),
		Status:         o.Status.String(),
		PaymentStatus:  o.PaymentStatus.String(),
		Consignee:      o.Consignee,
		Tracked:        o.Tracked,
		Eligible:       o.Eligible,
		Resolved:       o.Resolved,
	}
	if o.DeliveryDate != nil {
		date := o.DeliveryDate.Format(time.DateOnly)
		response.DeliveryDate = &date
	}

	return ctx.JSON(http.StatusOK, response)
}

// TriggerReconciliation handles POST /api/v1/reconciliations by running a full
// pass synchronously.
func (s *Server) TriggerReconciliation(ctx echo.Context) error {
	report, err := s.runTrigger.RunOnce(ctx.Request().Context())
	if err != nil && !errors.Is(err, jobs.ErrStoreUnreachable) {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Reconciliation run failed",
		})
	}

	response := toRun(report)
	if errors.Is(err, jobs.ErrStoreUnreachable) {
		return ctx.JSON(http.StatusServiceUnavailable, response)
	}
	return ctx.JSON(http.StatusOK, response)
}

func toRun(report commands.Report) Run {
	run := Run{
		RunID:     report.RunID.String(),
		Cancelled: report.Cancelled,
		Providers: make([]ProviderRun, len(report.Providers)),
	}
	for i, p := range report.Providers {
		run.Providers[i] = ProviderRun{
			Provider:              p.Provider,
			Eligible:              p.Eligible,
			Updated:               p.Updated,
			Unavailable:           p.Unavailable,
			Unchanged:             p.Unchanged,
			NotMatched:            p.NotMatched,
			Failed:                p.Failed,
			Skipped:               p.Skipped,
			CODConfirmed:          p.CODConfirmed,
			EligibleReadFailed:    p.EligibleReadFailed,
			SettlementFetchFailed: p.SettlementFetchFailed,
		}
	}
	return run
}
