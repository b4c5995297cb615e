package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khajaghar/pos-terminal/api/controllers"
	"github.com/khajaghar/pos-terminal/api/middleware"
	draftsvc "github.com/khajaghar/pos-terminal/internal/drafts"
	invoicesvc "github.com/khajaghar/pos-terminal/internal/invoices"
	paymentsvc "github.com/khajaghar/pos-terminal/internal/payments"
	"github.com/khajaghar/pos-terminal/pkg/config"
	"github.com/khajaghar/pos-terminal/pkg/logger"
)

// NewRouter assembles the terminal's local HTTP surface: health probes,
// metrics, draft access for receipt rendering, and the invoice lifecycle
// driven by the terminal UI.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.Pinger,
	backend controllers.Pinger,
	draftService draftsvc.Service,
	invoiceService invoicesvc.Service,
	paymentService paymentsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.UIOrigins),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, store, backend))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/drafts", func(r chi.Router) {
		r.Get("/", controllers.DraftsList(draftService, logg))
		r.Get("/{table}", controllers.DraftsGet(draftService, logg))
		r.Delete("/{table}", controllers.DraftsDelete(draftService, logg))
	})

	r.Route("/v1/invoices", func(r chi.Router) {
		r.Post("/", controllers.InvoiceSubmit(cfg, draftService, invoiceService, logg))
		r.Get("/open", controllers.InvoicesOpen(paymentService, logg))
		r.Post("/{id}/payments", controllers.PaymentAdd(paymentService, logg))
		r.Post("/{id}/custody", controllers.CustodyConfirm(paymentService, logg))
	})

	return r
}
