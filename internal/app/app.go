// Package app wires repositories and use cases into one graph. The command
// line and the integration tests build the graph the same way.
package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	httpadapter "groupbuy/internal/adapter/http"
	"groupbuy/internal/adapter/memory"
	"groupbuy/internal/adapter/postgres"
	"groupbuy/internal/adapter/usecase"
	"groupbuy/internal/core/port"
)

// Repositories is the persistence side of the graph.
type Repositories struct {
	Campaigns    port.CampaignRepository
	Brackets     port.BracketRepository
	Pledges      port.PledgeRepository
	Invoices     port.InvoiceRepository
	Payments     port.PaymentIntentRepository
	Fulfillments port.FulfillmentRepository
	Tx           port.Transactor
}

// PostgresRepositories backs every repository with the pool.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	campaigns := postgres.NewCampaignRepository(pool)
	return Repositories{
		Campaigns:    campaigns,
		Brackets:     campaigns,
		Pledges:      postgres.NewPledgeRepository(pool),
		Invoices:     postgres.NewInvoiceRepository(pool),
		Payments:     postgres.NewPaymentIntentRepository(pool),
		Fulfillments: postgres.NewFulfillmentRepository(pool),
		Tx:           postgres.NewTransactor(pool),
	}
}

// MemoryRepositories backs every repository with the in-process store.
func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Campaigns:    s.Campaigns(),
		Brackets:     s.Brackets(),
		Pledges:      s.Pledges(),
		Invoices:     s.Invoices(),
		Payments:     s.PaymentIntents(),
		Fulfillments: s.Fulfillments(),
		Tx:           s,
	}
}

// App holds the use cases.
type App struct {
	Campaigns   *usecase.CampaignUseCase
	Brackets    *usecase.BracketUseCase
	Pledges     *usecase.PledgeUseCase
	Invoices    *usecase.InvoiceUseCase
	Payments    *usecase.PaymentUseCase
	Fulfillment *usecase.FulfillmentUseCase
}

// New builds every use case on top of repos.
func New(repos Repositories, gateway port.PaymentGateway, gracePeriodDays int, logger *slog.Logger) *App {
	pledges := usecase.NewPledgeUseCase(repos.Campaigns, repos.Pledges, repos.Tx)
	brackets := usecase.NewBracketUseCase(repos.Brackets, pledges)
	invoices := usecase.NewInvoiceUseCase(repos.Invoices, pledges, logger)
	payments := usecase.NewPaymentUseCase(repos.Campaigns, repos.Payments, repos.Invoices, pledges, gateway, repos.Tx, logger)
	fulfillment := usecase.NewFulfillmentUseCase(repos.Fulfillments, pledges, repos.Tx)
	campaigns := usecase.NewCampaignUseCase(usecase.CampaignDeps{
		Campaigns:   repos.Campaigns,
		Brackets:    brackets,
		Pledges:     pledges,
		Invoices:    invoices,
		Payments:    payments,
		Fulfillment: fulfillment,
		Tx:          repos.Tx,
	}, gracePeriodDays, logger)

	return &App{
		Campaigns:   campaigns,
		Brackets:    brackets,
		Pledges:     pledges,
		Invoices:    invoices,
		Payments:    payments,
		Fulfillment: fulfillment,
	}
}

// Services exposes the use cases to the HTTP adapter.
func (a *App) Services() httpadapter.Services {
	return httpadapter.Services{
		Campaigns:   a.Campaigns,
		Brackets:    a.Brackets,
		Pledges:     a.Pledges,
		Payments:    a.Payments,
		Fulfillment: a.Fulfillment,
	}
}
