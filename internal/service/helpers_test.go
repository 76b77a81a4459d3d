package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/jwt"
	"go-dairy-ledger/pkg/logger"
)

func ctxT() context.Context {
	return context.Background()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

type harness struct {
	store *memStore
	sheet *fakeSpreadsheet
	logos *fakeLogos

	stock     StockService
	products  ProductService
	reports   ReportService
	dashboard DashboardService
	dairies   DairyService
	auth      AuthService
	signer    *jwt.Signer

	dairyA, dairyB model.Dairy
	admin          model.Admin
	actorA, actorB session.Identity
	adminActor     session.Identity
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithBasis(t, report.BasisCurrent)
}

func newHarnessWithBasis(t *testing.T, basis report.ProfitBasis) *harness {
	t.Helper()
	s := newMemStore()
	log := logger.Nop()
	h := &harness{
		store:  s,
		sheet:  &fakeSpreadsheet{},
		logos:  &fakeLogos{},
		signer: jwt.NewSigner("test-secret-test-secret-test-secret", time.Hour),
	}

	tx := fakeTx{s}
	admins, dairies := fakeAdminRepo{s}, fakeDairyRepo{s}
	products, ins, sales := fakeProductRepo{s}, fakeStockInRepo{s}, fakeSaleRepo{s}

	h.stock = NewStockService(tx, products, ins, sales, log)
	h.products = NewProductService(tx, products)
	h.reports = NewReportService(ins, sales, dairies, h.sheet, h.logos, basis, log)
	h.dashboard = NewDashboardService(products, ins, sales)
	h.dairies = NewDairyService(dairies, admins, h.logos, log)
	h.auth = NewAuthService(admins, dairies, h.signer)

	h.admin = model.Admin{Username: "admin"}
	require.NoError(t, h.admin.SetPassword("admin"))
	require.NoError(t, admins.Create(ctxT(), &h.admin))

	h.dairyA = model.Dairy{Name: "Green Valley", Username: "green"}
	require.NoError(t, h.dairyA.SetPassword("green-pass"))
	require.NoError(t, dairies.Create(ctxT(), &h.dairyA))

	h.dairyB = model.Dairy{Name: "Blue Hills", Username: "blue"}
	require.NoError(t, h.dairyB.SetPassword("blue-pass"))
	require.NoError(t, dairies.Create(ctxT(), &h.dairyB))

	h.actorA = session.LoginDairy(h.dairyA.ID, h.dairyA.Name, h.dairyA.Username)
	h.actorB = session.LoginDairy(h.dairyB.ID, h.dairyB.Name, h.dairyB.Username)
	h.adminActor = session.LoginAdmin(h.admin.ID, h.admin.Username)
	return h
}

func (h *harness) addProduct(t *testing.T, actor session.Identity, name, cost, sell string) *model.Product {
	t.Helper()
	p, err := h.products.CreateProduct(ctxT(), actor, ProductInput{
		Name:      name,
		CostPrice: dec(cost),
		SellPrice: dec(sell),
		MinStock:  dec("10"),
	})
	require.NoError(t, err)
	return p
}

func (h *harness) stockOf(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	p, ok := h.store.products[id]
	require.True(t, ok)
	return p.CurrentStock
}
