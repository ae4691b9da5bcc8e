package reports

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	repsvc "wealthdesk-backend/internal/application/reports"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/infrastructure/database"
	"wealthdesk-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asAdvisor(id uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"advisor_id": id.String()})
		return c.Next()
	}
}

func setupReportsApp(t *testing.T, advisorID uuid.UUID) (*fiber.App, *database.Store) {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	store := database.NewStore(db)

	builder := &repsvc.Builder{Store: store}
	h := &Handlers{Service: &repsvc.Service{Builder: builder, Store: store}}
	app := fiber.New()
	api := app.Group("/reports", asAdvisor(advisorID), middleware.RequireAuth())
	api.Get("/investors/:id", h.Investor)
	api.Post("/investors/:id/snapshots", h.SaveSnapshot)
	api.Get("/investors/:id/snapshots", h.ListSnapshots)
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	var out map[string]interface{}
	b, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(b, &out)
	return resp, out
}

func TestInvestorReport(t *testing.T) {
	advisorID := uuid.New()
	app, store := setupReportsApp(t, advisorID)
	ctx := context.Background()

	inv := &domain.Investor{Name: "Maria Silva", TaxID: "52998224725", RiskProfile: domain.ProfileModerate, AdvisorID: advisorID}
	require.NoError(t, store.Investors().Save(ctx, inv))
	path := "/reports/investors/" + inv.InvestorID.String()

	resp, out := call(t, app, "GET", path)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	alert := out["data"].(map[string]interface{})["alert"].(map[string]interface{})
	assert.Equal(t, "HIGH", alert["level"])

	p := &domain.Portfolio{
		Name: "Core", Type: domain.PortfolioCustom, RiskLevel: domain.RiskModerate,
		TargetReturn: decimal.NewFromInt(10), InvestorID: &inv.InvestorID, AdvisorID: advisorID,
	}
	require.NoError(t, store.Portfolios().Save(ctx, p))
	require.NoError(t, store.Holdings().Save(ctx, &domain.Holding{
		PortfolioID: p.PortfolioID, ProductType: domain.ProductCDB, AssetCode: "CDB001",
		AmountInvested: decimal.NewFromInt(5000), Quantity: decimal.NewFromInt(1),
		PurchaseDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Status: domain.StatusRedeemed,
		CurrentReturn: decimal.NewNullDecimal(decimal.NewFromInt(11)),
	}))

	resp, out = call(t, app, "GET", path)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "5000", data["total_invested"])
	assert.Equal(t, "11", data["weighted_return"])
	assert.Equal(t, "LOW", data["alert"].(map[string]interface{})["level"])

	resp, out = call(t, app, "POST", path+"/snapshots")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "INVESTOR", out["data"].(map[string]interface{})["kind"])

	resp, out = call(t, app, "GET", path+"/snapshots")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"], 1)
}

func TestInvestorReport_Errors(t *testing.T) {
	advisorID := uuid.New()
	app, store := setupReportsApp(t, advisorID)

	resp, _ := call(t, app, "GET", "/reports/investors/"+uuid.NewString())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	other := &domain.Investor{Name: "João Lima", TaxID: "52998224725", RiskProfile: domain.ProfileModerate, AdvisorID: uuid.New()}
	require.NoError(t, store.Investors().Save(context.Background(), other))
	resp, _ = call(t, app, "GET", "/reports/investors/"+other.InvestorID.String())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
