package integration

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/arusops/arus/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestAccount(t *testing.T, email string) *Client {
	t.Helper()

	client, err := testServer.NewClient()
	require.NoError(t, err)

	resp, err := client.Register(email, "password123", "Warung Maju")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	return client
}

func TestRevenueUpsertFlow(t *testing.T) {
	resetDatabase(t)
	client := registerTestAccount(t, "owner@example.com")

	resp, err := client.Do(http.MethodPut, "/business/revenue", map[string]any{
		"month": "Mar", "year": 2026, "revenue": 52000, "orders": 140,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Revenue struct {
			Month   string `json:"month"`
			Revenue int64  `json:"revenue"`
			Cost    int64  `json:"cost"`
			Orders  int64  `json:"orders"`
		} `json:"revenue"`
	}
	require.NoError(t, DecodeJSON(resp, &updated))
	assert.Equal(t, int64(52000), updated.Revenue.Revenue)
	assert.Equal(t, int64(140), updated.Revenue.Orders)

	// A second partial update must not clobber the earlier figures
	resp, err = client.Do(http.MethodPut, "/business/revenue", map[string]any{
		"month": "Mar", "year": 2026, "cost": 21000,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, DecodeJSON(resp, &updated))
	assert.Equal(t, int64(52000), updated.Revenue.Revenue, "revenue survives a cost-only patch")
	assert.Equal(t, int64(21000), updated.Revenue.Cost)
}

func TestChannelLifecycle(t *testing.T) {
	resetDatabase(t)
	client := registerTestAccount(t, "owner@example.com")

	resp, err := client.Do(http.MethodPost, "/business/channels", map[string]string{"name": "Shopee"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		Channel struct {
			ID      int64  `json:"id"`
			Name    string `json:"name"`
			Icon    string `json:"icon"`
			Enabled bool   `json:"enabled"`
		} `json:"channel"`
	}
	require.NoError(t, DecodeJSON(resp, &created))
	assert.Equal(t, "Shopee", created.Channel.Name)
	assert.Equal(t, "🛒", created.Channel.Icon, "missing icon falls back to the default")
	assert.True(t, created.Channel.Enabled)

	resp, err = client.Do(http.MethodPut, "/business/channels", map[string]any{
		"id": created.Channel.ID, "enabled": false,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, DecodeJSON(resp, &created))
	assert.False(t, created.Channel.Enabled)

	resp, err = client.Do(http.MethodDelete, "/business/channels?id=1", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Do(http.MethodGet, "/business/channels", nil)
	require.NoError(t, err)
	var listing struct {
		Channels []any `json:"channels"`
	}
	require.NoError(t, DecodeJSON(resp, &listing))
	assert.Empty(t, listing.Channels)
}

func TestAutomationOwnershipIsolation(t *testing.T) {
	resetDatabase(t)
	owner := registerTestAccount(t, "owner@example.com")
	intruder := registerTestAccount(t, "intruder@example.com")

	resp, err := owner.Do(http.MethodGet, "/automations", nil)
	require.NoError(t, err)
	var recipes struct {
		Recipes []struct {
			ID int64 `json:"id"`
		} `json:"recipes"`
	}
	require.NoError(t, DecodeJSON(resp, &recipes))
	require.NotEmpty(t, recipes.Recipes)
	targetID := recipes.Recipes[0].ID

	resp, err = intruder.Do(http.MethodPatch, "/automations", map[string]any{
		"id": targetID, "enabled": true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "another account's recipe must look missing")

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "Recipe not found", body.Error)
}

func TestIntegrationLifecycle(t *testing.T) {
	resetDatabase(t)
	client := registerTestAccount(t, "owner@example.com")

	resp, err := client.Do(http.MethodPost, "/integrations", map[string]any{
		"type":   "shopify",
		"name":   "My Store",
		"config": map[string]string{"shopUrl": "store.myshopify.com", "apiKey": "key"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		Integration struct {
			ID          int64 `json:"id"`
			IsConnected bool  `json:"isConnected"`
		} `json:"integration"`
	}
	require.NoError(t, DecodeJSON(resp, &created))
	assert.True(t, created.Integration.IsConnected)

	resp, err = client.Do(http.MethodPost, "/integrations", map[string]any{
		"type":   "carrier-pigeon",
		"name":   "Pigeons",
		"config": map[string]string{"coop": "roof"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "Invalid integration type", body.Error)

	resp, err = client.Do(http.MethodGet, "/integrations", nil)
	require.NoError(t, err)
	var listing struct {
		Integrations   []any          `json:"integrations"`
		AvailableTypes map[string]any `json:"availableTypes"`
	}
	require.NoError(t, DecodeJSON(resp, &listing))
	assert.Len(t, listing.Integrations, 1)
	assert.Contains(t, listing.AvailableTypes, "whatsapp")
}

func TestDashboardAggregate(t *testing.T) {
	resetDatabase(t)
	client := registerTestAccount(t, "owner@example.com")

	resp, err := client.Do(http.MethodGet, "/automations", nil)
	require.NoError(t, err)
	var recipes struct {
		Recipes []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"recipes"`
	}
	require.NoError(t, DecodeJSON(resp, &recipes))
	require.NotEmpty(t, recipes.Recipes)

	resp, err = client.Do(http.MethodPatch, "/automations", map[string]any{
		"id": recipes.Recipes[0].ID, "enabled": true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Do(http.MethodGet, "/dashboard", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "private, max-age=60", resp.Header.Get("Cache-Control"))

	var dashboard struct {
		Revenue  []any `json:"revenue"`
		Activity []struct {
			Action string `json:"action"`
		} `json:"activity"`
		Insights []any `json:"insights"`
	}
	require.NoError(t, DecodeJSON(resp, &dashboard))
	assert.Len(t, dashboard.Revenue, 6)
	require.NotEmpty(t, dashboard.Activity)
	assert.Equal(t, "Enabled "+recipes.Recipes[0].Title, dashboard.Activity[0].Action)
}

func TestBrainAnalyzeFlow(t *testing.T) {
	resetDatabase(t)
	client := registerTestAccount(t, "owner@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 2048))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, client.baseURL+"/brain/analyze", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.http.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Inserted int `json:"inserted"`
		Insights []struct {
			Title   string `json:"title"`
			Message string `json:"message"`
		} `json:"insights"`
	}
	require.NoError(t, DecodeJSON(resp, &result))
	assert.Equal(t, 3, result.Inserted)
	require.NotEmpty(t, result.Insights)

	found := false
	for _, insight := range result.Insights {
		if insight.Title == "Churn Risk" {
			found = true
			assert.Contains(t, insight.Message, "(2KB)")
		}
	}
	assert.True(t, found, "analysis must report the churn insight with the dataset size")
}

func TestSeedFlow(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	resp, err := client.Do(http.MethodGet, "/seed", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}
	require.NoError(t, DecodeJSON(resp, &result))
	assert.True(t, result.OK)
	assert.Equal(t, "Seed completed", result.Message)
	assert.NotZero(t, result.UserID)

	// Second run is a no-op
	resp, err = client.Do(http.MethodGet, "/seed", nil)
	require.NoError(t, err)
	require.NoError(t, DecodeJSON(resp, &result))
	assert.Equal(t, "Seed skipped: users already exist", result.Message)

	// The demo account has no credential, so login reports it missing
	resp, err = client.Login("demo@arus.local", "password123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "No account found with this email. Please register first.", body.Error)

	// Registering with the demo email claims the account and its data
	resp, err = client.Register("demo@arus.local", "password123", "Demo SME")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Do(http.MethodGet, "/automations", nil)
	require.NoError(t, err)
	var recipes struct {
		Recipes []any `json:"recipes"`
	}
	require.NoError(t, DecodeJSON(resp, &recipes))
	assert.Len(t, recipes.Recipes, 5, "claiming keeps the seeded recipes instead of re-provisioning defaults")
}

// Verifies that the CSRF cookie issued by the endpoint is readable by scripts
// while the session cookie is not
func TestCookieFlags(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	resp, err := client.http.Get(client.baseURL + "/auth/csrf")
	require.NoError(t, err)
	defer resp.Body.Close()

	var csrfCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CSRFCookieName {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)
	assert.False(t, csrfCookie.HttpOnly, "the double-submit token must be readable client-side")

	resp, err = client.Register("owner@example.com", "password123", "Warung Maju")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)
}
