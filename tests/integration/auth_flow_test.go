package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *TestDB
	testServer *TestServer
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := SetupTestDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db
	testServer = NewTestServer(db.DB, 1000)

	code := m.Run()

	testServer.Close()
	testDB.Teardown(ctx)
	os.Exit(code)
}

func resetDatabase(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.CleanupTables(context.Background()))
}

type userEnvelope struct {
	User *struct {
		ID           int64  `json:"id"`
		Email        string `json:"email"`
		BusinessName string `json:"businessName"`
	} `json:"user"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func TestRegisterLoginFlow(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	// Register provisions the account plus starter data
	resp, err := client.Register("owner@example.com", "password123", "Warung Maju")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var registered userEnvelope
	require.NoError(t, DecodeJSON(resp, &registered))
	require.NotNil(t, registered.User)
	assert.Equal(t, "owner@example.com", registered.User.Email)
	assert.Equal(t, "Warung Maju", registered.User.BusinessName)

	// The session cookie from registration unlocks protected routes
	resp, err = client.Do(http.MethodGet, "/automations", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recipes struct {
		Recipes []struct {
			ID      int64  `json:"id"`
			Title   string `json:"title"`
			Enabled bool   `json:"enabled"`
		} `json:"recipes"`
	}
	require.NoError(t, DecodeJSON(resp, &recipes))
	assert.Len(t, recipes.Recipes, 6, "registration provisions the default recipes")

	resp, err = client.Do(http.MethodGet, "/business/revenue", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var revenues struct {
		Revenues []struct {
			Month   string `json:"month"`
			Revenue int64  `json:"revenue"`
		} `json:"revenues"`
	}
	require.NoError(t, DecodeJSON(resp, &revenues))
	require.Len(t, revenues.Revenues, 6, "registration provisions the starter months")
	assert.Equal(t, "Jan", revenues.Revenues[0].Month)
	assert.Zero(t, revenues.Revenues[0].Revenue)

	// Logout clears the session
	resp, err = client.Do(http.MethodPost, "/auth/logout", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Do(http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var me userEnvelope
	require.NoError(t, DecodeJSON(resp, &me))
	assert.Nil(t, me.User)

	// Login restores it
	resp, err = client.Login("owner@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Do(http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, DecodeJSON(resp, &me))
	require.NotNil(t, me.User)
	assert.Equal(t, "owner@example.com", me.User.Email)
}

func TestLoginFailures(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	resp, err := client.Login("ghost@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "No account found with this email. Please register first.", body.Error)

	resp, err = client.Register("owner@example.com", "password123", "Warung Maju")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Login("owner@example.com", "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "Incorrect password. Please try again.", body.Error)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	resp, err := client.Register("owner@example.com", "password123", "Warung Maju")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Register("owner@example.com", "different-pass", "Other Store")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "Email already registered. Please login instead.", body.Error)
}

func TestCSRFMismatchRejected(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	require.NoError(t, client.FetchCSRF())
	client.csrf = "0000000000000000000000000000000000000000000000000000000000000000"

	resp, err := client.Do(http.MethodPost, "/auth/register", map[string]string{
		"email":        "owner@example.com",
		"password":     "password123",
		"businessName": "Warung Maju",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "Session expired. Please refresh the page.", body.Error)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	resetDatabase(t)

	client, err := testServer.NewClient()
	require.NoError(t, err)

	for _, path := range []string{"/dashboard", "/automations", "/business/revenue", "/integrations", "/auth/profile"} {
		resp, err := client.Do(http.MethodGet, path, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for %s", path)
		resp.Body.Close()
	}
}

func TestLoginRateLimit(t *testing.T) {
	resetDatabase(t)

	limited := NewTestServer(testDB.DB, 3)
	defer limited.Close()

	client, err := limited.NewClient()
	require.NoError(t, err)
	require.NoError(t, client.FetchCSRF())

	for i := 0; i < 3; i++ {
		resp, err := client.Do(http.MethodPost, "/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := client.Do(http.MethodPost, "/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "Too many attempts. Please try again later.", body.Error)
}
