package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/quickfix/internal/config"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/repository"
	"github.com/ignatzorin/quickfix/internal/service"
)

// Демо-аккаунты создаются в фиксированном порядке.
const (
	ana   = 1
	bruno = 2
	carla = 3
	diogo = 4
)

type stubEnv struct {
	engine *gin.Engine
	tokens *service.TokenManager
	store  *repository.MarketplaceStore
}

func newStubEnv(t *testing.T) *stubEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env: "test",
		Stub: config.StubConfig{
			RateLimitLimit:  10000,
			RateLimitPeriod: time.Minute,
		},
	}
	store := repository.NewMarketplaceStore()
	tokens := service.NewTokenManager("test-secret", time.Hour)
	market := service.NewMarketplace(store, tokens, "http://stub.local")
	seed := service.NewSeedService(store)
	_, err := seed.SeedData(context.Background())
	require.NoError(t, err)

	return &stubEnv{
		engine: SetupRouter(cfg, NewHandlers(market, seed), tokens),
		tokens: tokens,
		store:  store,
	}
}

func (e *stubEnv) do(t *testing.T, userID int, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := e.tokens.Issue(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload.Message
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, 0, http.MethodGet, "/requests", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is missing", message(t, w))

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set("Authorization", "garbage")
	w = httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", message(t, w))
}

func TestAuth_RawTokenWithoutBearer(t *testing.T) {
	env := newStubEnv(t)

	token, err := env.tokens.Issue(ana)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var me models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "ana", me.Username)
}

func TestLogin(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, 0, http.MethodPost, "/login", models.LoginRequest{Username: "bruno"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing credentials", message(t, w))

	w = env.do(t, 0, http.MethodPost, "/login", models.LoginRequest{Username: "bruno", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", message(t, w))

	w = env.do(t, 0, http.MethodPost, "/login", models.LoginRequest{Username: "bruno", Password: service.SeedPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, bruno, resp.UserID)

	id, err := env.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, bruno, id)
}

func TestRegister_Conflicts(t *testing.T) {
	env := newStubEnv(t)

	form := models.UserForm{Name: "Eva", Username: "eva", Email: "eva@quickfix.pt", Location: "Faro, Portugal", Password: "secret1"}
	w := env.do(t, 0, http.MethodPost, "/user", form)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered", message(t, w))

	w = env.do(t, 0, http.MethodPost, "/user", form)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already exists", message(t, w))

	form.Username = "eva2"
	w = env.do(t, 0, http.MethodPost, "/user", form)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", message(t, w))

	w = env.do(t, 0, http.MethodPost, "/user", models.UserForm{Name: "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing fields", message(t, w))
}

func TestPublicUser_HidesPrivateFields(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, ana, http.MethodGet, "/user/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.ElementsMatch(t, []string{"userId", "name", "rating", "roles"}, keys(fields))
	assert.Len(t, fields["roles"], 2)

	w = env.do(t, ana, http.MethodGet, "/user/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", message(t, w))

	w = env.do(t, ana, http.MethodGet, "/user/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviders_FilterAndSkipOwn(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, bruno, http.MethodGet, "/providers?serviceType=plumbing&maxBudget=999999999&query=&maxDistance=999999999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listings []models.ProviderListing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, diogo, listings[0].ID)

	w = env.do(t, ana, http.MethodGet, "/providers?serviceType=&maxBudget=20&query=&maxDistance=999999999", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	for _, l := range listings {
		assert.LessOrEqual(t, l.PricePerHour, 20.0)
	}
	assert.Len(t, listings, 2)

	w = env.do(t, ana, http.MethodGet, "/providers?serviceType=&maxBudget=999999999&query=&maxDistance=999999999", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 5)
	for i := 1; i < len(listings); i++ {
		assert.LessOrEqual(t, listings[i-1].DistanceKm, listings[i].DistanceKm)
	}
}

func TestProviderDetails(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, ana, http.MethodGet, "/providers/details/2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Role is required", message(t, w))

	w = env.do(t, ana, http.MethodGet, "/providers/details/2?role=elec", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing models.ProviderListing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, "Electrician", listing.Role)
	assert.Equal(t, "Bruno Costa", listing.Name)

	w = env.do(t, ana, http.MethodGet, "/providers/details/2?role=Gardening", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Role not found for this provider", message(t, w))

	w = env.do(t, ana, http.MethodGet, "/providers/details/77?role=Gardening", nil)
	assert.Equal(t, "Provider not found", message(t, w))
}

func TestRoles_AddUpdateRemove(t *testing.T) {
	env := newStubEnv(t)

	role := models.ProviderRole{Role: "Painting", Location: "Lisbon, Portugal", Description: "Walls", PricePerHour: 15}
	w := env.do(t, ana, http.MethodPost, "/provider", role)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Role added", message(t, w))

	w = env.do(t, ana, http.MethodPost, "/provider", role)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Role already exists for this provider", message(t, w))

	w = env.do(t, ana, http.MethodPatch, "/provider", map[string]any{"pro_price_per_hour": 20})
	assert.Equal(t, "Missing 'role' field to identify entry", message(t, w))

	w = env.do(t, ana, http.MethodPatch, "/provider", map[string]any{"role": "Painting"})
	assert.Equal(t, "No fields to update", message(t, w))

	w = env.do(t, ana, http.MethodPatch, "/provider", models.ProviderRoleUpdate{Role: "painting", Location: "Porto, Portugal", Description: "Walls and doors", PricePerHour: 22})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Role info updated", message(t, w))

	w = env.do(t, ana, http.MethodGet, "/provider/roles", nil)
	var roles []models.ProviderListing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roles))
	require.Len(t, roles, 1)
	assert.Equal(t, 22.0, roles[0].PricePerHour)

	w = env.do(t, ana, http.MethodDelete, "/provider", nil)
	assert.Equal(t, "Missing 'role' parameter", message(t, w))

	w = env.do(t, ana, http.MethodDelete, "/provider?role=Painting", nil)
	assert.Equal(t, "Provider role removed", message(t, w))

	w = env.do(t, ana, http.MethodGet, "/provider/roles", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRequests_FeedIsPendingOnlyAndSorted(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, bruno, http.MethodGet, "/requests?spinner=&budget=0&query=&maxDistance=999999999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reqs []models.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqs))
	require.Len(t, reqs, 5)
	for i := 1; i < len(reqs); i++ {
		assert.LessOrEqual(t, reqs[i-1].DistanceKm, reqs[i].DistanceKm)
	}

	w = env.do(t, bruno, http.MethodGet, "/requests?spinner=plumb&budget=10&query=&maxDistance=999999999", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqs))
	require.Len(t, reqs, 1)
	assert.Equal(t, "Leaking kitchen tap", reqs[0].Title)

	w = env.do(t, bruno, http.MethodGet, "/requests?spinner=&budget=0&query=&maxDistance=5", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqs))
	assert.Len(t, reqs, 3)
}

func TestRequest_CreateEditDelete(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, ana, http.MethodPost, "/request", models.RequestForm{Title: "Fix door"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", message(t, w))

	w = env.do(t, ana, http.MethodPost, "/request", models.RequestForm{
		Title: "Fix door", Type: "Carpentry", Description: "Door sticks", Location: "Lisbon, Portugal",
		Price: 30, Deadline: "2030-01-01T10:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Service request created", message(t, w))
	id := len(env.store.ListRequests())

	w = env.do(t, ana, http.MethodGet, "/request/check-ownership/"+strconv.Itoa(id), nil)
	assert.JSONEq(t, `{"isOwner":true}`, w.Body.String())
	w = env.do(t, bruno, http.MethodGet, "/request/check-ownership/"+strconv.Itoa(id), nil)
	assert.JSONEq(t, `{"isOwner":false}`, w.Body.String())

	w = env.do(t, ana, http.MethodPatch, "/request/"+strconv.Itoa(id), map[string]any{"unknown": 1})
	assert.Equal(t, "No valid fields to update", message(t, w))

	w = env.do(t, bruno, http.MethodPatch, "/request/"+strconv.Itoa(id), map[string]any{"service_title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not authorized to edit this request", message(t, w))

	w = env.do(t, ana, http.MethodPatch, "/request/"+strconv.Itoa(id), map[string]any{"service_location": "Porto, Portugal"})
	assert.Equal(t, "Request updated", message(t, w))
	got, err := env.store.GetRequest(id)
	require.NoError(t, err)
	assert.Equal(t, "Porto, Portugal", got.Location)
	assert.Equal(t, "Fix door", got.Title)

	w = env.do(t, ana, http.MethodPatch, "/request/999", map[string]any{"service_title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Request not found", message(t, w))

	w = env.do(t, bruno, http.MethodDelete, "/request/"+strconv.Itoa(id), nil)
	assert.Equal(t, "You are not authorized to delete this request", message(t, w))

	w = env.do(t, ana, http.MethodDelete, "/request/"+strconv.Itoa(id), nil)
	assert.Equal(t, "Service request deleted", message(t, w))

	w = env.do(t, ana, http.MethodDelete, "/request/"+strconv.Itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Service request not found", message(t, w))
}

func TestDecision_AcceptCreatesServiceAndRejectRemovesIt(t *testing.T) {
	env := newStubEnv(t)

	// carla не умеет чинить трубы
	w := env.do(t, carla, http.MethodPatch, "/request/decision", models.Decision{RequestID: 1, Accept: true})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have the required role to accept this request", message(t, w))

	w = env.do(t, bruno, http.MethodPatch, "/request/decision", models.Decision{RequestID: 1, Accept: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Service request accepted", message(t, w))

	req, err := env.store.GetRequest(1)
	require.NoError(t, err)
	assert.Equal(t, "accepted", req.Status)
	require.NotNil(t, req.RequestedProvider)
	assert.Equal(t, bruno, *req.RequestedProvider)

	services := env.store.ListServices()
	require.Len(t, services, 1)
	assert.Equal(t, "Leaking kitchen tap", services[0].Title)
	assert.Equal(t, bruno, services[0].ProviderID)
	assert.Equal(t, ana, services[0].ClientID)

	w = env.do(t, diogo, http.MethodPatch, "/request/decision", models.Decision{RequestID: 1, Accept: true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Service request has already been accepted or closed", message(t, w))

	w = env.do(t, bruno, http.MethodPatch, "/request/decision", models.Decision{RequestID: 1, Accept: false})
	assert.Equal(t, "Service request returned to pending", message(t, w))
	req, _ = env.store.GetRequest(1)
	assert.Equal(t, "pending", req.Status)
	assert.Nil(t, req.RequestedProvider)
	assert.Empty(t, env.store.ListServices())

	w = env.do(t, bruno, http.MethodPatch, "/request/decision", map[string]any{"requestId": 1})
	assert.Equal(t, "Missing or invalid fields", message(t, w))

	w = env.do(t, bruno, http.MethodPatch, "/request/decision", models.Decision{RequestID: 404, Accept: true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Service request not found", message(t, w))
}

func TestServiceStatus(t *testing.T) {
	env := newStubEnv(t)

	env.do(t, bruno, http.MethodPatch, "/request/decision", models.Decision{RequestID: 1, Accept: true})
	svc := env.store.ListServices()[0]

	w := env.do(t, bruno, http.MethodPatch, "/service/status", models.StatusUpdate{ServiceID: svc.ID, Status: "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing or invalid fields", message(t, w))

	w = env.do(t, bruno, http.MethodPatch, "/service/status", models.StatusUpdate{ServiceID: svc.ID, Status: "started"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Service status updated to 'started'", message(t, w))

	w = env.do(t, bruno, http.MethodGet, "/service/"+strconv.Itoa(svc.ID), nil)
	var got models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "started", got.Status)

	w = env.do(t, bruno, http.MethodGet, "/services/provider/2?status=STARTED&query=", nil)
	var list []models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = env.do(t, bruno, http.MethodGet, "/service/999", nil)
	assert.Equal(t, "Service not found", message(t, w))
}

func TestClientRequests_BudgetIsUpperBound(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, ana, http.MethodGet, "/requests/client?query=", nil)
	var reqs []models.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqs))
	assert.Len(t, reqs, 3)

	w = env.do(t, ana, http.MethodGet, "/requests/client?query=&budget=60", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqs))
	assert.Len(t, reqs, 2)
	for i := 1; i < len(reqs); i++ {
		assert.LessOrEqual(t, reqs[i-1].Deadline, reqs[i].Deadline)
	}
}

func TestServiceTypes(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, ana, http.MethodGet, "/serviceTypes", nil)
	assert.JSONEq(t, `{"types":["Cleaning","Electrician","Gardening","Plumbing"]}`, w.Body.String())
}

func TestProfilePicture(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, 0, http.MethodGet, "/profilePicture/1", nil)
	assert.JSONEq(t, `{"profilePic":""}`, w.Body.String())

	w = env.do(t, ana, http.MethodPut, "/profilePicture", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file part in the request", message(t, w))

	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	token, err := env.tokens.Issue(ana)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/profilePicture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var upload struct {
		Message string `json:"message"`
		URL     string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.Equal(t, "Profile picture updated", upload.Message)
	assert.Contains(t, upload.URL, "http://stub.local/media/")

	w = env.do(t, 0, http.MethodGet, "/profilePicture/1", nil)
	assert.Contains(t, w.Body.String(), upload.URL)
}

func TestDeleteUser_RemovesEverything(t *testing.T) {
	env := newStubEnv(t)

	w := env.do(t, ana, http.MethodDelete, "/user", nil)
	assert.Equal(t, "User and all associated data deleted", message(t, w))
	for _, r := range env.store.ListRequests() {
		require.NotNil(t, r.ClientID)
		assert.NotEqual(t, ana, *r.ClientID)
	}

	w = env.do(t, ana, http.MethodGet, "/user/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

