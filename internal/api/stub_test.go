package api_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/quickfix/internal/api"
	"github.com/ignatzorin/quickfix/internal/config"
	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/http/router"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/repository"
	"github.com/ignatzorin/quickfix/internal/service"
)

// tokenBox: изменяемый источник токена, как сессия клиента.
type tokenBox struct{ token string }

func (b *tokenBox) Token(context.Context) (string, error) { return b.token, nil }

func newStubClient(t *testing.T) (*api.Client, *tokenBox) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Env: "test", Stub: config.StubConfig{RateLimitLimit: 10000, RateLimitPeriod: time.Minute}}
	store := repository.NewMarketplaceStore()
	tokens := service.NewTokenManager("secret", time.Hour)
	market := service.NewMarketplace(store, tokens, "http://stub.local")
	seed := service.NewSeedService(store)
	_, err := seed.SeedData(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(router.SetupRouter(cfg, router.NewHandlers(market, seed), tokens))
	t.Cleanup(srv.Close)

	box := &tokenBox{}
	return api.NewClient(srv.URL, 5*time.Second, box), box
}

func login(t *testing.T, c *api.Client, box *tokenBox, username string) int {
	t.Helper()
	resp, err := c.Login(context.Background(), username, service.SeedPassword)
	require.NoError(t, err)
	box.token = resp.Token
	return resp.UserID
}

func TestStub_LoginAndProfile(t *testing.T) {
	c, box := newStubClient(t)
	ctx := context.Background()

	_, err := c.Login(ctx, "ana", "wrong")
	assert.Equal(t, "Invalid credentials", apperror.UserMessage(err))

	_, err = c.GetMe(ctx)
	assert.Equal(t, "Token is missing", apperror.UserMessage(err))

	id := login(t, c, box, "bruno")
	me, err := c.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, me.UserID)
	require.Len(t, me.Roles, 2)
	role, ok := me.RoleNamed("plumbing")
	require.True(t, ok)
	assert.Equal(t, 25.0, role.PricePerHour)

	other, err := c.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", other.Name)
	assert.Empty(t, other.Email)
}

func TestStub_AcceptThenStatusRoundTrip(t *testing.T) {
	c, box := newStubClient(t)
	ctx := context.Background()
	providerID := login(t, c, box, "bruno")

	f := valueobject.Filter{Type: "Plumbing", Budget: valueobject.Some(10)}
	feed, err := c.ListRequests(ctx, f)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	requestID := feed[0].ID

	owner, err := c.CheckOwnership(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, owner)

	resp, err := c.Decide(ctx, requestID, true)
	require.NoError(t, err)
	assert.Equal(t, "Service request accepted", resp.Message)

	req, err := c.GetRequest(ctx, requestID)
	require.NoError(t, err)
	assert.True(t, req.AcceptedBy(providerID))

	services, err := c.ListProviderServices(ctx, providerID, api.OwnQuery{})
	require.NoError(t, err)
	require.Len(t, services, 1)

	_, err = c.UpdateServiceStatus(ctx, services[0].ID, valueobject.StatusStarted)
	require.NoError(t, err)
	svc, err := c.GetService(ctx, services[0].ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.StatusStarted, svc.ParsedStatus())

	_, err = c.Decide(ctx, requestID, true)
	assert.Equal(t, "Service request has already been accepted or closed", apperror.UserMessage(err))
}

func TestStub_RequestLifecycleForOwner(t *testing.T) {
	c, box := newStubClient(t)
	ctx := context.Background()
	login(t, c, box, "ana")

	_, err := c.CreateRequest(ctx, models.RequestForm{
		Title:       "Paint fence",
		Type:        "Painting",
		Description: "Ten metres",
		Location:    "Lisbon, Portugal",
		Price:       35,
		Deadline:    "2031-05-01T09:30:00",
	})
	require.NoError(t, err)

	mine, err := c.ListClientRequests(ctx, api.OwnQuery{Query: "fence"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	id := mine[0].ID

	owner, err := c.CheckOwnership(ctx, id)
	require.NoError(t, err)
	assert.True(t, owner)

	_, err = c.UpdateRequest(ctx, id, models.RequestPatch{Price: valueobject.Some(40.0)})
	require.NoError(t, err)
	got, err := c.GetRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Price)
	assert.Equal(t, "Paint fence", got.Title)

	types, err := c.GetServiceTypes(ctx)
	require.NoError(t, err)
	assert.Contains(t, types, "Painting")

	resp, err := c.DeleteRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Service request deleted", resp.Message)

	_, err = c.GetRequest(ctx, id)
	assert.Equal(t, "Request not found", apperror.UserMessage(err))
}

func TestStub_Roles(t *testing.T) {
	c, box := newStubClient(t)
	ctx := context.Background()
	login(t, c, box, "carla")

	_, err := c.AddRole(ctx, models.ProviderRole{Role: "Ironing", Location: "Coimbra, Portugal", Description: "Shirts", PricePerHour: 9})
	require.NoError(t, err)

	_, err = c.AddRole(ctx, models.ProviderRole{Role: "ironing", Location: "Coimbra, Portugal", Description: "Shirts", PricePerHour: 9})
	assert.Equal(t, "Role already exists for this provider", apperror.UserMessage(err))

	_, err = c.UpdateRole(ctx, models.ProviderRoleUpdate{Role: "Ironing", Location: "Coimbra, Portugal", Description: "Shirts and trousers", PricePerHour: 11})
	require.NoError(t, err)

	roles, err := c.ListMyRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	_, err = c.RemoveRole(ctx, "Gardening")
	assert.Equal(t, "Role not found", apperror.UserMessage(err))

	detail, err := c.GetProviderDetails(ctx, 2, "Plumbing")
	require.NoError(t, err)
	assert.Equal(t, "Bruno Costa", detail.Name)
}

func TestStub_ProfilePicture(t *testing.T) {
	c, box := newStubClient(t)
	ctx := context.Background()
	id := login(t, c, box, "ana")

	pic, err := c.GetProfilePicture(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, pic.URL)

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	res, err := c.UploadProfilePicture(ctx, "avatar.gif", gif)
	require.NoError(t, err)
	assert.Equal(t, "Profile picture updated", res.Message)

	pic, err = c.GetProfilePicture(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res.URL, pic.URL)
}
