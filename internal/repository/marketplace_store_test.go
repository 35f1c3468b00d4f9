package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/quickfix/internal/models"
)

func intPtr(v int) *int { return &v }

func TestMarketplaceStore_Roles(t *testing.T) {
	s := NewMarketplaceStore()
	require.NoError(t, s.AddRole(RoleRecord{UserID: 1, Role: "Plumbing"}))
	assert.ErrorIs(t, s.AddRole(RoleRecord{UserID: 1, Role: "plumbing"}), ErrAlreadyExists)
	require.NoError(t, s.AddRole(RoleRecord{UserID: 2, Role: "Plumbing"}))

	require.NoError(t, s.UpdateRole(1, "PLUMBING", func(r *RoleRecord) { r.PricePerHour = 10 }))
	assert.Equal(t, 10.0, s.ListRoles(1)[0].PricePerHour)
	assert.Len(t, s.ListRoles(0), 2)

	require.NoError(t, s.DeleteRole(1, "plumbing"))
	assert.ErrorIs(t, s.DeleteRole(1, "plumbing"), ErrNotFound)
	assert.Empty(t, s.ListRoles(1))
}

func TestMarketplaceStore_AcceptAndReturn(t *testing.T) {
	s := NewMarketplaceStore()
	req := s.CreateRequest(models.Request{Title: "Tap", Type: "Plumbing", Status: "pending", ClientID: intPtr(1), Price: 40})

	rejected := errors.New("nope")
	_, err := s.AcceptRequest(req.ID, 2, func(models.Request) error { return rejected })
	assert.ErrorIs(t, err, rejected)
	got, _ := s.GetRequest(req.ID)
	assert.Equal(t, "pending", got.Status)
	assert.Empty(t, s.ListServices())

	svc, err := s.AcceptRequest(req.ID, 2, func(models.Request) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, svc.ClientID)
	assert.Equal(t, 2, svc.ProviderID)
	assert.Equal(t, "accepted", svc.Status)

	require.NoError(t, s.SetServiceStatus(svc.ID, "started"))
	got, _ = s.GetRequest(req.ID)
	assert.Equal(t, "started", got.Status)

	require.NoError(t, s.ReturnRequest(req.ID))
	got, _ = s.GetRequest(req.ID)
	assert.Equal(t, "pending", got.Status)
	assert.Nil(t, got.RequestedProvider)
	_, err = s.GetService(svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarketplaceStore_ReturnsCopies(t *testing.T) {
	s := NewMarketplaceStore()
	req := s.CreateRequest(models.Request{Title: "Original"})

	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	got.Title = "Changed"

	again, _ := s.GetRequest(req.ID)
	assert.Equal(t, "Original", again.Title)
}

func TestMarketplaceStore_DeleteUserCascades(t *testing.T) {
	s := NewMarketplaceStore()
	client, err := s.CreateUser(UserRecord{Username: "ana"})
	require.NoError(t, err)
	provider, err := s.CreateUser(UserRecord{Username: "bruno"})
	require.NoError(t, err)
	_, err = s.CreateUser(UserRecord{Username: "ana"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	own := s.CreateRequest(models.Request{Status: "pending", ClientID: intPtr(client.ID)})
	_, err = s.AcceptRequest(own.ID, provider.ID, func(models.Request) error { return nil })
	require.NoError(t, err)
	require.NoError(t, s.AddRole(RoleRecord{UserID: provider.ID, Role: "Plumbing"}))

	require.NoError(t, s.DeleteUser(provider.ID))
	got, err := s.GetRequest(own.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Empty(t, s.ListServices())
	assert.Empty(t, s.ListRoles(0))

	require.NoError(t, s.DeleteUser(client.ID))
	assert.Empty(t, s.ListRequests())
	assert.ErrorIs(t, s.DeleteUser(client.ID), ErrNotFound)
}

func TestMarketplaceStore_ConcurrentCreate(t *testing.T) {
	s := NewMarketplaceStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CreateRequest(models.Request{Status: "pending"})
		}()
	}
	wg.Wait()

	reqs := s.ListRequests()
	require.Len(t, reqs, 50)
	assert.Equal(t, 50, reqs[49].ID)
}
