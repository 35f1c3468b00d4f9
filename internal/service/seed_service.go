package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/repository"
)

// SeedPassword: пароль всех демо-аккаунтов.
const SeedPassword = "quickfix123"

// SeedAccount описывает созданный демо-аккаунт.
type SeedAccount struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Password string `json:"password"`
	Roles    int    `json:"roles"`
}

type seedUser struct {
	name, username, email, location string
	rating                          float64
	roles                           []repository.RoleRecord
}

type seedRequest struct {
	owner                              string
	title, typ, description, location string
	price                              float64
	inDays                             int
	hour                               int
	distance                           int
}

var seedUsers = []seedUser{
	{name: "Ana Silva", username: "ana", email: "ana@quickfix.pt", location: "Rua Augusta, 10, Lisbon, Portugal", rating: 4.6},
	{name: "Bruno Costa", username: "bruno", email: "bruno@quickfix.pt", location: "Porto, Portugal", rating: 4.8, roles: []repository.RoleRecord{
		{Role: "Plumbing", Location: "Porto, Portugal", Description: "Leaks, taps and boilers", PricePerHour: 25, DistanceKm: 3},
		{Role: "Electrician", Location: "Porto, Portugal", Description: "Sockets, lighting and panels", PricePerHour: 30, DistanceKm: 3},
	}},
	{name: "Carla Mendes", username: "carla", email: "carla@quickfix.pt", location: "Coimbra, Portugal", rating: 4.2, roles: []repository.RoleRecord{
		{Role: "Cleaning", Location: "Coimbra, Portugal", Description: "Homes and offices, weekly or one-off", PricePerHour: 12.5, DistanceKm: 12},
	}},
	{name: "Diogo Ramos", username: "diogo", email: "diogo@quickfix.pt", location: "Braga, Portugal", rating: 3.9, roles: []repository.RoleRecord{
		{Role: "Gardening", Location: "Braga, Portugal", Description: "Lawns, hedges and irrigation", PricePerHour: 18, DistanceKm: 25},
		{Role: "Plumbing", Location: "Braga, Portugal", Description: "Emergency call-outs", PricePerHour: 35, DistanceKm: 25},
	}},
}

var seedRequests = []seedRequest{
	{owner: "ana", title: "Leaking kitchen tap", typ: "Plumbing", description: "Tap drips all night", location: "Rua Augusta, 10, Lisbon, Portugal", price: 40, inDays: 2, hour: 10, distance: 2},
	{owner: "ana", title: "Living room lights", typ: "Electrician", description: "Two ceiling lights stopped working", location: "Lisbon, Portugal", price: 60, inDays: 5, distance: 4},
	{owner: "ana", title: "Spring cleaning", typ: "Cleaning", description: "Three-bedroom flat", location: "Lisbon, Portugal", price: 90, inDays: 9, hour: 9, distance: 4},
	{owner: "carla", title: "Hedge trimming", typ: "Gardening", description: "About twenty metres of hedge", location: "Coimbra, Portugal", price: 50, inDays: 3, hour: 15, distance: 12},
	{owner: "diogo", title: "Boiler check", typ: "Plumbing", description: "Annual boiler inspection", location: "Braga, Portugal", price: 0, inDays: 7, distance: 25},
}

// SeedService заполняет хранилище стенда демо-данными.
type SeedService struct {
	store *repository.MarketplaceStore
	now   func() time.Time
}

// NewSeedService создаёт сервис демо-данных.
func NewSeedService(store *repository.MarketplaceStore) *SeedService {
	return &SeedService{store: store, now: time.Now}
}

// SeedData создаёт демо-аккаунты, роли и заявки. Уже существующие аккаунты пропускаются,
// поэтому повторный вызов ничего не дублирует.
func (s *SeedService) SeedData(ctx context.Context) ([]SeedAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to hash password: %w", err)
	}

	ids := make(map[string]int, len(seedUsers))
	accounts := make([]SeedAccount, 0, len(seedUsers))
	for _, su := range seedUsers {
		if existing, err := s.store.FindUserByUsername(su.username); err == nil {
			ids[su.username] = existing.ID
			continue
		}

		user, err := s.store.CreateUser(repository.UserRecord{
			Name:         su.name,
			Username:     su.username,
			Email:        su.email,
			Location:     su.location,
			PasswordHash: string(hash),
			Rating:       su.rating,
		})
		if err != nil {
			return nil, fmt.Errorf("seed service: failed to create user %s: %w", su.username, err)
		}
		ids[su.username] = user.ID

		for _, role := range su.roles {
			role.UserID = user.ID
			if err := s.store.AddRole(role); err != nil {
				return nil, fmt.Errorf("seed service: failed to add role %s: %w", role.Role, err)
			}
		}
		accounts = append(accounts, SeedAccount{
			UserID:   user.ID,
			Username: su.username,
			Password: SeedPassword,
			Roles:    len(su.roles),
		})

		for _, sr := range seedRequests {
			if sr.owner != su.username {
				continue
			}
			owner := user.ID
			deadline := s.now().AddDate(0, 0, sr.inDays).Truncate(24 * time.Hour).Add(time.Duration(sr.hour) * time.Hour)
			s.store.CreateRequest(models.Request{
				Title:       sr.title,
				Type:        sr.typ,
				Description: sr.description,
				Location:    sr.location,
				Deadline:    render.WireDeadline(deadline),
				Price:       sr.price,
				Status:      "pending",
				ClientID:    &owner,
				DistanceKm:  sr.distance,
			})
		}
	}
	return accounts, nil
}
