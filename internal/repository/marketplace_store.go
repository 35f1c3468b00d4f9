package repository

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/ignatzorin/quickfix/internal/models"
)

// Общие ошибки хранилища.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
)

// UserRecord: пользователь в памяти стенда.
type UserRecord struct {
	ID           int
	Name         string
	Username     string
	Email        string
	Location     string
	PasswordHash string
	Rating       float64
	PictureURL   string
}

// RoleRecord: роль исполнителя. Ключом служит пара (UserID, Role) без учёта регистра.
type RoleRecord struct {
	UserID       int
	Role         string
	Location     string
	Description  string
	PricePerHour float64
	DistanceKm   int
}

// Media: загруженный файл.
type Media struct {
	ContentType string
	Data        []byte
}

// MarketplaceStore хранит данные стенда в памяти. Все методы потокобезопасны
// и возвращают копии, чтобы вызывающий код не менял состояние в обход хранилища.
type MarketplaceStore struct {
	mu sync.RWMutex

	users    map[int]*UserRecord
	roles    []RoleRecord
	requests map[int]*models.Request
	services map[int]*models.Service
	// заявка -> услуга, созданная при её принятии
	serviceOf map[int]int
	media     map[string]Media

	nextUser    int
	nextRequest int
	nextService int
}

// NewMarketplaceStore создаёт пустое хранилище.
func NewMarketplaceStore() *MarketplaceStore {
	return &MarketplaceStore{
		users:       make(map[int]*UserRecord),
		requests:    make(map[int]*models.Request),
		services:    make(map[int]*models.Service),
		serviceOf:   make(map[int]int),
		media:       make(map[string]Media),
		nextUser:    1,
		nextRequest: 1,
		nextService: 1,
	}
}

// CreateUser сохраняет пользователя и проставляет ему ID.
func (s *MarketplaceStore) CreateUser(user UserRecord) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByLocked(func(u *UserRecord) bool { return u.Username == user.Username }) != nil {
		return UserRecord{}, ErrAlreadyExists
	}
	user.ID = s.nextUser
	s.nextUser++
	stored := user
	s.users[user.ID] = &stored
	return user, nil
}

// GetUser возвращает пользователя по ID.
func (s *MarketplaceStore) GetUser(id int) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return *u, nil
}

// FindUserByUsername ищет пользователя по логину.
func (s *MarketplaceStore) FindUserByUsername(username string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.userByLocked(func(u *UserRecord) bool { return u.Username == username })
	if u == nil {
		return UserRecord{}, ErrNotFound
	}
	return *u, nil
}

// UsernameTaken сообщает, занят ли логин кем-то, кроме exceptID.
func (s *MarketplaceStore) UsernameTaken(username string, exceptID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByLocked(func(u *UserRecord) bool { return u.ID != exceptID && u.Username == username }) != nil
}

// EmailTaken сообщает, занята ли почта кем-то, кроме exceptID.
func (s *MarketplaceStore) EmailTaken(email string, exceptID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByLocked(func(u *UserRecord) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	}) != nil
}

// UpdateUser применяет fn к пользователю под блокировкой.
func (s *MarketplaceStore) UpdateUser(id int, fn func(*UserRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(u)
	return nil
}

// DeleteUser удаляет пользователя вместе с его ролями, заявками и услугами.
func (s *MarketplaceStore) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)

	roles := s.roles[:0]
	for _, r := range s.roles {
		if r.UserID != id {
			roles = append(roles, r)
		}
	}
	s.roles = roles

	for reqID, req := range s.requests {
		if req.ClientID != nil && *req.ClientID == id {
			s.deleteRequestLocked(reqID)
			continue
		}
		if req.RequestedProvider != nil && *req.RequestedProvider == id {
			req.RequestedProvider = nil
			req.IsAccepted = false
			req.Status = "pending"
			s.deleteServiceOfLocked(reqID)
		}
	}
	for svcID, svc := range s.services {
		if svc.ProviderID == id || svc.ClientID == id {
			delete(s.services, svcID)
		}
	}
	return nil
}

// ListUsers возвращает всех пользователей по возрастанию ID.
func (s *MarketplaceStore) ListUsers() []UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]UserRecord, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MarketplaceStore) userByLocked(match func(*UserRecord) bool) *UserRecord {
	for _, u := range s.users {
		if match(u) {
			return u
		}
	}
	return nil
}

// ListRoles возвращает роли; userID <= 0 означает все роли.
func (s *MarketplaceStore) ListRoles(userID int) []RoleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RoleRecord, 0, len(s.roles))
	for _, r := range s.roles {
		if userID <= 0 || r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// AddRole добавляет роль, если у пользователя её ещё нет.
func (s *MarketplaceStore) AddRole(role RoleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roleIndexLocked(role.UserID, role.Role) >= 0 {
		return ErrAlreadyExists
	}
	s.roles = append(s.roles, role)
	return nil
}

// UpdateRole применяет fn к роли пользователя.
func (s *MarketplaceStore) UpdateRole(userID int, role string, fn func(*RoleRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.roleIndexLocked(userID, role)
	if i < 0 {
		return ErrNotFound
	}
	fn(&s.roles[i])
	return nil
}

// DeleteRole удаляет роль пользователя.
func (s *MarketplaceStore) DeleteRole(userID int, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.roleIndexLocked(userID, role)
	if i < 0 {
		return ErrNotFound
	}
	s.roles = append(s.roles[:i], s.roles[i+1:]...)
	return nil
}

func (s *MarketplaceStore) roleIndexLocked(userID int, role string) int {
	for i, r := range s.roles {
		if r.UserID == userID && strings.EqualFold(r.Role, role) {
			return i
		}
	}
	return -1
}

// CreateRequest сохраняет заявку и возвращает её с ID.
func (s *MarketplaceStore) CreateRequest(req models.Request) models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = s.nextRequest
	s.nextRequest++
	stored := req
	s.requests[req.ID] = &stored
	return req
}

// GetRequest возвращает заявку по ID.
func (s *MarketplaceStore) GetRequest(id int) (models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return models.Request{}, ErrNotFound
	}
	return *req, nil
}

// ListRequests возвращает копии всех заявок по возрастанию ID.
func (s *MarketplaceStore) ListRequests() []models.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Request, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateRequest применяет fn к заявке под блокировкой.
// fn проверяет условия до того, как что-либо менять.
func (s *MarketplaceStore) UpdateRequest(id int, fn func(*models.Request) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	return fn(req)
}

// DeleteRequest удаляет заявку и связанную с ней услугу.
func (s *MarketplaceStore) DeleteRequest(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return ErrNotFound
	}
	s.deleteRequestLocked(id)
	return nil
}

func (s *MarketplaceStore) deleteRequestLocked(id int) {
	delete(s.requests, id)
	s.deleteServiceOfLocked(id)
}

// AcceptRequest атомарно переводит заявку в accepted и создаёт по ней услугу.
// check вызывается под блокировкой до каких-либо изменений.
func (s *MarketplaceStore) AcceptRequest(id, providerID int, check func(models.Request) error) (models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return models.Service{}, ErrNotFound
	}
	if err := check(*req); err != nil {
		return models.Service{}, err
	}

	provider := providerID
	req.Status = "accepted"
	req.IsAccepted = true
	req.RequestedProvider = &provider

	svc := models.Service{
		ID:          s.nextService,
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Deadline:    req.Deadline,
		Price:       req.Price,
		Status:      "accepted",
		ProviderID:  providerID,
		DistanceKm:  req.DistanceKm,
	}
	if req.ClientID != nil {
		svc.ClientID = *req.ClientID
	}
	s.nextService++
	s.deleteServiceOfLocked(id)
	stored := svc
	s.services[svc.ID] = &stored
	s.serviceOf[id] = svc.ID
	return svc, nil
}

// ReturnRequest возвращает заявку в ожидание и удаляет связанную услугу.
func (s *MarketplaceStore) ReturnRequest(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = "pending"
	req.IsAccepted = false
	req.RequestedProvider = nil
	s.deleteServiceOfLocked(id)
	return nil
}

func (s *MarketplaceStore) deleteServiceOfLocked(requestID int) {
	if svcID, ok := s.serviceOf[requestID]; ok {
		delete(s.services, svcID)
		delete(s.serviceOf, requestID)
	}
}

// GetService возвращает услугу по ID.
func (s *MarketplaceStore) GetService(id int) (models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return models.Service{}, ErrNotFound
	}
	return *svc, nil
}

// ListServices возвращает копии всех услуг по возрастанию ID.
func (s *MarketplaceStore) ListServices() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetServiceStatus меняет статус услуги и повторяет его в исходной заявке.
func (s *MarketplaceStore) SetServiceStatus(id int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		return ErrNotFound
	}
	svc.Status = status
	for reqID, svcID := range s.serviceOf {
		if svcID == id {
			if req, ok := s.requests[reqID]; ok {
				req.Status = status
			}
		}
	}
	return nil
}

// PutMedia сохраняет файл под именем name.
func (s *MarketplaceStore) PutMedia(name string, m Media) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[name] = m
}

// GetMedia возвращает файл по имени.
func (s *MarketplaceStore) GetMedia(name string) (Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.media[name]
	if !ok {
		return Media{}, ErrNotFound
	}
	return m, nil
}

// Stats: размеры коллекций для health-check.
type Stats struct {
	Users    int `json:"users"`
	Roles    int `json:"roles"`
	Requests int `json:"requests"`
	Services int `json:"services"`
}

// Stats возвращает размеры коллекций.
func (s *MarketplaceStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Users: len(s.users), Roles: len(s.roles), Requests: len(s.requests), Services: len(s.services)}
}
