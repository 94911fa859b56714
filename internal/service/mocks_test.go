package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing

type mockUserRepository struct {
	users map[string]*domain.User
	roles *mockRoleRepository
}

func newMockUserRepository(roles *mockRoleRepository) *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User), roles: roles}
}

func (m *mockUserRepository) attachRole(u *domain.User) *domain.User {
	cp := *u
	if r, ok := m.roles.byID[u.RoleID]; ok {
		role := *r
		cp.Role = &role
	}
	return &cp
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	if _, ok := m.roles.byID[user.RoleID]; !ok {
		return repository.ErrRoleNotFound
	}
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	for email, u := range m.users {
		if u.ID == user.ID {
			delete(m.users, email)
			cp := *user
			m.users[user.Email] = &cp
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for email, u := range m.users {
		if u.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.users {
		out = append(out, m.attachRole(u))
	}
	return out, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return m.attachRole(user), nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return m.attachRole(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRoleRepository struct {
	byID map[uuid.UUID]*domain.Role
}

func newMockRoleRepository() *mockRoleRepository {
	m := &mockRoleRepository{byID: map[uuid.UUID]*domain.Role{}}
	for _, name := range []string{domain.RoleAdmin, domain.RoleCustomer, domain.RoleSeller} {
		r := &domain.Role{ID: uuid.New(), Name: name}
		m.byID[r.ID] = r
	}
	return m
}

func (m *mockRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	if _, err := m.FindByName(ctx, role.Name); err == nil {
		return repository.ErrRoleAlreadyExists
	}
	m.byID[role.ID] = role
	return nil
}

func (m *mockRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	if _, ok := m.byID[role.ID]; !ok {
		return repository.ErrRoleNotFound
	}
	m.byID[role.ID] = role
	return nil
}

func (m *mockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrRoleNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	out := []*domain.Role{}
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrRoleNotFound
	}
	return r, nil
}

func (m *mockRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	for _, r := range m.byID {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, repository.ErrRoleNotFound
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	listHits int
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: map[uuid.UUID]*domain.Product{}}
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.listHits++
	out := []*domain.Product{}
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	listHits   int
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: map[uuid.UUID]*domain.Category{}}
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.listHits++
	out := []*domain.Category{}
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

type mockCartRepository struct {
	items    map[uuid.UUID]*domain.CartItem
	products *mockProductRepository
}

func newMockCartRepository(products *mockProductRepository) *mockCartRepository {
	return &mockCartRepository{items: map[uuid.UUID]*domain.CartItem{}, products: products}
}

func (m *mockCartRepository) withProduct(item *domain.CartItem) *domain.CartItem {
	cp := *item
	if p, ok := m.products.products[item.ProductID]; ok {
		pc := *p
		cp.Product = &pc
	}
	return &cp
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, *m.withProduct(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCartRepository) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return nil, repository.ErrCartItemNotFound
	}
	return m.withProduct(item), nil
}

func (m *mockCartRepository) FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error) {
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			return m.withProduct(item), nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (m *mockCartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	product, ok := m.products.products[item.ProductID]
	if !ok {
		return repository.ErrProductNotFound
	}
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			if existing.Quantity+item.Quantity > product.Stock {
				return repository.ErrInsufficientStock
			}
			existing.Quantity += item.Quantity
			existing.UpdatedAt = item.UpdatedAt
			item.ID = existing.ID
			item.Quantity = existing.Quantity
			return nil
		}
	}
	if item.Quantity > product.Stock {
		return repository.ErrInsufficientStock
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockCartRepository) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int, at time.Time) error {
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return repository.ErrCartItemNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = at
	return nil
}

func (m *mockCartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return repository.ErrCartItemNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: map[uuid.UUID]*domain.Order{}}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepository) filter(keep func(*domain.Order) bool) []*domain.Order {
	out := []*domain.Order{}
	for _, o := range m.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderedAt.After(out[j].OrderedAt) })
	return out
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return m.filter(func(o *domain.Order) bool { return o.User.ID == userID }), nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return m.filter(func(*domain.Order) bool { return true }), nil
}

func (m *mockOrderRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.Order, error) {
	return m.filter(func(o *domain.Order) bool { return !o.OrderedAt.Before(since) }), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, at time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if o.Status != from {
		return repository.ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = at
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Close() error { return nil }
