package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"spicymarket/models"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("username already taken")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
)

// Store is the typed view over the KV collections. Each mutation reads the
// whole collection, changes it and writes it back while holding mu, so
// writers in one process never lose each other's updates.
type Store struct {
	mu     sync.RWMutex
	kv     KV
	logger *zap.Logger

	users          *collection
	admins         *collection
	products       *collection
	orders         *collection
	paymentMethods *collection
}

func NewStore(kv KV, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{kv: kv, logger: logger}

	var err error
	if s.users, err = newCollection(UsersKey, "user.json", nil); err != nil {
		return nil, err
	}
	if s.admins, err = newCollection(AdminsKey, "user.json", nil); err != nil {
		return nil, err
	}
	if s.products, err = newCollection(ProductsKey, "product.json", migrateProduct); err != nil {
		return nil, err
	}
	if s.orders, err = newCollection(OrdersKey, "order.json", migrateOrder); err != nil {
		return nil, err
	}
	if s.paymentMethods, err = newCollection(PaymentMethodsKey, "payment_method.json", nil); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func load[T any](ctx context.Context, s *Store, c *collection) ([]T, error) {
	raw, found, err := s.kv.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	return decode[T](c, raw, found, s.logger), nil
}

func save[T any](ctx context.Context, s *Store, c *collection, records []T) error {
	b, err := encode(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return s.kv.Put(ctx, c.key, b)
}

// SeedProducts writes the default catalog if the product key was never set.
// An explicitly emptied catalog stays empty.
func (s *Store) SeedProducts(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.kv.Get(ctx, ProductsKey)
	if err != nil || found {
		return false, err
	}
	if err := save(ctx, s, s.products, DefaultProducts()); err != nil {
		return false, err
	}
	s.logger.Info("seeded default products", zap.Int("count", len(DefaultProducts())))
	return true, nil
}

// ---- products

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return load[models.Product](ctx, s, s.products)
}

func (s *Store) Product(ctx context.Context, id int64) (models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (s *Store) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := load[models.Product](ctx, s, s.products)
	if err != nil {
		return models.Product{}, err
	}
	var maxID int64
	for _, existing := range products {
		maxID = max(maxID, existing.ID)
	}
	p.ID = maxID + 1
	if err := save(ctx, s, s.products, append(products, p)); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, updated models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := load[models.Product](ctx, s, s.products)
	if err != nil {
		return models.Product{}, err
	}
	for i := range products {
		if products[i].ID == id {
			updated.ID = id
			products[i] = updated
			return updated, save(ctx, s, s.products, products)
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := load[models.Product](ctx, s, s.products)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == id {
			return save(ctx, s, s.products, append(products[:i], products[i+1:]...))
		}
	}
	return ErrProductNotFound
}

// ---- users and admins

func (s *Store) allUsers(ctx context.Context) (users, admins []models.User, err error) {
	if users, err = load[models.User](ctx, s, s.users); err != nil {
		return nil, nil, err
	}
	if admins, err = load[models.User](ctx, s, s.admins); err != nil {
		return nil, nil, err
	}
	return users, admins, nil
}

// CreateUser stores u in the user or admin collection according to its role.
// Usernames are unique across both collections.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, admins, err := s.allUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	if findUser(users, u.Username) >= 0 || findUser(admins, u.Username) >= 0 {
		return models.User{}, ErrUserExists
	}

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Role == models.RoleAdmin {
		err = save(ctx, s, s.admins, append(admins, u))
	} else {
		err = save(ctx, s, s.users, append(users, u))
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindUser looks in regular users first, then admins.
func (s *Store) FindUser(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, admins, err := s.allUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	if i := findUser(users, username); i >= 0 {
		return users[i], nil
	}
	if i := findUser(admins, username); i >= 0 {
		return admins[i], nil
	}
	return models.User{}, ErrUserNotFound
}

// Users returns regular users and admins together, newest first.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, admins, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}
	all := append(users, admins...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// UpdateUser applies fn to the stored user. Username and role cannot change.
func (s *Store) UpdateUser(ctx context.Context, username string, fn func(*models.User)) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, admins, err := s.allUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, c := range []struct {
		records []models.User
		coll    *collection
	}{{users, s.users}, {admins, s.admins}} {
		i := findUser(c.records, username)
		if i < 0 {
			continue
		}
		u := c.records[i]
		fn(&u)
		u.Username, u.Role = c.records[i].Username, c.records[i].Role
		c.records[i] = u
		return u, save(ctx, s, c.coll, c.records)
	}
	return models.User{}, ErrUserNotFound
}

type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	Photo       string `json:"photo"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

func (s *Store) UpdateProfile(ctx context.Context, username string, p ProfileUpdate) (models.User, error) {
	return s.UpdateUser(ctx, username, func(u *models.User) {
		u.DisplayName = p.DisplayName
		u.Photo = p.Photo
		u.Address = p.Address
		u.Phone = p.Phone
	})
}

func (s *Store) SetPasswordHash(ctx context.Context, username, hash string) error {
	_, err := s.UpdateUser(ctx, username, func(u *models.User) { u.PasswordHash = hash })
	return err
}

func (s *Store) SetLanguage(ctx context.Context, username, lang string) error {
	_, err := s.UpdateUser(ctx, username, func(u *models.User) { u.Language = lang })
	return err
}

func findUser(users []models.User, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}

// ---- orders

// AppendOrder adds o to orders_database and its id to order_number_database.
func (s *Store) AppendOrder(ctx context.Context, o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, found, err := s.kv.Get(ctx, OrdersKey)
	if err != nil {
		return err
	}
	orders := decode[models.Order](s.orders, prev, found, s.logger)
	numbers, _, err := s.kv.Get(ctx, OrderNumbersKey)
	if err != nil {
		return err
	}

	if err := save(ctx, s, s.orders, append(orders, o)); err != nil {
		return err
	}
	id := strconv.FormatInt(o.ID, 10)
	if len(strings.TrimSpace(string(numbers))) > 0 {
		id = string(numbers) + "\n" + id
	}
	if err := s.kv.Put(ctx, OrderNumbersKey, []byte(id)); err != nil {
		// both keys or neither
		if !found {
			prev = []byte("[]")
		}
		if rerr := s.kv.Put(ctx, OrdersKey, prev); rerr != nil {
			s.logger.Error("restore orders after failed order number write",
				zap.Int64("order_id", o.ID),
				zap.Error(rerr),
			)
		}
		return fmt.Errorf("append order number: %w", err)
	}
	return nil
}

// Orders returns every order, newest first.
func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	s.mu.RLock()
	orders, err := load[models.Order](ctx, s, s.orders)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *Store) UserOrders(ctx context.Context, username string) ([]models.Order, error) {
	all, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}
	res := []models.Order{}
	for _, o := range all {
		if o.Username == username {
			res = append(res, o)
		}
	}
	return res, nil
}

func (s *Store) Order(ctx context.Context, id int64) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := load[models.Order](ctx, s, s.orders)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// UpdateOrder applies fn to the order with the given id and saves the
// collection unless fn returns an error. Other orders are written back as read.
func (s *Store) UpdateOrder(ctx context.Context, id int64, fn func(*models.Order) error) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := load[models.Order](ctx, s, s.orders)
	if err != nil {
		return models.Order{}, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		o := orders[i]
		if err := fn(&o); err != nil {
			return models.Order{}, err
		}
		o.ID = id
		orders[i] = o
		return o, save(ctx, s, s.orders, orders)
	}
	return models.Order{}, ErrOrderNotFound
}

// OrderNumberCount counts non-blank lines of the order id log.
func (s *Store) OrderNumberCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, _, err := s.kv.Get(ctx, OrderNumbersKey)
	if err != nil {
		return 0, err
	}
	return len(orderNumbers(raw)), nil
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

// ---- payment methods

func (s *Store) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return load[models.PaymentMethod](ctx, s, s.paymentMethods)
}

func (s *Store) CreatePaymentMethod(ctx context.Context, m models.PaymentMethod) (models.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	methods, err := load[models.PaymentMethod](ctx, s, s.paymentMethods)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	var maxID int64
	for _, existing := range methods {
		maxID = max(maxID, existing.ID)
	}
	m.ID = maxID + 1
	if err := save(ctx, s, s.paymentMethods, append(methods, m)); err != nil {
		return models.PaymentMethod{}, err
	}
	return m, nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, id int64, updated models.PaymentMethod) (models.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	methods, err := load[models.PaymentMethod](ctx, s, s.paymentMethods)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	for i := range methods {
		if methods[i].ID == id {
			updated.ID = id
			methods[i] = updated
			return updated, save(ctx, s, s.paymentMethods, methods)
		}
	}
	return models.PaymentMethod{}, ErrPaymentMethodNotFound
}

func (s *Store) DeletePaymentMethod(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	methods, err := load[models.PaymentMethod](ctx, s, s.paymentMethods)
	if err != nil {
		return err
	}
	for i := range methods {
		if methods[i].ID == id {
			return save(ctx, s, s.paymentMethods, append(methods[:i], methods[i+1:]...))
		}
	}
	return ErrPaymentMethodNotFound
}

// ---- dashboard

type Stats struct {
	Products int `json:"products"`
	Users    int `json:"users"`
	Orders   int `json:"orders"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return Stats{}, err
	}
	s.mu.RLock()
	users, admins, err := s.allUsers(ctx)
	s.mu.RUnlock()
	if err != nil {
		return Stats{}, err
	}
	orders, err := s.OrderNumberCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Products: len(products),
		Users:    len(users) + len(admins),
		Orders:   orders,
	}, nil
}
