package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gostorefront/storefront/internal/order"
	"github.com/gostorefront/storefront/internal/product"
	"github.com/gostorefront/storefront/internal/session"
	"github.com/gostorefront/storefront/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

//
// ---------- in-memory stubs ----------
//

type stubProducts struct {
	items   map[string]*product.Product
	inorder []string
}

func newStubProducts() *stubProducts {
	return &stubProducts{items: map[string]*product.Product{}}
}

func (s *stubProducts) List(ctx context.Context, q string) ([]product.Product, error) {
	out := []product.Product{}
	// newest first: reverse of insertion order
	for i := len(s.inorder) - 1; i >= 0; i-- {
		p, ok := s.items[s.inorder[i]]
		if !ok {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProducts) GetByIDs(ctx context.Context, ids []string) (map[string]*product.Product, error) {
	out := map[string]*product.Product{}
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *stubProducts) Create(ctx context.Context, p *product.Product) error {
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.items[cp.ID] = &cp
	s.inorder = append(s.inorder, cp.ID)
	return nil
}

func (s *stubProducts) Update(ctx context.Context, p *product.Product) error {
	cur, ok := s.items[p.ID]
	if !ok {
		return product.ErrNotFound
	}
	cp := *p
	cp.CreatedAt = cur.CreatedAt
	s.items[p.ID] = &cp
	return nil
}

func (s *stubProducts) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

type stubUsers struct {
	byID map[string]*user.User
}

func newStubUsers() *stubUsers { return &stubUsers{byID: map[string]*user.User{}} }

func (s *stubUsers) Create(ctx context.Context, u *user.User) error {
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	cp := *u
	cp.CreatedAt = time.Now().UTC()
	s.byID[cp.ID] = &cp
	return nil
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

type stubOrders struct {
	lastOrder *order.Order
	lastItems []order.Item
}

func (s *stubOrders) Create(ctx context.Context, o *order.Order, items []order.Item) error {
	cp := *o
	cp.CreatedAt = time.Now().UTC()
	s.lastOrder = &cp
	s.lastItems = append([]order.Item(nil), items...)
	return nil
}

func (s *stubOrders) GetByID(ctx context.Context, id string) (*order.Order, []order.Item, error) {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return nil, nil, order.ErrNotFound
	}
	return s.lastOrder, s.lastItems, nil
}

func (s *stubOrders) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	if s.lastOrder != nil && s.lastOrder.UserID == userID {
		return []order.Order{*s.lastOrder}, nil
	}
	return []order.Order{}, nil
}

//
// ---------- test environment ----------
//

type env struct {
	codec    *session.Codec
	products *stubProducts
	users    *stubUsers
	orders   *stubOrders
	router   *gin.Engine
}

func newEnv() *env {
	products := newStubProducts()
	users := newStubUsers()
	orders := &stubOrders{}
	codec := session.NewCodec("test-secret", time.Hour, 24*time.Hour)
	router := newRouter(codec, products, orders,
		order.NewService(orders, products), user.NewService(users))
	return &env{codec: codec, products: products, users: users, orders: orders, router: router}
}

func (e *env) addProduct(t *testing.T, name, price string, stock int) *product.Product {
	t.Helper()
	d, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	p := &product.Product{ID: uuid.NewString(), Name: name, Price: d, Stock: stock}
	if err := e.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (e *env) addUser(t *testing.T, email, password string, admin bool) *user.User {
	t.Helper()
	hash, err := user.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &user.User{ID: uuid.NewString(), Email: email, Name: "Test User", PasswordHash: hash, Admin: admin}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *env) sessionCookie(t *testing.T, s session.Session) *http.Cookie {
	t.Helper()
	tok, err := e.codec.Encode(s)
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: tok}
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) { r.AddCookie(c) }
}

func withJSON() reqOpt {
	return func(r *http.Request) { r.Header.Set("Content-Type", "application/json") }
}

func withForm() reqOpt {
	return func(r *http.Request) { r.Header.Set("Content-Type", "application/x-www-form-urlencoded") }
}

func (e *env) do(method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// sessionFromResponse decodes the session cookie reissued by a handler.
func (e *env) sessionFromResponse(t *testing.T, w *httptest.ResponseRecorder) session.Session {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			s, err := e.codec.Decode(c.Value)
			if err != nil {
				t.Fatalf("decode response session: %v", err)
			}
			return s
		}
	}
	t.Fatalf("no session cookie in response")
	return session.Session{}
}
