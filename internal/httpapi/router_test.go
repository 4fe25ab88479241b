package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"marketplace-be/internal/auth"
	"marketplace-be/internal/cart"
	"marketplace-be/internal/crud"
	"marketplace-be/internal/dashboard"
	"marketplace-be/internal/export"
	"marketplace-be/internal/metrics"
	"marketplace-be/internal/order"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seed"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/session"
	"marketplace-be/internal/store"
	"marketplace-be/internal/user"
	"marketplace-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loadSeed = sync.OnceValues(seed.LoadAll)

type memorySink struct {
	mu    sync.Mutex
	puts  map[string][]byte
	fails bool
}

func (s *memorySink) Put(ctx context.Context, resource string, data []byte) (string, error) {
	if s.fails {
		return "", errors.New("bucket unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	s.puts[resource] = data
	return "s3://test/exports/" + resource + "/now.csv", nil
}

type testAPI struct {
	handler  http.Handler
	tokens   *auth.Tokens
	sink     *memorySink
	products *product.Service
	orders   *order.Service
}

func newTestAPI(t *testing.T, withSink bool) *testAPI {
	t.Helper()

	data, err := loadSeed()
	require.NoError(t, err)

	tokens := auth.NewTokens("test-secret", time.Hour)
	products := product.NewService(crud.Config[product.Product]{Repo: store.NewMemory(product.Identity, data.Products)})
	orders := order.NewService(crud.Config[order.Order]{Repo: store.NewMemory(order.Identity, data.Orders)}, products)
	sellers := seller.NewService(crud.Config[seller.Seller]{Repo: store.NewMemory(seller.Identity, data.Sellers)})
	reports := report.NewService(crud.Config[report.Report]{Repo: store.NewMemory(report.Identity, data.Reports)})
	users := user.NewService(crud.Config[user.User]{Repo: store.NewMemory(user.Identity, data.Users)}, tokens)
	sessions := session.NewCacheStore(time.Hour)
	m := metrics.NewCollector(nil)

	ta := &testAPI{tokens: tokens, products: products, orders: orders}
	deps := Deps{
		Products:   products,
		Orders:     orders,
		Sellers:    sellers,
		Reports:    reports,
		Users:      users,
		Cart:       cart.NewService(sessions, products, orders, nil, m),
		Dashboard:  dashboard.NewBuilder(products, orders, sellers, reports, users),
		Sessions:   sessions,
		Tokens:     tokens,
		Metrics:    m,
		PageSize:   10,
		CORSOrigin: "http://localhost:3000",
		SessionTTL: time.Hour,
	}
	if withSink {
		ta.sink = &memorySink{}
		deps.Sink = ta.sink
	}
	ta.handler = NewRouter(deps)
	return ta
}

func (ta *testAPI) token(t *testing.T, role, sellerID string) string {
	t.Helper()
	tok, err := ta.tokens.Issue("u-"+role+sellerID, role+"@example.com", role, sellerID)
	require.NoError(t, err)
	return tok
}

type call struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
	header  map[string]string
}

func (ta *testAPI) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	// distinct callers so the rate limiter stays out of the way
	req.Header.Set("X-Device-ID", t.Name()+c.method+c.path)

	w := httptest.NewRecorder()
	ta.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ta := newTestAPI(t, false)

	w := ta.do(t, call{method: "GET", path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OK")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProducts_List(t *testing.T) {
	ta := newTestAPI(t, false)

	t.Run("AnonymousSeesActiveOnly", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products?pageSize=4&page=2"})
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[listResponse[product.Product]](t, w)
		assert.Equal(t, 9, res.TotalItems)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, 2, res.Page)
		assert.Len(t, res.Items, 4)
		assert.Equal(t, 9, res.Stats.Counts["status"][product.StatusActive])
		assert.Equal(t, 0, res.Stats.Counts["status"][product.StatusPending])
	})

	t.Run("FiltersAndSort", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products?category=electronics&price=over-1m&sort=-price"})
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[listResponse[product.Product]](t, w)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "1", res.Items[0].ID)
		assert.Equal(t, "9", res.Items[1].ID)
		assert.Equal(t, "electronics", res.Filters.Equals["category"])
	})

	t.Run("AllMeansUnconstrained", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products?category=all&q="})
		res := decode[listResponse[product.Product]](t, w)
		assert.Equal(t, 9, res.TotalItems)
	})

	t.Run("PageBeyondEndIsClamped", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products?page=99"})
		res := decode[listResponse[product.Product]](t, w)
		assert.Equal(t, 1, res.Page)
	})

	t.Run("SellerSeesOwnCatalog", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products", token: ta.token(t, utils.RoleSeller, "2")})
		res := decode[listResponse[product.Product]](t, w)
		assert.Equal(t, 3, res.TotalItems)
		for _, p := range res.Items {
			assert.Equal(t, "2", p.SellerID)
		}
	})

	t.Run("SellerCannotWidenScope", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products?seller=1", token: ta.token(t, utils.RoleSeller, "2")})
		res := decode[listResponse[product.Product]](t, w)
		assert.Equal(t, 3, res.TotalItems)
	})

	t.Run("AdminSeesEverything", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products", token: ta.token(t, utils.RoleAdmin, "")})
		res := decode[listResponse[product.Product]](t, w)
		assert.Equal(t, 12, res.TotalItems)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products", token: "garbage"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProducts_CRUD(t *testing.T) {
	ta := newTestAPI(t, false)
	seller2 := ta.token(t, utils.RoleSeller, "2")
	seller1 := ta.token(t, utils.RoleSeller, "1")
	admin := ta.token(t, utils.RoleAdmin, "")

	newProduct := map[string]any{
		"id":       "999",
		"name":     "Mũ lưỡi trai",
		"category": "fashion",
		"price":    99000,
		"stock":    10,
		"status":   "active",
		"sellerId": "1",
	}

	t.Run("BuyerCannotCreate", func(t *testing.T) {
		w := ta.do(t, call{method: "POST", path: "/api/products", body: newProduct, token: ta.token(t, utils.RoleBuyer, "")})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	var created product.Product
	t.Run("SellerCreatesPendingOwnProduct", func(t *testing.T) {
		w := ta.do(t, call{method: "POST", path: "/api/products", body: newProduct, token: seller2})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		created = decode[product.Product](t, w)
		assert.Equal(t, "13", created.ID)
		assert.Equal(t, "2", created.SellerID)
		assert.Equal(t, product.StatusPending, created.Status)
	})

	t.Run("ValidationError", func(t *testing.T) {
		w := ta.do(t, call{method: "POST", path: "/api/products", body: map[string]any{"name": "", "category": "fashion"}, token: admin})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[map[string]any](t, w)
		assert.Contains(t, body["fields"], "name")
	})

	t.Run("PendingIsHiddenFromBuyers", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/products/" + created.ID})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("OtherSellerCannotPatch", func(t *testing.T) {
		w := ta.do(t, call{method: "PATCH", path: "/api/products/" + created.ID, body: map[string]any{"price": 1}, token: seller1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("OwnerPatchesButNotStatus", func(t *testing.T) {
		w := ta.do(t, call{method: "PATCH", path: "/api/products/" + created.ID, body: map[string]any{
			"id":     "other",
			"price":  120000,
			"status": "active",
		}, token: seller2})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		p := decode[product.Product](t, w)
		assert.Equal(t, created.ID, p.ID)
		assert.InDelta(t, 120000, p.Price, 0.001)
		assert.Equal(t, product.StatusPending, p.Status)
		assert.Equal(t, "Mũ lưỡi trai", p.Name)
	})

	t.Run("WrongType", func(t *testing.T) {
		w := ta.do(t, call{method: "PATCH", path: "/api/products/" + created.ID, body: map[string]any{"price": "cheap"}, token: admin})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AdminApproves", func(t *testing.T) {
		w := ta.do(t, call{method: "PATCH", path: "/api/products/" + created.ID, body: map[string]any{"status": "active"}, token: admin})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, product.StatusActive, decode[product.Product](t, w).Status)

		w = ta.do(t, call{method: "GET", path: "/api/products/" + created.ID})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UnknownID", func(t *testing.T) {
		w := ta.do(t, call{method: "PATCH", path: "/api/products/nope", body: map[string]any{"price": 1}, token: admin})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = ta.do(t, call{method: "DELETE", path: "/api/products/nope", token: admin})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := ta.do(t, call{method: "DELETE", path: "/api/products/" + created.ID, token: seller2})
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = ta.do(t, call{method: "GET", path: "/api/products/" + created.ID, token: admin})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadJSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/products", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+admin)
		w := httptest.NewRecorder()
		ta.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUsers_AdminOnly(t *testing.T) {
	ta := newTestAPI(t, false)

	w := ta.do(t, call{method: "GET", path: "/api/users"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ta.do(t, call{method: "GET", path: "/api/users", token: ta.token(t, utils.RoleBuyer, "")})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ta.do(t, call{method: "GET", path: "/api/users?role=seller", token: ta.token(t, utils.RoleAdmin, "")})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	res := decode[listResponse[user.User]](t, w)
	assert.Equal(t, 2, res.TotalItems)

	w = ta.do(t, call{method: "POST", path: "/api/users/6/unban", token: ta.token(t, utils.RoleAdmin, "")})
	assert.Equal(t, http.StatusOK, w.Code)
	w = ta.do(t, call{method: "POST", path: "/api/users/6/unban", token: ta.token(t, utils.RoleAdmin, "")})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = ta.do(t, call{method: "POST", path: "/api/users/5/ban", body: map[string]string{"reason": "spam"}, token: ta.token(t, utils.RoleAdmin, "")})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExports(t *testing.T) {
	t.Run("CSVDownload", func(t *testing.T) {
		ta := newTestAPI(t, false)
		admin := ta.token(t, utils.RoleAdmin, "")

		w := ta.do(t, call{method: "GET", path: "/api/products/export.csv?category=books&page=3", token: admin})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "ID,Name,Category,Seller,Price,Stock,Sold,Status,Created At", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "5,"))
	})

	t.Run("ArchiveDisabled", func(t *testing.T) {
		ta := newTestAPI(t, false)
		w := ta.do(t, call{method: "POST", path: "/api/orders/exports", token: ta.token(t, utils.RoleAdmin, "")})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("ArchiveToSink", func(t *testing.T) {
		ta := newTestAPI(t, true)
		w := ta.do(t, call{method: "POST", path: "/api/orders/exports?status=cancelled", token: ta.token(t, utils.RoleAdmin, "")})
		require.Equal(t, http.StatusCreated, w.Code)

		body := decode[map[string]any](t, w)
		assert.Equal(t, "s3://test/exports/orders/now.csv", body["location"])
		assert.Equal(t, float64(1), body["rows"])
		assert.Contains(t, string(ta.sink.puts["orders"]), "ORD-5PL1V3YD")
	})

	t.Run("SinkFailure", func(t *testing.T) {
		ta := newTestAPI(t, true)
		ta.sink.fails = true
		w := ta.do(t, call{method: "POST", path: "/api/orders/exports", token: ta.token(t, utils.RoleAdmin, "")})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

var _ export.Sink = (*memorySink)(nil)

func TestOrders(t *testing.T) {
	ta := newTestAPI(t, false)
	seller1 := ta.token(t, utils.RoleSeller, "1")

	t.Run("BuyerCannotList", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/orders", token: ta.token(t, utils.RoleBuyer, "")})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("SellerScope", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/orders", token: seller1})
		res := decode[listResponse[order.Order]](t, w)
		assert.Equal(t, 2, res.TotalItems)
		assert.InDelta(t, 7_490_000+3_770_000, res.Stats.Sums["revenue"], 0.001)

		w = ta.do(t, call{method: "GET", path: "/api/orders/ORD-3HD8P2LZ", token: seller1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("StatusTransition", func(t *testing.T) {
		w := ta.do(t, call{method: "POST", path: "/api/orders/ORD-2MN5R8QC/status", body: map[string]string{"status": "shipping"}, token: seller1})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ta.do(t, call{method: "POST", path: "/api/orders/ORD-2MN5R8QC/status", body: map[string]string{"status": "pending"}, token: seller1})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = ta.do(t, call{method: "POST", path: "/api/orders/ORD-2MN5R8QC/status", body: map[string]string{"status": "lost"}, token: seller1})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ta.do(t, call{method: "POST", path: "/api/orders/ORD-3HD8P2LZ/status", body: map[string]string{"status": "delivered"}, token: seller1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSellersAndReports(t *testing.T) {
	ta := newTestAPI(t, false)
	admin := ta.token(t, utils.RoleAdmin, "")

	w := ta.do(t, call{method: "POST", path: "/api/sellers/4/approve", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, seller.StatusActive, decode[seller.Seller](t, w).Status)

	w = ta.do(t, call{method: "POST", path: "/api/sellers/4/suspend", body: map[string]string{}, token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(t, call{method: "POST", path: "/api/reports", body: map[string]any{
		"type":         "product",
		"targetId":     "2",
		"reporterName": "Buyer",
		"reason":       "Sai mô tả",
		"status":       "resolved",
	}, token: ta.token(t, utils.RoleBuyer, "")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rep := decode[report.Report](t, w)
	assert.Equal(t, report.StatusPending, rep.Status)

	w = ta.do(t, call{method: "POST", path: "/api/reports/" + rep.ID + "/resolve", body: map[string]string{"resolution": "Đã gỡ"}, token: admin})
	require.Equal(t, http.StatusOK, w.Code)

	w = ta.do(t, call{method: "POST", path: "/api/reports/" + rep.ID + "/dismiss", body: map[string]string{}, token: admin})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ta.do(t, call{method: "GET", path: "/api/admin/dashboard", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[dashboard.Snapshot](t, w)
	assert.Equal(t, 5, snap.Reports.Total)
}

func TestAuthEndpoints(t *testing.T) {
	ta := newTestAPI(t, false)

	w := ta.do(t, call{method: "POST", path: "/api/auth/token", body: map[string]string{"email": "admin@example.com", "password": "admin123"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	w = ta.do(t, call{method: "GET", path: "/api/users", cookies: []*http.Cookie{cookie}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = ta.do(t, call{method: "GET", path: "/api/auth/me", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", decode[user.User](t, w).Email)

	w = ta.do(t, call{method: "POST", path: "/api/auth/token", body: map[string]string{"email": "admin@example.com", "password": "nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ta.do(t, call{method: "POST", path: "/api/auth/token", body: map[string]string{"email": "spam@example.com", "password": "buyer123"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ta.do(t, call{method: "POST", path: "/api/auth/register", body: map[string]string{"name": "Mới", "email": "new@example.com", "password": "secret1"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, user.RoleBuyer, decode[user.User](t, w).Role)

	w = ta.do(t, call{method: "POST", path: "/api/auth/register", body: map[string]string{"name": "Mới", "email": "new@example.com", "password": "secret1"}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestCartAndPreferences(t *testing.T) {
	ta := newTestAPI(t, false)

	w := ta.do(t, call{method: "GET", path: "/api/cart"})
	require.Equal(t, http.StatusOK, w.Code)
	sess := []*http.Cookie{sessionCookie(t, w)}
	assert.Empty(t, decode[cart.Cart](t, w).Items)

	t.Run("Preferences", func(t *testing.T) {
		w := ta.do(t, call{method: "GET", path: "/api/preferences", cookies: sess})
		assert.Equal(t, "vi", decode[map[string]string](t, w)["language"])

		w = ta.do(t, call{method: "PUT", path: "/api/preferences", body: map[string]string{"language": "fr"}, cookies: sess})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ta.do(t, call{method: "PUT", path: "/api/preferences", body: map[string]string{"language": "en"}, cookies: sess})
		require.Equal(t, http.StatusOK, w.Code)

		w = ta.do(t, call{method: "GET", path: "/api/preferences", cookies: sess})
		assert.Equal(t, "en", decode[map[string]string](t, w)["language"])
		assert.Equal(t, "en", w.Header().Get("Content-Language"))
	})

	t.Run("Items", func(t *testing.T) {
		w := ta.do(t, call{method: "POST", path: "/api/cart/items", body: map[string]any{"productId": "7", "quantity": 2}, cookies: sess})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ta.do(t, call{method: "POST", path: "/api/cart/items", body: map[string]any{"productId": "2", "variant": "L"}, cookies: sess})
		require.Equal(t, http.StatusOK, w.Code)
		c := decode[cart.Cart](t, w)
		assert.Equal(t, 3, c.Count)

		w = ta.do(t, call{method: "POST", path: "/api/cart/items", body: map[string]any{"productId": "4", "quantity": 1}, cookies: sess})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = ta.do(t, call{method: "PATCH", path: "/api/cart/items/2", body: map[string]any{"variant": "M", "quantity": 2}, cookies: sess})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = ta.do(t, call{method: "PATCH", path: "/api/cart/items/2", body: map[string]any{"variant": "L", "quantity": 2}, cookies: sess})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 4, decode[cart.Cart](t, w).Count)
	})

	t.Run("Checkout", func(t *testing.T) {
		w := ta.do(t, call{method: "POST", path: "/api/cart/checkout", body: map[string]any{"customerName": "A"}, cookies: sess})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ta.do(t, call{method: "POST", path: "/api/cart/checkout", body: map[string]any{
			"customerName":    "Nguyễn Văn A",
			"customerEmail":   "a@example.com",
			"customerPhone":   "0900000000",
			"shippingAddress": "1 Lê Lợi, Q1",
			"paymentMethod":   "bank_transfer",
		}, cookies: sess})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res struct {
			Orders []struct {
				order.Order
				Instructions []string `json:"instructions"`
			} `json:"orders"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Orders, 2)
		assert.Equal(t, "1", res.Orders[0].SellerID)
		assert.InDelta(t, 1_780_000, res.Orders[0].Total, 0.001)
		assert.Contains(t, res.Orders[0].Instructions[1], "1.780.000đ")

		p, err := ta.products.Get(context.Background(), "7")
		require.NoError(t, err)
		assert.Equal(t, 1, p.Stock)

		w = ta.do(t, call{method: "GET", path: "/api/cart", cookies: sess})
		assert.Empty(t, decode[cart.Cart](t, w).Items)

		w = ta.do(t, call{method: "POST", path: "/api/cart/checkout", body: map[string]any{
			"customerName":    "Nguyễn Văn A",
			"customerEmail":   "a@example.com",
			"customerPhone":   "0900000000",
			"shippingAddress": "1 Lê Lợi, Q1",
		}, cookies: sess})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	ta := newTestAPI(t, false)

	w := ta.do(t, call{method: "OPTIONS", path: "/api/products"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{crud.NewValidationError("name", "name is required"), http.StatusBadRequest},
		{crud.ErrNotFound, http.StatusNotFound},
		{crud.ErrInFlight, http.StatusConflict},
		{order.ErrInvalidTransition, http.StatusConflict},
		{user.ErrInvalidCredentials, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
