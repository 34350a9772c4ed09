package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shoporbit/storefront/internal/gateway"
	"github.com/shoporbit/storefront/internal/hash"
	authmw "github.com/shoporbit/storefront/internal/middleware/auth"
	"github.com/shoporbit/storefront/internal/models"
	"github.com/shoporbit/storefront/internal/token"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Tokens  *token.Service
	MW      *authmw.Middleware
	A       *AuthHandler
	Cat     *CategoryHandler
	P       *ProductHandler
	Pay     *PaymentHandler
	Gateway *stubGateway

	userSeq int
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))

	tokens := token.New([]byte("test-secret"))
	gw := &stubGateway{clientToken: "stub-client-token", receipt: json.RawMessage(`{"id":"tx1","status":"submitted_for_settlement"}`)}

	env := &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Tokens:  tokens,
		MW:      &authmw.Middleware{DB: db, Tokens: tokens},
		Gateway: gw,
	}
	env.A = &AuthHandler{DB: db, Tokens: tokens}
	env.Cat = &CategoryHandler{DB: db}
	env.P = &ProductHandler{DB: db}
	env.Pay = &PaymentHandler{DB: db, Gateway: gw}

	return env
}

type stubGateway struct {
	clientToken string
	tokenErr    error
	receipt     json.RawMessage
	saleErr     error

	gotAmount float64
	gotNonce  string
}

func (g *stubGateway) ClientToken(ctx context.Context) (string, error) {
	return g.clientToken, g.tokenErr
}

func (g *stubGateway) Sale(ctx context.Context, amount float64, nonce string) <-chan gateway.SaleResult {
	g.gotAmount = amount
	g.gotNonce = nonce

	out := make(chan gateway.SaleResult, 1)
	go func() {
		defer close(out)
		if g.saleErr != nil {
			out <- gateway.SaleResult{Err: g.saleErr}
			return
		}
		out <- gateway.SaleResult{Receipt: g.receipt}
	}()
	return out
}

func (env *testEnv) createUser(role int) (models.User, string) {
	env.T.Helper()

	hashed, err := hash.HashPassword("hunter22")
	require.NoError(env.T, err)

	env.userSeq++
	user := models.User{
		Name:         fmt.Sprintf("user-%d", env.userSeq),
		Email:        fmt.Sprintf("user-%d@example.com", env.userSeq),
		PasswordHash: hashed,
		Phone:        "555-0100",
		Address:      "1 Main St",
		Answer:       "blue",
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	tok, err := env.Tokens.Issue(user.ID)
	require.NoError(env.T, err)
	return user, tok
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, authToken string) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authToken != "" {
		req.Header.Set(echo.HeaderAuthorization, authToken)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doMultipartRequest(path string, fields map[string]string, photo []byte, photoType string) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	if photo != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="photo"; filename="photo.bin"`)
		header.Set("Content-Type", photoType)
		part, err := w.CreatePart(header)
		require.NoError(env.T, err)
		_, err = io.Copy(part, bytes.NewReader(photo))
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
