package http_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	api "github.com/tazhibayda/crm-service/internal/http"
	"github.com/tazhibayda/crm-service/internal/log"
	"github.com/tazhibayda/crm-service/internal/oauth"
	"github.com/tazhibayda/crm-service/internal/queue"
	"github.com/tazhibayda/crm-service/internal/repo"
	"github.com/tazhibayda/crm-service/internal/security"
)

const (
	testJWTSecret    = "test-secret"
	testGoogleClient = "crm-test-client"
	testGoogleKid    = "itest-key-1"
)

type testEnv struct {
	T       *testing.T
	Ctx     context.Context
	Mongo   *mongodb.MongoDBContainer
	Store   *repo.Store
	Handler *api.Handler
	Router  *gin.Engine

	googleKey *rsa.PrivateKey
	jwksSrv   *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.RunContainer(ctx,
		testcontainers.WithImage("mongo:6"),
	)
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "crm_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	// fake Google: local RSA key served as a JWKS document
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa: %v", err)
	}
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testGoogleKid,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	jwksSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))

	google := &oauth.Verifier{
		ClientID: testGoogleClient,
		Keys:     security.NewFetcher(jwksSrv.URL, time.Hour),
	}

	// Redis/Rabbit/AI not needed here: nil Redis disables rate limiting,
	// Noop publisher swallows events
	h := api.NewHandler(store, testJWTSecret, google, nil, 0, queue.NewNoop(), nil)

	gin.SetMode(gin.TestMode)
	r := api.NewRouter(h)

	return &testEnv{T: t, Ctx: ctx, Mongo: mc, Store: store, Handler: h, Router: r, googleKey: key, jwksSrv: jwksSrv}
}

func (e *testEnv) Close() {
	if e.jwksSrv != nil {
		e.jwksSrv.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}

// do runs one request through the router; token, when non-empty, becomes a
// Bearer Authorization header.
func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

type authResult struct {
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

// register creates a fresh account and returns its session token.
func (e *testEnv) register(email, password string) authResult {
	e.T.Helper()
	w := e.do("POST", "/api/auth/register", `{"email":"`+email+`","password":"`+password+`"}`, "")
	if w.Code != http.StatusCreated {
		e.T.Fatalf("register %s: code=%d body=%s", email, w.Code, w.Body.String())
	}
	var out authResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		e.T.Fatalf("register resp parse: %v; body=%s", err, w.Body.String())
	}
	return out
}

// googleIDToken signs an RS256 id token with the fake Google key.
func (e *testEnv) googleIDToken(email, name, picture string) string {
	e.T.Helper()
	claims := jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"aud":   testGoogleClient,
		"sub":   "sub-" + email,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	if name != "" {
		claims["name"] = name
	}
	if picture != "" {
		claims["picture"] = picture
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testGoogleKid
	raw, err := tok.SignedString(e.googleKey)
	if err != nil {
		e.T.Fatalf("sign id token: %v", err)
	}
	return raw
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode: %v; body=%s", err, w.Body.String())
	}
}
