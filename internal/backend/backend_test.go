package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khedut-saathi/khedut/internal/session"
)

func newClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
	_, err = NewClient(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestCatalog_GroupsAndResolvesSellers(t *testing.T) {
	var lookups atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Product{
			{ID: "1", Name: "Tomato", Email: "ramesh@x.in", Category: "Vegetables", Quantity: 25, Price: 30},
			{ID: "2", Name: "Wheat", Email: "savita@x.in", Category: "Grains", Quantity: 50, Price: 28},
			{ID: "3", Name: "Onion", Email: "ramesh@x.in", Category: "Vegetables", Quantity: 25, Price: 22},
			{ID: "4", Name: "Honey", Email: "ghost@x.in"},
		})
	})
	mux.HandleFunc("GET /users/email/{email}", func(w http.ResponseWriter, r *http.Request) {
		lookups.Add(1)
		names := map[string]string{"ramesh@x.in": "Ramesh", "savita@x.in": "Savita"}
		name, ok := names[r.PathValue("email")]
		if !ok {
			writeJSON(w, http.StatusNotFound, ErrorBody{Message: "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, User{Name: name, Email: r.PathValue("email")})
	})
	c := newClient(t, mux)

	categories, err := c.Catalog(context.Background())
	require.NoError(t, err)

	require.Len(t, categories, 3)
	assert.Equal(t, "Vegetables", categories[0].Name)
	assert.Equal(t, "Grains", categories[1].Name)
	assert.Equal(t, Uncategorized, categories[2].Name)

	require.Len(t, categories[0].Listings, 2)
	assert.Equal(t, "Tomato", categories[0].Listings[0].Name)
	assert.Equal(t, "Onion", categories[0].Listings[1].Name)
	assert.Equal(t, "Ramesh", categories[0].Listings[1].Seller)
	assert.Equal(t, "Savita", categories[1].Listings[0].Seller)
	assert.Equal(t, UnknownSeller, categories[2].Listings[0].Seller)

	// One lookup per distinct seller
	assert.Equal(t, int32(3), lookups.Load())
}

func TestCatalog_ProductsFailure(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.Catalog(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Code)
	assert.Equal(t, UnexpectedErrorMessage, err.Error())
}

func TestCatalog_Empty(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Product{})
	}))

	categories, err := c.Catalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{Name: "Ramesh", Email: "ramesh@x.in", Password: "secret", Role: session.RoleFarmer}
	assert.NoError(t, valid.Validate())

	noRole := valid
	noRole.Role = session.RoleNone
	assert.ErrorIs(t, noRole.Validate(), ErrRoleRequired)
	assert.Equal(t, "Please select a role: Farmer or Businessman.", noRole.Validate().Error())

	badRole := valid
	badRole.Role = "admin"
	assert.ErrorIs(t, badRole.Validate(), ErrRoleRequired)

	noEmail := valid
	noEmail.Email = "ramesh"
	assert.Error(t, noEmail.Validate())
}

func TestSignup_MissingRoleNeverReachesBackend(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend called without a role")
	}))

	_, err := c.Signup(context.Background(), SignupRequest{Name: "A", Email: "a@x.in", Password: "p"})
	assert.ErrorIs(t, err, ErrRoleRequired)
}

func TestSignup_Success(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signup", r.URL.Path)
		var req SignupRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, session.RoleBusinessman, req.Role)
		writeJSON(w, http.StatusCreated, "User created successfully")
	}))

	sess, err := c.Signup(context.Background(), SignupRequest{
		Name: " Meera ", Email: "meera@x.in", Password: "p", Role: session.RoleBusinessman,
	})
	require.NoError(t, err)
	assert.Equal(t, session.Context{Name: "Meera", Email: "meera@x.in", Authenticated: true, Role: session.RoleBusinessman}, sess)
}

func TestSignup_EmailTaken(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, EmailTakenReply)
	}))

	_, err := c.Signup(context.Background(), SignupRequest{Name: "A", Email: "a@x.in", Password: "p", Role: session.RoleFarmer})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_BackendMessage(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Message: "Password too weak"})
	}))

	_, err := c.Signup(context.Background(), SignupRequest{Name: "A", Email: "a@x.in", Password: "p", Role: session.RoleFarmer})
	assert.EqualError(t, err, "Password too weak")
}
