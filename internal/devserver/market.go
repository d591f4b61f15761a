package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/backend"
	"github.com/khedut-saathi/khedut/internal/session"
)

// Market is an in-memory product catalog and user directory.
type Market struct {
	mu       sync.RWMutex
	products []backend.Product
	users    map[string]backend.User
}

func NewMarket(users []backend.User, products []backend.Product) *Market {
	m := &Market{users: make(map[string]backend.User, len(users))}
	for _, u := range users {
		m.users[strings.ToLower(u.Email)] = u
	}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		m.products = append(m.products, p)
	}
	return m
}

// DemoMarket is what `khedut serve` starts with.
func DemoMarket() *Market {
	return NewMarket(
		[]backend.User{
			{Name: "Ramesh Patel", Email: "ramesh@khedut.example", Role: string(session.RoleFarmer)},
			{Name: "Savita Desai", Email: "savita@khedut.example", Role: string(session.RoleFarmer)},
		},
		[]backend.Product{
			{Name: "Tomato", Email: "ramesh@khedut.example", Category: "Vegetables", Description: "Fresh red tomatoes", Quantity: 25, Price: 30, Rating: 4.5},
			{Name: "Wheat", Email: "savita@khedut.example", Category: "Grains", Description: "Lokwan wheat, cleaned", Quantity: 50, Price: 28, Rating: 4},
			{Name: "Onion", Email: "savita@khedut.example", Category: "Vegetables", Description: "Nashik red onion", Quantity: 25, Price: 22, Rating: 3.5},
		},
	)
}

var errUserExists = errors.New(backend.EmailTakenReply)

func (m *Market) Products() []backend.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]backend.Product, len(m.products))
	copy(out, m.products)
	return out
}

func (m *Market) User(email string) (backend.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[strings.ToLower(email)]
	return u, ok
}

func (m *Market) AddUser(u backend.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, exists := m.users[key]; exists {
		return errUserExists
	}
	m.users[key] = u
	return nil
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.Products())
}

func (s *Server) handleUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := s.market.User(chi.URLParam(r, "email"))
	if !ok {
		writeJSON(w, http.StatusNotFound, backend.ErrorBody{Message: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req backend.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, backend.ErrorBody{Message: "invalid JSON body"})
		return
	}
	role, err := session.ParseRole(string(req.Role))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, backend.ErrorBody{Message: backend.RoleRequiredMessage})
		return
	}
	req.Role = role
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, backend.ErrorBody{Message: err.Error()})
		return
	}

	err = s.market.AddUser(backend.User{Name: strings.TrimSpace(req.Name), Email: req.Email, Role: string(role), Img: req.Img})
	if errors.Is(err, errUserExists) {
		// The production backend reports this as a 200 with a plain string.
		writeJSON(w, http.StatusOK, backend.EmailTakenReply)
		return
	}
	s.logger.Info("user signed up", zap.String("email", req.Email), zap.String("role", string(role)))
	writeJSON(w, http.StatusCreated, "User created successfully")
}
