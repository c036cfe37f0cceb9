package ws

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chat-hub/auth"
	"chat-hub/errors"
	"chat-hub/runtime"
	"chat-hub/services"
)

// GatewayConfig carries the per-connection transport settings.
type GatewayConfig struct {
	SendBufferSize int
	MaxMessageSize int64
	RateBurst      int
	RateInterval   time.Duration
	AllowedOrigins []string
}

// Gateway terminates websocket connections and exposes the two HTTP
// endpoints that hand out connect credentials.
type Gateway struct {
	log         *slog.Logger
	coordinator *runtime.Coordinator
	authService services.IAuthService
	config      GatewayConfig
	upgrader    websocket.Upgrader
}

func NewGateway(log *slog.Logger, coordinator *runtime.Coordinator, authService services.IAuthService, config GatewayConfig) *Gateway {
	g := &Gateway{
		log:         log,
		coordinator: coordinator,
		authService: authService,
		config:      config,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// Router mounts the gateway's endpoints on a fresh mux.
func (g *Gateway) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", g.handleRegister)
	mux.HandleFunc("POST /api/login", g.handleLogin)
	mux.HandleFunc("GET /ws", g.handleWS)
	return mux
}

// checkOrigin accepts same-origin requests and any origin explicitly
// allowed by config. An empty allow list accepts everything, matching
// the permissive default of the original deployment.
func (g *Gateway) checkOrigin(r *http.Request) bool {
	if len(g.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range g.config.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// handleWS upgrades the connection and runs the session to completion.
// The credential travels in the Authorization header, or in a "token"
// query parameter for browser clients that cannot set headers.
func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get("Authorization")
	if credential == "" {
		credential = r.URL.Query().Get("token")
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Debug("Upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(g.config.MaxMessageSize)

	client := NewClient(conn, g.log, g.config.SendBufferSize, g.config.RateBurst, g.config.RateInterval)
	session := runtime.NewSession(client)

	go client.writePump()
	client.readPump(r.Context(), g.coordinator, session, credential)
}

func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := g.authService.Register(req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"token": string(token)})
	case stderrors.Is(err, errors.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "username already taken")
	case stderrors.Is(err, errors.ErrValidation), stderrors.Is(err, errors.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		g.log.Error("Registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
	}
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := auth.ValidateLogin(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := g.authService.Login(req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"token": string(token)})
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		g.log.Error("Login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
