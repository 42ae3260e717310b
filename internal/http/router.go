package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires the endpoint handlers into the router.
type RouterConfig struct {
	Auth         *AuthHandler
	Reservations *ReservationHandler
	Rooms        *RoomHandler
	Provision    *ProvisionHandler
}

// NewRouter builds the presentation boundary routing table.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
	}

	if cfg.Reservations != nil {
		mux.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Reservations.List(w, r)
			case http.MethodPost:
				cfg.Reservations.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/reservations/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/reservations/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			id, statusSegment := rest, false
			if trimmed, ok := strings.CutSuffix(rest, "/status"); ok {
				id, statusSegment = trimmed, true
			}
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}

			r = r.WithContext(ContextWithReservationID(r.Context(), id))
			switch {
			case statusSegment && r.Method == http.MethodPut:
				cfg.Reservations.SetStatus(w, r)
			case statusSegment:
				methodNotAllowed(w, http.MethodPut)
			case r.Method == http.MethodPut:
				cfg.Reservations.Update(w, r)
			case r.Method == http.MethodDelete:
				cfg.Reservations.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Rooms != nil {
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				cfg.Rooms.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/rooms/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithRoomID(r.Context(), id))
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Rooms.Delete(w, r)
		})
	}

	if cfg.Provision != nil {
		mux.HandleFunc("/provision", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Provision.Provision(w, r)
		})
	}

	return mux
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
