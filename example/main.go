/*
example provides a toy web app wrapping authkit's session stack,
focusing on the basics of:

(1) constructing a Kit with the stub identity provider;
(2) driving the session controller's actions from HTTP handlers;
(3) and gating routes with the middleware chain.

Run it against a profile service listening on PROFILE_SERVICE_URL
(default http://localhost:5000).
*/
package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/twiller-app/authkit"
	"github.com/twiller-app/authkit/compose"
	"github.com/twiller-app/authkit/identity"
	"github.com/twiller-app/authkit/logger"
	"github.com/twiller-app/authkit/middleware"
)

// KitHandler wraps a configured *Kit.
// The methods attached to it are the handlers the router
// will direct requests to.
type KitHandler struct {
	*compose.Kit
}

func main() {
	if os.Getenv("PROFILE_SERVICE_URL") == "" {
		os.Setenv("PROFILE_SERVICE_URL", "http://localhost:5000")
	}

	provider := identity.NewStub(nil)
	provider.AddAccount("demo@twiller.app", "password")
	provider.SetGoogleAccount(&identity.Session{
		Email:       "demo.google@twiller.app",
		DisplayName: "Demo Google",
	})

	kit, err := compose.New(
		compose.WithEnv(authkit.Development),
		compose.WithProvider(provider),
	)
	if err != nil {
		logger.New().Fatal(err.Error(), nil)
		os.Exit(1)
	}
	defer kit.Close()

	h := &KitHandler{kit}

	r := mux.NewRouter()
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/signup", h.signup).Methods(http.MethodPost)
	r.HandleFunc("/google", h.google).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	r.Handle("/me", middleware.Chain(
		http.HandlerFunc(h.me),
		middleware.RequireAuthed(),
	)).Methods(http.MethodGet, http.MethodPatch)

	handler := middleware.Chain(
		r,
		middleware.CORS("http://localhost:3000"),
		middleware.CurrentUser(kit.Controller),
	)

	kit.Logger.Info("example app listening at :8080", nil)
	if err := http.ListenAndServe(":8080", handler); err != nil {
		kit.Logger.Error(err.Error(), nil)
	}
}

func (h *KitHandler) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Controller.Login(r.Context(), creds.Email, creds.Password); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	json.NewEncoder(w).Encode(h.Controller.CurrentUser())
}

func (h *KitHandler) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.Controller.Signup(r.Context(), body.Email, body.Password, body.Username, body.DisplayName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.Controller.CurrentUser())
}

func (h *KitHandler) google(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.FederatedSignIn(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	json.NewEncoder(w).Encode(h.Controller.CurrentUser())
}

func (h *KitHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.Logout(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *KitHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(authkit.CurrentUserKey).(authkit.UserProfile)
	if !ok {
		// RequireAuthed already gated this route; reaching here anonymously
		// is a programming error.
		http.Error(w, authkit.ErrNoUser.Error(), http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(user)

	case http.MethodPatch:
		var edits authkit.ProfileEdits
		if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := h.Controller.UpdateProfile(r.Context(), edits); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		json.NewEncoder(w).Encode(h.Controller.CurrentUser())
	}
}
