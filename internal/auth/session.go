// Package auth implements the credential store and the session manager:
// password hashing, login/logout/registration transitions, per-request
// current-user resolution and the route guard.
package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/LaviAzankot/CharityChick/internal/apperror"
	"github.com/LaviAzankot/CharityChick/internal/models"
	"github.com/LaviAzankot/CharityChick/internal/store"
)

// SessionCookie is the name of the cookie carrying the session identifier.
const SessionCookie = "session_id"

// sessionTTL is how long a session stays valid.
const sessionTTL = 24 * time.Hour

// Manager handles login state. It holds no per-user state itself; the store
// owns the session rows and a user is resolved fresh on every request.
type Manager struct {
	store *store.Store
}

// NewManager creates a session manager backed by the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Register creates a new account and, on success, behaves as if login
// succeeded for it. A taken email fails with DuplicateUser and creates no
// second row.
func (m *Manager) Register(user *models.User, password string) (*models.Session, error) {
	taken, err := m.store.EmailTaken(user.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.NewDuplicateUser("an account with that email already exists")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperror.NewInternalError("hash password", err)
	}
	user.PasswordHash = hash

	if err := m.store.CreateUser(user); err != nil {
		return nil, err
	}
	return m.startSession(user.ID)
}

// Login authenticates by email and password. Unknown email fails with
// UnknownUser, a wrong password with BadCredentials.
func (m *Manager) Login(email, password string) (*models.User, *models.Session, error) {
	user, err := m.store.GetUserByEmail(email)
	if apperror.IsNotFound(err) {
		return nil, nil, apperror.NewUnknownUser("no account with that email")
	}
	if err != nil {
		return nil, nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, nil, apperror.NewBadCredentials("incorrect password")
	}

	session, err := m.startSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout invalidates the session carried by the request, if any.
func (m *Manager) Logout(r *http.Request) error {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil // anonymous already
	}
	return m.store.DeleteSession(cookie.Value)
}

// CurrentUser resolves the request's session cookie to a live user record.
// An absent or invalid session yields (nil, nil): anonymous.
func (m *Manager) CurrentUser(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, nil
	}
	session, err := m.store.GetSession(cookie.Value)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user, err := m.store.GetUserByID(session.UserID)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CleanExpired removes expired session rows. Called periodically from main.
func (m *Manager) CleanExpired() error {
	return m.store.CleanExpiredSessions()
}

func (m *Manager) startSession(userID int) (*models.Session, error) {
	session := &models.Session{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Expires:   time.Now().Add(sessionTTL),
	}
	if err := m.store.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetSessionCookie writes the session cookie for an established session.
func SetSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.SessionID,
		Path:     "/",
		Expires:  session.Expires,
		HttpOnly: true,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
