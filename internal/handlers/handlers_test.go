package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaviAzankot/CharityChick/internal/auth"
	"github.com/LaviAzankot/CharityChick/internal/mail"
	"github.com/LaviAzankot/CharityChick/internal/models"
	"github.com/LaviAzankot/CharityChick/internal/render"
	"github.com/LaviAzankot/CharityChick/internal/store"
)

// fakeRelay records contact sends and can be told to fail.
type fakeRelay struct {
	sent []mail.ContactMessage
	err  error
}

func (f *fakeRelay) SendContact(_ context.Context, msg mail.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testApp struct {
	router   http.Handler
	store    *store.Store
	sessions *auth.Manager
	relay    *fakeRelay
}

// writeTestTemplates drops minimal templates so handlers can render without
// depending on the real web/templates directory.
func writeTestTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pages := map[string]string{
		"index.html":     `posts: {{len .Posts}}`,
		"register.html":  `register {{with .FieldErrors}}invalid{{end}}`,
		"login.html":     `login {{with .FieldErrors}}invalid{{end}}`,
		"make_post.html": `make post {{with .FieldErrors}}invalid{{end}}`,
		"post.html":      `{{.Post.Title}} comments: {{len .Comments}}`,
		"about.html":     `about`,
		"contact.html":   `contact sent={{.MsgSent}}{{if .SendFailed}} failed{{end}}`,
		"error.html":     `{{.Code}} {{.Message}}`,
	}
	for name, body := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// newTestApp wires the handlers onto the same routes as cmd/server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.RunMigrations())

	sessions := auth.NewManager(st)
	rn := render.New(writeTestTemplates(t))
	relay := &fakeRelay{}

	authHandler := NewAuthHandler(sessions, rn)
	postHandler := NewPostHandler(st, rn)
	pageHandler := NewPageHandler(relay, rn)

	r := chi.NewRouter()
	r.Use(sessions.LoadUser)
	r.Get("/", postHandler.Home)
	r.Post("/", postHandler.Home)
	r.Get("/register", authHandler.Register)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.Login)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/posts/{id}", postHandler.ShowPost)
	r.Post("/posts/{id}", postHandler.ShowPost)
	r.Get("/about", pageHandler.About)
	r.Get("/contact", pageHandler.Contact)
	r.Post("/contact", pageHandler.Contact)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/post", postHandler.CreatePost)
		r.Post("/post", postHandler.CreatePost)
		r.Get("/post/{id}", postHandler.EditPost)
		r.Post("/post/{id}", postHandler.EditPost)
		r.Get("/delete_post/{id}", postHandler.DeletePost)
	})

	return &testApp{router: r, store: st, sessions: sessions, relay: relay}
}

// registerUser creates an account through the session manager and returns the
// session cookie to attach to follow-up requests.
func (app *testApp) registerUser(t *testing.T, name, email string) (*models.User, *http.Cookie) {
	t.Helper()
	user := &models.User{
		Name:       name,
		Email:      email,
		Area:       "Haifa",
		Address:    "12 Herzl St",
		AddressURL: "https://maps.example.com/herzl12",
	}
	session, err := app.sessions.Register(user, "pw")
	require.NoError(t, err)
	return user, &http.Cookie{Name: auth.SessionCookie, Value: session.SessionID}
}

func (app *testApp) seedPost(t *testing.T, user *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:   user.ID,
		Title:      title,
		Category:   "Furniture",
		Condition:  "New",
		ImgURL:     "https://img.example.com/chair.jpg",
		Content:    "A chair.",
		Date:       time.Now().Format(models.DateFormat),
		Name:       user.Name,
		Area:       user.Area,
		Address:    user.Address,
		AddressURL: user.AddressURL,
	}
	_, err := app.store.CreatePost(post)
	require.NoError(t, err)
	return post
}

func (app *testApp) do(method, target string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var r *http.Request
	if values != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, r)
	return w
}

func TestHomeListsPosts(t *testing.T) {
	app := newTestApp(t)
	user, _ := app.registerUser(t, "dana", "dana@x.com")
	app.seedPost(t, user, "Chair")
	app.seedPost(t, user, "Lamp")

	w := app.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "posts: 2", w.Body.String())
}

func TestRouteGuardRedirectsAnonymous(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/post", "/post/1", "/delete_post/1"} {
		w := app.do(http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"), target)
	}
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	user, cookie := app.registerUser(t, "dana", "dana@x.com")

	values := url.Values{
		"title":     {"Chair"},
		"category":  {"Furniture"},
		"condition": {"New"},
		"img_url":   {"https://img.example.com/chair.jpg"},
		"content":   {"Solid oak."},
	}
	w := app.do(http.MethodPost, "/post", values, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	posts, err := app.store.GetPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	post := posts[0]
	assert.Equal(t, user.ID, post.AuthorID)
	assert.Equal(t, time.Now().Format(models.DateFormat), post.Date)
	// Author profile snapshot.
	assert.Equal(t, user.Name, post.Name)
	assert.Equal(t, user.Area, post.Area)
	assert.Equal(t, user.Address, post.Address)
	assert.Equal(t, user.AddressURL, post.AddressURL)
}

func TestCreatePostInvalidFormRerenders(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.registerUser(t, "dana", "dana@x.com")

	w := app.do(http.MethodPost, "/post", url.Values{"title": {"Chair"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid")

	posts, err := app.store.GetPosts()
	require.NoError(t, err)
	assert.Empty(t, posts, "an invalid form must not create a post")
}

func TestEditPostNotFound(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.registerUser(t, "dana", "dana@x.com")

	w := app.do(http.MethodGet, "/post/99", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnyAuthenticatedUserMayEdit(t *testing.T) {
	app := newTestApp(t)
	owner, _ := app.registerUser(t, "dana", "dana@x.com")
	post := app.seedPost(t, owner, "Chair")

	// A different authenticated user edits the post: allowed.
	_, otherCookie := app.registerUser(t, "omer", "omer@x.com")
	values := url.Values{
		"title":     {"Chair"},
		"category":  {"Furniture"},
		"condition": {"Used"},
		"img_url":   {post.ImgURL},
		"content":   {post.Content},
	}
	w := app.do(http.MethodPost, "/post/"+itoa(post.ID), values, otherCookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	got, err := app.store.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Used", got.Condition)
	assert.Equal(t, owner.Name, got.Name, "author snapshot untouched by edit")
}

func TestDeleteThenGetNotFound(t *testing.T) {
	app := newTestApp(t)
	user, cookie := app.registerUser(t, "dana", "dana@x.com")
	post := app.seedPost(t, user, "Chair")

	comment := &models.Comment{Text: "still there?", Date: post.Date, AuthorName: "omer", PostID: post.ID}
	require.NoError(t, app.store.CreateComment(comment))

	w := app.do(http.MethodGet, "/delete_post/"+itoa(post.ID), nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = app.do(http.MethodGet, "/posts/"+itoa(post.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No cascade: the comment is still retrievable.
	comments, err := app.store.GetCommentsByPostID(post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestUnauthenticatedCommentRejected(t *testing.T) {
	app := newTestApp(t)
	user, _ := app.registerUser(t, "dana", "dana@x.com")
	post := app.seedPost(t, user, "Chair")

	w := app.do(http.MethodPost, "/posts/"+itoa(post.ID), url.Values{"text": {"mine!"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))

	comments, err := app.store.GetCommentsByPostID(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments, "no comment row may be written for an anonymous submission")
}

func TestAuthenticatedComment(t *testing.T) {
	app := newTestApp(t)
	user, _ := app.registerUser(t, "dana", "dana@x.com")
	post := app.seedPost(t, user, "Chair")

	commenter, cookie := app.registerUser(t, "omer", "omer@x.com")
	w := app.do(http.MethodPost, "/posts/"+itoa(post.ID), url.Values{"text": {"Is it available?"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	comments, err := app.store.GetCommentsByPostID(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, commenter.Name, comments[0].AuthorName)
	assert.Equal(t, "Is it available?", comments[0].Text)
}

func TestRegisterDuplicateRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "dana", "dana@x.com")

	values := url.Values{
		"name":        {"someone else"},
		"email":       {"dana@x.com"},
		"password":    {"pw2"},
		"area":        {"Negev"},
		"address":     {"somewhere"},
		"address_url": {"https://maps.example.com/x"},
	}
	w := app.do(http.MethodPost, "/register", values, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))
}

func TestLoginWrongPasswordNoSession(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "dana", "dana@x.com")

	values := url.Values{"email": {"dana@x.com"}, "password": {"wrong"}}
	w := app.do(http.MethodPost, "/login", values, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))

	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, auth.SessionCookie, c.Name, "failed login must not set a session cookie")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.registerUser(t, "dana", "dana@x.com")

	w := app.do(http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// The old session id no longer opens the gate.
	w = app.do(http.MethodGet, "/post", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))
}

func TestHomeSearchFiltersByCategoryAndArea(t *testing.T) {
	app := newTestApp(t)
	user, _ := app.registerUser(t, "dana", "dana@x.com")
	app.seedPost(t, user, "Chair")

	// Matching filter finds the post.
	w := app.do(http.MethodPost, "/", url.Values{"category": {"Furniture"}, "area": {"Haifa"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "posts: 1", w.Body.String())

	// Same category, different area: both predicates apply.
	w = app.do(http.MethodPost, "/", url.Values{"category": {"Furniture"}, "area": {"Golan"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "posts: 0", w.Body.String())
}

func TestContactSendsMessage(t *testing.T) {
	app := newTestApp(t)

	values := url.Values{
		"name":    {"Dana"},
		"email":   {"dana@x.com"},
		"phone":   {"050-1234567"},
		"message": {"Hello"},
	}
	w := app.do(http.MethodPost, "/contact", values, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sent=true")

	require.Len(t, app.relay.sent, 1)
	assert.Equal(t, "Dana", app.relay.sent[0].Name)
	assert.Equal(t, "050-1234567", app.relay.sent[0].Phone)
}

func TestContactRelayFailureSurfaces(t *testing.T) {
	app := newTestApp(t)
	app.relay.err = errors.New("relay down")

	values := url.Values{
		"name":    {"Dana"},
		"email":   {"dana@x.com"},
		"phone":   {"050-1234567"},
		"message": {"Hello"},
	}
	w := app.do(http.MethodPost, "/contact", values, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "failed")
	assert.NotContains(t, w.Body.String(), "sent=true")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
