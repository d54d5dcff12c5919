package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LaviAzankot/CharityChick/internal/apperror"
	"github.com/LaviAzankot/CharityChick/internal/auth"
	"github.com/LaviAzankot/CharityChick/internal/forms"
	"github.com/LaviAzankot/CharityChick/internal/logging"
	"github.com/LaviAzankot/CharityChick/internal/models"
	"github.com/LaviAzankot/CharityChick/internal/render"
	"github.com/LaviAzankot/CharityChick/internal/store"
)

// PostHandler handles the listing pages: browse/search, create, edit,
// delete, and the single-post view with its comments.
type PostHandler struct {
	store  *store.Store
	render *render.Renderer
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(st *store.Store, render *render.Renderer) *PostHandler {
	return &PostHandler{store: st, render: render}
}

// Home handles GET/POST /. A POST is a search submission filtering by
// category and area together; anything else lists every post, newest first.
func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	var (
		posts []*models.Post
		err   error
	)

	data := baseData(r)

	if r.Method == http.MethodPost {
		form, fieldErrors := forms.DecodeSearch(r)
		if len(fieldErrors) == 0 {
			posts, err = h.store.SearchPosts(form.Category, form.Area)
			data["Search"] = form
		} else {
			posts, err = h.store.GetPosts()
		}
	} else {
		posts, err = h.store.GetPosts()
	}
	if err != nil {
		logging.Error().Err(err).Msg("loading posts")
		h.render.HTML(w, http.StatusInternalServerError, "error.html", map[string]interface{}{
			"Code": 500, "Title": "500 Internal Server Error", "Message": "Could not load posts.",
		})
		return
	}

	data["Posts"] = posts
	h.render.HTML(w, http.StatusOK, "index.html", data)
}

// CreatePost handles GET/POST /post. Only reachable authenticated; the route
// guard handles the anonymous case before this runs.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render.HTML(w, http.StatusOK, "make_post.html", baseData(r))
		return
	}

	form, fieldErrors := forms.DecodePost(r)
	if len(fieldErrors) > 0 {
		data := baseData(r)
		data["Form"] = form
		data["FieldErrors"] = fieldErrors
		h.render.HTML(w, http.StatusBadRequest, "make_post.html", data)
		return
	}

	user := auth.UserFrom(r.Context())
	post := &models.Post{
		AuthorID:  user.ID,
		Title:     form.Title,
		Category:  form.Category,
		Condition: form.Condition,
		ImgURL:    form.ImgURL,
		Content:   form.Content,
		Date:      time.Now().Format(models.DateFormat),
		// Snapshot of the author's profile at creation time.
		Name:       user.Name,
		Area:       user.Area,
		Address:    user.Address,
		AddressURL: user.AddressURL,
	}
	id, err := h.store.CreatePost(post)
	if err != nil {
		logging.Error().Err(err).Int("user_id", user.ID).Msg("creating post")
		redirectWithError(w, r, "/post", "Could not create the post, please try again.")
		return
	}

	logging.Info().Int("post_id", id).Int("user_id", user.ID).Str("title", post.Title).Msg("post created")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditPost handles GET/POST /post/{id}. Any authenticated user may edit any
// post; only the five listing fields change, never the author snapshot or
// the date.
func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.store.GetPostByID(postID)
	if apperror.IsNotFound(err) {
		h.render.NotFound(w)
		return
	}
	if err != nil {
		logging.Error().Err(err).Int("post_id", postID).Msg("loading post")
		h.render.NotFound(w)
		return
	}

	if r.Method == http.MethodGet {
		data := baseData(r)
		data["Post"] = post
		data["Form"] = forms.PostForm{
			Title:     post.Title,
			Category:  post.Category,
			Condition: post.Condition,
			ImgURL:    post.ImgURL,
			Content:   post.Content,
		}
		h.render.HTML(w, http.StatusOK, "make_post.html", data)
		return
	}

	form, fieldErrors := forms.DecodePost(r)
	if len(fieldErrors) > 0 {
		data := baseData(r)
		data["Post"] = post
		data["Form"] = form
		data["FieldErrors"] = fieldErrors
		h.render.HTML(w, http.StatusBadRequest, "make_post.html", data)
		return
	}

	err = h.store.UpdatePost(postID, form.Title, form.Category, form.Condition, form.ImgURL, form.Content)
	if apperror.IsNotFound(err) {
		h.render.NotFound(w)
		return
	}
	if err != nil {
		logging.Error().Err(err).Int("post_id", postID).Msg("updating post")
		redirectWithError(w, r, "/post/"+strconv.Itoa(postID), "Could not update the post, please try again.")
		return
	}

	http.Redirect(w, r, "/posts/"+strconv.Itoa(postID), http.StatusSeeOther)
}

// DeletePost handles GET /delete_post/{id}. Comments stay behind; deleting a
// post does not cascade to them.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	err := h.store.DeletePost(postID)
	if apperror.IsNotFound(err) {
		h.render.NotFound(w)
		return
	}
	if err != nil {
		logging.Error().Err(err).Int("post_id", postID).Msg("deleting post")
		redirectWithError(w, r, "/", "Could not delete the post.")
		return
	}

	logging.Info().Int("post_id", postID).Msg("post deleted")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowPost handles GET/POST /posts/{id}: the post with its comments, and the
// comment submission. Viewing is public; commenting requires login, checked
// here rather than by the route guard so anonymous visitors can still read.
func (h *PostHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.store.GetPostByID(postID)
	if apperror.IsNotFound(err) {
		h.render.NotFound(w)
		return
	}
	if err != nil {
		logging.Error().Err(err).Int("post_id", postID).Msg("loading post")
		h.render.NotFound(w)
		return
	}

	if r.Method == http.MethodPost {
		user := auth.UserFrom(r.Context())
		if user == nil {
			redirectWithError(w, r, "/login", "You need to login or register to comment.")
			return
		}

		form, fieldErrors := forms.DecodeComment(r)
		if len(fieldErrors) > 0 {
			h.renderPost(w, r, post, fieldErrors, http.StatusBadRequest)
			return
		}

		comment := &models.Comment{
			Text:       form.Text,
			Date:       time.Now().Format(models.DateFormat),
			AuthorName: user.Name,
			PostID:     post.ID,
		}
		if err := h.store.CreateComment(comment); err != nil {
			logging.Error().Err(err).Int("post_id", postID).Msg("creating comment")
			redirectWithError(w, r, "/posts/"+strconv.Itoa(postID), "Could not post the comment.")
			return
		}
		http.Redirect(w, r, "/posts/"+strconv.Itoa(postID), http.StatusSeeOther)
		return
	}

	h.renderPost(w, r, post, nil, http.StatusOK)
}

func (h *PostHandler) renderPost(w http.ResponseWriter, r *http.Request, post *models.Post, fieldErrors map[string]string, status int) {
	comments, err := h.store.GetCommentsByPostID(post.ID)
	if err != nil {
		logging.Error().Err(err).Int("post_id", post.ID).Msg("loading comments")
	}

	data := baseData(r)
	data["Post"] = post
	data["Comments"] = comments
	if len(fieldErrors) > 0 {
		data["FieldErrors"] = fieldErrors
	}
	h.render.HTML(w, status, "post.html", data)
}

// postID parses the {id} URL parameter, answering 404 for garbage.
func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.render.NotFound(w)
		return 0, false
	}
	return id, true
}
