// Package store provides sqlite-backed persistence for users, posts,
// comments and sessions.
package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/LaviAzankot/CharityChick/internal/apperror"
	"github.com/LaviAzankot/CharityChick/internal/models"
)

// Store provides methods for working with the database.
type Store struct {
	db *sql.DB
}

// Open opens the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperror.NewDatabaseError("open database", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user. The caller is responsible for hashing the
// password before it gets here.
func (s *Store) CreateUser(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	res, err := s.db.Exec(
		"INSERT INTO users (name, email, password_hash, area, address, address_url) VALUES (?, ?, ?, ?, ?, ?)",
		user.Name, user.Email, user.PasswordHash, user.Area, user.Address, user.AddressURL)
	if err != nil {
		return apperror.NewDatabaseError("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabaseError("create user", err)
	}
	user.ID = int(id)
	return nil
}

// EmailTaken checks whether a user with the given email already exists.
func (s *Store) EmailTaken(email string) (bool, error) {
	email = strings.ToLower(email)
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	if err != nil {
		return false, apperror.NewDatabaseError("check email", err)
	}
	return count > 0, nil
}

// GetUserByEmail retrieves a user by email (exact match, case-insensitive).
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	email = strings.ToLower(email)
	user := &models.User{}
	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash, area, address, address_url FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Area, &user.Address, &user.AddressURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("get user by email", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(userID int) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash, area, address, address_url FROM users WHERE id = ?", userID).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Area, &user.Address, &user.AddressURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("get user by id", err)
	}
	return user, nil
}

// CreateSession creates a new session row.
func (s *Store) CreateSession(session *models.Session) error {
	_, err := s.db.Exec("INSERT INTO sessions (session_id, user_id, expires) VALUES (?, ?, ?)",
		session.SessionID, session.UserID, session.Expires)
	if err != nil {
		return apperror.NewDatabaseError("create session", err)
	}
	return nil
}

// GetSession retrieves a non-expired session by ID.
func (s *Store) GetSession(sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.QueryRow("SELECT session_id, user_id, expires FROM sessions WHERE session_id = ? AND expires > ?",
		sessionID, time.Now()).Scan(&session.SessionID, &session.UserID, &session.Expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("session not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("get session", err)
	}
	return session, nil
}

// DeleteSession deletes a session.
func (s *Store) DeleteSession(sessionID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return apperror.NewDatabaseError("delete session", err)
	}
	return nil
}

// CleanExpiredSessions deletes all expired sessions.
func (s *Store) CleanExpiredSessions() error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE expires < ?", time.Now())
	if err != nil {
		return apperror.NewDatabaseError("clean sessions", err)
	}
	return nil
}

// CreatePost inserts a new post and returns its assigned id.
func (s *Store) CreatePost(post *models.Post) (int, error) {
	res, err := s.db.Exec(
		`INSERT INTO posts (author_id, title, category, condition, img_url, content, date, name, area, address, address_url)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.AuthorID, post.Title, post.Category, post.Condition, post.ImgURL, post.Content,
		post.Date, post.Name, post.Area, post.Address, post.AddressURL)
	if err != nil {
		return 0, apperror.NewDatabaseError("create post", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabaseError("create post", err)
	}
	post.ID = int(id)
	return post.ID, nil
}

// GetPostByID retrieves a post by ID.
func (s *Store) GetPostByID(postID int) (*models.Post, error) {
	post := &models.Post{}
	err := s.db.QueryRow(
		`SELECT id, author_id, title, category, condition, img_url, content, date, name, area, address, address_url
         FROM posts WHERE id = ?`, postID).
		Scan(&post.ID, &post.AuthorID, &post.Title, &post.Category, &post.Condition, &post.ImgURL,
			&post.Content, &post.Date, &post.Name, &post.Area, &post.Address, &post.AddressURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("post not found", err)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("get post", err)
	}
	return post, nil
}

// UpdatePost updates the five mutable fields of a post. The denormalized
// author fields and the date never change after creation.
func (s *Store) UpdatePost(postID int, title, category, condition, imgURL, content string) error {
	res, err := s.db.Exec(
		"UPDATE posts SET title = ?, category = ?, condition = ?, img_url = ?, content = ? WHERE id = ?",
		title, category, condition, imgURL, content, postID)
	if err != nil {
		return apperror.NewDatabaseError("update post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabaseError("update post", err)
	}
	if n == 0 {
		return apperror.NewNotFound("post not found", nil)
	}
	return nil
}

// DeletePost deletes a post by ID. Comments are left in place.
func (s *Store) DeletePost(postID int) error {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = ?", postID)
	if err != nil {
		return apperror.NewDatabaseError("delete post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabaseError("delete post", err)
	}
	if n == 0 {
		return apperror.NewNotFound("post not found", nil)
	}
	return nil
}

// GetPosts returns all posts, most recently created first. Ids are assigned
// monotonically at insert time, so descending id is creation order.
func (s *Store) GetPosts() ([]*models.Post, error) {
	return s.queryPosts(
		`SELECT id, author_id, title, category, condition, img_url, content, date, name, area, address, address_url
         FROM posts ORDER BY id DESC`)
}

// SearchPosts returns posts matching both category and area, most recent
// first.
func (s *Store) SearchPosts(category, area string) ([]*models.Post, error) {
	return s.queryPosts(
		`SELECT id, author_id, title, category, condition, img_url, content, date, name, area, address, address_url
         FROM posts WHERE category = ? AND area = ? ORDER BY id DESC`, category, area)
}

func (s *Store) queryPosts(query string, args ...interface{}) ([]*models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("list posts", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		err := rows.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Category, &post.Condition,
			&post.ImgURL, &post.Content, &post.Date, &post.Name, &post.Area, &post.Address, &post.AddressURL)
		if err != nil {
			return nil, apperror.NewDatabaseError("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("list posts", err)
	}
	return posts, nil
}

// CreateComment inserts a new comment. The post must exist at creation time;
// the caller checks that before calling.
func (s *Store) CreateComment(comment *models.Comment) error {
	res, err := s.db.Exec(
		"INSERT INTO comments (text, date, author_name, post_id) VALUES (?, ?, ?, ?)",
		comment.Text, comment.Date, comment.AuthorName, comment.PostID)
	if err != nil {
		return apperror.NewDatabaseError("create comment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabaseError("create comment", err)
	}
	comment.ID = int(id)
	return nil
}

// GetCommentsByPostID returns comments for a post in insertion order.
func (s *Store) GetCommentsByPostID(postID int) ([]*models.Comment, error) {
	rows, err := s.db.Query(
		"SELECT id, text, date, author_name, post_id FROM comments WHERE post_id = ? ORDER BY id ASC", postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("list comments", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(&comment.ID, &comment.Text, &comment.Date, &comment.AuthorName, &comment.PostID)
		if err != nil {
			return nil, apperror.NewDatabaseError("scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("list comments", err)
	}
	return comments, nil
}
