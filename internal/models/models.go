package models

import "time"

// User represents a registered account. Password is stored as a bcrypt hash,
// never plaintext. Users are created on registration and never updated or
// deleted by any route.
type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Area         string
	Address      string
	AddressURL   string
}

// Post represents a listing. Name, Area, Address and AddressURL are
// snapshots of the author's profile taken at creation time; they are not kept
// in sync if the profile ever changes.
type Post struct {
	ID        int
	AuthorID  int
	Title     string
	Category  string
	Condition string
	ImgURL    string
	Content   string
	// Date is the human-readable creation date, e.g. "March 04, 2024".
	Date string

	// Denormalized author fields, immutable after creation.
	Name       string
	Area       string
	Address    string
	AddressURL string
}

// Comment represents a comment on a post. AuthorName is denormalized, not a
// user reference. Comments are never edited or deleted, and deleting a post
// does not remove its comments.
type Comment struct {
	ID         int
	Text       string
	Date       string
	AuthorName string
	PostID     int
}

// Session represents a logged-in user session, referenced by the opaque id
// carried in the session cookie.
type Session struct {
	SessionID string
	UserID    int
	Expires   time.Time
}

// DateFormat is the layout for Post.Date and Comment.Date.
const DateFormat = "January 02, 2006"

// Categories a post can be listed under.
var Categories = []string{
	"Food",
	"Baby",
	"Clothes",
	"Furniture",
	"Electronics",
	"Sports and Outdoors",
	"Toys",
	"Beauty and Personal Care",
	"Other",
}

// Areas a user can register in.
var Areas = []string{
	"Tel Aviv-Yafo",
	"Jerusalem",
	"Haifa",
	"Sea of Galilee",
	"Galilee",
	"Golan",
	"Negev",
	"Arava",
}

// Conditions an item can be in.
var Conditions = []string{"New", "Used"}
