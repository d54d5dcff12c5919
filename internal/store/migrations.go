package store

import "github.com/LaviAzankot/CharityChick/internal/apperror"

// RunMigrations creates the schema if it does not exist yet.
//
// posts.author_id intentionally carries no FOREIGN KEY constraint: the
// denormalized author fields on the post row are what gets displayed, and
// users are never deleted anyway. comments.post_id keeps its foreign key, but
// deleting a post does not cascade to comments.
func (s *Store) RunMigrations() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT UNIQUE NOT NULL,
            email TEXT UNIQUE NOT NULL COLLATE NOCASE,
            password_hash TEXT NOT NULL,
            area TEXT NOT NULL,
            address TEXT NOT NULL,
            address_url TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS posts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            author_id INTEGER NOT NULL,
            title TEXT NOT NULL,
            category TEXT NOT NULL,
            condition TEXT NOT NULL,
            img_url TEXT NOT NULL,
            content TEXT NOT NULL,
            date TEXT NOT NULL,
            name TEXT NOT NULL,
            area TEXT NOT NULL,
            address TEXT NOT NULL,
            address_url TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            text TEXT NOT NULL,
            date TEXT NOT NULL,
            author_name TEXT NOT NULL,
            post_id INTEGER NOT NULL,
            FOREIGN KEY (post_id) REFERENCES posts(id)
        )`,
		`CREATE TABLE IF NOT EXISTS sessions (
            session_id TEXT PRIMARY KEY,
            user_id INTEGER NOT NULL,
            expires DATETIME NOT NULL,
            FOREIGN KEY (user_id) REFERENCES users(id)
        )`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return apperror.NewDatabaseError("run migrations", err)
		}
	}
	return nil
}
