package weathericons

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/weathericons/bitmap"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// Cache stores previously encoded bitmaps keyed by the SHA-1 of the source
// image and the encoder configuration.
type Cache struct {
	db *sql.DB
}

// NewCache opens, creating if necessary, the cache database in file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	// Only one writer at a time, otherwise concurrent workers see SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, size INTEGER NOT NULL, threshold INTEGER NOT NULL, polarity INTEGER NOT NULL, data BLOB NOT NULL, UNIQUE(sha1, size, threshold, polarity))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the bitmap previously stored for the source image sha and
// cfg, or nil if there isn't one.
func (c *Cache) Lookup(sha string, cfg bitmap.Config) (bitmap.Bitmap, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM bitmap WHERE sha1 = ? AND size = ? AND threshold = ? AND polarity = ?", sha, cfg.Size, cfg.Threshold, int(cfg.Polarity)).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		// Ignore anything written by a different encoder
		if len(data) != cfg.Bytes() {
			return nil, nil
		}
		return bitmap.Bitmap(data), nil
	default:
		return nil, err
	}
}

// Store records b as the bitmap for the source image sha and cfg.
func (c *Cache) Store(sha string, cfg bitmap.Config, b bitmap.Bitmap) error {
	if len(b) != cfg.Bytes() {
		return fmt.Errorf("cache: bitmap is %d bytes, expected %d", len(b), cfg.Bytes())
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO bitmap (sha1, size, threshold, polarity, data) VALUES (?, ?, ?, ?, ?)", sha, cfg.Size, cfg.Threshold, int(cfg.Polarity), []byte(b)); err != nil {
		return err
	}
	return nil
}
