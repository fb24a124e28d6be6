package storage

import (
	"fmt"
	"os"
	"path"
)

// PhotoDir is where roster photos live, relative to the data directory.
const PhotoDir = "Images/plantilla"

// PhotoStore saves roster photos as jugador_<id>.png
type PhotoStore struct {
	storage *Storage
}

// Photos returns the photo store of s.
func (s *Storage) Photos() *PhotoStore {
	return &PhotoStore{storage: s}
}

// Ref is the site-relative path of a player's photo.
func (p *PhotoStore) Ref(playerID string) string {
	return path.Join(PhotoDir, fmt.Sprintf("jugador_%s.png", playerID))
}

// Exists reports whether a photo was already saved for the player.
func (p *PhotoStore) Exists(playerID string) bool {
	info, err := os.Stat(p.storage.Path(p.Ref(playerID)))
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Save writes the photo and returns its reference.
func (p *PhotoStore) Save(playerID string, data []byte) (string, error) {
	ref := p.Ref(playerID)
	if err := writeFile(p.storage.Path(ref), data); err != nil {
		return "", fmt.Errorf("writing photo %s: %w", ref, err)
	}
	return ref, nil
}
