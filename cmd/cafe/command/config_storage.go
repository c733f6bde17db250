package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-cafe/internal/cafe"
	"github.com/pixil98/go-cafe/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Seats   AssetConfig[*cafe.Seat]   `json:"seats"`
	Patrons AssetConfig[*cafe.Patron] `json:"patrons"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	el.Add(c.Seats.Validate("seats"))
	if c.Patrons.Path != "" {
		el.Add(c.Patrons.Validate("patrons"))
	}
	return el.Err()
}

// BuildStores loads the seat layout and, when configured, the patron roster.
// A nil patron store means every arrival uses the default profile.
func (c *StorageConfig) BuildStores() (storage.Storer[*cafe.Seat], storage.Storer[*cafe.Patron], error) {
	seats, err := c.Seats.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating seat store: %w", err)
	}

	if c.Patrons.Path == "" {
		return seats, nil, nil
	}
	patrons, err := c.Patrons.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating patron store: %w", err)
	}

	return seats, patrons, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
