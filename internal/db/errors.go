package db

import (
	"errors"

	"github.com/stwalsh4118/khelwa/internal/store"
	"gorm.io/gorm"
)

// MapGormError maps GORM errors to store errors so callers never see driver types
func MapGormError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	return err
}
