package repository

import (
	"card_service/internal/domain"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// translate maps unique-constraint violations to domain.ErrDuplicate. It relies
// on gorm.Config.TranslateError being enabled.
func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
