package volunteer

import (
	"errors"
	"strings"

	volunteererrors "github.com/shankar7055/sewa-volunteer-app/internal/volunteer/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return volunteererrors.ErrVolunteerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return volunteererrors.ErrEmailAlreadyInUse
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return volunteererrors.ErrEmailAlreadyInUse
	}

	return err
}
