package shop

import (
	"github.com/pkg/errors"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

// Error kinds returned by the shop. Test with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("repair already completed")
	ErrConflict         = errors.New("conflict")
)

// translate maps store errors onto shop error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return errors.Wrap(ErrNotFound, err.Error())
	case errors.Is(err, db.ErrDuplicate):
		return errors.Wrap(ErrValidation, err.Error())
	case errors.Is(err, db.ErrConflict):
		return errors.Wrap(ErrConflict, err.Error())
	}
	return err
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

func alreadyCompleted(r models.Repair) error {
	return errors.Wrapf(ErrAlreadyCompleted, "repair %d was completed on %s", r.ID, r.CompletionDate.Format("2006-01-02"))
}
