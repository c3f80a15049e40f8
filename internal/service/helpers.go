package service

import (
	"errors"

	"github.com/docketlabs/docket/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
