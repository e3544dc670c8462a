package attendance

import (
	"go-emp-mgmt/internal/shared/storeerr"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	return storeerr.Classify(err)
}
