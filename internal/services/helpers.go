package services

import (
	"errors"

	"github.com/gravadigital/huddle-api/internal/domain/common"
)

// asStoreError keeps domain errors as they are and wraps anything else as
// a store failure of op
func asStoreError(op string, err error) error {
	var domainErr *common.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return common.Store(op, err)
}

func deref[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
