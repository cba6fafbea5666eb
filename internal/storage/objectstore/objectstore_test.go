package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravadigital/huddle-api/internal/config"
)

func TestNewRequiresEndpoint(t *testing.T) {
	store, err := New(context.Background(), &config.Config{})

	assert.Nil(t, store)
	assert.EqualError(t, err, "object storage endpoint is not configured")
}
