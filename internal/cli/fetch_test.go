package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/semplan/internal/model"
)

func TestCheckCatalog(t *testing.T) {
	assert.Error(t, checkCatalog(nil, false))
	assert.NoError(t, checkCatalog(nil, true))
	assert.NoError(t, checkCatalog([]model.Course{{Code: "IT001"}}, false))
}
