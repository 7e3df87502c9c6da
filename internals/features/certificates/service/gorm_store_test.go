package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
	assert.False(t, isUniqueViolation(errors.New("connection reset by peer")))
}
