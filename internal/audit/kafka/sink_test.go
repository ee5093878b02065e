package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequiresBrokersAndTopic(t *testing.T) {
	_, err := New(nil, "audit")
	assert.Error(t, err)

	_, err = New([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}
