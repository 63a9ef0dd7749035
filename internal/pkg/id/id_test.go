package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Is26Chars(t *testing.T) {
	assert.Len(t, New(), 26)
}

func TestShort_PrefixUppercased(t *testing.T) {
	assert.Equal(t, "01HV3ZK9", Short("01hv3zk9d2e4f6g8h0j2k4m6n8"))
	assert.Equal(t, "ABC", Short("abc"))
}
