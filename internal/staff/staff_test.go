package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	u := User{Permissions: []string{PermOrdersWrite, PermContactRead}}
	assert.True(t, u.Can(PermOrdersWrite))
	assert.True(t, u.Can(PermContactRead))
	assert.False(t, u.Can(PermOrdersDelete))
	assert.False(t, u.Can(PermStaffAdmin))

	var none User
	assert.False(t, none.Can(PermOrdersWrite))
}
