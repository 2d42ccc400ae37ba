package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWith(groups any) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if groups != nil {
		c.Set(ValidGroupsKey, groups)
	}
	return c
}

func TestCanUseGroup(t *testing.T) {
	tests := []struct {
		name   string
		groups any
		group  string
		want   bool
	}{
		{name: "unauthenticated", groups: nil, group: "web", want: false},
		{name: "all groups", groups: AllGroups, group: "web", want: true},
		{name: "all groups, default group", groups: AllGroups, group: "", want: true},
		{name: "listed", groups: "db,web", group: "web", want: true},
		{name: "not listed", groups: "db,web", group: "batch", want: false},
		{name: "default group needs all groups", groups: "db,web", group: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUseGroup(contextWith(tt.groups), tt.group))
		})
	}
}
