package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const (
	// ValidGroupsKey holds the comma separated groups the caller may use, or "*"
	ValidGroupsKey = "validgroups"

	AllGroups = "*"
)

// CanUseGroup reports whether the caller authenticated on c may launch into, query or
// release instances of group. An empty group is the provider default and requires
// access to all groups.
func CanUseGroup(context *gin.Context, group string) bool {
	v, _ := context.Get(ValidGroupsKey)
	if v == nil {
		return false
	}
	if v == AllGroups {
		return true
	}
	if group == "" {
		return false
	}
	validgroups := strings.Split(fmt.Sprint(v), ",")
	return lo.Contains(validgroups, group)
}
