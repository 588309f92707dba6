package utils

import (
	"strconv"
	"strings"
	"time"
)

const (
	AdminDashboardCacheKey = "worklogs:dashboard:admin:v1"
	AdminUsersCacheKey     = "users:list:v1"
)

func UserDashboardCacheKey(userID int64) string {
	return "worklogs:dashboard:user:v1:" + strconv.FormatInt(userID, 10)
}

// UserWorkLogsCachePrefix covers every filtered listing of one user.
func UserWorkLogsCachePrefix(userID int64) string {
	return "worklogs:list:v1:user=" + strconv.FormatInt(userID, 10) + ":"
}

func UserWorkLogsCacheKey(userID int64, project *string, from, to *time.Time) string {
	p := ""
	if project != nil {
		p = strings.ToLower(strings.TrimSpace(*project))
	}
	f := ""
	if from != nil {
		f = from.UTC().Format(time.RFC3339Nano)
	}
	t := ""
	if to != nil {
		t = to.UTC().Format(time.RFC3339Nano)
	}

	return UserWorkLogsCachePrefix(userID) +
		"project=" + p +
		":from=" + f +
		":to=" + t
}
