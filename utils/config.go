package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kwadjoe/campuslinkbackend/models"
)

func AccessTTL() time.Duration {
	minStr := os.Getenv("ACCESS_TOKEN_TTL_MINUTES")
	min, _ := strconv.Atoi(minStr)
	if min <= 0 {
		min = 60
	}
	return time.Duration(min) * time.Minute
}

func RefreshTTL() time.Duration {
	dStr := os.Getenv("REFRESH_TOKEN_TTL_DAYS")
	days, _ := strconv.Atoi(dStr)
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func CampusEmailSuffix() string {
	suffix := strings.TrimSpace(os.Getenv("CAMPUS_EMAIL_SUFFIX"))
	if suffix == "" {
		suffix = "northeastern.edu"
	}
	return suffix
}

// DeriveRole assigns student to campus addresses, visitor to everyone else.
func DeriveRole(email string) models.Role {
	if strings.HasSuffix(strings.ToLower(email), CampusEmailSuffix()) {
		return models.RoleStudent
	}
	return models.RoleVisitor
}

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
