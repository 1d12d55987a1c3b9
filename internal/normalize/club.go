package normalize

import (
	"strconv"
	"strings"

	"github.com/coachlab/golfmetrics/internal/model"
)

// ClassifyClub is the single place club-label vocabulary lives; vendor
// label drift is fixed here, not in scattered string checks.
func ClassifyClub(label string) model.ClubCategory {
	c := strings.ToUpper(strings.TrimSpace(label))
	switch {
	case c == "":
		return model.ClubUnknown
	case strings.HasPrefix(c, "DR") || strings.Contains(c, "DRIVER"):
		return model.ClubDriver
	case c == "1W" || c == "W1":
		return model.ClubDriver
	case strings.HasPrefix(c, "W") || strings.HasSuffix(c, "W") && hasLeadingDigit(c):
		return model.ClubWood
	case strings.HasPrefix(c, "H") || strings.Contains(c, "HYBRID"):
		return model.ClubHybrid
	case strings.Contains(c, "WEDGE") || c == "PW" || c == "SW" || c == "LW" || c == "GW":
		return model.ClubWedge
	case strings.Contains(c, "PUTT") || c == "PT":
		return model.ClubPutter
	case strings.HasPrefix(c, "I") || strings.HasSuffix(c, "I") || strings.HasPrefix(c, "F"):
		return model.ClubIron
	default:
		return model.ClubUnknown
	}
}

// IsDriver reports whether the club label names a driver: upper-cased
// label starting with "DR" or containing "DRIVER".
func IsDriver(label string) bool {
	c := strings.ToUpper(strings.TrimSpace(label))
	return strings.HasPrefix(c, "DR") || strings.Contains(c, "DRIVER")
}

// IsLongClub reports whether the label is a long club: driver, any wood
// or hybrid, or a 3–7 fairway/iron.
func IsLongClub(label string) bool {
	c := strings.ToUpper(strings.TrimSpace(label))
	if c == "" {
		return false
	}
	if IsDriver(c) || c == "1W" || c == "W1" {
		return true
	}
	if strings.HasPrefix(c, "H") || strings.HasPrefix(c, "W") {
		return true
	}
	for _, p := range []string{"F", "I"} {
		if strings.HasPrefix(c, p) {
			if n, err := strconv.Atoi(c[1:]); err == nil {
				return n >= 3 && n <= 7
			}
		}
	}
	return false
}

func hasLeadingDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
