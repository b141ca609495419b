// Package format turns raw controller values into the strings shown in the UI.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// BytesString formats a byte count with base 1024 units and two decimals,
// e.g. 1536 -> "1.50 KB". Counts past TB stay in TB.
func BytesString(bytes int64) string {
	if bytes == 0 {
		return "0 Byte"
	}
	if bytes < 0 {
		if bytes == math.MinInt64 {
			bytes++ // -MinInt64 overflows
		}
		return "-" + BytesString(-bytes)
	}

	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(byteUnits)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", value, byteUnits[i])
}

// TimeSinceString describes how long ago unixMillis was relative to now.
// Zero and negative timestamps mean the event never happened.
func TimeSinceString(unixMillis int64, now time.Time) string {
	if unixMillis <= 0 {
		return "never"
	}

	seconds := TimeSinceSeconds(unixMillis, now)
	if seconds < 0 {
		return "just now"
	}

	days := int64(seconds) / 86400
	hours := (int64(seconds) % 86400) / 3600
	minutes := (int64(seconds) % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d days ago", days)
	case hours > 0:
		return fmt.Sprintf("%d hours ago", hours)
	case minutes >= 2:
		return fmt.Sprintf("%d minutes ago", minutes)
	default:
		return "just now"
	}
}

// TimeSinceSeconds returns the seconds elapsed between unixMillis and now,
// counted from the start of now's second. Future timestamps are negative.
func TimeSinceSeconds(unixMillis int64, now time.Time) float64 {
	then := float64(unixMillis) / 1000
	return float64(now.Unix()) - then
}

// ExpiryString describes an API key expiry. Zero means the key never expires.
func ExpiryString(unixMillis int64, now time.Time) string {
	if unixMillis == 0 {
		return "never"
	}
	expires := time.UnixMilli(unixMillis)
	if !expires.After(now) {
		return "expired"
	}
	return expires.Local().Format("2006-01-02 15:04")
}

// ArrayToCommas joins values for display in a single text field.
func ArrayToCommas(values []string) string {
	return strings.Join(values, ", ")
}

// CommasToArray splits a text field back into values. Blank entries are
// dropped, so an empty field yields an empty, non-nil slice; the controller
// expects [] rather than null.
func CommasToArray(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// NewUUID returns a random (v4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}
