// Package snowflake validates platform-issued IDs and recovers the
// creation timestamp they encode.
package snowflake

import (
	"math"
	"strconv"
	"time"
)

// Epoch is the platform's ID-generation epoch (2015-01-01 UTC) in
// milliseconds.
const Epoch = 1420070400000

// Valid reports whether input looks like a platform ID: 17 to 20
// ASCII digits whose numeric value fits the 64-bit unsigned range
// reduced by one. 17 digits is the length of the oldest issued IDs,
// 20 the length of the unsigned 64-bit limit.
func Valid(input string) bool {
	if len(input) < 17 || len(input) > 20 {
		return false
	}
	for _, c := range input {
		if c < '0' || c > '9' {
			return false
		}
	}
	value, err := strconv.ParseUint(input, 10, 64)
	return err == nil && value <= math.MaxUint64-1
}

// Timestamp extracts the creation time encoded in the ID's upper
// bits. The ID must have passed Valid.
func Timestamp(id string) time.Time {
	value, _ := strconv.ParseUint(id, 10, 64)
	ms := int64(value>>22) + Epoch
	return time.UnixMilli(ms)
}
