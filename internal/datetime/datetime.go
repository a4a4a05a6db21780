// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package datetime implements the three canonical temporal literal formats
// the engine understands (Time, Date, DateTime) and conversion to/from the
// UTC epoch-second representation Value stores for Date/DateTime.
package datetime

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// IsValidTimeFormat reports whether s matches HH:MM:SS or HH:MM:SS.SSS.
func IsValidTimeFormat(s string) bool {
	if len(s) < 8 || len(s) > 12 {
		return false
	}
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return false
	}
	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return false
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return false
	}
	secParts := strings.SplitN(parts[2], ".", 2)
	seconds, err := strconv.ParseUint(secParts[0], 10, 32)
	if err != nil {
		return false
	}
	millis := uint64(0)
	if len(secParts) == 2 {
		millis, err = strconv.ParseUint(secParts[1], 10, 32)
		if err != nil {
			return false
		}
	}
	return hours < 24 && minutes < 60 && seconds < 60 && millis < 1000
}

// IsValidDateFormat reports whether s matches YYYY-MM-DD.
func IsValidDateFormat(s string) bool {
	if len(s) != 10 {
		return false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return false
	}
	year, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return false
	}
	month, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return false
	}
	day, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return false
	}
	return year >= 1 && month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// IsValidDateTimeFormat reports whether s matches
// "YYYY-MM-DD HH:MM:SS[.SSS]".
func IsValidDateTimeFormat(s string) bool {
	if len(s) < 19 || len(s) > 23 {
		return false
	}
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return false
	}
	return IsValidDateFormat(parts[0]) && IsValidTimeFormat(parts[1])
}

// DateToEpoch parses a YYYY-MM-DD literal into UTC epoch seconds at
// midnight. Returns 0 for an unparsable literal, matching the source's
// fallback behavior.
func DateToEpoch(s string) int64 {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0
	}
	return t.UTC().Unix()
}

// DateTimeToEpoch parses a "YYYY-MM-DD HH:MM:SS[.SSS]" literal into UTC
// epoch seconds. Returns 0 for an unparsable literal.
func DateTimeToEpoch(s string) int64 {
	layout := dateTimeLayout
	if strings.Contains(s, ".") {
		layout = dateTimeLayout + ".000"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0
	}
	return t.UTC().Unix()
}

// EpochToDate renders UTC epoch seconds as a YYYY-MM-DD literal.
func EpochToDate(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(dateLayout)
}

// EpochToDateTime renders UTC epoch seconds as a
// "YYYY-MM-DD HH:MM:SS.SSS" literal.
func EpochToDateTime(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(dateTimeLayout + ".000")
}

// EpochToTime renders UTC epoch seconds as an HH:MM:SS literal.
func EpochToTime(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("15:04:05")
}

// EpochFromYearAndDay builds UTC epoch seconds for the given ISO year and
// 1-based day-of-year, at midnight.
func EpochFromYearAndDay(year int, dayOfYear int) int64 {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	t = t.AddDate(0, 0, dayOfYear-1)
	return t.Unix()
}

// Now returns the current UTC instant.
func Now() time.Time { return time.Now().UTC() }
