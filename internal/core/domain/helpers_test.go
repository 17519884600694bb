package domain_test

import (
	"time"
)

// fixedNow is the clock used across the package tests.
var fixedNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func ptr[T any](v T) *T {
	return &v
}

func daysFromNow(n int) *time.Time {
	t := fixedNow.AddDate(0, 0, n)
	return &t
}
