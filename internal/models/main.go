// Package models defines the core data structures for users and calculations.
package models

import "time"

// GuestID is the user ID of an unauthenticated session. Guests are never persisted.
const GuestID int64 = 0

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// PasswordHash is the one-way hash of the user's password.
	PasswordHash string `json:"-"`
	// Email is optional contact information.
	Email string `json:"email,omitempty"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"created_at"`
}

// IsGuest reports whether u is the guest sentinel.
func (u *User) IsGuest() bool {
	return u == nil || u.ID == GuestID
}

// Calculation is a single entry of a user's calculation history.
type Calculation struct {
	// Type is the calculation label ("difference", "weekday", ...).
	Type string `json:"type"`
	// Input is the human-readable input of the calculation.
	Input string `json:"input"`
	// Result is the human-readable result.
	Result string `json:"result"`
	// CreatedAt is when the calculation was saved.
	CreatedAt time.Time `json:"created_at"`
}

// Calculation labels written to history as Calculation.Type.
const (
	// Difference is the difference between two dates.
	Difference = "difference"
	// Weekday is a day-of-week lookup.
	Weekday = "weekday"
	// Shift is adding or subtracting days.
	Shift = "add_days"
	// AgeCalc is an age computation.
	AgeCalc = "age"
	// Calendar is a month calendar rendering.
	Calendar = "calendar"
	// WorkingDays is a working-day count.
	WorkingDays = "working_days"
	// LeapYear is a leap-year check.
	LeapYear = "leap_year"
	// Holiday is a holiday lookup.
	Holiday = "holiday"
)
