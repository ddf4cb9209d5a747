package models

import "errors"

var (
	// ErrTaskTarget is returned when a task does not reference exactly one
	// of room or zone.
	ErrTaskTarget = errors.New("task must reference exactly one of room or zone")

	// ErrTaskDueDate is returned when due time and scheduled date disagree.
	ErrTaskDueDate = errors.New("task due time must fall on the scheduled date")
)
