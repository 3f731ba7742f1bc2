package models

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Identity arrives from the upstream gateway as context values; this service
// keeps no user table of its own.
