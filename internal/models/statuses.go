package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRole              = errors.New("invalid role")
	ErrInvalidApplicationStatus = errors.New("invalid application status")
	ErrPendingReentry           = errors.New("application cannot return to pending")
)

// Role is closed: only RoleEmployer and RoleJobseeker are valid. The zero
// value is deliberately invalid so an unset role never passes a check.
type Role uint8

const (
	roleUnknown Role = iota
	RoleEmployer
	RoleJobseeker
)

const (
	roleEmployerName  = "employer"
	roleJobseekerName = "jobseeker"
)

// ParseRole is the only way to obtain a Role from user input.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case roleEmployerName:
		return RoleEmployer, nil
	case roleJobseekerName:
		return RoleJobseeker, nil
	default:
		return roleUnknown, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleJobseeker
}

func (r Role) String() string {
	switch r {
	case RoleEmployer:
		return roleEmployerName
	case RoleJobseeker:
		return roleJobseekerName
	default:
		return "unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role as its name.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidRole, src)
	}
}

// ApplicationStatus is the state of an Application. pending is initial and
// cannot be re-entered once left; the other three are mutually reachable.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusInterview ApplicationStatus = "interview"
)

// ApplicationStatuses lists every recognized status.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusInterview,
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidApplicationStatus, s)
	}
	return status, nil
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusInterview:
		return true
	default:
		return false
	}
}

// CanTransitionTo validates an explicit employer-driven transition.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) error {
	if !next.Valid() {
		return ErrInvalidApplicationStatus
	}
	if next == ApplicationStatusPending && s != ApplicationStatusPending {
		return ErrPendingReentry
	}
	return nil
}
