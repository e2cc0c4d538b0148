package auth

import (
	"fmt"

	"jobmarket_backend/internal/models"
	"jobmarket_backend/pkg/apperrors"
)

// Action is a named operation guarded by the gate.
type Action int

const (
	ActionListJobs Action = iota
	ActionViewJob
	ActionCreateJob
	ActionUpdateJob
	ActionDeleteJob
	ActionListOwnJobs
	ActionApply
	ActionSetApplicationStatus
	ActionWithdrawApplication
	ActionListOwnApplications
	ActionListJobApplications
	ActionSaveJob
	ActionUnsaveJob
	ActionListSavedJobs
	ActionViewSelf
)

var actionNames = map[Action]string{
	ActionListJobs:             "list jobs",
	ActionViewJob:              "view job",
	ActionCreateJob:            "create job",
	ActionUpdateJob:            "update job",
	ActionDeleteJob:            "delete job",
	ActionListOwnJobs:          "list own jobs",
	ActionApply:                "apply to job",
	ActionSetApplicationStatus: "change application status",
	ActionWithdrawApplication:  "withdraw application",
	ActionListOwnApplications:  "list own applications",
	ActionListJobApplications:  "list job applications",
	ActionSaveJob:              "save job",
	ActionUnsaveJob:            "unsave job",
	ActionListSavedJobs:        "list saved jobs",
	ActionViewSelf:             "view account",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// policy is one row of the access table. role == 0 means any authenticated role.
type policy struct {
	public         bool
	role           models.Role
	needsOwnership bool
}

var policies = map[Action]policy{
	ActionListJobs:             {public: true},
	ActionViewJob:              {public: true},
	ActionCreateJob:            {role: models.RoleEmployer},
	ActionUpdateJob:            {role: models.RoleEmployer, needsOwnership: true},
	ActionDeleteJob:            {role: models.RoleEmployer, needsOwnership: true},
	ActionListOwnJobs:          {role: models.RoleEmployer},
	ActionApply:                {role: models.RoleJobseeker},
	ActionSetApplicationStatus: {role: models.RoleEmployer, needsOwnership: true},
	ActionWithdrawApplication:  {needsOwnership: true},
	ActionListOwnApplications:  {},
	ActionListJobApplications:  {role: models.RoleEmployer, needsOwnership: true},
	ActionSaveJob:              {},
	ActionUnsaveJob:            {needsOwnership: true},
	ActionListSavedJobs:        {},
	ActionViewSelf:             {},
}

// Owner is the ownership fact for the target entity: the user id recorded
// as its owner, applicant or saver.
type Owner struct {
	UserID uint
}

func OwnedBy(userID uint) *Owner {
	return &Owner{UserID: userID}
}

// Decision is the gate's verdict.
type Decision struct {
	Allowed bool
	Reason  string
	// Unauthenticated distinguishes a missing actor from a role/ownership mismatch.
	Unauthenticated bool
}

// Err converts a denial into the matching AppError; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Unauthenticated {
		return apperrors.NewUnauthorizedError(d.Reason)
	}
	return apperrors.NewForbiddenError(d.Reason)
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide evaluates the policy table. owner may be nil for actions that do
// not require ownership; for those that do, a nil owner is a denial.
func Decide(actor Actor, action Action, owner *Owner) Decision {
	p, ok := policies[action]
	if !ok {
		return deny(fmt.Sprintf("unknown action %s", action))
	}
	if d := decideRole(actor, action, p); !d.Allowed || p.public {
		return d
	}
	if p.needsOwnership {
		if owner == nil || owner.UserID != actor.UserID {
			return deny(fmt.Sprintf("not permitted to %s on a resource you do not own", action))
		}
	}
	return allow()
}

func decideRole(actor Actor, action Action, p policy) Decision {
	if p.public {
		return allow()
	}
	if !actor.Authenticated() {
		return Decision{Reason: "authentication required", Unauthenticated: true}
	}
	if p.role.Valid() && actor.Role != p.role {
		return deny(fmt.Sprintf("only %ss may %s", p.role, action))
	}
	return allow()
}

// Authorize is Decide followed by Err.
func Authorize(actor Actor, action Action, owner *Owner) error {
	return Decide(actor, action, owner).Err()
}

// Precheck applies the authentication and role columns only. Callers use it
// before loading the entity whose ownership Authorize will later check.
func Precheck(actor Actor, action Action) error {
	p, ok := policies[action]
	if !ok {
		return deny(fmt.Sprintf("unknown action %s", action)).Err()
	}
	return decideRole(actor, action, p).Err()
}
