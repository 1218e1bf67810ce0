package enums

// PlanStatus marks whether a plan can be assigned to new subscriptions.
// HIDDEN plans keep serving existing subscribers.
type PlanStatus string

const (
	PlanStatusActive PlanStatus = "ACTIVE"
	PlanStatusHidden PlanStatus = "HIDDEN"
)

var planStatuses = closedSet[PlanStatus]{label: "plan status", values: []PlanStatus{PlanStatusActive, PlanStatusHidden}}

func (p PlanStatus) String() string { return string(p) }

func (p PlanStatus) IsValid() bool { return planStatuses.contains(p) }

// Assignable reports whether new subscriptions may pick this plan.
func (p PlanStatus) Assignable() bool { return p == PlanStatusActive }

func ParsePlanStatus(value string) (PlanStatus, error) { return planStatuses.parse(value) }
