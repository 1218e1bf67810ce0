package enums

import "slices"

// SubscriptionStatus tracks the state of a restaurant's plan subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial    SubscriptionStatus = "TRIAL"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	SubscriptionStatusExpired  SubscriptionStatus = "EXPIRED"
)

var subscriptionStatuses = closedSet[SubscriptionStatus]{
	label: "subscription status",
	values: []SubscriptionStatus{
		SubscriptionStatusTrial,
		SubscriptionStatusActive,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
		SubscriptionStatusExpired,
	},
}

// EntitlingSubscriptionStatuses lists the statuses whose plan grants count towards features.
var EntitlingSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusTrial,
}

func (s SubscriptionStatus) String() string { return string(s) }

func (s SubscriptionStatus) IsValid() bool { return subscriptionStatuses.contains(s) }

// Entitles reports whether a subscription in this status grants its plan's features.
func (s SubscriptionStatus) Entitles() bool {
	return slices.Contains(EntitlingSubscriptionStatuses, s)
}

func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	return subscriptionStatuses.parse(value)
}
