package domain

// PhoneStatus is the three-valued state of a user's SMS subscription.
type PhoneStatus string

const (
	// PhoneStatusUnset means the user has no phone number on record.
	PhoneStatusUnset PhoneStatus = "unset"
	// PhoneStatusPending means a number was registered but the carrier
	// confirmation has not been acknowledged yet.
	PhoneStatusPending PhoneStatus = "pending"
	// PhoneStatusConfirmed means the number is fully subscribed.
	PhoneStatusConfirmed PhoneStatus = "confirmed"
)

// Subscription is a user's SMS subscription record. There is at most one per
// user id. The number is an opaque string; format checks are left to the
// notification provider.
type Subscription struct {
	UserID string      `json:"user_id"`
	Status PhoneStatus `json:"status"`
	Number string      `json:"phone"`
}

// PendingSubscription builds a fresh pending record for a just-registered number.
func PendingSubscription(userID, number string) *Subscription {
	return &Subscription{UserID: userID, Status: PhoneStatusPending, Number: number}
}
