package account

import "time"

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// User is the account record exposed to callers.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Tier             Tier       `json:"tier"`
	PromptsUsedToday int        `json:"promptsUsedToday"`
	PromptsLimit     int        `json:"promptsLimit"`
	SubscriptionEnd  *time.Time `json:"subscriptionEnd"`
}

func (u User) IsPremium() bool { return u.Tier == TierPremium }

// PromptsRemaining returns how many prompts are left today. Premium users
// are unlimited and get -1.
func (u User) PromptsRemaining() int {
	if u.IsPremium() {
		return -1
	}
	if left := u.PromptsLimit - u.PromptsUsedToday; left > 0 {
		return left
	}
	return 0
}

// record is the persisted form; the hash never leaves the package.
type record struct {
	User
	PasswordHash string `json:"passwordHash,omitempty"`
}
