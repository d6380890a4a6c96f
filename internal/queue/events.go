package queue

// Exchange is the topic exchange all CRM events go through.
const Exchange = "crm.events"

const (
	KeyUserRegistered = "user.registered"
	KeyUserLoggedIn   = "user.loggedin"
)

type UserRegistered struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type UserLoggedIn struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}
