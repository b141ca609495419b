package models

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxFailedAttempts is the number of failed logins after which the
// controller suspends an account.
const MaxFailedAttempts = 5

type UserAccount struct {
	Email                string `json:"email"`
	Role                 string `json:"role"` // "user", "admin"
	FailedAttempts       int    `json:"failedAttempts"`
	LastActiveUnixMillis int64  `json:"lastActiveUnixMillis"`
}

// Suspended reports whether the account is locked out by failed logins.
func (a UserAccount) Suspended() bool {
	return a.FailedAttempts >= MaxFailedAttempts
}

type UserAccountWithPass struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by login and prelogin.
type LoginResponse struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

type Password struct {
	Password string `json:"password"`
}

type APIKey struct {
	UUID              string   `json:"uuid"`
	Hash              string   `json:"hash"`
	ExpiresUnixMillis int64    `json:"expiresUnixMillis"` // 0 never expires
	Role              string   `json:"role"`
	Name              string   `json:"name"`
	Attributes        []string `json:"attributes"`
}

// APIKeyInit holds a server generated id and token for a new key. The token
// is only ever shown once.
type APIKeyInit struct {
	UUID  string `json:"uuid"`
	Token string `json:"token"`
}

type APIKeyWithToken struct {
	APIKey
	Token string `json:"token"`
}
