package entities

import "time"

// User is a dashboard account. Password holds a bcrypt hash, never plaintext.
type User struct {
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
