// Package user defines the user record stored in the users collection
// and returned by the users API.
package user

// User represents a registered user.
// Password always holds the bcrypt digest, never the plaintext:
// the repository hashes the supplied password before the record
// is built.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string `json:"id"`

	Username string `json:"username"`

	// Email is the secondary lookup key. Uniqueness is enforced
	// at registration only.
	Email string `json:"email"`

	Password string `json:"password"`
}
