package chat

// User mirrors the durable account record kept by the backing store.
// Phone numbers are the identity users address each other by; ID is the
// store-generated key used for status updates.
type User struct {
	ID          string `db:"id"`
	PhoneNumber string `db:"phone_number"`
	Email       string `db:"email"`
	IsOnline    bool   `db:"is_online"`
}
