package chat

import "time"

// Room is the durable record of a conversation between two users.
// It is created lazily on the first successful join between two
// mutually-known accounts and is unique per RoomID; the store enforces
// the uniqueness invariant so repeated creation attempts are safe.
type Room struct {
	RoomID      string    `db:"room_id"`
	MemberA     string    `db:"member_a"`
	MemberB     string    `db:"member_b"`
	LastMessage string    `db:"last_message"`
	RoomName    string    `db:"room_name"`
	RoomImage   string    `db:"room_image"`
	CreatedAt   time.Time `db:"created_at"`
}

// Members returns both member identities.
func (r Room) Members() [2]string { return [2]string{r.MemberA, r.MemberB} }

// HasMember tells whether userID belongs to this room.
func (r Room) HasMember(userID string) bool {
	return userID != "" && (r.MemberA == userID || r.MemberB == userID)
}
