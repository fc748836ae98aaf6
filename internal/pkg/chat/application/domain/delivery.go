package chat

// Resolution is the outcome of classifying an outgoing message against
// current presence state.
type Resolution struct {
	Status      DeliveryStatus
	ShouldQueue bool
}

// ResolveDelivery decides, purely from presence, whether a message for
// recipientID in roomID can be handed over now or must be parked:
//
//  1. recipient among the room's occupants -> delivered
//  2. recipient connected but viewing elsewhere -> delivered
//  3. recipient fully disconnected -> sent, queue it
//
// "delivered" is granted optimistically to any connected client regardless
// of which screen it is viewing, mirroring push-style delivery; only a fully
// disconnected client is queued. This function never yields "read" — that
// status exists solely as a response to an explicit read receipt.
func ResolveDelivery(recipientID, roomID string, reg *PresenceRegistry) Resolution {
	for _, occupant := range reg.UsersInRoom(roomID) {
		if occupant.UserID == recipientID {
			return Resolution{Status: StatusDelivered}
		}
	}
	if reg.IsOnline(recipientID) {
		return Resolution{Status: StatusDelivered}
	}
	return Resolution{Status: StatusSent, ShouldQueue: true}
}
