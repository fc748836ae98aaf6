package chat

import "sync"

// PresenceEntry records that a user currently occupies a room. Entries are
// owned exclusively by the PresenceRegistry; nothing else mutates them.
type PresenceEntry struct {
	UserID      string `json:"userId"`
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName"`
}

// PresenceRegistry is the in-memory record of which users hold an open
// real-time connection and which room each occupies. It has no persistence;
// its lifetime is the process lifetime.
//
// Two views are kept: room occupancy (fed by join/leave) and a global
// online pool (fed by the userOnline/userOffline events). A user counts as
// online when present in either. Socket events arrive concurrently, so every
// operation takes the registry lock; callers must never hold it across a
// blocking call, which is guaranteed here because no method accepts one.
type PresenceRegistry struct {
	mu     sync.RWMutex
	byUser map[string]PresenceEntry
	online map[string]struct{}
}

// NewPresenceRegistry constructs an empty registry. It is meant to be
// created once at process start and injected into the gateway; there is no
// package-level instance.
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byUser: make(map[string]PresenceEntry),
		online: make(map[string]struct{}),
	}
}

// Join inserts or replaces the room entry for userID. Re-joining moves the
// user; the registry never holds two entries for the same user.
func (p *PresenceRegistry) Join(userID, roomID, displayName string) PresenceEntry {
	entry := PresenceEntry{UserID: userID, RoomID: roomID, DisplayName: displayName}
	p.mu.Lock()
	p.byUser[userID] = entry
	p.mu.Unlock()
	return entry
}

// Leave removes and returns the room entry for userID, if any.
func (p *PresenceRegistry) Leave(userID string) (PresenceEntry, bool) {
	p.mu.Lock()
	entry, ok := p.byUser[userID]
	if ok {
		delete(p.byUser, userID)
	}
	p.mu.Unlock()
	return entry, ok
}

// UsersInRoom returns the current occupants of roomID; empty if none.
func (p *PresenceRegistry) UsersInRoom(roomID string) []PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var occupants []PresenceEntry
	for _, entry := range p.byUser {
		if entry.RoomID == roomID {
			occupants = append(occupants, entry)
		}
	}
	return occupants
}

// Find returns the room entry for userID, if any.
func (p *PresenceRegistry) Find(userID string) (PresenceEntry, bool) {
	p.mu.RLock()
	entry, ok := p.byUser[userID]
	p.mu.RUnlock()
	return entry, ok
}

// IsOnline reports whether userID holds an open connection, independent of
// which room (if any) it is viewing.
func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.online[userID]; ok {
		return true
	}
	_, ok := p.byUser[userID]
	return ok
}

// SetOnline adds userID to the global online pool.
func (p *PresenceRegistry) SetOnline(userID string) {
	p.mu.Lock()
	p.online[userID] = struct{}{}
	p.mu.Unlock()
}

// SetOffline removes userID from the global online pool. Room entries are
// untouched; only an explicit leave clears those.
func (p *PresenceRegistry) SetOffline(userID string) {
	p.mu.Lock()
	delete(p.online, userID)
	p.mu.Unlock()
}

// Len returns the number of room entries currently held.
func (p *PresenceRegistry) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byUser)
}

// Reset clears all state. Test isolation only.
func (p *PresenceRegistry) Reset() {
	p.mu.Lock()
	p.byUser = make(map[string]PresenceEntry)
	p.online = make(map[string]struct{})
	p.mu.Unlock()
}
