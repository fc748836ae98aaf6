package realtime

import "sync"

// Router tracks live connections, the user each one belongs to, and the
// room channels they subscribe to. It is the fan-out half of the gateway:
// presence decisions live elsewhere, the Router only moves bytes.
//
// A user's identity is learned from the event stream (joinRoom/userOnline),
// not at upgrade time, so attachment and user binding are separate steps.
type Router struct {
	mu          sync.RWMutex
	conns       map[string]*Connection            // connID -> connection
	userConn    map[string]string                 // userID -> connID
	rooms       map[string]map[string]*Connection // roomID -> connID -> connection
	memberships map[string]map[string]struct{}    // connID -> set of roomIDs
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		conns:       make(map[string]*Connection),
		userConn:    make(map[string]string),
		rooms:       make(map[string]map[string]*Connection),
		memberships: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection and starts its write pump.
func (r *Router) Attach(conn *Connection) {
	r.mu.Lock()
	r.conns[conn.ID] = conn
	r.memberships[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()

	conn.Start()
}

// BindUser associates userID with conn for direct notification. If another
// connection already holds the binding it is closed after the swap, keeping
// one active socket per user.
func (r *Router) BindUser(userID string, conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if prevID, ok := r.userConn[userID]; ok && prevID != conn.ID {
		if prev := r.conns[prevID]; prev != nil {
			previous = prev
			r.detachLocked(prevID)
		}
	}
	r.userConn[userID] = conn.ID
	r.mu.Unlock()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection and all its room subscriptions.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes conn to the room channel, creating it on first use.
func (r *Router) Join(roomID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, tracked := r.conns[conn.ID]; !tracked {
		return
	}
	room := r.rooms[roomID]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[roomID] = room
	}
	room[conn.ID] = conn
	r.memberships[conn.ID][roomID] = struct{}{}
}

// Leave unsubscribes conn from the room channel.
func (r *Router) Leave(roomID string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(roomID, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every subscriber of the room channel and
// reports how many sends succeeded. Ordering is guaranteed per sender: a
// single goroutine's broadcasts reach each subscriber in call order.
func (r *Router) Broadcast(roomID string, payload []byte) int {
	r.mu.RLock()
	room := r.rooms[roomID]
	members := make([]*Connection, 0, len(room))
	for _, conn := range room {
		members = append(members, conn)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, conn := range members {
		if conn.Send(payload) == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to the connection bound to userID, if any.
func (r *Router) NotifyUser(userID string, payload []byte) bool {
	r.mu.RLock()
	connID, ok := r.userConn[userID]
	conn := r.conns[connID]
	r.mu.RUnlock()
	if !ok || conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// InRoom reports whether conn is subscribed to the room channel.
func (r *Router) InRoom(roomID string, conn *Connection) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID][conn.ID]
	return ok
}

// Online reports the number of subscribers on a room channel.
func (r *Router) Online(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Close terminates every tracked connection and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	r.conns = make(map[string]*Connection)
	r.userConn = make(map[string]string)
	r.rooms = make(map[string]map[string]*Connection)
	r.memberships = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(connID string) {
	if _, ok := r.conns[connID]; !ok {
		return
	}
	delete(r.conns, connID)

	for userID, boundID := range r.userConn {
		if boundID == connID {
			delete(r.userConn, userID)
		}
	}
	for roomID := range r.memberships[connID] {
		r.leaveLocked(roomID, connID)
	}
	delete(r.memberships, connID)
}

func (r *Router) leaveLocked(roomID, connID string) {
	room := r.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
	if membership, ok := r.memberships[connID]; ok {
		delete(membership, roomID)
	}
}
