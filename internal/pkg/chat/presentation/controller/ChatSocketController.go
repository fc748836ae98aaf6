package controller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/certifiedTboy/itakuroso-sub000/internal/config"
	"github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/realtime"
	"github.com/certifiedTboy/itakuroso-sub000/internal/metrics"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	"github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/usecase"
)

// ChatSocketController is the real-time session gateway: it owns the
// websocket endpoint, dispatches inbound events to the use cases and fans
// resulting events out to room subscribers.
type ChatSocketController struct {
	router *realtime.Router

	joinRoomUC    *usecase.JoinRoomUseCase
	sendMessageUC *usecase.SendMessageUseCase
	userOnlineUC  *usecase.SetUserOnlineUseCase
	userOfflineUC *usecase.SetUserOfflineUseCase
	markReadUC    *usecase.MarkRoomReadUseCase
	leaveRoomUC   *usecase.LeaveRoomUseCase

	queue *chat.OfflineQueue

	frameRate  rate.Limit
	frameBurst int

	inflightTimeout time.Duration

	clock statusClock
}

// NewChatSocketController wires the gateway against its collaborators. The
// presence registry and offline queue arrive through the use cases; the
// queue is also held directly for gauge updates.
func NewChatSocketController(
	router *realtime.Router,
	queue *chat.OfflineQueue,
	cfg config.Config,
	joinRoomUC *usecase.JoinRoomUseCase,
	sendMessageUC *usecase.SendMessageUseCase,
	userOnlineUC *usecase.SetUserOnlineUseCase,
	userOfflineUC *usecase.SetUserOfflineUseCase,
	markReadUC *usecase.MarkRoomReadUseCase,
	leaveRoomUC *usecase.LeaveRoomUseCase,
) *ChatSocketController {
	return &ChatSocketController{
		router:          router,
		joinRoomUC:      joinRoomUC,
		sendMessageUC:   sendMessageUC,
		userOnlineUC:    userOnlineUC,
		userOfflineUC:   userOfflineUC,
		markReadUC:      markReadUC,
		leaveRoomUC:     leaveRoomUC,
		queue:           queue,
		frameRate:       rate.Limit(cfg.FramesPerSecond),
		frameBurst:      cfg.FrameBurst,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// session is the per-connection state the gateway tracks: which user the
// socket belongs to (learned from the event stream) and which room it
// currently views. Only the connection's own read loop mutates it.
type session struct {
	conn  *realtime.Connection
	phone string
	room  string
	lim   *rate.Limiter
}

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing else to do.
			return
		}

		conn := realtime.NewConnection(ws)
		ctl.router.Attach(conn)
		metrics.WsConnections.Inc()
		defer func() {
			// A dropped socket does NOT clear presence: only explicit
			// leaveRoom/userOffline events do. Known quirk, kept until a
			// product decision on TTL eviction.
			metrics.WsConnections.Dec()
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			log.Info().Str("session", conn.ID).Msg("socket disconnected")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		sess := &session{conn: conn, lim: rate.NewLimiter(ctl.frameRate, ctl.frameBurst)}

		// Handshake ack goes to the new socket only.
		ctl.send(conn, ackFrame{Type: "connected"})
		log.Info().Str("session", conn.ID).Msg("socket connected")

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			if !sess.lim.Allow() {
				ctl.replyError(conn, "rate_limited", "too many frames")
				continue
			}

			frame, err := decodeFrame(data)
			if err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
			ctl.dispatch(ctx, sess, frame)
			cancel()
		}
	}
}

func (ctl *ChatSocketController) dispatch(ctx context.Context, sess *session, frame inboundFrame) {
	switch frame.Type {
	case "joinRoom":
		ctl.handleJoinRoom(ctx, sess, frame)
	case "message":
		ctl.handleMessage(ctx, sess, frame)
	case "typing":
		ctl.handleTyping(sess, frame)
	case "userOnline":
		ctl.handleUserOnline(ctx, sess, frame)
	case "userOffline":
		ctl.handleUserOffline(ctx, sess, frame)
	case "markMessageAsRead":
		ctl.handleMarkRead(ctx, sess, frame)
	case "leaveRoom":
		ctl.handleLeaveRoom(ctx, sess, frame)
	default:
		ctl.replyError(sess.conn, "unsupported_type", "unknown frame type")
	}
}

func (ctl *ChatSocketController) handleJoinRoom(ctx context.Context, sess *session, frame inboundFrame) {
	if frame.RoomID == "" || frame.CurrentUserID == nil || frame.UserID == nil {
		ctl.replyError(sess.conn, "bad_request", "roomId, userId and currentUserId are required")
		return
	}

	out, err := ctl.joinRoomUC.Execute(ctx, usecase.JoinRoomInput{
		RoomID:           frame.RoomID,
		CounterpartPhone: frame.UserID.PhoneNumber,
		CounterpartName:  frame.UserID.ContactName,
		UserPhone:        frame.CurrentUserID.PhoneNumber,
		UserEmail:        frame.CurrentUserID.Email,
	})
	if errors.Is(err, chat.ErrCounterpartNotFound) {
		// Expected branch: no durable room, the caller alone gets a
		// directive message.
		ctl.send(sess.conn, newInfoMessage(frame.RoomID, frame.UserID.ContactName))
		return
	}
	if err != nil {
		ctl.handleUseCaseError(sess.conn, err)
		return
	}

	sess.phone = frame.CurrentUserID.PhoneNumber
	ctl.router.BindUser(sess.phone, sess.conn)
	if sess.room != "" && sess.room != frame.RoomID {
		ctl.router.Leave(sess.room, sess.conn)
	}
	ctl.router.Join(frame.RoomID, sess.conn)
	sess.room = frame.RoomID

	log.Debug().Str("room", out.Room.RoomID).Str("user", sess.phone).Msg("joined room")
}

func (ctl *ChatSocketController) handleMessage(ctx context.Context, sess *session, frame inboundFrame) {
	if sess.room == "" {
		ctl.replyError(sess.conn, "not_in_room", "join a room before sending")
		return
	}
	roomID := frame.RoomID
	if roomID == "" {
		roomID = sess.room
	}

	out, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ChatID:     frame.ChatID,
		RoomID:     roomID,
		SenderID:   frame.SenderID,
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
		File:       frame.File,
		ReplyTo:    frame.ReplyTo,
	})
	if err != nil {
		ctl.handleUseCaseError(sess.conn, err)
		return
	}

	metrics.MessagesTotal.WithLabelValues(string(out.Status)).Inc()
	if out.Queued {
		metrics.OfflineQueueDepth.Set(float64(ctl.queue.TotalPending()))
	}

	ctl.broadcastMessage(roomID, *out.Message, out.Status)
}

func (ctl *ChatSocketController) handleTyping(sess *session, frame inboundFrame) {
	roomID := frame.RoomID
	if roomID == "" {
		roomID = sess.room
	}
	if roomID == "" {
		return
	}
	ctl.broadcast(roomID, typingFrame{
		Type:     "typing",
		RoomID:   roomID,
		SenderID: frame.SenderID,
		IsTyping: frame.IsTyping,
	})
}

func (ctl *ChatSocketController) handleUserOnline(ctx context.Context, sess *session, frame inboundFrame) {
	out, err := ctl.userOnlineUC.Execute(ctx, usecase.SetUserOnlineInput{
		UserID:      frame.DocID,
		PhoneNumber: frame.PhoneNumber,
		Email:       frame.Email,
	})
	if err != nil {
		ctl.handleUseCaseError(sess.conn, err)
		return
	}

	sess.phone = frame.PhoneNumber
	ctl.router.BindUser(sess.phone, sess.conn)

	// Replay the parked backlog in original enqueue order, each message
	// exactly once.
	for _, msg := range out.Drained {
		ctl.broadcastMessage(msg.RoomID, msg, chat.StatusDelivered)
		// A client that has not rejoined its room channel yet would miss
		// the broadcast; deliver directly in that case only, so a client
		// that already rejoined never sees the frame twice.
		if !ctl.router.InRoom(msg.RoomID, sess.conn) {
			if payload, err := encodeMessage(msg, chat.StatusDelivered, ctl.clock.current(msg.RoomID)); err == nil {
				ctl.router.NotifyUser(sess.phone, payload)
			}
		}
		metrics.OfflineDrainedTotal.Inc()
	}
	if len(out.Drained) > 0 {
		metrics.OfflineQueueDepth.Set(float64(ctl.queue.TotalPending()))
	}
}

func (ctl *ChatSocketController) handleUserOffline(ctx context.Context, sess *session, frame inboundFrame) {
	err := ctl.userOfflineUC.Execute(ctx, usecase.SetUserOfflineInput{
		UserID:      frame.DocID,
		PhoneNumber: frame.PhoneNumber,
	})
	if err != nil {
		ctl.handleUseCaseError(sess.conn, err)
	}
}

func (ctl *ChatSocketController) handleMarkRead(ctx context.Context, sess *session, frame inboundFrame) {
	roomID := frame.RoomID
	if roomID == "" {
		roomID = sess.room
	}
	if err := ctl.markReadUC.Execute(ctx, roomID); err != nil {
		ctl.handleUseCaseError(sess.conn, err)
		return
	}
	ctl.broadcast(roomID, readFrame{Type: "markMessageAsRead"})
}

func (ctl *ChatSocketController) handleLeaveRoom(ctx context.Context, sess *session, frame inboundFrame) {
	phone := sess.phone
	if frame.CurrentUserID != nil && frame.CurrentUserID.PhoneNumber != "" {
		phone = frame.CurrentUserID.PhoneNumber
	}
	if _, _, err := ctl.leaveRoomUC.Execute(ctx, phone); err != nil {
		ctl.handleUseCaseError(sess.conn, err)
		return
	}
	if sess.room != "" {
		ctl.router.Leave(sess.room, sess.conn)
		sess.room = ""
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrQueueFull):
		ctl.replyError(conn, "queue_full", "recipient backlog is full")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

// statusClock hands out a monotonically increasing version per room so
// clients can discard stale status rebroadcasts.
type statusClock struct {
	mu     sync.Mutex
	byRoom map[string]uint64
}

func (s *statusClock) next(roomID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byRoom == nil {
		s.byRoom = make(map[string]uint64)
	}
	s.byRoom[roomID]++
	return s.byRoom[roomID]
}

func (s *statusClock) current(roomID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byRoom[roomID]
}
