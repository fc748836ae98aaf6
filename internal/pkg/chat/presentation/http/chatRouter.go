package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/certifiedTboy/itakuroso-sub000/internal/config"
	cacheport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/cache/port"
	qport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/queue/port"
	"github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/realtime"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	"github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/persistence/repository/adapter"
	"github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/presentation/controller"
)

// Deps bundles the process-level collaborators the chat routes wire
// against. Cache and Notifier may be nil; the gateway degrades gracefully.
type Deps struct {
	Pool     *pgxpool.Pool
	Router   *realtime.Router
	Registry *chat.PresenceRegistry
	Queue    *chat.OfflineQueue
	Cache    cacheport.Cache
	Notifier qport.Client
	Cfg      config.Config
}

// RegisterRoutes constructs the repositories and use cases and binds the
// socket controller directly to its route.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	rooms := repoAdapter.NewPgRoomRepository(deps.Pool)
	users := repoAdapter.NewPgUserRepository(deps.Pool)

	joinUC := usecase.NewJoinRoomUseCase(deps.Registry, users, rooms)
	joinUC.Cache = deps.Cache
	joinUC.CacheTTL = deps.Cfg.UserCacheTTL

	sendUC := usecase.NewSendMessageUseCase(deps.Registry, deps.Queue, rooms)
	sendUC.Notifier = deps.Notifier

	socketCtl := controller.NewChatSocketController(
		deps.Router,
		deps.Queue,
		deps.Cfg,
		joinUC,
		sendUC,
		usecase.NewSetUserOnlineUseCase(deps.Registry, deps.Queue, users),
		usecase.NewSetUserOfflineUseCase(deps.Registry, users),
		usecase.NewMarkRoomReadUseCase(rooms),
		usecase.NewLeaveRoomUseCase(deps.Registry),
	)

	// GET /api/v1/chat/ws -> websocket endpoint for realtime chat
	g.GET("/chat/ws", socketCtl.Handle())
}
