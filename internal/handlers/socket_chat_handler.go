package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"directChat/internal/enums"
	"directChat/internal/errs"
	"directChat/internal/models"
	redisModels "directChat/internal/models/redis"
	socketModels "directChat/internal/models/socket"
	"directChat/internal/msgs"
	"directChat/internal/services"
	"directChat/internal/utils"
	"directChat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// sessionClient pairs one actor's websocket connection with their chat
// session. Writes are serialized because both the read loop and the redis
// fan-in goroutine push frames.
type sessionClient struct {
	conn    *websocket.Conn
	session *services.ChatSession
	writeMu sync.Mutex
}

func (c *sessionClient) writeEvent(event string, payload any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(map[string]any{"event": event, "payload": payload}); err != nil {
		logger.Warn("error writing socket event", zap.String("event", event), zap.Error(err))
	}
}

type SocketChatHandler struct {
	mu          sync.Mutex
	ctx         context.Context
	redis       *redis.Client
	upgrader    websocket.Upgrader
	chatService *services.ChatService
	clients     map[uint]*sessionClient
}

func NewSocketChatHandler(redis *redis.Client, ctx context.Context, chatService *services.ChatService) *SocketChatHandler {
	return &SocketChatHandler{
		ctx:         ctx,
		redis:       redis,
		chatService: chatService,
		clients:     make(map[uint]*sessionClient),
	}
}

func (sch *SocketChatHandler) StartSocket() {
	sch.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	go sch.HandleRedisMessages()
}

func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	jwtToken := ctx.Request.Header.Get("Authorization")
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}
	jwtToken = strings.TrimPrefix(jwtToken, "Bearer ")
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrAuthenticationRequired},
		})
		return
	}

	userInfo, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
	if err != nil || userInfo.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	sch.HandleConnections(ctx, userInfo)
}

func (sch *SocketChatHandler) HandleConnections(ctx *gin.Context, userInfo *models.Claims) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn("error closing connection", zap.Error(err))
		}
	}()

	client := sch.register(userInfo.ID, ws)

	// Initial summaries so the client has a conversation list right away.
	client.session.RefreshConversations(sch.ctx)

	sch.readLoop(client, userInfo.ID)
}

// register installs a fresh session for the actor. Any previous session for
// the same actor is closed before the new one becomes reachable, so the old
// connection can never see frames meant for the new one.
func (sch *SocketChatHandler) register(userId uint, ws *websocket.Conn) *sessionClient {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if old, ok := sch.clients[userId]; ok {
		old.session.Close()
		_ = old.conn.Close()
		delete(sch.clients, userId)
	}
	client := &sessionClient{conn: ws}
	client.session = services.NewChatSession(userId, sch.chatService, client.writeEvent)
	sch.clients[userId] = client
	return client
}

// unregister tears the session down synchronously with the disconnect.
func (sch *SocketChatHandler) unregister(userId uint, client *sessionClient) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if current, ok := sch.clients[userId]; ok && current == client {
		delete(sch.clients, userId)
	}
	client.session.Close()
}

func (sch *SocketChatHandler) readLoop(client *sessionClient, userId uint) {
	defer sch.unregister(userId, client)
	for {
		var event socketModels.SocketEvent
		if err := client.conn.ReadJSON(&event); err != nil {
			logger.Info("socket closed", zap.Uint("user_id", userId), zap.Error(err))
			return
		}

		switch event.Event {
		case enums.SOCKET_EVENT_SEND_MESSAGE:
			if errs := sch.handleSendMessageEvent(client, userId, event.Payload); len(errs) > 0 {
				client.writeEvent("error", models.Response{
					Success: false,
					Message: msgs.MsgOperationFailed,
					Errors:  errs,
				})
			}
		case enums.SOCKET_EVENT_OPEN_THREAD:
			if errs := sch.handleOpenThreadEvent(client, event.Payload); len(errs) > 0 {
				client.writeEvent("error", models.Response{
					Success: false,
					Message: msgs.MsgOperationFailed,
					Errors:  errs,
				})
			}
		case enums.SOCKET_EVENT_REFRESH:
			client.session.RefreshConversations(sch.ctx)
		default:
			logger.Warn("unknown socket event", zap.String("event", event.Event))
		}
	}
}

func (sch *SocketChatHandler) handleSendMessageEvent(client *sessionClient, userId uint, payload json.RawMessage) []error {
	var p socketModels.SendMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return []error{errs.ErrInvalidRequest}
	}

	saved, sendErrs := sch.chatService.SendMessage(sch.ctx, userId, p.ReceiverID, p.Content)
	if len(sendErrs) > 0 {
		return sendErrs
	}

	// The confirmed row lands in the sender's own thread here; the receiver
	// gets it through the redis fan-in.
	client.session.AppendSent(saved)
	client.writeEvent(enums.SOCKET_EVENT_MESSAGE_CREATED, saved)
	return nil
}

func (sch *SocketChatHandler) handleOpenThreadEvent(client *sessionClient, payload json.RawMessage) []error {
	var p socketModels.OpenThreadPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return []error{errs.ErrInvalidRequest}
	}
	// The session pushes the loaded thread through its sink.
	if _, openErrs := client.session.OpenThread(sch.ctx, p.PartnerID); len(openErrs) > 0 {
		return openErrs
	}
	return nil
}

// HandleRedisMessages is the long-lived subscriber that routes insert
// events to the receiver's session, if one is connected here.
func (sch *SocketChatHandler) HandleRedisMessages() {
	ch := sch.SubscribeToChannel(sch.redis, redisModels.REDIS_CHANNEL_MESSAGES)
	for msg := range ch {
		var event redisModels.RedisReceivedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			logger.Warn("error unmarshalling redis event", zap.Error(err))
			continue
		}
		if event.Event != enums.SOCKET_EVENT_MESSAGE_CREATED {
			continue
		}

		var message models.Message
		if err := json.Unmarshal(event.Payload, &message); err != nil {
			logger.Warn("error unmarshalling message payload", zap.Error(err))
			continue
		}

		sch.mu.Lock()
		client, ok := sch.clients[event.ReceiverID]
		sch.mu.Unlock()
		if !ok {
			continue
		}
		client.session.HandleIncoming(sch.ctx, &message)
	}
}

func (sch *SocketChatHandler) SubscribeToChannel(redis *redis.Client, channel string) <-chan *redis.Message {
	pubsub := redis.Subscribe(sch.ctx, channel)
	if _, err := pubsub.Receive(sch.ctx); err != nil {
		logger.Fatal("could not subscribe to channel", zap.String("channel", channel), zap.Error(err))
	}
	return pubsub.Channel()
}

// Shutdown closes every live session and connection.
func (sch *SocketChatHandler) Shutdown() {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	for userId, client := range sch.clients {
		client.session.Close()
		_ = client.conn.Close()
		delete(sch.clients, userId)
	}
}
