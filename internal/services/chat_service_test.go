package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"directChat/internal/errs"
	"directChat/internal/models"
	"directChat/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type captureNotifier struct {
	mu       sync.Mutex
	notified []*models.Message
}

func (c *captureNotifier) NotifyMessageCreated(_ context.Context, message *models.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notified = append(c.notified, message)
	return nil
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notified)
}

func setupChatService(t *testing.T) (*ChatService, *gorm.DB, *captureNotifier) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// One pooled connection, or every new conn sees its own empty :memory: db.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))

	notifier := &captureNotifier{}
	svc := NewChatService(repositories.NewChatRepository(db), notifier)
	return svc, db, notifier
}

func seedUsers(t *testing.T, db *gorm.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		require.NoError(t, db.Create(&models.User{
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: "x",
		}).Error)
	}
}

func seedMessageAt(t *testing.T, db *gorm.DB, sender, receiver uint, content string, createdAt time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{SenderID: sender, ReceiverID: receiver, Content: content}
	msg.CreatedAt = createdAt
	require.NoError(t, db.Create(msg).Error)
	return msg
}

// Actor 1 has two unread inbound messages from partner 2 (t1 < t2) and one
// from partner 3 (t3, latest). Expected: order [3, 2], unread 2 for partner
// 2 and 1 for partner 3. Opening partner 2's thread zeroes its count and
// changes nothing else.
func TestGetConversationsOrderAndUnread(t *testing.T) {
	svc, db, _ := setupChatService(t)
	ctx := context.Background()
	seedUsers(t, db, "ulises", "paula", "quique")

	t1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessageAt(t, db, 2, 1, "uno", t1)
	seedMessageAt(t, db, 2, 1, "dos", t1.Add(time.Minute))
	seedMessageAt(t, db, 3, 1, "tres", t1.Add(2*time.Minute))

	conversations, getErrs := svc.GetConversations(ctx, 1)
	require.Empty(t, getErrs)
	require.Len(t, conversations, 2)

	assert.Equal(t, uint(3), conversations[0].PartnerID)
	assert.Equal(t, "tres", conversations[0].LastMessage)
	assert.Equal(t, 1, conversations[0].UnreadCount)
	assert.Equal(t, "quique", conversations[0].PartnerProfile.Username)

	assert.Equal(t, uint(2), conversations[1].PartnerID)
	assert.Equal(t, "dos", conversations[1].LastMessage)
	assert.Equal(t, 2, conversations[1].UnreadCount)
	assert.Equal(t, "paula", conversations[1].PartnerProfile.Username)

	_, threadErrs := svc.GetThread(ctx, 1, 2)
	require.Empty(t, threadErrs)

	conversations, getErrs = svc.GetConversations(ctx, 1)
	require.Empty(t, getErrs)
	require.Len(t, conversations, 2)
	assert.Equal(t, uint(3), conversations[0].PartnerID)
	assert.Equal(t, 1, conversations[0].UnreadCount)
	assert.Equal(t, uint(2), conversations[1].PartnerID)
	assert.Equal(t, 0, conversations[1].UnreadCount)
}

func TestGetConversationsWithoutActorIsEmpty(t *testing.T) {
	svc, _, _ := setupChatService(t)

	conversations, getErrs := svc.GetConversations(context.Background(), 0)
	assert.Empty(t, getErrs)
	assert.Empty(t, conversations)
}

func TestGetConversationsUnknownProfileFallback(t *testing.T) {
	svc, db, _ := setupChatService(t)
	ctx := context.Background()

	// Partner 7 has no profile row.
	seedMessageAt(t, db, 7, 1, "hola", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	conversations, getErrs := svc.GetConversations(ctx, 1)
	require.Empty(t, getErrs)
	require.Len(t, conversations, 1)
	assert.Equal(t, "unknown", conversations[0].PartnerProfile.Username)
}

func TestGetThreadAscendingAndMarksRead(t *testing.T) {
	svc, db, _ := setupChatService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessageAt(t, db, 1, 2, "hello", base)
	seedMessageAt(t, db, 2, 1, "hi", base.Add(time.Minute))
	seedMessageAt(t, db, 2, 1, "still there?", base.Add(2*time.Minute))

	messages, threadErrs := svc.GetThread(ctx, 1, 2)
	require.Empty(t, threadErrs)
	require.Len(t, messages, 3)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}

	unread, err := svc.CountThreadUnread(ctx, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestGetThreadRequiresActorAndPartner(t *testing.T) {
	svc, _, _ := setupChatService(t)
	ctx := context.Background()

	_, threadErrs := svc.GetThread(ctx, 0, 2)
	require.Len(t, threadErrs, 1)
	assert.Equal(t, errs.ErrAuthenticationRequired, threadErrs[0])

	_, threadErrs = svc.GetThread(ctx, 1, 0)
	require.Len(t, threadErrs, 1)
	assert.Equal(t, errs.ErrInvalidPartnerId, threadErrs[0])
}

func TestSendMessageValidation(t *testing.T) {
	svc, db, notifier := setupChatService(t)
	ctx := context.Background()

	_, sendErrs := svc.SendMessage(ctx, 0, 2, "hola")
	require.Len(t, sendErrs, 1)
	assert.Equal(t, errs.ErrAuthenticationRequired, sendErrs[0])

	_, sendErrs = svc.SendMessage(ctx, 1, 1, "hola")
	require.Len(t, sendErrs, 1)
	assert.Equal(t, errs.ErrCannotMessageSelf, sendErrs[0])

	// Whitespace-only content never reaches the store.
	_, sendErrs = svc.SendMessage(ctx, 1, 2, "   \t\n")
	require.Len(t, sendErrs, 1)
	assert.Equal(t, errs.ErrEmptyMessageContent, sendErrs[0])

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, notifier.count())
}

func TestSendMessageReturnsStoredRow(t *testing.T) {
	svc, db, notifier := setupChatService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessageAt(t, db, 2, 1, "antes", base)

	saved, sendErrs := svc.SendMessage(ctx, 1, 2, "hola")
	require.Empty(t, sendErrs)
	require.NotNil(t, saved)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "hola", saved.Content)
	assert.False(t, saved.IsRead)
	assert.Equal(t, 1, notifier.count())

	messages, threadErrs := svc.GetThread(ctx, 1, 2)
	require.Empty(t, threadErrs)
	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, saved.ID, last.ID)
	assert.Equal(t, "hola", last.Content)
}

func TestSendMessageTrimsContent(t *testing.T) {
	svc, _, _ := setupChatService(t)

	saved, sendErrs := svc.SendMessage(context.Background(), 1, 2, "  hola  ")
	require.Empty(t, sendErrs)
	assert.Equal(t, "hola", saved.Content)
}
