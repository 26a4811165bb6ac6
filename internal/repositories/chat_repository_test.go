package repositories

import (
	"context"
	"testing"
	"time"

	"directChat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupChatDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// One pooled connection, or every new conn sees its own empty :memory: db.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))
	return db
}

func seedMessage(t *testing.T, db *gorm.DB, sender, receiver uint, content string, createdAt time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
	}
	msg.CreatedAt = createdAt
	require.NoError(t, db.Create(msg).Error)
	return msg
}

func TestListActorMessagesNewestFirst(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, db, 2, 1, "first", base)
	seedMessage(t, db, 1, 2, "second", base.Add(time.Minute))
	seedMessage(t, db, 3, 1, "third", base.Add(2*time.Minute))
	// Unrelated pair, must not show up for actor 1.
	seedMessage(t, db, 2, 3, "other", base.Add(3*time.Minute))

	messages, err := repo.ListActorMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "third", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "first", messages[2].Content)
}

func TestListActorMessagesBreaksTiesById(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := seedMessage(t, db, 2, 1, "a", at)
	second := seedMessage(t, db, 2, 1, "b", at)
	require.Greater(t, second.ID, first.ID)

	messages, err := repo.ListActorMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, second.ID, messages[0].ID)
	assert.Equal(t, first.ID, messages[1].ID)
}

func TestListThreadAscendingBothDirections(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, db, 1, 2, "hello", base)
	seedMessage(t, db, 2, 1, "hi", base.Add(time.Minute))
	seedMessage(t, db, 1, 2, "how are you", base.Add(2*time.Minute))
	// Another partner, must be excluded.
	seedMessage(t, db, 1, 3, "elsewhere", base.Add(time.Second))

	messages, err := repo.ListThread(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "how are you", messages[2].Content)
}

func TestSaveMessageAssignsIdAndTimestamp(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	saved, err := repo.SaveMessage(ctx, &models.Message{SenderID: 1, ReceiverID: 2, Content: "hola"})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.IsRead)
}

func TestMarkThreadReadOnlyInboundFromPartner(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, db, 2, 1, "inbound one", base)
	seedMessage(t, db, 2, 1, "inbound two", base.Add(time.Minute))
	outbound := seedMessage(t, db, 1, 2, "outbound", base.Add(2*time.Minute))
	otherPartner := seedMessage(t, db, 3, 1, "from q", base.Add(3*time.Minute))

	affected, err := repo.MarkThreadRead(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	unread, err := repo.CountThreadUnread(ctx, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// The outbound row and the other partner's row are untouched.
	var check models.Message
	require.NoError(t, db.First(&check, outbound.ID).Error)
	assert.False(t, check.IsRead)
	// Reset so the previous row's primary key doesn't leak into this query.
	check = models.Message{}
	require.NoError(t, db.First(&check, otherPartner.ID).Error)
	assert.False(t, check.IsRead)

	// Idempotent: a second pass has nothing to flip.
	affected, err = repo.MarkThreadRead(ctx, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestGetProfilesByIDs(t *testing.T) {
	db := setupChatDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	display := "Paula"
	require.NoError(t, db.Create(&models.User{Username: "paula", DisplayName: &display, Email: "paula@example.com", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&models.User{Username: "quique", Email: "quique@example.com", PasswordHash: "x"}).Error)

	profiles, err := repo.GetProfilesByIDs(ctx, []uint{1, 2, 99})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "paula", profiles[1].Username)
	require.NotNil(t, profiles[1].DisplayName)
	assert.Equal(t, "Paula", *profiles[1].DisplayName)
	assert.Equal(t, "quique", profiles[2].Username)

	empty, err := repo.GetProfilesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
