package service

import (
	"strings"
	"testing"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMessageService(db *gorm.DB) MessageService {
	return NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewUserRepository(db),
	)
}

func TestSendMessage(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	msg, err := svc.SendMessage(alice.ID, bob.ID, "hello bob")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, msg.SenderID)
	assert.Equal(t, bob.ID, msg.ReceiverID)
	assert.Equal(t, "hello bob", msg.Content)
	assert.False(t, msg.IsRead)
}

func TestSendMessageToSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.SendMessage(alice.ID, alice.ID, "note to self")
	assert.ErrorIs(t, err, apperr.ErrSelfMessage)

	var count int64
	require.NoError(t, db.Model(&model.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.SendMessage(alice.ID, "00000000-0000-0000-0000-000000000000", "anyone there")
	assert.ErrorIs(t, err, apperr.ErrReceiverNotFound)
}

func TestSendMessageContentBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendMessage(alice.ID, bob.ID, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidContent)

	_, err = svc.SendMessage(alice.ID, bob.ID, strings.Repeat("x", MessageContentMaxLen+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidContent)

	// The limit counts runes, not bytes
	_, err = svc.SendMessage(alice.ID, bob.ID, strings.Repeat("ü", MessageContentMaxLen))
	require.NoError(t, err)
}

func TestListMessagesMarksRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendMessage(alice.ID, bob.ID, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, bob.ID, "second")
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Reading the conversation flips the partner's messages to read,
	// oldest first
	messages, err := svc.ListMessages(bob.ID, alice.ID, 1, 50)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	for _, msg := range messages {
		assert.True(t, msg.IsRead)
	}

	count, err = svc.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListMessagesDoesNotTouchSenderSide(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendMessage(alice.ID, bob.ID, "ping")
	require.NoError(t, err)

	// The sender re-reading the thread does not mark the receiver's copy
	_, err = svc.ListMessages(alice.ID, bob.ID, 1, 50)
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListMessagesPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for _, content := range []string{"one", "two", "three"} {
		_, err := svc.SendMessage(alice.ID, bob.ID, content)
		require.NoError(t, err)
	}

	// Page 1 holds the most recent messages
	page1, err := svc.ListMessages(bob.ID, alice.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "two", page1[0].Content)
	assert.Equal(t, "three", page1[1].Content)

	page2, err := svc.ListMessages(bob.ID, alice.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "one", page2[0].Content)
}

func TestListConversations(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := svc.SendMessage(alice.ID, bob.ID, "hi bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, bob.ID, "you there?")
	require.NoError(t, err)
	_, err = svc.SendMessage(carol.ID, bob.ID, "movie night?")
	require.NoError(t, err)

	conversations, err := svc.ListConversations(bob.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	byPartner := make(map[string]model.Conversation, len(conversations))
	for _, conv := range conversations {
		byPartner[conv.Partner.Username] = conv
	}

	require.Contains(t, byPartner, "alice")
	assert.Equal(t, int64(2), byPartner["alice"].UnreadCount)
	assert.Equal(t, "you there?", byPartner["alice"].LastMessage.Content)

	require.Contains(t, byPartner, "carol")
	assert.Equal(t, int64(1), byPartner["carol"].UnreadCount)
	assert.Equal(t, "movie night?", byPartner["carol"].LastMessage.Content)

	// Replying folds both directions into the same conversation
	_, err = svc.SendMessage(bob.ID, alice.ID, "here now")
	require.NoError(t, err)

	conversations, err = svc.ListConversations(bob.ID)
	require.NoError(t, err)
	assert.Len(t, conversations, 2)
}

func TestMarkAsRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendMessage(alice.ID, bob.ID, "unread")
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(bob.ID, alice.ID))

	count, err := svc.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
