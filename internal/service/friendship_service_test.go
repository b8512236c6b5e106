package service

import (
	"testing"

	"cineconnect/internal/apperr"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFriendshipService(db *gorm.DB) FriendshipService {
	return NewFriendshipService(
		repository.NewFriendshipRepository(db, nil),
		repository.NewUserRepository(db),
		nil,
	)
}

func TestSendRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	friendship, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipStatusPending, friendship.Status)
	assert.Equal(t, alice.ID, friendship.SenderID)
	assert.Equal(t, bob.ID, friendship.ReceiverID)
}

func TestSendRequestByUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	friendship, err := svc.SendRequest(alice.ID, "", "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, friendship.ReceiverID)
}

func TestSendRequestToSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.SendRequest(alice.ID, alice.ID, "")
	assert.ErrorIs(t, err, apperr.ErrSelfRequest)

	// Self-addressing by username resolves to the same user
	_, err = svc.SendRequest(alice.ID, "", "alice")
	assert.ErrorIs(t, err, apperr.ErrSelfRequest)
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.SendRequest(alice.ID, "00000000-0000-0000-0000-000000000000", "")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestSendRequestDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	_, err = svc.SendRequest(alice.ID, bob.ID, "")
	assert.ErrorIs(t, err, apperr.ErrRequestPending)

	// The reverse direction hits the same pair row
	_, err = svc.SendRequest(bob.ID, alice.ID, "")
	assert.ErrorIs(t, err, apperr.ErrRequestPending)
}

func TestRespondToRequestAccept(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	friendship, err := svc.RespondToRequest(request.ID, bob.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipStatusAccepted, friendship.Status)

	// Both sides now see each other as friends
	for _, u := range []*model.User{alice, bob} {
		friends, err := svc.ListFriends(u.ID)
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, friendship.ID, friends[0].FriendshipID)
		assert.Equal(t, friendship.UpdatedAt.Unix(), friends[0].Since.Unix())
	}

	// A new request on an accepted pair is rejected
	_, err = svc.SendRequest(alice.ID, bob.ID, "")
	assert.ErrorIs(t, err, apperr.ErrAlreadyFriends)
}

func TestRespondToRequestOnlyReceiver(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	// The sender cannot accept their own request
	_, err = svc.RespondToRequest(request.ID, alice.ID, true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Neither can a third party
	_, err = svc.RespondToRequest(request.ID, carol.ID, true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestRespondToRequestTwice(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	_, err = svc.RespondToRequest(request.ID, bob.ID, true)
	require.NoError(t, err)

	_, err = svc.RespondToRequest(request.ID, bob.ID, false)
	assert.ErrorIs(t, err, apperr.ErrAlreadyResponded)
}

func TestRespondToRequestMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	bob := createTestUser(t, db, "bob")

	_, err := svc.RespondToRequest("00000000-0000-0000-0000-000000000000", bob.ID, true)
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
}

func TestRejectedPairCanRetry(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	_, err = svc.RespondToRequest(request.ID, bob.ID, false)
	require.NoError(t, err)

	// A fresh request replaces the rejected row
	retried, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)
	assert.NotEqual(t, request.ID, retried.ID)
	assert.Equal(t, model.FriendshipStatusPending, retried.Status)

	var count int64
	require.NoError(t, db.Model(&model.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemoveFriend(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)
	_, err = svc.RespondToRequest(request.ID, bob.ID, true)
	require.NoError(t, err)

	// An outsider cannot remove the relationship
	err = svc.RemoveFriend(request.ID, carol.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.RemoveFriend(request.ID, alice.ID))

	friends, err := svc.ListFriends(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// Removing twice reports the missing row
	err = svc.RemoveFriend(request.ID, alice.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveFriendCancelsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	// The sender withdraws a still-pending request
	require.NoError(t, svc.RemoveFriend(request.ID, alice.ID))

	status, err := svc.GetStatus(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", status)
}

func TestListPendingRequests(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := svc.SendRequest(alice.ID, carol.ID, "")
	require.NoError(t, err)
	_, err = svc.SendRequest(bob.ID, carol.ID, "")
	require.NoError(t, err)

	requests, err := svc.ListPendingRequests(carol.ID)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	senders := []string{requests[0].Sender.Username, requests[1].Sender.Username}
	assert.Contains(t, senders, "alice")
	assert.Contains(t, senders, "bob")

	// The senders have no incoming requests
	requests, err = svc.ListPendingRequests(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestGetStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendshipService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	status, err := svc.GetStatus(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", status)

	request, err := svc.SendRequest(alice.ID, bob.ID, "")
	require.NoError(t, err)

	// The pair is unordered, both directions report the same status
	status, err = svc.GetStatus(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipStatusPending, status)

	_, err = svc.RespondToRequest(request.ID, bob.ID, true)
	require.NoError(t, err)

	status, err = svc.GetStatus(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipStatusAccepted, status)
}
