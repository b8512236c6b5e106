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

func newReviewService(db *gorm.DB) ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewFilmRepository(db, nil),
		repository.NewUserRepository(db),
	)
}

func strPtr(s string) *string { return &s }

func TestCreateReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 9, strPtr("still holds up"))
	require.NoError(t, err)
	assert.Equal(t, 9, review.Rating)
	require.NotNil(t, review.Comment)
	assert.Equal(t, "still holds up", *review.Comment)

	fetched, err := svc.GetReview(review.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, fetched.Rating)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 603, "The Matrix")

	for _, rating := range []int{0, -1, 11} {
		_, err := svc.CreateReview(alice.ID, film.ID, rating, nil)
		assert.ErrorIs(t, err, apperr.ErrInvalidRating)
	}

	var count int64
	require.NoError(t, db.Model(&model.Review{}).Count(&count).Error)
	assert.Zero(t, count)

	// The bounds themselves are valid
	_, err := svc.CreateReview(alice.ID, film.ID, model.RatingMin, nil)
	require.NoError(t, err)
}

func TestCreateReviewUnknownFilm(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")

	_, err := svc.CreateReview(alice.ID, "00000000-0000-0000-0000-000000000000", 7, nil)
	assert.ErrorIs(t, err, apperr.ErrFilmNotFound)
}

func TestCreateReviewDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 603, "The Matrix")

	_, err := svc.CreateReview(alice.ID, film.ID, 8, nil)
	require.NoError(t, err)

	_, err = svc.CreateReview(alice.ID, film.ID, 6, nil)
	assert.ErrorIs(t, err, apperr.ErrAlreadyReviewed)
}

func TestUpdateReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 8, nil)
	require.NoError(t, err)

	_, err = svc.UpdateReview(review.ID, bob.ID, 3, nil)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.UpdateReview(review.ID, alice.ID, 99, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidRating)

	updated, err := svc.UpdateReview(review.ID, alice.ID, 5, strPtr("rewatch was rough"))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 8, nil)
	require.NoError(t, err)

	err = svc.DeleteReview(review.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.DeleteReview(review.ID, alice.ID))

	_, err = svc.GetReview(review.ID)
	assert.ErrorIs(t, err, apperr.ErrReviewNotFound)
}

func TestListByFilm(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 603, "The Matrix")
	other := createTestFilm(t, db, 604, "The Matrix Reloaded")

	_, err := svc.CreateReview(alice.ID, film.ID, 9, nil)
	require.NoError(t, err)
	_, err = svc.CreateReview(bob.ID, film.ID, 7, nil)
	require.NoError(t, err)
	_, err = svc.CreateReview(alice.ID, other.ID, 6, nil)
	require.NoError(t, err)

	reviews, err := svc.ListByFilm(film.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	mine, err := svc.ListByUser(alice.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestLikeReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 9, nil)
	require.NoError(t, err)

	require.NoError(t, svc.LikeReview(bob.ID, review.ID))

	// One like per user per review
	err = svc.LikeReview(bob.ID, review.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyLiked)

	fetched, err := svc.GetReview(review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.LikeCount)

	require.NoError(t, svc.UnlikeReview(bob.ID, review.ID))

	fetched, err = svc.GetReview(review.ID)
	require.NoError(t, err)
	assert.Zero(t, fetched.LikeCount)

	// Unliking without a like reports the missing row
	err = svc.UnlikeReview(bob.ID, review.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLikeMissingReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	bob := createTestUser(t, db, "bob")

	err := svc.LikeReview(bob.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperr.ErrReviewNotFound)
}

func TestAddComment(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 9, nil)
	require.NoError(t, err)

	comment, err := svc.AddComment(bob.ID, review.ID, "agreed, rewatching tonight")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, comment.UserID)

	comments, err := svc.ListComments(review.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestAddCommentContentBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 9, nil)
	require.NoError(t, err)

	_, err = svc.AddComment(alice.ID, review.ID, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidContent)

	_, err = svc.AddComment(alice.ID, review.ID, strings.Repeat("x", model.ReviewCommentMaxLen+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidContent)

	_, err = svc.AddComment(alice.ID, review.ID, strings.Repeat("x", model.ReviewCommentMaxLen))
	require.NoError(t, err)
}

func TestDeleteComment(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	film := createTestFilm(t, db, 603, "The Matrix")

	review, err := svc.CreateReview(alice.ID, film.ID, 9, nil)
	require.NoError(t, err)

	comment, err := svc.AddComment(bob.ID, review.ID, "hot take")
	require.NoError(t, err)

	err = svc.DeleteComment(comment.ID, alice.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.DeleteComment(comment.ID, bob.ID))

	comments, err := svc.ListComments(review.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
