package apperr

import (
	"errors"
	"net/http"
)

// Error is a domain error with a machine-readable code. Handlers map the
// Status field to the HTTP response code instead of guessing from the message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// From extracts an *Error from err, or nil when err is not a domain error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Auth / users
var (
	ErrEmailTaken         = New("EMAIL_TAKEN", "email is already registered", http.StatusConflict)
	ErrUsernameTaken      = New("USERNAME_TAKEN", "username is already taken", http.StatusConflict)
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
	ErrInvalidToken       = New("INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized)
	ErrUserNotFound       = New("USER_NOT_FOUND", "user not found", http.StatusNotFound)
)

// Friendships
var (
	ErrSelfRequest      = New("SELF_REQUEST", "cannot send a friend request to yourself", http.StatusBadRequest)
	ErrAlreadyFriends   = New("ALREADY_FRIENDS", "users are already friends", http.StatusConflict)
	ErrRequestPending   = New("REQUEST_PENDING", "a friend request between these users is already pending", http.StatusConflict)
	ErrRequestNotFound  = New("REQUEST_NOT_FOUND", "friend request not found", http.StatusNotFound)
	ErrAlreadyResponded = New("ALREADY_RESPONDED", "friend request has already been responded to", http.StatusBadRequest)
	ErrForbidden        = New("FORBIDDEN", "you are not allowed to perform this action", http.StatusForbidden)
	ErrNotFound         = New("NOT_FOUND", "resource not found", http.StatusNotFound)
)

// Messaging
var (
	ErrSelfMessage      = New("SELF_MESSAGE", "cannot send a message to yourself", http.StatusBadRequest)
	ErrReceiverNotFound = New("RECEIVER_NOT_FOUND", "receiver not found", http.StatusNotFound)
)

// Films / reviews / watchlist
var (
	ErrFilmNotFound       = New("FILM_NOT_FOUND", "film not found", http.StatusNotFound)
	ErrInvalidRating      = New("INVALID_RATING", "rating must be between 1 and 10", http.StatusBadRequest)
	ErrAlreadyReviewed    = New("ALREADY_REVIEWED", "you have already reviewed this film", http.StatusConflict)
	ErrReviewNotFound     = New("REVIEW_NOT_FOUND", "review not found", http.StatusNotFound)
	ErrAlreadyLiked       = New("ALREADY_LIKED", "you have already liked this review", http.StatusConflict)
	ErrInvalidContent     = New("INVALID_CONTENT", "content is empty or exceeds the allowed length", http.StatusBadRequest)
	ErrCommentNotFound    = New("COMMENT_NOT_FOUND", "comment not found", http.StatusNotFound)
	ErrAlreadyInWatchlist = New("ALREADY_IN_WATCHLIST", "film is already in your watchlist", http.StatusConflict)
)
