package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody     = Error("invalid request body")
	ErrUserAlreadyExists      = Error("user already exists")
	ErrUserNotFound           = Error("user not found")
	ErrWrongPassword          = Error("wrong password")
	ErrInvalidToken           = Error("invalid token")
	ErrInvalidEmail           = Error("invalid email")
	ErrInvalidPassword        = Error("invalid password")
	ErrInvalidUser            = Error("invalid user")
	ErrInvalidUsername        = Error("username is empty or too short")
	ErrInvalidRequest         = Error("invalid request")
	ErrInvalidPageOrSize      = Error("invalid page or size")
	ErrUnauthorized           = Error("unauthorized")
	ErrAuthenticationRequired = Error("authentication required")
	ErrEmptyMessageContent    = Error("message content is empty")
	ErrInvalidPartnerId       = Error("invalid partner id")
	ErrCannotMessageSelf      = Error("cannot send a message to yourself")
	ErrStoreUnavailable       = Error("message store unavailable")
	ErrSessionClosed          = Error("chat session is closed")
	ErrInvalidFile            = Error("invalid file")
)
