package middlewares

const (
	ctxUserIDKey    = "auth.userID"
	ctxUsernameKey  = "auth.username"
	ctxRequestIDKey = "request_id"
)
