package middlewares

const (
	CtxRequestID = "request_id"
	CtxEmail     = "session.email"
)
