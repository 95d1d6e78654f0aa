package cerror

const (
	MessageInternal         = "internal server error"
	MessageMalformedBody    = "malformed request body"
	MessageValidationFailed = "validation failed"
	MessageRouteNotFound    = "route not found"
	MessageNotAuthorized    = "not authorized to access this route"
	MessageForbidden        = "role is not allowed to access this route"
)
