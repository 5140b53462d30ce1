package auth

// ContextKeyUserID is the gin context key set by the auth middleware and
// read back by request logging.
const ContextKeyUserID = "auth_user_id"
