package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// TokenType is reported to clients alongside every issued token.
const TokenType = "Bearer"

// RoleUser is granted to every registered identity.
const RoleUser = "ROLE_USER"
