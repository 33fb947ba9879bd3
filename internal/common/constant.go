package common

// SessionCookieName is the cookie carrying the login session handle.
const SessionCookieName = "anniv_session"

// ProtocolVersion is reported by the site info endpoint.
const ProtocolVersion = "1"
