package common

// RefreshTokenCookieName is the cookie used to carry the rotating refresh
// token between the server and the browser. The cookie is HTTP-only.
const RefreshTokenCookieName = "refreshToken"
