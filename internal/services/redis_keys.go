package services

import "time"

const (
	KeySession        = "session:%s"
	KeySessionByTgID  = "tg:%s:session"
	KeyNavigation     = "session:%s:navigation"
	KeyGameConfig     = "session:%s:config:%s"
	KeyManagerContact = "session:%s:manager"
	KeyDailyCount     = "session:%s:daily:%s"
	KeyInFlight       = "session:%s:inflight:%s"
	KeyLastOutcome    = "session:%s:outcome:%s"
	KeyLocale         = "tg:%s:locale"
	KeyRateLimit      = "ratelimit:%s:%s"

	// Session-scoped state lives and dies with the app load; only the
	// locale preference persists across reloads.
	TTLSession     = 24 * time.Hour
	TTLGameConfig  = 24 * time.Hour
	TTLLastOutcome = 5 * time.Minute
	TTLInFlight    = 15 * time.Second
	TTLLocale      = 30 * 24 * time.Hour
)
