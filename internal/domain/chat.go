package domain

// Login status values held by the session store and pushed to clients.
const (
	StatusWaiting      = "waiting"
	StatusGeneratingQR = "generating_qr"
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusLoggedOut    = "logged_out"
)

// Recipient kinds.
const (
	ChatKindUser  = "user"
	ChatKindGroup = "group"
)

// ChatEntity is a normalized broadcast recipient: one friend or one group.
// Entities are immutable once built; the roster is replaced wholesale on sync.
type ChatEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Avatar      string `json:"avatar"`
	MemberCount int    `json:"memberCount,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// StatusEvent is pushed to connected browsers over the event channel while a
// login flow is in progress.
type StatusEvent struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	QRUrl    string `json:"qrUrl,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
