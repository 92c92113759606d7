package domain

// AttachmentRef points at an uploaded file on disk. Attachments are created at
// upload time and referenced by templates; they are never removed automatically
// when a template is edited or deleted.
type AttachmentRef struct {
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	UploadedAt   string `json:"uploadedAt"`
}

// MessageTemplate is a reusable broadcast message: text content plus zero or
// more attachment references.
type MessageTemplate struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Content     string          `json:"content"`
	Attachments []AttachmentRef `json:"attachments"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// FailedSendRecord remembers one delivery failure so the operator can retry it
// later. Removed explicitly by the operator or after a successful retry.
type FailedSendRecord struct {
	ID           string `json:"id"`
	ChatID       string `json:"chatId"`
	ChatName     string `json:"chatName"`
	TemplateID   string `json:"templateId"`
	TemplateName string `json:"templateName"`
	Timestamp    string `json:"timestamp"`
}
