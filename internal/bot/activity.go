package bot

// Attachment layouts for multi-card replies.
const (
	LayoutList     = "list"
	LayoutCarousel = "carousel"
)

// Attachment content types understood by channel renderers.
const (
	ContentTypeAdaptiveCard  = "application/vnd.microsoft.card.adaptive"
	ContentTypeThumbnailCard = "application/vnd.microsoft.card.thumbnail"
)

// Attachment carries one rendered card.
type Attachment struct {
	ContentType string      `json:"contentType"`
	Content     interface{} `json:"content"`
}

// Activity is a single message exchanged with the user. The engine consumes
// inbound activities as plain text and produces outbound ones; rendering is
// the channel's concern.
type Activity struct {
	Type             string       `json:"type"`
	Conversation     string       `json:"conversation,omitempty"`
	Text             string       `json:"text,omitempty"`
	AttachmentLayout string       `json:"attachmentLayout,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
}

// NewMessage builds a plain text activity.
func NewMessage(text string) Activity {
	return Activity{Type: "message", Text: text}
}

// NewCarousel builds an activity carrying one card per attachment, laid out
// as a horizontally scrollable carousel.
func NewCarousel(attachments []Attachment) Activity {
	return Activity{
		Type:             "message",
		AttachmentLayout: LayoutCarousel,
		Attachments:      attachments,
	}
}

// NewCardMessage builds an activity with a single attachment.
func NewCardMessage(attachment Attachment) Activity {
	return Activity{
		Type:        "message",
		Attachments: []Attachment{attachment},
	}
}
