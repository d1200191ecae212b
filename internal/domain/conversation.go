package domain

// Conversation summarizes the message log kept for one endpoint.
type Conversation struct {
	Endpoint     Endpoint `json:"endpoint"`
	MessageCount int      `json:"message_count"`
	UnreadCount  int      `json:"unread_count"`
	HasNew       bool     `json:"has_new"`
	Watchers     int      `json:"watchers,omitempty"`
}
