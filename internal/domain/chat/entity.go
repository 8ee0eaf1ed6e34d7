package chat

import "time"

// Chat is a titled conversation holding its messages in insertion order.
type Chat struct {
	ID        int64
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is unique within its chat only.
type Message struct {
	ID        int64
	ChatID    int64
	Sender    string
	Text      string
	Timestamp int64
	Images    []Image
}

// Image is an attachment of a message, ordered by Position.
type Image struct {
	Position int
	URL      string
}

// NewMessage carries the caller-supplied fields of a message to append.
type NewMessage struct {
	Sender    string
	Text      string
	Timestamp int64
	ImageURLs []string
}

// BuildImages assigns display positions in the given order.
func BuildImages(urls []string) []Image {
	if len(urls) == 0 {
		return nil
	}
	images := make([]Image, len(urls))
	for i, u := range urls {
		images[i] = Image{Position: i, URL: u}
	}
	return images
}

// Clone returns a deep copy so callers cannot reach store-owned slices.
func (c Chat) Clone() Chat {
	out := c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		for i, m := range c.Messages {
			out.Messages[i] = m.Clone()
		}
	}
	return out
}

func (m Message) Clone() Message {
	out := m
	if m.Images != nil {
		out.Images = append([]Image(nil), m.Images...)
	}
	return out
}
