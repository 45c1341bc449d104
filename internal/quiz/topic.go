package quiz

// Topic is a quiz subject. The ID doubles as the display name and is what
// the question source receives.
type Topic struct {
	ID   string `json:"id"`
	Icon string `json:"icon"`
}

var topics = []Topic{
	{ID: "Genesis", Icon: "✺"},
	{ID: "Exodus", Icon: "≋"},
	{ID: "Judges and Kings", Icon: "♛"},
	{ID: "Prophets", Icon: "☄"},
	{ID: "Psalms and Proverbs", Icon: "♪"},
	{ID: "Gospels", Icon: "✝"},
	{ID: "Acts of the Apostles", Icon: "⚓"},
	{ID: "Epistles", Icon: "✉"},
	{ID: "Revelation", Icon: "✧"},
	{ID: "Parables", Icon: "❦"},
	{ID: "Women of the Bible", Icon: "✿"},
	{ID: "Miracles", Icon: "✶"},
}

// Topics returns the topic catalogue in display order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// LookupTopic finds a topic by ID.
func LookupTopic(id string) (Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}
