package lecture

// Section is one titled block of a lecture body.
type Section struct {
	Heading  string `json:"heading"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Script is a generated lecture. It is treated as immutable once produced.
type Script struct {
	Title        string    `json:"title"`
	Introduction string    `json:"introduction"`
	Sections     []Section `json:"sections"`
	Conclusion   string    `json:"conclusion"`
}

// Request asks the lecture flow for a script on a topic.
type Request struct {
	Topic                 string `json:"topic"`
	TargetDurationMinutes int    `json:"targetDurationMinutes"`
}
