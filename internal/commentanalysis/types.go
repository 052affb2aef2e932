package commentanalysis

// Response is the analysis endpoint's reply for one video.
type Response struct {
	VideoInfo         VideoInfo         `json:"video_info"`
	CommentCount      int               `json:"comment_count"`
	Analysis          Analysis          `json:"analysis"`
	VideoIdeas        []VideoIdea       `json:"video_ideas"`
	EngagementMetrics EngagementMetrics `json:"engagement_metrics"`
}

// VideoInfo describes the analyzed video.
type VideoInfo struct {
	VideoID      string `json:"video_id,omitempty"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title,omitempty"`
	ViewCount    int64  `json:"view_count,omitempty"`
	LikeCount    int64  `json:"like_count,omitempty"`
	CommentCount int64  `json:"comment_count,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
}

// Analysis groups the insights drawn from the comments.
type Analysis struct {
	FrequentlyAskedQuestions []FAQ                     `json:"frequently_asked_questions"`
	PainPoints               []PainPoint               `json:"pain_points"`
	ContentRequests          []ContentRequest          `json:"content_requests"`
	EmotionalSentiment       map[string]SentimentShare `json:"emotional_sentiment"`
	LearningTopics           []LearningTopic           `json:"learning_topics"`
	Misconceptions           []Misconception           `json:"misconceptions"`
}

// FAQ is a question viewers keep asking.
type FAQ struct {
	Question        string   `json:"question"`
	Frequency       int      `json:"frequency"`
	ExampleComments []string `json:"example_comments,omitempty"`
}

// PainPoint is a problem viewers report.
type PainPoint struct {
	Issue           string   `json:"issue"`
	Severity        string   `json:"severity"`
	ExampleComments []string `json:"example_comments,omitempty"`
}

// ContentRequest is a topic viewers ask to see covered.
type ContentRequest struct {
	Request         string   `json:"request"`
	InterestLevel   string   `json:"interest_level"`
	ExampleComments []string `json:"example_comments,omitempty"`
}

// LearningTopic is a subject viewers want to learn.
type LearningTopic struct {
	Topic           string   `json:"topic"`
	Demand          string   `json:"demand"`
	ExampleComments []string `json:"example_comments,omitempty"`
}

// Misconception is a misunderstanding that shows up in the comments.
type Misconception struct {
	Misconception       string   `json:"misconception"`
	ClarificationNeeded string   `json:"clarification_needed"`
	ExampleComments     []string `json:"example_comments,omitempty"`
}

// SentimentShare is the share of comments carrying one emotion
// (frustrated, excited, confused, satisfied).
type SentimentShare struct {
	Percentage float64  `json:"percentage"`
	Examples   []string `json:"examples,omitempty"`
}

// VideoIdea is a suggested follow-up video.
type VideoIdea struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	EstimatedInterest string `json:"estimated_interest"`
	Reasoning         string `json:"reasoning"`
}

// EngagementMetrics summarizes comment activity. It is empty when the video
// had no comments.
type EngagementMetrics struct {
	TotalLikesOnComments int     `json:"total_likes_on_comments,omitempty"`
	TotalReplies         int     `json:"total_replies,omitempty"`
	AverageCommentLength float64 `json:"average_comment_length,omitempty"`
	EngagementQuality    string  `json:"engagement_quality,omitempty"`
}
