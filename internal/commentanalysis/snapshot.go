package commentanalysis

import (
	"fmt"
	"time"

	"github.com/jonathan/degree-tracker/internal/schemas"
)

// Snapshot is the fixed export shape for one analysis.
type Snapshot struct {
	VideoInfo       VideoInfo       `json:"video_info"`
	AnalysisSummary AnalysisSummary `json:"analysis_summary"`
	VideoIdeas      []VideoIdea     `json:"video_ideas"`
	ExportDate      time.Time       `json:"export_date"`
}

// AnalysisSummary counts the analyzed comments and each insight group.
type AnalysisSummary struct {
	TotalCommentsAnalyzed int         `json:"total_comments_analyzed"`
	KeyInsights           KeyInsights `json:"key_insights"`
}

// KeyInsights holds the number of items in each insight group.
type KeyInsights struct {
	FAQs            int `json:"faqs"`
	PainPoints      int `json:"pain_points"`
	ContentRequests int `json:"content_requests"`
	Misconceptions  int `json:"misconceptions"`
}

// NewSnapshot builds the export for resp, stamped with now in UTC.
func NewSnapshot(resp *Response, now time.Time) Snapshot {
	ideas := make([]VideoIdea, len(resp.VideoIdeas))
	copy(ideas, resp.VideoIdeas)

	return Snapshot{
		VideoInfo: resp.VideoInfo,
		AnalysisSummary: AnalysisSummary{
			TotalCommentsAnalyzed: resp.CommentCount,
			KeyInsights: KeyInsights{
				FAQs:            len(resp.Analysis.FrequentlyAskedQuestions),
				PainPoints:      len(resp.Analysis.PainPoints),
				ContentRequests: len(resp.Analysis.ContentRequests),
				Misconceptions:  len(resp.Analysis.Misconceptions),
			},
		},
		VideoIdeas: ideas,
		ExportDate: now.UTC(),
	}
}

// Validate checks the snapshot against the snapshot schema.
func (s Snapshot) Validate() error {
	return schemas.ValidateDocument(schemas.AnalysisSnapshot, s)
}

// Filename is the download name for a snapshot exported at ExportDate.
func (s Snapshot) Filename() string {
	return fmt.Sprintf("youtube-analysis-%d.json", s.ExportDate.UnixMilli())
}
