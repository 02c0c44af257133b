package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Newest bool      // order by sequence descending
}

// EventMeta is shared by every stored event.
type EventMeta struct {
	Sequence  int64
	Timestamp time.Time
}

// ViewEventData records time spent on one video.
type ViewEventData struct {
	SessionID  string
	VideoIndex int
	Title      string
	Source     string
	Duration   time.Duration
	Speed      float64
	Completed  bool
}

// ViewEvent is a stored ViewEventData.
type ViewEvent struct {
	EventMeta
	ViewEventData
}

// QuizEventData records one checked quiz answer.
type QuizEventData struct {
	QuestionID string
	Answer     string
	Correct    bool
}

// QuizEvent is a stored QuizEventData.
type QuizEvent struct {
	EventMeta
	QuizEventData
}

// ChatEventData records one chat message.
type ChatEventData struct {
	ConversationID string
	Role           string // "user" or "assistant"
	Content        string
	Origin         string // "rules" or "llm"; empty for user messages
}

// ChatEvent is a stored ChatEventData.
type ChatEvent struct {
	EventMeta
	ChatEventData
}

// UploadEventData records a processed upload.
type UploadEventData struct {
	FileName      string
	SelectedPages int
	TotalPages    int
}

// UploadEvent is a stored UploadEventData.
type UploadEvent struct {
	EventMeta
	UploadEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	EventMeta
	LLMRequestEventData
}

// Summary holds lifetime totals across all event tables.
type Summary struct {
	Views         int
	Completed     int
	WatchTime     time.Duration
	QuizAnswered  int
	QuizCorrect   int
	ChatMessages  int
	Uploads       int
	LLMRequests   int
	InputTokens   int
	OutputTokens  int
	FirstActivity time.Time
}

// HistoryEntry is one event of any kind, for a merged timeline.
type HistoryEntry struct {
	EventMeta
	Kind   string
	Detail string
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendView(ctx context.Context, data ViewEventData) error
	AppendQuiz(ctx context.Context, data QuizEventData) error
	AppendChat(ctx context.Context, data ChatEventData) error
	AppendUpload(ctx context.Context, data UploadEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryViews(ctx context.Context, opts QueryOpts) ([]ViewEvent, error)
	QueryQuiz(ctx context.Context, opts QueryOpts) ([]QuizEvent, error)
	QueryChat(ctx context.Context, conversationID string, opts QueryOpts) ([]ChatEvent, error)
	QueryUploads(ctx context.Context, opts QueryOpts) ([]UploadEvent, error)
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// Summary returns lifetime totals.
	Summary(ctx context.Context) (Summary, error)

	// History returns the most recent limit events across all kinds,
	// newest first.
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}
