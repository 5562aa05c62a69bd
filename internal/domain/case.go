package domain

import "time"

// Stage enumerates the ordered remediation stages of a case.
type Stage string

const (
	StagePending           Stage = "pending"
	StageDocumentsVerified Stage = "documents_verified"
	StageFreezeCompleted   Stage = "freeze_completed"
	StageLettersSent       Stage = "letters_sent"
	StageFTCCreated        Stage = "ftc_created"
	StageCFPBFiled         Stage = "cfpb_filed"
	StageResultReceived    Stage = "result_received"
	StageCompleted         Stage = "completed"
)

var stageOrder = []Stage{
	StagePending,
	StageDocumentsVerified,
	StageFreezeCompleted,
	StageLettersSent,
	StageFTCCreated,
	StageCFPBFiled,
	StageResultReceived,
	StageCompleted,
}

// Stages returns all stages in remediation order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Index returns the position of the stage in the remediation sequence,
// or -1 when the stage is unknown.
func (s Stage) Index() int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Valid reports whether the stage is a member of the closed enumeration.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// ParseStage converts a raw string into a Stage.
func ParseStage(raw string) (Stage, bool) {
	stage := Stage(raw)
	return stage, stage.Valid()
}

// StageHistoryEntry is an immutable audit record of a past stage value.
// Entries are appended in timestamp order and never deleted or reordered.
type StageHistoryEntry struct {
	Stage     Stage     `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

// Case is the aggregate for one client's credit-repair engagement.
type Case struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	DateOfBirth   string
	SSN           string
	Address       string
	City          string
	State         string
	ZipCode       string
	Notes         string
	Documents     map[string]string
	CurrentStage  Stage
	CreatedAt     time.Time
	UpdatedAt     time.Time
	StatusHistory []StageHistoryEntry
}
