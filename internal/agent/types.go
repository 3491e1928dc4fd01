package agent

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Severity is the coarse urgency classification attached to a case.
type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityEmergency Severity = "emergency"
)

// ValidSeverity reports whether s is one of the four recognised levels.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityEmergency:
		return true
	default:
		return false
	}
}

// ConversationTurn is a single message exchange unit. Turns are immutable
// once created and only ever appended to a session's turn list.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Language  string    `json:"language"`
}

// IdentifiedLaw is a law or legal provision identified as potentially
// applicable. The Law field is the dedup key within a case.
type IdentifiedLaw struct {
	Law         string `json:"law"`
	Description string `json:"description"`
	Relevance   string `json:"relevance"`
	SectionRef  string `json:"section_ref,omitempty"`
	ActName     string `json:"act_name,omitempty"`
}

// ApplicableScheme is a government scheme identified as potentially
// helpful. The Scheme field is the dedup key within a case.
type ApplicableScheme struct {
	Scheme    string `json:"scheme"`
	Relevance string `json:"relevance"`
	Helpline  string `json:"helpline,omitempty"`
}

// Helpline is a phone helpline relevant to the user's situation.
// The Number field is the dedup key within a case.
type Helpline struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description,omitempty"`
}

// CaseAnalysis is the structured record of laws, schemes, actions and
// helplines accumulated across a conversation. Exactly one exists per
// session; it is created once and only ever mutated by merges.
type CaseAnalysis struct {
	CaseID             string             `json:"case_id"`
	SessionID          string             `json:"session_id"`
	Summary            string             `json:"summary"`
	IdentifiedLaws     []IdentifiedLaw    `json:"identified_laws"`
	ApplicableSchemes  []ApplicableScheme `json:"applicable_schemes"`
	RecommendedActions []string           `json:"recommended_actions"`
	Helplines          []Helpline         `json:"helplines"`
	Severity           Severity           `json:"severity"`
	Category           string             `json:"category"`
	NeedsMoreInfo      bool               `json:"needs_more_info"`
	DisclaimerIncluded bool               `json:"disclaimer_included"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewCaseAnalysis initialises the empty case bound to a session.
func NewCaseAnalysis(sessionID string) *CaseAnalysis {
	now := time.Now().UTC()
	return &CaseAnalysis{
		CaseID:             uuid.NewString(),
		SessionID:          sessionID,
		Severity:           SeverityLow,
		NeedsMoreInfo:      true,
		DisclaimerIncluded: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Session holds the state of one multi-turn conversation. It is owned
// exclusively by the agent service's session store and lives only for
// the process lifetime.
type Session struct {
	SessionID    string             `json:"session_id"`
	Turns        []ConversationTurn `json:"turns"`
	CaseAnalysis *CaseAnalysis      `json:"case_analysis"`
	UserLanguage string             `json:"user_language"`
	CreatedAt    time.Time          `json:"created_at"`
	LastActive   time.Time          `json:"last_active"`
}

// Response is the envelope returned for one processed message.
type Response struct {
	ResponseText     string        `json:"response_text"`
	CaseAnalysis     *CaseAnalysis `json:"case_analysis"`
	FollowUpQuestion string        `json:"follow_up_question,omitempty"`
	Disclaimer       string        `json:"disclaimer"`
	Language         string        `json:"language"`
}
