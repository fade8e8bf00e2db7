package store

import "encoding/json"

// Participant identifies who took the assessment
type Participant struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Industry string `json:"industry"`
}

// DisplayName returns the participant name, defaulting to "Unknown"
func (p Participant) DisplayName() string {
	if p.Name == "" {
		return "Unknown"
	}
	return p.Name
}

// CompanyName returns the participant company, defaulting to "Unknown"
func (p Participant) CompanyName() string {
	if p.Company == "" {
		return "Unknown"
	}
	return p.Company
}

// FollowUp is one AI follow-up question/answer pair on a response
type FollowUp struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Response is one question/answer entry in a session. Answer is kept raw
// because upstream stores strings, numbers, and nested JSON interchangeably.
type Response struct {
	InputType    string          `json:"inputType"`
	QuestionText string          `json:"questionText"`
	Answer       json.RawMessage `json:"answer"`
	AIFollowUps  []FollowUp      `json:"aiFollowUps"`
}

// SessionData is the session payload. Some rows wrap the payload one level
// under a "data" key; Session.Payload unwraps that.
type SessionData struct {
	Participant Participant  `json:"participant"`
	Responses   []Response   `json:"responses"`
	Nested      *SessionData `json:"data"`
}

// Session is one assessment session row from the source store
type Session struct {
	ID     string
	Status string
	Data   SessionData
}

// Payload returns the session payload, unwrapping a nested data key if present
func (s *Session) Payload() *SessionData {
	if s.Data.Nested != nil {
		return s.Data.Nested
	}
	return &s.Data
}
