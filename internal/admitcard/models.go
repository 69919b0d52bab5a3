// Package admitcard fetches and normalizes theory and practical admit
// cards from the examination board.
package admitcard

import (
	"exam-portal/internal/domain"
)

// Subtype distinguishes the cached variants of one student's admit-card
// data. The base sub-type holds the raw roll-variant record both exam
// types are derived from.
type Subtype string

const (
	SubtypeBase      Subtype = "base"
	SubtypeTheory    Subtype = "theory"
	SubtypePractical Subtype = "practical"
)

// Request identifies the student whose admit card is wanted. At least one
// of registration number or the rollCode+rollNumber pair must be present.
type Request struct {
	RegistrationNumber string `json:"registrationNumber"`
	RollCode           string `json:"rollCode"`
	RollNumber         string `json:"rollNumber"`
}

// LookupKey resolves the request to its cache/upstream identifier. The
// roll composite wins when both identifiers are supplied because the
// roll-variant upstream is keyed on it; the composite order is fixed as
// rollCode-rollNumber.
func (r Request) LookupKey() domain.LookupKey {
	if key := domain.RollKey(r.RollCode, r.RollNumber); !key.IsZero() {
		return key
	}
	return domain.RegistrationKey(r.RegistrationNumber)
}

// HasRollPair reports whether the roll-variant upstream can serve this
// request.
func (r Request) HasRollPair() bool {
	return !domain.RollKey(r.RollCode, r.RollNumber).IsZero()
}

// AdmitCardData is the stable internal projection of an admit card.
// Raw preserves the untouched upstream payload.
type AdmitCardData struct {
	StudentName        string `json:"studentName,omitempty"`
	FatherName         string `json:"fatherName,omitempty"`
	MotherName         string `json:"motherName,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	RollCode           string `json:"rollCode,omitempty"`
	RollNumber         string `json:"rollNumber,omitempty"`
	ExamName           string `json:"examName,omitempty"`
	Session            string `json:"session,omitempty"`
	SchoolName         string `json:"schoolName,omitempty"`
	ExamCenter         string `json:"examCenter,omitempty"`
	PhotoURL           string `json:"photoUrl,omitempty"`

	Subjects []Subject  `json:"subjects,omitempty"`
	Slots    []ExamSlot `json:"slots,omitempty"`

	Raw map[string]any `json:"raw,omitempty"`
}

// Subject is one admit-card subject row. IsChecked defaults to false and
// Readonly to true, matching the upstream's implied semantics for optional
// subject slots.
type Subject struct {
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	IsChecked bool   `json:"isChecked"`
	Readonly  bool   `json:"readonly"`
}

// ExamSlot is one scheduled sitting. Date, time and shift are blank when
// the serving upstream variant does not expose scheduling data.
type ExamSlot struct {
	SubjectName string `json:"subjectName,omitempty"`
	ExamDate    string `json:"examDate,omitempty"`
	ExamTime    string `json:"examTime,omitempty"`
	Shift       string `json:"shift,omitempty"`
}
