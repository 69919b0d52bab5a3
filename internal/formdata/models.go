// Package formdata fetches and normalizes student registration (form)
// records from the examination board.
package formdata

// StudentFormData is the stable internal projection of an upstream form
// record. Unmapped fields stay absent (omitempty) rather than defaulting to
// empty strings; Raw preserves the full upstream payload for
// forward-compatibility with data the schema does not map yet.
type StudentFormData struct {
	StudentName        string   `json:"studentName,omitempty"`
	FatherName         string   `json:"fatherName,omitempty"`
	MotherName         string   `json:"motherName,omitempty"`
	DateOfBirth        string   `json:"dateOfBirth,omitempty"`
	Gender             string   `json:"gender,omitempty"`
	Category           string   `json:"category,omitempty"`
	Religion           string   `json:"religion,omitempty"`
	Nationality        string   `json:"nationality,omitempty"`
	AadharNumber       string   `json:"aadharNumber,omitempty"`
	RegistrationNumber string   `json:"registrationNumber,omitempty"`
	RollCode           string   `json:"rollCode,omitempty"`
	RollNumber         string   `json:"rollNumber,omitempty"`
	Session            string   `json:"session,omitempty"`
	Medium             string   `json:"medium,omitempty"`
	SchoolName         string   `json:"schoolName,omitempty"`
	SchoolCode         string   `json:"schoolCode,omitempty"`
	PhotoURL           string   `json:"photoUrl,omitempty"`
	Address            *Address `json:"address,omitempty"`

	Raw map[string]any `json:"raw,omitempty"`
}

// Address is the nested postal address block. It is nil on the parent when
// the upstream payload carries no address object at all.
type Address struct {
	Village       string `json:"village,omitempty"`
	Post          string `json:"post,omitempty"`
	PoliceStation string `json:"policeStation,omitempty"`
	District      string `json:"district,omitempty"`
	State         string `json:"state,omitempty"`
	PinCode       string `json:"pinCode,omitempty"`
}
