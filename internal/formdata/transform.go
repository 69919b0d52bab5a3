package formdata

import (
	"exam-portal/internal/transform"
)

// Candidate key lists per normalized field, first-listed key wins. Keeping
// these declarative means a new upstream casing variant is a one-line
// addition.
var (
	studentNameKeys  = []string{"StudentName", "studentName", "student_name", "name", "Name"}
	fatherNameKeys   = []string{"FatherName", "fatherName", "father_name"}
	motherNameKeys   = []string{"MotherName", "motherName", "mother_name"}
	dobKeys          = []string{"DOB", "dob", "DateOfBirth", "dateOfBirth", "date_of_birth"}
	genderKeys       = []string{"Gender", "gender"}
	categoryKeys     = []string{"Category", "category", "Caste", "caste"}
	religionKeys     = []string{"Religion", "religion"}
	nationalityKeys  = []string{"Nationality", "nationality"}
	aadharKeys       = []string{"AadharNumber", "aadharNumber", "Aadhar", "aadhar"}
	registrationKeys = []string{"RegistrationNumber", "registrationNumber", "RegNumber", "regNumber"}
	rollCodeKeys     = []string{"RollCode", "rollCode", "roll_code"}
	rollNumberKeys   = []string{"RollNumber", "rollNumber", "roll_number"}
	sessionKeys      = []string{"Session", "session", "ExamSession", "examSession"}
	mediumKeys       = []string{"Medium", "medium"}
	schoolNameKeys   = []string{"SchoolName", "schoolName", "CollegeName", "collegeName", "InstituteName"}
	schoolCodeKeys   = []string{"SchoolCode", "schoolCode", "CollegeCode", "collegeCode"}
	photoKeys        = []string{"PhotoURL", "photoUrl", "Photo", "photo", "StudentPhoto", "studentPhoto"}

	addressKeys       = []string{"Address", "address", "PermanentAddress", "permanentAddress"}
	villageKeys       = []string{"Village", "village", "VillTown", "villTown"}
	postKeys          = []string{"Post", "post", "PostOffice", "postOffice"}
	policeStationKeys = []string{"PoliceStation", "policeStation", "PS", "ps"}
	districtKeys      = []string{"District", "district"}
	stateKeys         = []string{"State", "state"}
	pinCodeKeys       = []string{"PinCode", "pinCode", "Pincode", "pincode", "PIN"}
)

// Transform maps a raw upstream form record onto the stable schema. It is a
// pure function: the same input always yields the same output, and the raw
// payload rides along untouched.
func Transform(raw map[string]any) *StudentFormData {
	if raw == nil {
		return nil
	}
	return &StudentFormData{
		StudentName:        transform.String(raw, studentNameKeys...),
		FatherName:         transform.String(raw, fatherNameKeys...),
		MotherName:         transform.String(raw, motherNameKeys...),
		DateOfBirth:        transform.String(raw, dobKeys...),
		Gender:             transform.String(raw, genderKeys...),
		Category:           transform.String(raw, categoryKeys...),
		Religion:           transform.String(raw, religionKeys...),
		Nationality:        transform.String(raw, nationalityKeys...),
		AadharNumber:       transform.String(raw, aadharKeys...),
		RegistrationNumber: transform.String(raw, registrationKeys...),
		RollCode:           transform.String(raw, rollCodeKeys...),
		RollNumber:         transform.String(raw, rollNumberKeys...),
		Session:            transform.String(raw, sessionKeys...),
		Medium:             transform.String(raw, mediumKeys...),
		SchoolName:         transform.String(raw, schoolNameKeys...),
		SchoolCode:         transform.String(raw, schoolCodeKeys...),
		PhotoURL:           transform.String(raw, photoKeys...),
		Address:            transformAddress(transform.Object(raw, addressKeys...)),
		Raw:                raw,
	}
}

// transformAddress returns nil for an absent address object rather than a
// partially-filled one.
func transformAddress(raw map[string]any) *Address {
	if raw == nil {
		return nil
	}
	return &Address{
		Village:       transform.String(raw, villageKeys...),
		Post:          transform.String(raw, postKeys...),
		PoliceStation: transform.String(raw, policeStationKeys...),
		District:      transform.String(raw, districtKeys...),
		State:         transform.String(raw, stateKeys...),
		PinCode:       transform.String(raw, pinCodeKeys...),
	}
}
