package admitcard

import (
	"exam-portal/internal/transform"
)

// Candidate key lists per field; first-listed key wins. The roll-variant
// upstream flips casing between StudentDetails and studentDetails from one
// deployment to the next, so every list carries both.
var (
	studentDetailsKeys = []string{"StudentDetails", "studentDetails", "student_details"}
	subjectDetailsKeys = []string{"SubjectDetails", "subjectDetails", "subject_details", "Subjects", "subjects"}

	studentNameKeys  = []string{"StudentName", "studentName", "student_name", "Name", "name"}
	fatherNameKeys   = []string{"FatherName", "fatherName", "father_name"}
	motherNameKeys   = []string{"MotherName", "motherName", "mother_name"}
	registrationKeys = []string{"RegistrationNumber", "registrationNumber", "RegNumber", "regNumber"}
	rollCodeKeys     = []string{"RollCode", "rollCode", "roll_code"}
	rollNumberKeys   = []string{"RollNumber", "rollNumber", "roll_number"}
	examNameKeys     = []string{"ExamName", "examName", "Exam", "exam"}
	sessionKeys      = []string{"Session", "session", "ExamSession", "examSession"}
	schoolNameKeys   = []string{"SchoolName", "schoolName", "CollegeName", "collegeName"}
	examCenterKeys   = []string{"ExamCenter", "examCenter", "CenterName", "centerName"}
	photoKeys        = []string{"PhotoURL", "photoUrl", "Photo", "photo", "StudentPhoto", "studentPhoto"}

	subjectCodeKeys = []string{"SubjectCode", "subjectCode", "Code", "code"}
	subjectNameKeys = []string{"SubjectName", "subjectName", "Name", "name"}
	isCheckedKeys   = []string{"IsChecked", "isChecked", "is_checked"}
	readonlyKeys    = []string{"Readonly", "readonly", "ReadOnly", "read_only"}

	shiftKeys = []string{"Shift", "shift"}

	theoryDateKeys    = []string{"TheoryExamDate", "theoryExamDate", "ExamDate", "examDate"}
	theoryTimeKeys    = []string{"TheoryExamTime", "theoryExamTime", "ExamTime", "examTime"}
	practicalDateKeys = []string{"PracticalExamDate", "practicalExamDate", "ExamDate", "examDate"}
	practicalTimeKeys = []string{"PracticalExamTime", "practicalExamTime", "ExamTime", "examTime"}
)

// Transform maps a raw upstream admit-card payload onto the stable schema.
// It accepts both upstream shapes: the roll-variant record with a nested
// StudentDetails object, and the flat form-data-shaped record of the GET
// fallback (whose slots come out with blank date/time/shift because that
// source has no scheduling data). Pure function; calling it twice on the
// same payload yields identical output.
func Transform(raw map[string]any, subtype Subtype) *AdmitCardData {
	if raw == nil {
		return nil
	}

	student := transform.Object(raw, studentDetailsKeys...)
	if student == nil {
		student = raw
	}

	data := &AdmitCardData{
		StudentName:        transform.String(student, studentNameKeys...),
		FatherName:         transform.String(student, fatherNameKeys...),
		MotherName:         transform.String(student, motherNameKeys...),
		RegistrationNumber: transform.String(student, registrationKeys...),
		RollCode:           transform.String(student, rollCodeKeys...),
		RollNumber:         transform.String(student, rollNumberKeys...),
		ExamName:           transform.String(student, examNameKeys...),
		Session:            transform.String(student, sessionKeys...),
		SchoolName:         transform.String(student, schoolNameKeys...),
		ExamCenter:         transform.String(student, examCenterKeys...),
		PhotoURL:           transform.String(student, photoKeys...),
		Raw:                raw,
	}

	for _, entry := range transform.Array(raw, subjectDetailsKeys...) {
		row, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		data.Subjects = append(data.Subjects, transformSubject(row))
		if slot := transformSlot(row, subtype); slot != nil {
			data.Slots = append(data.Slots, *slot)
		}
	}
	return data
}

func transformSubject(row map[string]any) Subject {
	return Subject{
		Code:      transform.String(row, subjectCodeKeys...),
		Name:      transform.String(row, subjectNameKeys...),
		IsChecked: transform.Bool(row, false, isCheckedKeys...),
		Readonly:  transform.Bool(row, true, readonlyKeys...),
	}
}

// transformSlot builds the scheduled sitting for a subject row. Returns nil
// when the row has no subject name at all; otherwise the slot is emitted
// with whatever scheduling fields the source exposes, blanks included.
func transformSlot(row map[string]any, subtype Subtype) *ExamSlot {
	name := transform.String(row, subjectNameKeys...)
	if name == "" {
		return nil
	}
	dateKeys, timeKeys := theoryDateKeys, theoryTimeKeys
	if subtype == SubtypePractical {
		dateKeys, timeKeys = practicalDateKeys, practicalTimeKeys
	}
	return &ExamSlot{
		SubjectName: name,
		ExamDate:    transform.String(row, dateKeys...),
		ExamTime:    transform.String(row, timeKeys...),
		Shift:       transform.String(row, shiftKeys...),
	}
}
