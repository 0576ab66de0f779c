package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/gofiber/fiber/v2"
)

var recordDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// recordForm holds the fields of a multipart or urlencoded record form.
// Keys absent from the form are absent from values.
type recordForm struct {
	values map[string]string
	file   *multipart.FileHeader
}

func readRecordForm(c *fiber.Ctx) (*recordForm, error) {
	form := &recordForm{values: map[string]string{}}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for key, vals := range mf.Value {
			if len(vals) > 0 {
				form.values[key] = vals[0]
			}
		}
		if files := mf.File["file"]; len(files) > 0 && files[0].Filename != "" {
			form.file = files[0]
		}
		return form, nil
	}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		if _, seen := form.values[string(key)]; !seen {
			form.values[string(key)] = string(value)
		}
	})
	return form, nil
}

// patch converts the form into a RecordPatch. On create, resource_type and
// date are required; on update they may be omitted but not emptied. Empty
// optional fields clear the stored value.
func (f *recordForm) patch(creating bool) (models.RecordPatch, map[string]string) {
	var p models.RecordPatch
	problems := map[string]string{}

	if v, ok := f.values["resource_type"]; ok && strings.TrimSpace(v) != "" {
		rt := strings.TrimSpace(v)
		p.ResourceType = &rt
	} else if ok || creating {
		problems["resource_type"] = "Field 'resource_type' failed on the 'required' tag"
	}

	if v, ok := f.values["date"]; ok && strings.TrimSpace(v) != "" {
		date, err := parseRecordDate(v)
		if err != nil {
			problems["date"] = "Field 'date' must be an ISO 8601 date or datetime"
		} else {
			p.Date = &date
		}
	} else if ok || creating {
		problems["date"] = "Field 'date' failed on the 'required' tag"
	}

	if v, ok := f.values["course_id"]; ok {
		var courseID *uint
		if v = strings.TrimSpace(v); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil || id == 0 {
				problems["course_id"] = "Field 'course_id' must be a positive integer"
			} else {
				u := uint(id)
				courseID = &u
			}
		}
		p.CourseID = &courseID
	}

	text := map[string]***string{
		"doctor_name":        &p.DoctorName,
		"clinic_name":        &p.ClinicName,
		"patient_complaints": &p.PatientComplaints,
		"conclusion_text":    &p.ConclusionText,
		"diagnosis_code":     &p.DiagnosisCode,
		"medication_name":    &p.MedicationName,
		"lab_name":           &p.LabName,
		"test_name":          &p.TestName,
		"result":             &p.Result,
		"reference_range":    &p.ReferenceRange,
	}
	for key, dst := range text {
		v, ok := f.values[key]
		if !ok {
			continue
		}
		var value *string
		if v != "" {
			value = &v
		}
		*dst = &value
	}

	return p, problems
}

// attachment opens the uploaded file, if any. The caller closes it.
func (f *recordForm) attachment() (*services.Attachment, io.Closer, error) {
	if f.file == nil {
		return nil, nil, nil
	}
	file, err := f.file.Open()
	if err != nil {
		return nil, nil, err
	}
	return &services.Attachment{Filename: f.file.Filename, Content: file}, file, nil
}

func parseRecordDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
