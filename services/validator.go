package services

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"admission-portal-api/models"
)

// SectionKey names one wizard section as stored on the draft.
type SectionKey string

const (
	SectionPersonalInfo    SectionKey = "personalInfo"
	SectionHealthInfo      SectionKey = "healthInfo"
	SectionSchoolsAttended SectionKey = "schoolsAttended"
	SectionExamResults     SectionKey = "examResults"
	SectionProgramDetails  SectionKey = "programDetails"
	SectionUTMEInfo        SectionKey = "utmeInfo"
)

// stepSections maps wizard steps 1-6 to the section each one saves.
var stepSections = map[int]SectionKey{
	1: SectionPersonalInfo,
	2: SectionHealthInfo,
	3: SectionSchoolsAttended,
	4: SectionExamResults,
	5: SectionProgramDetails,
	6: SectionUTMEInfo,
}

// AllSections in wizard order, used by the full-assembly check.
var AllSections = []SectionKey{
	SectionPersonalInfo,
	SectionHealthInfo,
	SectionSchoolsAttended,
	SectionExamResults,
	SectionProgramDetails,
	SectionUTMEInfo,
}

// FieldErrors collects every failing field of a request, keyed by the JSON
// field path, so clients can highlight all problems at once.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the JSON field names the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStep checks one step's raw payload against that step's section
// schema and returns the reshaped section value ready for merging. All
// failing fields are reported, not just the first.
func ValidateStep(step int, raw json.RawMessage) (SectionKey, interface{}, FieldErrors) {
	section, ok := stepSections[step]
	if !ok {
		return "", nil, FieldErrors{"step": fmt.Sprintf("unknown step %d", step)}
	}
	value, errs := validateSection(section, raw)
	if errs != nil {
		return section, nil, errs
	}
	return section, value, nil
}

func validateSection(section SectionKey, raw json.RawMessage) (interface{}, FieldErrors) {
	switch section {
	case SectionPersonalInfo:
		var info models.PersonalInfo
		return decodeAndValidate(raw, &info)
	case SectionHealthInfo:
		var info models.HealthInfo
		return decodeAndValidate(raw, &info)
	case SectionSchoolsAttended:
		var info models.SchoolsAttended
		return decodeAndValidate(raw, &info)
	case SectionExamResults:
		return validateExamResults(raw)
	case SectionProgramDetails:
		var info models.ProgramDetails
		return decodeAndValidate(raw, &info)
	case SectionUTMEInfo:
		return validateUTMEInfo(raw)
	}
	return nil, FieldErrors{string(section): "unknown section"}
}

func decodeAndValidate(raw json.RawMessage, dst interface{}) (interface{}, FieldErrors) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, FieldErrors{"_body": "malformed JSON payload"}
	}
	if errs := structErrors(dst); len(errs) > 0 {
		return nil, errs
	}
	return dst, nil
}

// validateExamResults accepts one or two sittings. Subject rows where either
// the subject or the grade is blank are dropped before counting; a sitting
// needs at least five complete rows. A partial second sitting is rejected,
// never persisted.
func validateExamResults(raw json.RawMessage) (interface{}, FieldErrors) {
	var sittings []models.ExamSitting
	if err := json.Unmarshal(raw, &sittings); err != nil {
		return nil, FieldErrors{"_body": "malformed JSON payload"}
	}

	if len(sittings) < 1 || len(sittings) > 2 {
		return nil, FieldErrors{"sittings": "provide 1 or 2 exam sittings"}
	}

	errs := FieldErrors{}
	for i := range sittings {
		complete := make([]models.SubjectResult, 0, len(sittings[i].Subjects))
		for _, row := range sittings[i].Subjects {
			if strings.TrimSpace(row.Subject) == "" || strings.TrimSpace(row.Grade) == "" {
				continue
			}
			complete = append(complete, row)
		}
		sittings[i].Subjects = complete

		for field, msg := range structErrors(&sittings[i]) {
			errs[fmt.Sprintf("sittings[%d].%s", i, field)] = msg
		}
		if len(complete) < 5 {
			errs[fmt.Sprintf("sittings[%d].subjects", i)] = "at least 5 complete subject/grade rows are required"
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return sittings, nil
}

// utmeInput tolerates jambScore arriving as either a number or a numeric
// string; it is coerced before range checking.
type utmeInput struct {
	JambRegNo    string      `json:"jambRegNo"`
	JambScore    interface{} `json:"jambScore"`
	JambSubjects []string    `json:"jambSubjects"`
}

func validateUTMEInfo(raw json.RawMessage) (interface{}, FieldErrors) {
	var in utmeInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, FieldErrors{"_body": "malformed JSON payload"}
	}

	score, err := coerceScore(in.JambScore)
	if err != nil {
		return nil, FieldErrors{"jambScore": err.Error()}
	}

	info := &models.UTMEInfo{
		JambRegNo:    strings.TrimSpace(in.JambRegNo),
		JambScore:    score,
		JambSubjects: in.JambSubjects,
	}
	if errs := structErrors(info); len(errs) > 0 {
		return nil, errs
	}
	return info, nil
}

func coerceScore(v interface{}) (int, error) {
	switch s := v.(type) {
	case nil:
		return 0, fmt.Errorf("jambScore is required")
	case float64:
		return int(s), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("jambScore must be a number")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("jambScore must be a number")
	}
}

// ValidateFull re-validates the whole assembled draft the way the finalizer
// needs it: a section that was never saved is reported by name, and field
// errors are prefixed with their section key.
func ValidateFull(app *models.Applicant) FieldErrors {
	errs := FieldErrors{}

	sections := map[SectionKey]interface{}{
		SectionPersonalInfo:    nilable(app.PersonalInfo),
		SectionHealthInfo:      nilable(app.HealthInfo),
		SectionSchoolsAttended: nilable(app.SchoolsAttended),
		SectionProgramDetails:  nilable(app.ProgramDetails),
		SectionUTMEInfo:        nilable(app.UTMEInfo),
	}

	for _, key := range AllSections {
		if key == SectionExamResults {
			if len(app.ExamResults) == 0 {
				errs[string(key)] = "section has not been completed"
				continue
			}
			raw, _ := json.Marshal(app.ExamResults)
			if _, sittingErrs := validateExamResults(raw); sittingErrs != nil {
				for field, msg := range sittingErrs {
					errs[string(key)+"."+field] = msg
				}
			}
			continue
		}

		value := sections[key]
		if value == nil {
			errs[string(key)] = "section has not been completed"
			continue
		}
		for field, msg := range structErrors(value) {
			errs[string(key)+"."+field] = msg
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func nilable(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}
	return v
}

func structErrors(v interface{}) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_body": err.Error()}
	}
	errs := FieldErrors{}
	for _, fe := range invalid {
		errs[fieldPath(fe)] = fieldMessage(fe)
	}
	return errs
}

// fieldPath strips the root struct name, leaving the JSON path the client
// recognizes (e.g. "subjects[0].grade").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("at least %s entries are required", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("exactly %s entries are required", fe.Param())
		}
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "unique":
		return "entries must be distinct"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid"
	}
}
