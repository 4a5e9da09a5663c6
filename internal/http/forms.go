package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/target/crms-console/internal/domain/model"
)

// Field errors only cover required values; the API does the real validation.
const (
	errRequired = "This field is required"
	errNumber   = "Must be a number"
)

type formReader struct {
	r    *http.Request
	errs map[string]string
}

func newFormReader(r *http.Request) *formReader {
	return &formReader{r: r, errs: map[string]string{}}
}

func (f *formReader) text(name string) string {
	return strings.TrimSpace(f.r.PostFormValue(name))
}

func (f *formReader) required(name string) string {
	v := f.text(name)
	if v == "" {
		f.errs[name] = errRequired
	}
	return v
}

// id parses an optional positive integer; blank yields 0.
func (f *formReader) id(name string) int64 {
	v := f.text(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		f.errs[name] = errNumber
		return 0
	}
	return n
}

func (f *formReader) requiredID(name string) int64 {
	if f.text(name) == "" {
		f.errs[name] = errRequired
		return 0
	}
	return f.id(name)
}

func (f *formReader) float(name string) *float64 {
	v := f.text(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.errs[name] = errNumber
		return nil
	}
	return &n
}

func (f *formReader) checkbox(name string) bool {
	switch strings.ToLower(f.text(name)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func (f *formReader) valid() bool { return len(f.errs) == 0 }

func parseReportForm(r *http.Request) (model.ReportInput, map[string]string) {
	f := newFormReader(r)
	in := model.ReportInput{
		Title:       f.required("title"),
		Description: f.text("description"),
		CategoryID:  f.id("categoryId"),
		Location:    f.text("location"),
		Latitude:    f.float("latitude"),
		Longitude:   f.float("longitude"),
		Status:      f.text("status"),
	}
	if in.Status == "" {
		in.Status = model.StatusOpen
	}
	return in, f.errs
}

func parseCaseForm(r *http.Request) (model.CaseInput, map[string]string) {
	f := newFormReader(r)
	in := model.CaseInput{
		CrimeReportID: f.requiredID("crimeReportId"),
		AssignedToID:  f.id("assignedToId"),
		Status:        f.text("status"),
		Notes:         f.text("notes"),
	}
	if in.Status == "" {
		in.Status = model.StatusOpen
	}
	return in, f.errs
}

func parseUserForm(r *http.Request, mode FormMode) (model.UserInput, map[string]string) {
	f := newFormReader(r)
	in := model.UserInput{
		Username:     f.required("username"),
		FullName:     f.required("fullName"),
		Email:        f.required("email"),
		Phone:        f.text("phone"),
		RoleID:       f.requiredID("roleId"),
		DepartmentID: f.id("departmentId"),
		IsActive:     f.checkbox("isActive"),
	}
	if mode == FormModeCreate {
		in.Password = f.required("password")
	} else {
		in.Password = f.text("password")
	}
	return in, f.errs
}

func parseMessageForm(r *http.Request) (model.MessageInput, map[string]string) {
	f := newFormReader(r)
	in := model.MessageInput{
		ReceiverID: f.requiredID("receiverId"),
		Subject:    f.text("subject"),
		Content:    f.required("content"),
	}
	return in, f.errs
}
