package httpx

import (
	"context"
	"net/http"

	"github.com/target/crms-console/internal/domain/model"
	"github.com/target/crms-console/internal/service"
)

func adminMeta() PageMeta { return PageMeta{Title: "Admin Panel", CurrentPage: PageAdmin} }

func userFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit User", CurrentPage: PageUser}
	}
	return PageMeta{Title: "New User", CurrentPage: PageUser}
}

// Admin lists users with the system summary.
// GET /admin.
func (h *UIHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: adminMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			users, err := services(r).Users.List(ctx)
			if err != nil {
				return err
			}
			data["Users"] = users
			data["Stats"] = service.SummarizeUsers(users)
			return nil
		},
	})
}

// NewUser renders an empty user form.
// GET /admin/users/new.
func (h *UIHandlers) NewUser(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, userFormMeta(FormModeCreate)).
		With("Mode", string(FormModeCreate)).
		With("Form", model.UserInput{IsActive: true}).
		Build()
	h.render(w, r, data)
}

// EditUser renders the form filled with an existing user. The password is left blank.
// GET /admin/users/{id}/edit.
func (h *UIHandlers) EditUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.Page(w, r, PageSpec{
		Meta: userFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			u, err := services(r).Users.Get(ctx, id)
			if err != nil {
				return err
			}
			in := model.UserInput{
				Username: u.Username,
				FullName: u.FullName,
				Email:    u.Email,
				Phone:    u.Phone,
				IsActive: u.IsActive,
			}
			if u.Role != nil {
				in.RoleID = u.Role.ID
			}
			if u.Department != nil {
				in.DepartmentID = u.Department.ID
			}
			data["Mode"] = string(FormModeEdit)
			data["ID"] = id
			data["Form"] = in
			return nil
		},
	})
}

// CreateUser adds an account.
// POST /admin/users.
func (h *UIHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	in, errs := parseUserForm(r, FormModeCreate)
	h.submitForm(w, r, FormSubmission{
		Meta:   userFormMeta(FormModeCreate),
		Mode:   FormModeCreate,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			_, err := services(r).Users.Create(ctx, in)
			return err
		},
		Redirect: "/admin",
	})
}

// UpdateUser saves changes to an account. A blank password keeps the current one.
// POST /admin/users/{id}.
func (h *UIHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, errs := parseUserForm(r, FormModeEdit)
	h.submitForm(w, r, FormSubmission{
		Meta:   userFormMeta(FormModeEdit),
		Mode:   FormModeEdit,
		ID:     id,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			_, err := services(r).Users.Update(ctx, id, in)
			return err
		},
		Redirect: "/admin",
	})
}

// DeleteUser removes an account.
// POST /admin/users/{id}/delete.
func (h *UIHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.runRowAction(w, r, RowAction{
		Meta: adminMeta(),
		Run: func(ctx context.Context) error {
			return services(r).Users.Delete(ctx, id)
		},
		Redirect: "/admin",
	})
}
