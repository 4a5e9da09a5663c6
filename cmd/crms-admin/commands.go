package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/domain/model"
	"github.com/target/crms-console/internal/service"
)

func runLogin(cc *commandContext, args []string) error {
	fs, _ := newFlagSet("login", cc.Err)
	var username, password string
	fs.StringVarP(&username, "username", "u", "", "CRMS username (required)")
	fs.StringVarP(&password, "password", "p", "", "Password; read from stdin when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("--username is required")
	}
	if password == "" {
		if err := writef(cc.Err, "Password: "); err != nil {
			return err
		}
		line, err := bufio.NewReader(cc.In).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	sess, err := cc.Services.Auth.Login(cc.Ctx, username, password)
	if err != nil {
		return errors.New(service.UserMessage(err))
	}
	return writef(cc.Out, "Logged in as %s (%s)\n", sess.Username, sess.Role)
}

func runLogout(cc *commandContext, _ []string) error {
	if err := cc.Services.Auth.Logout(cc.Ctx); err != nil {
		return err
	}
	return writef(cc.Out, "Logged out\n")
}

type whoami struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Sections []string `json:"sections"`
}

func runWhoami(cc *commandContext, args []string) error {
	fs, opts := newFlagSet("whoami", cc.Err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}
	sess, ok := cc.Services.Auth.CurrentUser(cc.Ctx)
	if !ok {
		return errNotLoggedIn
	}

	out := whoami{Username: sess.Username, Role: string(sess.Role)}
	t := table{Headers: []string{"USERNAME", "ROLE", "SECTION", "PATH"}}
	for _, info := range auth.Sections(sess.Role) {
		out.Sections = append(out.Sections, string(info.ID))
		t.Rows = append(t.Rows, []string{sess.Username, string(sess.Role), info.Title, info.Path})
	}
	return render(cc.Out, *opts, out, t)
}

// listFlags parses the common flags of a list subcommand.
func listFlags(cc *commandContext, name string, args []string) (*outputOptions, string, []string, error) {
	fs, opts := newFlagSet(name, cc.Err)
	var status string
	fs.StringVar(&status, "status", "", "Only include records with this status")
	if err := fs.Parse(args); err != nil {
		return nil, "", nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, "", nil, err
	}
	if err := requireSession(cc); err != nil {
		return nil, "", nil, err
	}
	return opts, strings.TrimSpace(status), fs.Args(), nil
}

func runReportsList(cc *commandContext, args []string) error {
	opts, status, _, err := listFlags(cc, "reports list", args)
	if err != nil {
		return err
	}
	var reports []model.CrimeReport
	if status != "" {
		reports, err = cc.Services.Reports.ListByStatus(cc.Ctx, status)
	} else {
		reports, err = cc.Services.Reports.List(cc.Ctx)
	}
	if err != nil {
		return err
	}

	t := table{Headers: []string{"ID", "TITLE", "CATEGORY", "LOCATION", "STATUS", "CREATED"}}
	for _, r := range reports {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.Title, r.CategoryName(), r.Location, r.Status, r.CreatedAt.Display(),
		})
	}
	return render(cc.Out, *opts, reports, t)
}

func runCasesList(cc *commandContext, args []string) error {
	opts, status, _, err := listFlags(cc, "cases list", args)
	if err != nil {
		return err
	}
	var cases []model.Case
	if status != "" {
		cases, err = cc.Services.Cases.ListByStatus(cc.Ctx, status)
	} else {
		cases, err = cc.Services.Cases.List(cc.Ctx)
	}
	if err != nil {
		return err
	}

	t := table{Headers: []string{"ID", "REPORT", "ASSIGNEE", "STATUS", "OPENED", "CLOSED"}}
	for _, c := range cases {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(c.ID, 10), c.ReportTitle(), c.AssigneeName(), c.Status, c.OpenedAt.Display(), c.ClosedAt.Display(),
		})
	}
	return render(cc.Out, *opts, cases, t)
}

func runCasesClose(cc *commandContext, args []string) error {
	fs, opts := newFlagSet("cases close", cc.Err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}
	if err := requireSession(cc); err != nil {
		return err
	}

	closed, err := cc.Services.Cases.Close(cc.Ctx, id)
	if err != nil {
		return err
	}
	t := table{
		Headers: []string{"ID", "STATUS", "CLOSED"},
		Rows:    [][]string{{strconv.FormatInt(closed.ID, 10), closed.Status, closed.ClosedAt.Display()}},
	}
	return render(cc.Out, *opts, closed, t)
}

func runUsersList(cc *commandContext, args []string) error {
	opts, status, _, err := listFlags(cc, "users list", args)
	if err != nil {
		return err
	}
	users, err := cc.Services.Users.List(cc.Ctx)
	if err != nil {
		return err
	}
	users = filterUsersByStatus(users, status)

	t := table{Headers: []string{"ID", "USERNAME", "NAME", "ROLE", "EMAIL", "ACTIVE"}}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(u.ID, 10), u.Username, u.FullName, string(u.RoleName()), u.Email, strconv.FormatBool(u.IsActive),
		})
	}
	return render(cc.Out, *opts, users, t)
}

// filterUsersByStatus maps the --status flag onto the active bit: "active" or "inactive".
func filterUsersByStatus(users []model.User, status string) []model.User {
	var want bool
	switch strings.ToLower(status) {
	case "active":
		want = true
	case "inactive":
		want = false
	default:
		return users
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsActive == want {
			out = append(out, u)
		}
	}
	return out
}

func messageTable(messages []model.Message) table {
	t := table{Headers: []string{"ID", "FROM", "TO", "SUBJECT", "SENT", "READ"}}
	for _, m := range messages {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.From(), 10),
			strconv.FormatInt(m.To(), 10),
			m.Subject,
			m.SentAt.Display(),
			strconv.FormatBool(m.IsRead),
		})
	}
	return t
}

func runMessagesList(cc *commandContext, args []string) error {
	opts, status, _, err := listFlags(cc, "messages list", args)
	if err != nil {
		return err
	}
	messages, err := cc.Services.Messages.List(cc.Ctx)
	if err != nil {
		return err
	}
	messages = filterMessagesByStatus(messages, status)
	return render(cc.Out, *opts, messages, messageTable(messages))
}

// filterMessagesByStatus maps the --status flag onto the read bit: "read" or "unread".
func filterMessagesByStatus(messages []model.Message, status string) []model.Message {
	var want bool
	switch strings.ToLower(status) {
	case "read":
		want = true
	case "unread":
		want = false
	default:
		return messages
	}
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		if m.IsRead == want {
			out = append(out, m)
		}
	}
	return out
}

func runMessagesUnread(cc *commandContext, args []string) error {
	opts, _, rest, err := listFlags(cc, "messages unread", args)
	if err != nil {
		return err
	}
	id, err := parseID(rest)
	if err != nil {
		return err
	}
	messages, err := cc.Services.Messages.ListUnread(cc.Ctx, id)
	if err != nil {
		return err
	}
	return render(cc.Out, *opts, messages, messageTable(messages))
}

func runAnalytics(cc *commandContext, args []string) error {
	fs, opts := newFlagSet("analytics", cc.Err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}
	if err := requireSession(cc); err != nil {
		return err
	}

	overview, err := cc.Services.Analytics.Overview(cc.Ctx)
	if err != nil {
		return err
	}
	d, cs := overview.Dashboard, overview.CaseStats
	t := table{
		Headers: []string{"METRIC", "VALUE"},
		Rows: [][]string{
			{"Total reports", strconv.FormatInt(d.TotalReports, 10)},
			{"Open reports", strconv.FormatInt(d.OpenReports, 10)},
			{"Recent reports (30d)", strconv.FormatInt(d.RecentReports, 10)},
			{"Total cases", strconv.FormatInt(d.TotalCases, 10)},
			{"Open cases", strconv.FormatInt(d.OpenCases, 10)},
			{"Resolution rate", strconv.FormatFloat(cs.ResolutionRate, 'f', 1, 64) + "%"},
			{"Avg resolution time", strconv.FormatFloat(cs.AvgResolutionTime, 'f', 1, 64) + " days"},
			{"Total users", strconv.FormatInt(d.TotalUsers, 10)},
		},
	}
	for _, entry := range model.Breakdown(overview.Trends.CategoryBreakdown, d.TotalReports) {
		t.Rows = append(t.Rows, []string{"Category: " + entry.Label, strconv.FormatInt(entry.Count, 10)})
	}
	return render(cc.Out, *opts, overview, t)
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one numeric ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", args[0])
	}
	return id, nil
}
