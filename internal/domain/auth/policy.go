package auth

// Section identifies a navigable area of the console.
type Section string

const (
	SectionReports   Section = "reports"
	SectionCases     Section = "cases"
	SectionAnalytics Section = "analytics"
	SectionMessaging Section = "messaging"
	SectionAdmin     Section = "admin"
)

// SectionInfo is the dashboard card metadata for a section.
type SectionInfo struct {
	ID          Section
	Title       string
	Description string
	Path        string
}

// sectionOrder is the dashboard display order.
//
//nolint:gochecknoglobals // static read-only lookup table
var sectionOrder = []SectionInfo{
	{ID: SectionReports, Title: "Crime Reports", Description: "View and manage crime reports", Path: "/reports"},
	{ID: SectionCases, Title: "Case Management", Description: "Manage ongoing cases and assignments", Path: "/cases"},
	{ID: SectionAnalytics, Title: "Analytics", Description: "View crime statistics and trends", Path: "/analytics"},
	{ID: SectionMessaging, Title: "Messaging", Description: "Inter-agency communication", Path: "/messages"},
	{ID: SectionAdmin, Title: "Admin Panel", Description: "System administration and user management", Path: "/admin"},
}

// sectionRoles is the single source of truth for section visibility.
//
//nolint:gochecknoglobals // static read-only lookup table
var sectionRoles = map[Section][]Role{
	SectionReports:   {RoleAdmin, RoleOfficer, RoleAnalyst},
	SectionCases:     {RoleAdmin, RoleOfficer, RoleAnalyst},
	SectionAnalytics: {RoleAdmin, RoleAnalyst},
	SectionMessaging: {RoleAdmin, RoleOfficer, RoleAnalyst},
	SectionAdmin:     {RoleAdmin},
}

// SectionSet is an unordered set of sections.
type SectionSet map[Section]struct{}

// Has reports whether s is in the set.
func (set SectionSet) Has(s Section) bool {
	_, ok := set[s]
	return ok
}

// IsSupersetOf reports whether every member of other is also in set.
func (set SectionSet) IsSupersetOf(other SectionSet) bool {
	for s := range other {
		if !set.Has(s) {
			return false
		}
	}
	return true
}

// VisibleSections maps a role to the sections it may see.
// Unknown and absent roles get an empty set.
func VisibleSections(role Role) SectionSet {
	set := SectionSet{}
	for section, roles := range sectionRoles {
		for _, r := range roles {
			if r == role {
				set[section] = struct{}{}
				break
			}
		}
	}
	return set
}

// CanAccess reports whether role may open section.
func CanAccess(role Role, section Section) bool {
	return VisibleSections(role).Has(section)
}

// Sections returns the visible sections for role in dashboard order.
func Sections(role Role) []SectionInfo {
	visible := VisibleSections(role)
	out := make([]SectionInfo, 0, len(visible))
	for _, info := range sectionOrder {
		if visible.Has(info.ID) {
			out = append(out, info)
		}
	}
	return out
}

// LookupSection returns the metadata for a section id.
func LookupSection(id Section) (SectionInfo, bool) {
	for _, info := range sectionOrder {
		if info.ID == id {
			return info, true
		}
	}
	return SectionInfo{}, false
}

// Action is a write operation offered by a page.
type Action string

const (
	ActionCreateReport Action = "report:create"
	ActionUpdateReport Action = "report:update"
	ActionDeleteReport Action = "report:delete"
	ActionCreateCase   Action = "case:create"
	ActionUpdateCase   Action = "case:update"
	ActionCloseCase    Action = "case:close"
	ActionDeleteCase   Action = "case:delete"
	ActionSendMessage  Action = "message:send"
	ActionDeleteMsg    Action = "message:delete"
	ActionManageUsers  Action = "user:manage"
)

// actionRoles mirrors the backend's per-endpoint role checks. The console only uses it to
// hide controls; the backend still rejects disallowed calls.
//
//nolint:gochecknoglobals // static read-only lookup table
var actionRoles = map[Action][]Role{
	ActionCreateReport: {RoleAdmin, RoleOfficer},
	ActionUpdateReport: {RoleAdmin, RoleOfficer},
	ActionDeleteReport: {RoleAdmin},
	ActionCreateCase:   {RoleAdmin, RoleOfficer},
	ActionUpdateCase:   {RoleAdmin, RoleOfficer},
	ActionCloseCase:    {RoleAdmin, RoleOfficer},
	ActionDeleteCase:   {RoleAdmin},
	ActionSendMessage:  {RoleAdmin, RoleOfficer, RoleAnalyst},
	ActionDeleteMsg:    {RoleAdmin, RoleOfficer, RoleAnalyst},
	ActionManageUsers:  {RoleAdmin},
}

// Allows reports whether role may perform action.
func Allows(role Role, action Action) bool {
	return AnyOf(actionRoles[action]...)(role)
}
