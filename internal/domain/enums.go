package domain

// UserRole defines the role hierarchy within a business.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleViewer UserRole = "viewer"
)

// ValidUserRoles lists the roles a user may be assigned.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:  true,
	RoleMember: true,
	RoleViewer: true,
}

// FilingMode records how a return was filed.
type FilingMode string

const (
	FilingModeAuto FilingMode = "auto"
	FilingModeNil  FilingMode = "nil"
)

// ExportFormat identifies a period export artifact.
type ExportFormat string

const (
	ExportGSTR3BWorkbook  ExportFormat = "gstr3b"
	ExportInvoiceRegister ExportFormat = "invoices"
)
