package entity

// Role is the authorization role stored on a user. It is fixed at signup.
type Role string

const (
	RoleUser      Role = "user"
	RoleCompanyHR Role = "company_HR"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleCompanyHR
}

// Status is the presence flag gating owner-scoped mutations.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

func (s Status) Valid() bool {
	return s == StatusOnline || s == StatusOffline
}
