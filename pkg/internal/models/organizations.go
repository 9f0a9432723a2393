package models

type OrgRole = string

const (
	OrgRoleOwner  = OrgRole("OWNER")
	OrgRoleAdmin  = OrgRole("ADMIN")
	OrgRoleMember = OrgRole("MEMBER")
)

type Organization struct {
	BaseModel

	Name     string               `json:"name"`
	Slug     string               `json:"slug" gorm:"uniqueIndex;size:64"`
	Members  []OrganizationMember `json:"-"`
	Meetings []Meeting            `json:"-"`
}

type OrganizationMember struct {
	BaseModel

	Role           OrgRole `json:"role"`
	OrganizationID string  `json:"organization_id" gorm:"uniqueIndex:idx_org_member"`
	AccountID      string  `json:"account_id" gorm:"uniqueIndex:idx_org_member"`
}
