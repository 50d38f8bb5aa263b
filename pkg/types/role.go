package types

// Role identifies a marketplace participant type. Each role carries its own
// catalog of document requirements.
type Role string

const (
	RoleIndividual        Role = "individual"
	RoleContractor        Role = "contractor"
	RoleSupplier          Role = "supplier"
	RoleEngineeringOffice Role = "engineering_office"
	RoleFreelanceEngineer Role = "freelance_engineer"
	RoleOrganization      Role = "organization"
)

var Roles = []Role{
	RoleIndividual,
	RoleContractor,
	RoleSupplier,
	RoleEngineeringOffice,
	RoleFreelanceEngineer,
	RoleOrganization,
}

func (r Role) Valid() bool {
	switch r {
	case RoleIndividual, RoleContractor, RoleSupplier,
		RoleEngineeringOffice, RoleFreelanceEngineer, RoleOrganization:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
