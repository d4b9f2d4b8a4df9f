package models

import "time"

type RoleName string

const (
	RoleAdmin        RoleName = "Admin"
	RoleDoctor       RoleName = "Doctor"
	RoleNurse        RoleName = "Nurse"
	RolePharmacist   RoleName = "Pharmacist"
	RoleReceptionist RoleName = "Receptionist"
)

// SeedRoles is the fixed role set inserted at startup if missing.
var SeedRoles = []RoleName{RoleAdmin, RoleDoctor, RoleNurse, RolePharmacist, RoleReceptionist}

type Role struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
