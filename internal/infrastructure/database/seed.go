package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/sangkips/sparta-gym-api/internal/config"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"gorm.io/gorm"
)

// Permission names guarding the route groups
const (
	PermViewDashboard  = "view-dashboard"
	PermManageClients  = "manage-clients"
	PermManagePayments = "manage-payments"
	PermManageProducts = "manage-products"
	PermManageSales    = "manage-sales"
	PermViewReports    = "view-reports"
	PermManageUsers    = "manage-users"
	PermManageSettings = "manage-settings"
)

// Role names
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

var allPermissions = []string{
	PermViewDashboard,
	PermManageClients,
	PermManagePayments,
	PermManageProducts,
	PermManageSales,
	PermViewReports,
	PermManageUsers,
	PermManageSettings,
}

var rolePermissions = map[string][]string{
	RoleSuperAdmin: allPermissions,
	RoleAdmin:      allPermissions,
	RoleStaff: {
		PermViewDashboard,
		PermManageClients,
		PermManagePayments,
		PermManageProducts,
		PermManageSales,
	},
}

// DefaultCategories are created on first start
var DefaultCategories = []string{"Bebidas", "Suplementos", "Snacks", "Accesorios"}

// SeedDefaultData seeds permissions, roles, the configured admin, default
// categories and the settings row. It is safe to run on every start.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	log.Println("Seeding default data...")

	perms := make(map[string]entity.Permission, len(allPermissions))
	for _, name := range allPermissions {
		p := entity.Permission{Name: name}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
		perms[name] = p
	}

	for _, roleName := range []string{RoleSuperAdmin, RoleAdmin, RoleStaff} {
		role := entity.Role{Name: roleName}
		if err := db.Omit("Permissions").Where(entity.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		granted := make([]entity.Permission, 0, len(rolePermissions[roleName]))
		for _, name := range rolePermissions[roleName] {
			granted = append(granted, perms[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(granted); err != nil {
			return fmt.Errorf("sync permissions for %s: %w", roleName, err)
		}
	}

	if err := seedAdmin(db, admin); err != nil {
		log.Printf("Warning: %v", err)
	}

	for _, name := range DefaultCategories {
		c := entity.Category{Name: name, Slug: utils.Slugify(name)}
		if err := db.Where(entity.Category{Slug: c.Slug}).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}

	var settings entity.Settings
	err := db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(entity.DefaultSettings()).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	} else if err != nil {
		return err
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedAdmin(db *gorm.DB, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		log.Printf("Super admin user already exists: %s", admin.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	var role entity.Role
	if err := db.Where("name = ?", RoleSuperAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("super-admin role missing: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Administrador"
	}
	user := entity.User{
		Name:     name,
		Email:    admin.Email,
		Password: hashed,
		Provider: "local",
	}
	if err := db.Omit("Roles").Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create super admin user: %w", err)
	}
	if err := db.Model(&user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("failed to assign super-admin role: %w", err)
	}

	log.Printf("Super admin user created: %s", admin.Email)
	return nil
}
