// Package department maps complaint categories to the departments that
// handle them, creating a department the first time a category is seen.
package department

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
)

// Store is the persistence the resolver needs.
type Store interface {
	CreateDepartment(ctx context.Context, d *models.Department) error
	GetDepartmentByID(ctx context.Context, id string) (*models.Department, error)
	GetDepartmentByCategory(ctx context.Context, category models.Category) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	AddDepartmentOfficer(ctx context.Context, departmentID, officerID string) error
}

// Resolver handles department lookup and administration.
type Resolver struct {
	Store Store
}

// NewResolver creates a new department resolver.
func NewResolver(s Store) *Resolver {
	return &Resolver{Store: s}
}

// Resolve returns the department for category, creating it when missing.
// A concurrent creation of the same category is detected through the unique
// index and resolved by reading the winner back. When the default name is
// already held by another category, the category is appended to it.
func (r *Resolver) Resolve(ctx context.Context, category models.Category) (*models.Department, error) {
	d, err := r.Store.GetDepartmentByCategory(ctx, category)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("ERROR: Failed to look up department for %s: %v", category, err)
		return nil, err
	}

	name := config.DepartmentName(category)
	for _, candidate := range []string{name, fmt.Sprintf("%s (%s)", name, category)} {
		d = &models.Department{Name: candidate, Category: category}
		err = r.Store.CreateDepartment(ctx, d)
		if err == nil {
			log.Printf("INFO: Created department %q for category %s", d.Name, category)
			return d, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			log.Printf("ERROR: Failed to create department for %s: %v", category, err)
			return nil, err
		}

		existing, err := r.Store.GetDepartmentByCategory(ctx, category)
		if err == nil {
			log.Printf("WARN: department for %s was created concurrently, re-reading", category)
			return existing, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		log.Printf("WARN: department name %q is taken by another category", candidate)
	}
	return nil, apperr.Conflict("no free department name for category %s", category)
}

func (r *Resolver) List(ctx context.Context) ([]models.Department, error) {
	return r.Store.ListDepartments(ctx)
}

func (r *Resolver) Get(ctx context.Context, id string) (*models.Department, error) {
	d, err := r.Store.GetDepartmentByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("department %s not found", id)
	}
	return d, err
}

// CreateInput is what an admin supplies for an explicitly created department.
type CreateInput struct {
	Name         string          `json:"name" binding:"required"`
	Category     models.Category `json:"category" binding:"required"`
	Description  string          `json:"description"`
	ContactEmail string          `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone string          `json:"contactPhone"`
}

// Create adds a department with an explicit name. At most one department may
// exist per category.
func (r *Resolver) Create(ctx context.Context, in CreateInput) (*models.Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("department name is required")
	}
	if !in.Category.Valid() {
		return nil, apperr.Validation("unknown category %q", in.Category)
	}

	d := &models.Department{
		Name:         name,
		Category:     in.Category,
		Description:  in.Description,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
	}
	if err := r.Store.CreateDepartment(ctx, d); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("a department named %q or for category %s already exists", name, in.Category)
		}
		return nil, err
	}
	return d, nil
}

// AddOfficer lists officerID on the department. Adding the same officer twice is a no-op.
func (r *Resolver) AddOfficer(ctx context.Context, departmentID, officerID string) error {
	return r.Store.AddDepartmentOfficer(ctx, departmentID, officerID)
}
