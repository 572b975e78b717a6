// Package auth registers and authenticates accounts and issues their tokens.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Departments resolves the department an officer joins.
type Departments interface {
	Resolve(ctx context.Context, category models.Category) (*models.Department, error)
	Get(ctx context.Context, id string) (*models.Department, error)
	AddOfficer(ctx context.Context, departmentID, officerID string) error
}

type Service struct {
	Store       Store
	Departments Departments
	Tokens      *Tokens
}

func NewService(s Store, d Departments, t *Tokens) *Service {
	return &Service{Store: s, Departments: d, Tokens: t}
}

// RegisterInput describes a new account. Officers name their department by
// id or by category; a category without a department creates it.
type RegisterInput struct {
	Name         string          `json:"name" binding:"required"`
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=8"`
	Role         models.Role     `json:"role"`
	Phone        string          `json:"phone"`
	Language     string          `json:"language"`
	DepartmentID string          `json:"departmentId"`
	Category     models.Category `json:"category"`
}

// Register creates a citizen or officer account and signs it in. Admin
// accounts are only created from the admin CLI.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if in.Role == "" {
		in.Role = models.RoleCitizen
	}
	if in.Role == models.RoleAdmin {
		return nil, "", apperr.Forbidden("admin accounts cannot self-register")
	}
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, "", err
	}
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CreateUser stores a new account of any role.
func (s *Service) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, apperr.Validation("name and email are required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
		Language:     in.Language,
	}
	if user.Language == "" {
		user.Language = "en"
	}

	var dept *models.Department
	switch in.Role {
	case models.RoleOfficer:
		if dept, err = s.officerDepartment(ctx, in); err != nil {
			return nil, err
		}
		user.DepartmentID = &dept.ID
	case models.RoleCitizen, models.RoleAdmin:
		if in.DepartmentID != "" || in.Category != "" {
			return nil, apperr.Validation("only officers belong to a department")
		}
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("email %s is already registered", email)
		}
		return nil, err
	}

	if dept != nil {
		if err := s.Departments.AddOfficer(ctx, dept.ID, user.ID); err != nil {
			log.Printf("ERROR: Failed to list officer %s on department %s: %v", user.ID, dept.ID, err)
		}
	}
	log.Printf("INFO: Registered %s %s", user.Role, user.ID)
	return user, nil
}

func (s *Service) officerDepartment(ctx context.Context, in RegisterInput) (*models.Department, error) {
	switch {
	case in.DepartmentID != "":
		return s.Departments.Get(ctx, in.DepartmentID)
	case in.Category != "":
		if !in.Category.Valid() {
			return nil, apperr.Validation("unknown category %q", in.Category)
		}
		return s.Departments.Resolve(ctx, in.Category)
	default:
		return nil, apperr.Validation("officers need a departmentId or category")
	}
}

// Login checks the credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", apperr.Unauthenticated("invalid credentials")
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Unauthenticated("invalid credentials")
	}
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the account behind a token.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Unauthenticated("account no longer exists")
	}
	return user, err
}

// LinkToken issues the token used to link a Telegram chat to userID.
func (s *Service) LinkToken(userID string) (string, error) {
	return s.Tokens.IssueLink(userID)
}
