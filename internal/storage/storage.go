// Package storage persists users, departments, complaints and feedback in
// PostgreSQL and carries real-time envelopes between instances over Redis.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"grievance/backend/internal/visibility"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Storage is everything the services need from the persistence layer.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, role *models.Role) ([]models.User, error)
	GetUserByTelegramChat(ctx context.Context, chatID int64) (*models.User, error)
	ListTelegramUsers(ctx context.Context) ([]models.User, error)
	UpdateUserTelegram(ctx context.Context, userID string, chatID int64) error
	UpdateUserLanguage(ctx context.Context, userID, language string) error
	CountUsersByRole(ctx context.Context) (map[string]int64, error)

	CreateDepartment(ctx context.Context, d *models.Department) error
	GetDepartmentByID(ctx context.Context, id string) (*models.Department, error)
	GetDepartmentByCategory(ctx context.Context, category models.Category) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	AddDepartmentOfficer(ctx context.Context, departmentID, officerID string) error

	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	UpdateComplaint(ctx context.Context, c *models.Complaint, columns ...string) error
	ListComplaints(ctx context.Context, q visibility.Query, f ComplaintFilter) ([]models.Complaint, int64, error)
	CountComplaints(ctx context.Context) (int64, error)
	CountComplaintsBy(ctx context.Context, column string) (map[string]int64, error)
	ResolvedSpans(ctx context.Context) ([]Span, error)
	RecentComplaints(ctx context.Context, limit int) ([]models.Complaint, error)

	CreateFeedback(ctx context.Context, f *models.Feedback) error
	UpdateFeedback(ctx context.Context, f *models.Feedback) error
	GetFeedbackByComplaint(ctx context.Context, complaintID string) (*models.Feedback, error)
	ListFeedback(ctx context.Context, citizenID *string) ([]models.Feedback, error)
	LinkFeedback(ctx context.Context, complaintID, feedbackID string) error

	PublishEnvelope(ctx context.Context, env models.Envelope) error
	SubscribeEnvelopes(ctx context.Context) Subscription
	HasBroker() bool
}

var _ Storage = (*Service)(nil)

// ComplaintFilter narrows a role-scoped listing.
type ComplaintFilter struct {
	Status   models.Status
	Category models.Category
	Priority models.Priority
	Offset   int
	Limit    int
}

// Subscription is the receiving side of the events channel; *redis.PubSub implements it.
type Subscription interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// Span is the created/resolved pair of one resolved complaint.
type Span struct {
	CreatedAt  time.Time
	ResolvedAt time.Time
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil; envelopes then stay local.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

// Open connects to PostgreSQL with duplicate-key errors translated by gorm.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

// Migrate creates or updates the four record tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Complaint{},
		&models.Feedback{},
	)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// --- users ---

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db(ctx).Create(user).Error)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) ListUsers(ctx context.Context, role *models.Role) ([]models.User, error) {
	var users []models.User
	tx := s.db(ctx).Preload("Department").Order("created_at desc")
	if role != nil {
		tx = tx.Where("role = ?", *role)
	}
	if err := tx.Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to list users: %v", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetUserByTelegramChat(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ListTelegramUsers returns the users that linked a Telegram chat.
func (s *Service) ListTelegramUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db(ctx).Where("telegram_chat_id IS NOT NULL").Find(&users).Error
	return users, err
}

func (s *Service) UpdateUserTelegram(ctx context.Context, userID string, chatID int64) error {
	res := s.db(ctx).Model(&models.User{}).Where("id = ?", userID).Update("telegram_chat_id", chatID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) UpdateUserLanguage(ctx context.Context, userID, language string) error {
	res := s.db(ctx).Model(&models.User{}).Where("id = ?", userID).Update("language", language)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, &models.User{}, "role")
}

// --- departments ---

func (s *Service) CreateDepartment(ctx context.Context, d *models.Department) error {
	return translate(s.db(ctx).Create(d).Error)
}

func (s *Service) GetDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := s.db(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *Service) GetDepartmentByCategory(ctx context.Context, category models.Category) (*models.Department, error) {
	var d models.Department
	if err := s.db(ctx).Where("category = ?", category).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var ds []models.Department
	err := s.db(ctx).Order("name asc").Find(&ds).Error
	return ds, err
}

// AddDepartmentOfficer appends officerID to the department's officer list once.
func (s *Service) AddDepartmentOfficer(ctx context.Context, departmentID, officerID string) error {
	res := s.db(ctx).Model(&models.Department{}).
		Where("id = ? AND NOT (? = ANY(COALESCE(officer_ids, '{}')))", departmentID, officerID).
		Update("officer_ids", gorm.Expr("array_append(COALESCE(officer_ids, '{}'), ?)", officerID))
	return translate(res.Error)
}

// --- complaints ---

func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	if err := s.db(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint %q: %v", c.Title, err)
		return translate(err)
	}
	return nil
}

// GetComplaint loads a complaint with its citizen, officer, department and feedback.
func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.db(ctx).
		Preload("Citizen").
		Preload("AssignedOfficer").
		Preload("Department").
		Preload("Feedback").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// UpdateComplaint writes the named columns of c, plus updated_at. Columns
// that are not named keep whatever the row holds now.
func (s *Service) UpdateComplaint(ctx context.Context, c *models.Complaint, columns ...string) error {
	if len(columns) == 0 {
		return errors.New("no complaint columns to update")
	}
	res := updateColumns(s.db(ctx), c, columns)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func updateColumns(tx *gorm.DB, c *models.Complaint, columns []string) *gorm.DB {
	selected := append(append([]string{}, columns...), "updated_at")
	return tx.Model(c).Select(selected).Omit(clause.Associations).Updates(c)
}

func scope(tx *gorm.DB, q visibility.Query) *gorm.DB {
	switch {
	case q.All:
		return tx
	case q.CitizenID != "":
		return tx.Where("citizen_id = ?", q.CitizenID)
	case q.OfficerID != "" && q.DepartmentID != "":
		return tx.Where(
			"assigned_officer_id = ? OR (assigned_officer_id IS NULL AND department_id = ?)",
			q.OfficerID, q.DepartmentID,
		)
	case q.OfficerID != "":
		return tx.Where("assigned_officer_id = ?", q.OfficerID)
	default:
		return tx.Where("1 = 0")
	}
}

// ListComplaints returns one page of the complaints visible through q, newest first, and the total count.
func (s *Service) ListComplaints(ctx context.Context, q visibility.Query, f ComplaintFilter) ([]models.Complaint, int64, error) {
	tx := scope(s.db(ctx).Model(&models.Complaint{}), q)
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Complaint
	err := tx.
		Preload("Citizen").
		Preload("AssignedOfficer").
		Preload("Department").
		Order("created_at desc").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Service) CountComplaints(ctx context.Context) (int64, error) {
	var n int64
	err := s.db(ctx).Model(&models.Complaint{}).Count(&n).Error
	return n, err
}

var groupableColumns = map[string]bool{"status": true, "category": true, "priority": true, "sentiment": true, "role": true}

// CountComplaintsBy groups complaints by one of status, category, priority or sentiment.
func (s *Service) CountComplaintsBy(ctx context.Context, column string) (map[string]int64, error) {
	return s.countBy(ctx, &models.Complaint{}, column)
}

func (s *Service) countBy(ctx context.Context, model any, column string) (map[string]int64, error) {
	if !groupableColumns[column] {
		return nil, errors.New("cannot group by " + column)
	}
	var rows []struct {
		Label string
		Count int64
	}
	err := s.db(ctx).Model(model).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Count
	}
	return out, nil
}

// ResolvedSpans returns created/resolved times of Resolved complaints that carry a resolvedAt.
func (s *Service) ResolvedSpans(ctx context.Context) ([]Span, error) {
	var spans []Span
	err := s.db(ctx).Model(&models.Complaint{}).
		Select("created_at, resolved_at").
		Where("status = ? AND resolved_at IS NOT NULL", models.StatusResolved).
		Scan(&spans).Error
	return spans, err
}

func (s *Service) RecentComplaints(ctx context.Context, limit int) ([]models.Complaint, error) {
	var out []models.Complaint
	err := s.db(ctx).
		Preload("Citizen").
		Preload("Department").
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// --- feedback ---

func (s *Service) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return translate(s.db(ctx).Create(f).Error)
}

func (s *Service) UpdateFeedback(ctx context.Context, f *models.Feedback) error {
	return translate(s.db(ctx).Save(f).Error)
}

func (s *Service) GetFeedbackByComplaint(ctx context.Context, complaintID string) (*models.Feedback, error) {
	var f models.Feedback
	if err := s.db(ctx).Where("complaint_id = ?", complaintID).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *Service) ListFeedback(ctx context.Context, citizenID *string) ([]models.Feedback, error) {
	var out []models.Feedback
	tx := s.db(ctx).Order("created_at desc")
	if citizenID != nil {
		tx = tx.Where("citizen_id = ?", *citizenID)
	}
	err := tx.Find(&out).Error
	return out, err
}

// LinkFeedback points the complaint at its feedback record.
func (s *Service) LinkFeedback(ctx context.Context, complaintID, feedbackID string) error {
	return translate(s.db(ctx).Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Update("feedback_id", feedbackID).Error)
}

// --- realtime broker ---

func (s *Service) HasBroker() bool { return s.Redis != nil }

// PublishEnvelope publishes env on the shared events channel.
func (s *Service) PublishEnvelope(ctx context.Context, env models.Envelope) error {
	if s.Redis == nil {
		return errors.New("redis is not configured")
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, config.EventsChannel, msg).Err()
}

func (s *Service) SubscribeEnvelopes(ctx context.Context) Subscription {
	return s.Redis.Subscribe(ctx, config.EventsChannel)
}
