package services

import (
	"context"
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/repositories"
)

// Repository interfaces consumed by the services. The pgx-backed types in
// the repositories package satisfy them; tests substitute in-memory fakes.

// AccountRepository persists accounts and their credential token slots
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByVerificationToken(ctx context.Context, digest string) (*models.Account, error)
	GetByResetToken(ctx context.Context, digest string) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id int64) error
	CreateWithStudent(ctx context.Context, account *models.Account, student *models.Student) error
	CreateWithTeacher(ctx context.Context, account *models.Account, teacher *models.Teacher) error
}

// StudentRepository persists student profiles
type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error)
	List(ctx context.Context, classID *int64, search string, page, size int) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	LastRollNumber(ctx context.Context) (string, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// TeacherRepository persists teacher profiles
type TeacherRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetByAccountID(ctx context.Context, accountID int64) (*models.Teacher, error)
	List(ctx context.Context, search string, page, size int) ([]*models.Teacher, int64, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	LastEmployeeID(ctx context.Context) (string, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// ClassRepository persists classes
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	GetAll(ctx context.Context) ([]*models.Class, error)
	NameExists(ctx context.Context, name string, section *string) (bool, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// SubjectRepository persists subjects
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	NameExists(ctx context.Context, name string) (bool, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// AssignmentRepository persists teacher assignments
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
	GetByID(ctx context.Context, id int64) (*models.TeacherAssignment, error)
	List(ctx context.Context, teacherID, classID, subjectID *int64) ([]*models.TeacherAssignment, error)
	Exists(ctx context.Context, teacherID, classID, subjectID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// AttendanceRepository persists attendance records
type AttendanceRepository interface {
	InTx(ctx context.Context, fn func(w repositories.AttendanceWriter) error) error
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	Upsert(ctx context.Context, record *models.AttendanceRecord) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	GetByStudentAndDate(ctx context.Context, studentID int64, date time.Time) (*models.AttendanceRecord, error)
	Query(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.AttendanceRecord, int64, error)
	Summary(ctx context.Context, studentID int64, dateFrom, dateTo *time.Time) (map[models.AttendanceStatus]int, error)
	Delete(ctx context.Context, id int64) error
}
