package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository    *AccountRepository
	StudentRepository    *StudentRepository
	TeacherRepository    *TeacherRepository
	ClassRepository      *ClassRepository
	SubjectRepository    *SubjectRepository
	AssignmentRepository *AssignmentRepository
	AttendanceRepository *AttendanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:    NewAccountRepository(db),
		StudentRepository:    NewStudentRepository(db),
		TeacherRepository:    NewTeacherRepository(db),
		ClassRepository:      NewClassRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
	}
}
