package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/repositories"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
	"github.com/kerem/schoolhub/internal/pkg/token"
)

// In-memory fakes for the repository interfaces. Reads hand out copies so
// a service mutation only sticks after an explicit Update.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeAccountRepo struct {
	nextID   int64
	accounts map[int64]*models.Account
	students *fakeStudentRepo
	teachers *fakeTeacherRepo
}

func newFakeAccountRepo(students *fakeStudentRepo, teachers *fakeTeacherRepo) *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[int64]*models.Account),
		students: students,
		teachers: teachers,
	}
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

func (f *fakeAccountRepo) insert(account *models.Account) error {
	for _, existing := range f.accounts {
		if existing.Email == account.Email {
			return uniqueViolation("accounts_email_key")
		}
	}
	f.nextID++
	account.ID = f.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = copyAccount(account)
	return nil
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	return f.insert(account)
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if a, ok := f.accounts[id]; ok {
		return copyAccount(a), nil
	}
	return nil, apperrors.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByVerificationToken(ctx context.Context, digest string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.VerificationToken != nil && *a.VerificationToken == digest {
			return copyAccount(a), nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByResetToken(ctx context.Context, digest string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.ResetToken != nil && *a.ResetToken == digest {
			return copyAccount(a), nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (f *fakeAccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	if _, ok := f.accounts[account.ID]; !ok {
		return apperrors.ErrAccountNotFound
	}
	f.accounts[account.ID] = copyAccount(account)
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.accounts[id]; !ok {
		return apperrors.ErrAccountNotFound
	}
	delete(f.accounts, id)
	f.students.deleteByAccountID(id)
	f.teachers.deleteByAccountID(id)
	return nil
}

func (f *fakeAccountRepo) CreateWithStudent(ctx context.Context, account *models.Account, student *models.Student) error {
	for _, existing := range f.students.students {
		if existing.RollNumber == student.RollNumber {
			return uniqueViolation("students_roll_number_key")
		}
	}
	if err := f.insert(account); err != nil {
		return err
	}
	student.AccountID = account.ID
	f.students.insert(student)
	return nil
}

func (f *fakeAccountRepo) CreateWithTeacher(ctx context.Context, account *models.Account, teacher *models.Teacher) error {
	for _, existing := range f.teachers.teachers {
		if existing.EmployeeID == teacher.EmployeeID {
			return uniqueViolation("teachers_employee_id_key")
		}
	}
	if err := f.insert(account); err != nil {
		return err
	}
	teacher.AccountID = account.ID
	f.teachers.insert(teacher)
	return nil
}

type fakeStudentRepo struct {
	nextID   int64
	students map[int64]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[int64]*models.Student)}
}

func copyStudent(s *models.Student) *models.Student {
	c := *s
	return &c
}

func (f *fakeStudentRepo) insert(student *models.Student) {
	f.nextID++
	student.ID = f.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	f.students[student.ID] = copyStudent(student)
}

func (f *fakeStudentRepo) deleteByAccountID(accountID int64) {
	for id, s := range f.students {
		if s.AccountID == accountID {
			delete(f.students, id)
		}
	}
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return copyStudent(s), nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentRepo) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.AccountID == accountID {
			return copyStudent(s), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentRepo) List(ctx context.Context, classID *int64, search string, page, size int) ([]*models.Student, int64, error) {
	out := make([]*models.Student, 0)
	for _, s := range f.students {
		if classID != nil && (s.ClassID == nil || *s.ClassID != *classID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(s.FirstName+" "+s.LastName+" "+s.RollNumber), strings.ToLower(search)) {
			continue
		}
		out = append(out, copyStudent(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out, int64(len(out)), nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	f.students[student.ID] = copyStudent(student)
	return nil
}

func (f *fakeStudentRepo) LastRollNumber(ctx context.Context) (string, error) {
	last := ""
	for _, s := range f.students {
		if len(s.RollNumber) > len(last) || (len(s.RollNumber) == len(last) && s.RollNumber > last) {
			last = s.RollNumber
		}
	}
	return last, nil
}

func (f *fakeStudentRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.students[id]
	return ok, nil
}

type fakeTeacherRepo struct {
	nextID   int64
	teachers map[int64]*models.Teacher
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{teachers: make(map[int64]*models.Teacher)}
}

func copyTeacher(t *models.Teacher) *models.Teacher {
	c := *t
	return &c
}

func (f *fakeTeacherRepo) insert(teacher *models.Teacher) {
	f.nextID++
	teacher.ID = f.nextID
	teacher.CreatedAt = time.Now()
	teacher.UpdatedAt = teacher.CreatedAt
	f.teachers[teacher.ID] = copyTeacher(teacher)
}

func (f *fakeTeacherRepo) deleteByAccountID(accountID int64) {
	for id, t := range f.teachers {
		if t.AccountID == accountID {
			delete(f.teachers, id)
		}
	}
}

func (f *fakeTeacherRepo) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if t, ok := f.teachers[id]; ok {
		return copyTeacher(t), nil
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (f *fakeTeacherRepo) GetByAccountID(ctx context.Context, accountID int64) (*models.Teacher, error) {
	for _, t := range f.teachers {
		if t.AccountID == accountID {
			return copyTeacher(t), nil
		}
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (f *fakeTeacherRepo) List(ctx context.Context, search string, page, size int) ([]*models.Teacher, int64, error) {
	out := make([]*models.Teacher, 0)
	for _, t := range f.teachers {
		if search != "" && !strings.Contains(strings.ToLower(t.FirstName+" "+t.LastName+" "+t.EmployeeID), strings.ToLower(search)) {
			continue
		}
		out = append(out, copyTeacher(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, int64(len(out)), nil
}

func (f *fakeTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if _, ok := f.teachers[teacher.ID]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	f.teachers[teacher.ID] = copyTeacher(teacher)
	return nil
}

func (f *fakeTeacherRepo) LastEmployeeID(ctx context.Context) (string, error) {
	last := ""
	for _, t := range f.teachers {
		if len(t.EmployeeID) > len(last) || (len(t.EmployeeID) == len(last) && t.EmployeeID > last) {
			last = t.EmployeeID
		}
	}
	return last, nil
}

func (f *fakeTeacherRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.teachers[id]
	return ok, nil
}

type fakeClassRepo struct {
	nextID  int64
	classes map[int64]*models.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[int64]*models.Class)}
}

func (f *fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	f.nextID++
	class.ID = f.nextID
	class.CreatedAt = time.Now()
	class.UpdatedAt = class.CreatedAt
	c := *class
	f.classes[class.ID] = &c
	return nil
}

func (f *fakeClassRepo) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	if c, ok := f.classes[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, apperrors.ErrClassNotFound
}

func (f *fakeClassRepo) GetAll(ctx context.Context) ([]*models.Class, error) {
	out := make([]*models.Class, 0, len(f.classes))
	for _, c := range f.classes {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeClassRepo) NameExists(ctx context.Context, name string, section *string) (bool, error) {
	for _, c := range f.classes {
		if c.Name == name && equalStringPtr(c.Section, section) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassRepo) Update(ctx context.Context, class *models.Class) error {
	if _, ok := f.classes[class.ID]; !ok {
		return apperrors.ErrClassNotFound
	}
	c := *class
	f.classes[class.ID] = &c
	return nil
}

func (f *fakeClassRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.classes[id]; !ok {
		return apperrors.ErrClassNotFound
	}
	delete(f.classes, id)
	return nil
}

func (f *fakeClassRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.classes[id]
	return ok, nil
}

type fakeSubjectRepo struct {
	nextID   int64
	subjects map[int64]*models.Subject
}

func newFakeSubjectRepo() *fakeSubjectRepo {
	return &fakeSubjectRepo{subjects: make(map[int64]*models.Subject)}
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	f.nextID++
	subject.ID = f.nextID
	subject.CreatedAt = time.Now()
	subject.UpdatedAt = subject.CreatedAt
	s := *subject
	f.subjects[subject.ID] = &s
	return nil
}

func (f *fakeSubjectRepo) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		ss := *s
		return &ss, nil
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (f *fakeSubjectRepo) GetAll(ctx context.Context) ([]*models.Subject, error) {
	out := make([]*models.Subject, 0, len(f.subjects))
	for _, s := range f.subjects {
		ss := *s
		out = append(out, &ss)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSubjectRepo) NameExists(ctx context.Context, name string) (bool, error) {
	for _, s := range f.subjects {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubjectRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	for _, s := range f.subjects {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	if _, ok := f.subjects[subject.ID]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	s := *subject
	f.subjects[subject.ID] = &s
	return nil
}

func (f *fakeSubjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.subjects[id]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	delete(f.subjects, id)
	return nil
}

func (f *fakeSubjectRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.subjects[id]
	return ok, nil
}

type attendanceKey struct {
	studentID int64
	day       int64
}

type fakeAttendanceRepo struct {
	nextID  int64
	records map[attendanceKey]*models.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[attendanceKey]*models.AttendanceRecord)}
}

func copyRecord(r *models.AttendanceRecord) *models.AttendanceRecord {
	c := *r
	return &c
}

func (f *fakeAttendanceRepo) key(studentID int64, date time.Time) attendanceKey {
	return attendanceKey{studentID: studentID, day: date.Unix()}
}

func (f *fakeAttendanceRepo) InTx(ctx context.Context, fn func(w repositories.AttendanceWriter) error) error {
	return fn(f)
}

func (f *fakeAttendanceRepo) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	k := f.key(record.StudentID, record.Date)
	if _, ok := f.records[k]; ok {
		return apperrors.ErrAttendanceExists
	}
	f.nextID++
	record.ID = f.nextID
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[k] = copyRecord(record)
	return nil
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, record *models.AttendanceRecord) (bool, error) {
	k := f.key(record.StudentID, record.Date)
	if existing, ok := f.records[k]; ok {
		existing.ClassID = record.ClassID
		existing.Status = record.Status
		existing.Remarks = record.Remarks
		existing.UpdatedAt = time.Now()
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = existing.UpdatedAt
		return false, nil
	}
	f.nextID++
	record.ID = f.nextID
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[k] = copyRecord(record)
	return true, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return copyRecord(r), nil
		}
	}
	return nil, apperrors.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByStudentAndDate(ctx context.Context, studentID int64, date time.Time) (*models.AttendanceRecord, error) {
	if r, ok := f.records[f.key(studentID, date)]; ok {
		return copyRecord(r), nil
	}
	return nil, apperrors.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Query(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.AttendanceRecord, int64, error) {
	out := make([]*models.AttendanceRecord, 0)
	for _, r := range f.records {
		if filter.StudentID != nil && r.StudentID != *filter.StudentID {
			continue
		}
		if filter.ClassID != nil && r.ClassID != *filter.ClassID {
			continue
		}
		if filter.DateFrom != nil && r.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && r.Date.After(*filter.DateTo) {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) Summary(ctx context.Context, studentID int64, dateFrom, dateTo *time.Time) (map[models.AttendanceStatus]int, error) {
	counts := make(map[models.AttendanceStatus]int)
	for _, r := range f.records {
		if r.StudentID != studentID {
			continue
		}
		if dateFrom != nil && r.Date.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && r.Date.After(*dateTo) {
			continue
		}
		counts[r.Status]++
	}
	return counts, nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id int64) error {
	for k, r := range f.records {
		if r.ID == id {
			delete(f.records, k)
			return nil
		}
	}
	return apperrors.ErrAttendanceNotFound
}

// fakeNotifier records lifecycle emails instead of sending them
type notification struct {
	toEmail string
	toName  string
	kind    token.Kind
	raw     string
}

type fakeNotifier struct {
	sent     []notification
	welcomes []notification
}

func (f *fakeNotifier) SendTokenEmail(toEmail, toName string, kind token.Kind, rawToken string) error {
	f.sent = append(f.sent, notification{toEmail: toEmail, toName: toName, kind: kind, raw: rawToken})
	return nil
}

func (f *fakeNotifier) SendWelcomeEmail(toEmail, toName string) error {
	f.welcomes = append(f.welcomes, notification{toEmail: toEmail, toName: toName})
	return nil
}

func (f *fakeNotifier) last() notification {
	return f.sent[len(f.sent)-1]
}
