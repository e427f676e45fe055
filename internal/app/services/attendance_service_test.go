package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

type attendanceFixture struct {
	svc     *AttendanceService
	records *fakeAttendanceRepo
	classID int64
	// student IDs in insertion order
	students []int64
}

func newAttendanceFixture(t *testing.T, studentCount int) *attendanceFixture {
	t.Helper()

	students := newFakeStudentRepo()
	classes := newFakeClassRepo()
	records := newFakeAttendanceRepo()

	class := &models.Class{Name: "Grade 5", IsActive: true}
	if err := classes.Create(context.Background(), class); err != nil {
		t.Fatalf("create class: %v", err)
	}

	f := &attendanceFixture{
		svc:     NewAttendanceService(records, students, classes, zerolog.Nop()),
		records: records,
		classID: class.ID,
	}
	for i := 0; i < studentCount; i++ {
		s := &models.Student{
			AccountID:  int64(100 + i),
			RollNumber: "STU00" + string(rune('1'+i)),
			ClassID:    &class.ID,
		}
		students.insert(s)
		f.students = append(f.students, s.ID)
	}
	return f
}

func TestRecordOne(t *testing.T) {
	f := newAttendanceFixture(t, 1)
	ctx := context.Background()

	record, err := f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
		StudentID: f.students[0],
		ClassID:   f.classID,
		Date:      "2026-03-02",
		Status:    models.AttendancePresent,
	})
	if err != nil {
		t.Fatalf("RecordOne returned error: %v", err)
	}
	if record.Status != models.AttendancePresent {
		t.Errorf("status = %s, want PRESENT", record.Status)
	}
	if got := record.Date.Format("2006-01-02"); got != "2026-03-02" {
		t.Errorf("date = %s, want 2026-03-02", got)
	}

	// Same student, same day: a second mark conflicts
	_, err = f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
		StudentID: f.students[0],
		ClassID:   f.classID,
		Date:      "2026-03-02",
		Status:    models.AttendanceAbsent,
	})
	if !errors.Is(err, apperrors.ErrAttendanceExists) {
		t.Fatalf("duplicate RecordOne error = %v, want ErrAttendanceExists", err)
	}

	// A different day is fine
	if _, err := f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
		StudentID: f.students[0],
		ClassID:   f.classID,
		Date:      "2026-03-03",
		Status:    models.AttendanceAbsent,
	}); err != nil {
		t.Fatalf("RecordOne next day returned error: %v", err)
	}
}

func TestRecordOneRejectsUnknownStudent(t *testing.T) {
	f := newAttendanceFixture(t, 1)

	_, err := f.svc.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 9999,
		ClassID:   f.classID,
		Date:      "2026-03-02",
		Status:    models.AttendancePresent,
	})
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("RecordOne error = %v, want ErrStudentNotFound", err)
	}
}

func TestRecordOneRejectsBadInput(t *testing.T) {
	f := newAttendanceFixture(t, 1)
	ctx := context.Background()

	_, err := f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
		StudentID: f.students[0],
		ClassID:   f.classID,
		Date:      "2026-03-02",
		Status:    "SLEEPING",
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("invalid status error = %v, want ErrValidationFailed", err)
	}

	_, err = f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
		StudentID: f.students[0],
		ClassID:   f.classID,
		Date:      "02/03/2026",
		Status:    models.AttendancePresent,
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("invalid date error = %v, want ErrValidationFailed", err)
	}
}

func TestRecordBulkIsIdempotent(t *testing.T) {
	f := newAttendanceFixture(t, 3)
	ctx := context.Background()

	req := &dto.BulkAttendanceRequest{
		ClassID: f.classID,
		Date:    "2026-03-02",
		Entries: []dto.BulkAttendanceEntry{
			{StudentID: f.students[0], Status: models.AttendancePresent},
			{StudentID: f.students[1], Status: models.AttendanceAbsent},
			{StudentID: f.students[2], Status: models.AttendanceLate},
		},
	}

	result, err := f.svc.RecordBulk(ctx, req)
	if err != nil {
		t.Fatalf("RecordBulk returned error: %v", err)
	}
	if result.Created != 3 || result.Updated != 0 {
		t.Errorf("first run created=%d updated=%d, want 3/0", result.Created, result.Updated)
	}

	// Resubmitting the same sheet overwrites rather than conflicts
	req.Entries[1].Status = models.AttendanceExcused
	result, err = f.svc.RecordBulk(ctx, req)
	if err != nil {
		t.Fatalf("second RecordBulk returned error: %v", err)
	}
	if result.Created != 0 || result.Updated != 3 {
		t.Errorf("second run created=%d updated=%d, want 0/3", result.Created, result.Updated)
	}
	if len(f.records.records) != 3 {
		t.Errorf("record count = %d, want 3 (one per student per day)", len(f.records.records))
	}

	records, _, err := f.svc.Query(ctx, &dto.AttendanceFilterRequest{StudentID: &f.students[1]})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(records) != 1 || records[0].Status != models.AttendanceExcused {
		t.Errorf("overwritten record = %+v, want single EXCUSED entry", records)
	}
}

func TestRecordBulkRejectsUnknownStudentUpfront(t *testing.T) {
	f := newAttendanceFixture(t, 1)

	_, err := f.svc.RecordBulk(context.Background(), &dto.BulkAttendanceRequest{
		ClassID: f.classID,
		Date:    "2026-03-02",
		Entries: []dto.BulkAttendanceEntry{
			{StudentID: f.students[0], Status: models.AttendancePresent},
			{StudentID: 9999, Status: models.AttendanceAbsent},
		},
	})
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("RecordBulk error = %v, want ErrStudentNotFound", err)
	}
	// Validation runs before any write, so the batch leaves no partial state
	if len(f.records.records) != 0 {
		t.Errorf("record count = %d after rejected batch, want 0", len(f.records.records))
	}
}

func TestQueryNewestFirst(t *testing.T) {
	f := newAttendanceFixture(t, 1)
	ctx := context.Background()

	for _, day := range []string{"2026-03-02", "2026-03-04", "2026-03-03"} {
		if _, err := f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
			StudentID: f.students[0],
			ClassID:   f.classID,
			Date:      day,
			Status:    models.AttendancePresent,
		}); err != nil {
			t.Fatalf("RecordOne(%s) returned error: %v", day, err)
		}
	}

	records, total, err := f.svc.Query(ctx, &dto.AttendanceFilterRequest{StudentID: &f.students[0]})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	want := []string{"2026-03-04", "2026-03-03", "2026-03-02"}
	for i, w := range want {
		if got := records[i].Date.Format("2006-01-02"); got != w {
			t.Errorf("records[%d].Date = %s, want %s", i, got, w)
		}
	}

	// Range filter trims both ends
	from, to := "2026-03-03", "2026-03-03"
	records, _, err = f.svc.Query(ctx, &dto.AttendanceFilterRequest{
		StudentID: &f.students[0],
		DateFrom:  from,
		DateTo:    to,
	})
	if err != nil {
		t.Fatalf("ranged Query returned error: %v", err)
	}
	if len(records) != 1 || records[0].Date.Format("2006-01-02") != "2026-03-03" {
		t.Errorf("ranged Query = %d records, want exactly 2026-03-03", len(records))
	}
}

func TestSummary(t *testing.T) {
	f := newAttendanceFixture(t, 1)
	ctx := context.Background()

	marks := []struct {
		day    string
		status models.AttendanceStatus
	}{
		{"2026-03-02", models.AttendancePresent},
		{"2026-03-03", models.AttendancePresent},
		{"2026-03-04", models.AttendancePresent},
		{"2026-03-05", models.AttendanceAbsent},
		{"2026-03-06", models.AttendanceLate},
	}
	for _, m := range marks {
		if _, err := f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
			StudentID: f.students[0],
			ClassID:   f.classID,
			Date:      m.day,
			Status:    m.status,
		}); err != nil {
			t.Fatalf("RecordOne(%s) returned error: %v", m.day, err)
		}
	}

	summary, err := f.svc.Summary(ctx, f.students[0], "", "")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.PresentDays != 3 || summary.AbsentDays != 1 || summary.LateDays != 1 || summary.ExcusedDays != 0 {
		t.Errorf("summary = %+v, want 3 present / 1 absent / 1 late / 0 excused", summary)
	}
	if summary.TotalDays != 5 {
		t.Errorf("total days = %d, want 5", summary.TotalDays)
	}
	if summary.PresentRatio != 0.6 {
		t.Errorf("present ratio = %v, want 0.6", summary.PresentRatio)
	}
}

func TestSummaryUnknownStudent(t *testing.T) {
	f := newAttendanceFixture(t, 1)

	_, err := f.svc.Summary(context.Background(), 9999, "", "")
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("Summary error = %v, want ErrStudentNotFound", err)
	}
}

func TestUpdateAttendance(t *testing.T) {
	f := newAttendanceFixture(t, 1)
	ctx := context.Background()

	record, err := f.svc.RecordOne(ctx, &dto.RecordAttendanceRequest{
		StudentID: f.students[0],
		ClassID:   f.classID,
		Date:      "2026-03-02",
		Status:    models.AttendanceAbsent,
	})
	if err != nil {
		t.Fatalf("RecordOne returned error: %v", err)
	}

	remarks := "doctor's note"
	updated, err := f.svc.Update(ctx, record.ID, models.AttendanceExcused, &remarks)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != models.AttendanceExcused {
		t.Errorf("status = %s, want EXCUSED", updated.Status)
	}
	if updated.Remarks == nil || *updated.Remarks != remarks {
		t.Errorf("remarks = %v, want %q", updated.Remarks, remarks)
	}
}
