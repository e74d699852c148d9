package domain

import (
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	ts := time.Date(2024, 5, 1, 14, 30, 12, 0, time.UTC)
	rec := NewRecord(ts, "Lunch", 1200, CategoryFood)

	if rec.ID == "" {
		t.Error("expected generated id")
	}
	if want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC); !rec.Date.Equal(want) {
		t.Errorf("Date = %v, want %v (time-of-day stripped)", rec.Date, want)
	}
	if rec.IsBusiness {
		t.Error("IsBusiness should default to false")
	}
	if rec.Note != "" || rec.LocationFrom != "" || rec.LocationTo != "" {
		t.Error("optional text fields should default to empty")
	}
	if rec.SyncedToSheets {
		t.Error("SyncedToSheets should default to false")
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	a := NewRecord(time.Now(), "A", 1, CategoryFood)
	b := NewRecord(time.Now(), "B", 2, CategoryFood)
	if a.ID == b.ID {
		t.Errorf("two records share id %s", a.ID)
	}
}

func TestRecord_Validate(t *testing.T) {
	valid := func() *Record {
		return NewRecord(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "Lunch", 1200, CategoryFood)
	}

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr bool
	}{
		{name: "valid record", mutate: func(r *Record) {}, wantErr: false},
		{name: "zero amount is allowed", mutate: func(r *Record) { r.Amount = 0 }, wantErr: false},
		{name: "missing id", mutate: func(r *Record) { r.ID = "" }, wantErr: true},
		{name: "empty title", mutate: func(r *Record) { r.Title = "" }, wantErr: true},
		{name: "negative amount", mutate: func(r *Record) { r.Amount = -1 }, wantErr: true},
		{name: "unknown category", mutate: func(r *Record) { r.Category = Category("謎") }, wantErr: true},
		{name: "zero date", mutate: func(r *Record) { r.Date = time.Time{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid()
			tt.mutate(rec)
			err := rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
