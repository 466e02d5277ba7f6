package importer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/liftmax/internal/models"
)

// fakeInserter records what the importer tries to insert.
type fakeInserter struct {
	sets  []models.TrainingSet
	tests []models.TestedMax
}

func (f *fakeInserter) InsertTrainingSets(_ context.Context, sets []models.TrainingSet) (int64, error) {
	f.sets = append(f.sets, sets...)
	return int64(len(sets)), nil
}

func (f *fakeInserter) InsertTestedMaxes(_ context.Context, tests []models.TestedMax) (int64, error) {
	f.tests = append(f.tests, tests...)
	return int64(len(tests)), nil
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestImportSets verifies header detection, row parsing, and that the user
// ID is stamped onto every record.
func TestImportSets(t *testing.T) {
	csv := `date,lift,weight_kg,reps,rir
2026-03-01,bench,100,5,0
2026-03-10T08:30:00Z,squat,140,3,2
`
	db := &fakeInserter{}
	im := New(db, 7, false, discardLog())

	stats, err := im.ImportSets(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsRead != 2 || stats.RowsRejected != 0 {
		t.Errorf("stats = %+v, want 2 read, 0 rejected", stats)
	}
	if stats.SetsInserted != 2 {
		t.Errorf("inserted = %d, want 2", stats.SetsInserted)
	}
	if len(db.sets) != 2 {
		t.Fatalf("db received %d sets, want 2", len(db.sets))
	}
	if db.sets[0].UserID != 7 || db.sets[1].UserID != 7 {
		t.Error("user ID not stamped onto imported sets")
	}
	if db.sets[0].Lift != models.LiftBench || db.sets[0].WeightKg != 100 || db.sets[0].Reps != 5 {
		t.Errorf("first set = %+v, want bench 100kg x5", db.sets[0])
	}
	if db.sets[1].PerformedAt.Hour() != 8 {
		t.Errorf("RFC3339 timestamp not preserved: %v", db.sets[1].PerformedAt)
	}
	if db.sets[0].ID == db.sets[1].ID {
		t.Error("imported sets should get distinct IDs")
	}
}

// TestImportSetsRejectsBadRows verifies invalid rows are counted and skipped
// without failing the whole import.
func TestImportSetsRejectsBadRows(t *testing.T) {
	csv := `2026-03-01,bench,100,5,0
2026-03-02,curl,40,10,1
2026-03-03,bench,-5,5,0
2026-03-04,bench,100,0,0
2026-03-05,bench,100,5,-1
not-a-date,bench,100,5,0
`
	db := &fakeInserter{}
	im := New(db, 1, false, discardLog())

	stats, err := im.ImportSets(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsRead != 6 {
		t.Errorf("rows read = %d, want 6", stats.RowsRead)
	}
	if stats.RowsRejected != 5 {
		t.Errorf("rows rejected = %d, want 5", stats.RowsRejected)
	}
	if len(db.sets) != 1 {
		t.Fatalf("db received %d sets, want 1 valid row", len(db.sets))
	}
}

// TestImportSetsDryRun verifies dry-run mode parses but never inserts.
func TestImportSetsDryRun(t *testing.T) {
	db := &fakeInserter{}
	im := New(db, 1, true, discardLog())

	stats, err := im.ImportSets(context.Background(), strings.NewReader("2026-03-01,bench,100,5,0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsRead != 1 || stats.SetsInserted != 0 {
		t.Errorf("stats = %+v, want 1 read and nothing inserted", stats)
	}
	if len(db.sets) != 0 {
		t.Errorf("dry run inserted %d sets", len(db.sets))
	}
}

// TestImportTests verifies the three-column tested-max format.
func TestImportTests(t *testing.T) {
	csv := `date,lift,weight_kg
2026-04-01,deadlift,210
2026-04-15,overhead_press,0
`
	db := &fakeInserter{}
	im := New(db, 3, false, discardLog())

	stats, err := im.ImportTests(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsRead != 2 || stats.RowsRejected != 1 {
		t.Errorf("stats = %+v, want 2 read, 1 rejected (zero weight)", stats)
	}
	if len(db.tests) != 1 {
		t.Fatalf("db received %d tests, want 1", len(db.tests))
	}
	if db.tests[0].Lift != models.LiftDeadlift || db.tests[0].WeightKg != 210 || db.tests[0].UserID != 3 {
		t.Errorf("test = %+v, want user 3 deadlift 210kg", db.tests[0])
	}
}

// TestImportWrongColumnCount verifies a structurally malformed CSV is an
// error rather than silently partial.
func TestImportWrongColumnCount(t *testing.T) {
	im := New(&fakeInserter{}, 1, false, discardLog())
	_, err := im.ImportSets(context.Background(), strings.NewReader("2026-03-01,bench,100\n"))
	if err == nil {
		t.Error("expected error for wrong column count")
	}
}
