package merge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendStateLog_WritesPlanAndMergeBlocks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "merge.state")

	rec := NewRunRecord([]string{"secmerge", "-s", "2", "dump one.img", "b.img", "out.img"},
		"dump one.img", "b.img", "out.img", DefaultOptions())
	rec.Result = Result{Sectors: 10, Tally: Tally{ABad: 3, Fixed: 2}}

	if err := AppendStateLog(file, PhasePlan, rec, nil); err != nil {
		t.Fatalf("append PLAN: %v", err)
	}
	if err := AppendStateLog(file, PhaseMergeSuccess, rec, nil); err != nil {
		t.Fatalf("append MERGE_SUCCESS: %v", err)
	}
	if err := AppendStateLog(file, PhaseMergeFailed, rec, errors.New("disk on fire")); err != nil {
		t.Fatalf("append MERGE_FAILED: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	text := string(data)
	if strings.Count(text, "# sector merge state log") != 1 {
		t.Fatalf("expected exactly one header:\n%s", text)
	}
	for _, want := range []string{
		"=== PLAN ", "=== MERGE_SUCCESS ", "=== MERGE_FAILED ",
		"run: " + rec.ID.String(),
		`command: secmerge -s 2 'dump one.img' b.img out.img`,
		"fixed: 2",
		"result: PENDING MERGE",
		"result: SUCCESS",
		"result: FAILED: disk on fire",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("state file missing %q:\n%s", want, text)
		}
	}
}
