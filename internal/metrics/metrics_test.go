package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFixture(t *testing.T) {
	before := testutil.ToFloat64(FixturesWritten.WithLabelValues("t_fixture", "source"))
	beforeBytes := TotalBytes()

	RecordFixture("t_fixture", "source", 60000)
	RecordFixture("t_fixture", "source", 40000)
	RecordFixture("t_fixture", "golden", 100000)

	if got := testutil.ToFloat64(FixturesWritten.WithLabelValues("t_fixture", "source")); got != before+2 {
		t.Errorf("expected %v source fixtures, got %v", before+2, got)
	}
	if got := testutil.ToFloat64(FixtureBytesWritten.WithLabelValues("t_fixture")); got != 200000 {
		t.Errorf("expected 200000 bytes, got %v", got)
	}
	if got := TotalBytes() - beforeBytes; got != 200000 {
		t.Errorf("expected total bytes to grow by 200000, got %d", got)
	}
}

func TestRecordGoldenOverwrites(t *testing.T) {
	RecordGolden("t_golden", 45000)
	RecordGolden("t_golden", 90000)
	if got := testutil.ToFloat64(GoldenElements.WithLabelValues("t_golden")); got != 90000 {
		t.Errorf("expected gauge 90000, got %v", got)
	}
}

func TestRecordShapeError(t *testing.T) {
	RecordShapeError("t_shape")
	if got := testutil.ToFloat64(ShapeErrors.WithLabelValues("t_shape")); got != 1 {
		t.Errorf("expected 1 shape error, got %v", got)
	}
}

func TestRecordScenarioDuration(t *testing.T) {
	RecordScenarioDuration("t_duration", 10*time.Millisecond)
	RecordScenarioDuration("t_duration", 20*time.Millisecond)
	if n := testutil.CollectAndCount(ScenarioDuration, "mergegen_scenario_duration_seconds"); n == 0 {
		t.Error("expected histogram series to be collected")
	}
}

func TestRecordFlightRequest(t *testing.T) {
	RecordFlightRequest("DoGet", "ok")
	if got := testutil.ToFloat64(FlightRequests.WithLabelValues("DoGet", "ok")); got < 1 {
		t.Errorf("expected at least one request, got %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordFixture("t_textfile", "golden", 4)
	path := filepath.Join(t.TempDir(), "mergegen.prom")

	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `mergegen_fixtures_written_total{role="golden",scenario="t_textfile"} 1`) {
		t.Errorf("textfile missing fixture counter:\n%s", raw)
	}
}
