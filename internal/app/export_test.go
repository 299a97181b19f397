package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"findata-api/internal/storage"
)

func makeObservations(n int) []storage.Observation {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	out := make([]storage.Observation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, storage.Observation{
			SeriesID:   1,
			ObservedAt: day.AddDate(0, 0, i),
			Value:      decimal.NewFromInt(int64(100 + i)),
		})
	}
	return out
}

func TestDownsampleObservations(t *testing.T) {
	observations := makeObservations(100)

	result := downsampleObservations(observations, 10)
	if len(result) != 10 {
		t.Fatalf("降采样后应有 10 个点, 实际 %d", len(result))
	}
	if !result[0].ObservedAt.Equal(observations[0].ObservedAt) {
		t.Fatalf("首点应保留: %v", result[0].ObservedAt)
	}
	if !result[9].ObservedAt.Equal(observations[99].ObservedAt) {
		t.Fatalf("末点应保留: %v", result[9].ObservedAt)
	}
}

func TestDownsampleObservationsNoop(t *testing.T) {
	observations := makeObservations(5)

	if got := downsampleObservations(observations, 10); len(got) != 5 {
		t.Fatalf("点数不足时不应降采样: %d", len(got))
	}
	if got := downsampleObservations(observations, 0); len(got) != 5 {
		t.Fatalf("max 为 0 时不应降采样: %d", len(got))
	}
}

func TestWriteObservationsCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "series.csv")

	series := storage.Series{SeriesID: 1, SeriesName: "Gold Spot USD"}
	if err := writeObservationsCSV(path, series, makeObservations(3)); err != nil {
		t.Fatalf("写入 CSV 不应报错: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取 CSV 失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 {
		t.Fatalf("CSV 应含表头和 3 行数据, 实际 %d 行", len(lines))
	}
	if !strings.HasPrefix(lines[0], "series_id,series_name,observation_date") {
		t.Fatalf("表头不正确: %s", lines[0])
	}
	if !strings.Contains(lines[1], "2026-08-01") {
		t.Fatalf("首行数据不正确: %s", lines[1])
	}
}
