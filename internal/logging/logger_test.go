package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resetState clears package state between tests.
func resetState() {
	CloseAll()
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
	logLevel = LevelInfo
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, ".cfsedit")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  debug_mode: true
  level: debug
  categories:
    boot: true
    store: true
    session: true
    export: true
    image: true
    ui: true
`)

	resetState()
	defer resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{CategoryBoot, CategoryStore, CategorySession,
		CategoryExport, CategoryImage, CategoryUI}
	for _, c := range categories {
		Get(c).Info("hello from %s", c)
	}
	CloseAll()

	date := time.Now().Format("2006-01-02")
	for _, c := range categories {
		path := filepath.Join(tempDir, ".cfsedit", "logs", date+"_"+string(c)+".log")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Expected log file for %s: %v", c, err)
			continue
		}
		if !strings.Contains(string(data), "hello from "+string(c)) {
			t.Errorf("Log file for %s missing message", c)
		}
	}
}

func TestNoConfigMeansNoLogging(t *testing.T) {
	tempDir := t.TempDir()

	resetState()
	defer resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected debug mode off without config")
	}
	// Logging without debug mode is a silent no-op.
	Store("should go nowhere")

	if _, err := os.Stat(filepath.Join(tempDir, ".cfsedit", "logs")); !os.IsNotExist(err) {
		t.Error("Expected no logs directory without debug mode")
	}
}

func TestDisabledCategory(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  debug_mode: true
  level: debug
  categories:
    store: false
`)

	resetState()
	defer resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsCategoryEnabled(CategoryStore) {
		t.Error("Expected store category disabled")
	}
	// Categories not named in the config stay enabled.
	if !IsCategoryEnabled(CategorySession) {
		t.Error("Expected session category enabled by default")
	}

	Store("dropped")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	if _, err := os.Stat(filepath.Join(tempDir, ".cfsedit", "logs", date+"_store.log")); !os.IsNotExist(err) {
		t.Error("Expected no store log file for disabled category")
	}
}

func TestLogLevelFiltersDebug(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  debug_mode: true
  level: info
`)

	resetState()
	defer resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	StoreDebug("too detailed")
	Store("worth keeping")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(tempDir, ".cfsedit", "logs", date+"_store.log"))
	if err != nil {
		t.Fatalf("Failed to read store log: %v", err)
	}
	if strings.Contains(string(data), "too detailed") {
		t.Error("Debug message logged at info level")
	}
	if !strings.Contains(string(data), "worth keeping") {
		t.Error("Info message missing")
	}
}

func TestTimerLogsDuration(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
logging:
  debug_mode: true
  level: debug
`)

	resetState()
	defer resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	timer := StartTimer(CategoryStore, "TestOp")
	elapsed := timer.Stop()
	if elapsed < 0 {
		t.Errorf("Unexpected elapsed time: %v", elapsed)
	}
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(tempDir, ".cfsedit", "logs", date+"_store.log"))
	if err != nil {
		t.Fatalf("Failed to read store log: %v", err)
	}
	if !strings.Contains(string(data), "TestOp completed in") {
		t.Error("Timer message missing")
	}
}
