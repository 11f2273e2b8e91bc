package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", " warn ", slog.LevelWarn},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if level := ParseLevel(tt.value); level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.value, level, tt.expected)
			}
		})
	}
}

func TestNewLogger_LevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "ERROR")
	logger := NewLogger()
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("WARN should be disabled when SPACEFLIGHT_LOG_LEVEL=ERROR")
	}
}

func TestRunID(t *testing.T) {
	t.Run("generate run ID", func(t *testing.T) {
		id1 := GenerateRunID()
		id2 := GenerateRunID()

		if id1 == "" || id2 == "" {
			t.Error("GenerateRunID() returned empty string")
		}
		if id1 == id2 {
			t.Error("GenerateRunID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("GenerateRunID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("context round trip", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-42")
		if id := GetRunID(ctx); id != "run-42" {
			t.Errorf("GetRunID() = %q, want %q", id, "run-42")
		}
	})

	t.Run("missing run ID", func(t *testing.T) {
		if id := GetRunID(context.Background()); id != "" {
			t.Errorf("GetRunID() = %q, want empty string", id)
		}
	})

	t.Run("empty ID is generated", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "")
		if GetRunID(ctx) == "" {
			t.Error("WithRunID() with empty string should auto-generate ID")
		}
	})
}

func TestFormatAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"finite float kept", slog.Float64("speed", 12.5), "12.5"},
		{"nan float", slog.Float64("load_factor", math.NaN()), "NaN"},
		{"infinite float", slog.Float64("angular_speed_deg", math.Inf(1)), "+Inf"},
		{"vector", slog.Any("velocity", mgl64.Vec3{1, 0, -2}), "[1 0 -2]"},
		{"vector with nan", slog.Any("position", mgl64.Vec3{0, math.NaN(), 3}), "[0 NaN 3]"},
		{"ship name", slog.String("ship", "player"), "player"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatAttributes(nil, tt.attr)
			if got := result.Value.String(); got != tt.expected {
				t.Errorf("formatAttributes() = %q, want %q", got, tt.expected)
			}
			if result.Key != tt.attr.Key {
				t.Errorf("key = %q, want %q", result.Key, tt.attr.Key)
			}
		})
	}
}

func TestLogger_NonFiniteValuesStayValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	logger.Info(context.Background(), "Telemetry",
		"speed", math.NaN(),
		"velocity", mgl64.Vec3{math.Inf(-1), 0, 1},
	)

	entry := decode(t, &buf)
	if entry["speed"] != "NaN" {
		t.Errorf("speed = %v, want \"NaN\"", entry["speed"])
	}
	velocity, ok := entry["velocity"].([]interface{})
	if !ok || len(velocity) != 3 || velocity[0] != "-Inf" || velocity[2] != float64(1) {
		t.Errorf("velocity = %v", entry["velocity"])
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	return entry
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithRunID(context.Background(), "run-123")

	t.Run("info logging", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "simulation started", "ships", 2)

		entry := decode(t, &buf)
		if entry["msg"] != "simulation started" {
			t.Errorf("msg = %v", entry["msg"])
		}
		if entry["level"] != "INFO" {
			t.Errorf("level = %v", entry["level"])
		}
		if entry["run_id"] != "run-123" {
			t.Errorf("run_id = %v", entry["run_id"])
		}
		if entry["ships"] != float64(2) {
			t.Errorf("ships = %v", entry["ships"])
		}
	})

	t.Run("error logging", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "config rejected", errors.New("bad mass"))

		entry := decode(t, &buf)
		if entry["level"] != "ERROR" || entry["error"] != "bad mass" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("debug logging", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "mode toggled", "mode", "aim_assist")

		if entry := decode(t, &buf); entry["level"] != "DEBUG" {
			t.Errorf("level = %v", entry["level"])
		}
	})

	t.Run("warn logging", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "timestep clamped")

		if entry := decode(t, &buf); entry["level"] != "WARN" {
			t.Errorf("level = %v", entry["level"])
		}
	})
}

func TestLogger_RunIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo).With("component", "engine")

	logger.Log(WithRunID(context.Background(), "run-7"), slog.LevelInfo, "Simulation started")
	entry := decode(t, &buf)
	if entry["run_id"] != "run-7" || entry["component"] != "engine" {
		t.Errorf("derived logger lost attributes: %v", entry)
	}
}

func TestLogWithoutRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	logger.Info(context.Background(), "test message")
	if strings.Contains(buf.String(), "run_id") {
		t.Error("Log should not contain run_id when none is set in context")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error(context.Background(), "dropped", errors.New("x"))
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Discard logger should not enable INFO")
	}
}
