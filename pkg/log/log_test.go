package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() {
		_ = Init("info", EncodingConsole)
	})

	tests := []struct {
		name      string
		level     string
		encoding  string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "debug json", level: "debug", encoding: EncodingJSON, wantLevel: zapcore.DebugLevel},
		{name: "keep level", level: "", encoding: EncodingConsole, wantLevel: zapcore.DebugLevel},
		{name: "warn", level: "warn", encoding: "", wantLevel: zapcore.WarnLevel},
		{name: "unknown level", level: "loud", encoding: EncodingConsole, wantErr: true},
		{name: "unknown encoding", level: "info", encoding: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.level, tt.encoding)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := Level(); got != tt.wantLevel {
				t.Errorf("Level() = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}
