package logger

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestNewLogger(t *testing.T) {
	for _, test := range []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"console info", Options{LogEncoding: "console", LogLevel: "info"}, false},
		{"json trace", Options{LogEncoding: "json", LogLevel: "trace"}, false},
		{"unknown level", Options{LogEncoding: "json", LogLevel: "loud"}, true},
		{"unknown encoding", Options{LogEncoding: "xml", LogLevel: "info"}, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLogger(test.opts)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Errorf("NewLogger(%+v) error = %v, want error: %t",
					test.opts, err, test.wantErr)
			}
		})
	}
}

func TestBindFlags(t *testing.T) {
	var (
		opts Options
		fs   = pflag.NewFlagSet("test", pflag.ContinueOnError)
	)
	opts.BindFlags(fs)
	if err := fs.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatal(err)
	}
	if opts.LogLevel != "debug" || opts.LogEncoding != "console" {
		t.Errorf("unexpected options %+v", opts)
	}
	encoding, level := Changed(fs)
	if encoding || !level {
		t.Errorf("expected only the level flag to be changed, got encoding=%t level=%t",
			encoding, level)
	}
}
