// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]LogMode{"dev": ModeDev, "JSON": ModeProd, " quiet ": ModeSilence} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if ModeProd.String() != "prod" {
		t.Fatalf("unexpected mode string %q", ModeProd.String())
	}
}

func TestWriterLoggerModes(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf, ModeProd).Debug("hidden")
	NewWriterLogger(&buf, ModeProd).Warn("fallback", "source", "bundled")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("prod mode should drop debug: %s", out)
	}
	if !strings.Contains(out, `"msg":"fallback"`) {
		t.Fatalf("prod mode should log json: %s", out)
	}

	buf.Reset()
	NewWriterLogger(&buf, ModeSilence).Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("silence mode wrote %q", buf.String())
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	sb := &syncBuffer{}
	ah := NewAsyncHandler(slog.NewTextHandler(sb, nil), 64)
	l := slog.New(ah).With("worker", 1)
	for i := 0; i < 10; i++ {
		l.Info("pick", "i", i)
	}
	ah.Close()
	if got := strings.Count(sb.String(), "msg=pick"); got+int(ah.Dropped()) != 10 {
		t.Fatalf("written %d dropped %d", got, ah.Dropped())
	}
	if !strings.Contains(sb.String(), "worker=1") {
		t.Fatalf("attrs lost: %s", sb.String())
	}

	_ = ah.Handle(context.Background(), slog.Record{})
	if ah.Dropped() == 0 {
		t.Fatalf("handle after close should count a drop")
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatalf("OrDiscard(nil) returned nil")
	}
	l := NewDefaultLogger(ModeSilence)
	if OrDiscard(l) != l {
		t.Fatalf("OrDiscard should keep a non-nil logger")
	}
}
