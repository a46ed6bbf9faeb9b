package codeclog

import (
	"bytes"
	"strings"
	"testing"
)

func TestStandardLogger_PrefixesClassification(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf)
	l.Logger.SetFlags(0)

	l.Logf(Tag, "accepted unregistered tag %d", 999)

	got := buf.String()
	if !strings.Contains(got, "TAG accepted unregistered tag 999") {
		t.Fatalf("unexpected log output: %q", got)
	}
}

func TestNoop_DiscardsEntries(t *testing.T) {
	var n Noop
	n.Logf(Strict, "should go nowhere")
}
