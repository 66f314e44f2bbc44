package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recorder struct {
	errs    []error
	panics  []any
	flushed bool
}

func (r *recorder) CaptureException(err error, _ map[string]string) { r.errs = append(r.errs, err) }
func (r *recorder) CapturePanic(v any, _ map[string]string)         { r.panics = append(r.panics, v) }
func (r *recorder) Flush(time.Duration)                             { r.flushed = true }

func TestGlobalMonitor(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(nil)

	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"route": "/predict"})
	CapturePanic(nil, nil)
	CapturePanic("index out of range", nil)
	Flush(time.Second)

	if len(rec.errs) != 1 || len(rec.panics) != 1 || !rec.flushed {
		t.Fatalf("unexpected capture state %+v", rec)
	}

	Init(nil)
	CaptureException(errors.New("ignored"), nil)
	if len(rec.errs) != 1 {
		t.Fatal("nop monitor should not forward to the previous one")
	}
}
