package logging

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultRemoteBuffer  = 64
	defaultRemoteTimeout = 2 * time.Second
)

// RemoteSink receives log lines mirrored to the breeding service.
type RemoteSink interface {
	Log(ctx context.Context, level Level, msg string) error
}

type remoteLine struct {
	level Level
	msg   string
}

type remoteForwarder struct {
	sink      RemoteSink
	lines     chan remoteLine
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	timeout   time.Duration
	dropped   atomic.Int64
}

type remoteLogger struct {
	base   Logger
	fields []Field
	fwd    *remoteForwarder
}

// NewRemote mirrors info and error lines to sink without blocking the caller.
// Debug lines stay local. Lines are dropped when the buffer is full. The
// returned func flushes pending lines and stops the forwarder.
func NewRemote(base Logger, sink RemoteSink, buffer int) (Logger, func()) {
	if base == nil {
		base = Nop()
	}
	if sink == nil {
		return base, func() {}
	}
	if buffer <= 0 {
		buffer = defaultRemoteBuffer
	}
	fwd := &remoteForwarder{
		sink:    sink,
		lines:   make(chan remoteLine, buffer),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		timeout: defaultRemoteTimeout,
	}
	go fwd.run()
	return &remoteLogger{base: base, fwd: fwd}, fwd.close
}

func (l *remoteLogger) Enabled(level Level) bool {
	return l.base.Enabled(level)
}

func (l *remoteLogger) With(fields ...Field) Logger {
	return &remoteLogger{
		base:   l.base.With(fields...),
		fields: append(append([]Field{}, l.fields...), fields...),
		fwd:    l.fwd,
	}
}

func (l *remoteLogger) Debug(msg string, fields ...Field) {
	l.base.Debug(msg, fields...)
}

func (l *remoteLogger) Info(msg string, fields ...Field) {
	l.base.Info(msg, fields...)
	l.forward(Info, msg, fields)
}

func (l *remoteLogger) Warn(msg string, fields ...Field) {
	l.base.Warn(msg, fields...)
	l.forward(Warn, msg, fields)
}

func (l *remoteLogger) Error(msg string, fields ...Field) {
	l.base.Error(msg, fields...)
	l.forward(Error, msg, fields)
}

func (l *remoteLogger) forward(level Level, msg string, fields []Field) {
	if !l.base.Enabled(level) {
		return
	}
	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	text := strings.TrimSpace(msg)
	if len(all) > 0 {
		text += " " + FormatFields(all)
	}
	l.fwd.enqueue(remoteLine{level: level, msg: text})
}

func (f *remoteForwarder) enqueue(line remoteLine) {
	select {
	case <-f.stop:
		return
	default:
	}
	select {
	case f.lines <- line:
	default:
		f.dropped.Add(1)
	}
}

func (f *remoteForwarder) run() {
	defer close(f.done)
	for {
		select {
		case line := <-f.lines:
			f.send(line)
		case <-f.stop:
			for {
				select {
				case line := <-f.lines:
					f.send(line)
				default:
					return
				}
			}
		}
	}
}

func (f *remoteForwarder) send(line remoteLine) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	_ = f.sink.Log(ctx, line.level, line.msg)
}

func (f *remoteForwarder) close() {
	f.closeOnce.Do(func() {
		close(f.stop)
	})
	<-f.done
}
