package di

import (
	"bytes"
	"errors"
	"sync"

	"github.com/kbukum/scopekit/logger"
)

// closeLog records Close calls in order.
type closeLog struct {
	mu    sync.Mutex
	names []string
}

func (l *closeLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

func (l *closeLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

type resource struct {
	name   string
	log    *closeLog
	closes int
	err    error
}

func newResource(name string, log *closeLog) *resource {
	return &resource{name: name, log: log}
}

func (r *resource) Close() error {
	r.closes++
	if r.log != nil {
		r.log.add(r.name)
	}
	return r.err
}

type panicCloser struct{ closes int }

func (p *panicCloser) Close() error {
	p.closes++
	panic("boom on close")
}

type Database struct {
	ConnString string
}

type Repository struct {
	DB *Database
}

type Greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

var errFactory = errors.New("factory failed")

// newTestContainer returns a root container logging JSON into buf.
func newTestContainer(buf *bytes.Buffer) *Container {
	if buf == nil {
		return New(WithName("test"), WithLogger(logger.NewNop()))
	}
	return New(WithName("test"), WithLogger(logger.NewWithWriter(buf, "debug", "di-test")))
}

func mustRegister(t interface{ Fatalf(string, ...any) }, err error) {
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
}
