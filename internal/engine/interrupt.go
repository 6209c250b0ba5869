package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"
)

var errNoInterrupt = errors.New("driver connection does not support interrupts")

// interrupter calls sqlite3_interrupt on the engine's connection. The driver
// only honours a context while preparing a statement; rows stepped later in
// Rows.Next run to completion unless something interrupts them.
type interrupter struct {
	mu  sync.Locker
	db  *uintptr
	tls **libc.TLS
}

// newInterrupter captures the connection handle. The fields are read through
// pointers so a connection closed later is seen as closed.
func newInterrupter(driverConn any) (*interrupter, error) {
	locker, ok := driverConn.(sync.Locker)
	if !ok {
		return nil, errNoInterrupt
	}
	v := reflect.ValueOf(driverConn)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, errNoInterrupt
	}
	s := v.Elem()
	db := s.FieldByName("db")
	tls := s.FieldByName("tls")
	if !db.IsValid() || db.Kind() != reflect.Uintptr ||
		!tls.IsValid() || tls.Type() != reflect.TypeOf((*libc.TLS)(nil)) {
		return nil, errNoInterrupt
	}
	return &interrupter{
		mu:  locker,
		db:  (*uintptr)(unsafe.Pointer(db.UnsafeAddr())),
		tls: (**libc.TLS)(unsafe.Pointer(tls.UnsafeAddr())),
	}, nil
}

// connInterrupter borrows the pool's only connection to build an interrupter.
func connInterrupter(ctx context.Context, sqlDB *sql.DB) (*interrupter, error) {
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var intr *interrupter
	err = conn.Raw(func(driverConn any) error {
		var err error
		intr, err = newInterrupter(driverConn)
		return err
	})
	return intr, err
}

// interrupt aborts whatever statement is running. It takes the connection's
// own lock, the same one the driver holds while closing.
func (i *interrupter) interrupt() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if *i.db != 0 && *i.tls != nil {
		sqlite3.Xsqlite3_interrupt(*i.tls, *i.db)
	}
}

// watch interrupts the running statement once ctx is done. The returned stop
// function must be called before the connection is used again; it waits for
// an interrupt already in flight so none can land on a later statement.
func (i *interrupter) watch(ctx context.Context) (stop func()) {
	if i == nil || ctx.Done() == nil {
		return func() {}
	}
	fired := make(chan struct{})
	cancel := context.AfterFunc(ctx, func() {
		defer close(fired)
		i.interrupt()
	})
	return func() {
		if !cancel() {
			<-fired
		}
	}
}
