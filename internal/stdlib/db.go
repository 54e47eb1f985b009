package stdlib

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"jabroni/internal/errs"
	"jabroni/internal/value"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	dbConnections  = map[int32]*sql.DB{}
	dbTransactions = map[int32]*sql.Tx{}
	nextDbHandle   int32
)

// DbObject builds the db record: native subroutines over database/sql with
// the sqlite3, mysql and postgres drivers registered. Handles are Numbers;
// scripts thread them through every call.
func DbObject() *value.Object {
	fields := value.NewScope()
	fields.Set("connect", value.Constant(fnDbConnect()))
	fields.Set("exec", value.Constant(fnDbExec()))
	fields.Set("scalar", value.Constant(fnDbScalar()))
	fields.Set("begin", value.Constant(fnDbBegin()))
	fields.Set("commit", value.Constant(fnDbCommit()))
	fields.Set("rollback", value.Constant(fnDbRollback()))
	fields.Set("close", value.Constant(fnDbClose()))
	return &value.Object{Fields: fields}
}

func fnDbConnect() *value.Subroutine {
	return value.NewSubroutine(2, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		driver, err := unpackString(args[0], "connect driver")
		if err != nil {
			return nil, err
		}
		dsn, err := unpackString(args[1], "connect dsn")
		if err != nil {
			return nil, err
		}

		db, openErr := sql.Open(driver, dsn)
		if openErr != nil {
			return nil, errs.Exception("failed to open connection: %v", openErr)
		}
		if pingErr := db.Ping(); pingErr != nil {
			return nil, errs.Exception("failed to ping database: %v", pingErr)
		}

		nextDbHandle++
		handle := nextDbHandle
		dbConnections[handle] = db
		slog.Debug("db connection opened",
			slog.String("driver", driver),
			slog.Int("handle", int(handle)))
		return &value.Number{Value: handle}, nil
	})
}

func fnDbExec() *value.Subroutine {
	return value.NewSubroutine(2, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		handle, db, err := unpackConnection(args[0])
		if err != nil {
			return nil, err
		}
		query, err := unpackString(args[1], "exec sql")
		if err != nil {
			return nil, err
		}

		var result sql.Result
		var execErr error
		if tx, isTx := dbTransactions[handle]; isTx {
			result, execErr = tx.Exec(query)
		} else {
			result, execErr = db.Exec(query)
		}
		if execErr != nil {
			return nil, errs.Exception("exec failed: %v", execErr)
		}

		affected, _ := result.RowsAffected()
		return &value.Number{Value: int32(affected)}, nil
	})
}

// fnDbScalar runs a query expected to produce a single value: the first
// column of the first row, mapped to a jabroni value.
func fnDbScalar() *value.Subroutine {
	return value.NewSubroutine(2, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		handle, db, err := unpackConnection(args[0])
		if err != nil {
			return nil, err
		}
		query, err := unpackString(args[1], "scalar sql")
		if err != nil {
			return nil, err
		}

		var raw interface{}
		var scanErr error
		if tx, isTx := dbTransactions[handle]; isTx {
			scanErr = tx.QueryRow(query).Scan(&raw)
		} else {
			scanErr = db.QueryRow(query).Scan(&raw)
		}
		if scanErr != nil {
			return nil, errs.Exception("scalar query failed: %v", scanErr)
		}

		return mapSqlValue(raw), nil
	})
}

func fnDbBegin() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		handle, db, err := unpackConnection(args[0])
		if err != nil {
			return nil, err
		}
		tx, beginErr := db.Begin()
		if beginErr != nil {
			return nil, errs.Exception("failed to begin transaction: %v", beginErr)
		}
		dbTransactions[handle] = tx
		return args[0], nil
	})
}

func fnDbCommit() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		handle, err := unpackNumber(args[0], "commit handle")
		if err != nil {
			return nil, err
		}
		tx, ok := dbTransactions[handle]
		if !ok {
			return nil, errs.Exception("invalid transaction handle")
		}
		if commitErr := tx.Commit(); commitErr != nil {
			return nil, errs.Exception("failed to commit transaction: %v", commitErr)
		}
		delete(dbTransactions, handle)
		return args[0], nil
	})
}

func fnDbRollback() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		handle, err := unpackNumber(args[0], "rollback handle")
		if err != nil {
			return nil, err
		}
		tx, ok := dbTransactions[handle]
		if !ok {
			return nil, errs.Exception("invalid transaction handle")
		}
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return nil, errs.Exception("failed to rollback transaction: %v", rollbackErr)
		}
		delete(dbTransactions, handle)
		return args[0], nil
	})
}

func fnDbClose() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		handle, err := unpackNumber(args[0], "close handle")
		if err != nil {
			return nil, err
		}
		if tx, ok := dbTransactions[handle]; ok {
			_ = tx.Rollback()
			delete(dbTransactions, handle)
		}
		if db, ok := dbConnections[handle]; ok {
			_ = db.Close()
			delete(dbConnections, handle)
		}
		return value.NULL, nil
	})
}

func unpackConnection(v value.Value) (int32, *sql.DB, error) {
	handle, err := unpackNumber(v, "connection handle")
	if err != nil {
		return 0, nil, err
	}
	db, ok := dbConnections[handle]
	if !ok {
		return 0, nil, errs.Exception("invalid connection handle")
	}
	return handle, db, nil
}

func unpackString(v value.Value, what string) (string, error) {
	s, ok := v.(*value.String)
	if !ok {
		return "", errs.Type("%s must be a string, got %s", what, v.Type())
	}
	return s.Value, nil
}

func unpackNumber(v value.Value, what string) (int32, error) {
	n, ok := v.(*value.Number)
	if !ok {
		return 0, errs.Type("%s must be a number, got %s", what, v.Type())
	}
	return n.Value, nil
}

func mapSqlValue(v interface{}) value.Value {
	if v == nil {
		return value.NULL
	}
	switch x := v.(type) {
	case int64:
		return &value.Number{Value: int32(x)}
	case []byte:
		return &value.String{Value: string(x)}
	case string:
		return &value.String{Value: x}
	case bool:
		return value.FromNativeBool(x)
	case time.Time:
		return &value.String{Value: x.Format(time.RFC3339)}
	default:
		return &value.String{Value: fmt.Sprintf("%v", v)}
	}
}
