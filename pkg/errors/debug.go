package errors

import (
	stdErrors "errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// ErrorDump flattens an error chain for the request log. The db_* fields are set when the
// chain holds a Postgres (pgx) or SQLite driver error.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Store     string `json:"db_store,omitempty"`
	DBCode    string `json:"db_code,omitempty"`
	DBMessage string `json:"db_message,omitempty"`
	DBDetail  string `json:"db_detail,omitempty"`
	DBTable   string `json:"db_table,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		d.Store = StorePostgres
		d.DBCode = pgErr.Code
		d.DBMessage = pgErr.Message
		d.DBDetail = pgErr.Detail
		d.DBTable = pgErr.TableName
		return d
	}

	var liteErr sqlite3.Error
	if stdErrors.As(err, &liteErr) {
		d.Store = StoreSQLite
		d.DBCode = strconv.Itoa(int(liteErr.ExtendedCode))
		d.DBMessage = liteErr.Error()
	}
	return d
}

// Fields renders the dump as log fields. Driver fields are included only when a driver
// error was found.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Store == "" {
		return fields
	}
	fields["db_store"] = d.Store
	fields["db_code"] = d.DBCode
	fields["db_message"] = d.DBMessage
	if d.DBDetail != "" {
		fields["db_detail"] = d.DBDetail
	}
	if d.DBTable != "" {
		fields["db_table"] = d.DBTable
	}
	return fields
}
