package ingest

import "fmt"

// ParseError reports an upload that could not be turned into a table.
// Line is 0 when the failure is not tied to a particular record.
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s line %d", e.File, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", where, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", where, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(file string, line int, msg string, err error) *ParseError {
	return &ParseError{File: file, Line: line, Msg: msg, Err: err}
}
