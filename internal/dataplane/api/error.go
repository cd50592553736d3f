package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
)

// ParsingError indicates that the request could not be read.
type ParsingError struct {
	Param string
	Err   error
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

func (e *ParsingError) Error() string {
	if e.Param == "" {
		return e.Err.Error()
	}
	return e.Param + ": " + e.Err.Error()
}

// Result is the body of an error response.
type Result struct {
	Messages []*common.ErrorHandler `json:"messages"`
}

// ErrorHandler writes err to w. Inject a custom one into a controller to
// change how errors are reported.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler maps err to its status code and writes a Result.
// Parsing errors are always 400.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var parsingErr *ParsingError
	if errors.As(err, &parsingErr) {
		err = common.NewErrBadRequest(err.Error())
	}
	status := common.StatusCodeOf(err)
	if status >= http.StatusInternalServerError {
		logger.LogError(r.Method+" "+r.URL.Path, err)
	}
	body := Result{Messages: []*common.ErrorHandler{common.NewErrorResponse(err, strconv.Itoa(status))}}
	_ = EncodeJSONResponse(body, &status, w)
}
