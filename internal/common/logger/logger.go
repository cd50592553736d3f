/*******************************************************************************
* Copyright (C) 2026 the Eclipse BaSyx Authors and Fraunhofer IESE
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

// Package logger provides centralized logging functionality for the AAS data plane.
package logger

import (
	"log"
	"os"
	"strconv"
	"sync/atomic"
)

// logger is shared by all data plane packages.
var logger = log.New(os.Stderr, "[AasDataPlane] ", log.LstdFlags|log.Lshortfile)

var debugEnabled atomic.Bool

func init() {
	debugEnabled.Store(os.Getenv("AASDP_DEBUG") != "")
}

// LogError logs an error with context information.
//
// Parameters:
//   - context: A description of where/when the error occurred
//   - err: The error that occurred
func LogError(context string, err error) {
	if err != nil {
		logger.Printf("ERROR: %s: %v", context, err)
	}
}

// LogInfo logs an informational message.
//
// Parameters:
//   - message: The message to log
func LogInfo(message string) {
	logger.Printf("INFO: %s", message)
}

// LogWarning logs a warning message.
//
// Parameters:
//   - message: The warning message to log
func LogWarning(message string) {
	logger.Printf("WARN: %s", message)
}

// LogDebug logs a debug message if debug logging is enabled.
//
// Parameters:
//   - message: The debug message to log
func LogDebug(message string) {
	if debugEnabled.Load() {
		logger.Printf("DEBUG: %s", message)
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// LogRequest logs an outgoing request to an AAS service.
//
// Parameters:
//   - method: The HTTP method
//   - url: The target URL
//   - status: The response status code, 0 if the request failed
func LogRequest(method string, url string, status int) {
	if status == 0 {
		logger.Printf("WARN: %s %s failed", method, url)
		return
	}
	LogDebug(method + " " + url + " -> " + strconv.Itoa(status))
}
