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

// Package dataplane runs AAS data flows. Pull flows expose a public proxy
// endpoint that forwards consumer requests to the AAS service; push flows read
// from the source and write the result to the destination.
package dataplane

import (
	"context"
	"time"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
)

// FlowType selects how data moves.
type FlowType string

const (
	FlowTypePull FlowType = "PULL"
	FlowTypePush FlowType = "PUSH"
)

// FlowState is the lifecycle state of a flow.
type FlowState string

const (
	FlowStateStarted    FlowState = "STARTED"
	FlowStateCompleted  FlowState = "COMPLETED"
	FlowStateFailed     FlowState = "FAILED"
	FlowStateTerminated FlowState = "TERMINATED"
)

// StartRequest starts a flow.
type StartRequest struct {
	// ID is optional; a uuid is assigned if empty.
	ID          string                  `json:"id,omitempty"`
	FlowType    FlowType                `json:"flowType" validate:"required,oneof=PULL PUSH"`
	Source      dataaddress.DataAddress `json:"sourceDataAddress"`
	Destination dataaddress.DataAddress `json:"destinationDataAddress"`
}

// Flow is a snapshot of a flow.
type Flow struct {
	ID        string    `json:"id"`
	Type      FlowType  `json:"flowType"`
	State     FlowState `json:"state"`
	Error     string    `json:"errorDetail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// EndpointDataReference is the address a consumer uses to pull data.
	EndpointDataReference *dataaddress.DataAddress `json:"dataAddress,omitempty"`
}

// IsFinal reports whether the flow can no longer change state.
func (f Flow) IsFinal() bool {
	return f.State != FlowStateStarted
}

type flowEntry struct {
	flow        Flow
	source      *dataaddress.AasDataAddress
	destination *dataaddress.AasDataAddress
	cancel      context.CancelFunc
	done        chan struct{}
}
