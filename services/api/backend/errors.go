// Copyright 2025 The TGV Tracker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import "fmt"

// UnknownTableError is raised when a request targets a table that doesn't
// exist in the underlying storage
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("no table [%s] found", e.Table)
}

// UnexpectedError wraps any internal storage error
type UnexpectedError struct {
	err error
}

func NewUnexpectedError(format string, a ...interface{}) error {
	return &UnexpectedError{err: fmt.Errorf(format, a...)}
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %s", e.err.Error())
}

func (e *UnexpectedError) Unwrap() error {
	return e.err
}
